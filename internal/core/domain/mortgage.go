package domain

// MortgageInput - входные данные калькулятора КПР.
type MortgageInput struct {
	Principal                 float64
	DownPaymentPercent        int
	TenorYears                int
	AnnualInterestRatePercent float64
}

// MortgageResult - итог расчета. Все суммы в валюте цены, без округления.
type MortgageResult struct {
	DownPayment        float64
	LoanAmount         float64
	MonthlyInstallment float64
	TotalInterest      float64
	TotalPayment       float64
	TotalMonths        int
}

// ScheduleRow - одна строка графика платежей.
type ScheduleRow struct {
	Month            int
	Installment      float64
	InterestPart     float64
	PrincipalPart    float64
	RemainingBalance float64
}

// MortgageQuote - расчет для конкретного объявления.
// Available=false означает, что у объекта нет положительной цены и калькулятор не показывается.
type MortgageQuote struct {
	Property  PropertyPricing
	Input     MortgageInput
	Result    MortgageResult
	Available bool
}

// MortgageCalculation - нормализованные параметры вместе с результатом и, при запросе, графиком.
type MortgageCalculation struct {
	Input    MortgageInput
	Result   MortgageResult
	Schedule []ScheduleRow
}

// ExportedFile - выгрузка графика для скачивания.
type ExportedFile struct {
	Name        string
	ContentType string
	Data        []byte
}
