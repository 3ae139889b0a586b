package rest

import (
	"marketplace-service/internal/constants"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port/usecases_port"
	"marketplace-service/pkg/currency"
)

// --- калькулятор КПР ---

// MortgageRequest - параметры формы. Неуказанные поля берутся по умолчанию (20%, 15 лет, 6.75%).
type MortgageRequest struct {
	Principal                 float64  `json:"principal"`
	DownPaymentPercent        *int     `json:"down_payment_percent,omitempty"`
	TenorYears                *int     `json:"tenor_years,omitempty"`
	AnnualInterestRatePercent *float64 `json:"annual_interest_rate_percent,omitempty"`
}

func (r MortgageRequest) toDomain() domain.MortgageInput {
	in := domain.MortgageInput{
		Principal:                 r.Principal,
		DownPaymentPercent:        constants.DefaultDownPaymentPercent,
		TenorYears:                constants.DefaultTenorYears,
		AnnualInterestRatePercent: constants.DefaultInterestRate,
	}
	if r.DownPaymentPercent != nil {
		in.DownPaymentPercent = *r.DownPaymentPercent
	}
	if r.TenorYears != nil {
		in.TenorYears = *r.TenorYears
	}
	if r.AnnualInterestRatePercent != nil {
		in.AnnualInterestRatePercent = *r.AnnualInterestRatePercent
	}
	return in
}

type MortgageInputResponse struct {
	Principal                 float64 `json:"principal"`
	DownPaymentPercent        int     `json:"down_payment_percent"`
	TenorYears                int     `json:"tenor_years"`
	AnnualInterestRatePercent float64 `json:"annual_interest_rate_percent"`
}

// FormattedMortgage - те же суммы в виде "Rp 1.234.567" для отображения
type FormattedMortgage struct {
	Principal          string `json:"principal"`
	DownPayment        string `json:"down_payment"`
	LoanAmount         string `json:"loan_amount"`
	MonthlyInstallment string `json:"monthly_installment"`
	TotalInterest      string `json:"total_interest"`
	TotalPayment       string `json:"total_payment"`
}

type MortgageResultResponse struct {
	DownPayment        float64           `json:"down_payment"`
	LoanAmount         float64           `json:"loan_amount"`
	MonthlyInstallment float64           `json:"monthly_installment"`
	TotalInterest      float64           `json:"total_interest"`
	TotalPayment       float64           `json:"total_payment"`
	TotalMonths        int               `json:"total_months"`
	Formatted          FormattedMortgage `json:"formatted"`
}

type ScheduleRowResponse struct {
	Month            int     `json:"month"`
	Installment      float64 `json:"installment"`
	InterestPart     float64 `json:"interest_part"`
	PrincipalPart    float64 `json:"principal_part"`
	RemainingBalance float64 `json:"remaining_balance"`
}

type MortgageCalculationResponse struct {
	Input    MortgageInputResponse  `json:"input"`
	Result   MortgageResultResponse `json:"result"`
	Schedule []ScheduleRowResponse  `json:"schedule,omitempty"`
}

func toInputResponse(in domain.MortgageInput) MortgageInputResponse {
	return MortgageInputResponse{
		Principal:                 in.Principal,
		DownPaymentPercent:        in.DownPaymentPercent,
		TenorYears:                in.TenorYears,
		AnnualInterestRatePercent: in.AnnualInterestRatePercent,
	}
}

func toResultResponse(principal float64, r domain.MortgageResult) MortgageResultResponse {
	return MortgageResultResponse{
		DownPayment:        r.DownPayment,
		LoanAmount:         r.LoanAmount,
		MonthlyInstallment: r.MonthlyInstallment,
		TotalInterest:      r.TotalInterest,
		TotalPayment:       r.TotalPayment,
		TotalMonths:        r.TotalMonths,
		Formatted: FormattedMortgage{
			Principal:          currency.FormatRupiah(principal),
			DownPayment:        currency.FormatRupiah(r.DownPayment),
			LoanAmount:         currency.FormatRupiah(r.LoanAmount),
			MonthlyInstallment: currency.FormatRupiah(r.MonthlyInstallment),
			TotalInterest:      currency.FormatRupiah(r.TotalInterest),
			TotalPayment:       currency.FormatRupiah(r.TotalPayment),
		},
	}
}

func toCalculationResponse(calc domain.MortgageCalculation) MortgageCalculationResponse {
	resp := MortgageCalculationResponse{
		Input:  toInputResponse(calc.Input),
		Result: toResultResponse(calc.Input.Principal, calc.Result),
	}
	if calc.Schedule != nil {
		resp.Schedule = make([]ScheduleRowResponse, 0, len(calc.Schedule))
		for _, row := range calc.Schedule {
			resp.Schedule = append(resp.Schedule, ScheduleRowResponse(row))
		}
	}
	return resp
}

// RateInputRequest: commit=false - очередное нажатие клавиши, commit=true - потеря фокуса
type RateInputRequest struct {
	Previous string `json:"previous"`
	Typed    string `json:"typed"`
	Commit   bool   `json:"commit"`
}

type RateInputResponse struct {
	Text     string  `json:"text"`
	Value    float64 `json:"value"`
	Accepted bool    `json:"accepted"`
}

// --- расчет по объявлению ---

type PropertyMortgageResponse struct {
	PropertyID     string                  `json:"property_id"`
	Title          string                  `json:"title"`
	Price          float64                 `json:"price"`
	PromoPrice     *float64                `json:"promo_price,omitempty"`
	EffectivePrice float64                 `json:"effective_price"`
	Currency       string                  `json:"currency"`
	Available      bool                    `json:"available"`
	Input          *MortgageInputResponse  `json:"input,omitempty"`
	Result         *MortgageResultResponse `json:"result,omitempty"`
}

func toPropertyMortgageResponse(q *domain.MortgageQuote) PropertyMortgageResponse {
	resp := PropertyMortgageResponse{
		PropertyID:     q.Property.ID.String(),
		Title:          q.Property.Title,
		Price:          q.Property.Price,
		PromoPrice:     q.Property.PromoPrice,
		EffectivePrice: q.Property.EffectivePrice(),
		Currency:       q.Property.Currency,
		Available:      q.Available,
	}
	if q.Available {
		input := toInputResponse(q.Input)
		result := toResultResponse(q.Input.Principal, q.Result)
		resp.Input = &input
		resp.Result = &result
	}
	return resp
}

// --- регионы ---

type RegionActionRequest struct {
	RegionID string `json:"region_id"`
}

type SelectorStateResponse struct {
	SessionID    string          `json:"session_id"`
	CurrentLevel string          `json:"current_level"`
	ParentRegion *domain.Region  `json:"parent_region"`
	VisibleList  []domain.Region `json:"visible_list"`
	Selection    []domain.Region `json:"selection"`
	// SearchParam - выбранные имена через запятую, параметр для поиска объявлений
	SearchParam string `json:"search_param"`
	Loaded      bool   `json:"loaded"`
	LastError   string `json:"last_error,omitempty"`
}

func toSelectorStateResponse(s usecases_port.SelectorState) SelectorStateResponse {
	resp := SelectorStateResponse{
		SessionID:    s.SessionID.String(),
		CurrentLevel: s.CurrentLevel.String(),
		ParentRegion: s.ParentRegion,
		VisibleList:  s.VisibleList,
		Selection:    s.Selection,
		SearchParam:  s.SearchParam,
		Loaded:       s.Loaded,
		LastError:    s.LastError,
	}
	if resp.VisibleList == nil {
		resp.VisibleList = []domain.Region{}
	}
	if resp.Selection == nil {
		resp.Selection = []domain.Region{}
	}
	return resp
}

type RegionListResponse struct {
	Level    string          `json:"level"`
	ParentID string          `json:"parent_id,omitempty"`
	Regions  []domain.Region `json:"regions"`
}
