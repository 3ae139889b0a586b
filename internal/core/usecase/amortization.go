package usecase

import (
	"math"

	"marketplace-service/internal/constants"
	"marketplace-service/internal/core/domain"
)

// ComputeAmortization считает аннуитетный платеж по КПР.
// Вызывающий код гарантирует Principal > 0; нечисловые результаты заменяются нулем.
func ComputeAmortization(in domain.MortgageInput) domain.MortgageResult {
	downPayment := in.Principal * float64(in.DownPaymentPercent) / 100
	loanAmount := in.Principal - downPayment
	monthlyRate := (in.AnnualInterestRatePercent / 100) / 12
	totalMonths := in.TenorYears * 12

	var monthlyInstallment, totalInterest float64
	switch {
	case totalMonths <= 0:
		// срок не задан - платить нечего, остается только первоначальный взнос и тело
	case monthlyRate == 0:
		monthlyInstallment = loanAmount / float64(totalMonths)
	default:
		growth := math.Pow(1+monthlyRate, float64(totalMonths))
		monthlyInstallment = loanAmount * (monthlyRate * growth) / (growth - 1)
		totalInterest = monthlyInstallment*float64(totalMonths) - loanAmount
	}

	result := domain.MortgageResult{
		DownPayment:        finiteOrZero(downPayment),
		LoanAmount:         finiteOrZero(loanAmount),
		MonthlyInstallment: finiteOrZero(monthlyInstallment),
		TotalInterest:      finiteOrZero(totalInterest),
		TotalMonths:        totalMonths,
	}
	result.TotalPayment = result.TotalInterest + result.LoanAmount + result.DownPayment
	return result
}

// BuildSchedule раскладывает каждый платеж на проценты и тело долга.
func BuildSchedule(in domain.MortgageInput, result domain.MortgageResult) []domain.ScheduleRow {
	if result.TotalMonths <= 0 || result.LoanAmount <= 0 {
		return []domain.ScheduleRow{}
	}

	monthlyRate := (in.AnnualInterestRatePercent / 100) / 12
	balance := result.LoanAmount
	rows := make([]domain.ScheduleRow, 0, result.TotalMonths)

	for month := 1; month <= result.TotalMonths; month++ {
		interest := balance * monthlyRate
		principal := result.MonthlyInstallment - interest
		balance -= principal

		if month == result.TotalMonths {
			// последний платеж гасит остаток, накопленный из-за погрешности float
			principal += balance
			balance = 0
		}

		rows = append(rows, domain.ScheduleRow{
			Month:            month,
			Installment:      result.MonthlyInstallment,
			InterestPart:     finiteOrZero(interest),
			PrincipalPart:    finiteOrZero(principal),
			RemainingBalance: finiteOrZero(balance),
		})
	}
	return rows
}

// NormalizeMortgageInput приводит параметры к допустимым значениям формы:
// взнос [10,50] с шагом 5, срок из списка разрешенных, ставка [3,15] с дефолтом 6.75.
func NormalizeMortgageInput(in domain.MortgageInput) domain.MortgageInput {
	out := in
	out.Principal = finiteOrZero(in.Principal)
	out.DownPaymentPercent = clampDownPayment(in.DownPaymentPercent)
	out.TenorYears = nearestTenor(in.TenorYears)
	out.AnnualInterestRatePercent = clampCommittedRate(in.AnnualInterestRatePercent)
	return out
}

func clampDownPayment(percent int) int {
	if percent < constants.MinDownPaymentPercent {
		return constants.MinDownPaymentPercent
	}
	if percent > constants.MaxDownPaymentPercent {
		return constants.MaxDownPaymentPercent
	}
	step := constants.DownPaymentPercentStep
	return int(math.Round(float64(percent)/float64(step))) * step
}

// nearestTenor выбирает ближайший разрешенный срок.
func nearestTenor(years int) int {
	best := constants.AllowedTenorsYears[0]
	for _, allowed := range constants.AllowedTenorsYears {
		if absInt(allowed-years) < absInt(best-years) {
			best = allowed
		}
	}
	return best
}

func clampCommittedRate(rate float64) float64 {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < constants.MinCommittedInterestRate {
		return constants.DefaultInterestRate
	}
	if rate > constants.MaxInterestRate {
		return constants.MaxInterestRate
	}
	return rate
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
