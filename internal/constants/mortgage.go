package constants

// Ограничения калькулятора КПР
const (
	MinDownPaymentPercent     = 10
	MaxDownPaymentPercent     = 50
	DownPaymentPercentStep    = 5
	DefaultDownPaymentPercent = 20

	DefaultTenorYears = 15

	// Во время ввода допускается [0, 15], при потере фокуса ставка не может быть ниже 3
	MinTypedInterestRate     = 0.0
	MaxInterestRate          = 15.0
	MinCommittedInterestRate = 3.0
	DefaultInterestRate      = 6.75
)

// AllowedTenorsYears - допустимые сроки кредита в годах, по возрастанию
var AllowedTenorsYears = []int{5, 10, 15, 20}
