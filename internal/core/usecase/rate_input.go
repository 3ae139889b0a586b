package usecase

import (
	"strconv"
	"strings"

	"marketplace-service/internal/constants"
	"marketplace-service/internal/core/domain"
)

// SanitizeRateKeystroke обрабатывает очередное значение поля ставки во время ввода.
// Ведущие нули срезаются, пустая строка и одиночная точка дают 0.
// Значение вне [0, 15] или нечисловой ввод отклоняются: поле остается с предыдущим текстом.
func SanitizeRateKeystroke(previous, typed string) domain.RateInput {
	text := stripLeadingZeros(strings.TrimSpace(typed))

	value, ok := parseRateText(text)
	if !ok || value < constants.MinTypedInterestRate || value > constants.MaxInterestRate {
		prevText := stripLeadingZeros(strings.TrimSpace(previous))
		prevValue, _ := parseRateText(prevText)
		return domain.RateInput{Text: prevText, Value: prevValue, Accepted: false}
	}

	return domain.RateInput{Text: text, Value: value, Accepted: true}
}

// CommitRate вызывается при потере фокуса: пустое значение или ставка ниже 3
// заменяются значением по умолчанию.
func CommitRate(text string) domain.RateInput {
	cleaned := stripLeadingZeros(strings.TrimSpace(text))
	value, ok := parseRateText(cleaned)

	if !ok || cleaned == "" || cleaned == "." || value < constants.MinCommittedInterestRate {
		return domain.RateInput{
			Text:     strconv.FormatFloat(constants.DefaultInterestRate, 'f', -1, 64),
			Value:    constants.DefaultInterestRate,
			Accepted: true,
		}
	}
	if value > constants.MaxInterestRate {
		value = constants.MaxInterestRate
		cleaned = strconv.FormatFloat(value, 'f', -1, 64)
	}
	return domain.RateInput{Text: cleaned, Value: value, Accepted: true}
}

// stripLeadingZeros: "002.75" -> "2.75", "00" -> "0", "00.5" -> "0.5"
func stripLeadingZeros(s string) string {
	for len(s) > 1 && s[0] == '0' && s[1] != '.' {
		s = s[1:]
	}
	return s
}

func parseRateText(s string) (float64, bool) {
	if s == "" || s == "." {
		return 0, true
	}
	// только цифры и точка: ParseFloat понимает "NaN", "1e2" и знак, форме это не нужно
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return 0, false
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// RateInputUseCase отдает правила поля ставки клиенту, который не держит их у себя.
type RateInputUseCase struct{}

func NewRateInputUseCase() *RateInputUseCase {
	return &RateInputUseCase{}
}

func (RateInputUseCase) Keystroke(previous, typed string) domain.RateInput {
	return SanitizeRateKeystroke(previous, typed)
}

func (RateInputUseCase) Commit(text string) domain.RateInput {
	return CommitRate(text)
}
