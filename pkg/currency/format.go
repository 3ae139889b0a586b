package currency

import (
	"math"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	printerOnce sync.Once
	idPrinter   *message.Printer
)

func printer() *message.Printer {
	printerOnce.Do(func() {
		idPrinter = message.NewPrinter(language.Indonesian)
	})
	return idPrinter
}

// FormatRupiah форматирует сумму как "Rp 2.500.000": без дробной части,
// разделитель разрядов по индонезийской локали. NaN и бесконечность дают "Rp 0".
// Сумма остается float64 до самого вывода, поэтому значения за пределами int64 не переполняются.
func FormatRupiah(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "Rp 0"
	}
	// половина округляется от нуля; -0 превращаем в 0
	rounded := math.Round(amount)
	if rounded == 0 {
		return "Rp 0"
	}
	if rounded < 0 {
		return "-Rp " + formatWhole(-rounded)
	}
	return "Rp " + formatWhole(rounded)
}

func formatWhole(v float64) string {
	return printer().Sprint(number.Decimal(v, number.MaxFractionDigits(0)))
}
