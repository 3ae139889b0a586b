package currency_test

import (
	"math"
	"testing"

	"marketplace-service/pkg/currency"

	"github.com/stretchr/testify/assert"
)

func TestFormatRupiah(t *testing.T) {
	cases := map[string]struct {
		amount float64
		want   string
	}{
		"millions":        {amount: 2500000, want: "Rp 2.500.000"},
		"rounds half up":  {amount: 999.5, want: "Rp 1.000"},
		"drops decimals":  {amount: 1234.4, want: "Rp 1.234"},
		"zero":            {amount: 0, want: "Rp 0"},
		"small":           {amount: 750, want: "Rp 750"},
		"NaN falls back":  {amount: math.NaN(), want: "Rp 0"},
		"Inf falls back":  {amount: math.Inf(1), want: "Rp 0"},
		"negative amount": {amount: -15000, want: "-Rp 15.000"},
		"beyond int64":    {amount: 1e19, want: "Rp 10.000.000.000.000.000.000"},
		"negative huge":   {amount: -1e19, want: "-Rp 10.000.000.000.000.000.000"},
		"tiny negative":   {amount: -0.4, want: "Rp 0"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, currency.FormatRupiah(tc.amount))
		})
	}
}
