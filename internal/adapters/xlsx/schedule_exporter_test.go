package xlsx

import (
	"bytes"
	"strconv"
	"testing"

	"marketplace-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestScheduleExporter_Export(t *testing.T) {
	input := domain.MortgageInput{Principal: 120_000_000, DownPaymentPercent: 20, TenorYears: 5, AnnualInterestRatePercent: 0}
	result := domain.MortgageResult{
		DownPayment:        24_000_000,
		LoanAmount:         96_000_000,
		MonthlyInstallment: 1_600_000,
		TotalPayment:       96_000_000,
		TotalMonths:        60,
	}
	rows := []domain.ScheduleRow{
		{Month: 1, Installment: 1_600_000, PrincipalPart: 1_600_000, RemainingBalance: 94_400_000},
		{Month: 2, Installment: 1_600_000, PrincipalPart: 1_600_000, RemainingBalance: 92_800_000},
	}

	exporter := NewScheduleExporter()
	data, err := exporter.Export(input, result, rows)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "xlsx", exporter.FileExtension())

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, ScheduleSheet}, f.GetSheetList())

	label, err := f.GetCellValue(SummarySheet, "A7")
	require.NoError(t, err)
	assert.Equal(t, "Angsuran per Bulan", label)

	sheetRows, err := f.GetRows(ScheduleSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, sheetRows, 3)
	assert.Equal(t, scheduleHeader, sheetRows[0])
	assert.Equal(t, "2", sheetRows[2][0])

	balance, err := strconv.ParseFloat(sheetRows[2][4], 64)
	require.NoError(t, err)
	assert.InDelta(t, 92_800_000, balance, 0.001)
}

func TestScheduleExporter_EmptySchedule(t *testing.T) {
	data, err := NewScheduleExporter().Export(domain.MortgageInput{}, domain.MortgageResult{}, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ScheduleSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
