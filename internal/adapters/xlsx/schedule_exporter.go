package xlsx

import (
	"bytes"
	"fmt"
	"marketplace-service/internal/core/domain"

	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet  = "Ringkasan"
	ScheduleSheet = "Jadwal Angsuran"

	// рупии без дробной части, с разделителем тысяч
	rupiahNumFmt = `"Rp" #,##0`
)

var scheduleHeader = []string{"Bulan", "Angsuran", "Bunga", "Pokok", "Sisa Pinjaman"}

// ScheduleExporter выгружает расчет КПР и помесячный график в xlsx.
type ScheduleExporter struct{}

func NewScheduleExporter() *ScheduleExporter {
	return &ScheduleExporter{}
}

func (e *ScheduleExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *ScheduleExporter) FileExtension() string {
	return "xlsx"
}

func (e *ScheduleExporter) Export(input domain.MortgageInput, result domain.MortgageResult, rows []domain.ScheduleRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(ScheduleSheet); err != nil {
		return nil, fmt.Errorf("failed to create schedule sheet: %w", err)
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr(rupiahNumFmt)})
	if err != nil {
		return nil, fmt.Errorf("failed to create money style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummary(f, input, result, moneyStyle); err != nil {
		return nil, err
	}
	if err := writeSchedule(f, rows, headerStyle, moneyStyle); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, input domain.MortgageInput, result domain.MortgageResult, moneyStyle int) error {
	summary := []struct {
		label string
		value any
		money bool
	}{
		{"Harga Properti", input.Principal, true},
		{"Uang Muka (%)", input.DownPaymentPercent, false},
		{"Uang Muka", result.DownPayment, true},
		{"Jumlah Pinjaman", result.LoanAmount, true},
		{"Tenor (tahun)", input.TenorYears, false},
		{"Suku Bunga (% per tahun)", input.AnnualInterestRatePercent, false},
		{"Angsuran per Bulan", result.MonthlyInstallment, true},
		{"Total Bunga", result.TotalInterest, true},
		{"Total Pembayaran", result.TotalPayment, true},
	}

	for i, item := range summary {
		row := i + 1
		if err := f.SetCellValue(SummarySheet, fmt.Sprintf("A%d", row), item.label); err != nil {
			return fmt.Errorf("failed to write summary label: %w", err)
		}
		valueCell := fmt.Sprintf("B%d", row)
		if err := f.SetCellValue(SummarySheet, valueCell, item.value); err != nil {
			return fmt.Errorf("failed to write summary value: %w", err)
		}
		if item.money {
			if err := f.SetCellStyle(SummarySheet, valueCell, valueCell, moneyStyle); err != nil {
				return fmt.Errorf("failed to style summary value: %w", err)
			}
		}
	}
	return f.SetColWidth(SummarySheet, "A", "B", 26)
}

func writeSchedule(f *excelize.File, rows []domain.ScheduleRow, headerStyle, moneyStyle int) error {
	if err := f.SetSheetRow(ScheduleSheet, "A1", &scheduleHeader); err != nil {
		return fmt.Errorf("failed to write schedule header: %w", err)
	}
	if err := f.SetCellStyle(ScheduleSheet, "A1", "E1", headerStyle); err != nil {
		return fmt.Errorf("failed to style schedule header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		values := []any{r.Month, r.Installment, r.InterestPart, r.PrincipalPart, r.RemainingBalance}
		if err := f.SetSheetRow(ScheduleSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write schedule row %d: %w", r.Month, err)
		}
	}

	if len(rows) > 0 {
		last := fmt.Sprintf("E%d", len(rows)+1)
		if err := f.SetCellStyle(ScheduleSheet, "B2", last, moneyStyle); err != nil {
			return fmt.Errorf("failed to style schedule amounts: %w", err)
		}
	}
	if err := f.SetColWidth(ScheduleSheet, "A", "A", 8); err != nil {
		return err
	}
	return f.SetColWidth(ScheduleSheet, "B", "E", 20)
}

func strPtr(s string) *string {
	return &s
}
