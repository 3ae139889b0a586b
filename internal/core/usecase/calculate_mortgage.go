package usecase

import (
	"context"
	"fmt"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
)

const scheduleFileBaseName = "jadwal-angsuran-kpr"

type CalculateMortgageUseCase struct {
	exporter port.ScheduleExporterPort
}

func NewCalculateMortgageUseCase(exporter port.ScheduleExporterPort) *CalculateMortgageUseCase {
	return &CalculateMortgageUseCase{exporter: exporter}
}

// Execute нормализует параметры и считает платеж.
// Для неположительной цены калькулятор не показывается, поэтому результат нулевой.
func (uc *CalculateMortgageUseCase) Execute(ctx context.Context, input domain.MortgageInput) domain.MortgageCalculation {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "CalculateMortgage",
	})

	normalized := NormalizeMortgageInput(input)
	if normalized.Principal <= 0 {
		ucLogger.Debug("Non-positive principal, returning empty result", port.Fields{"principal": input.Principal})
		return domain.MortgageCalculation{Input: normalized}
	}

	result := ComputeAmortization(normalized)
	ucLogger.Debug("Mortgage calculated", port.Fields{
		"principal":           normalized.Principal,
		"down_payment_pct":    normalized.DownPaymentPercent,
		"tenor_years":         normalized.TenorYears,
		"interest_rate":       normalized.AnnualInterestRatePercent,
		"monthly_installment": result.MonthlyInstallment,
	})
	return domain.MortgageCalculation{Input: normalized, Result: result}
}

func (uc *CalculateMortgageUseCase) Schedule(ctx context.Context, input domain.MortgageInput) domain.MortgageCalculation {
	calc := uc.Execute(ctx, input)
	calc.Schedule = BuildSchedule(calc.Input, calc.Result)
	return calc
}

func (uc *CalculateMortgageUseCase) Export(ctx context.Context, input domain.MortgageInput) (*domain.ExportedFile, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "CalculateMortgage.Export"})

	if uc.exporter == nil {
		return nil, fmt.Errorf("schedule exporter is not configured")
	}

	calc := uc.Schedule(ctx, input)
	data, err := uc.exporter.Export(calc.Input, calc.Result, calc.Schedule)
	if err != nil {
		logger.Error("Failed to export schedule", err, nil)
		return nil, fmt.Errorf("failed to export schedule: %w", err)
	}

	logger.Info("Schedule exported", port.Fields{"rows": len(calc.Schedule), "bytes": len(data)})
	return &domain.ExportedFile{
		Name:        fmt.Sprintf("%s-%dth.%s", scheduleFileBaseName, calc.Input.TenorYears, uc.exporter.FileExtension()),
		ContentType: uc.exporter.ContentType(),
		Data:        data,
	}, nil
}
