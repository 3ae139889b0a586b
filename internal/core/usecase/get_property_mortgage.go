package usecase

import (
	"context"
	"errors"
	"fmt"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
	"marketplace-service/internal/core/port/usecases_port"

	"github.com/google/uuid"
)

type GetPropertyMortgageUseCase struct {
	storage port.PropertyPricingPort
}

func NewGetPropertyMortgageUseCase(storage port.PropertyPricingPort) *GetPropertyMortgageUseCase {
	return &GetPropertyMortgageUseCase{storage: storage}
}

// Execute считает КПР по цене объявления (промо-цена приоритетнее обычной).
func (uc *GetPropertyMortgageUseCase) Execute(ctx context.Context, propertyID uuid.UUID, params usecases_port.PropertyMortgageParams) (*domain.MortgageQuote, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "GetPropertyMortgage",
		"property_id": propertyID.String(),
	})

	pricing, err := uc.storage.GetPricing(ctx, propertyID)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			ucLogger.Warn("Property not found", nil)
			return nil, err
		}
		ucLogger.Error("Failed to load property pricing", err, nil)
		return nil, fmt.Errorf("could not load property pricing: %w", err)
	}

	input := NormalizeMortgageInput(domain.MortgageInput{
		Principal:                 pricing.EffectivePrice(),
		DownPaymentPercent:        params.DownPaymentPercent,
		TenorYears:                params.TenorYears,
		AnnualInterestRatePercent: params.AnnualInterestRatePercent,
	})

	quote := &domain.MortgageQuote{
		Property: *pricing,
		Input:    input,
	}

	if input.Principal <= 0 {
		ucLogger.Info("Property has no positive price, calculator is not available", nil)
		return quote, nil
	}

	quote.Result = ComputeAmortization(input)
	quote.Available = true

	ucLogger.Info("Mortgage quote calculated", port.Fields{
		"principal":           input.Principal,
		"monthly_installment": quote.Result.MonthlyInstallment,
	})
	return quote, nil
}
