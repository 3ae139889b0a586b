package usecases_port

import (
	"context"
	"marketplace-service/internal/core/domain"

	"github.com/google/uuid"
)

// PropertyMortgageParams - параметры калькулятора без цены: цена берется из объявления.
type PropertyMortgageParams struct {
	DownPaymentPercent        int
	TenorYears                int
	AnnualInterestRatePercent float64
}

type GetPropertyMortgageUseCase interface {
	Execute(ctx context.Context, propertyID uuid.UUID, params PropertyMortgageParams) (*domain.MortgageQuote, error)
}
