package port

import (
	"context"
	"marketplace-service/internal/core/domain"

	"github.com/google/uuid"
)

type PropertyPricingPort interface {
	// GetPricing возвращает domain.ErrPropertyNotFound, если объявления нет
	GetPricing(ctx context.Context, id uuid.UUID) (*domain.PropertyPricing, error)
}
