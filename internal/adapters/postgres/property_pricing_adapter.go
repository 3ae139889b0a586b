package postgres

import (
	"context"
	"errors"
	"fmt"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// rowQuerier - часть pgxpool.Pool, нужная адаптеру
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PropertyPricingAdapter struct {
	pool rowQuerier
}

func NewPropertyPricingAdapter(pool rowQuerier) *PropertyPricingAdapter {
	return &PropertyPricingAdapter{pool: pool}
}

const getPricingQuery = `
	SELECT id, title, price, promo_price, currency
	FROM properties
	WHERE id = $1`

// GetPricing возвращает цену объекта и акционную цену, если она задана.
func (a *PropertyPricingAdapter) GetPricing(ctx context.Context, id uuid.UUID) (*domain.PropertyPricing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "PropertyPricingAdapter",
		"method":      "GetPricing",
		"property_id": id.String(),
	})

	var pricing domain.PropertyPricing
	err := a.pool.QueryRow(ctx, getPricingQuery, id).Scan(
		&pricing.ID,
		&pricing.Title,
		&pricing.Price,
		&pricing.PromoPrice,
		&pricing.Currency,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			repoLogger.Debug("Property not found", nil)
			return nil, domain.ErrPropertyNotFound
		}
		repoLogger.Error("Failed to query property pricing", err, nil)
		return nil, fmt.Errorf("failed to query property pricing: %w", err)
	}

	return &pricing, nil
}
