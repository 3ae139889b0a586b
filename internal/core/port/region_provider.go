package port

import (
	"context"
	"marketplace-service/internal/core/domain"
)

// RegionProviderPort - внешний справочник регионов.
// parentID пуст только для уровня провинций.
type RegionProviderPort interface {
	FetchChildren(ctx context.Context, level domain.RegionLevel, parentID string) ([]domain.Region, error)
}
