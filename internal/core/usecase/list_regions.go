package usecase

import (
	"context"
	"fmt"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
)

// ListRegionsUseCase - прямой доступ к справочнику без состояния селектора.
type ListRegionsUseCase struct {
	provider port.RegionProviderPort
}

func NewListRegionsUseCase(provider port.RegionProviderPort) *ListRegionsUseCase {
	return &ListRegionsUseCase{provider: provider}
}

func (uc *ListRegionsUseCase) Execute(ctx context.Context, level domain.RegionLevel, parentID string) ([]domain.Region, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":     "ListRegions",
		"region_level": level.String(),
		"parent_id":    parentID,
	})

	if !level.Valid() {
		return nil, domain.ErrInvalidLevel
	}
	if level != domain.LevelProvince && parentID == "" {
		return nil, domain.ErrParentRequired
	}

	regions, err := uc.provider.FetchChildren(ctx, level, parentID)
	if err != nil {
		logger.Error("Region provider failed", err, nil)
		return nil, fmt.Errorf("could not list regions: %w", err)
	}

	logger.Debug("Regions listed", port.Fields{"count": len(regions)})
	return regions, nil
}
