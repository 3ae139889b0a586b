package usecases_port

import (
	"context"
	"marketplace-service/internal/core/domain"

	"github.com/google/uuid"
)

// SelectorState - снимок состояния селектора регионов.
type SelectorState struct {
	SessionID    uuid.UUID
	CurrentLevel domain.RegionLevel
	ParentRegion *domain.Region
	VisibleList  []domain.Region
	Selection    []domain.Region
	SearchParam  string
	Loaded       bool
	// LastError - текст последней ошибки загрузки, пусто если загрузка прошла успешно
	LastError string
}

type RegionSessionsUseCase interface {
	// Create возвращает domain.ErrTooManySessions, если достигнут лимит активных сессий
	Create(ctx context.Context) (SelectorState, error)
	Get(ctx context.Context, sessionID uuid.UUID) (SelectorState, error)
	Delete(ctx context.Context, sessionID uuid.UUID) error

	// Open - первое открытие выпадающего списка, загружает провинции лениво
	Open(ctx context.Context, sessionID uuid.UUID) (SelectorState, error)
	DrillInto(ctx context.Context, sessionID uuid.UUID, regionID string) (SelectorState, error)
	ToggleSelect(ctx context.Context, sessionID uuid.UUID, regionID string) (SelectorState, error)
	GoBack(ctx context.Context, sessionID uuid.UUID) (SelectorState, error)
}

type ListRegionsUseCase interface {
	Execute(ctx context.Context, level domain.RegionLevel, parentID string) ([]domain.Region, error)
}
