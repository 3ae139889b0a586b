package usecase

import (
	"context"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
	"marketplace-service/internal/core/port/usecases_port"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RegionSessionsConfig - ограничения на хранилище сессий селектора.
type RegionSessionsConfig struct {
	// IdleTTL - сессия без обращений дольше этого срока удаляется. 0 - не удалять.
	IdleTTL time.Duration
	// MaxSessions - предел одновременно живых сессий. 0 - без предела.
	MaxSessions int
}

// RegionSessionsUseCase хранит независимые экземпляры селектора, по одному на сессию UI.
// Выбор живет только пока жива сессия: простаивающие сессии вытесняются.
type RegionSessionsUseCase struct {
	provider port.RegionProviderPort
	notifier port.NotifierPort
	cfg      RegionSessionsConfig
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*RegionSelector
}

func NewRegionSessionsUseCase(provider port.RegionProviderPort, notifier port.NotifierPort, cfg RegionSessionsConfig) *RegionSessionsUseCase {
	return &RegionSessionsUseCase{
		provider: provider,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*RegionSelector),
	}
}

func (uc *RegionSessionsUseCase) Create(ctx context.Context) (usecases_port.SelectorState, error) {
	logger := contextkeys.LoggerFromContext(ctx)

	if uc.cfg.MaxSessions > 0 && uc.count() >= uc.cfg.MaxSessions {
		// перед отказом освобождаем место от простаивающих
		uc.EvictIdle(ctx)
	}

	selector := NewRegionSelector(uuid.New(), uc.provider, uc.notifier)
	selector.touch(uc.now())

	uc.mu.Lock()
	if uc.cfg.MaxSessions > 0 && len(uc.sessions) >= uc.cfg.MaxSessions {
		uc.mu.Unlock()
		logger.Warn("Region selector session limit reached", port.Fields{"max_sessions": uc.cfg.MaxSessions})
		return usecases_port.SelectorState{}, domain.ErrTooManySessions
	}
	uc.sessions[selector.ID()] = selector
	total := len(uc.sessions)
	uc.mu.Unlock()

	logger.Info("Region selector session created", port.Fields{
		"session_id":     selector.ID().String(),
		"total_sessions": total,
	})
	return selector.Snapshot(), nil
}

func (uc *RegionSessionsUseCase) count() int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.sessions)
}

// selector находит сессию и отмечает обращение к ней.
func (uc *RegionSessionsUseCase) selector(sessionID uuid.UUID) (*RegionSelector, error) {
	uc.mu.RLock()
	selector, ok := uc.sessions[sessionID]
	uc.mu.RUnlock()

	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	selector.touch(uc.now())
	return selector, nil
}

// EvictIdle удаляет сессии, к которым не обращались дольше IdleTTL. Возвращает число удаленных.
func (uc *RegionSessionsUseCase) EvictIdle(ctx context.Context) int {
	if uc.cfg.IdleTTL <= 0 {
		return 0
	}
	deadline := uc.now().Add(-uc.cfg.IdleTTL)

	uc.mu.Lock()
	evicted := 0
	for id, selector := range uc.sessions {
		if selector.lastUsedAt().Before(deadline) {
			delete(uc.sessions, id)
			evicted++
		}
	}
	remaining := len(uc.sessions)
	uc.mu.Unlock()

	if evicted > 0 {
		contextkeys.LoggerFromContext(ctx).Info("Idle region selector sessions evicted", port.Fields{
			"evicted":        evicted,
			"total_sessions": remaining,
		})
	}
	return evicted
}

// RunEviction периодически вытесняет простаивающие сессии, пока не отменен ctx.
func (uc *RegionSessionsUseCase) RunEviction(ctx context.Context, interval time.Duration) {
	if uc.cfg.IdleTTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			uc.EvictIdle(ctx)
		}
	}
}

func (uc *RegionSessionsUseCase) Get(ctx context.Context, sessionID uuid.UUID) (usecases_port.SelectorState, error) {
	selector, err := uc.selector(sessionID)
	if err != nil {
		return usecases_port.SelectorState{}, err
	}
	return selector.Snapshot(), nil
}

func (uc *RegionSessionsUseCase) Delete(ctx context.Context, sessionID uuid.UUID) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if _, ok := uc.sessions[sessionID]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(uc.sessions, sessionID)

	contextkeys.LoggerFromContext(ctx).Info("Region selector session deleted", port.Fields{"session_id": sessionID.String()})
	return nil
}

func (uc *RegionSessionsUseCase) Open(ctx context.Context, sessionID uuid.UUID) (usecases_port.SelectorState, error) {
	selector, err := uc.selector(sessionID)
	if err != nil {
		return usecases_port.SelectorState{}, err
	}
	selector.Open(ctx)
	return selector.Snapshot(), nil
}

// DrillInto принимает только регион из текущего видимого списка.
func (uc *RegionSessionsUseCase) DrillInto(ctx context.Context, sessionID uuid.UUID, regionID string) (usecases_port.SelectorState, error) {
	selector, err := uc.selector(sessionID)
	if err != nil {
		return usecases_port.SelectorState{}, err
	}
	region, ok := selector.FindVisible(regionID)
	if !ok {
		return usecases_port.SelectorState{}, domain.ErrRegionNotVisible
	}
	selector.DrillInto(ctx, region)
	return selector.Snapshot(), nil
}

// ToggleSelect принимает регион из видимого списка или уже выбранный (для снятия выбора).
func (uc *RegionSessionsUseCase) ToggleSelect(ctx context.Context, sessionID uuid.UUID, regionID string) (usecases_port.SelectorState, error) {
	selector, err := uc.selector(sessionID)
	if err != nil {
		return usecases_port.SelectorState{}, err
	}
	region, ok := selector.FindVisible(regionID)
	if !ok {
		return usecases_port.SelectorState{}, domain.ErrRegionNotVisible
	}
	selector.ToggleSelect(ctx, region)
	return selector.Snapshot(), nil
}

func (uc *RegionSessionsUseCase) GoBack(ctx context.Context, sessionID uuid.UUID) (usecases_port.SelectorState, error) {
	selector, err := uc.selector(sessionID)
	if err != nil {
		return usecases_port.SelectorState{}, err
	}
	selector.GoBack(ctx)
	return selector.Snapshot(), nil
}
