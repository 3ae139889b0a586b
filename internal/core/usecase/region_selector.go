package usecase

import (
	"context"
	"errors"
	"fmt"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
	"marketplace-service/internal/core/port/usecases_port"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	msgRegionAdded = "Wilayah ditambahkan: %s"
	msgFetchFailed = "Gagal memuat data wilayah, coba buka kembali daftar"
)

// RegionSelector - выпадающий выбор региона с ленивой подгрузкой уровней.
//
// Мьютекс защищает только состояние и не удерживается во время запроса к справочнику,
// поэтому при пересекающихся загрузках список заменяет тот ответ, который пришел последним.
type RegionSelector struct {
	id       uuid.UUID
	provider port.RegionProviderPort
	notifier port.NotifierPort

	mu           sync.Mutex
	currentLevel domain.RegionLevel
	parentRegion *domain.Region
	visibleList  []domain.Region
	selection    *domain.RegionSelection
	loaded       bool
	lastErr      error
	// lastUsed - время последнего обращения через RegionSessionsUseCase
	lastUsed time.Time
}

func NewRegionSelector(id uuid.UUID, provider port.RegionProviderPort, notifier port.NotifierPort) *RegionSelector {
	return &RegionSelector{
		id:           id,
		provider:     provider,
		notifier:     notifier,
		currentLevel: domain.LevelProvince,
		visibleList:  []domain.Region{},
		selection:    domain.NewRegionSelection(),
		lastUsed:     time.Now(),
	}
}

func (s *RegionSelector) ID() uuid.UUID {
	return s.id
}

// LoadChildren загружает регионы уровня level под parentID.
// При ошибке возвращает *domain.FetchError и не трогает видимый список.
func (s *RegionSelector) LoadChildren(ctx context.Context, level domain.RegionLevel, parentID string) ([]domain.Region, error) {
	if !level.Valid() {
		return nil, &domain.FetchError{Level: level, ParentID: parentID, Err: domain.ErrInvalidLevel}
	}

	regions, err := s.provider.FetchChildren(ctx, level, parentID)
	if err != nil {
		var fetchErr *domain.FetchError
		if errors.As(err, &fetchErr) {
			return nil, fetchErr
		}
		return nil, &domain.FetchError{Level: level, ParentID: parentID, Err: err}
	}
	if regions == nil {
		regions = []domain.Region{}
	}

	s.mu.Lock()
	s.visibleList = regions
	s.loaded = true
	s.lastErr = nil
	s.mu.Unlock()

	return regions, nil
}

// load - место вызова LoadChildren: ошибка превращается в уведомление и не идет выше.
func (s *RegionSelector) load(ctx context.Context, level domain.RegionLevel, parentID string) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":    "RegionSelector",
		"session_id":   s.id.String(),
		"region_level": level.String(),
		"parent_id":    parentID,
	})

	regions, err := s.LoadChildren(ctx, level, parentID)
	if err != nil {
		logger.Warn("Failed to load regions, keeping previous list", port.Fields{"error": err.Error()})
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		s.notify(ctx, domain.SelectorNotification{
			SessionID: s.id,
			Type:      domain.NotificationFetchFailed,
			Message:   msgFetchFailed,
		})
		return
	}
	logger.Debug("Regions loaded", port.Fields{"count": len(regions)})
}

// Open вызывается при открытии выпадающего списка. Загружает текущий уровень,
// если он еще не загружен или прошлая загрузка завершилась ошибкой.
func (s *RegionSelector) Open(ctx context.Context) {
	s.mu.Lock()
	needLoad := !s.loaded || s.lastErr != nil
	level := s.currentLevel
	parentID := ""
	if s.parentRegion != nil {
		parentID = s.parentRegion.ID
	}
	s.mu.Unlock()

	if needLoad {
		s.load(ctx, level, parentID)
	}
}

// DrillInto переходит на уровень глубже. Для подрайона переход невозможен,
// и клик трактуется как выбор региона.
func (s *RegionSelector) DrillInto(ctx context.Context, region domain.Region) {
	if region.Level.IsLeaf() {
		s.ToggleSelect(ctx, region)
		return
	}

	s.mu.Lock()
	parent := region
	s.parentRegion = &parent
	s.currentLevel = region.Level.Next()
	level := s.currentLevel
	s.mu.Unlock()

	s.load(ctx, level, region.ID)
}

// ToggleSelect снимает выбор с региона или выбирает его, вытесняя предков и потомков.
func (s *RegionSelector) ToggleSelect(ctx context.Context, region domain.Region) {
	s.mu.Lock()
	added := s.selection.Toggle(region)
	s.mu.Unlock()

	if added {
		r := region
		s.notify(ctx, domain.SelectorNotification{
			SessionID: s.id,
			Type:      domain.NotificationRegionAdded,
			Region:    &r,
			Message:   fmt.Sprintf(msgRegionAdded, region.Name),
		})
	}
}

// GoBack всегда возвращает к списку провинций, а не на один уровень вверх.
// На уровне провинций возвращаться некуда, вызов ничего не делает.
func (s *RegionSelector) GoBack(ctx context.Context) {
	s.mu.Lock()
	if s.currentLevel == domain.LevelProvince {
		s.mu.Unlock()
		return
	}
	s.currentLevel = domain.LevelProvince
	s.parentRegion = nil
	s.mu.Unlock()

	s.load(ctx, domain.LevelProvince, "")
}

// FindVisible ищет регион среди видимых или уже выбранных.
func (s *RegionSelector) FindVisible(regionID string) (domain.Region, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.visibleList {
		if r.ID == regionID {
			return r, true
		}
	}
	for _, r := range s.selection.Regions() {
		if r.ID == regionID {
			return r, true
		}
	}
	return domain.Region{}, false
}

func (s *RegionSelector) Selection() []domain.Region {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Regions()
}

// Snapshot возвращает копию состояния.
func (s *RegionSelector) Snapshot() usecases_port.SelectorState {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := usecases_port.SelectorState{
		SessionID:    s.id,
		CurrentLevel: s.currentLevel,
		VisibleList:  append([]domain.Region{}, s.visibleList...),
		Selection:    s.selection.Regions(),
		SearchParam:  s.selection.SearchParam(),
		Loaded:       s.loaded,
	}
	if s.parentRegion != nil {
		parent := *s.parentRegion
		snap.ParentRegion = &parent
	}
	if s.lastErr != nil {
		snap.LastError = s.lastErr.Error()
	}
	return snap
}

func (s *RegionSelector) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

func (s *RegionSelector) lastUsedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

func (s *RegionSelector) notify(ctx context.Context, n domain.SelectorNotification) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, n)
}
