package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionSessions_Lifecycle(t *testing.T) {
	uc := NewRegionSessionsUseCase(newFakeProvider(), &recordingNotifier{}, RegionSessionsConfig{})
	ctx := context.Background()

	created, err := uc.Create(ctx)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.SessionID)

	got, err := uc.Get(ctx, created.SessionID)
	require.NoError(t, err)
	assert.Equal(t, created.SessionID, got.SessionID)

	require.NoError(t, uc.Delete(ctx, created.SessionID))
	_, err = uc.Get(ctx, created.SessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, created.SessionID), domain.ErrSessionNotFound)
}

func TestRegionSessions_SessionsAreIndependent(t *testing.T) {
	uc := NewRegionSessionsUseCase(newFakeProvider(), &recordingNotifier{}, RegionSessionsConfig{})
	ctx := context.Background()

	a, err := uc.Create(ctx)
	require.NoError(t, err)
	b, err := uc.Create(ctx)
	require.NoError(t, err)

	_, err = uc.Open(ctx, a.SessionID)
	require.NoError(t, err)
	stateA, err := uc.ToggleSelect(ctx, a.SessionID, "32")
	require.NoError(t, err)
	assert.Len(t, stateA.Selection, 1)

	stateB, err := uc.Get(ctx, b.SessionID)
	require.NoError(t, err)
	assert.False(t, stateB.Loaded)
	assert.Empty(t, stateB.Selection)
}

func TestRegionSessions_ActionsRequireVisibleRegion(t *testing.T) {
	uc := NewRegionSessionsUseCase(newFakeProvider(), &recordingNotifier{}, RegionSessionsConfig{})
	ctx := context.Background()
	s, err := uc.Create(ctx)
	require.NoError(t, err)

	_, err = uc.DrillInto(ctx, s.SessionID, "32")
	assert.ErrorIs(t, err, domain.ErrRegionNotVisible, "nothing is loaded yet")

	_, err = uc.Open(ctx, s.SessionID)
	require.NoError(t, err)

	state, err := uc.DrillInto(ctx, s.SessionID, "32")
	require.NoError(t, err)
	assert.Equal(t, domain.LevelCity, state.CurrentLevel)

	_, err = uc.ToggleSelect(ctx, s.SessionID, "11")
	assert.ErrorIs(t, err, domain.ErrRegionNotVisible, "provinces are no longer visible")

	state, err = uc.GoBack(ctx, s.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.LevelProvince, state.CurrentLevel)
}

func TestRegionSessions_UnknownSession(t *testing.T) {
	uc := NewRegionSessionsUseCase(newFakeProvider(), nil, RegionSessionsConfig{})
	ctx := context.Background()
	id := uuid.New()

	_, err := uc.Open(ctx, id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = uc.DrillInto(ctx, id, "32")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = uc.ToggleSelect(ctx, id, "32")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = uc.GoBack(ctx, id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRegionSessions_ConcurrentCreate(t *testing.T) {
	provider := newFakeProvider()
	provider.started = make(chan string, 100)
	uc := NewRegionSessionsUseCase(provider, &recordingNotifier{}, RegionSessionsConfig{})
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make(chan uuid.UUID, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state, err := uc.Create(ctx)
			if err != nil {
				return
			}
			if _, err := uc.Open(ctx, state.SessionID); err == nil {
				ids <- state.SessionID
			}
		}()
	}
	wg.Wait()
	close(ids)

	count := 0
	for id := range ids {
		_, err := uc.Get(ctx, id)
		require.NoError(t, err)
		count++
	}
	assert.Equal(t, 20, count)
}

func TestRegionSessions_EvictIdle(t *testing.T) {
	uc := NewRegionSessionsUseCase(newFakeProvider(), &recordingNotifier{}, RegionSessionsConfig{IdleTTL: 10 * time.Minute})
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return clock }
	ctx := context.Background()

	idle, err := uc.Create(ctx)
	require.NoError(t, err)
	active, err := uc.Create(ctx)
	require.NoError(t, err)

	clock = clock.Add(6 * time.Minute)
	_, err = uc.Get(ctx, active.SessionID)
	require.NoError(t, err)

	clock = clock.Add(6 * time.Minute)
	assert.Equal(t, 1, uc.EvictIdle(ctx))

	_, err = uc.Get(ctx, idle.SessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = uc.Get(ctx, active.SessionID)
	assert.NoError(t, err, "session used within the TTL must survive")
}

func TestRegionSessions_EvictIdleDisabledWithoutTTL(t *testing.T) {
	uc := NewRegionSessionsUseCase(newFakeProvider(), &recordingNotifier{}, RegionSessionsConfig{})
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return clock }
	ctx := context.Background()

	s, err := uc.Create(ctx)
	require.NoError(t, err)

	clock = clock.Add(24 * time.Hour)
	assert.Zero(t, uc.EvictIdle(ctx))
	_, err = uc.Get(ctx, s.SessionID)
	assert.NoError(t, err)
}

func TestRegionSessions_MaxSessions(t *testing.T) {
	uc := NewRegionSessionsUseCase(newFakeProvider(), &recordingNotifier{}, RegionSessionsConfig{
		IdleTTL:     10 * time.Minute,
		MaxSessions: 2,
	})
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return clock }
	ctx := context.Background()

	first, err := uc.Create(ctx)
	require.NoError(t, err)
	_, err = uc.Create(ctx)
	require.NoError(t, err)

	_, err = uc.Create(ctx)
	assert.ErrorIs(t, err, domain.ErrTooManySessions)

	// после простоя место освобождается при следующем создании
	clock = clock.Add(11 * time.Minute)
	third, err := uc.Create(ctx)
	require.NoError(t, err)

	_, err = uc.Get(ctx, third.SessionID)
	assert.NoError(t, err)
	_, err = uc.Get(ctx, first.SessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRegionSessions_RunEvictionStopsOnCancel(t *testing.T) {
	uc := NewRegionSessionsUseCase(newFakeProvider(), &recordingNotifier{}, RegionSessionsConfig{IdleTTL: time.Nanosecond})
	ctx, cancel := context.WithCancel(context.Background())

	s, err := uc.Create(ctx)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		uc.RunEviction(ctx, time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		_, err := uc.Get(context.Background(), s.SessionID)
		return errors.Is(err, domain.ErrSessionNotFound)
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("eviction loop did not stop after cancel")
	}
}

func TestListRegions(t *testing.T) {
	provider := newFakeProvider()
	uc := NewListRegionsUseCase(provider)
	ctx := context.Background()

	regions, err := uc.Execute(ctx, domain.LevelProvince, "")
	require.NoError(t, err)
	assert.Len(t, regions, 2)

	_, err = uc.Execute(ctx, domain.LevelCity, "")
	assert.ErrorIs(t, err, domain.ErrParentRequired)

	_, err = uc.Execute(ctx, domain.RegionLevel(8), "")
	assert.ErrorIs(t, err, domain.ErrInvalidLevel)

	cause := errors.New("down")
	provider.setErr("city:32", cause)
	logger := newFieldsLogger()
	_, err = uc.Execute(contextkeys.ContextWithLogger(ctx, logger), domain.LevelCity, "32")
	assert.ErrorIs(t, err, cause)

	records := logger.all()
	require.NotEmpty(t, records)
	assert.Equal(t, "city", records[0]["region_level"])
	assert.NotContains(t, records[0], "level")
}
