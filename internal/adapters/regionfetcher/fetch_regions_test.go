package regionfetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"marketplace-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/provinsi.json", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"32","nama":"JAWA BARAT"},{"id":"11","nama":"ACEH"},{"id":"51","nama":"bali"}]`))
	})
	mux.HandleFunc("/kabupaten/32.json", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		_, _ = w.Write([]byte(`[{"id":"3273","nama":"KOTA BANDUNG"},{"id":"3204","nama":"KABUPATEN BANDUNG"}]`))
	})
	mux.HandleFunc("/kecamatan/3273.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"3273010","name":"SUKASARI"}]`))
	})
	mux.HandleFunc("/kelurahan/3273010.json", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestAdapter(t *testing.T, baseURL string) *RegionFetcherAdapter {
	t.Helper()
	a, err := NewRegionFetcherAdapter(Config{BaseURL: baseURL, UserAgent: "marketplace-service-test"})
	require.NoError(t, err)
	return a
}

func TestFetchChildren_ProvincesSortedAndStamped(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)
	a := newTestAdapter(t, srv.URL)

	regions, err := a.FetchChildren(context.Background(), domain.LevelProvince, "")
	require.NoError(t, err)
	require.Len(t, regions, 3)

	assert.Equal(t, []string{"ACEH", "bali", "JAWA BARAT"}, []string{regions[0].Name, regions[1].Name, regions[2].Name})
	for _, r := range regions {
		assert.Equal(t, domain.LevelProvince, r.Level)
	}
	assert.Equal(t, "11", regions[0].ID)
}

func TestFetchChildren_CitiesUseParentPath(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)
	a := newTestAdapter(t, srv.URL)

	regions, err := a.FetchChildren(context.Background(), domain.LevelCity, "32")
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, "KABUPATEN BANDUNG", regions[0].Name)
	assert.Equal(t, domain.LevelCity, regions[0].Level)
}

func TestFetchChildren_RevisitIsAllowed(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)
	a := newTestAdapter(t, srv.URL)

	for i := 0; i < 2; i++ {
		_, err := a.FetchChildren(context.Background(), domain.LevelProvince, "")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestFetchChildren_SchemaViolation(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)
	a := newTestAdapter(t, srv.URL)

	_, err := a.FetchChildren(context.Background(), domain.LevelDistrict, "3273")
	require.Error(t, err)

	var fetchErr *domain.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, domain.LevelDistrict, fetchErr.Level)
	assert.Equal(t, "3273", fetchErr.ParentID)
}

func TestFetchChildren_HTTPError(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)
	a := newTestAdapter(t, srv.URL)

	_, err := a.FetchChildren(context.Background(), domain.LevelSubdistrict, "3273010")
	var fetchErr *domain.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, domain.LevelSubdistrict, fetchErr.Level)
}

func TestFetchChildren_ParentRequired(t *testing.T) {
	a := newTestAdapter(t, "http://127.0.0.1:1")

	_, err := a.FetchChildren(context.Background(), domain.LevelCity, "")
	assert.ErrorIs(t, err, domain.ErrParentRequired)
}

func TestFetchChildren_CanceledContext(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)
	a := newTestAdapter(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.FetchChildren(ctx, domain.LevelProvince, "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

// Отмена уже после отправки запроса не отбрасывает пришедший ответ.
func TestFetchChildren_ResponseKeptWhenCanceledMidFlight(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mux := http.NewServeMux()
	mux.HandleFunc("/provinsi.json", func(w http.ResponseWriter, r *http.Request) {
		cancel()
		_, _ = w.Write([]byte(`[{"id":"11","nama":"ACEH"}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	a := newTestAdapter(t, srv.URL)

	regions, err := a.FetchChildren(ctx, domain.LevelProvince, "")
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, "ACEH", regions[0].Name)
}

func TestNewRegionFetcherAdapter_InvalidBaseURL(t *testing.T) {
	_, err := NewRegionFetcherAdapter(Config{BaseURL: "not a url"})
	assert.Error(t, err)
}
