package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestLocate_CachesResults(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "Aarau, Aargau, Switzerland", r.URL.Query().Get("q"))
		assert.Equal(t, "ch", r.URL.Query().Get("countrycodes"))
		w.Write([]byte(`[{"lat":"47.3925","lon":"8.0442"}]`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	g := NewGeocoder(Config{Endpoint: srv.URL, CacheDir: dir}, quietLogger())

	point, err := g.Locate(context.Background(), "Aarau", "Aargau")
	require.NoError(t, err)
	assert.Equal(t, orb.Point{8.0442, 47.3925}, point)

	again, err := g.Locate(context.Background(), " aarau ", "AARGAU")
	require.NoError(t, err)
	assert.Equal(t, point, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// A new geocoder picks the entry up from disk.
	reloaded := NewGeocoder(Config{Endpoint: srv.URL, CacheDir: dir}, quietLogger())
	cached, err := reloaded.Locate(context.Background(), "Aarau", "Aargau")
	require.NoError(t, err)
	assert.Equal(t, point, cached)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLocate_ConcurrentCacheWrites(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"46.5","lon":"7.5"}]`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	g := NewGeocoder(Config{Endpoint: srv.URL, CacheDir: dir}, quietLogger())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := g.Locate(context.Background(), fmt.Sprintf("Town %d", i), "Bern")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	data, err := os.ReadFile(filepath.Join(dir, "geocode_cache.json"))
	require.NoError(t, err)
	var cache map[string][]float64
	require.NoError(t, json.Unmarshal(data, &cache))
	assert.Len(t, cache, 20)

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestLocate_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		notFound bool
	}{
		{name: "empty result", status: http.StatusOK, body: `[]`, notFound: true},
		{name: "bad json", status: http.StatusOK, body: `{`},
		{name: "bad latitude", status: http.StatusOK, body: `[{"lat":"north","lon":"8"}]`},
		{name: "server error", status: http.StatusServiceUnavailable, body: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := NewGeocoder(Config{Endpoint: srv.URL}, quietLogger())
			_, err := g.Locate(context.Background(), "Nowhere", "")

			require.Error(t, err)
			assert.Equal(t, tt.notFound, errors.Is(err, ErrNotFound))
		})
	}
}
