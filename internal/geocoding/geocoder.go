// Package geocoding resolves Swiss place names to coordinates through a
// Nominatim-compatible search endpoint, with an optional on-disk cache.
package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
)

const DefaultEndpoint = "https://nominatim.openstreetmap.org/search"

// ErrNotFound is returned when the endpoint knows no match for a place.
var ErrNotFound = errors.New("no results found")

type Config struct {
	Endpoint string

	// CacheDir holds geocode_cache.json; the cache stays in memory when empty
	CacheDir string

	// MinInterval is the minimum delay between two upstream requests
	MinInterval time.Duration

	HTTPClient *http.Client
}

type Geocoder struct {
	logger      *logrus.Logger
	endpoint    string
	cacheDir    string
	minInterval time.Duration
	client      *http.Client

	cacheLock sync.RWMutex
	cache     map[string][]float64

	// serializes cache file writes
	fileLock sync.Mutex

	// serializes upstream requests so MinInterval holds
	requestLock sync.Mutex
	lastRequest time.Time
}

func NewGeocoder(cfg Config, logger *logrus.Logger) *Geocoder {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}

	g := &Geocoder{
		logger:      logger,
		endpoint:    cfg.Endpoint,
		cacheDir:    cfg.CacheDir,
		minInterval: cfg.MinInterval,
		client:      cfg.HTTPClient,
		cache:       make(map[string][]float64),
	}

	if g.cacheDir != "" {
		if err := os.MkdirAll(g.cacheDir, 0o755); err != nil {
			logger.WithError(err).Warn("Could not create geocode cache directory")
			g.cacheDir = ""
		} else {
			g.loadCache()
		}
	}
	return g
}

func (g *Geocoder) cacheFile() string {
	return filepath.Join(g.cacheDir, "geocode_cache.json")
}

func (g *Geocoder) loadCache() {
	data, err := os.ReadFile(g.cacheFile())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			g.logger.Warnf("Could not load geocode cache: %v", err)
		}
		return
	}

	g.cacheLock.Lock()
	defer g.cacheLock.Unlock()
	if err := json.Unmarshal(data, &g.cache); err != nil {
		g.logger.Errorf("Failed to parse geocode cache: %v", err)
		g.cache = make(map[string][]float64)
		return
	}
	g.logger.Infof("Loaded %d cached places", len(g.cache))
}

func (g *Geocoder) saveCache() {
	if g.cacheDir == "" {
		return
	}

	// Snapshot under fileLock so a later snapshot is never overwritten by
	// an earlier one.
	g.fileLock.Lock()
	defer g.fileLock.Unlock()

	g.cacheLock.RLock()
	data, err := json.Marshal(g.cache)
	g.cacheLock.RUnlock()
	if err != nil {
		g.logger.Errorf("Failed to marshal geocode cache: %v", err)
		return
	}

	if err := writeFileAtomic(g.cacheFile(), data); err != nil {
		g.logger.Errorf("Failed to save geocode cache: %v", err)
	}
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never see a partial file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

type nominatimResponse []struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func cacheKey(city, canton string) string {
	return strings.ToLower(strings.TrimSpace(city)) + "|" + strings.ToLower(strings.TrimSpace(canton))
}

// Locate returns the point (lng/lat) of city within canton.
func (g *Geocoder) Locate(ctx context.Context, city, canton string) (orb.Point, error) {
	key := cacheKey(city, canton)
	query := strings.TrimSpace(city)
	if c := strings.TrimSpace(canton); c != "" {
		query += ", " + c
	}
	query += ", Switzerland"

	g.cacheLock.RLock()
	coords, ok := g.cache[key]
	g.cacheLock.RUnlock()
	if ok && len(coords) == 2 {
		return orb.Point{coords[1], coords[0]}, nil
	}

	lat, lon, err := g.fetch(ctx, query)
	if err != nil {
		return orb.Point{}, err
	}

	g.logger.WithFields(logrus.Fields{
		"place":     query,
		"latitude":  lat,
		"longitude": lon,
	}).Info("Geocoded place")

	g.cacheLock.Lock()
	g.cache[key] = []float64{lat, lon}
	g.cacheLock.Unlock()
	g.saveCache()

	return orb.Point{lon, lat}, nil
}

func (g *Geocoder) fetch(ctx context.Context, query string) (float64, float64, error) {
	g.requestLock.Lock()
	defer g.requestLock.Unlock()

	// Respect Nominatim's usage policy
	if wait := g.minInterval - time.Since(g.lastRequest); wait > 0 {
		select {
		case <-ctx.Done():
			return 0, 0, ctx.Err()
		case <-time.After(wait):
		}
	}
	g.lastRequest = time.Now()

	params := url.Values{
		"q":            []string{query},
		"format":       []string{"json"},
		"limit":        []string{"1"},
		"countrycodes": []string{"ch"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "SwissProp Property Search/1.0")
	req.Header.Set("Accept-Language", "en,de;q=0.8,fr;q=0.7,it;q=0.6")

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("geocoding request failed with status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read response: %w", err)
	}

	var result nominatimResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, 0, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(result) == 0 {
		return 0, 0, fmt.Errorf("%w for %s", ErrNotFound, query)
	}

	lat, err := strconv.ParseFloat(result[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q: %w", result[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(result[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q: %w", result[0].Lon, err)
	}
	return lat, lon, nil
}
