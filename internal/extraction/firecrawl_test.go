package extraction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *FirecrawlClient {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewFirecrawlClient(FirecrawlConfig{
		BaseURL:      serverURL,
		APIKey:       "fc-test",
		PollInterval: 5 * time.Millisecond,
		Timeout:      2 * time.Second,
		MaxRetries:   2,
		RetryDelay:   time.Millisecond,
	}, logger)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestFirecrawlClient_ExtractPollsUntilCompleted(t *testing.T) {
	var polls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer fc-test", r.Header.Get("Authorization"))

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/extract":
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Extract listings", body["prompt"])
			assert.Len(t, body["urls"], 2)
			assert.NotNil(t, body["schema"])
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": "job-1"})
		case r.Method == http.MethodGet && r.URL.Path == "/v1/extract/job-1":
			if atomic.AddInt32(&polls, 1) < 2 {
				writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": "processing"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"status":  "completed",
				"data": map[string]any{
					"properties": []map[string]any{
						{"building_name": "Seeblick", "price": "CHF 1,250,000", "canton": "ZH"},
					},
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.Extract(context.Background(),
		[]string{"https://a.example", "https://b.example"},
		Request{Prompt: "Extract listings", Schema: PropertiesSchema})

	require.NoError(t, err)
	require.Len(t, resp.Properties, 1)
	assert.Equal(t, "Seeblick", resp.Properties[0]["building_name"])
	assert.GreaterOrEqual(t, atomic.LoadInt32(&polls), int32(2))
}

func TestFirecrawlClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "busy"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"status":  "completed",
			"data":    map[string]any{"locations": []map[string]any{{"location": "Zurich", "price_per_sqm": 15000.5}}},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.Extract(context.Background(), []string{"https://a.example"},
		Request{Prompt: "trends", Schema: LocationsSchema})

	require.NoError(t, err)
	require.Len(t, resp.Locations, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFirecrawlClient_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid key"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Extract(context.Background(), []string{"https://a.example"},
		Request{Prompt: "listings", Schema: PropertiesSchema})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFirecrawlClient_FailedJob(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": "job-2"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": "failed", "error": "blocked"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Extract(context.Background(), []string{"https://a.example"},
		Request{Prompt: "listings", Schema: PropertiesSchema})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestFirecrawlClient_SchemaMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"status":  "completed",
			"data":    map[string]any{"listings": []any{}},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Extract(context.Background(), []string{"https://a.example"},
		Request{Prompt: "listings", Schema: PropertiesSchema})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match schema")
}

func TestDecodeResponse(t *testing.T) {
	tests := []struct {
		name        string
		schema      *Schema
		data        string
		expectError bool
		properties  int
		locations   int
	}{
		{
			name:       "Valid properties",
			schema:     PropertiesSchema,
			data:       `{"properties":[{"building_name":"A","price":1250000,"image_url":null}]}`,
			properties: 1,
		},
		{
			name:        "Property price of wrong type",
			schema:      PropertiesSchema,
			data:        `{"properties":[{"price":{"amount":1}}]}`,
			expectError: true,
		},
		{
			name:      "Valid locations",
			schema:    LocationsSchema,
			data:      `{"locations":[{"location":"Geneva","price_per_sqm":14000,"annual_increase":2.1,"rental_yield":3.2}]}`,
			locations: 1,
		},
		{
			name:        "Negative price per square meter",
			schema:      LocationsSchema,
			data:        `{"locations":[{"location":"Geneva","price_per_sqm":-1}]}`,
			expectError: true,
		},
		{
			name:        "Not JSON",
			schema:      LocationsSchema,
			data:        `<html>`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := DecodeResponse(tt.schema, json.RawMessage(tt.data))
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, resp.Properties, tt.properties)
			assert.Len(t, resp.Locations, tt.locations)
		})
	}
}
