package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sirupsen/logrus"
)

const (
	statusCompleted = "completed"
	statusFailed    = "failed"
	statusCancelled = "cancelled"
)

var (
	ErrExtractionFailed  = errors.New("extraction job failed")
	ErrExtractionTimeout = errors.New("extraction job did not complete in time")
)

// FirecrawlConfig configures the Firecrawl extract client.
type FirecrawlConfig struct {
	BaseURL      string
	APIKey       string
	PollInterval time.Duration
	Timeout      time.Duration
	MaxRetries   int
	RetryDelay   time.Duration
	HTTPClient   *http.Client
}

// FirecrawlClient implements Service on top of the Firecrawl v1 extract API.
type FirecrawlClient struct {
	cfg    FirecrawlConfig
	client *http.Client
	logger *logrus.Logger
}

type extractRequest struct {
	URLs   []string        `json:"urls"`
	Prompt string          `json:"prompt"`
	Schema json.RawMessage `json:"schema,omitempty"`
}

type extractStatus struct {
	Success bool            `json:"success"`
	ID      string          `json:"id"`
	Status  string          `json:"status"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// NewFirecrawlClient creates a new extraction client
func NewFirecrawlClient(cfg FirecrawlConfig, logger *logrus.Logger) *FirecrawlClient {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &FirecrawlClient{cfg: cfg, client: client, logger: logger}
}

// Extract starts an extraction job and waits for its result.
func (c *FirecrawlClient) Extract(ctx context.Context, urls []string, req Request) (Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body := extractRequest{URLs: urls, Prompt: req.Prompt}
	if req.Schema != nil {
		body.Schema = req.Schema.Raw()
	}

	c.logger.WithFields(logrus.Fields{
		"urls":   len(urls),
		"schema": schemaName(req.Schema),
	}).Debug("Starting extraction job")

	var started extractStatus
	if err := c.do(ctx, http.MethodPost, "/v1/extract", body, &started); err != nil {
		return Response{}, fmt.Errorf("failed to start extraction: %w", err)
	}
	if !started.Success {
		return Response{}, fmt.Errorf("%w: %s", ErrExtractionFailed, started.Error)
	}

	status := started
	if status.Status != statusCompleted || len(status.Data) == 0 {
		var err error
		status, err = c.wait(ctx, started.ID)
		if err != nil {
			return Response{}, err
		}
	}

	resp, err := DecodeResponse(req.Schema, status.Data)
	if err != nil {
		return Response{}, err
	}

	c.logger.WithFields(logrus.Fields{
		"job_id":     started.ID,
		"properties": len(resp.Properties),
		"locations":  len(resp.Locations),
	}).Info("Extraction completed")
	return resp, nil
}

// wait polls the job until it completes, fails or the context expires.
func (c *FirecrawlClient) wait(ctx context.Context, id string) (extractStatus, error) {
	if id == "" {
		return extractStatus{}, fmt.Errorf("%w: missing job id", ErrExtractionFailed)
	}

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return extractStatus{}, fmt.Errorf("%w: job %s", ErrExtractionTimeout, id)
			}
			return extractStatus{}, ctx.Err()
		case <-ticker.C:
		}

		var status extractStatus
		if err := c.do(ctx, http.MethodGet, "/v1/extract/"+id, nil, &status); err != nil {
			return extractStatus{}, fmt.Errorf("failed to poll extraction %s: %w", id, err)
		}

		switch status.Status {
		case statusCompleted:
			return status, nil
		case statusFailed, statusCancelled:
			return extractStatus{}, fmt.Errorf("%w: job %s %s: %s", ErrExtractionFailed, id, status.Status, status.Error)
		default:
			c.logger.WithFields(logrus.Fields{
				"job_id": id,
				"status": status.Status,
			}).Debug("Extraction still running")
		}
	}
}

// do performs one API call, retrying transport errors, 429 and 5xx answers
// with exponential backoff.
func (c *FirecrawlClient) do(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	operation := func() (struct{}, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
		if err != nil {
			return struct{}{}, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			c.logger.WithError(err).WithField("path", path).Warn("Extraction request failed")
			return struct{}{}, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return struct{}{}, fmt.Errorf("failed to read response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			c.logger.WithFields(logrus.Fields{
				"path":   path,
				"status": resp.StatusCode,
			}).Warn("Extraction service unavailable, retrying")
			return struct{}{}, fmt.Errorf("extraction service status %d", resp.StatusCode)
		case resp.StatusCode >= 400:
			return struct{}{}, backoff.Permanent(fmt.Errorf("extraction service status %d: %s", resp.StatusCode, truncate(string(data), 200)))
		}

		if err := json.Unmarshal(data, out); err != nil {
			return struct{}{}, backoff.Permanent(fmt.Errorf("failed to parse response: %w", err))
		}
		return struct{}{}, nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.cfg.RetryDelay

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(c.cfg.MaxRetries+1)),
	)
	return err
}

func schemaName(s *Schema) string {
	if s == nil {
		return ""
	}
	return s.Name()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
