package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"go-university-etl/internal/model"
)

// Extractor fetches the raw university dataset over HTTP with bounded
// retry and exponential backoff.
type Extractor struct {
	URL         string
	Client      *http.Client
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// sleep is swappable in tests so retries run without real timers.
	sleep func(time.Duration)
}

// NewExtractor creates an extractor with a fixed per-attempt timeout.
func NewExtractor(url string, timeout time.Duration, maxAttempts int, baseDelay, maxDelay time.Duration) *Extractor {
	return &Extractor{
		URL:         url,
		Client:      &http.Client{Timeout: timeout},
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		MaxDelay:    maxDelay,
		sleep:       time.Sleep,
	}
}

// Extract fetches the full dataset, retrying transport and shape
// failures alike. Its only failure mode is *model.ExtractionError.
func (e *Extractor) Extract(ctx context.Context) ([]model.RawRecord, error) {
	var lastErr error
	for attempt := 1; attempt <= e.MaxAttempts; attempt++ {
		records, err := e.fetch(ctx)
		if err == nil {
			log.Printf("extract: fetched %d records on attempt %d/%d", len(records), attempt, e.MaxAttempts)
			return records, nil
		}
		lastErr = err
		log.Printf("extract: attempt %d/%d failed: %v", attempt, e.MaxAttempts, err)
		if attempt < e.MaxAttempts {
			e.sleep(e.backoff(attempt))
		}
	}
	return nil, &model.ExtractionError{Attempts: e.MaxAttempts, Err: lastErr}
}

// fetch performs one GET and insists on a JSON array body. A single
// object or error envelope is a shape failure and counts as an attempt
// just like a transport failure.
func (e *Extractor) fetch(ctx context.Context) ([]model.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to GET %s: %w", e.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, e.URL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var records []model.RawRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("response is not a JSON array: %w", err)
	}
	return records, nil
}

// backoff computes the delay before the retry that follows attempt k:
// min(base*2^(k-1) + jitter, max), jitter uniform in [0, 1s). The
// jitter spreads retries so parallel instances don't hammer the
// upstream in lockstep.
func (e *Extractor) backoff(attempt int) time.Duration {
	delay := e.BaseDelay << uint(attempt-1)
	delay += time.Duration(rand.Int63n(int64(time.Second)))
	if delay > e.MaxDelay {
		delay = e.MaxDelay
	}
	return delay
}

// IsWellFormed reports whether a raw payload looks like a plausible
// dataset. An empty slice is well-formed; otherwise only the first
// element is inspected for non-empty name and country fields. This is a
// deliberate sample heuristic; full per-record validation belongs to
// the transformer.
func IsWellFormed(records []model.RawRecord) bool {
	if len(records) == 0 {
		return true
	}
	first := records[0]
	if first == nil {
		return false
	}
	name, _ := first["name"].(string)
	country, _ := first["country"].(string)
	return strings.TrimSpace(name) != "" && strings.TrimSpace(country) != ""
}
