package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-university-etl/internal/model"
)

func newTestExtractor(url string) *Extractor {
	e := NewExtractor(url, time.Second, 3, time.Millisecond, 10*time.Millisecond)
	e.sleep = func(time.Duration) {} // no real timers in tests
	return e
}

func TestExtract(t *testing.T) {
	t.Run("Succeeds On First Attempt", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.Write([]byte(`[{"name":"Test University","country":"Testland"}]`))
		}))
		defer server.Close()

		records, err := newTestExtractor(server.URL).Extract(context.Background())
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Test University", records[0]["name"])
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("Recovers After Transport Failure", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`[{"name":"Test University","country":"Testland"}]`))
		}))
		defer server.Close()

		records, err := newTestExtractor(server.URL).Extract(context.Background())
		require.NoError(t, err)
		assert.Len(t, records, 1)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("Fails After Exhausting Attempts", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := newTestExtractor(server.URL).Extract(context.Background())
		require.Error(t, err)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls), "transport must be invoked exactly 3 times")

		var extErr *model.ExtractionError
		require.True(t, errors.As(err, &extErr))
		assert.Equal(t, 3, extErr.Attempts)
		assert.Contains(t, err.Error(), "3 attempts")
		assert.Error(t, extErr.Unwrap())
	})

	t.Run("Object Body Consumes An Attempt Like A Transport Failure", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.Write([]byte(`{"error":"upstream unavailable"}`))
		}))
		defer server.Close()

		_, err := newTestExtractor(server.URL).Extract(context.Background())
		require.Error(t, err)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

		var extErr *model.ExtractionError
		require.True(t, errors.As(err, &extErr))
		assert.Contains(t, extErr.Err.Error(), "not a JSON array")
	})
}

func TestBackoffBounds(t *testing.T) {
	e := &Extractor{BaseDelay: time.Second, MaxDelay: 10 * time.Second}

	// For attempt k the delay lies in [base*2^(k-1), base*2^(k-1)+1s],
	// capped at MaxDelay.
	for attempt := 1; attempt <= 6; attempt++ {
		lower := time.Second << uint(attempt-1)
		upper := lower + time.Second
		if lower > e.MaxDelay {
			lower = e.MaxDelay
		}
		if upper > e.MaxDelay {
			upper = e.MaxDelay
		}

		for i := 0; i < 50; i++ {
			delay := e.backoff(attempt)
			assert.GreaterOrEqual(t, delay, lower, "attempt %d", attempt)
			assert.LessOrEqual(t, delay, upper, "attempt %d", attempt)
		}
	}
}

func TestIsWellFormed(t *testing.T) {
	t.Run("Empty Payload Is Well Formed", func(t *testing.T) {
		assert.True(t, IsWellFormed(nil))
		assert.True(t, IsWellFormed([]model.RawRecord{}))
	})

	t.Run("Valid First Element", func(t *testing.T) {
		assert.True(t, IsWellFormed([]model.RawRecord{
			{"name": "Test University", "country": "Testland"},
		}))
	})

	t.Run("Missing Or Blank Fields Rejected", func(t *testing.T) {
		assert.False(t, IsWellFormed([]model.RawRecord{{"name": "Test University"}}))
		assert.False(t, IsWellFormed([]model.RawRecord{{"name": "  ", "country": "Testland"}}))
		assert.False(t, IsWellFormed([]model.RawRecord{{"name": 42, "country": "Testland"}}))
		assert.False(t, IsWellFormed([]model.RawRecord{nil}))
	})

	t.Run("Only First Element Is Sampled", func(t *testing.T) {
		// Known heuristic: later malformed elements pass the check and
		// are left for the transformer to reject.
		assert.True(t, IsWellFormed([]model.RawRecord{
			{"name": "Test University", "country": "Testland"},
			{"garbage": true},
		}))
	})
}
