package pricefeed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MikeRez0/cropmart/internal/adapter/config"
	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingIngester struct {
	mu      sync.Mutex
	samples []domain.PriceSample
	err     error
}

func (r *recordingIngester) Ingest(_ context.Context, s domain.PriceSample) (*domain.AggregateSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, s)
	return nil, r.err
}

func (r *recordingIngester) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}

func newTestClient(t *testing.T, url string, crops ...string) *Client {
	t.Helper()
	c, err := NewClient(&config.Feed{
		URL:      url,
		Crops:    crops,
		Interval: 20 * time.Millisecond,
		Workers:  2,
		RPS:      1000,
	}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(&config.Feed{URL: "http://feed"}, zap.NewNop())
	assert.Error(t, err)
	_, err = NewClient(&config.Feed{Crops: []string{"wheat"}}, zap.NewNop())
	assert.Error(t, err)
}

func TestClient_Fetch(t *testing.T) {
	observed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		status    int
		header    map[string]string
		body      any
		wantLen   int
		wantRetry time.Duration
		throttled bool
		wantErr   bool
	}{
		{
			name:   "samples",
			status: http.StatusOK,
			body: feedResponse{Samples: []feedSample{
				{ListingID: "l1", Price: 20, Unit: "kg", State: "KA", District: "Mysuru", ObservedAt: observed},
				{ListingID: "l2", Price: 22, Unit: "kg", State: "KA", ObservedAt: observed.Add(time.Minute)},
			}},
			wantLen: 2,
		},
		{
			name:      "nothing new",
			status:    http.StatusNoContent,
			wantRetry: 20 * time.Millisecond,
		},
		{
			name:      "throttled",
			status:    http.StatusTooManyRequests,
			header:    map[string]string{"Retry-After": "3"},
			wantRetry: 3 * time.Second,
			throttled: true,
		},
		{
			name:      "throttled without header",
			status:    http.StatusTooManyRequests,
			wantRetry: defaultRetryAfter,
			throttled: true,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			wantErr: true,
		},
		{
			name:    "broken body",
			status:  http.StatusOK,
			body:    "not an object",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotSince string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotSince = r.URL.Query().Get("since")
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				if tt.body != nil {
					_ = json.NewEncoder(w).Encode(tt.body)
				}
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL+"/", "wheat")
			samples, err := c.fetch(context.Background(), "wheat", observed)
			assert.Equal(t, "/prices/wheat", gotPath)
			assert.Equal(t, observed.Format(time.RFC3339Nano), gotSince)

			if tt.wantRetry > 0 {
				var retry *errRetryAfter
				require.ErrorAs(t, err, &retry)
				assert.Equal(t, tt.wantRetry, retry.RetryAfter)
				assert.Equal(t, tt.throttled, retry.Throttled)
				return
			}
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, samples, tt.wantLen)
		})
	}
}

func TestClient_RunAdvancesCursor(t *testing.T) {
	observed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	var calls atomic.Int32
	var secondSince atomic.Value

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			_ = json.NewEncoder(w).Encode(feedResponse{Samples: []feedSample{
				{ListingID: "l1", Price: 20, Unit: "kg", State: "KA", ObservedAt: observed},
				{ListingID: "l2", Price: 24, Unit: "kg", State: "KA", ObservedAt: observed.Add(time.Hour)},
			}})
		case 2:
			secondSince.Store(r.URL.Query().Get("since"))
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	ing := &recordingIngester{}
	c := newTestClient(t, srv.URL, "wheat")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, ing) }()

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	require.Equal(t, 2, ing.count())
	assert.Equal(t, "wheat", ing.samples[0].CropID)
	assert.Equal(t, "KA", ing.samples[1].State)
	assert.Equal(t, observed.Add(time.Hour).Format(time.RFC3339Nano), secondSince.Load())
}

func TestClient_OutOfOrderAdvancesCursor(t *testing.T) {
	observed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(feedResponse{Samples: []feedSample{
			{ListingID: "l1", Price: 20, Unit: "kg", State: "KA", ObservedAt: observed},
		}})
	}))
	defer srv.Close()

	ing := &recordingIngester{err: domain.ErrOutOfOrderSample}
	c := newTestClient(t, srv.URL, "rice")
	assert.Equal(t, c.interval, c.poll(context.Background(), "rice", ing))
	assert.Equal(t, observed, c.cursor("rice"))

	ing.err = domain.ErrInvalidSample
	c2 := newTestClient(t, srv.URL, "rice")
	c2.poll(context.Background(), "rice", ing)
	assert.True(t, c2.cursor("rice").IsZero())
}

func TestClient_ThrottlePausesWorkers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "maize")
	delay := c.poll(context.Background(), "maize", &recordingIngester{})
	assert.Equal(t, time.Minute, delay)
	assert.Greater(t, time.Until(time.Unix(0, c.pausedUntil.Load())), 50*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.waitPause(ctx), context.DeadlineExceeded)
}
