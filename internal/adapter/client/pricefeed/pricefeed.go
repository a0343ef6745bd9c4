// Package pricefeed imports market prices from an external feed and folds
// them into the live aggregates.
package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MikeRez0/cropmart/internal/adapter/config"
	"github.com/MikeRez0/cropmart/internal/core/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultRetryAfter = 10 * time.Second
	requestTimeout    = 15 * time.Second
)

// Ingester is the part of the price service the feed writes to.
type Ingester interface {
	Ingest(ctx context.Context, sample domain.PriceSample) (*domain.AggregateSet, error)
}

type Client struct {
	logger   *zap.Logger
	baseURL  string
	http     *http.Client
	crops    []string
	interval time.Duration
	workers  int
	limiter  *rate.Limiter

	queue chan string
	// pausedUntil holds unix nanos; every worker waits it out after a 429
	pausedUntil atomic.Int64

	mu    sync.Mutex
	since map[string]time.Time
}

func NewClient(conf *config.Feed, logger *zap.Logger) (*Client, error) {
	if conf.URL == "" || len(conf.Crops) == 0 {
		return nil, errors.New("price feed needs a url and at least one crop")
	}
	if _, err := url.Parse(conf.URL); err != nil {
		return nil, fmt.Errorf("bad price feed url: %w", err)
	}
	workers := max(conf.Workers, 1)
	return &Client{
		logger:   logger,
		baseURL:  strings.TrimSuffix(conf.URL, "/"),
		http:     &http.Client{Timeout: requestTimeout},
		crops:    conf.Crops,
		interval: conf.Interval,
		workers:  workers,
		limiter:  rate.NewLimiter(rate.Limit(conf.RPS), workers),
		queue:    make(chan string, len(conf.Crops)),
		since:    make(map[string]time.Time, len(conf.Crops)),
	}, nil
}

type feedSample struct {
	ListingID  string    `json:"listing_id"`
	Price      float64   `json:"price"`
	Unit       string    `json:"unit"`
	State      string    `json:"state"`
	District   string    `json:"district"`
	ObservedAt time.Time `json:"observed_at"`
}

type feedResponse struct {
	Samples []feedSample `json:"samples"`
}

type errRetryAfter struct {
	RetryAfter time.Duration
	Throttled  bool
}

func (e *errRetryAfter) Error() string {
	if e.Throttled {
		return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
	}
	return fmt.Sprintf("no new prices, retry after %s", e.RetryAfter)
}

// Run polls every crop until ctx is done. Each crop is in flight on at most
// one worker at a time.
func (c *Client) Run(ctx context.Context, ingester Ingester) error {
	for _, crop := range c.crops {
		c.queue <- crop
	}

	var wg sync.WaitGroup
	for range c.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.work(ctx, ingester)
		}()
	}
	wg.Wait()
	return nil
}

func (c *Client) work(ctx context.Context, ingester Ingester) {
	for {
		select {
		case crop := <-c.queue:
			c.schedule(ctx, crop, c.poll(ctx, crop, ingester))
		case <-ctx.Done():
			c.logger.Debug("Finished worker")
			return
		}
	}
}

// poll fetches and ingests one crop and returns when to poll it again.
func (c *Client) poll(ctx context.Context, crop string, ingester Ingester) time.Duration {
	if err := c.waitPause(ctx); err != nil {
		return 0
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return 0
	}

	samples, err := c.fetch(ctx, crop, c.cursor(crop))
	if err != nil {
		var retry *errRetryAfter
		if errors.As(err, &retry) {
			if retry.Throttled {
				c.logger.Info("Price feed throttled", zap.Duration("retry_after", retry.RetryAfter))
				c.pausedUntil.Store(time.Now().Add(retry.RetryAfter).UnixNano())
			}
			return retry.RetryAfter
		}
		c.logger.Error("Price feed request", zap.String("crop", crop), zap.Error(err))
		return c.interval
	}

	last := c.cursor(crop)
	ingested := 0
	for _, s := range samples {
		_, err := ingester.Ingest(ctx, domain.PriceSample{
			CropID:     crop,
			ListingID:  s.ListingID,
			Price:      s.Price,
			Unit:       s.Unit,
			State:      s.State,
			District:   s.District,
			ObservedAt: s.ObservedAt,
		})
		if err != nil && !errors.Is(err, domain.ErrOutOfOrderSample) {
			c.logger.Warn("Feed sample rejected", zap.String("crop", crop), zap.Error(err))
			continue
		}
		ingested++
		if s.ObservedAt.After(last) {
			last = s.ObservedAt
		}
	}
	c.advance(crop, last)
	c.logger.Debug("Price feed polled", zap.String("crop", crop), zap.Int("samples", ingested))
	return c.interval
}

func (c *Client) waitPause(ctx context.Context) error {
	wait := time.Until(time.Unix(0, c.pausedUntil.Load()))
	if wait <= 0 {
		return nil
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// schedule puts crop back on the queue after delay.
func (c *Client) schedule(ctx context.Context, crop string, delay time.Duration) {
	go func() {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return
		}
		select {
		case c.queue <- crop:
		case <-ctx.Done():
		}
	}()
}

func (c *Client) cursor(crop string) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.since[crop]
}

func (c *Client) advance(crop string, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if at.After(c.since[crop]) {
		c.since[crop] = at
	}
}

func (c *Client) fetch(ctx context.Context, crop string, since time.Time) ([]feedSample, error) {
	requestStr := c.baseURL + "/prices/" + url.PathEscape(crop)
	if !since.IsZero() {
		requestStr += "?since=" + url.QueryEscape(since.Format(time.RFC3339Nano))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestStr, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("error on %s : %w", requestStr, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request error %s : %w", requestStr, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		retryAfter := defaultRetryAfter
		if sec, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && sec >= 0 {
			retryAfter = time.Duration(sec) * time.Second
		}
		return nil, &errRetryAfter{RetryAfter: retryAfter, Throttled: true}
	case http.StatusNoContent:
		return nil, &errRetryAfter{RetryAfter: c.interval}
	default:
		return nil, fmt.Errorf("bad response %v for request %s", resp.StatusCode, requestStr)
	}

	var result feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error on response decode: %w", err)
	}
	return result.Samples, nil
}
