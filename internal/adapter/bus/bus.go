package bus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/MikeRez0/cropmart/internal/core/port"
	"go.uber.org/zap"
)

const (
	defaultQueueSize    = 256
	defaultRetryBackoff = 20 * time.Millisecond
)

// Bus is an in-process topic fan-out. Publish never waits for a subscriber:
// each subscription owns a bounded queue drained by its own goroutine.
type Bus struct {
	mu        sync.RWMutex
	subs      map[*subscription]struct{}
	closed    bool
	queueSize int
	metrics   port.Metrics
	logger    *zap.Logger
}

func New(queueSize int, m port.Metrics, logger *zap.Logger) *Bus {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if m == nil {
		m = port.NopMetrics{}
	}
	return &Bus{
		subs:      make(map[*subscription]struct{}),
		queueSize: queueSize,
		metrics:   m,
		logger:    logger,
	}
}

func (b *Bus) Publish(_ context.Context, event domain.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return domain.ErrBusClosed
	}
	for s := range b.subs {
		if matchTopic(s.pattern, event.Topic) {
			s.offer(event)
		}
	}
	return nil
}

func (b *Bus) Subscribe(pattern, name string, handler port.EventHandler,
	opts port.SubscribeOptions) (port.Subscription, error) {
	if pattern == "" || handler == nil {
		return nil, fmt.Errorf("%w: subscription needs a pattern and a handler", domain.ErrBadRequest)
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = b.queueSize
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = defaultRetryBackoff
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &subscription{
		bus:     b,
		pattern: pattern,
		name:    name,
		handler: handler,
		opts:    opts,
		queue:   make(chan domain.Event, opts.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		logger:  b.logger.With(zap.String("subscription", name), zap.String("pattern", pattern)),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		cancel()
		return nil, domain.ErrBusClosed
	}
	b.subs[s] = struct{}{}
	b.mu.Unlock()

	go s.run()
	return s, nil
}

// Close ends every subscription. Queued events are discarded.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := make([]*subscription, 0, len(b.subs))
	for s := range b.subs {
		subs = append(subs, s)
	}
	b.subs = map[*subscription]struct{}{}
	b.mu.Unlock()

	for _, s := range subs {
		s.stop(nil)
	}
}

func (b *Bus) remove(s *subscription) {
	b.mu.Lock()
	delete(b.subs, s)
	b.mu.Unlock()
}

// matchTopic accepts an exact topic, "prefix.*" or "*".
func matchTopic(pattern, topic string) bool {
	if pattern == "*" {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(topic, prefix) && len(topic) > len(prefix)
	}
	return pattern == topic
}

type subscription struct {
	bus     *Bus
	pattern string
	name    string
	handler port.EventHandler
	opts    port.SubscribeOptions
	queue   chan domain.Event
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	logger  *zap.Logger

	once sync.Once
	mu   sync.Mutex
	err  error
}

// offer enqueues without blocking and applies the overflow policy when full.
func (s *subscription) offer(event domain.Event) {
	select {
	case <-s.ctx.Done():
		return
	default:
	}
	select {
	case s.queue <- event:
		return
	default:
	}

	s.bus.metrics.RecordBusDrop(s.name)
	if s.opts.Overflow == port.OverflowDisconnect {
		s.logger.Warn("Subscriber overloaded, disconnecting", zap.String("topic", event.Topic))
		go s.stop(domain.ErrSubscriberOverloaded)
		return
	}
	s.logger.Warn("Subscriber queue full, event dropped",
		zap.String("topic", event.Topic), zap.String("event", event.ID))
}

func (s *subscription) run() {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case event := <-s.queue:
			s.deliver(event)
		}
	}
}

func (s *subscription) deliver(event domain.Event) {
	backoff := s.opts.RetryBackoff
	for attempt := 1; ; attempt++ {
		err := s.handler(s.ctx, event)
		if err == nil {
			return
		}
		if attempt >= s.opts.MaxAttempts || errors.Is(err, context.Canceled) {
			s.logger.Error("Event handler failed",
				zap.String("topic", event.Topic), zap.String("event", event.ID),
				zap.Int("attempts", attempt), zap.Error(err))
			return
		}
		s.bus.metrics.RecordBusRetry(s.name)
		s.logger.Debug("Retrying event", zap.String("event", event.ID), zap.Int("attempt", attempt), zap.Error(err))

		t := time.NewTimer(backoff)
		select {
		case <-t.C:
		case <-s.ctx.Done():
			t.Stop()
			return
		}
		backoff *= 2
	}
}

func (s *subscription) stop(reason error) {
	s.once.Do(func() {
		s.mu.Lock()
		s.err = reason
		s.mu.Unlock()
		s.bus.remove(s)
		s.cancel()
	})
}

func (s *subscription) Close() { s.stop(nil) }

func (s *subscription) Done() <-chan struct{} { return s.done }

func (s *subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
