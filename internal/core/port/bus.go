package port

import (
	"context"
	"time"

	"github.com/MikeRez0/cropmart/internal/core/domain"
)

type EventHandler func(ctx context.Context, event domain.Event) error

type OverflowPolicy int

const (
	// OverflowDropNewest discards the event that did not fit the queue.
	OverflowDropNewest OverflowPolicy = iota
	// OverflowDisconnect closes the subscription with ErrSubscriberOverloaded.
	OverflowDisconnect
)

type SubscribeOptions struct {
	QueueSize    int
	Overflow     OverflowPolicy
	MaxAttempts  int
	RetryBackoff time.Duration
}

//go:generate mockgen -source=bus.go -destination=mock/bus.go -package=mock
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

type EventBus interface {
	EventPublisher
	// Subscribe registers handler for an exact topic or a "prefix.*" pattern.
	Subscribe(pattern, name string, handler EventHandler, opts SubscribeOptions) (Subscription, error)
}

type Subscription interface {
	Close()
	Done() <-chan struct{}
	// Err reports why the subscription ended; nil while it is live or after Close.
	Err() error
}
