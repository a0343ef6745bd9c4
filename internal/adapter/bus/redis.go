package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/MikeRez0/cropmart/internal/core/port"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultRedisChannel = "cropmart.events"

type envelope struct {
	Origin string       `json:"origin"`
	Event  domain.Event `json:"event"`
}

// RedisBridge shares events between instances. Local publishes go to the local
// bus and to a Redis channel; events other instances put on the channel are
// injected into the local bus. An instance ignores its own messages.
type RedisBridge struct {
	local      *Bus
	rdb        *redis.Client
	channel    string
	instanceID string
	logger     *zap.Logger
}

func NewRedisBridge(ctx context.Context, redisURL, channel, instanceID string, local *Bus,
	logger *zap.Logger) (*RedisBridge, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis url: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisBridge{
		local:      local,
		rdb:        rdb,
		channel:    channel,
		instanceID: instanceID,
		logger:     logger,
	}, nil
}

func (r *RedisBridge) Publish(ctx context.Context, event domain.Event) error {
	if err := r.local.Publish(ctx, event); err != nil {
		return err
	}
	raw, err := json.Marshal(envelope{Origin: r.instanceID, Event: event})
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	// local subscribers already have the event; a Redis outage only costs fan-out
	if err := r.rdb.Publish(ctx, r.channel, raw).Err(); err != nil {
		r.logger.Warn("Redis publish", zap.String("topic", event.Topic), zap.Error(err))
	}
	return nil
}

func (r *RedisBridge) Subscribe(pattern, name string, handler port.EventHandler,
	opts port.SubscribeOptions) (port.Subscription, error) {
	return r.local.Subscribe(pattern, name, handler, opts)
}

// Run forwards remote events into the local bus until ctx is done.
func (r *RedisBridge) Run(ctx context.Context) error {
	sub := r.rdb.Subscribe(ctx, r.channel)
	defer func() { _ = sub.Close() }()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe: %w", err)
	}
	r.logger.Info("Redis bridge started", zap.String("channel", r.channel), zap.String("instance", r.instanceID))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			r.receive(ctx, m.Payload)
		}
	}
}

func (r *RedisBridge) receive(ctx context.Context, payload string) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		r.logger.Warn("Bad redis payload", zap.Error(err))
		return
	}
	if env.Origin == r.instanceID {
		return
	}
	env.Event.Remote = true
	if err := r.local.Publish(ctx, env.Event); err != nil {
		r.logger.Warn("Inject remote event", zap.String("topic", env.Event.Topic), zap.Error(err))
	}
}

func (r *RedisBridge) Close() error {
	return r.rdb.Close()
}
