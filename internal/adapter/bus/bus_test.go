package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/MikeRez0/cropmart/internal/core/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const waitFor = 2 * time.Second

func statusEvent(orderID string, version int64) domain.Event {
	return domain.NewOrderStatusChangedEvent(domain.OrderStatusChanged{OrderID: orderID, Version: version})
}

func collector(n int) (port.EventHandler, chan domain.Event) {
	ch := make(chan domain.Event, n)
	return func(_ context.Context, e domain.Event) error {
		ch <- e
		return nil
	}, ch
}

func receive(t *testing.T, ch <-chan domain.Event) domain.Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(waitFor):
		t.Fatal("event not delivered")
	}
	return domain.Event{}
}

func TestMatchTopic(t *testing.T) {
	tests := []struct {
		pattern string
		topic   string
		want    bool
	}{
		{"orders.1", "orders.1", true},
		{"orders.1", "orders.10", false},
		{"orders.*", "orders.10", true},
		{"orders.*", "orders.", false},
		{"orders.*", "prices.tomato", false},
		{"*", "notifications.u1", true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.topic, func(t *testing.T) {
			assert.Equal(t, tt.want, matchTopic(tt.pattern, tt.topic))
		})
	}
}

func TestBus_OrderWithinTopic(t *testing.T) {
	b := New(0, nil, zap.NewNop())
	defer b.Close()

	handler, ch := collector(100)
	_, err := b.Subscribe("orders.o1", "test", handler, port.SubscribeOptions{QueueSize: 100})
	require.NoError(t, err)

	for v := int64(1); v <= 100; v++ {
		require.NoError(t, b.Publish(context.Background(), statusEvent("o1", v)))
	}
	for v := int64(1); v <= 100; v++ {
		assert.Equal(t, v, receive(t, ch).OrderStatusChanged.Version)
	}
}

func TestBus_SlowSubscriberDoesNotStallOthers(t *testing.T) {
	b := New(0, nil, zap.NewNop())
	defer b.Close()

	gate := make(chan struct{})
	defer close(gate)
	_, err := b.Subscribe("orders.*", "slow", func(ctx context.Context, _ domain.Event) error {
		select {
		case <-gate:
		case <-ctx.Done():
		}
		return nil
	}, port.SubscribeOptions{QueueSize: 1})
	require.NoError(t, err)

	handler, ch := collector(10)
	_, err = b.Subscribe("orders.*", "fast", handler, port.SubscribeOptions{QueueSize: 10})
	require.NoError(t, err)

	start := time.Now()
	for v := int64(1); v <= 10; v++ {
		require.NoError(t, b.Publish(context.Background(), statusEvent("o1", v)))
	}
	assert.Less(t, time.Since(start), time.Second)
	for v := int64(1); v <= 10; v++ {
		assert.Equal(t, v, receive(t, ch).OrderStatusChanged.Version)
	}
}

func TestBus_Overflow(t *testing.T) {
	tests := []struct {
		name      string
		policy    port.OverflowPolicy
		expErr    error
		delivered int
	}{
		{name: "drop newest", policy: port.OverflowDropNewest, delivered: 3},
		{name: "disconnect", policy: port.OverflowDisconnect, expErr: domain.ErrSubscriberOverloaded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(0, nil, zap.NewNop())
			defer b.Close()

			started := make(chan struct{}, 10)
			gate := make(chan struct{})
			var delivered atomic.Int32
			sub, err := b.Subscribe("prices.tomato", "test", func(ctx context.Context, _ domain.Event) error {
				started <- struct{}{}
				select {
				case <-gate:
					delivered.Add(1)
				case <-ctx.Done():
				}
				return nil
			}, port.SubscribeOptions{QueueSize: 2, Overflow: tt.policy})
			require.NoError(t, err)

			ev := domain.NewPriceUpdatedEvent(domain.PriceUpdated{CropID: "tomato"})
			require.NoError(t, b.Publish(context.Background(), ev))
			<-started
			for range 4 {
				require.NoError(t, b.Publish(context.Background(), ev))
			}

			if tt.expErr != nil {
				select {
				case <-sub.Done():
				case <-time.After(waitFor):
					t.Fatal("subscription not closed")
				}
				assert.ErrorIs(t, sub.Err(), tt.expErr)
				close(gate)
				return
			}

			close(gate)
			assert.Eventually(t, func() bool { return delivered.Load() == int32(tt.delivered) },
				waitFor, 5*time.Millisecond)
			sub.Close()
			<-sub.Done()
			assert.NoError(t, sub.Err())
			assert.Equal(t, int32(tt.delivered), delivered.Load())
		})
	}
}

func TestBus_RetriesFailedHandler(t *testing.T) {
	b := New(0, nil, zap.NewNop())
	defer b.Close()

	var calls atomic.Int32
	done := make(chan struct{})
	_, err := b.Subscribe("notifications.u1", "test", func(_ context.Context, _ domain.Event) error {
		if calls.Add(1) < 3 {
			return errors.New("storage down")
		}
		close(done)
		return nil
	}, port.SubscribeOptions{MaxAttempts: 3, RetryBackoff: time.Millisecond})
	require.NoError(t, err)

	ev := domain.NewNotificationCreatedEvent(domain.Notification{ID: "n1", UserID: "u1"})
	require.NoError(t, b.Publish(context.Background(), ev))

	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("handler never succeeded")
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestBus_Closed(t *testing.T) {
	b := New(0, nil, zap.NewNop())
	handler, _ := collector(1)
	sub, err := b.Subscribe("orders.*", "test", handler, port.SubscribeOptions{})
	require.NoError(t, err)

	b.Close()
	<-sub.Done()

	assert.ErrorIs(t, b.Publish(context.Background(), statusEvent("o1", 1)), domain.ErrBusClosed)
	_, err = b.Subscribe("orders.*", "late", handler, port.SubscribeOptions{})
	assert.ErrorIs(t, err, domain.ErrBusClosed)
}

func TestRedisBridge_Receive(t *testing.T) {
	local := New(0, nil, zap.NewNop())
	defer local.Close()
	bridge := &RedisBridge{local: local, instanceID: "a", logger: zap.NewNop()}

	handler, ch := collector(4)
	_, err := local.Subscribe("orders.*", "test", handler, port.SubscribeOptions{})
	require.NoError(t, err)

	for i, origin := range []string{"a", "b"} {
		raw, err := json.Marshal(envelope{Origin: origin, Event: statusEvent(fmt.Sprint("o", i), int64(i))})
		require.NoError(t, err)
		bridge.receive(context.Background(), string(raw))
	}
	bridge.receive(context.Background(), "not json")

	got := receive(t, ch)
	assert.Equal(t, "o1", got.OrderStatusChanged.OrderID)
	assert.True(t, got.Remote)
	select {
	case e := <-ch:
		t.Fatalf("unexpected event %s", e.Topic)
	case <-time.After(50 * time.Millisecond):
	}
}
