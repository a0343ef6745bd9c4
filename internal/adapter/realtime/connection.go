package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/MikeRez0/cropmart/internal/core/port"
	"go.uber.org/zap"
)

type outbound struct {
	msg          ServerMessage
	notification *cursor
}

type connection struct {
	id     string
	gw     *Gateway
	conn   Conn
	ctx    context.Context
	cancel context.CancelCauseFunc
	actor  domain.Actor
	out    chan outbound
	logger *zap.Logger

	mu     sync.Mutex
	state  State
	topics map[string]port.Subscription

	// replayMu orders notification pushes against the replay handoff
	replayMu  sync.Mutex
	replaying bool
	held      []domain.Notification
	seen      map[string]struct{}

	lastMu sync.Mutex
	last   cursor

	writing bool
	written chan struct{}
}

func (c *connection) authenticated(actor domain.Actor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actor = actor
	c.state = StateAuthenticated
	c.logger = c.logger.With(zap.String("connection", c.id), zap.String("user", actor.UserID))
}

func (c *connection) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *connection) currentState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// refreshState moves between authenticated and subscribed as topics beyond
// the user's own notifications come and go.
func (c *connection) refreshState() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateAuthenticated && c.state != StateSubscribed {
		return
	}
	if len(c.topics) > 1 {
		c.state = StateSubscribed
	} else {
		c.state = StateAuthenticated
	}
}

// reason prefers the cause the connection was cancelled with over the error
// an interrupted read or write reports.
func (c *connection) reason(err error) error {
	if c.ctx.Err() != nil {
		if cause := context.Cause(c.ctx); cause != nil {
			return cause
		}
	}
	return err
}

// push queues a message for the writer. When the queue stays full for the
// send timeout the client is too slow and the connection is dropped.
func (c *connection) push(o outbound) error {
	select {
	case c.out <- o:
		return nil
	default:
	}

	t := time.NewTimer(c.gw.opts.SendTimeout)
	defer t.Stop()
	select {
	case c.out <- o:
		return nil
	case <-t.C:
		c.logger.Warn("Outbound queue full, disconnecting", zap.String("type", o.msg.Type))
		c.cancel(domain.ErrSubscriberOverloaded)
		return domain.ErrSubscriberOverloaded
	case <-c.ctx.Done():
		return context.Cause(c.ctx)
	}
}

// pushNotification must be called with replayMu held.
func (c *connection) pushNotification(n domain.Notification) error {
	if _, dup := c.seen[n.ID]; dup {
		return nil
	}
	return c.push(outbound{
		msg:          ServerMessage{Type: MsgNotification, Payload: n},
		notification: &cursor{CreatedAt: n.CreatedAt, ID: n.ID},
	})
}

func (c *connection) writeLoop() {
	defer close(c.written)
	for {
		select {
		case <-c.ctx.Done():
			return
		case o := <-c.out:
			if err := c.conn.Write(c.ctx, o.msg); err != nil {
				c.cancel(err)
				return
			}
			if o.notification != nil {
				c.lastMu.Lock()
				c.last = *o.notification
				c.lastMu.Unlock()
			}
		}
	}
}

func (c *connection) startWriter() {
	c.writing = true
	go c.writeLoop()
}

func (c *connection) writerDone() <-chan struct{} {
	if !c.writing {
		done := make(chan struct{})
		close(done)
		return done
	}
	return c.written
}

func (c *connection) lastDelivered() cursor {
	c.lastMu.Lock()
	defer c.lastMu.Unlock()
	return c.last
}

func (c *connection) subscribe(topic string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.topics[topic]; ok {
		return nil
	}

	handler := c.onEvent
	if topic == domain.NotificationTopic(c.actor.UserID) {
		handler = c.onNotification
	}
	sub, err := c.gw.bus.Subscribe(topic, "gateway", handler, port.SubscribeOptions{
		QueueSize:   c.gw.opts.QueueSize,
		Overflow:    port.OverflowDisconnect,
		MaxAttempts: 1,
	})
	if err != nil {
		return err
	}
	c.topics[topic] = sub

	go func() {
		select {
		case <-sub.Done():
			if err := sub.Err(); err != nil {
				c.cancel(err)
			}
		case <-c.ctx.Done():
		}
	}()
	return nil
}

func (c *connection) unsubscribe(topic string) {
	if topic == domain.NotificationTopic(c.actor.UserID) {
		return
	}
	c.mu.Lock()
	sub, ok := c.topics[topic]
	delete(c.topics, topic)
	c.mu.Unlock()
	if ok {
		sub.Close()
	}
}

func (c *connection) closeTopics() {
	c.mu.Lock()
	subs := make([]port.Subscription, 0, len(c.topics))
	for topic, sub := range c.topics {
		subs = append(subs, sub)
		delete(c.topics, topic)
	}
	c.mu.Unlock()
	for _, sub := range subs {
		sub.Close()
	}
}

func (c *connection) onEvent(_ context.Context, ev domain.Event) error {
	msg, ok := messageFor(ev)
	if !ok {
		return nil
	}
	// a failed push already tore the connection down; nothing to retry
	_ = c.push(outbound{msg: msg})
	return nil
}

func (c *connection) onNotification(_ context.Context, ev domain.Event) error {
	if ev.NotificationCreated == nil {
		return nil
	}
	c.replayMu.Lock()
	defer c.replayMu.Unlock()
	if c.replaying {
		c.held = append(c.held, ev.NotificationCreated.Notification)
		return nil
	}
	_ = c.pushNotification(ev.NotificationCreated.Notification)
	return nil
}
