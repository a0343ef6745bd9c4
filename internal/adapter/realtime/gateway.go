package realtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/MikeRez0/cropmart/internal/core/port"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrAuthTimeout   = errors.New("client did not authenticate in time")
	ErrGatewayClosed = errors.New("gateway is shutting down")
)

type State string

const (
	StateConnecting    State = "connecting"
	StateAuthenticated State = "authenticated"
	StateSubscribed    State = "subscribed"
	StateDisconnected  State = "disconnected"
)

type Options struct {
	QueueSize    int
	SendTimeout  time.Duration
	ReplayWindow time.Duration
	ReplayLimit  int
	AuthTimeout  time.Duration
}

func (o *Options) withDefaults() {
	if o.QueueSize <= 0 {
		o.QueueSize = 64
	}
	if o.SendTimeout <= 0 {
		o.SendTimeout = 250 * time.Millisecond
	}
	if o.ReplayWindow <= 0 {
		o.ReplayWindow = 10 * time.Minute
	}
	if o.ReplayLimit <= 0 {
		o.ReplayLimit = 500
	}
	if o.AuthTimeout <= 0 {
		o.AuthTimeout = 10 * time.Second
	}
}

type Stats struct {
	Connections int           `json:"connections"`
	States      map[State]int `json:"states"`
	Resumable   int           `json:"resumable"`
}

// cursor orders notifications by creation time, then id.
type cursor struct {
	CreatedAt time.Time
	ID        string
}

func (c cursor) before(n *domain.Notification) bool {
	if n.CreatedAt.Equal(c.CreatedAt) {
		return c.ID < n.ID
	}
	return c.CreatedAt.Before(n.CreatedAt)
}

type resumePoint struct {
	cursor cursor
	at     time.Time
}

// Gateway pushes bus events to realtime clients. Every connection gets its own
// bus subscriptions and a bounded outbound queue drained by one writer.
type Gateway struct {
	bus           port.EventBus
	tokens        port.TokenService
	notifications port.NotificationRepository
	orders        port.OrderService
	opts          Options
	metrics       port.Metrics
	logger        *zap.Logger
	now           func() time.Time

	mu     sync.Mutex
	conns  map[string]*connection
	resume map[string]resumePoint
	closed bool
}

func NewGateway(bus port.EventBus, tokens port.TokenService, notifications port.NotificationRepository,
	orders port.OrderService, opts Options, m port.Metrics, logger *zap.Logger) *Gateway {
	opts.withDefaults()
	if m == nil {
		m = port.NopMetrics{}
	}
	return &Gateway{
		bus:           bus,
		tokens:        tokens,
		notifications: notifications,
		orders:        orders,
		opts:          opts,
		metrics:       m,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
		conns:         make(map[string]*connection),
		resume:        make(map[string]resumePoint),
	}
}

// Serve runs one client connection until it ends and returns why it ended.
// A normal client close returns nil.
func (g *Gateway) Serve(ctx context.Context, conn Conn) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	c := &connection{
		id:      uuid.NewString(),
		gw:      g,
		conn:    conn,
		ctx:     ctx,
		cancel:  cancel,
		state:   StateConnecting,
		out:     make(chan outbound, g.opts.QueueSize),
		topics:  make(map[string]port.Subscription),
		seen:    make(map[string]struct{}),
		written: make(chan struct{}),
		logger:  g.logger,
	}
	if err := g.register(c); err != nil {
		_ = conn.Close(err)
		return err
	}

	reason := g.run(c)
	if errors.Is(reason, io.EOF) {
		reason = nil
	}
	g.finish(c, reason)
	return reason
}

func (g *Gateway) run(c *connection) error {
	actor, resumeAfter, err := g.authenticate(c)
	if err != nil {
		return err
	}
	c.authenticated(actor)

	c.startWriter()

	replayed, err := g.attachNotifications(c, resumeAfter)
	if err != nil {
		return c.reason(err)
	}
	if err := c.push(outbound{msg: ServerMessage{Type: MsgReady, Payload: ReadyPayload{
		ConnectionID: c.id, UserID: actor.UserID, Replayed: replayed,
	}}}); err != nil {
		return c.reason(err)
	}

	for {
		msg, err := c.conn.Read(c.ctx)
		if err != nil {
			return c.reason(err)
		}
		if err := g.handle(c, msg); err != nil {
			return c.reason(err)
		}
	}
}

// authenticate waits for the auth message. Anything else closes the connection.
func (g *Gateway) authenticate(c *connection) (domain.Actor, string, error) {
	ctx, cancel := context.WithTimeoutCause(c.ctx, g.opts.AuthTimeout, ErrAuthTimeout)
	defer cancel()

	msg, err := c.conn.Read(ctx)
	if err != nil {
		if cause := context.Cause(ctx); cause != nil {
			return domain.Actor{}, "", cause
		}
		return domain.Actor{}, "", err
	}
	if msg.Type != MsgAuth {
		_ = c.conn.Write(c.ctx, errorMessage("unauthorized", "authenticate first"))
		return domain.Actor{}, "", domain.ErrUnauthorized
	}
	payload, err := g.tokens.VerifyToken(msg.Token)
	if err != nil {
		_ = c.conn.Write(c.ctx, errorMessage("unauthorized", err.Error()))
		return domain.Actor{}, "", err
	}
	return payload.Actor(), msg.ResumeAfter, nil
}

// attachNotifications subscribes the connection to its user's notification
// topic and resends what the user missed. Live notifications that arrive
// while the replay runs are held back and sent after it, without duplicates.
func (g *Gateway) attachNotifications(c *connection, resumeAfter string) (int, error) {
	from, ok := g.replayCursor(c, resumeAfter)
	if !ok {
		from = cursor{CreatedAt: g.now()}
	}

	c.replayMu.Lock()
	c.replaying = true
	c.replayMu.Unlock()
	c.lastMu.Lock()
	c.last = from
	c.lastMu.Unlock()

	topic := domain.NotificationTopic(c.actor.UserID)
	if err := c.subscribe(topic); err != nil {
		return 0, err
	}

	var missed []*domain.Notification
	if ok {
		var err error
		missed, err = g.notifications.NotificationsSince(c.ctx, c.actor.UserID, from.CreatedAt, from.ID, g.opts.ReplayLimit)
		if err != nil {
			g.logger.Error("Load notifications for replay", zap.String("user", c.actor.UserID), zap.Error(err))
			return 0, err
		}
	}

	c.replayMu.Lock()
	defer c.replayMu.Unlock()
	for _, n := range missed {
		if err := c.pushNotification(*n); err != nil {
			return 0, err
		}
		c.seen[n.ID] = struct{}{}
	}
	held := c.held
	c.held = nil
	c.replaying = false
	for _, n := range held {
		if err := c.pushNotification(n); err != nil {
			return 0, err
		}
	}

	if len(missed) > 0 {
		g.metrics.RecordReplayed(len(missed))
		g.logger.Debug("Replayed notifications",
			zap.String("connection", c.id), zap.Int("count", len(missed)))
	}
	return len(missed), nil
}

// replayCursor picks where replay starts: the client's explicit position, or
// what this gateway last delivered to the user before a recent disconnect.
// Replay never reaches further back than the replay window.
func (g *Gateway) replayCursor(c *connection, resumeAfter string) (cursor, bool) {
	now := g.now()
	floor := cursor{CreatedAt: now.Add(-g.opts.ReplayWindow)}

	var (
		from  cursor
		found bool
	)
	if resumeAfter != "" {
		n, err := g.notifications.ReadNotification(c.ctx, c.actor.UserID, resumeAfter)
		if err == nil {
			from, found = cursor{CreatedAt: n.CreatedAt, ID: n.ID}, true
		} else if !errors.Is(err, domain.ErrDataNotFound) {
			g.logger.Warn("Read resume position", zap.String("user", c.actor.UserID), zap.Error(err))
		}
	}
	if !found {
		g.mu.Lock()
		rp, ok := g.resume[c.actor.UserID]
		g.mu.Unlock()
		if ok && now.Sub(rp.at) <= g.opts.ReplayWindow {
			from, found = rp.cursor, true
		}
	}
	if !found {
		return cursor{}, false
	}
	if from.CreatedAt.Before(floor.CreatedAt) {
		from = floor
	}
	return from, true
}

func (g *Gateway) handle(c *connection, msg ClientMessage) error {
	switch msg.Type {
	case MsgPing:
		return c.push(outbound{msg: ServerMessage{Type: MsgPong}})
	case MsgSubscribe:
		for _, crop := range msg.Crops {
			if crop == "" {
				continue
			}
			if err := c.subscribe(domain.PriceTopic(crop)); err != nil {
				return err
			}
		}
		for _, orderID := range msg.Orders {
			if _, err := g.orders.GetOrder(c.ctx, c.actor, orderID); err != nil {
				if err := c.push(outbound{msg: errorMessage("forbidden", fmt.Sprintf("order %s: %s", orderID, err))}); err != nil {
					return err
				}
				continue
			}
			if err := c.subscribe(domain.OrderTopic(orderID)); err != nil {
				return err
			}
		}
	case MsgUnsubscribe:
		for _, crop := range msg.Crops {
			c.unsubscribe(domain.PriceTopic(crop))
		}
		for _, orderID := range msg.Orders {
			c.unsubscribe(domain.OrderTopic(orderID))
		}
	case MsgAuth:
		return c.push(outbound{msg: errorMessage("bad_request", "already authenticated")})
	default:
		return c.push(outbound{msg: errorMessage("bad_request", "unknown message type "+msg.Type)})
	}
	c.refreshState()
	return nil
}

func (g *Gateway) register(c *connection) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return ErrGatewayClosed
	}
	g.conns[c.id] = c
	g.metrics.SetGatewayConnections(len(g.conns))
	return nil
}

func (g *Gateway) finish(c *connection, reason error) {
	c.cancel(reason)
	c.closeTopics()
	c.setState(StateDisconnected)
	<-c.writerDone()

	if err := c.conn.Close(reason); err != nil {
		g.logger.Debug("Close connection", zap.String("connection", c.id), zap.Error(err))
	}

	now := g.now()
	g.mu.Lock()
	delete(g.conns, c.id)
	if c.actor.UserID != "" {
		last := c.lastDelivered()
		if prev, ok := g.resume[c.actor.UserID]; !ok || !last.CreatedAt.Before(prev.cursor.CreatedAt) {
			g.resume[c.actor.UserID] = resumePoint{cursor: last, at: now}
		}
	}
	for user, rp := range g.resume {
		if now.Sub(rp.at) > g.opts.ReplayWindow {
			delete(g.resume, user)
		}
	}
	g.metrics.SetGatewayConnections(len(g.conns))
	g.mu.Unlock()

	g.metrics.RecordGatewayDisconnect(disconnectReason(reason))
	if reason != nil {
		g.logger.Info("Realtime connection closed",
			zap.String("connection", c.id), zap.String("user", c.actor.UserID), zap.Error(reason))
	}
}

func disconnectReason(err error) string {
	switch {
	case err == nil:
		return "client"
	case errors.Is(err, domain.ErrSubscriberOverloaded):
		return "overloaded"
	case errors.Is(err, ErrAuthTimeout), errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrExpiredToken):
		return "unauthorized"
	case errors.Is(err, ErrGatewayClosed):
		return "shutdown"
	}
	return "error"
}

// Stats reports the open connections by state.
func (g *Gateway) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := Stats{
		Connections: len(g.conns),
		States:      make(map[State]int),
		Resumable:   len(g.resume),
	}
	for _, c := range g.conns {
		s.States[c.currentState()]++
	}
	return s
}

// Shutdown disconnects every client and refuses new ones.
func (g *Gateway) Shutdown() {
	g.mu.Lock()
	g.closed = true
	conns := make([]*connection, 0, len(g.conns))
	for _, c := range g.conns {
		conns = append(conns, c)
	}
	g.mu.Unlock()

	for _, c := range conns {
		c.cancel(ErrGatewayClosed)
	}
}
