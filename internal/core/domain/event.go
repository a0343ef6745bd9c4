package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventOrderPlaced         EventType = "order_placed"
	EventOrderStatusChanged  EventType = "order_status_changed"
	EventPriceUpdated        EventType = "price_updated"
	EventNotificationCreated EventType = "notification_created"
)

const (
	TopicOrdersPrefix        = "orders."
	TopicPricesPrefix        = "prices."
	TopicNotificationsPrefix = "notifications."
)

func OrderTopic(orderID string) string { return TopicOrdersPrefix + orderID }

// PriceTopic folds case like NewScopeKey, so "Tomato" and "tomato" share a topic.
func PriceTopic(cropID string) string { return TopicPricesPrefix + strings.ToLower(cropID) }

func NotificationTopic(userID string) string { return TopicNotificationsPrefix + userID }

type OrderPlaced struct {
	OrderID  string `json:"order_id"`
	CropID   string `json:"crop_id"`
	BuyerID  string `json:"buyer_id"`
	FarmerID string `json:"farmer_id"`
	Total    string `json:"total"`
}

type OrderStatusChanged struct {
	OrderID   string      `json:"order_id"`
	From      OrderStatus `json:"from"`
	To        OrderStatus `json:"to"`
	ActorID   string      `json:"actor_id"`
	ActorRole Role        `json:"actor_role"`
	BuyerID   string      `json:"buyer_id"`
	FarmerID  string      `json:"farmer_id"`
	Version   int64       `json:"version"`
}

type PriceUpdated struct {
	CropID    string         `json:"crop_id"`
	Scope     Scope          `json:"scope"`
	Aggregate PriceAggregate `json:"aggregate"`
}

type NotificationCreated struct {
	UserID       string       `json:"user_id"`
	Notification Notification `json:"notification"`
}

// Event is an immutable message crossing component boundaries.
// Exactly one of the payload pointers is set, matching Type.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Topic      string    `json:"topic"`
	OccurredAt time.Time `json:"occurred_at"`
	// Remote marks an event another instance published and the bridge
	// delivered here.
	Remote bool `json:"-"`

	OrderPlaced         *OrderPlaced         `json:"order_placed,omitempty"`
	OrderStatusChanged  *OrderStatusChanged  `json:"order_status_changed,omitempty"`
	PriceUpdated        *PriceUpdated        `json:"price_updated,omitempty"`
	NotificationCreated *NotificationCreated `json:"notification_created,omitempty"`
}

func newEvent(t EventType, topic string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		Topic:      topic,
		OccurredAt: time.Now().UTC(),
	}
}

func NewOrderPlacedEvent(p OrderPlaced) Event {
	e := newEvent(EventOrderPlaced, OrderTopic(p.OrderID))
	e.OrderPlaced = &p
	return e
}

func NewOrderStatusChangedEvent(p OrderStatusChanged) Event {
	e := newEvent(EventOrderStatusChanged, OrderTopic(p.OrderID))
	e.OrderStatusChanged = &p
	return e
}

func NewPriceUpdatedEvent(p PriceUpdated) Event {
	e := newEvent(EventPriceUpdated, PriceTopic(p.CropID))
	e.PriceUpdated = &p
	return e
}

func NewNotificationCreatedEvent(n Notification) Event {
	e := newEvent(EventNotificationCreated, NotificationTopic(n.UserID))
	e.NotificationCreated = &NotificationCreated{UserID: n.UserID, Notification: n}
	return e
}
