package realtime

import (
	"github.com/MikeRez0/cropmart/internal/core/domain"
)

// Client message types.
const (
	MsgAuth        = "auth"
	MsgSubscribe   = "subscribe"
	MsgUnsubscribe = "unsubscribe"
	MsgPing        = "ping"
)

// Server message types.
const (
	MsgOrderStatus  = "order_status"
	MsgPriceUpdate  = "price_update"
	MsgNotification = "notification"
	MsgReady        = "ready"
	MsgError        = "error"
	MsgPong         = "pong"
)

type ClientMessage struct {
	Type        string   `json:"type"`
	Token       string   `json:"token,omitempty"`
	ResumeAfter string   `json:"resume_after,omitempty"`
	Crops       []string `json:"crops,omitempty"`
	Orders      []string `json:"orders,omitempty"`
}

type ServerMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type ReadyPayload struct {
	ConnectionID string `json:"connection_id"`
	UserID       string `json:"user_id"`
	Replayed     int    `json:"replayed"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorMessage(code, message string) ServerMessage {
	return ServerMessage{Type: MsgError, Payload: ErrorPayload{Code: code, Message: message}}
}

// messageFor converts a bus event into what a client sees. Events clients
// never receive report false.
func messageFor(ev domain.Event) (ServerMessage, bool) {
	switch ev.Type {
	case domain.EventOrderStatusChanged:
		if ev.OrderStatusChanged != nil {
			return ServerMessage{Type: MsgOrderStatus, Payload: *ev.OrderStatusChanged}, true
		}
	case domain.EventPriceUpdated:
		if ev.PriceUpdated != nil {
			return ServerMessage{Type: MsgPriceUpdate, Payload: *ev.PriceUpdated}, true
		}
	case domain.EventNotificationCreated:
		if ev.NotificationCreated != nil {
			return ServerMessage{Type: MsgNotification, Payload: ev.NotificationCreated.Notification}, true
		}
	}
	return ServerMessage{}, false
}
