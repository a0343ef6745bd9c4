package realtime

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/MikeRez0/cropmart/internal/core/domain"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Conn is one client transport. Read returns io.EOF once the client has
// closed the connection normally.
type Conn interface {
	Read(ctx context.Context) (ClientMessage, error)
	Write(ctx context.Context, msg ServerMessage) error
	Close(reason error) error
}

type WSConn struct {
	ws *websocket.Conn
}

func Accept(w http.ResponseWriter, r *http.Request, originPatterns []string) (*WSConn, error) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: originPatterns})
	if err != nil {
		return nil, err
	}
	return &WSConn{ws: ws}, nil
}

func (c *WSConn) Read(ctx context.Context) (ClientMessage, error) {
	var msg ClientMessage
	err := wsjson.Read(ctx, c.ws, &msg)
	if err != nil {
		switch websocket.CloseStatus(err) {
		case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			return msg, io.EOF
		}
		return msg, err
	}
	return msg, nil
}

func (c *WSConn) Write(ctx context.Context, msg ServerMessage) error {
	return wsjson.Write(ctx, c.ws, msg)
}

func (c *WSConn) Close(reason error) error {
	code, text := closeStatus(reason)
	return c.ws.Close(code, text)
}

func closeStatus(reason error) (websocket.StatusCode, string) {
	switch {
	case reason == nil, errors.Is(reason, io.EOF):
		return websocket.StatusNormalClosure, ""
	case errors.Is(reason, domain.ErrSubscriberOverloaded):
		return websocket.StatusPolicyViolation, "subscriber overloaded"
	case errors.Is(reason, ErrAuthTimeout):
		return websocket.StatusPolicyViolation, "authentication timeout"
	case errors.Is(reason, domain.ErrUnauthorized), errors.Is(reason, domain.ErrInvalidToken),
		errors.Is(reason, domain.ErrExpiredToken):
		return websocket.StatusPolicyViolation, "unauthorized"
	case errors.Is(reason, ErrGatewayClosed):
		return websocket.StatusGoingAway, "server shutting down"
	}
	return websocket.StatusInternalError, "internal error"
}
