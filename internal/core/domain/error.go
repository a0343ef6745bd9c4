package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInternal = errors.New("internal error")

	// * Data errors.
	ErrDataNotFound    = errors.New("data not found")
	ErrNoUpdatedData   = errors.New("no data to update")
	ErrConflictingData = errors.New("data conflicts with existing data in unique column")

	// * Communication errors.
	ErrBadRequest = errors.New("error parsing request")

	// * Authority errors.
	ErrTokenCreation              = errors.New("error creating token")
	ErrExpiredToken               = errors.New("access token has expired")
	ErrInvalidToken               = errors.New("access token is invalid")
	ErrEmptyAuthorizationHeader   = errors.New("authorization header is not provided")
	ErrInvalidAuthorizationHeader = errors.New("authorization header format is invalid")
	ErrInvalidAuthorizationType   = errors.New("authorization type is not supported")
	ErrUnauthorized               = errors.New("user is unauthorized to access the resource")
	ErrForbidden                  = errors.New("user is forbidden to access the resource")

	// * Order lifecycle errors.
	ErrInvalidTransition      = errors.New("invalid order status transition")
	ErrTerminalState          = errors.New("order is in a terminal state")
	ErrConcurrentModification = errors.New("record was modified concurrently")
	ErrUnauthorizedActor      = errors.New("actor is not allowed to perform this transition")
	ErrInvalidOrder           = errors.New("order data is not valid")

	// * Price errors.
	ErrUnknownScope     = errors.New("unknown price scope")
	ErrOutOfOrderSample = errors.New("sample is older than the live aggregate")
	ErrInvalidSample    = errors.New("price sample is not valid")
	ErrInvalidAlert     = errors.New("price alert is not valid")

	// * Delivery errors.
	ErrSubscriberOverloaded = errors.New("subscriber overloaded")
	ErrDeliveryTimeout      = errors.New("notification delivery timed out")
	ErrBusClosed            = errors.New("event bus is closed")
)

// TransitionError names the state an order was in and the state that was requested.
type TransitionError struct {
	Err  error
	From OrderStatus
	To   OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", e.Err, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}
