package domain

import (
	"fmt"
	"math"
	"time"
)

type NotificationType string

const (
	NotificationOrderPlaced NotificationType = "order_placed"
	NotificationOrderStatus NotificationType = "order_status"
	NotificationPriceAlert  NotificationType = "price_alert"
)

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	Action    string           `json:"action,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type AlertCondition string

const (
	AlertAbove AlertCondition = "above"
	AlertBelow AlertCondition = "below"
)

// PriceAlert fires once per crossing of Threshold. Armed is false after a
// firing until the price returns to the other side of the threshold.
type PriceAlert struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	CropID    string         `json:"crop_id"`
	Scope     Scope          `json:"scope"`
	Condition AlertCondition `json:"condition"`
	Threshold float64        `json:"threshold"`
	Active    bool           `json:"active"`
	Armed     bool           `json:"armed"`
	CreatedAt time.Time      `json:"created_at"`
	FiredAt   *time.Time     `json:"fired_at,omitempty"`
}

func (a *PriceAlert) Validate() error {
	if a.CropID == "" {
		return fmt.Errorf("%w: crop is required", ErrInvalidAlert)
	}
	if a.Condition != AlertAbove && a.Condition != AlertBelow {
		return fmt.Errorf("%w: condition must be above or below", ErrInvalidAlert)
	}
	if math.IsNaN(a.Threshold) || math.IsInf(a.Threshold, 0) || a.Threshold <= 0 {
		return fmt.Errorf("%w: threshold must be a positive number", ErrInvalidAlert)
	}
	if err := a.Scope.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAlert, err)
	}
	return nil
}

// Satisfied reports whether the price is on the firing side of the threshold.
func (a *PriceAlert) Satisfied(price float64) bool {
	if a.Condition == AlertAbove {
		return price > a.Threshold
	}
	return price < a.Threshold
}

// Evaluate applies edge-triggered semantics and reports whether the alert fires.
func (a *PriceAlert) Evaluate(price float64) (fire bool, changed bool) {
	satisfied := a.Satisfied(price)
	switch {
	case satisfied && a.Armed:
		a.Armed = false
		return true, true
	case !satisfied && !a.Armed:
		a.Armed = true
		return false, true
	}
	return false, false
}
