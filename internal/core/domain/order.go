package domain

import (
	"time"

	"github.com/govalues/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type Edge struct {
	From OrderStatus
	To   OrderStatus
}

// TransitionTable maps every allowed edge to the roles that may take it.
// An edge missing from the table is not a valid transition.
var TransitionTable = map[Edge][]Role{
	{OrderStatusPending, OrderStatusConfirmed}:    {RoleFarmer},
	{OrderStatusConfirmed, OrderStatusProcessing}: {RoleFarmer},
	{OrderStatusProcessing, OrderStatusShipped}:   {RoleFarmer},
	{OrderStatusShipped, OrderStatusDelivered}:    {RoleBuyer},
	{OrderStatusPending, OrderStatusCancelled}:    {RoleBuyer, RoleFarmer, RoleAdmin},
	{OrderStatusConfirmed, OrderStatusCancelled}:  {RoleFarmer, RoleAdmin},
}

// AllowedRoles returns the roles permitted to move an order along from -> to.
func AllowedRoles(from, to OrderStatus) ([]Role, bool) {
	roles, ok := TransitionTable[Edge{From: from, To: to}]
	return roles, ok
}

type StatusEntry struct {
	From      OrderStatus `json:"from"`
	Status    OrderStatus `json:"status"`
	ActorID   string      `json:"actor_id"`
	ActorRole Role        `json:"actor_role"`
	Note      string      `json:"note,omitempty"`
	At        time.Time   `json:"at"`
}

type Order struct {
	ID            string
	CropID        string
	ListingID     string
	BuyerID       string
	FarmerID      string
	Quantity      decimal.Decimal
	Unit          string
	UnitPrice     decimal.Decimal
	Total         decimal.Decimal
	Status        OrderStatus
	StatusHistory []StatusEntry
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PartyRole reports which side of the order the user is on.
func (o *Order) PartyRole(userID string) (Role, bool) {
	switch userID {
	case o.FarmerID:
		return RoleFarmer, true
	case o.BuyerID:
		return RoleBuyer, true
	}
	return "", false
}

// Clone returns a deep copy so callers never share history slices.
func (o *Order) Clone() *Order {
	c := *o
	c.StatusHistory = append([]StatusEntry(nil), o.StatusHistory...)
	return &c
}

type OrderDraft struct {
	CropID    string
	ListingID string
	FarmerID  string
	Quantity  decimal.Decimal
	Unit      string
	UnitPrice decimal.Decimal
}

type TransitionRequest struct {
	OrderID         string
	Target          OrderStatus
	Actor           Actor
	Note            string
	ExpectedVersion int64
}
