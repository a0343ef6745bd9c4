package service_test

import (
	"context"
	"sync"

	"github.com/MikeRez0/cropmart/internal/core/domain"
	"github.com/govalues/decimal"
)

// recorder is an EventPublisher that keeps everything it is given.
type recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recorder) Publish(_ context.Context, e domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) take() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

var (
	buyer  = domain.Actor{UserID: "buyer-1", Role: domain.RoleBuyer}
	farmer = domain.Actor{UserID: "farmer-1", Role: domain.RoleFarmer}
	admin  = domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}
)

func mustDecimal(s string) decimal.Decimal {
	return decimal.MustParse(s)
}
