package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type ScopeLevel string

const (
	ScopeDistrict ScopeLevel = "district"
	ScopeState    ScopeLevel = "state"
	ScopeNational ScopeLevel = "national"
)

// Scope is a geographic level plus the region names it needs.
type Scope struct {
	Level    ScopeLevel `json:"level"`
	State    string     `json:"state,omitempty"`
	District string     `json:"district,omitempty"`
}

func (s Scope) Validate() error {
	switch s.Level {
	case ScopeNational:
		return nil
	case ScopeState:
		if s.State == "" {
			return fmt.Errorf("%w: state scope needs a state", ErrUnknownScope)
		}
		return nil
	case ScopeDistrict:
		if s.State == "" || s.District == "" {
			return fmt.Errorf("%w: district scope needs state and district", ErrUnknownScope)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownScope, s.Level)
}

// Normalize drops region names the level does not use.
func (s Scope) Normalize() Scope {
	switch s.Level {
	case ScopeNational:
		return Scope{Level: ScopeNational}
	case ScopeState:
		return Scope{Level: ScopeState, State: s.State}
	}
	return s
}

// Matches reports whether a sample falls inside the scope.
func (s Scope) Matches(sample *PriceSample) bool {
	switch s.Level {
	case ScopeNational:
		return true
	case ScopeState:
		return strings.EqualFold(sample.State, s.State)
	case ScopeDistrict:
		return strings.EqualFold(sample.State, s.State) && strings.EqualFold(sample.District, s.District)
	}
	return false
}

func (s Scope) region() string {
	switch s.Level {
	case ScopeState:
		return strings.ToLower(s.State)
	case ScopeDistrict:
		return strings.ToLower(s.State) + "/" + strings.ToLower(s.District)
	}
	return ""
}

// ScopeKey identifies one aggregate: crop x level x region.
type ScopeKey string

func NewScopeKey(cropID string, scope Scope) ScopeKey {
	return ScopeKey(strings.ToLower(cropID) + "|" + string(scope.Level) + "|" + scope.region())
}

type PriceSample struct {
	ID         string    `json:"id"`
	Seq        int64     `json:"seq"`
	CropID     string    `json:"crop_id"`
	ListingID  string    `json:"listing_id"`
	Price      float64   `json:"price"`
	Unit       string    `json:"unit"`
	State      string    `json:"state"`
	District   string    `json:"district"`
	ObservedAt time.Time `json:"observed_at"`
	RecordedAt time.Time `json:"recorded_at"`
}

func (s *PriceSample) Validate() error {
	switch {
	case s.CropID == "":
		return fmt.Errorf("%w: crop is required", ErrInvalidSample)
	case s.State == "" || s.District == "":
		return fmt.Errorf("%w: state and district are required", ErrInvalidSample)
	case s.Unit == "":
		return fmt.Errorf("%w: unit is required", ErrInvalidSample)
	case math.IsNaN(s.Price) || math.IsInf(s.Price, 0) || s.Price <= 0:
		return fmt.Errorf("%w: price must be a positive number", ErrInvalidSample)
	case s.ObservedAt.IsZero():
		return fmt.Errorf("%w: observation time is required", ErrInvalidSample)
	}
	return nil
}

// Scopes lists the three aggregates a sample contributes to.
func (s *PriceSample) Scopes() [3]Scope {
	return [3]Scope{
		{Level: ScopeDistrict, State: s.State, District: s.District},
		{Level: ScopeState, State: s.State},
		{Level: ScopeNational},
	}
}

// PriceAggregate is a running fold over samples of one scope key.
// Mean and M2 follow Welford's online algorithm. Version counts saves; zero
// means the aggregate has never been stored.
type PriceAggregate struct {
	Key           ScopeKey  `json:"key"`
	Version       int64     `json:"version"`
	CropID        string    `json:"crop_id"`
	Scope         Scope     `json:"scope"`
	Count         int64     `json:"count"`
	Mean          float64   `json:"mean"`
	M2            float64   `json:"m2"`
	Min           float64   `json:"min"`
	Max           float64   `json:"max"`
	LastPrice     float64   `json:"last_price"`
	FirstSampleAt time.Time `json:"first_sample_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewPriceAggregate(cropID string, scope Scope) *PriceAggregate {
	scope = scope.Normalize()
	return &PriceAggregate{
		Key:    NewScopeKey(cropID, scope),
		CropID: cropID,
		Scope:  scope,
	}
}

// Add folds one price into the aggregate in O(1).
func (a *PriceAggregate) Add(price float64, at time.Time) {
	a.Count++
	delta := price - a.Mean
	a.Mean += delta / float64(a.Count)
	a.M2 += delta * (price - a.Mean)
	if a.Count == 1 {
		a.Min, a.Max = price, price
		a.FirstSampleAt = at
	} else {
		a.Min = math.Min(a.Min, price)
		a.Max = math.Max(a.Max, price)
	}
	a.LastPrice = price
	a.UpdatedAt = at
}

// Variance is the sample variance; zero below two observations.
func (a *PriceAggregate) Variance() float64 {
	if a.Count < 2 {
		return 0
	}
	return a.M2 / float64(a.Count-1)
}

func (a *PriceAggregate) StdDev() float64 {
	return math.Sqrt(a.Variance())
}

// Reset zeroes the statistics but keeps the identity of the aggregate.
func (a *PriceAggregate) Reset(at time.Time) {
	*a = PriceAggregate{Key: a.Key, Version: a.Version, CropID: a.CropID, Scope: a.Scope, UpdatedAt: at}
}

type AggregateSet struct {
	District PriceAggregate `json:"district"`
	State    PriceAggregate `json:"state"`
	National PriceAggregate `json:"national"`
}

type TrendQuery struct {
	CropID string
	Scope  Scope
	From   time.Time
	To     time.Time
	Bucket time.Duration
}

func (q *TrendQuery) Validate() error {
	if q.CropID == "" {
		return fmt.Errorf("%w: crop is required", ErrBadRequest)
	}
	if !q.From.Before(q.To) {
		return fmt.Errorf("%w: period start must precede its end", ErrBadRequest)
	}
	if q.Bucket <= 0 {
		return fmt.Errorf("%w: bucket must be positive", ErrBadRequest)
	}
	return q.Scope.Validate()
}

type TrendPoint struct {
	Start time.Time `json:"start"`
	Count int64     `json:"count"`
	Mean  float64   `json:"mean"`
	Min   float64   `json:"min"`
	Max   float64   `json:"max"`
}
