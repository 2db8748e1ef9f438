// Package repository holds the stores behind the booking core: the flight
// catalog with its occupancy counters and the key-value backed logs of
// bookings, reminders, notifications and threshold state.
package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
)

// FlightRepository reads and updates the catalog. ReserveUnits must be
// atomic so concurrent confirmations cannot oversell a flight.
type FlightRepository interface {
	List(ctx context.Context) ([]*models.Flight, error)
	Get(ctx context.Context, id string) (*models.Flight, error)
	Prepend(ctx context.Context, f *models.Flight) error
	ReserveUnits(ctx context.Context, id string, units int) (*models.Flight, error)
	ReleaseUnits(ctx context.Context, id string, units int) error
}

// MemoryFlightRepository keeps the catalog in process memory
type MemoryFlightRepository struct {
	mu      sync.RWMutex
	flights []*models.Flight
	byID    map[string]*models.Flight
}

// NewMemoryFlightRepository seeds the repository with flights in order
func NewMemoryFlightRepository(flights []*models.Flight) *MemoryFlightRepository {
	r := &MemoryFlightRepository{byID: make(map[string]*models.Flight, len(flights))}
	for _, f := range flights {
		c := *f
		r.flights = append(r.flights, &c)
		r.byID[c.ID] = &c
	}
	return r
}

func (r *MemoryFlightRepository) List(ctx context.Context) ([]*models.Flight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Flight, len(r.flights))
	for i, f := range r.flights {
		c := *f
		out[i] = &c
	}
	return out, nil
}

func (r *MemoryFlightRepository) Get(ctx context.Context, id string) (*models.Flight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("flight %s: %w", id, models.ErrNotFound)
	}
	c := *f
	return &c, nil
}

func (r *MemoryFlightRepository) Prepend(ctx context.Context, f *models.Flight) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[f.ID]; exists {
		return models.NewValidationError("id", "already exists")
	}
	c := *f
	r.flights = append([]*models.Flight{&c}, r.flights...)
	r.byID[c.ID] = &c
	return nil
}

// ReserveUnits adds units to the occupancy counter if capacity allows
func (r *MemoryFlightRepository) ReserveUnits(ctx context.Context, id string, units int) (*models.Flight, error) {
	if units <= 0 {
		return nil, models.NewValidationError("passengers", "must be positive")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("flight %s: %w", id, models.ErrNotFound)
	}
	if f.PassengersBooked+units > f.TotalSeats {
		return nil, fmt.Errorf("flight %s: %w", id, models.ErrSoldOut)
	}
	f.PassengersBooked += units
	c := *f
	return &c, nil
}

func (r *MemoryFlightRepository) ReleaseUnits(ctx context.Context, id string, units int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("flight %s: %w", id, models.ErrNotFound)
	}
	f.PassengersBooked -= units
	if f.PassengersBooked < 0 {
		f.PassengersBooked = 0
	}
	return nil
}
