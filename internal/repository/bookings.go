package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Barathimeena/AirRoute-Hub/internal/kvstore"
	"github.com/Barathimeena/AirRoute-Hub/internal/models"
)

const (
	bookingKeyPrefix  = "booking:"
	bookingIndexKey   = "bookings"
	userBookingsKey   = "bookings:user:"
	flightBookingsKey = "bookings:flight:"
)

// BookingRepository stores confirmed bookings in a key-value store with
// per-user and per-flight id indexes
type BookingRepository struct {
	mu sync.Mutex
	kv kvstore.Store
}

func NewBookingRepository(kv kvstore.Store) *BookingRepository {
	return &BookingRepository{kv: kv}
}

func (r *BookingRepository) Get(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	ok, err := kvstore.GetJSON(ctx, r.kv, bookingKeyPrefix+id, &b)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, models.ErrNotFound)
	}
	return &b, nil
}

// Save indexes b and then writes its record. A stored record therefore
// implies a complete save; an index entry without a record is skipped on
// load and completed by the next Save of the same id.
func (r *BookingRepository) Save(ctx context.Context, b models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range []string{bookingIndexKey, userBookingsKey + b.UserID, flightBookingsKey + b.FlightID} {
		if err := appendID(ctx, r.kv, key, b.ID); err != nil {
			return err
		}
	}
	return kvstore.SetJSON(ctx, r.kv, bookingKeyPrefix+b.ID, b)
}

// List returns every booking in confirmation order
func (r *BookingRepository) List(ctx context.Context) ([]models.Booking, error) {
	return r.load(ctx, bookingIndexKey)
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return r.load(ctx, userBookingsKey+userID)
}

func (r *BookingRepository) ListByFlight(ctx context.Context, flightID string) ([]models.Booking, error) {
	return r.load(ctx, flightBookingsKey+flightID)
}

func (r *BookingRepository) load(ctx context.Context, indexKey string) ([]models.Booking, error) {
	var ids []string
	if _, err := kvstore.GetJSON(ctx, r.kv, indexKey, &ids); err != nil {
		return nil, err
	}
	out := make([]models.Booking, 0, len(ids))
	for _, id := range ids {
		b, err := r.Get(ctx, id)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, nil
}

func appendID(ctx context.Context, kv kvstore.Store, key, id string) error {
	var ids []string
	if _, err := kvstore.GetJSON(ctx, kv, key, &ids); err != nil {
		return err
	}
	if slices.Contains(ids, id) {
		return nil
	}
	return kvstore.SetJSON(ctx, kv, key, append(ids, id))
}
