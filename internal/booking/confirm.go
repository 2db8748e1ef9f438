package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/sirupsen/logrus"
)

// FlightStore is the occupancy side of the flight repository
type FlightStore interface {
	ReserveUnits(ctx context.Context, flightID string, units int) (*models.Flight, error)
	ReleaseUnits(ctx context.Context, flightID string, units int) error
}

// BookingStore persists bookings
type BookingStore interface {
	Get(ctx context.Context, id string) (*models.Booking, error)
	Save(ctx context.Context, b models.Booking) error
}

// Notifier records user-facing notifications
type Notifier interface {
	Add(ctx context.Context, n models.Notification) (models.Notification, error)
}

// EventPublisher emits domain events for other systems
type EventPublisher interface {
	BookingConfirmed(ctx context.Context, b models.Booking) error
}

// Confirmer commits finalized bookings. Commit is idempotent per booking
// id and session so a retried confirmation never increments occupancy
// twice.
type Confirmer struct {
	mu       sync.Mutex
	flights  FlightStore
	bookings BookingStore
	notifier Notifier
	events   EventPublisher
	log      *logrus.Entry
}

// NewConfirmer creates a Confirmer; notifier and events may be nil
func NewConfirmer(flights FlightStore, bookings BookingStore, notifier Notifier, events EventPublisher) *Confirmer {
	return &Confirmer{
		flights:  flights,
		bookings: bookings,
		notifier: notifier,
		events:   events,
		log:      logrus.WithField("component", "confirmer"),
	}
}

// Commit reserves occupancy and stores b. It reports created=false when
// the same session had already committed b. An id held by another
// session yields ErrBookingIDTaken.
func (c *Confirmer) Commit(ctx context.Context, b models.Booking) (models.Booking, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := c.bookings.Get(ctx, b.ID)
	switch {
	case err == nil:
		if existing.SessionID != b.SessionID {
			return models.Booking{}, false, fmt.Errorf("booking %s: %w", b.ID, models.ErrBookingIDTaken)
		}
		return *existing, false, nil
	case !errors.Is(err, models.ErrNotFound):
		return models.Booking{}, false, &models.PersistenceError{Op: "load booking", Retryable: true, Err: err}
	}

	units := b.Passengers.Total()
	if len(b.Seats) != units {
		return models.Booking{}, false, models.NewValidationError("seats", fmt.Sprintf("expected %d seats, got %d", units, len(b.Seats)))
	}
	flight, err := c.flights.ReserveUnits(ctx, b.FlightID, units)
	if err != nil {
		return models.Booking{}, false, err
	}
	if err := c.bookings.Save(ctx, b); err != nil {
		if rerr := c.flights.ReleaseUnits(ctx, b.FlightID, units); rerr != nil {
			c.log.WithError(rerr).WithField("bookingId", b.ID).Error("failed to release units after save failure")
		}
		return models.Booking{}, false, &models.PersistenceError{Op: "save booking", Retryable: true, Err: err}
	}

	c.log.WithFields(logrus.Fields{"bookingId": b.ID, "flightId": b.FlightID, "units": units}).Info("booking committed")
	c.announce(ctx, b, flight)
	return b, true, nil
}

// announce performs the secondary effects of a first commit. Failures
// are logged and never undo the booking.
func (c *Confirmer) announce(ctx context.Context, b models.Booking, flight *models.Flight) {
	if c.notifier != nil {
		_, err := c.notifier.Add(ctx, models.Notification{
			UserID:  b.UserID,
			Type:    models.NotificationSuccess,
			Title:   "Hub Secured",
			Message: fmt.Sprintf("Itinerary for %s to %s is now confirmed. Booking %s.", flight.OriginCode, flight.DestinationCode, b.ID),
		})
		if err != nil {
			c.log.WithError(err).WithField("bookingId", b.ID).Warn("failed to record confirmation notification")
		}
	}
	if c.events != nil {
		if err := c.events.BookingConfirmed(ctx, b); err != nil {
			c.log.WithError(err).WithField("bookingId", b.ID).Warn("failed to publish booking event")
		}
	}
}
