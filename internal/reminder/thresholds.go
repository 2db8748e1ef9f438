package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// Threshold is one pre-departure alert
type Threshold struct {
	Before  time.Duration
	Title   string
	Message string
}

// Thresholds are ordered from the earliest to the latest alert
var Thresholds = []Threshold{
	{Before: 24 * time.Hour, Title: "Departure in 24 Hours", Message: "Flight %s departs tomorrow. Prepare your documents!"},
	{Before: 6 * time.Hour, Title: "Departure in 6 Hours", Message: "Flight %s departs soon. Head to the airport!"},
	{Before: 2 * time.Hour, Title: "Departure in 2 Hours", Message: "Flight %s is about to depart. Final boarding call!"},
}

// ThresholdStore remembers the last alert fired for a booking. -1 means none.
type ThresholdStore interface {
	LastFired(ctx context.Context, bookingID string) (int, error)
	SetLastFired(ctx context.Context, bookingID string, index int) error
}

// Notifier adds a notification for a user
type Notifier interface {
	Add(ctx context.Context, n models.Notification) (models.Notification, error)
}

// ThresholdTracker fires each threshold alert at most once per booking
type ThresholdTracker struct {
	store    ThresholdStore
	notifier Notifier
	clock    clockwork.Clock
	log      *logrus.Entry
}

func NewThresholdTracker(store ThresholdStore, notifier Notifier, clock clockwork.Clock) *ThresholdTracker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ThresholdTracker{
		store:    store,
		notifier: notifier,
		clock:    clock,
		log:      logrus.WithField("component", "thresholds"),
	}
}

// Check fires every crossed threshold not fired before, in order.
// Departed bookings are skipped. It returns the number of alerts added.
func (t *ThresholdTracker) Check(ctx context.Context, bookings []models.Booking) (int, error) {
	now := t.clock.Now()
	fired := 0
	for _, b := range bookings {
		remaining := b.DepartureTimestamp.Sub(now)
		if remaining <= 0 {
			continue
		}
		last, err := t.store.LastFired(ctx, b.ID)
		if err != nil {
			return fired, fmt.Errorf("failed to load threshold state for %s: %w", b.ID, err)
		}
		for i := last + 1; i < len(Thresholds); i++ {
			th := Thresholds[i]
			if remaining > th.Before {
				break
			}
			dep := b.DepartureTimestamp
			if _, err := t.notifier.Add(ctx, models.Notification{
				UserID:             b.UserID,
				Type:               models.NotificationAlert,
				Title:              th.Title,
				Message:            fmt.Sprintf(th.Message, b.FlightID),
				DepartureTimestamp: &dep,
			}); err != nil {
				return fired, fmt.Errorf("failed to add threshold alert for %s: %w", b.ID, err)
			}
			if err := t.store.SetLastFired(ctx, b.ID, i); err != nil {
				return fired, fmt.Errorf("failed to save threshold state for %s: %w", b.ID, err)
			}
			fired++
			t.log.WithFields(logrus.Fields{"bookingId": b.ID, "threshold": th.Title}).Info("threshold alert fired")
		}
	}
	return fired, nil
}
