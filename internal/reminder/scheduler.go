package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

const (
	DefaultLead            = 24 * time.Hour
	DefaultImmediateWindow = 5 * time.Minute
)

// Store persists reminder entries keyed by booking id
type Store interface {
	// Add stores e unless an entry for the booking exists; it returns the
	// stored entry and whether it was created
	Add(ctx context.Context, e models.ReminderEntry) (models.ReminderEntry, bool, error)
	List(ctx context.Context) ([]models.ReminderEntry, error)
	// Update applies fn to the entries with the given booking ids and
	// persists those for which fn reports a change
	Update(ctx context.Context, ids []string, fn func(*models.ReminderEntry) bool) (int, error)
}

// Dispatcher delivers a reminder through e-mail or another channel
type Dispatcher interface {
	DispatchReminder(ctx context.Context, e models.ReminderEntry) error
}

// Scheduler computes and persists departure reminders
type Scheduler struct {
	store      Store
	dispatcher Dispatcher
	clock      clockwork.Clock
	lead       time.Duration
	immediate  time.Duration
	log        *logrus.Entry
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithLead sets how long before departure a reminder is due
func WithLead(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.lead = d
		}
	}
}

// WithImmediateWindow sets how close remind-at must be to now for a
// reminder to be dispatched while scheduling
func WithImmediateWindow(d time.Duration) Option {
	return func(s *Scheduler) {
		if d >= 0 {
			s.immediate = d
		}
	}
}

// NewScheduler creates a Scheduler. dispatcher may be nil.
func NewScheduler(store Store, dispatcher Dispatcher, clock clockwork.Clock, opts ...Option) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	s := &Scheduler{
		store:      store,
		dispatcher: dispatcher,
		clock:      clock,
		lead:       DefaultLead,
		immediate:  DefaultImmediateWindow,
		log:        logrus.WithField("component", "reminders"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clock returns the scheduler's time source
func (s *Scheduler) Clock() clockwork.Clock {
	return s.clock
}

// Schedule persists the reminder for b. Scheduling the same booking
// again returns the stored entry without dispatching twice.
func (s *Scheduler) Schedule(ctx context.Context, b models.Booking) (models.ReminderEntry, error) {
	now := s.clock.Now()
	remindAt := b.DepartureTimestamp.Add(-s.lead)
	if remindAt.Before(now) {
		remindAt = now
	}

	entry, created, err := s.store.Add(ctx, models.ReminderEntry{
		BookingID:          b.ID,
		FlightID:           b.FlightID,
		UserID:             b.UserID,
		UserEmail:          b.UserEmail,
		UserName:           b.UserName,
		DepartureTimestamp: b.DepartureTimestamp,
		RemindAt:           remindAt,
	})
	if err != nil {
		return models.ReminderEntry{}, fmt.Errorf("failed to schedule reminder for %s: %w", b.ID, err)
	}
	if !created {
		return entry, nil
	}

	if !entry.RemindAt.After(now.Add(s.immediate)) {
		if s.dispatch(ctx, entry) {
			entry.Dispatched = true
		}
	}
	return entry, nil
}

// GetDueReminders returns the entries not yet notified whose remind-at
// falls before now plus window
func (s *Scheduler) GetDueReminders(ctx context.Context, window time.Duration) ([]models.ReminderEntry, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	end := s.clock.Now().Add(window)
	due := make([]models.ReminderEntry, 0)
	for _, e := range all {
		if !e.Notified && !e.RemindAt.After(end) {
			due = append(due, e)
		}
	}
	return due, nil
}

// MarkReminded flips the notified flag. Already notified or unknown ids
// are ignored; the count of entries changed is returned.
func (s *Scheduler) MarkReminded(ctx context.Context, ids []string) (int, error) {
	n, err := s.store.Update(ctx, ids, func(e *models.ReminderEntry) bool {
		if e.Notified {
			return false
		}
		e.Notified = true
		return true
	})
	if err != nil {
		return 0, fmt.Errorf("failed to mark reminders: %w", err)
	}
	return n, nil
}

// dispatch sends one reminder and records it. Failures are logged only.
func (s *Scheduler) dispatch(ctx context.Context, e models.ReminderEntry) bool {
	if s.dispatcher == nil {
		return false
	}
	logger := s.log.WithFields(logrus.Fields{"bookingId": e.BookingID, "flightId": e.FlightID})
	if err := s.dispatcher.DispatchReminder(ctx, e); err != nil {
		logger.WithError(err).Warn("failed to dispatch reminder")
		return false
	}
	if _, err := s.store.Update(ctx, []string{e.BookingID}, func(r *models.ReminderEntry) bool {
		if r.Dispatched {
			return false
		}
		r.Dispatched = true
		return true
	}); err != nil {
		logger.WithError(err).Warn("failed to record reminder dispatch")
	}
	logger.Info("reminder dispatched")
	return true
}
