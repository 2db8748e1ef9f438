package reminder

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

const DefaultSweepInterval = time.Minute

// BookingLister returns the confirmed bookings still worth alerting on
type BookingLister interface {
	List(ctx context.Context) ([]models.Booking, error)
}

// Sweeper periodically delivers due reminders and threshold alerts
type Sweeper struct {
	reminders *Scheduler
	tracker   *ThresholdTracker
	bookings  BookingLister
	notifier  Notifier
	interval  time.Duration
	cron      gocron.Scheduler
	log       *logrus.Entry
}

func NewSweeper(reminders *Scheduler, tracker *ThresholdTracker, bookings BookingLister, notifier Notifier, interval time.Duration) (*Sweeper, error) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	cron, err := gocron.NewScheduler(gocron.WithClock(reminders.Clock()))
	if err != nil {
		return nil, fmt.Errorf("failed to create sweep scheduler: %w", err)
	}
	return &Sweeper{
		reminders: reminders,
		tracker:   tracker,
		bookings:  bookings,
		notifier:  notifier,
		interval:  interval,
		cron:      cron,
		log:       logrus.WithField("component", "sweeper"),
	}, nil
}

// Start registers the sweep job and starts the scheduler. The job runs
// until Shutdown is called or ctx is done.
func (s *Sweeper) Start(ctx context.Context) error {
	_, err := s.cron.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				return
			}
			if _, err := s.SweepDue(ctx); err != nil {
				s.log.WithError(err).Error("reminder sweep failed")
			}
			if _, err := s.CheckThresholds(ctx); err != nil {
				s.log.WithError(err).Error("threshold check failed")
			}
		}),
		gocron.WithName("reminder-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to register sweep job: %w", err)
	}
	s.cron.Start()
	s.log.WithField("interval", s.interval).Info("reminder sweeper started")
	return nil
}

func (s *Sweeper) Shutdown() error {
	return s.cron.Shutdown()
}

// SweepDue dispatches reminders whose time has come, adds a departure
// alert for each and marks them reminded
func (s *Sweeper) SweepDue(ctx context.Context) (int, error) {
	due, err := s.reminders.GetDueReminders(ctx, 0)
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(due))
	for _, e := range due {
		if !e.Dispatched {
			s.reminders.dispatch(ctx, e)
		}
		if _, err := s.notifier.Add(ctx, DepartureAlert(e.UserID, e.FlightID, e.DepartureTimestamp, s.reminders.Clock().Now())); err != nil {
			s.log.WithError(err).WithField("bookingId", e.BookingID).Warn("failed to add reminder notification")
			continue
		}
		ids = append(ids, e.BookingID)
	}
	return s.reminders.MarkReminded(ctx, ids)
}

// CheckThresholds runs the threshold tracker over all bookings
func (s *Sweeper) CheckThresholds(ctx context.Context) (int, error) {
	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return s.tracker.Check(ctx, bookings)
}

// DepartureAlert is the ALERT raised for a reminder or a booking departing soon
func DepartureAlert(userID, flightID string, departure, now time.Time) models.Notification {
	hours := int(math.Ceil(departure.Sub(now).Hours()))
	if hours < 0 {
		hours = 0
	}
	return models.Notification{
		UserID:             userID,
		Type:               models.NotificationAlert,
		Title:              "Flight Departure Alert",
		Message:            fmt.Sprintf("Your flight %s departs in ~%d hours. Check-in now!", flightID, hours),
		DepartureTimestamp: &departure,
	}
}
