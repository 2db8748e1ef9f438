package activities

import (
	"context"
	"errors"
	"time"

	"github.com/Barathimeena/AirRoute-Hub/internal/booking"
	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/Barathimeena/AirRoute-Hub/internal/reminder"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
)

// Error types reported to the workflow
const (
	ErrTypeSoldOut    = "SoldOut"
	ErrTypeValidation = "Validation"
	ErrTypeNotFound   = "NotFound"
	ErrTypeIDTaken    = "BookingIDTaken"
)

// DefaultAlertHorizon is how close departure must be at booking time for
// an immediate departure alert
const DefaultAlertHorizon = 48 * time.Hour

// FlightReader loads a flight for receipts
type FlightReader interface {
	Get(ctx context.Context, id string) (*models.Flight, error)
}

// ReceiptIssuer renders and stores a receipt
type ReceiptIssuer interface {
	Issue(ctx context.Context, b models.Booking, f *models.Flight) (string, error)
}

// Activities holds the dependencies of the booking activities
type Activities struct {
	confirmer    *booking.Confirmer
	flights      FlightReader
	receipts     ReceiptIssuer
	reminders    *reminder.Scheduler
	notifier     reminder.Notifier
	alertHorizon time.Duration
}

func NewActivities(confirmer *booking.Confirmer, flights FlightReader, receipts ReceiptIssuer, reminders *reminder.Scheduler, notifier reminder.Notifier, alertHorizon time.Duration) *Activities {
	if alertHorizon <= 0 {
		alertHorizon = DefaultAlertHorizon
	}
	return &Activities{
		confirmer:    confirmer,
		flights:      flights,
		receipts:     receipts,
		reminders:    reminders,
		notifier:     notifier,
		alertHorizon: alertHorizon,
	}
}

// ConfirmBooking commits the booking and increments occupancy. Retries of
// the same session's booking are idempotent so Temporal cannot double-book.
func (a *Activities) ConfirmBooking(ctx context.Context, input models.ConfirmBookingInput) (*models.ConfirmBookingResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Confirming booking", "bookingId", input.Booking.ID, "flightId", input.Booking.FlightID)

	b, created, err := a.confirmer.Commit(ctx, input.Booking)
	if err != nil {
		logger.Warn("Booking commit failed", "bookingId", input.Booking.ID, "error", err)
		return nil, classify(err)
	}
	logger.Info("Booking confirmed", "bookingId", b.ID, "created", created)
	return &models.ConfirmBookingResult{Booking: b, Created: created}, nil
}

// IssueReceipt renders the receipt PDF and stores it
func (a *Activities) IssueReceipt(ctx context.Context, input models.BookingActivityInput) (*models.IssueReceiptResult, error) {
	logger := activity.GetLogger(ctx)
	b := input.Booking

	f, err := a.flights.Get(ctx, b.FlightID)
	if err != nil {
		return nil, classify(err)
	}
	location, err := a.receipts.Issue(ctx, b, f)
	if err != nil {
		return nil, err
	}
	logger.Info("Receipt issued", "bookingId", b.ID, "location", location)
	return &models.IssueReceiptResult{Location: location}, nil
}

// ScheduleReminder persists the departure reminder and raises an
// immediate alert when departure is close
func (a *Activities) ScheduleReminder(ctx context.Context, input models.BookingActivityInput) (*models.ReminderEntry, error) {
	logger := activity.GetLogger(ctx)
	b := input.Booking

	entry, err := a.reminders.Schedule(ctx, b)
	if err != nil {
		return nil, err
	}

	now := a.reminders.Clock().Now()
	if until := b.DepartureTimestamp.Sub(now); until > 0 && until <= a.alertHorizon {
		if _, err := a.notifier.Add(ctx, reminder.DepartureAlert(b.UserID, b.FlightID, b.DepartureTimestamp, now)); err != nil {
			return nil, err
		}
	}
	logger.Info("Reminder scheduled", "bookingId", b.ID, "remindAt", entry.RemindAt)
	return &entry, nil
}

// classify marks errors that retrying cannot fix as non-retryable
func classify(err error) error {
	switch {
	case errors.Is(err, models.ErrSoldOut):
		return temporal.NewNonRetryableApplicationError("flight is sold out", ErrTypeSoldOut, err)
	case errors.Is(err, models.ErrBookingIDTaken):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeIDTaken, err)
	case errors.Is(err, models.ErrNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeNotFound, err)
	case models.IsValidation(err):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeValidation, err)
	}
	return err
}
