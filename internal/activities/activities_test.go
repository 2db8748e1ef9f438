package activities

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/Barathimeena/AirRoute-Hub/internal/allocator"
	"github.com/Barathimeena/AirRoute-Hub/internal/booking"
	"github.com/Barathimeena/AirRoute-Hub/internal/events"
	"github.com/Barathimeena/AirRoute-Hub/internal/kvstore"
	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/Barathimeena/AirRoute-Hub/internal/notification"
	"github.com/Barathimeena/AirRoute-Hub/internal/pricing"
	"github.com/Barathimeena/AirRoute-Hub/internal/receipt"
	"github.com/Barathimeena/AirRoute-Hub/internal/reminder"
	"github.com/Barathimeena/AirRoute-Hub/internal/repository"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
)

var now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type ActivitiesTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env      *testsuite.TestActivityEnvironment
	flights  *repository.MemoryFlightRepository
	bookings *repository.BookingRepository
	center   *notification.Center
	acts     *Activities
}

func TestActivitiesTestSuite(t *testing.T) {
	suite.Run(t, new(ActivitiesTestSuite))
}

func (s *ActivitiesTestSuite) SetupTest() {
	kv := kvstore.NewMemoryStore()
	clock := clockwork.NewFakeClockAt(now)
	s.flights = repository.NewMemoryFlightRepository([]*models.Flight{
		{ID: "AI-3000", Airline: "Air India", Origin: "Chennai", OriginCode: "MAA", Destination: "New Delhi", DestinationCode: "DEL",
			DepartureDate: "2026-03-11", DepartureTime: "08:00", BasePrice: 150, TotalSeats: 200, PassengersBooked: 50},
		{ID: "FULL-1", TotalSeats: 1, PassengersBooked: 1},
	})
	s.bookings = repository.NewBookingRepository(kv)
	s.center = notification.NewCenter(repository.NewNotificationRepository(kv), clock)
	confirmer := booking.NewConfirmer(s.flights, s.bookings, s.center, events.Nop{})
	scheduler := reminder.NewScheduler(repository.NewReminderRepository(kv), nil, clock)
	issuer := receipt.NewIssuer(receipt.NewFileStore(s.T().TempDir()), pricing.NewConverter(0), allocator.DefaultMenu())
	s.acts = NewActivities(confirmer, s.flights, issuer, scheduler, s.center, 0)

	s.env = s.NewTestActivityEnvironment()
	s.env.RegisterActivity(s.acts)
}

func (s *ActivitiesTestSuite) booking(id, flightID string) models.Booking {
	return models.Booking{
		ID:                 id,
		SessionID:          "sess-1",
		FlightID:           flightID,
		UserID:             "u1",
		UserName:           "Asha",
		UserEmail:          "asha@example.com",
		Seats:              []string{"1A"},
		Passengers:         models.PassengerCounts{Adult: 1},
		Subtotal:           150,
		Taxes:              18,
		Total:              168,
		Currency:           models.CurrencyUSD,
		Status:             models.BookingStatusConfirmed,
		DepartureTimestamp: now.Add(23 * time.Hour),
		QRPayload:          "TKT-u1-" + flightID,
		PaymentMethod:      models.PaymentWallet,
		TransactionID:      "TXN-1",
		Gate:               "G-1",
	}
}

func (s *ActivitiesTestSuite) TestConfirmBooking_Idempotent() {
	input := models.ConfirmBookingInput{Booking: s.booking("ELT-1", "AI-3000")}

	val, err := s.env.ExecuteActivity(s.acts.ConfirmBooking, input)
	s.Require().NoError(err)
	var res models.ConfirmBookingResult
	s.Require().NoError(val.Get(&res))
	s.True(res.Created)

	val, err = s.env.ExecuteActivity(s.acts.ConfirmBooking, input)
	s.Require().NoError(err)
	s.Require().NoError(val.Get(&res))
	s.False(res.Created)

	f, _ := s.flights.Get(context.Background(), "AI-3000")
	s.Equal(51, f.PassengersBooked)
}

func (s *ActivitiesTestSuite) TestConfirmBooking_SoldOutIsNonRetryable() {
	_, err := s.env.ExecuteActivity(s.acts.ConfirmBooking, models.ConfirmBookingInput{Booking: s.booking("ELT-2", "FULL-1")})
	s.Require().Error(err)

	var appErr *temporal.ApplicationError
	s.Require().True(errors.As(err, &appErr))
	s.Equal(ErrTypeSoldOut, appErr.Type())
	s.True(appErr.NonRetryable())
}

func (s *ActivitiesTestSuite) TestConfirmBooking_TakenIDIsNonRetryable() {
	_, err := s.env.ExecuteActivity(s.acts.ConfirmBooking, models.ConfirmBookingInput{Booking: s.booking("ELT-6", "AI-3000")})
	s.Require().NoError(err)

	other := s.booking("ELT-6", "AI-3000")
	other.SessionID = "sess-2"
	other.UserID = "u2"
	_, err = s.env.ExecuteActivity(s.acts.ConfirmBooking, models.ConfirmBookingInput{Booking: other})
	s.Require().Error(err)

	var appErr *temporal.ApplicationError
	s.Require().True(errors.As(err, &appErr))
	s.Equal(ErrTypeIDTaken, appErr.Type())
	s.True(appErr.NonRetryable())

	f, _ := s.flights.Get(context.Background(), "AI-3000")
	s.Equal(51, f.PassengersBooked)
	stored, err := s.bookings.Get(context.Background(), "ELT-6")
	s.Require().NoError(err)
	s.Equal("u1", stored.UserID)
}

func (s *ActivitiesTestSuite) TestIssueReceipt() {
	val, err := s.env.ExecuteActivity(s.acts.IssueReceipt, models.BookingActivityInput{Booking: s.booking("ELT-3", "AI-3000")})
	s.Require().NoError(err)

	var res models.IssueReceiptResult
	s.Require().NoError(val.Get(&res))
	_, statErr := os.Stat(res.Location)
	s.NoError(statErr)
}

func (s *ActivitiesTestSuite) TestIssueReceipt_UnknownFlight() {
	_, err := s.env.ExecuteActivity(s.acts.IssueReceipt, models.BookingActivityInput{Booking: s.booking("ELT-4", "missing")})
	s.Error(err)
}

func (s *ActivitiesTestSuite) TestScheduleReminder_AlertsWithinHorizon() {
	val, err := s.env.ExecuteActivity(s.acts.ScheduleReminder, models.BookingActivityInput{Booking: s.booking("ELT-5", "AI-3000")})
	s.Require().NoError(err)

	var entry models.ReminderEntry
	s.Require().NoError(val.Get(&entry))
	s.True(entry.RemindAt.Equal(now))

	list, err := s.center.List(context.Background(), "u1")
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(models.NotificationAlert, list[0].Type)
	s.Equal("Your flight AI-3000 departs in ~23 hours. Check-in now!", list[0].Message)
}

func (s *ActivitiesTestSuite) TestScheduleReminder_NoAlertBeyondHorizon() {
	b := s.booking("ELT-6", "AI-3000")
	b.DepartureTimestamp = now.Add(72 * time.Hour)

	_, err := s.env.ExecuteActivity(s.acts.ScheduleReminder, models.BookingActivityInput{Booking: b})
	s.Require().NoError(err)

	list, err := s.center.List(context.Background(), "u1")
	s.Require().NoError(err)
	s.Empty(list)
}
