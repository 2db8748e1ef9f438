package mocks

import (
	"context"

	"github.com/Barathimeena/AirRoute-Hub/internal/booking"
	"github.com/Barathimeena/AirRoute-Hub/internal/catalog"
	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockBookingService is a mock implementation of BookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) Hubs(ctx context.Context) []models.Hub {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.Hub)
}

func (m *MockBookingService) SearchFlights(ctx context.Context, q catalog.Query, limit int, strict bool) ([]models.FlightView, error) {
	args := m.Called(ctx, q, limit, strict)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FlightView), args.Error(1)
}

func (m *MockBookingService) GetFlight(ctx context.Context, flightID string) (*models.FlightView, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FlightView), args.Error(1)
}

func (m *MockBookingService) GetSeatMap(ctx context.Context, flightID string) ([]models.Seat, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Seat), args.Error(1)
}

func (m *MockBookingService) QuoteFlight(ctx context.Context, flightID string, req models.QuoteRequest) (*models.Quote, error) {
	args := m.Called(ctx, flightID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quote), args.Error(1)
}

func (m *MockBookingService) CateringMenu(ctx context.Context, pref models.FoodType) ([]models.CateringItem, error) {
	args := m.Called(ctx, pref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CateringItem), args.Error(1)
}

func (m *MockBookingService) JoinStandby(ctx context.Context, flightID string, req models.StandbyRequest) (*models.Notification, error) {
	args := m.Called(ctx, flightID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockBookingService) StartSession(ctx context.Context, req models.StartSessionRequest) (*booking.Snapshot, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Snapshot), args.Error(1)
}

func (m *MockBookingService) GetSession(ctx context.Context, sessionID string) (*booking.Snapshot, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Snapshot), args.Error(1)
}

func (m *MockBookingService) ApplyEvent(ctx context.Context, sessionID string, ev models.SessionEvent) (*booking.Snapshot, error) {
	args := m.Called(ctx, sessionID, ev)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Snapshot), args.Error(1)
}

func (m *MockBookingService) AbandonSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockBookingService) UserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockBookingService) Countdown(ctx context.Context, bookingID string) (*models.Countdown, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Countdown), args.Error(1)
}

func (m *MockBookingService) DueReminders(ctx context.Context) ([]models.ReminderEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReminderEntry), args.Error(1)
}

func (m *MockBookingService) Notifications(ctx context.Context, userID string) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockBookingService) MarkNotificationRead(ctx context.Context, id string) (*models.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockBookingService) DismissNotification(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingService) AddFlight(ctx context.Context, req models.NewFlightRequest) (*models.FlightView, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FlightView), args.Error(1)
}

func (m *MockBookingService) FlightBookings(ctx context.Context, flightID string) (*models.FlightBookings, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FlightBookings), args.Error(1)
}

func (m *MockBookingService) DetectCurrency(ctx context.Context, ip string) models.Currency {
	args := m.Called(ctx, ip)
	return args.Get(0).(models.Currency)
}

func (m *MockBookingService) Ask(ctx context.Context, req models.AssistantRequest) models.AssistantResponse {
	args := m.Called(ctx, req)
	return args.Get(0).(models.AssistantResponse)
}
