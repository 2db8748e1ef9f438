package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Barathimeena/AirRoute-Hub/internal/allocator"
	"github.com/Barathimeena/AirRoute-Hub/internal/assistant"
	"github.com/Barathimeena/AirRoute-Hub/internal/booking"
	"github.com/Barathimeena/AirRoute-Hub/internal/catalog"
	"github.com/Barathimeena/AirRoute-Hub/internal/events"
	"github.com/Barathimeena/AirRoute-Hub/internal/geo"
	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/Barathimeena/AirRoute-Hub/internal/notification"
	"github.com/Barathimeena/AirRoute-Hub/internal/pricing"
	"github.com/Barathimeena/AirRoute-Hub/internal/reminder"
	"github.com/Barathimeena/AirRoute-Hub/internal/repository"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
)

const (
	DefaultTaskQueue    = "airroute-booking-queue"
	DefaultListingLimit = 20
	WorkflowName        = "BookingWorkflow"
)

// BookingService defines the booking service interface
type BookingService interface {
	Hubs(ctx context.Context) []models.Hub
	SearchFlights(ctx context.Context, q catalog.Query, limit int, strict bool) ([]models.FlightView, error)
	GetFlight(ctx context.Context, flightID string) (*models.FlightView, error)
	GetSeatMap(ctx context.Context, flightID string) ([]models.Seat, error)
	QuoteFlight(ctx context.Context, flightID string, req models.QuoteRequest) (*models.Quote, error)
	CateringMenu(ctx context.Context, pref models.FoodType) ([]models.CateringItem, error)
	JoinStandby(ctx context.Context, flightID string, req models.StandbyRequest) (*models.Notification, error)

	StartSession(ctx context.Context, req models.StartSessionRequest) (*booking.Snapshot, error)
	GetSession(ctx context.Context, sessionID string) (*booking.Snapshot, error)
	ApplyEvent(ctx context.Context, sessionID string, ev models.SessionEvent) (*booking.Snapshot, error)
	AbandonSession(ctx context.Context, sessionID string) error

	UserBookings(ctx context.Context, userID string) ([]models.Booking, error)
	Countdown(ctx context.Context, bookingID string) (*models.Countdown, error)
	DueReminders(ctx context.Context) ([]models.ReminderEntry, error)

	Notifications(ctx context.Context, userID string) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) (*models.Notification, error)
	DismissNotification(ctx context.Context, id string) error

	AddFlight(ctx context.Context, req models.NewFlightRequest) (*models.FlightView, error)
	FlightBookings(ctx context.Context, flightID string) (*models.FlightBookings, error)

	DetectCurrency(ctx context.Context, ip string) models.Currency
	Ask(ctx context.Context, req models.AssistantRequest) models.AssistantResponse
}

// Options tunes the booking service
type Options struct {
	TaskQueue       string
	ListingLimit    int
	CabinRows       int
	ProcessingDelay time.Duration
	SessionTimeout  time.Duration
	DueWindow       time.Duration
	Location        *time.Location
	// PollInterval and PollAttempts bound how long ApplyEvent waits for
	// the workflow to acknowledge a signal
	PollInterval time.Duration
	PollAttempts int
}

// Deps are the collaborators of the booking service
type Deps struct {
	Temporal      client.Client
	Flights       repository.FlightRepository
	Bookings      *repository.BookingRepository
	Notifications *notification.Center
	Reminders     *reminder.Scheduler
	Converter     *pricing.Converter
	Menu          *allocator.Menu
	Geo           *geo.Detector
	Assistant     *assistant.Service
	Events        events.Publisher
	Clock         clockwork.Clock
}

// bookingServiceImpl implements BookingService
type bookingServiceImpl struct {
	Deps
	opts Options
}

// NewBookingService creates a new BookingService
func NewBookingService(deps Deps, opts Options) BookingService {
	if opts.TaskQueue == "" {
		opts.TaskQueue = DefaultTaskQueue
	}
	if opts.ListingLimit <= 0 {
		opts.ListingLimit = DefaultListingLimit
	}
	if opts.CabinRows <= 0 {
		opts.CabinRows = allocator.DefaultCabinRows
	}
	if opts.DueWindow <= 0 {
		opts.DueWindow = 48 * time.Hour
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 50 * time.Millisecond
	}
	if opts.PollAttempts <= 0 {
		opts.PollAttempts = 20
	}
	if deps.Menu == nil {
		deps.Menu = allocator.DefaultMenu()
	}
	if deps.Events == nil {
		deps.Events = events.Nop{}
	}
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	return &bookingServiceImpl{Deps: deps, opts: opts}
}

func workflowID(sessionID string) string {
	return "booking-" + sessionID
}

func (s *bookingServiceImpl) Hubs(ctx context.Context) []models.Hub {
	return catalog.Hubs
}

func (s *bookingServiceImpl) SearchFlights(ctx context.Context, q catalog.Query, limit int, strict bool) ([]models.FlightView, error) {
	if strict {
		if err := catalog.ValidateRoute(q.Origin, q.Destination); err != nil {
			return nil, err
		}
	}
	flights, err := s.Flights.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list flights: %w", err)
	}

	if q.IsEmpty() {
		if limit <= 0 {
			limit = s.opts.ListingLimit
		}
	} else {
		flights = catalog.Search(flights, q)
	}
	if limit > 0 && len(flights) > limit {
		flights = flights[:limit]
	}

	views := make([]models.FlightView, 0, len(flights))
	for _, f := range flights {
		views = append(views, f.View())
	}
	return views, nil
}

func (s *bookingServiceImpl) GetFlight(ctx context.Context, flightID string) (*models.FlightView, error) {
	f, err := s.Flights.Get(ctx, flightID)
	if err != nil {
		return nil, err
	}
	view := f.View()
	return &view, nil
}

func (s *bookingServiceImpl) GetSeatMap(ctx context.Context, flightID string) ([]models.Seat, error) {
	if _, err := s.Flights.Get(ctx, flightID); err != nil {
		return nil, err
	}
	return allocator.SeatMap(s.opts.CabinRows), nil
}

// currency resolves the display currency: the requested one, else the
// caller's detected one, else the configured fallback
func (s *bookingServiceImpl) currency(ctx context.Context, c models.Currency, clientIP string) (models.Currency, error) {
	if c == "" {
		if clientIP == "" {
			return s.Geo.Fallback(), nil
		}
		return s.Geo.DetectOrFallback(ctx, clientIP), nil
	}
	if !c.Valid() {
		return "", models.NewValidationError("currency", "must be USD or INR")
	}
	return c, nil
}

func (s *bookingServiceImpl) QuoteFlight(ctx context.Context, flightID string, req models.QuoteRequest) (*models.Quote, error) {
	f, err := s.Flights.Get(ctx, flightID)
	if err != nil {
		return nil, err
	}
	cur, err := s.currency(ctx, req.Currency, "")
	if err != nil {
		return nil, err
	}
	breakdown, err := pricing.Quote(f, req.Passengers, req.Catering, s.Menu)
	if err != nil {
		return nil, err
	}
	return &models.Quote{
		Breakdown: breakdown,
		Currency:  cur,
		Display:   s.Converter.Render(breakdown, cur),
	}, nil
}

func (s *bookingServiceImpl) CateringMenu(ctx context.Context, pref models.FoodType) ([]models.CateringItem, error) {
	if pref != "" && !pref.Valid() {
		return nil, models.NewValidationError("preference", "must be Veg or Non-Veg")
	}
	return s.Menu.Lens(pref), nil
}

func (s *bookingServiceImpl) JoinStandby(ctx context.Context, flightID string, req models.StandbyRequest) (*models.Notification, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	f, err := s.Flights.Get(ctx, flightID)
	if err != nil {
		return nil, err
	}
	if !f.IsSoldOut() {
		return nil, models.NewValidationError("flightId", "standby is only offered on sold-out flights")
	}
	n, err := s.Deps.Notifications.Add(ctx, models.Notification{
		UserID:  req.UserID,
		Type:    models.NotificationAlert,
		Title:   "Standby Active",
		Message: fmt.Sprintf("You are now on the standby list for %s.", f.ID),
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *bookingServiceImpl) StartSession(ctx context.Context, req models.StartSessionRequest) (*booking.Snapshot, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	cur, err := s.currency(ctx, req.Currency, req.ClientIP)
	if err != nil {
		return nil, err
	}
	f, err := s.Flights.Get(ctx, req.FlightID)
	if err != nil {
		return nil, err
	}
	if err := catalog.ValidateRoute(f.Origin, f.Destination); err != nil {
		return nil, err
	}
	departure, err := f.DepartureAt(s.opts.Location)
	if err != nil {
		return nil, err
	}

	input := models.BookingSessionInput{
		SessionID:          uuid.New().String()[:8],
		Flight:             *f,
		DepartureTimestamp: departure,
		UserID:             req.UserID,
		UserName:           req.UserName,
		UserEmail:          req.UserEmail,
		Passengers:         req.Passengers,
		Currency:           cur,
		CabinRows:          s.opts.CabinRows,
		ProcessingDelay:    s.opts.ProcessingDelay,
		SessionTimeout:     s.opts.SessionTimeout,
	}

	// the workflow checks the same conditions; failing here keeps bad
	// requests from starting workflows at all
	session, err := booking.NewSession(input, s.Menu)
	if err != nil {
		return nil, err
	}

	workflowOptions := client.StartWorkflowOptions{
		ID:        workflowID(input.SessionID),
		TaskQueue: s.opts.TaskQueue,
	}
	if _, err := s.Temporal.ExecuteWorkflow(ctx, workflowOptions, WorkflowName, input); err != nil {
		return nil, fmt.Errorf("failed to start workflow: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"sessionId": input.SessionID,
		"flightId":  f.ID,
		"userId":    req.UserID,
	}).Info("Booking session started")

	snap := session.Snapshot()
	snap.UpdatedAt = s.Clock.Now()
	return &snap, nil
}

func (s *bookingServiceImpl) GetSession(ctx context.Context, sessionID string) (*booking.Snapshot, error) {
	response, err := s.Temporal.QueryWorkflow(ctx, workflowID(sessionID), "", models.QueryGetState)
	if err != nil {
		var notFound *serviceerror.NotFound
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("session %s: %w", sessionID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query session %s: %w", sessionID, err)
	}
	var snap booking.Snapshot
	if err := response.Get(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode session state: %w", err)
	}
	return &snap, nil
}

// ApplyEvent signals ev to the session and waits briefly for the workflow
// to process it. Card details are checked here and only the redacted card
// is sent, so the full number never reaches workflow history.
func (s *bookingServiceImpl) ApplyEvent(ctx context.Context, sessionID string, ev models.SessionEvent) (*booking.Snapshot, error) {
	if ev.Type == "" {
		return nil, models.NewValidationError("type", "is required")
	}
	if ev.Type == models.EventCard {
		if ev.Card == nil {
			return nil, models.NewValidationError("card", "is required")
		}
		if err := models.Validate(ev.Card); err != nil {
			return nil, err
		}
		redacted := ev.Card.Redacted()
		ev.Card = &redacted
	}

	before, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if before.Step.Terminal() || before.Step == booking.StepProcessing {
		return nil, &booking.TransitionError{From: before.Step, Event: ev.Type}
	}

	if err := s.Temporal.SignalWorkflow(ctx, workflowID(sessionID), "", models.SignalBookingEvent, ev); err != nil {
		return nil, fmt.Errorf("failed to signal session: %w", err)
	}
	return s.awaitRevision(ctx, sessionID, before)
}

func (s *bookingServiceImpl) awaitRevision(ctx context.Context, sessionID string, before *booking.Snapshot) (*booking.Snapshot, error) {
	latest := before
	for i := 0; i < s.opts.PollAttempts; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.Clock.After(s.opts.PollInterval):
		}
		snap, err := s.GetSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		latest = snap
		if snap.Revision > before.Revision {
			break
		}
	}
	return latest, nil
}

func (s *bookingServiceImpl) AbandonSession(ctx context.Context, sessionID string) error {
	snap, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if snap.Step.Terminal() {
		return &booking.TransitionError{From: snap.Step, Event: "abandon"}
	}
	if err := s.Temporal.SignalWorkflow(ctx, workflowID(sessionID), "", models.SignalAbandon, nil); err != nil {
		return fmt.Errorf("failed to signal session: %w", err)
	}
	return nil
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return models.NewValidationError("userId", "is required")
	}
	return nil
}

func (s *bookingServiceImpl) UserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.Bookings.ListByUser(ctx, userID)
}

func (s *bookingServiceImpl) Countdown(ctx context.Context, bookingID string) (*models.Countdown, error) {
	b, err := s.Bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return CountdownFor(*b, s.Clock.Now()), nil
}

// CountdownFor reports the time left before b departs at now
func CountdownFor(b models.Booking, now time.Time) *models.Countdown {
	remaining := reminder.Remaining(b.DepartureTimestamp, now)
	label, urgency := reminder.Label(remaining)
	return &models.Countdown{
		BookingID: b.ID,
		Remaining: int64(remaining / time.Second),
		Text:      reminder.FormatCountdown(remaining),
		Label:     label,
		Urgency:   urgency,
	}
}

func (s *bookingServiceImpl) DueReminders(ctx context.Context) ([]models.ReminderEntry, error) {
	return s.Reminders.GetDueReminders(ctx, s.opts.DueWindow)
}

func (s *bookingServiceImpl) Notifications(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.Deps.Notifications.List(ctx, userID)
}

func (s *bookingServiceImpl) MarkNotificationRead(ctx context.Context, id string) (*models.Notification, error) {
	n, err := s.Deps.Notifications.MarkRead(ctx, id)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *bookingServiceImpl) DismissNotification(ctx context.Context, id string) error {
	return s.Deps.Notifications.Dismiss(ctx, id)
}

func (s *bookingServiceImpl) AddFlight(ctx context.Context, req models.NewFlightRequest) (*models.FlightView, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	if err := catalog.ValidateRoute(req.Origin, req.Destination); err != nil {
		return nil, err
	}
	if _, err := time.Parse(models.DateLayout, req.DepartureDate); err != nil {
		return nil, models.NewValidationError("departureDate", "must be YYYY-MM-DD")
	}
	if _, err := time.Parse(models.ClockLayout, req.DepartureTime); err != nil {
		return nil, models.NewValidationError("departureTime", "must be HH:MM")
	}
	class := req.Class
	if class == "" {
		class = models.FlightClassEconomy
	}

	f := &models.Flight{
		ID:              "FL-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6]),
		Airline:         req.Airline,
		Origin:          req.Origin,
		OriginCode:      strings.ToUpper(req.OriginCode),
		Destination:     req.Destination,
		DestinationCode: strings.ToUpper(req.DestinationCode),
		DepartureDate:   req.DepartureDate,
		DepartureTime:   req.DepartureTime,
		ArrivalTime:     req.ArrivalTime,
		Duration:        req.Duration,
		Class:           class,
		Stops:           req.Stops,
		BasePrice:       req.BasePrice,
		TotalSeats:      req.TotalSeats,
		DiscountPercent: req.DiscountPercent,
		DiscountLabel:   req.DiscountLabel,
	}
	if err := s.Flights.Prepend(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to add flight: %w", err)
	}

	log := logrus.WithField("flightId", f.ID)
	if err := s.Events.FlightAdded(ctx, *f); err != nil {
		log.WithError(err).Warn("Failed to publish flight event")
	}
	if req.AddedBy != "" {
		if _, err := s.Deps.Notifications.Add(ctx, models.Notification{
			UserID:  req.AddedBy,
			Type:    models.NotificationSuccess,
			Title:   "Flight Added",
			Message: fmt.Sprintf("New flight %s→%s on %s", f.OriginCode, f.DestinationCode, f.DepartureDate),
		}); err != nil {
			log.WithError(err).Warn("Failed to record flight notification")
		}
	}
	log.Info("Flight added")

	view := f.View()
	return &view, nil
}

func (s *bookingServiceImpl) FlightBookings(ctx context.Context, flightID string) (*models.FlightBookings, error) {
	if _, err := s.Flights.Get(ctx, flightID); err != nil {
		return nil, err
	}
	bookings, err := s.Bookings.ListByFlight(ctx, flightID)
	if err != nil {
		return nil, err
	}
	overview := &models.FlightBookings{FlightID: flightID, Bookings: bookings}
	for _, b := range bookings {
		overview.TotalPassengers += b.Passengers.Total()
	}
	return overview, nil
}

func (s *bookingServiceImpl) DetectCurrency(ctx context.Context, ip string) models.Currency {
	return s.Geo.DetectOrFallback(ctx, ip)
}

func (s *bookingServiceImpl) Ask(ctx context.Context, req models.AssistantRequest) models.AssistantResponse {
	return s.Assistant.Ask(ctx, req)
}
