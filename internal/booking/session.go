package booking

import (
	"fmt"
	"time"

	"github.com/Barathimeena/AirRoute-Hub/internal/allocator"
	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/Barathimeena/AirRoute-Hub/internal/pricing"
)

// Snapshot is the queryable state of a booking session
type Snapshot struct {
	SessionID      string                    `json:"sessionId"`
	FlightID       string                    `json:"flightId"`
	UserID         string                    `json:"userId"`
	Step           Step                      `json:"step"`
	Passengers     models.PassengerCounts    `json:"passengers"`
	Seats          []string                  `json:"seats"`
	SeatCapacity   int                       `json:"seatCapacity"`
	FoodPreference models.FoodType           `json:"foodPreference,omitempty"`
	Catering       []models.SelectedCatering `json:"catering"`
	PaymentMethod  models.PaymentMethod      `json:"paymentMethod,omitempty"`
	CardLast4      string                    `json:"cardLast4,omitempty"`
	Currency       models.Currency           `json:"currency"`
	Quote          *models.PriceBreakdown    `json:"quote,omitempty"`
	Booking        *models.Booking           `json:"booking,omitempty"`
	FailureReason  string                    `json:"failureReason,omitempty"`
	LastError      string                    `json:"lastError,omitempty"`
	Revision       int                       `json:"revision"`
	UpdatedAt      time.Time                 `json:"updatedAt"`
}

// Session is one traveller's walk through the booking flow. It owns the
// seat selection and catering cart and produces at most one Booking.
type Session struct {
	input     models.BookingSessionInput
	menu      *allocator.Menu
	step      Step
	seats     *allocator.SeatSelection
	cart      *allocator.CateringCart
	foodPref  models.FoodType
	method    models.PaymentMethod
	cardLast4 string
	booking   *models.Booking
	failure   string
}

// NewSession opens a session for input. The flight must be able to seat
// every traveller.
func NewSession(input models.BookingSessionInput, menu *allocator.Menu) (*Session, error) {
	total := input.Passengers.Total()
	if input.Passengers.Young < 0 || input.Passengers.Adult < 0 || input.Passengers.Elder < 0 || total == 0 {
		return nil, models.NewValidationError("passengers", "at least one passenger is required")
	}
	if input.Flight.AvailableUnits() < total {
		return nil, fmt.Errorf("flight %s has %d seats left: %w", input.Flight.ID, input.Flight.AvailableUnits(), models.ErrSoldOut)
	}
	if menu == nil {
		menu = allocator.DefaultMenu()
	}
	if input.Currency == "" {
		input.Currency = models.CurrencyUSD
	}
	return &Session{
		input: input,
		menu:  menu,
		step:  StepSeats,
		seats: allocator.NewSeatSelection(total, input.CabinRows),
		cart:  allocator.NewCateringCart(menu),
	}, nil
}

// Step returns the current step
func (s *Session) Step() Step {
	return s.step
}

// Apply feeds one event through the flow. It reports whether any state
// changed; rejected-but-harmless edits (full seat set, stock reached)
// return changed=false with no error.
func (s *Session) Apply(ev models.SessionEvent) (bool, error) {
	if s.step.Terminal() || s.step == StepProcessing {
		return false, &TransitionError{From: s.step, Event: ev.Type}
	}

	guard := Guard{
		SeatsComplete: s.seats.Complete(),
		SeatsRequired: s.seats.Capacity(),
		FoodType:      ev.FoodType,
		PaymentMethod: ev.PaymentMethod,
		CardComplete:  ev.Card != nil && models.Validate(ev.Card) == nil,
	}
	next, err := Next(s.step, ev.Type, guard)
	if err != nil {
		return false, err
	}

	changed := next != s.step
	switch ev.Type {
	case models.EventToggleSeat:
		toggled, err := s.seats.Toggle(ev.SeatID)
		if err != nil {
			return false, err
		}
		changed = toggled
	case models.EventCatering:
		updated, err := s.cart.Update(ev.ItemID, ev.Delta)
		if err != nil {
			return false, err
		}
		changed = updated
	case models.EventFoodPreference:
		changed = changed || s.foodPref != ev.FoodType
		s.foodPref = ev.FoodType
	case models.EventPaymentMethod:
		s.method = ev.PaymentMethod
		if !s.method.RequiresCard() {
			s.cardLast4 = ""
		}
		changed = true
	case models.EventCard:
		s.cardLast4 = ev.Card.Last4()
		changed = true
	}
	s.step = next
	return changed, nil
}

// Quote prices the current selection
func (s *Session) Quote() (models.PriceBreakdown, error) {
	return pricing.Quote(&s.input.Flight, s.input.Passengers, s.cart.Selected(), s.menu)
}

// Finalize builds the Booking for a session in processing. It succeeds
// at most once; later calls return ErrAlreadyConfirmed.
func (s *Session) Finalize(ids Identifiers, now time.Time) (*models.Booking, error) {
	if s.booking != nil {
		return nil, models.ErrAlreadyConfirmed
	}
	if s.step != StepProcessing {
		return nil, &TransitionError{From: s.step, Event: "finalize"}
	}
	quote, err := s.Quote()
	if err != nil {
		return nil, err
	}

	in := s.input
	b := &models.Booking{
		ID:                 ids.BookingID,
		SessionID:          in.SessionID,
		FlightID:           in.Flight.ID,
		UserID:             in.UserID,
		UserName:           in.UserName,
		UserEmail:          in.UserEmail,
		Seats:              s.seats.Seats(),
		Passengers:         in.Passengers,
		Catering:           s.cart.Selected(),
		FoodPreference:     s.foodPref,
		Subtotal:           quote.Subtotal,
		Discount:           quote.FlashDiscount,
		AgeOffer:           quote.AgeOffer,
		CateringTotal:      quote.CateringTotal,
		Taxes:              quote.Taxes,
		Total:              quote.Total,
		Currency:           in.Currency,
		Status:             models.BookingStatusConfirmed,
		BookingDate:        now,
		DepartureTimestamp: in.DepartureTimestamp,
		QRPayload:          QRPayload(in.UserID, in.Flight.ID),
		PaymentMethod:      s.method,
		CardLast4:          s.cardLast4,
		TransactionID:      ids.TransactionID,
		Gate:               ids.Gate,
	}
	s.booking = b
	return b, nil
}

// Reissue swaps the identifiers of the pending booking, for when the
// drawn booking id turned out to be taken
func (s *Session) Reissue(ids Identifiers) (*models.Booking, error) {
	if s.booking == nil || s.step != StepProcessing {
		return nil, &TransitionError{From: s.step, Event: "reissue"}
	}
	b := *s.booking
	b.ID = ids.BookingID
	b.TransactionID = ids.TransactionID
	b.Gate = ids.Gate
	s.booking = &b
	return &b, nil
}

// Confirm records the committed booking and enters the confirmed step
func (s *Session) Confirm(committed models.Booking) {
	s.booking = &committed
	s.step = StepConfirmed
}

// Fail ends the session without a booking
func (s *Session) Fail(reason string) {
	s.booking = nil
	s.failure = reason
	s.step = StepFailed
}

// Abandon ends an unfinished session without committing anything.
// It reports false when the session had already ended.
func (s *Session) Abandon() bool {
	if s.step.Terminal() {
		return false
	}
	s.booking = nil
	s.step = StepAbandoned
	return true
}

// Booking returns the booking produced by Finalize, if any
func (s *Session) Booking() *models.Booking {
	return s.booking
}

// Snapshot captures the session for queries
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID:      s.input.SessionID,
		FlightID:       s.input.Flight.ID,
		UserID:         s.input.UserID,
		Step:           s.step,
		Passengers:     s.input.Passengers,
		Seats:          s.seats.Seats(),
		SeatCapacity:   s.seats.Capacity(),
		FoodPreference: s.foodPref,
		Catering:       s.cart.Selected(),
		PaymentMethod:  s.method,
		CardLast4:      s.cardLast4,
		Currency:       s.input.Currency,
		FailureReason:  s.failure,
	}
	if quote, err := s.Quote(); err == nil {
		snap.Quote = &quote
	}
	if s.booking != nil && s.step == StepConfirmed {
		b := *s.booking
		snap.Booking = &b
	}
	return snap
}
