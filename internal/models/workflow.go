package models

import "time"

// Signals for workflow communication
const (
	SignalBookingEvent = "booking_event"
	SignalAbandon      = "abandon"
)

// Queries for workflow state
const (
	QueryGetState = "get_state"
)

// BookingSessionInput starts a booking session workflow
// The flight is a snapshot taken when the session opens so the quote
// cannot drift while the traveller is choosing seats.
type BookingSessionInput struct {
	SessionID          string          `json:"sessionId"`
	Flight             Flight          `json:"flight"`
	DepartureTimestamp time.Time       `json:"departureTimestamp"`
	UserID             string          `json:"userId"`
	UserName           string          `json:"userName"`
	UserEmail          string          `json:"userEmail"`
	Passengers         PassengerCounts `json:"passengers"`
	Currency           Currency        `json:"currency"`
	CabinRows          int             `json:"cabinRows"`
	ProcessingDelay    time.Duration   `json:"processingDelay"`
	SessionTimeout     time.Duration   `json:"sessionTimeout"`
}

// StartSessionRequest is the API payload that opens a booking session
type StartSessionRequest struct {
	FlightID   string          `json:"flightId" validate:"required"`
	UserID     string          `json:"userId" validate:"required"`
	UserName   string          `json:"userName" validate:"required"`
	UserEmail  string          `json:"userEmail" validate:"required,email"`
	Passengers PassengerCounts `json:"passengers"`
	Currency   Currency        `json:"currency"`
	// ClientIP is filled in by the API from the request, never decoded
	ClientIP string `json:"-"`
}

// SessionEventType names an action applied to a booking session
type SessionEventType string

const (
	EventToggleSeat     SessionEventType = "toggle_seat"
	EventConfirmSeats   SessionEventType = "confirm_seats"
	EventFoodPreference SessionEventType = "food_preference"
	EventCatering       SessionEventType = "catering"
	EventProceed        SessionEventType = "proceed_to_payment"
	EventPaymentMethod  SessionEventType = "payment_method"
	EventCard           SessionEventType = "card"
	EventBack           SessionEventType = "back"
)

// SessionEvent is the payload of the booking_event signal
type SessionEvent struct {
	Type          SessionEventType `json:"type"`
	SeatID        string           `json:"seatId,omitempty"`
	FoodType      FoodType         `json:"foodType,omitempty"`
	ItemID        string           `json:"itemId,omitempty"`
	Delta         int              `json:"delta,omitempty"`
	PaymentMethod PaymentMethod    `json:"paymentMethod,omitempty"`
	Card          *CardDetails     `json:"card,omitempty"`
}

// ConfirmBookingInput is the activity input that commits a booking
type ConfirmBookingInput struct {
	Booking Booking `json:"booking"`
}

// ConfirmBookingResult reports the committed booking
type ConfirmBookingResult struct {
	Booking Booking `json:"booking"`
	Created bool    `json:"created"`
}

// SessionResult is the outcome of a booking session workflow
type SessionResult struct {
	SessionID     string   `json:"sessionId"`
	Step          string   `json:"step"`
	Booking       *Booking `json:"booking,omitempty"`
	FailureReason string   `json:"failureReason,omitempty"`
}

// BookingActivityInput carries a committed booking to follow-up activities
type BookingActivityInput struct {
	Booking Booking `json:"booking"`
}

// IssueReceiptResult is where the rendered receipt was stored
type IssueReceiptResult struct {
	Location string `json:"location"`
}

// StandbyRequest asks to be alerted about a sold-out flight
type StandbyRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// AssistantRequest is a prompt for the travel assistant
type AssistantRequest struct {
	Prompt  string `json:"prompt" validate:"required"`
	Context string `json:"context"`
	Assess  bool   `json:"assess"`
}

// AssistantResponse is the assistant's reply
type AssistantResponse struct {
	Text    string  `json:"text"`
	Score   float64 `json:"score,omitempty"`
	Summary string  `json:"summary,omitempty"`
}
