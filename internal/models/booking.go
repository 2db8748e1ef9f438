package models

import (
	"strings"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
)

// Currency is a display currency
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyINR Currency = "INR"
)

// Valid reports whether c is a supported currency
func (c Currency) Valid() bool {
	return c == CurrencyUSD || c == CurrencyINR
}

// PaymentMethod is how the traveller pays
type PaymentMethod string

const (
	PaymentCard      PaymentMethod = "Card"
	PaymentUPI       PaymentMethod = "UPI"
	PaymentGooglePay PaymentMethod = "GooglePay"
	PaymentWallet    PaymentMethod = "Wallet"
)

// Valid reports whether m is a supported payment method
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentUPI, PaymentGooglePay, PaymentWallet:
		return true
	}
	return false
}

// RequiresCard reports whether m needs the card entry step
func (m PaymentMethod) RequiresCard() bool {
	return m == PaymentCard
}

// CardDetails is the card entry form; only presence is checked
type CardDetails struct {
	CardNumber  string `json:"cardNumber" validate:"required"`
	CardHolder  string `json:"cardHolder" validate:"required"`
	ExpiryMonth string `json:"expiryMonth" validate:"required,len=2"`
	ExpiryYear  string `json:"expiryYear" validate:"required,len=2"`
	CVV         string `json:"cvv" validate:"required"`
}

// Last4 returns the last four characters of the card number
func (c CardDetails) Last4() string {
	if len(c.CardNumber) <= 4 {
		return c.CardNumber
	}
	return c.CardNumber[len(c.CardNumber)-4:]
}

// Redacted masks everything but the last four digits and drops the CVV.
// Only redacted cards leave the API layer.
func (c CardDetails) Redacted() CardDetails {
	last4 := c.Last4()
	c.CardNumber = strings.Repeat("X", len(c.CardNumber)-len(last4)) + last4
	if c.CVV != "" {
		c.CVV = "***"
	}
	return c
}

// Booking is the durable record of a completed confirmation.
// Monetary fields are frozen at creation.
type Booking struct {
	ID                 string             `json:"id"`
	SessionID          string             `json:"sessionId"`
	FlightID           string             `json:"flightId"`
	UserID             string             `json:"userId"`
	UserName           string             `json:"userName"`
	UserEmail          string             `json:"userEmail"`
	Seats              []string           `json:"seats"`
	Passengers         PassengerCounts    `json:"passengers"`
	Catering           []SelectedCatering `json:"catering"`
	FoodPreference     FoodType           `json:"foodPreference,omitempty"`
	Subtotal           float64            `json:"subtotal"`
	Discount           float64            `json:"discount"`
	AgeOffer           float64            `json:"ageOffer"`
	CateringTotal      float64            `json:"cateringTotal"`
	Taxes              float64            `json:"taxes"`
	Total              float64            `json:"total"`
	Currency           Currency           `json:"currency"`
	Status             BookingStatus      `json:"status"`
	BookingDate        time.Time          `json:"bookingDate"`
	DepartureTimestamp time.Time          `json:"departureTimestamp"`
	QRPayload          string             `json:"qrPayload"`
	PaymentMethod      PaymentMethod      `json:"paymentMethod"`
	CardLast4          string             `json:"cardLast4,omitempty"`
	TransactionID      string             `json:"transactionId"`
	Gate               string             `json:"gate"`
}

// FlightBookings is the admin overview of bookings on one flight
type FlightBookings struct {
	FlightID        string    `json:"flightId"`
	Bookings        []Booking `json:"bookings"`
	TotalPassengers int       `json:"totalPassengers"`
}
