// Package receipt renders confirmed bookings as PDF receipts and stores
// the artifacts.
package receipt

import (
	"fmt"
	"time"

	"github.com/Barathimeena/AirRoute-Hub/internal/allocator"
	"github.com/Barathimeena/AirRoute-Hub/internal/models"
)

const StatusPaid = "PAID"

// Record is the receipt derived from a confirmed booking. Amounts are in
// the reference currency; Currency selects how they are displayed.
type Record struct {
	TransactionID  string               `json:"transactionId"`
	BookingID      string               `json:"bookingId"`
	Passenger      string               `json:"passenger"`
	Email          string               `json:"email"`
	FlightID       string               `json:"flightId"`
	Airline        string               `json:"airline"`
	Route          string               `json:"route"`
	Schedule       string               `json:"schedule"`
	Gate           string               `json:"gate"`
	Seats          []string             `json:"seats"`
	PassengerCount int                  `json:"passengerCount"`
	Catering       []string             `json:"catering"`
	Subtotal       float64              `json:"subtotal"`
	Discount       float64              `json:"discount"`
	Taxes          float64              `json:"taxes"`
	Total          float64              `json:"total"`
	Currency       models.Currency      `json:"currency"`
	PaymentMethod  models.PaymentMethod `json:"paymentMethod"`
	CardLast4      string               `json:"cardLast4,omitempty"`
	QRPayload      string               `json:"qrPayload"`
	Date           time.Time            `json:"date"`
	Status         string               `json:"status"`
}

// NewRecord derives the receipt of b. The subtotal shown is the fare
// before the age offer is taken off.
func NewRecord(b models.Booking, f *models.Flight, menu *allocator.Menu) Record {
	r := Record{
		TransactionID:  b.TransactionID,
		BookingID:      b.ID,
		Passenger:      b.UserName,
		Email:          b.UserEmail,
		FlightID:       b.FlightID,
		Gate:           b.Gate,
		Seats:          append([]string(nil), b.Seats...),
		PassengerCount: b.Passengers.Total(),
		Catering:       allocator.DescribeSelection(menu, b.Catering),
		Subtotal:       b.Subtotal + b.AgeOffer,
		Discount:       b.Discount,
		Taxes:          b.Taxes,
		Total:          b.Total,
		Currency:       b.Currency,
		PaymentMethod:  b.PaymentMethod,
		CardLast4:      b.CardLast4,
		QRPayload:      b.QRPayload,
		Date:           b.BookingDate,
		Status:         StatusPaid,
	}
	if f != nil {
		r.Airline = f.Airline
		r.Route = fmt.Sprintf("%s (%s) to %s (%s)", f.Origin, f.OriginCode, f.Destination, f.DestinationCode)
		r.Schedule = fmt.Sprintf("%s %s - %s", f.DepartureDate, f.DepartureTime, f.ArrivalTime)
	}
	return r
}
