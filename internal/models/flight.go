package models

import (
	"fmt"
	"time"
)

// FlightClass is the fare class a flight is sold in
type FlightClass string

const (
	FlightClassEconomy  FlightClass = "Economy"
	FlightClassBusiness FlightClass = "Business"
	FlightClassFirst    FlightClass = "First"
)

// DateLayout and ClockLayout are the formats of a flight's schedule fields
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Flight represents a scheduled route instance in the catalog
type Flight struct {
	ID               string      `json:"id"`
	Airline          string      `json:"airline"`
	Origin           string      `json:"origin"`
	OriginCode       string      `json:"originCode"`
	Destination      string      `json:"destination"`
	DestinationCode  string      `json:"destinationCode"`
	DepartureDate    string      `json:"departureDate"`
	DepartureTime    string      `json:"departureTime"`
	ArrivalTime      string      `json:"arrivalTime"`
	Duration         string      `json:"duration"`
	Class            FlightClass `json:"class"`
	Stops            int         `json:"stops"`
	BasePrice        float64     `json:"basePrice"`
	TotalSeats       int         `json:"totalSeats"`
	PassengersBooked int         `json:"passengersBooked"`
	DiscountPercent  float64     `json:"discountPercent"`
	DiscountLabel    string      `json:"discountLabel,omitempty"`
}

// IsSoldOut reports whether occupancy has reached capacity
func (f *Flight) IsSoldOut() bool {
	return f.PassengersBooked >= f.TotalSeats
}

// AvailableUnits returns the number of passengers that can still be booked
func (f *Flight) AvailableUnits() int {
	if f.IsSoldOut() {
		return 0
	}
	return f.TotalSeats - f.PassengersBooked
}

// DepartureAt resolves the departure date and time in loc.
// A missing time is treated as midnight.
func (f *Flight) DepartureAt(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	clock := f.DepartureTime
	if clock == "" {
		clock = "00:00"
	}
	t, err := time.ParseInLocation(DateLayout+" "+ClockLayout, f.DepartureDate+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse departure of flight %s: %w", f.ID, err)
	}
	return t, nil
}

// FlightView is the API representation of a flight with derived availability
type FlightView struct {
	*Flight
	IsSoldOut      bool `json:"isSoldOut"`
	AvailableUnits int  `json:"availableUnits"`
}

// View returns f with its derived fields filled in
func (f *Flight) View() FlightView {
	return FlightView{
		Flight:         f,
		IsSoldOut:      f.IsSoldOut(),
		AvailableUnits: f.AvailableUnits(),
	}
}

// NewFlightRequest is the admin insertion payload
type NewFlightRequest struct {
	Airline         string      `json:"airline" validate:"required"`
	Origin          string      `json:"origin" validate:"required"`
	OriginCode      string      `json:"originCode" validate:"required"`
	Destination     string      `json:"destination" validate:"required"`
	DestinationCode string      `json:"destinationCode" validate:"required"`
	DepartureDate   string      `json:"departureDate" validate:"required"`
	DepartureTime   string      `json:"departureTime" validate:"required"`
	ArrivalTime     string      `json:"arrivalTime"`
	Duration        string      `json:"duration"`
	Class           FlightClass `json:"class"`
	Stops           int         `json:"stops" validate:"gte=0"`
	BasePrice       float64     `json:"basePrice" validate:"gte=0"`
	TotalSeats      int         `json:"totalSeats" validate:"gte=0"`
	DiscountPercent float64     `json:"discountPercent" validate:"gte=0,lte=100"`
	DiscountLabel   string      `json:"discountLabel"`
	AddedBy         string      `json:"addedBy"`
}

// SeatStatus represents the status of a cabin seat
type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusTaken     SeatStatus = "taken"
)

// Seat represents a seat on the cabin map
type Seat struct {
	ID     string     `json:"id"`
	Row    int        `json:"row"`
	Column string     `json:"column"`
	Status SeatStatus `json:"status"`
}

// Hub is a city served by the network
type Hub struct {
	Name string `json:"name"`
	Code string `json:"code"`
}
