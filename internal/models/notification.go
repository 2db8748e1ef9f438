package models

import "time"

// NotificationType classifies a user-facing alert
type NotificationType string

const (
	NotificationInfo    NotificationType = "INFO"
	NotificationAlert   NotificationType = "ALERT"
	NotificationSuccess NotificationType = "SUCCESS"
)

// Notification is an entry in a user's notification log
type Notification struct {
	ID                 string           `json:"id"`
	UserID             string           `json:"userId"`
	Type               NotificationType `json:"type"`
	Title              string           `json:"title"`
	Message            string           `json:"message"`
	CreatedAt          time.Time        `json:"createdAt"`
	Read               bool             `json:"read"`
	DepartureTimestamp *time.Time       `json:"departureTimestamp,omitempty"`
}

// ReminderEntry is a scheduled departure reminder derived from a booking
type ReminderEntry struct {
	BookingID          string    `json:"bookingId"`
	FlightID           string    `json:"flightId"`
	UserID             string    `json:"userId"`
	UserEmail          string    `json:"userEmail"`
	UserName           string    `json:"userName"`
	DepartureTimestamp time.Time `json:"departureTimestamp"`
	RemindAt           time.Time `json:"remindAt"`
	Notified           bool      `json:"notified"`
	Dispatched         bool      `json:"dispatched"`
}

// Countdown is the live time-to-departure of a booking
type Countdown struct {
	BookingID string `json:"bookingId"`
	Remaining int64  `json:"remainingSeconds"`
	Text      string `json:"text"`
	Label     string `json:"label"`
	Urgency   string `json:"urgency"`
}
