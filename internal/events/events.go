// Package events publishes domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const (
	TypeBookingConfirmed = "booking.confirmed"
	TypeFlightAdded      = "flight.added"
)

// Event is the envelope written to the topic
type Event struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Booking    *models.Booking `json:"booking,omitempty"`
	Flight     *models.Flight  `json:"flight,omitempty"`
}

// Writer is the part of kafka.Writer used here
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes booking and catalog events
type Publisher interface {
	BookingConfirmed(ctx context.Context, b models.Booking) error
	FlightAdded(ctx context.Context, f models.Flight) error
	Close() error
}

// KafkaPublisher keys booking events by flight so a flight's events stay ordered
type KafkaPublisher struct {
	writer Writer
	now    func() time.Time
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return NewKafkaPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	})
}

func NewKafkaPublisherWithWriter(w Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: w, now: time.Now}
}

func (p *KafkaPublisher) BookingConfirmed(ctx context.Context, b models.Booking) error {
	return p.write(ctx, b.FlightID, Event{Type: TypeBookingConfirmed, OccurredAt: p.now(), Booking: &b})
}

func (p *KafkaPublisher) FlightAdded(ctx context.Context, f models.Flight) error {
	return p.write(ctx, f.ID, Event{Type: TypeFlightAdded, OccurredAt: p.now(), Flight: &f})
}

func (p *KafkaPublisher) write(ctx context.Context, key string, e Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", e.Type, err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  e.OccurredAt,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	})
	if err != nil {
		return &models.ExternalServiceError{Service: "kafka", Err: err}
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Nop logs events at debug level when Kafka is disabled
type Nop struct{}

func (Nop) BookingConfirmed(ctx context.Context, b models.Booking) error {
	logrus.WithField("bookingId", b.ID).Debug("event stream disabled, booking.confirmed dropped")
	return nil
}

func (Nop) FlightAdded(ctx context.Context, f models.Flight) error {
	logrus.WithField("flightId", f.ID).Debug("event stream disabled, flight.added dropped")
	return nil
}

func (Nop) Close() error { return nil }
