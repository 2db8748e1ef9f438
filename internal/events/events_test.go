package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestKafkaPublisher(t *testing.T) {
	w := &recordingWriter{}
	p := NewKafkaPublisherWithWriter(w)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return at }

	require.NoError(t, p.BookingConfirmed(context.Background(), models.Booking{ID: "ELT-1", FlightID: "AI-3000"}))
	require.NoError(t, p.FlightAdded(context.Background(), models.Flight{ID: "NEW-1"}))
	require.Len(t, w.msgs, 2)

	assert.Equal(t, "AI-3000", string(w.msgs[0].Key))
	var e Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &e))
	assert.Equal(t, TypeBookingConfirmed, e.Type)
	assert.Equal(t, "ELT-1", e.Booking.ID)
	assert.True(t, at.Equal(e.OccurredAt))

	assert.Equal(t, "NEW-1", string(w.msgs[1].Key))
	assert.Equal(t, TypeFlightAdded, string(w.msgs[1].Headers[0].Value))
}

func TestKafkaPublisherError(t *testing.T) {
	p := NewKafkaPublisherWithWriter(&recordingWriter{err: errors.New("no brokers")})
	err := p.BookingConfirmed(context.Background(), models.Booking{ID: "ELT-1"})
	var ext *models.ExternalServiceError
	assert.ErrorAs(t, err, &ext)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.BookingConfirmed(context.Background(), models.Booking{}))
	assert.NoError(t, p.FlightAdded(context.Background(), models.Flight{}))
	assert.NoError(t, p.Close())
}
