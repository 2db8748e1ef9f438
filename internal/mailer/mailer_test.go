package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, msg Message) error {
	return m.Called(ctx, msg).Error(0)
}

func entry() models.ReminderEntry {
	return models.ReminderEntry{
		BookingID:          "ELT-1",
		FlightID:           "AI-3000",
		UserName:           "Asha",
		UserEmail:          "asha@example.com",
		DepartureTimestamp: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
	}
}

func TestReminderMessage(t *testing.T) {
	m := ReminderMessage(entry(), nil)
	assert.Equal(t, "asha@example.com", m.To)
	assert.Equal(t, "Reminder: Flight AI-3000 in ~24 hours", m.Subject)
	assert.Equal(t, "Hi Asha,\n\nThis is a reminder that your flight (AI-3000) departs on Tue, 10 Mar 2026 08:00 UTC.", m.Body)
}

func TestDirectDispatch(t *testing.T) {
	sender := &mockSender{}
	sender.On("Send", mock.Anything, ReminderMessage(entry(), time.UTC)).Return(nil).Once()

	require.NoError(t, NewDirect(sender, time.UTC).DispatchReminder(context.Background(), entry()))
	sender.AssertExpectations(t)
}

type fakeChannel struct {
	queue string
	msg   amqp.Publishing
	err   error
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.queue = key
	f.msg = msg
	return nil
}

func TestQueueDispatcher(t *testing.T) {
	ch := &fakeChannel{}
	d := NewQueueDispatcher(ch, "", time.UTC)

	require.NoError(t, d.DispatchReminder(context.Background(), entry()))
	assert.Equal(t, DefaultQueue, ch.queue)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, "ELT-1", ch.msg.MessageId)

	var m Message
	require.NoError(t, json.Unmarshal(ch.msg.Body, &m))
	assert.Equal(t, ReminderMessage(entry(), time.UTC), m)

	ch.err = errors.New("channel closed")
	err := d.DispatchReminder(context.Background(), entry())
	var ext *models.ExternalServiceError
	assert.ErrorAs(t, err, &ext)
}

func TestConsumerHandle(t *testing.T) {
	sender := &mockSender{}
	c := NewConsumer(sender)
	msg := ReminderMessage(entry(), time.UTC)
	body, _ := json.Marshal(msg)

	sender.On("Send", mock.Anything, msg).Return(nil).Once()
	require.NoError(t, c.Handle(context.Background(), body))

	err := c.Handle(context.Background(), []byte("not json"))
	assert.True(t, models.IsValidation(err))

	empty, _ := json.Marshal(Message{Subject: "x"})
	err = c.Handle(context.Background(), empty)
	assert.True(t, models.IsValidation(err))

	sender.AssertExpectations(t)
}

func TestLogSender(t *testing.T) {
	assert.NoError(t, NewLogSender().Send(context.Background(), Message{To: "a@b.c"}))
}
