package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const DefaultQueue = "airroute.reminder-emails"

// Publisher is the part of an AMQP channel used to enqueue mail
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// OpenQueue dials RabbitMQ and declares the durable mail queue
func OpenQueue(url, queue string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	return conn, ch, nil
}

// QueueDispatcher enqueues reminder e-mails for the worker to send
type QueueDispatcher struct {
	ch    Publisher
	queue string
	loc   *time.Location
}

func NewQueueDispatcher(ch Publisher, queue string, loc *time.Location) *QueueDispatcher {
	if queue == "" {
		queue = DefaultQueue
	}
	return &QueueDispatcher{ch: ch, queue: queue, loc: loc}
}

func (q *QueueDispatcher) DispatchReminder(ctx context.Context, e models.ReminderEntry) error {
	body, err := json.Marshal(ReminderMessage(e, q.loc))
	if err != nil {
		return fmt.Errorf("failed to encode mail: %w", err)
	}
	err = q.ch.PublishWithContext(ctx, "", q.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		MessageId:    e.BookingID,
	})
	if err != nil {
		return &models.ExternalServiceError{Service: "rabbitmq", Err: err}
	}
	return nil
}

// Consumer drains the mail queue into a Sender
type Consumer struct {
	sender Sender
	log    *logrus.Entry
}

func NewConsumer(sender Sender) *Consumer {
	return &Consumer{sender: sender, log: logrus.WithField("component", "mail-consumer")}
}

// Handle sends one queued message. Malformed bodies are reported as
// validation errors so they are dropped rather than requeued.
func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	var m Message
	if err := json.Unmarshal(body, &m); err != nil {
		return models.NewValidationError("body", err.Error())
	}
	if m.To == "" {
		return models.NewValidationError("to", "is required")
	}
	return c.sender.Send(ctx, m)
}

// Run consumes queue on ch until ctx is done or the channel closes
func (c *Consumer) Run(ctx context.Context, ch *amqp.Channel, queue string) error {
	if queue == "" {
		queue = DefaultQueue
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}
	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", queue, err)
	}
	c.log.WithField("queue", queue).Info("mail consumer started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			c.settle(ctx, d)
		}
	}
}

func (c *Consumer) settle(ctx context.Context, d amqp.Delivery) {
	err := c.Handle(ctx, d.Body)
	switch {
	case err == nil:
		d.Ack(false)
	case models.IsValidation(err):
		c.log.WithError(err).WithField("messageId", d.MessageId).Warn("dropping undeliverable mail")
		d.Nack(false, false)
	default:
		c.log.WithError(err).WithField("messageId", d.MessageId).Warn("mail failed, requeueing")
		d.Nack(false, true)
	}
}
