// Package mailer sends reminder e-mails, either directly over SMTP or
// through a RabbitMQ queue drained by the worker.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"
)

// Message is one plain-text e-mail
type Message struct {
	To      string `json:"to"`
	ToName  string `json:"toName"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Sender delivers a message
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// ReminderMessage builds the departure reminder for e with the departure
// shown in loc
func ReminderMessage(e models.ReminderEntry, loc *time.Location) Message {
	if loc == nil {
		loc = time.UTC
	}
	return Message{
		To:      e.UserEmail,
		ToName:  e.UserName,
		Subject: fmt.Sprintf("Reminder: Flight %s in ~24 hours", e.FlightID),
		Body: fmt.Sprintf("Hi %s,\n\nThis is a reminder that your flight (%s) departs on %s.",
			e.UserName, e.FlightID, e.DepartureTimestamp.In(loc).Format("Mon, 02 Jan 2006 15:04 MST")),
	}
}

// SMTPConfig holds the outgoing mail server settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// SMTPSender sends mail with go-mail
type SMTPSender struct {
	client   *mail.Client
	from     string
	fromName string
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	port := cfg.Port
	if port == 0 {
		port = 587
	}
	opts := []mail.Option{mail.WithPort(port)}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	c, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return &SMTPSender{client: c, from: cfg.From, fromName: cfg.FromName}, nil
}

func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.AddToFormat(m.ToName, m.To); err != nil {
		return models.NewValidationError("userEmail", err.Error())
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Body)
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return &models.ExternalServiceError{Service: "smtp", Err: err}
	}
	return nil
}

// LogSender logs messages instead of sending them
type LogSender struct {
	log *logrus.Entry
}

func NewLogSender() *LogSender {
	return &LogSender{log: logrus.WithField("component", "mailer")}
}

func (s *LogSender) Send(ctx context.Context, m Message) error {
	s.log.WithFields(logrus.Fields{"to": m.To, "subject": m.Subject}).Info("e-mail not sent, smtp disabled")
	return nil
}

// Direct dispatches reminders synchronously through a Sender
type Direct struct {
	sender Sender
	loc    *time.Location
}

func NewDirect(sender Sender, loc *time.Location) *Direct {
	return &Direct{sender: sender, loc: loc}
}

func (d *Direct) DispatchReminder(ctx context.Context, e models.ReminderEntry) error {
	return d.sender.Send(ctx, ReminderMessage(e, d.loc))
}
