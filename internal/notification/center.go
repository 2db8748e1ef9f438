// Package notification keeps the per-user log of alerts and fans new
// entries out to live subscribers.
package notification

import (
	"context"
	"fmt"

	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// Repository persists notifications. List returns newest first.
type Repository interface {
	Append(ctx context.Context, n models.Notification) error
	List(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) (models.Notification, error)
	Delete(ctx context.Context, id string) error
}

// Publisher pushes a stored notification to live consumers
type Publisher interface {
	Publish(ctx context.Context, n models.Notification) error
}

// PublisherFunc adapts a function to Publisher
type PublisherFunc func(ctx context.Context, n models.Notification) error

func (f PublisherFunc) Publish(ctx context.Context, n models.Notification) error {
	return f(ctx, n)
}

// Center is the notification log used by the booking flow and the dashboard
type Center struct {
	repo       Repository
	clock      clockwork.Clock
	publishers []Publisher
	log        *logrus.Entry
}

func NewCenter(repo Repository, clock clockwork.Clock, publishers ...Publisher) *Center {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Center{
		repo:       repo,
		clock:      clock,
		publishers: publishers,
		log:        logrus.WithField("component", "notifications"),
	}
}

// Subscribe adds a live publisher after construction
func (c *Center) Subscribe(p Publisher) {
	c.publishers = append(c.publishers, p)
}

// Add stamps n with an id and creation time, stores it and publishes it.
// Publishing is best effort.
func (c *Center) Add(ctx context.Context, n models.Notification) (models.Notification, error) {
	if n.UserID == "" {
		return models.Notification{}, models.NewValidationError("userId", "is required")
	}
	if n.Title == "" {
		return models.Notification{}, models.NewValidationError("title", "is required")
	}
	if n.Type == "" {
		n.Type = models.NotificationInfo
	}
	n.ID = uuid.NewString()
	n.CreatedAt = c.clock.Now()
	n.Read = false

	if err := c.repo.Append(ctx, n); err != nil {
		return models.Notification{}, fmt.Errorf("failed to store notification: %w", err)
	}

	for _, p := range c.publishers {
		if err := p.Publish(ctx, n); err != nil {
			c.log.WithError(err).WithField("notificationId", n.ID).Warn("failed to publish notification")
		}
	}
	return n, nil
}

func (c *Center) List(ctx context.Context, userID string) ([]models.Notification, error) {
	if userID == "" {
		return nil, models.NewValidationError("userId", "is required")
	}
	return c.repo.List(ctx, userID)
}

func (c *Center) MarkRead(ctx context.Context, id string) (models.Notification, error) {
	return c.repo.MarkRead(ctx, id)
}

func (c *Center) Dismiss(ctx context.Context, id string) error {
	return c.repo.Delete(ctx, id)
}
