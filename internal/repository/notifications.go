package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/Barathimeena/AirRoute-Hub/internal/kvstore"
	"github.com/Barathimeena/AirRoute-Hub/internal/models"
)

const (
	userNotificationsKey = "notifications:"
	notificationOwnerKey = "notification-owner:"
)

// NotificationRepository keeps each user's notifications newest first and
// maps notification ids back to their owner
type NotificationRepository struct {
	mu sync.Mutex
	kv kvstore.Store
}

func NewNotificationRepository(kv kvstore.Store) *NotificationRepository {
	return &NotificationRepository{kv: kv}
}

func (r *NotificationRepository) Append(ctx context.Context, n models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list, err := r.load(ctx, n.UserID)
	if err != nil {
		return err
	}
	if err := kvstore.SetJSON(ctx, r.kv, notificationOwnerKey+n.ID, n.UserID); err != nil {
		return err
	}
	return kvstore.SetJSON(ctx, r.kv, userNotificationsKey+n.UserID, append([]models.Notification{n}, list...))
}

func (r *NotificationRepository) List(ctx context.Context, userID string) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx, userID)
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) (models.Notification, error) {
	var out models.Notification
	err := r.modify(ctx, id, func(list []models.Notification, i int) []models.Notification {
		list[i].Read = true
		out = list[i]
		return list
	})
	return out, err
}

func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	return r.modify(ctx, id, func(list []models.Notification, i int) []models.Notification {
		return append(list[:i], list[i+1:]...)
	})
}

func (r *NotificationRepository) modify(ctx context.Context, id string, fn func([]models.Notification, int) []models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var userID string
	ok, err := kvstore.GetJSON(ctx, r.kv, notificationOwnerKey+id, &userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("notification %s: %w", id, models.ErrNotFound)
	}
	list, err := r.load(ctx, userID)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == id {
			return kvstore.SetJSON(ctx, r.kv, userNotificationsKey+userID, fn(list, i))
		}
	}
	return fmt.Errorf("notification %s: %w", id, models.ErrNotFound)
}

func (r *NotificationRepository) load(ctx context.Context, userID string) ([]models.Notification, error) {
	list := make([]models.Notification, 0)
	if _, err := kvstore.GetJSON(ctx, r.kv, userNotificationsKey+userID, &list); err != nil {
		return nil, err
	}
	return list, nil
}
