package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Barathimeena/AirRoute-Hub/internal/kvstore"
	"github.com/Barathimeena/AirRoute-Hub/internal/models"
	"github.com/Barathimeena/AirRoute-Hub/internal/repository"
	"github.com/go-redis/redismock/v9"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, n models.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func newCenter(t *testing.T, pubs ...Publisher) (*Center, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	repo := repository.NewNotificationRepository(kvstore.NewMemoryStore())
	return NewCenter(repo, clock, pubs...), clock
}

func TestCenterAddStampsAndPublishes(t *testing.T) {
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.UserID == "u1" && n.ID != ""
	})).Return(nil).Once()
	center, clock := newCenter(t, pub)
	ctx := context.Background()

	n, err := center.Add(ctx, models.Notification{UserID: "u1", Title: "Hub Secured", Message: "confirmed"})
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, clock.Now(), n.CreatedAt)
	assert.Equal(t, models.NotificationInfo, n.Type)
	assert.False(t, n.Read)

	list, err := center.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, n.ID, list[0].ID)
	pub.AssertExpectations(t)
}

func TestCenterPublishFailureIsNotFatal(t *testing.T) {
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("offline"))
	center, _ := newCenter(t, pub)

	_, err := center.Add(context.Background(), models.Notification{UserID: "u1", Title: "x"})
	assert.NoError(t, err)
}

func TestCenterValidation(t *testing.T) {
	center, _ := newCenter(t)
	ctx := context.Background()

	_, err := center.Add(ctx, models.Notification{Title: "x"})
	assert.True(t, models.IsValidation(err))
	_, err = center.Add(ctx, models.Notification{UserID: "u1"})
	assert.True(t, models.IsValidation(err))
	_, err = center.List(ctx, "")
	assert.True(t, models.IsValidation(err))
}

func TestCenterMarkReadAndDismiss(t *testing.T) {
	center, clock := newCenter(t)
	ctx := context.Background()

	first, err := center.Add(ctx, models.Notification{UserID: "u1", Title: "first"})
	require.NoError(t, err)
	clock.Advance(time.Minute)
	second, err := center.Add(ctx, models.Notification{UserID: "u1", Title: "second", Type: models.NotificationAlert})
	require.NoError(t, err)

	read, err := center.MarkRead(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, read.Read)

	require.NoError(t, center.Dismiss(ctx, second.ID))
	list, err := center.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)

	assert.ErrorIs(t, center.Dismiss(ctx, second.ID), models.ErrNotFound)
}

func TestRedisPublisher(t *testing.T) {
	db, rmock := redismock.NewClientMock()
	pub := NewRedisPublisher(db, "")

	n := models.Notification{ID: "n1", UserID: "u1", Type: models.NotificationSuccess, Title: "Hub Secured"}
	payload, err := json.Marshal(n)
	require.NoError(t, err)

	rmock.ExpectPublish(DefaultChannel, string(payload)).SetVal(1)
	require.NoError(t, pub.Publish(context.Background(), n))

	rmock.ExpectPublish(DefaultChannel, string(payload)).SetErr(errors.New("down"))
	err = pub.Publish(context.Background(), n)
	var ext *models.ExternalServiceError
	assert.ErrorAs(t, err, &ext)

	assert.NoError(t, rmock.ExpectationsWereMet())
}
