package repository

import (
	"context"
	"sync"

	"github.com/Barathimeena/AirRoute-Hub/internal/kvstore"
	"github.com/Barathimeena/AirRoute-Hub/internal/models"
)

const (
	reminderKey        = "reminders"
	thresholdKeyPrefix = "threshold:"
)

// ReminderRepository keeps all reminder entries as one list
type ReminderRepository struct {
	mu sync.Mutex
	kv kvstore.Store
}

func NewReminderRepository(kv kvstore.Store) *ReminderRepository {
	return &ReminderRepository{kv: kv}
}

// Add appends e unless an entry for the same booking exists
func (r *ReminderRepository) Add(ctx context.Context, e models.ReminderEntry) (models.ReminderEntry, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries, err := r.load(ctx)
	if err != nil {
		return models.ReminderEntry{}, false, err
	}
	for _, existing := range entries {
		if existing.BookingID == e.BookingID {
			return existing, false, nil
		}
	}
	if err := kvstore.SetJSON(ctx, r.kv, reminderKey, append(entries, e)); err != nil {
		return models.ReminderEntry{}, false, err
	}
	return e, true, nil
}

func (r *ReminderRepository) List(ctx context.Context) ([]models.ReminderEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// Update applies fn to the entries with the given booking ids and writes
// the list back only when something changed
func (r *ReminderRepository) Update(ctx context.Context, ids []string, fn func(*models.ReminderEntry) bool) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	entries, err := r.load(ctx)
	if err != nil {
		return 0, err
	}
	changed := 0
	for i := range entries {
		if want[entries[i].BookingID] && fn(&entries[i]) {
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	if err := kvstore.SetJSON(ctx, r.kv, reminderKey, entries); err != nil {
		return 0, err
	}
	return changed, nil
}

func (r *ReminderRepository) load(ctx context.Context) ([]models.ReminderEntry, error) {
	entries := make([]models.ReminderEntry, 0)
	if _, err := kvstore.GetJSON(ctx, r.kv, reminderKey, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ThresholdRepository stores the index of the last threshold alert fired
// for each booking
type ThresholdRepository struct {
	kv kvstore.Store
}

func NewThresholdRepository(kv kvstore.Store) *ThresholdRepository {
	return &ThresholdRepository{kv: kv}
}

func (r *ThresholdRepository) LastFired(ctx context.Context, bookingID string) (int, error) {
	idx := -1
	if _, err := kvstore.GetJSON(ctx, r.kv, thresholdKeyPrefix+bookingID, &idx); err != nil {
		return -1, err
	}
	return idx, nil
}

func (r *ThresholdRepository) SetLastFired(ctx context.Context, bookingID string, index int) error {
	return kvstore.SetJSON(ctx, r.kv, thresholdKeyPrefix+bookingID, index)
}
