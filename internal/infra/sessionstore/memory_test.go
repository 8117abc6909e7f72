package sessionstore

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

func newSession() *domain.Session {
	return &domain.Session{
		ID:              uuid.New(),
		Actor:           domain.Actor{ID: 1, Role: domain.RoleClient},
		StylistID:       7,
		Date:            time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		ServiceID:       3,
		SelectedStart:   "09:00",
		SelectedSlotIDs: []int64{1, 2},
		Slots:           []*domain.Slot{{ID: 1, StartTime: "09:00", EndTime: "09:30", IsOffered: true}},
	}
}

func TestMemoryStore_SaveGetIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour, time.Minute)
	session := newSession()

	require.NoError(t, store.Save(ctx, session))
	session.SelectedSlotIDs[0] = 99
	session.Slots[0].IsOffered = false

	got, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, got.SelectedSlotIDs)
	assert.True(t, got.Slots[0].IsOffered)

	got.SelectedSlotIDs = nil
	again, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, again.SelectedSlotIDs, 2)
}

func TestMemoryStore_NotFound(t *testing.T) {
	store := NewMemoryStore(time.Hour, time.Minute)

	_, err := store.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStore_ReplaceDoesNotRestoreDeleted(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour, time.Minute)
	session := newSession()

	err := store.Replace(ctx, session)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, store.Save(ctx, session))
	session.ClearSelection()
	require.NoError(t, store.Replace(ctx, session))

	got, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, got.SelectedSlotIDs)

	require.NoError(t, store.Delete(ctx, session.ID))
	err = store.Replace(ctx, session)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = store.Get(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_Pending(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour, time.Minute)
	id := uuid.New()

	ok, err := store.AcquirePending(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.AcquirePending(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	pending, err := store.IsPending(ctx, id)
	require.NoError(t, err)
	assert.True(t, pending)

	require.NoError(t, store.ReleasePending(ctx, id))
	pending, err = store.IsPending(ctx, id)
	require.NoError(t, err)
	assert.False(t, pending)
}

func TestMemoryStore_EvictExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(10*time.Minute, time.Minute)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	stale := newSession()
	fresh := newSession()
	require.NoError(t, store.Save(ctx, stale))
	_, err := store.AcquirePending(ctx, stale.ID)
	require.NoError(t, err)

	now = now.Add(8 * time.Minute)
	require.NoError(t, store.Save(ctx, fresh))

	now = now.Add(5 * time.Minute)
	_, err = store.Get(ctx, stale.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.Equal(t, 1, store.EvictExpired())
	assert.Equal(t, 1, store.Len())

	pending, err := store.IsPending(ctx, stale.ID)
	require.NoError(t, err)
	assert.False(t, pending)
}

func TestStartJanitor_InvalidSchedule(t *testing.T) {
	_, err := StartJanitor(NewMemoryStore(time.Hour, time.Minute), "not a schedule", nopLogger{})
	assert.ErrorIs(t, err, ErrStore)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
