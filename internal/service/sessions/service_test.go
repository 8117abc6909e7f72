package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/sessionstore"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	"github.com/m04kA/SMC-SalonBooking/internal/service/sessions/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var (
	today  = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	client = domain.Actor{ID: 100, Role: domain.RoleClient}
)

type fakeSlotRepo struct {
	byDate map[string][]*domain.Slot
	err    error
	calls  int
}

func (r *fakeSlotRepo) GetByStylistAndDate(_ context.Context, _ int64, date time.Time) ([]*domain.Slot, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.Slot, 0)
	for _, s := range r.byDate[date.Format(domain.DateFormat)] {
		out = append(out, s.Clone())
	}
	return out, nil
}

type fakeCatalog struct{}

func (fakeCatalog) GetService(_ context.Context, id int64) (*domain.Service, error) {
	switch id {
	case 1:
		return &domain.Service{ID: 1, Name: "Corte", Price: 20, SlotSpan: 2}, nil
	case 2:
		return &domain.Service{ID: 2, Name: "Peinado", Price: 10, SlotSpan: 1}, nil
	default:
		return nil, catalogRepo.ErrServiceNotFound
	}
}

func (fakeCatalog) GetStylist(_ context.Context, id int64) (*domain.Stylist, error) {
	if id != 7 {
		return nil, catalogRepo.ErrStylistNotFound
	}
	return &domain.Stylist{ID: 7, SalonID: 1, Name: "Lucia", SalonName: "Centro"}, nil
}

type recordingMetrics struct {
	reasons []string
}

func (m *recordingMetrics) RecordSelectionRejection(reason string) {
	m.reasons = append(m.reasons, reason)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func slot(id int64, date time.Time, start, end types.TimeString) *domain.Slot {
	return &domain.Slot{ID: id, StylistID: 7, Date: date, StartTime: start, EndTime: end, IsOffered: true}
}

type fixture struct {
	svc     *Service
	repo    *fakeSlotRepo
	store   *sessionstore.MemoryStore
	metrics *recordingMetrics
}

func newFixture() *fixture {
	taken := slot(4, today, "10:30", "11:00")
	taken.AppointmentID = ptr.Ptr(uuid.New())
	taken.ClientID = ptr.Ptr(int64(200))
	taken.ServiceID = ptr.Ptr(int64(1))

	tomorrow := today.AddDate(0, 0, 1)
	repo := &fakeSlotRepo{byDate: map[string][]*domain.Slot{
		today.Format(domain.DateFormat): {
			slot(1, today, "09:00", "09:30"),
			slot(2, today, "09:30", "10:00"),
			slot(3, today, "10:00", "10:30"),
			taken,
		},
		tomorrow.Format(domain.DateFormat): {
			slot(10, tomorrow, "09:00", "09:30"),
		},
	}}

	store := sessionstore.NewMemoryStore(time.Hour, time.Minute)
	metrics := &recordingMetrics{}
	svc := NewService(repo, fakeCatalog{}, store, scheduling.GenerateGrid("09:00", "11:00", 30), metrics, nopLogger{})
	svc.timeProvider = fixedTime{now: today.Add(8 * time.Hour)}

	return &fixture{svc: svc, repo: repo, store: store, metrics: metrics}
}

func (f *fixture) open(t *testing.T) *models.SessionView {
	t.Helper()
	view, err := f.svc.Open(context.Background(), &models.OpenSessionRequest{
		Actor: client, StylistID: 7, ServiceID: 1, Date: today,
	})
	require.NoError(t, err)
	return view
}

func TestOpen(t *testing.T) {
	f := newFixture()

	view := f.open(t)

	assert.NotEmpty(t, view.SessionID)
	assert.Equal(t, "2026-03-10", view.Date)
	assert.Equal(t, 2, view.SlotSpan)
	assert.False(t, view.LoadFailed)
	assert.Nil(t, view.Selection)
	require.Len(t, view.Slots, 4)
	assert.Equal(t, "offered", view.Slots[0].State)
	assert.True(t, view.Slots[0].IsValidBlockStart)
	assert.True(t, view.Slots[1].IsValidBlockStart)
	assert.False(t, view.Slots[2].IsValidBlockStart)
	assert.Equal(t, "booked_by_other", view.Slots[3].State)
}

func TestOpen_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     *models.OpenSessionRequest
		wantErr error
	}{
		{
			name:    "employee",
			req:     &models.OpenSessionRequest{Actor: domain.Actor{ID: 7, Role: domain.RoleEmployee}, StylistID: 7, ServiceID: 1, Date: today},
			wantErr: ErrNotClient,
		},
		{
			name:    "past date",
			req:     &models.OpenSessionRequest{Actor: client, StylistID: 7, ServiceID: 1, Date: today.AddDate(0, 0, -1)},
			wantErr: ErrDateInPast,
		},
		{
			name:    "unknown service",
			req:     &models.OpenSessionRequest{Actor: client, StylistID: 7, ServiceID: 9, Date: today},
			wantErr: ErrServiceNotFound,
		},
		{
			name:    "unknown stylist",
			req:     &models.OpenSessionRequest{Actor: client, StylistID: 8, ServiceID: 1, Date: today},
			wantErr: ErrStylistNotFound,
		},
		{
			name:    "missing fields",
			req:     &models.OpenSessionRequest{Actor: client},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newFixture().svc.Open(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOpen_LoadFailure(t *testing.T) {
	f := newFixture()
	f.repo.err = errors.New("connection refused")

	view := f.open(t)

	assert.True(t, view.LoadFailed)
	for _, s := range view.Slots {
		assert.Equal(t, "undefined", s.State)
		assert.False(t, s.IsValidBlockStart)
	}
}

func TestSelect_AndDeselect(t *testing.T) {
	f := newFixture()
	view := f.open(t)
	id := uuid.MustParse(view.SessionID)

	view, err := f.svc.Select(context.Background(), client, id, "09:00")
	require.NoError(t, err)
	require.NotNil(t, view.Selection)
	assert.Equal(t, []int64{1, 2}, view.Selection.SlotIDs)
	assert.Equal(t, "selected", view.Slots[0].State)
	assert.Equal(t, "selected", view.Slots[1].State)

	view, err = f.svc.Select(context.Background(), client, id, "09:00")
	require.NoError(t, err)
	assert.Nil(t, view.Selection)
	assert.Equal(t, "offered", view.Slots[0].State)
}

func TestSelect_RejectionKeepsSelection(t *testing.T) {
	f := newFixture()
	id := uuid.MustParse(f.open(t).SessionID)
	_, err := f.svc.Select(context.Background(), client, id, "09:00")
	require.NoError(t, err)

	_, err = f.svc.Select(context.Background(), client, id, "10:30")
	assert.ErrorIs(t, err, ErrAlreadyBooked)

	_, err = f.svc.Select(context.Background(), client, id, "10:00")
	assert.ErrorIs(t, err, ErrInsufficientCapacity)

	view, err := f.svc.Get(context.Background(), client, id)
	require.NoError(t, err)
	require.NotNil(t, view.Selection)
	assert.Equal(t, []int64{1, 2}, view.Selection.SlotIDs)
	assert.Equal(t, []string{"already_booked", "insufficient_capacity"}, f.metrics.reasons)
}

func TestSelect_Pending(t *testing.T) {
	f := newFixture()
	id := uuid.MustParse(f.open(t).SessionID)
	_, err := f.store.AcquirePending(context.Background(), id)
	require.NoError(t, err)

	_, err = f.svc.Select(context.Background(), client, id, "09:00")
	assert.ErrorIs(t, err, ErrOperationPending)

	_, err = f.svc.Refresh(context.Background(), client, id)
	assert.ErrorIs(t, err, ErrOperationPending)

	view, err := f.svc.Get(context.Background(), client, id)
	require.NoError(t, err)
	assert.True(t, view.Pending)
}

// closeOnAcquireStore закрывает сессию в момент установки флага
type closeOnAcquireStore struct {
	*sessionstore.MemoryStore
}

func (s *closeOnAcquireStore) AcquirePending(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := s.MemoryStore.Delete(ctx, id); err != nil {
		return false, err
	}
	return s.MemoryStore.AcquirePending(ctx, id)
}

func TestSelect_HoldsPendingFlag(t *testing.T) {
	f := newFixture()
	id := uuid.MustParse(f.open(t).SessionID)

	view, err := f.svc.Select(context.Background(), client, id, "09:00")
	require.NoError(t, err)
	assert.False(t, view.Pending)

	pending, err := f.store.IsPending(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, pending)

	_, err = f.store.AcquirePending(context.Background(), id)
	require.NoError(t, err)

	_, err = f.svc.ClearSelection(context.Background(), client, id)
	assert.ErrorIs(t, err, ErrOperationPending)

	_, err = f.svc.Update(context.Background(), client, id, &models.UpdateSessionRequest{ServiceID: ptr.Ptr(int64(2))})
	assert.ErrorIs(t, err, ErrOperationPending)

	session, err := f.store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, session.SelectedSlotIDs)
	assert.Equal(t, int64(1), session.ServiceID)
}

func TestSelect_ClosedSessionIsNotRestored(t *testing.T) {
	f := newFixture()
	id := uuid.MustParse(f.open(t).SessionID)
	f.svc.store = &closeOnAcquireStore{MemoryStore: f.store}

	_, err := f.svc.Select(context.Background(), client, id, "09:00")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.Equal(t, 0, f.store.Len())
	pending, err := f.store.IsPending(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, pending)
}

func TestSessionAccess(t *testing.T) {
	f := newFixture()
	id := uuid.MustParse(f.open(t).SessionID)

	_, err := f.svc.Get(context.Background(), domain.Actor{ID: 101, Role: domain.RoleClient}, id)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.Get(context.Background(), client, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestClearSelection(t *testing.T) {
	f := newFixture()
	id := uuid.MustParse(f.open(t).SessionID)
	_, err := f.svc.Select(context.Background(), client, id, "09:00")
	require.NoError(t, err)

	view, err := f.svc.ClearSelection(context.Background(), client, id)

	require.NoError(t, err)
	assert.Nil(t, view.Selection)
	for _, s := range view.Slots {
		assert.NotEqual(t, "selected", s.State)
	}
}

func TestUpdate_ChangingServiceOrDateClearsSelection(t *testing.T) {
	f := newFixture()
	id := uuid.MustParse(f.open(t).SessionID)
	_, err := f.svc.Select(context.Background(), client, id, "09:00")
	require.NoError(t, err)

	view, err := f.svc.Update(context.Background(), client, id, &models.UpdateSessionRequest{ServiceID: ptr.Ptr(int64(2))})
	require.NoError(t, err)
	assert.Nil(t, view.Selection)
	assert.Equal(t, 1, view.SlotSpan)
	assert.True(t, view.Slots[2].IsValidBlockStart)

	tomorrow := today.AddDate(0, 0, 1)
	view, err = f.svc.Update(context.Background(), client, id, &models.UpdateSessionRequest{Date: &tomorrow})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-11", view.Date)
	assert.Equal(t, "offered", view.Slots[0].State)
	assert.Equal(t, "undefined", view.Slots[1].State)

	session, err := f.store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), session.Generation)
}

func TestUpdate_NoChangeKeepsSelection(t *testing.T) {
	f := newFixture()
	id := uuid.MustParse(f.open(t).SessionID)
	_, err := f.svc.Select(context.Background(), client, id, "09:00")
	require.NoError(t, err)

	view, err := f.svc.Update(context.Background(), client, id, &models.UpdateSessionRequest{ServiceID: ptr.Ptr(int64(1))})

	require.NoError(t, err)
	require.NotNil(t, view.Selection)
}

func TestRefresh_DropsSelectionTakenByOthers(t *testing.T) {
	f := newFixture()
	id := uuid.MustParse(f.open(t).SessionID)
	_, err := f.svc.Select(context.Background(), client, id, "09:00")
	require.NoError(t, err)

	// другой клиент занял 09:30
	day := f.repo.byDate[today.Format(domain.DateFormat)]
	day[1].AppointmentID = ptr.Ptr(uuid.New())
	day[1].ClientID = ptr.Ptr(int64(300))
	day[1].ServiceID = ptr.Ptr(int64(2))

	view, err := f.svc.Refresh(context.Background(), client, id)

	require.NoError(t, err)
	assert.Nil(t, view.Selection)
	assert.Equal(t, "booked_by_other", view.Slots[1].State)
}

func TestRefresh_KeepsValidSelection(t *testing.T) {
	f := newFixture()
	id := uuid.MustParse(f.open(t).SessionID)
	_, err := f.svc.Select(context.Background(), client, id, "09:00")
	require.NoError(t, err)

	view, err := f.svc.Refresh(context.Background(), client, id)

	require.NoError(t, err)
	require.NotNil(t, view.Selection)
	assert.Equal(t, 2, f.repo.calls)
}

func TestClose(t *testing.T) {
	f := newFixture()
	id := uuid.MustParse(f.open(t).SessionID)

	require.NoError(t, f.svc.Close(context.Background(), client, id))

	_, err := f.svc.Get(context.Background(), client, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
