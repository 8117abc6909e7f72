package reservations

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	slotRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/slot"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var day = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

type fakeSlotRepo struct {
	slots      map[int64]*domain.Slot
	reserveCap int64 // ограничивает число обновленных строк, 0 = без ограничения
}

func newFakeSlotRepo(slots ...*domain.Slot) *fakeSlotRepo {
	r := &fakeSlotRepo{slots: make(map[int64]*domain.Slot)}
	for _, s := range slots {
		r.slots[s.ID] = s
	}
	return r
}

func (r *fakeSlotRepo) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	s, ok := r.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return s.Clone(), nil
}

func (r *fakeSlotRepo) GetByIDs(_ context.Context, ids []int64) ([]*domain.Slot, error) {
	out := make([]*domain.Slot, 0)
	for _, id := range ids {
		if s, ok := r.slots[id]; ok {
			out = append(out, s.Clone())
		}
	}
	sortSlots(out)
	return out, nil
}

func (r *fakeSlotRepo) GetByAppointmentID(_ context.Context, appointmentID uuid.UUID) ([]*domain.Slot, error) {
	out := make([]*domain.Slot, 0)
	for _, s := range r.slots {
		if s.AppointmentID != nil && *s.AppointmentID == appointmentID {
			out = append(out, s.Clone())
		}
	}
	sortSlots(out)
	return out, nil
}

func (r *fakeSlotRepo) Reserve(_ context.Context, ids []int64, appointmentID uuid.UUID, clientID, serviceID int64) (int64, error) {
	var n int64
	for _, id := range ids {
		if r.reserveCap > 0 && n >= r.reserveCap {
			break
		}
		s := r.slots[id]
		if s == nil || !s.IsBookable() {
			continue
		}
		s.AppointmentID = ptr.Ptr(appointmentID)
		s.ClientID = ptr.Ptr(clientID)
		s.ServiceID = ptr.Ptr(serviceID)
		n++
	}
	return n, nil
}

func (r *fakeSlotRepo) Release(_ context.Context, appointmentID uuid.UUID) (int64, error) {
	var n int64
	for _, s := range r.slots {
		if s.AppointmentID != nil && *s.AppointmentID == appointmentID {
			s.AppointmentID = nil
			s.ClientID = nil
			s.ServiceID = nil
			s.IsOffered = true
			n++
		}
	}
	return n, nil
}

func sortSlots(slots []*domain.Slot) {
	sort.Slice(slots, func(i, j int) bool { return slots[i].StartTime.IsBefore(slots[j].StartTime) })
}

type fakeCatalog struct {
	services map[int64]*domain.Service
}

func (c *fakeCatalog) GetService(_ context.Context, id int64) (*domain.Service, error) {
	s, ok := c.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return s, nil
}

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func slot(id int64, start, end types.TimeString) *domain.Slot {
	return &domain.Slot{ID: id, StylistID: 7, Date: day, StartTime: start, EndTime: end, IsOffered: true}
}

func bookedSlot(id int64, start, end types.TimeString, clientID int64, appointmentID uuid.UUID) *domain.Slot {
	s := slot(id, start, end)
	s.AppointmentID = ptr.Ptr(appointmentID)
	s.ClientID = ptr.Ptr(clientID)
	s.ServiceID = ptr.Ptr(int64(1))
	return s
}

func newService(repo *fakeSlotRepo) (*Service, *fakeTxManager) {
	catalog := &fakeCatalog{services: map[int64]*domain.Service{
		1: {ID: 1, Name: "Corte", Price: 20, SlotSpan: 2},
		2: {ID: 2, Name: "Color", Price: 45, SlotSpan: 3},
	}}
	tx := &fakeTxManager{}
	return NewService(repo, catalog, tx, nopLogger{}), tx
}

func TestCommitReservation_Success(t *testing.T) {
	repo := newFakeSlotRepo(slot(1, "09:00", "09:30"), slot(2, "09:30", "10:00"))
	svc, tx := newService(repo)

	booked, err := svc.CommitReservation(context.Background(), domain.ReservationRequest{
		SlotIDs: []int64{2, 1}, ClientID: 100, ServiceID: 1, StylistID: 7, Date: day,
	})

	require.NoError(t, err)
	require.Len(t, booked, 2)
	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, *booked[0].AppointmentID, *booked[1].AppointmentID)
	for _, s := range booked {
		assert.True(t, s.IsBookedBy(100))
		assert.Equal(t, int64(1), *s.ServiceID)
	}
}

func TestCommitReservation_SlotTaken(t *testing.T) {
	repo := newFakeSlotRepo(
		slot(1, "09:00", "09:30"),
		bookedSlot(2, "09:30", "10:00", 200, uuid.New()),
	)
	svc, _ := newService(repo)

	_, err := svc.CommitReservation(context.Background(), domain.ReservationRequest{
		SlotIDs: []int64{1, 2}, ClientID: 100, ServiceID: 1,
	})

	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Nil(t, repo.slots[1].AppointmentID, "no slot of the block may be booked")
}

func TestCommitReservation_BlockedSlot(t *testing.T) {
	closed := slot(2, "09:30", "10:00")
	closed.IsOffered = false
	svc, _ := newService(newFakeSlotRepo(slot(1, "09:00", "09:30"), closed))

	_, err := svc.CommitReservation(context.Background(), domain.ReservationRequest{
		SlotIDs: []int64{1, 2}, ClientID: 100, ServiceID: 1,
	})

	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestCommitReservation_InvalidBlocks(t *testing.T) {
	otherStylist := slot(3, "10:00", "10:30")
	otherStylist.StylistID = 8

	tests := []struct {
		name    string
		req     domain.ReservationRequest
		wantErr error
	}{
		{
			name:    "wrong span",
			req:     domain.ReservationRequest{SlotIDs: []int64{1}, ClientID: 100, ServiceID: 1},
			wantErr: ErrInvalidBlock,
		},
		{
			name:    "gap",
			req:     domain.ReservationRequest{SlotIDs: []int64{1, 4}, ClientID: 100, ServiceID: 1},
			wantErr: ErrInvalidBlock,
		},
		{
			name:    "different stylists",
			req:     domain.ReservationRequest{SlotIDs: []int64{2, 3}, ClientID: 100, ServiceID: 1},
			wantErr: ErrInvalidBlock,
		},
		{
			name:    "foreign stylist requested",
			req:     domain.ReservationRequest{SlotIDs: []int64{1, 2}, ClientID: 100, ServiceID: 1, StylistID: 9},
			wantErr: ErrInvalidBlock,
		},
		{
			name:    "missing slot",
			req:     domain.ReservationRequest{SlotIDs: []int64{1, 99}, ClientID: 100, ServiceID: 1},
			wantErr: ErrSlotNotFound,
		},
		{
			name:    "unknown service",
			req:     domain.ReservationRequest{SlotIDs: []int64{1, 2}, ClientID: 100, ServiceID: 42},
			wantErr: ErrServiceNotFound,
		},
		{
			name:    "duplicate ids",
			req:     domain.ReservationRequest{SlotIDs: []int64{1, 1}, ClientID: 100, ServiceID: 1},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "empty block",
			req:     domain.ReservationRequest{ClientID: 100, ServiceID: 1},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeSlotRepo(
				slot(1, "09:00", "09:30"),
				slot(2, "09:30", "10:00"),
				otherStylist,
				slot(4, "10:30", "11:00"),
			)
			svc, _ := newService(repo)

			_, err := svc.CommitReservation(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.wantErr)
			for _, s := range repo.slots {
				assert.False(t, s.IsBooked())
			}
		})
	}
}

func TestCommitReservation_PartialUpdateIsRejected(t *testing.T) {
	repo := newFakeSlotRepo(slot(1, "09:00", "09:30"), slot(2, "09:30", "10:00"))
	repo.reserveCap = 1
	svc, _ := newService(repo)

	_, err := svc.CommitReservation(context.Background(), domain.ReservationRequest{
		SlotIDs: []int64{1, 2}, ClientID: 100, ServiceID: 1,
	})

	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestCommitCancellation_ReleasesWholeAppointment(t *testing.T) {
	appointment := uuid.New()
	other := uuid.New()
	repo := newFakeSlotRepo(
		bookedSlot(1, "09:00", "09:30", 100, appointment),
		bookedSlot(2, "09:30", "10:00", 100, appointment),
		bookedSlot(3, "10:00", "10:30", 100, appointment),
		bookedSlot(4, "10:30", "11:00", 100, other),
	)
	svc, _ := newService(repo)

	released, err := svc.CommitCancellation(context.Background(), domain.CancellationRequest{
		SlotID: 2,
		Actor:  domain.Actor{ID: 100, Role: domain.RoleClient},
	})

	require.NoError(t, err)
	require.Len(t, released, 3)
	for _, s := range released {
		assert.False(t, s.IsBooked())
		assert.True(t, s.IsOffered)
		assert.Nil(t, s.ClientID)
		assert.Nil(t, s.ServiceID)
	}
	assert.True(t, repo.slots[4].IsBooked(), "other appointment stays booked")
}

func TestCommitCancellation_Rejections(t *testing.T) {
	appointment := uuid.New()

	tests := []struct {
		name    string
		slotID  int64
		actor   domain.Actor
		wantErr error
	}{
		{name: "foreign client", slotID: 1, actor: domain.Actor{ID: 555, Role: domain.RoleClient}, wantErr: ErrAccessDenied},
		{name: "foreign employee", slotID: 1, actor: domain.Actor{ID: 8, Role: domain.RoleEmployee}, wantErr: ErrAccessDenied},
		{name: "free slot", slotID: 2, actor: domain.Actor{ID: 100, Role: domain.RoleClient}, wantErr: ErrNotBooked},
		{name: "missing slot", slotID: 99, actor: domain.Actor{ID: 100, Role: domain.RoleClient}, wantErr: ErrSlotNotFound},
		{name: "no actor", slotID: 1, actor: domain.Actor{}, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeSlotRepo(bookedSlot(1, "09:00", "09:30", 100, appointment), slot(2, "09:30", "10:00"))
			svc, _ := newService(repo)

			_, err := svc.CommitCancellation(context.Background(), domain.CancellationRequest{SlotID: tt.slotID, Actor: tt.actor})

			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, repo.slots[1].IsBooked())
		})
	}
}

func TestCommitCancellation_StylistAndAdmin(t *testing.T) {
	for _, actor := range []domain.Actor{
		{ID: 7, Role: domain.RoleEmployee},
		{ID: 1, Role: domain.RoleAdmin},
	} {
		repo := newFakeSlotRepo(bookedSlot(1, "09:00", "09:30", 100, uuid.New()))
		svc, _ := newService(repo)

		released, err := svc.CommitCancellation(context.Background(), domain.CancellationRequest{SlotID: 1, Actor: actor})

		require.NoError(t, err)
		assert.Len(t, released, 1)
	}
}
