package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	slotRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/slot"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var (
	today    = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	employee = domain.Actor{ID: 7, Role: domain.RoleEmployee}
	admin    = domain.Actor{ID: 1, Role: domain.RoleAdmin}
)

type memorySlotRepo struct {
	slots  map[int64]*domain.Slot
	nextID int64
}

func newMemorySlotRepo() *memorySlotRepo {
	return &memorySlotRepo{slots: make(map[int64]*domain.Slot), nextID: 1}
}

func (r *memorySlotRepo) Create(_ context.Context, slot *domain.Slot) (*domain.Slot, error) {
	for _, s := range r.slots {
		if s.StylistID == slot.StylistID && domain.SameDate(s.Date, slot.Date) && s.StartTime == slot.StartTime {
			return nil, slotRepo.ErrSlotAlreadyExists
		}
	}
	slot.ID = r.nextID
	r.nextID++
	r.slots[slot.ID] = slot.Clone()
	return slot, nil
}

func (r *memorySlotRepo) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	slot, ok := r.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return slot.Clone(), nil
}

func (r *memorySlotRepo) GetByStylistAndDate(_ context.Context, stylistID int64, date time.Time) ([]*domain.Slot, error) {
	out := make([]*domain.Slot, 0)
	for id := int64(1); id < r.nextID; id++ {
		s, ok := r.slots[id]
		if ok && s.StylistID == stylistID && domain.SameDate(s.Date, date) {
			out = append(out, s.Clone())
		}
	}
	return out, nil
}

func (r *memorySlotRepo) SetOffered(_ context.Context, id int64, offered bool) error {
	slot, ok := r.slots[id]
	if !ok || slot.IsBooked() {
		return slotRepo.ErrSlotNotFound
	}
	slot.IsOffered = offered
	return nil
}

type fakeCatalog struct{}

func (fakeCatalog) GetStylist(_ context.Context, id int64) (*domain.Stylist, error) {
	if id != 7 && id != 8 {
		return nil, catalogRepo.ErrStylistNotFound
	}
	return &domain.Stylist{ID: id, SalonID: 1, Name: "Lucia", SalonName: "Centro"}, nil
}

type directTx struct{}

func (directTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(repo *memorySlotRepo) *Service {
	svc := NewService(repo, fakeCatalog{}, directTx{}, scheduling.GenerateGrid("09:00", "11:00", 30), nopLogger{})
	svc.timeProvider = fixedTime{now: today.Add(10 * time.Hour)}
	return svc
}

func TestOpenSlot(t *testing.T) {
	repo := newMemorySlotRepo()
	svc := newTestService(repo)

	slot, err := svc.OpenSlot(context.Background(), &models.OpenSlotRequest{
		Actor: employee, StylistID: 7, Date: today, StartTime: "09:30",
	})

	require.NoError(t, err)
	assert.Equal(t, "09:30", slot.StartTime)
	assert.Equal(t, "10:00", slot.EndTime)
	assert.True(t, slot.IsOffered)
	assert.False(t, slot.IsBooked)

	_, err = svc.OpenSlot(context.Background(), &models.OpenSlotRequest{
		Actor: employee, StylistID: 7, Date: today, StartTime: "09:30",
	})
	assert.ErrorIs(t, err, ErrSlotAlreadyExists)
}

func TestOpenSlot_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		req     *models.OpenSlotRequest
		wantErr error
	}{
		{
			name:    "not on grid",
			req:     &models.OpenSlotRequest{Actor: employee, StylistID: 7, Date: today, StartTime: "09:15"},
			wantErr: ErrNotOnGrid,
		},
		{
			name:    "past the grid",
			req:     &models.OpenSlotRequest{Actor: employee, StylistID: 7, Date: today, StartTime: "11:00"},
			wantErr: ErrNotOnGrid,
		},
		{
			name:    "foreign calendar",
			req:     &models.OpenSlotRequest{Actor: employee, StylistID: 8, Date: today, StartTime: "09:00"},
			wantErr: ErrAccessDenied,
		},
		{
			name:    "client",
			req:     &models.OpenSlotRequest{Actor: domain.Actor{ID: 7, Role: domain.RoleClient}, StylistID: 7, Date: today, StartTime: "09:00"},
			wantErr: ErrAccessDenied,
		},
		{
			name:    "unknown stylist",
			req:     &models.OpenSlotRequest{Actor: admin, StylistID: 9, Date: today, StartTime: "09:00"},
			wantErr: ErrStylistNotFound,
		},
		{
			name:    "past date",
			req:     &models.OpenSlotRequest{Actor: employee, StylistID: 7, Date: today.AddDate(0, 0, -1), StartTime: "09:00"},
			wantErr: ErrDateInPast,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestService(newMemorySlotRepo()).OpenSlot(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOpenDay_FillsMissingPositions(t *testing.T) {
	repo := newMemorySlotRepo()
	svc := newTestService(repo)
	_, err := svc.OpenSlot(context.Background(), &models.OpenSlotRequest{
		Actor: employee, StylistID: 7, Date: today, StartTime: "10:00",
	})
	require.NoError(t, err)

	resp, err := svc.OpenDay(context.Background(), &models.OpenDayRequest{Actor: admin, StylistID: 7, Date: today})

	require.NoError(t, err)
	assert.Equal(t, 3, resp.Created)
	require.Len(t, resp.Day.Slots, 4)
	for _, s := range resp.Day.Slots {
		assert.Equal(t, string(domain.SlotStateOffered), s.State)
		assert.NotNil(t, s.SlotID)
	}

	resp, err = svc.OpenDay(context.Background(), &models.OpenDayRequest{Actor: admin, StylistID: 7, Date: today})
	require.NoError(t, err)
	assert.Zero(t, resp.Created)
}

func TestGetDay(t *testing.T) {
	repo := newMemorySlotRepo()
	svc := newTestService(repo)
	_, err := repo.Create(context.Background(), &domain.Slot{StylistID: 7, Date: today, StartTime: "09:00", EndTime: "09:30", IsOffered: true})
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), &domain.Slot{StylistID: 7, Date: today, StartTime: "09:30", EndTime: "10:00", IsOffered: false})
	require.NoError(t, err)
	appointmentID := uuid.New()
	_, err = repo.Create(context.Background(), &domain.Slot{
		StylistID: 7, Date: today, StartTime: "10:00", EndTime: "10:30", IsOffered: true,
		AppointmentID: &appointmentID, ClientID: ptr.Ptr(int64(100)), ServiceID: ptr.Ptr(int64(1)),
	})
	require.NoError(t, err)

	day, err := svc.GetDay(context.Background(), &models.GetDayRequest{Actor: employee, StylistID: 7, Date: today})

	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", day.Date)
	assert.Equal(t, "Centro", day.SalonName)
	states := make([]string, len(day.Slots))
	for i, s := range day.Slots {
		states[i] = s.State
	}
	assert.Equal(t, []string{"offered", "blocked", "booked_by_other", "undefined"}, states)
	require.NotNil(t, day.Slots[2].AppointmentID)
	assert.Equal(t, appointmentID.String(), *day.Slots[2].AppointmentID)
	assert.Equal(t, int64(100), *day.Slots[2].ClientID)
	assert.Nil(t, day.Slots[3].SlotID)
}

func TestSetOffered(t *testing.T) {
	repo := newMemorySlotRepo()
	svc := newTestService(repo)
	free, err := repo.Create(context.Background(), &domain.Slot{StylistID: 7, Date: today, StartTime: "09:00", EndTime: "09:30", IsOffered: true})
	require.NoError(t, err)
	booked, err := repo.Create(context.Background(), &domain.Slot{
		StylistID: 7, Date: today, StartTime: "09:30", EndTime: "10:00", IsOffered: true,
		AppointmentID: ptr.Ptr(uuid.New()), ClientID: ptr.Ptr(int64(100)), ServiceID: ptr.Ptr(int64(1)),
	})
	require.NoError(t, err)

	resp, err := svc.SetOffered(context.Background(), &models.SetOfferedRequest{Actor: employee, SlotID: free.ID, Offered: false})
	require.NoError(t, err)
	assert.False(t, resp.IsOffered)
	assert.False(t, repo.slots[free.ID].IsOffered)

	_, err = svc.SetOffered(context.Background(), &models.SetOfferedRequest{Actor: employee, SlotID: booked.ID, Offered: false})
	assert.ErrorIs(t, err, ErrSlotBooked)
	assert.True(t, repo.slots[booked.ID].IsOffered)

	_, err = svc.SetOffered(context.Background(), &models.SetOfferedRequest{Actor: domain.Actor{ID: 8, Role: domain.RoleEmployee}, SlotID: free.ID, Offered: true})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.SetOffered(context.Background(), &models.SetOfferedRequest{Actor: admin, SlotID: 99, Offered: true})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestOpenSlot_EndOfDayGrid(t *testing.T) {
	repo := newMemorySlotRepo()
	svc := NewService(repo, fakeCatalog{}, directTx{}, scheduling.GenerateGrid("23:00", "24:00", 30), nopLogger{})
	svc.timeProvider = fixedTime{now: today}

	slot, err := svc.OpenSlot(context.Background(), &models.OpenSlotRequest{
		Actor: employee, StylistID: 7, Date: today, StartTime: types.TimeString("23:30"),
	})

	require.NoError(t, err)
	assert.Equal(t, "24:00", slot.EndTime)
}
