package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type fakeSlotRepo struct {
	slots []*domain.ReservedSlot
	err   error
}

func (r *fakeSlotRepo) GetReservedByClient(_ context.Context, _ int64) ([]*domain.ReservedSlot, error) {
	return r.slots, r.err
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Info(string, ...interface{}) {}

func (l *recordingLogger) Warn(format string, _ ...interface{}) {
	l.warnings = append(l.warnings, format)
}

func (l *recordingLogger) Error(string, ...interface{}) {}

var client = domain.Actor{ID: 100, Role: domain.RoleClient}

func reserved(id int64, date time.Time, start, end types.TimeString, appointmentID uuid.UUID) *domain.ReservedSlot {
	return &domain.ReservedSlot{
		Slot: domain.Slot{
			ID:            id,
			StylistID:     7,
			Date:          date,
			StartTime:     start,
			EndTime:       end,
			IsOffered:     true,
			AppointmentID: ptr.Ptr(appointmentID),
			ClientID:      ptr.Ptr(int64(100)),
			ServiceID:     ptr.Ptr(int64(1)),
		},
		StylistName:  "Lucia",
		SalonName:    "Centro",
		ServiceName:  "Corte",
		ServicePrice: 20,
	}
}

func TestListForClient_SplitsUpcomingAndPast(t *testing.T) {
	yesterday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	past, earlier, later := uuid.New(), uuid.New(), uuid.New()

	repo := &fakeSlotRepo{slots: []*domain.ReservedSlot{
		reserved(30, today, "17:00", "17:30", later),
		reserved(10, yesterday, "09:00", "09:30", past),
		reserved(21, today, "09:30", "10:00", earlier),
		reserved(20, today, "09:00", "09:30", earlier),
	}}
	svc := NewService(repo, &recordingLogger{})
	svc.timeProvider = fixedTime{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}

	resp, err := svc.ListForClient(context.Background(), &models.ListForClientRequest{Actor: client, ClientID: 100})

	require.NoError(t, err)
	require.Len(t, resp.Past, 2)
	require.Len(t, resp.Upcoming, 1)

	assert.Equal(t, past.String(), resp.Past[0].AppointmentID)
	assert.Equal(t, earlier.String(), resp.Past[1].AppointmentID)
	assert.Equal(t, int64(20), resp.Past[1].SlotID)
	assert.Equal(t, "09:00", resp.Past[1].StartTime)
	assert.Equal(t, "10:00", resp.Past[1].EndTime)
	assert.Equal(t, 2, resp.Past[1].SlotCount)

	assert.Equal(t, later.String(), resp.Upcoming[0].AppointmentID)
	assert.Equal(t, "Centro", resp.Upcoming[0].SalonName)
}

func TestListForClient_FlagsNonContiguous(t *testing.T) {
	day := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	id := uuid.New()
	logger := &recordingLogger{}
	svc := NewService(&fakeSlotRepo{slots: []*domain.ReservedSlot{
		reserved(1, day, "09:00", "09:30", id),
		reserved(3, day, "10:00", "10:30", id),
	}}, logger)
	svc.timeProvider = fixedTime{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}

	resp, err := svc.ListForClient(context.Background(), &models.ListForClientRequest{Actor: client, ClientID: 100})

	require.NoError(t, err)
	require.Len(t, resp.Upcoming, 1)
	assert.False(t, resp.Upcoming[0].Contiguous)
	assert.Equal(t, "10:30", resp.Upcoming[0].EndTime)
	assert.Len(t, logger.warnings, 1)
}

func TestListForClient_FlagsIntegrityAnomalies(t *testing.T) {
	day := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	id := uuid.New()
	notOffered := reserved(2, day, "09:30", "10:00", id)
	notOffered.IsOffered = false

	logger := &recordingLogger{}
	svc := NewService(&fakeSlotRepo{slots: []*domain.ReservedSlot{
		reserved(1, day, "09:00", "09:30", id),
		notOffered,
	}}, logger)
	svc.timeProvider = fixedTime{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}

	resp, err := svc.ListForClient(context.Background(), &models.ListForClientRequest{Actor: client, ClientID: 100})

	require.NoError(t, err)
	require.Len(t, resp.Upcoming, 1)
	assert.Equal(t, 2, resp.Upcoming[0].SlotCount)
	assert.Equal(t, []string{"ListForClient: slot=%d of client=%d: %v"}, logger.warnings)
}

func TestListForClient_Empty(t *testing.T) {
	svc := NewService(&fakeSlotRepo{}, &recordingLogger{})

	resp, err := svc.ListForClient(context.Background(), &models.ListForClientRequest{Actor: client, ClientID: 100})

	require.NoError(t, err)
	assert.NotNil(t, resp.Upcoming)
	assert.NotNil(t, resp.Past)
	assert.Empty(t, resp.Upcoming)
	assert.Empty(t, resp.Past)
}

func TestListForClient_Access(t *testing.T) {
	svc := NewService(&fakeSlotRepo{}, &recordingLogger{})

	_, err := svc.ListForClient(context.Background(), &models.ListForClientRequest{Actor: client, ClientID: 101})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.ListForClient(context.Background(), &models.ListForClientRequest{
		Actor: domain.Actor{ID: 7, Role: domain.RoleEmployee}, ClientID: 100,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.ListForClient(context.Background(), &models.ListForClientRequest{
		Actor: domain.Actor{ID: 1, Role: domain.RoleAdmin}, ClientID: 100,
	})
	assert.NoError(t, err)
}

func TestListForClient_RepositoryError(t *testing.T) {
	svc := NewService(&fakeSlotRepo{err: errors.New("db is down")}, &recordingLogger{})

	_, err := svc.ListForClient(context.Background(), &models.ListForClientRequest{Actor: client, ClientID: 100})

	assert.ErrorIs(t, err, ErrInternal)
}
