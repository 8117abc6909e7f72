package scheduling

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var (
	viewer      = domain.Actor{ID: 100, Role: domain.RoleClient}
	twoSlotCut  = &domain.Service{ID: 3, Name: "Corte", Price: 20, SlotSpan: 2}
	oneSlotCut  = &domain.Service{ID: 4, Name: "Peinado", Price: 10, SlotSpan: 1}
	appointment = uuid.MustParse("1b4e28ba-2fa1-11d2-883f-0016d3cca427")
)

func TestClassify_States(t *testing.T) {
	grid := GenerateGrid("09:00", "12:00", 30)
	slots := []*domain.Slot{
		offered(1, "09:00", "09:30"),
		booked(2, "09:30", "10:00", 200, appointment),
		booked(3, "10:00", "10:30", viewer.ID, uuid.New()),
		blocked(4, "10:30", "11:00"),
		offered(5, "11:00", "11:30"),
	}

	display := Classify(ClassifyInput{
		Grid:     grid,
		Date:     testDate,
		Slots:    slots,
		Selected: []int64{5},
		Viewer:   viewer,
	})

	assert.Equal(t, []domain.SlotState{
		domain.SlotStateOffered,
		domain.SlotStateBookedByOther,
		domain.SlotStateBookedByViewer,
		domain.SlotStateBlocked,
		domain.SlotStateSelected,
		domain.SlotStateUndefined,
	}, states(display))
	assert.Nil(t, display[5].Slot)
	assert.Empty(t, validStarts(display), "no service means no valid starts")
}

func TestClassify_ValidBlockStartsScenario(t *testing.T) {
	grid := GenerateGrid("09:00", "11:00", 30)
	slots := []*domain.Slot{
		offered(1, "09:00", "09:30"),
		offered(2, "09:30", "10:00"),
		booked(3, "10:00", "10:30", 200, appointment),
		offered(4, "10:30", "11:00"),
	}

	display := Classify(ClassifyInput{
		Grid:    grid,
		Date:    testDate,
		Slots:   slots,
		Viewer:  viewer,
		Service: twoSlotCut,
	})

	assert.Equal(t, []types.TimeString{"09:00"}, validStarts(display))
}

func TestClassify_ValidityIgnoresSelection(t *testing.T) {
	grid := GenerateGrid("09:00", "11:00", 30)
	slots := []*domain.Slot{
		offered(1, "09:00", "09:30"),
		offered(2, "09:30", "10:00"),
		offered(3, "10:00", "10:30"),
		offered(4, "10:30", "11:00"),
	}

	display := Classify(ClassifyInput{
		Grid:     grid,
		Date:     testDate,
		Slots:    slots,
		Selected: []int64{2, 3},
		Viewer:   viewer,
		Service:  twoSlotCut,
	})

	// 09:00 остается допустимым началом, хотя 09:30 выбран
	assert.Equal(t, []types.TimeString{"09:00"}, validStarts(display))
	assert.Equal(t, domain.SlotStateSelected, display[1].State)
	assert.False(t, display[1].IsValidBlockStart)
	assert.False(t, display[3].IsValidBlockStart, "last slot cannot start a two-slot block")
}

func TestClassify_SingleSlotService(t *testing.T) {
	grid := GenerateGrid("09:00", "10:30", 30)
	slots := []*domain.Slot{
		offered(1, "09:00", "09:30"),
		blocked(2, "09:30", "10:00"),
		offered(3, "10:00", "10:30"),
	}

	display := Classify(ClassifyInput{Grid: grid, Date: testDate, Slots: slots, Viewer: viewer, Service: oneSlotCut})

	assert.Equal(t, []types.TimeString{"09:00", "10:00"}, validStarts(display))
}

func TestClassify_IgnoresOtherDatesAndOffGridRecords(t *testing.T) {
	grid := GenerateGrid("09:00", "10:00", 30)
	otherDay := offered(1, "09:00", "09:30")
	otherDay.Date = testDate.AddDate(0, 0, 1)
	offGrid := offered(2, "09:15", "09:45")

	display := Classify(ClassifyInput{
		Grid:   grid,
		Date:   testDate,
		Slots:  []*domain.Slot{otherDay, offGrid},
		Viewer: viewer,
	})

	assert.Equal(t, []domain.SlotState{domain.SlotStateUndefined, domain.SlotStateUndefined}, states(display))
}

func TestClassify_ClientMetadataAlwaysBooked(t *testing.T) {
	grid := GenerateGrid("09:00", "10:30", 30)
	noAppointment := offered(1, "09:00", "09:30")
	noAppointment.ClientID = ptr.Ptr(viewer.ID)
	foreign := offered(2, "09:30", "10:00")
	foreign.ClientID = ptr.Ptr(int64(555))
	serviceOnly := offered(3, "10:00", "10:30")
	serviceOnly.ServiceID = ptr.Ptr(int64(3))

	display := Classify(ClassifyInput{
		Grid:    grid,
		Date:    testDate,
		Slots:   []*domain.Slot{noAppointment, foreign, serviceOnly},
		Viewer:  viewer,
		Service: oneSlotCut,
	})

	assert.Equal(t, []domain.SlotState{
		domain.SlotStateBookedByViewer,
		domain.SlotStateBookedByOther,
		domain.SlotStateBlocked,
	}, states(display))
	assert.Empty(t, validStarts(display))
}

func TestClassify_EmployeeNeverSeesOwnBooking(t *testing.T) {
	grid := GenerateGrid("09:00", "09:30", 30)
	employee := domain.Actor{ID: 200, Role: domain.RoleEmployee}

	display := Classify(ClassifyInput{
		Grid:   grid,
		Date:   testDate,
		Slots:  []*domain.Slot{booked(1, "09:00", "09:30", 200, appointment)},
		Viewer: employee,
	})

	require.Len(t, display, 1)
	assert.Equal(t, domain.SlotStateBookedByOther, display[0].State)
}

func TestClassify_DuplicateRecordsPreferBooked(t *testing.T) {
	grid := GenerateGrid("09:00", "09:30", 30)

	display := Classify(ClassifyInput{
		Grid:   grid,
		Date:   testDate,
		Slots:  []*domain.Slot{offered(1, "09:00", "09:30"), booked(2, "09:00", "09:30", 200, appointment)},
		Viewer: viewer,
	})

	require.Len(t, display, 1)
	id, ok := display[0].SlotID()
	require.True(t, ok)
	assert.Equal(t, int64(2), id)
	assert.Equal(t, domain.SlotStateBookedByOther, display[0].State)
}

func TestClassify_EmptyFetch(t *testing.T) {
	grid := GenerateGrid("09:00", "11:00", 30)

	display := Classify(ClassifyInput{Grid: grid, Date: testDate, Viewer: viewer, Service: twoSlotCut})

	require.Len(t, display, 4)
	for _, d := range display {
		assert.Equal(t, domain.SlotStateUndefined, d.State)
		assert.False(t, d.IsValidBlockStart)
	}
}
