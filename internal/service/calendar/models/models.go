package models

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request модели

// GetDayRequest запрос дня стилиста
type GetDayRequest struct {
	Actor     domain.Actor
	StylistID int64
	Date      time.Time
}

// OpenSlotRequest запрос на открытие одной позиции сетки
type OpenSlotRequest struct {
	Actor     domain.Actor
	StylistID int64
	Date      time.Time
	StartTime types.TimeString
}

// OpenDayRequest запрос на открытие всех свободных позиций дня
type OpenDayRequest struct {
	Actor     domain.Actor
	StylistID int64
	Date      time.Time
}

// SetOfferedRequest запрос на открытие/закрытие свободного слота
type SetOfferedRequest struct {
	Actor   domain.Actor
	SlotID  int64
	Offered bool
}

// Response модели

// CalendarSlotView позиция сетки в календаре сотрудника
type CalendarSlotView struct {
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	SlotID        *int64  `json:"slotId,omitempty"`
	State         string  `json:"state"`
	ClientID      *int64  `json:"clientId,omitempty"`
	ServiceID     *int64  `json:"serviceId,omitempty"`
	AppointmentID *string `json:"appointmentId,omitempty"`
}

// DayResponse день стилиста
type DayResponse struct {
	StylistID   int64              `json:"stylistId"`
	StylistName string             `json:"stylistName"`
	SalonName   string             `json:"salonName"`
	Date        string             `json:"date"`
	Slots       []CalendarSlotView `json:"slots"`
}

// SlotResponse слот после изменения
type SlotResponse struct {
	ID        int64  `json:"id"`
	StylistID int64  `json:"stylistId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	IsOffered bool   `json:"isOffered"`
	IsBooked  bool   `json:"isBooked"`
}

// OpenDayResponse результат открытия дня
type OpenDayResponse struct {
	Created int          `json:"created"`
	Day     *DayResponse `json:"day"`
}

// FromDomainSlot конвертирует слот в ответ
func FromDomainSlot(slot *domain.Slot) *SlotResponse {
	return &SlotResponse{
		ID:        slot.ID,
		StylistID: slot.StylistID,
		Date:      slot.Date.Format(domain.DateFormat),
		StartTime: slot.StartTime.String(),
		EndTime:   slot.EndTime.String(),
		IsOffered: slot.IsOffered,
		IsBooked:  slot.IsBooked(),
	}
}

// NewDayResponse собирает день стилиста из классифицированной сетки
func NewDayResponse(stylist *domain.Stylist, date time.Time, display []domain.DisplaySlot) *DayResponse {
	resp := &DayResponse{
		StylistID:   stylist.ID,
		StylistName: stylist.Name,
		SalonName:   stylist.SalonName,
		Date:        date.Format(domain.DateFormat),
		Slots:       make([]CalendarSlotView, len(display)),
	}

	for i, d := range display {
		view := CalendarSlotView{
			StartTime: d.StartTime.String(),
			EndTime:   d.EndTime.String(),
			State:     string(d.State),
		}
		if d.Slot != nil {
			id := d.Slot.ID
			view.SlotID = &id
			view.ClientID = d.Slot.ClientID
			view.ServiceID = d.Slot.ServiceID
			if d.Slot.AppointmentID != nil {
				appointmentID := d.Slot.AppointmentID.String()
				view.AppointmentID = &appointmentID
			}
		}
		resp.Slots[i] = view
	}

	return resp
}
