package models

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Request модели

// OpenSessionRequest запрос на открытие сессии бронирования
type OpenSessionRequest struct {
	Actor     domain.Actor
	StylistID int64
	ServiceID int64
	Date      time.Time
}

// UpdateSessionRequest смена услуги и/или даты сессии
type UpdateSessionRequest struct {
	ServiceID *int64
	Date      *time.Time
}

// Response модели

// SelectionView выбранный блок
type SelectionView struct {
	StartTime string  `json:"startTime"`
	SlotIDs   []int64 `json:"slotIds"`
}

// DisplaySlotView позиция сетки для отображения
type DisplaySlotView struct {
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	SlotID            *int64 `json:"slotId,omitempty"`
	State             string `json:"state"`
	IsValidBlockStart bool   `json:"isValidBlockStart"`
}

// SessionView состояние сессии бронирования
type SessionView struct {
	SessionID  string            `json:"sessionId"`
	StylistID  int64             `json:"stylistId"`
	Date       string            `json:"date"`
	ServiceID  int64             `json:"serviceId"`
	SlotSpan   int               `json:"slotSpan"`
	LoadFailed bool              `json:"loadFailed"`
	Pending    bool              `json:"pending"`
	Selection  *SelectionView    `json:"selection"`
	Slots      []DisplaySlotView `json:"slots"`
}

// NewSessionView собирает представление сессии
func NewSessionView(session *domain.Session, service *domain.Service, display []domain.DisplaySlot, pending bool) *SessionView {
	view := &SessionView{
		SessionID:  session.ID.String(),
		StylistID:  session.StylistID,
		Date:       session.Date.Format(domain.DateFormat),
		ServiceID:  session.ServiceID,
		LoadFailed: session.LoadFailed,
		Pending:    pending,
		Slots:      FromDisplaySlots(display),
	}

	if service != nil {
		view.SlotSpan = service.SlotSpan
	}

	if session.HasSelection() {
		view.Selection = &SelectionView{
			StartTime: session.SelectedStart.String(),
			SlotIDs:   append([]int64(nil), session.SelectedSlotIDs...),
		}
	}

	return view
}

// FromDisplaySlots конвертирует классифицированный день
func FromDisplaySlots(display []domain.DisplaySlot) []DisplaySlotView {
	views := make([]DisplaySlotView, len(display))
	for i, d := range display {
		views[i] = DisplaySlotView{
			StartTime:         d.StartTime.String(),
			EndTime:           d.EndTime.String(),
			State:             string(d.State),
			IsValidBlockStart: d.IsValidBlockStart,
		}
		if id, ok := d.SlotID(); ok {
			slotID := id
			views[i].SlotID = &slotID
		}
	}
	return views
}
