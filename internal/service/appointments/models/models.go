package models

import "github.com/m04kA/SMC-SalonBooking/internal/domain"

// ListForClientRequest запрос списка записей клиента
type ListForClientRequest struct {
	Actor    domain.Actor
	ClientID int64
}

// AppointmentResponse одна запись клиента
type AppointmentResponse struct {
	AppointmentID string  `json:"appointmentId"`
	SlotID        int64   `json:"slotId"` // Любой слот записи, передается в отмену
	StylistID     int64   `json:"stylistId"`
	StylistName   string  `json:"stylistName"`
	SalonName     string  `json:"salonName"`
	ServiceID     int64   `json:"serviceId"`
	ServiceName   string  `json:"serviceName"`
	ServicePrice  float64 `json:"servicePrice"`
	Date          string  `json:"date"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	SlotCount     int     `json:"slotCount"`
	Contiguous    bool    `json:"contiguous"`
}

// AppointmentListResponse записи клиента, разделенные на будущие и прошедшие
type AppointmentListResponse struct {
	Upcoming []AppointmentResponse `json:"upcoming"`
	Past     []AppointmentResponse `json:"past"`
}

// FromDomainSummary конвертирует сводку записи
func FromDomainSummary(s domain.AppointmentSummary) AppointmentResponse {
	return AppointmentResponse{
		AppointmentID: s.AppointmentID.String(),
		SlotID:        s.AnyMemberSlotID,
		StylistID:     s.StylistID,
		StylistName:   s.StylistName,
		SalonName:     s.SalonName,
		ServiceID:     s.ServiceID,
		ServiceName:   s.ServiceName,
		ServicePrice:  s.ServicePrice,
		Date:          s.Date.Format(domain.DateFormat),
		StartTime:     s.StartTime.String(),
		EndTime:       s.EndTime.String(),
		SlotCount:     s.SlotCount,
		Contiguous:    s.Contiguous,
	}
}
