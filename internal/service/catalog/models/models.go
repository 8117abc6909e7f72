package models

import "github.com/m04kA/SMC-SalonBooking/internal/domain"

// ServiceResponse услуга салона
type ServiceResponse struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	SlotSpan int     `json:"slotSpan"`
}

// StylistResponse стилист салона
type StylistResponse struct {
	ID        int64  `json:"id"`
	SalonID   int64  `json:"salonId"`
	Name      string `json:"name"`
	SalonName string `json:"salonName"`
}

// FromDomainServices конвертирует список услуг
func FromDomainServices(services []*domain.Service) []ServiceResponse {
	out := make([]ServiceResponse, len(services))
	for i, s := range services {
		out[i] = ServiceResponse{
			ID:       s.ID,
			Name:     s.Name,
			Price:    s.Price,
			SlotSpan: s.SlotSpan,
		}
	}
	return out
}

// FromDomainStylists конвертирует список стилистов
func FromDomainStylists(stylists []*domain.Stylist) []StylistResponse {
	out := make([]StylistResponse, len(stylists))
	for i, s := range stylists {
		out[i] = StylistResponse{
			ID:        s.ID,
			SalonID:   s.SalonID,
			Name:      s.Name,
			SalonName: s.SalonName,
		}
	}
	return out
}
