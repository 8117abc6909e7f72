package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
)

// Service сервис для работы с записями клиентов
type Service struct {
	slotRepo     SlotRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(slotRepo SlotRepository, logger Logger) *Service {
	return &Service{
		slotRepo:     slotRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// ListForClient собирает записи клиента из занятых им слотов.
// Клиент видит только свои записи, администратор любые
func (s *Service) ListForClient(ctx context.Context, req *models.ListForClientRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListForClient: client=%d by actor=%d", req.ClientID, req.Actor.ID)

	if req.ClientID <= 0 {
		return nil, fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if !req.Actor.CanViewClient(req.ClientID) {
		s.logger.Warn("ListForClient: actor=%d (%s) cannot view client=%d", req.Actor.ID, req.Actor.Role, req.ClientID)
		return nil, ErrAccessDenied
	}

	slots, err := s.slotRepo.GetReservedByClient(ctx, req.ClientID)
	if err != nil {
		s.logger.Error("ListForClient: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: ListForClient - repository error: %v", ErrInternal, err)
	}

	for _, slot := range slots {
		if err := slot.CheckIntegrity(); err != nil {
			s.logger.Warn("ListForClient: slot=%d of client=%d: %v", slot.ID, req.ClientID, err)
		}
	}

	summaries := scheduling.GroupByAppointment(slots)
	now := wallClock(s.timeProvider.Now())

	resp := &models.AppointmentListResponse{
		Upcoming: make([]models.AppointmentResponse, 0),
		Past:     make([]models.AppointmentResponse, 0),
	}
	for _, summary := range summaries {
		if !summary.Contiguous {
			s.logger.Warn("ListForClient: appointment=%s has non-contiguous slots, client=%d",
				summary.AppointmentID, req.ClientID)
		}

		item := models.FromDomainSummary(summary)
		if endsAt(summary).After(now) {
			resp.Upcoming = append(resp.Upcoming, item)
		} else {
			resp.Past = append(resp.Past, item)
		}
	}

	s.logger.Info("ListForClient: client=%d has %d upcoming and %d past appointments",
		req.ClientID, len(resp.Upcoming), len(resp.Past))
	return resp, nil
}

// endsAt возвращает момент окончания записи в том же представлении, что и wallClock
func endsAt(summary domain.AppointmentSummary) time.Time {
	return domain.DateOnly(summary.Date).Add(time.Duration(summary.EndTime.Minutes()) * time.Minute)
}

// wallClock переносит локальное время салона в UTC без сдвига, как хранятся даты слотов
func wallClock(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, time.UTC)
}
