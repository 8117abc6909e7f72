package catalog

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/service/catalog/models"
)

// Service сервис справочных данных салона
type Service struct {
	catalogRepo CatalogRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса справочника
func NewService(catalogRepo CatalogRepository, logger Logger) *Service {
	return &Service{
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// ListServices возвращает каталог услуг
func (s *Service) ListServices(ctx context.Context) ([]models.ServiceResponse, error) {
	services, err := s.catalogRepo.ListServices(ctx)
	if err != nil {
		s.logger.Error("ListServices: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainServices(services), nil
}

// ListStylists возвращает стилистов салона
func (s *Service) ListStylists(ctx context.Context, salonID int64) ([]models.StylistResponse, error) {
	if salonID <= 0 {
		return nil, fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}

	stylists, err := s.catalogRepo.ListStylistsBySalon(ctx, salonID)
	if err != nil {
		s.logger.Error("ListStylists: repository error for salon=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: ListStylists - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListStylists: salon=%d has %d stylists", salonID, len(stylists))
	return models.FromDomainStylists(stylists), nil
}
