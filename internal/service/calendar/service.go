package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	slotRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/slot"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar/models"
)

// Service сервис календаря стилиста: открытие позиций сетки и их блокировка
type Service struct {
	slotRepo     SlotRepository
	catalogRepo  CatalogRepository
	txManager    TransactionManager
	grid         scheduling.Grid
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса календаря
func NewService(
	slotRepo SlotRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	grid scheduling.Grid,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:     slotRepo,
		catalogRepo:  catalogRepo,
		txManager:    txManager,
		grid:         grid,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetDay возвращает сетку дня стилиста. Позиции без записи имеют состояние undefined.
// Доступно самому стилисту и администратору
func (s *Service) GetDay(ctx context.Context, req *models.GetDayRequest) (*models.DayResponse, error) {
	s.logger.Info("GetDay: stylist=%d, date=%s by actor=%d", req.StylistID, req.Date.Format(domain.DateFormat), req.Actor.ID)

	stylist, err := s.authorize(ctx, req.Actor, req.StylistID)
	if err != nil {
		return nil, err
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	date := domain.DateOnly(req.Date)
	display, err := s.loadDay(ctx, req.Actor, stylist.ID, date)
	if err != nil {
		return nil, err
	}

	return models.NewDayResponse(stylist, date, display), nil
}

// OpenSlot создает слот на позиции сетки и открывает его для записи
func (s *Service) OpenSlot(ctx context.Context, req *models.OpenSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("OpenSlot: stylist=%d, date=%s, start=%s by actor=%d",
		req.StylistID, req.Date.Format(domain.DateFormat), req.StartTime, req.Actor.ID)

	stylist, err := s.authorize(ctx, req.Actor, req.StylistID)
	if err != nil {
		return nil, err
	}
	if err := s.checkDate(req.Date); err != nil {
		return nil, err
	}

	// 1. Время должно совпадать с позицией сетки
	idx := s.grid.IndexOf(req.StartTime)
	if idx < 0 {
		s.logger.Warn("OpenSlot: start=%s is not on the grid", req.StartTime)
		return nil, fmt.Errorf("%w: %s", ErrNotOnGrid, req.StartTime)
	}
	interval := s.grid[idx]

	// 2. Создаем слот
	created, err := s.slotRepo.Create(ctx, &domain.Slot{
		StylistID: stylist.ID,
		Date:      domain.DateOnly(req.Date),
		StartTime: interval.Start,
		EndTime:   interval.End,
		IsOffered: true,
	})
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotAlreadyExists) {
			s.logger.Warn("OpenSlot: slot at %s already exists for stylist=%d", req.StartTime, stylist.ID)
			return nil, ErrSlotAlreadyExists
		}
		s.logger.Error("OpenSlot: failed to create slot: %v", err)
		return nil, fmt.Errorf("%w: OpenSlot - create slot: %v", ErrInternal, err)
	}

	s.logger.Info("OpenSlot: created slot id=%d", created.ID)
	return models.FromDomainSlot(created), nil
}

// OpenDay создает слоты на всех позициях сетки, где их еще нет
func (s *Service) OpenDay(ctx context.Context, req *models.OpenDayRequest) (*models.OpenDayResponse, error) {
	s.logger.Info("OpenDay: stylist=%d, date=%s by actor=%d", req.StylistID, req.Date.Format(domain.DateFormat), req.Actor.ID)

	stylist, err := s.authorize(ctx, req.Actor, req.StylistID)
	if err != nil {
		return nil, err
	}
	if err := s.checkDate(req.Date); err != nil {
		return nil, err
	}

	date := domain.DateOnly(req.Date)
	created := 0

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		existing, err := s.slotRepo.GetByStylistAndDate(txCtx, stylist.ID, date)
		if err != nil {
			return fmt.Errorf("%w: OpenDay - get slots: %v", ErrInternal, err)
		}

		taken := make(map[int]struct{}, len(existing))
		for _, slot := range existing {
			taken[slot.StartTime.Minutes()] = struct{}{}
		}

		for _, interval := range s.grid {
			if _, ok := taken[interval.Start.Minutes()]; ok {
				continue
			}
			_, err := s.slotRepo.Create(txCtx, &domain.Slot{
				StylistID: stylist.ID,
				Date:      date,
				StartTime: interval.Start,
				EndTime:   interval.End,
				IsOffered: true,
			})
			if err != nil {
				return fmt.Errorf("%w: OpenDay - create slot at %s: %v", ErrInternal, interval.Start, err)
			}
			created++
		}

		return nil
	})
	if err != nil {
		s.logger.Error("OpenDay: failed for stylist=%d: %v", stylist.ID, err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: OpenDay - transaction: %v", ErrInternal, err)
	}

	display, err := s.loadDay(ctx, req.Actor, stylist.ID, date)
	if err != nil {
		return nil, err
	}

	s.logger.Info("OpenDay: created %d slots for stylist=%d", created, stylist.ID)
	return &models.OpenDayResponse{
		Created: created,
		Day:     models.NewDayResponse(stylist, date, display),
	}, nil
}

// SetOffered открывает или закрывает свободный слот. Занятый слот не меняется.
func (s *Service) SetOffered(ctx context.Context, req *models.SetOfferedRequest) (*models.SlotResponse, error) {
	s.logger.Info("SetOffered: slot=%d, offered=%t by actor=%d", req.SlotID, req.Offered, req.Actor.ID)

	if req.SlotID <= 0 {
		return nil, fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}

	var result *domain.Slot

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Блокируем слот
		slot, err := s.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: SetOffered - get slot: %v", ErrInternal, err)
		}

		// 2. Проверяем права
		if !req.Actor.CanManageCalendar(slot.StylistID) {
			return ErrAccessDenied
		}

		// 3. Занятый слот всегда открыт
		if slot.IsBooked() {
			return ErrSlotBooked
		}

		if slot.IsOffered == req.Offered {
			result = slot
			return nil
		}

		if err := s.slotRepo.SetOffered(txCtx, slot.ID, req.Offered); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotBooked
			}
			return fmt.Errorf("%w: SetOffered - update slot: %v", ErrInternal, err)
		}

		slot.IsOffered = req.Offered
		result = slot
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrSlotNotFound), errors.Is(err, ErrAccessDenied), errors.Is(err, ErrSlotBooked):
			s.logger.Warn("SetOffered: rejected slot=%d: %v", req.SlotID, err)
			return nil, err
		case errors.Is(err, ErrInternal):
			s.logger.Error("SetOffered: failed slot=%d: %v", req.SlotID, err)
			return nil, err
		default:
			s.logger.Error("SetOffered: failed slot=%d: %v", req.SlotID, err)
			return nil, fmt.Errorf("%w: SetOffered - transaction: %v", ErrInternal, err)
		}
	}

	return models.FromDomainSlot(result), nil
}

// authorize проверяет права на календарь и существование стилиста
func (s *Service) authorize(ctx context.Context, actor domain.Actor, stylistID int64) (*domain.Stylist, error) {
	if actor.ID <= 0 || stylistID <= 0 {
		return nil, fmt.Errorf("%w: actor and stylistID are required", ErrInvalidInput)
	}

	if !actor.CanManageCalendar(stylistID) {
		s.logger.Warn("actor=%d (%s) cannot manage calendar of stylist=%d", actor.ID, actor.Role, stylistID)
		return nil, ErrAccessDenied
	}

	stylist, err := s.catalogRepo.GetStylist(ctx, stylistID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStylistNotFound) {
			s.logger.Warn("stylist id=%d not found", stylistID)
			return nil, ErrStylistNotFound
		}
		s.logger.Error("failed to get stylist id=%d: %v", stylistID, err)
		return nil, fmt.Errorf("%w: get stylist: %v", ErrInternal, err)
	}

	return stylist, nil
}

func (s *Service) checkDate(date time.Time) error {
	if date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if domain.DateOnly(date).Before(domain.DateOnly(s.timeProvider.Now())) {
		return fmt.Errorf("%w: %s", ErrDateInPast, date.Format(domain.DateFormat))
	}
	return nil
}

func (s *Service) loadDay(ctx context.Context, viewer domain.Actor, stylistID int64, date time.Time) ([]domain.DisplaySlot, error) {
	slots, err := s.slotRepo.GetByStylistAndDate(ctx, stylistID, date)
	if err != nil {
		s.logger.Error("failed to load slots for stylist=%d, date=%s: %v", stylistID, date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: load day: %v", ErrInternal, err)
	}

	return scheduling.Classify(scheduling.ClassifyInput{
		Grid:   s.grid,
		Date:   date,
		Slots:  slots,
		Viewer: viewer,
	}), nil
}
