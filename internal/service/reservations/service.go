package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	slotRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/slot"
)

// Service арбитр фиксации: бронирует и освобождает блоки слотов атомарно
type Service struct {
	slotRepo    SlotRepository
	catalogRepo CatalogRepository
	txManager   TransactionManager
	newID       func() uuid.UUID
	logger      Logger
}

// NewService создает новый экземпляр сервиса
func NewService(
	slotRepo SlotRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:    slotRepo,
		catalogRepo: catalogRepo,
		txManager:   txManager,
		newID:       uuid.New,
		logger:      logger,
	}
}

// CommitReservation бронирует весь блок одной записью или ничего.
// Слоты блокируются в сериализуемой транзакции, после чего проверяется,
// что они свободны, идут подряд и их число равно длине услуги.
func (s *Service) CommitReservation(ctx context.Context, req domain.ReservationRequest) ([]*domain.Slot, error) {
	s.logger.Info("CommitReservation: client=%d, service=%d, slots=%v", req.ClientID, req.ServiceID, req.SlotIDs)

	// 1. Валидация входных данных
	if err := validateReservation(req); err != nil {
		s.logger.Warn("CommitReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу
	service, err := s.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("CommitReservation: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("CommitReservation: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: CommitReservation - get service: %v", ErrInternal, err)
	}

	if len(req.SlotIDs) != service.SlotSpan {
		s.logger.Warn("CommitReservation: block of %d slots for service id=%d with span %d",
			len(req.SlotIDs), service.ID, service.SlotSpan)
		return nil, fmt.Errorf("%w: expected %d slots, got %d", ErrInvalidBlock, service.SlotSpan, len(req.SlotIDs))
	}

	var result []*domain.Slot

	// 3. Бронируем в сериализуемой транзакции
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Блокируем слоты
		slots, err := s.slotRepo.GetByIDs(txCtx, req.SlotIDs)
		if err != nil {
			return fmt.Errorf("%w: CommitReservation - lock slots: %v", ErrInternal, err)
		}
		if len(slots) != len(req.SlotIDs) {
			return fmt.Errorf("%w: %d of %d slots exist", ErrSlotNotFound, len(slots), len(req.SlotIDs))
		}

		// 3.2. Проверяем блок против заблокированных строк
		if err := checkBlock(slots, req); err != nil {
			return err
		}

		// 3.3. Привязываем слоты к новой записи
		appointmentID := s.newID()
		updated, err := s.slotRepo.Reserve(txCtx, req.SlotIDs, appointmentID, req.ClientID, req.ServiceID)
		if err != nil {
			return fmt.Errorf("%w: CommitReservation - reserve: %v", ErrInternal, err)
		}
		if updated != int64(len(req.SlotIDs)) {
			// Частичная бронь не фиксируется: транзакция откатывается
			return fmt.Errorf("%w: reserved %d of %d slots", ErrSlotTaken, updated, len(req.SlotIDs))
		}

		// 3.4. Перечитываем результат
		result, err = s.slotRepo.GetByAppointmentID(txCtx, appointmentID)
		if err != nil {
			return fmt.Errorf("%w: CommitReservation - reload slots: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotTaken) || errors.Is(err, ErrInvalidBlock) || errors.Is(err, ErrSlotNotFound) {
			s.logger.Warn("CommitReservation: rejected for client=%d: %v", req.ClientID, err)
			return nil, err
		}
		s.logger.Error("CommitReservation: failed for client=%d: %v", req.ClientID, err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: CommitReservation - transaction: %v", ErrInternal, err)
	}

	s.logger.Info("CommitReservation: client=%d booked %d slots", req.ClientID, len(result))
	return result, nil
}

// CommitCancellation освобождает все слоты записи, к которой относится slotID
func (s *Service) CommitCancellation(ctx context.Context, req domain.CancellationRequest) ([]*domain.Slot, error) {
	s.logger.Info("CommitCancellation: slot=%d, actor=%d (%s)", req.SlotID, req.Actor.ID, req.Actor.Role)

	if req.SlotID <= 0 || req.Actor.ID <= 0 {
		return nil, fmt.Errorf("%w: slotID and actor are required", ErrInvalidInput)
	}

	var released []*domain.Slot

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Блокируем слот-ссылку
		slot, err := s.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: CommitCancellation - lock slot: %v", ErrInternal, err)
		}

		if !slot.IsBooked() {
			return ErrNotBooked
		}

		// 2. Проверяем права
		if !req.Actor.CanCancel(slot) {
			return ErrAccessDenied
		}

		// 3. Блокируем все слоты записи
		members, err := s.slotRepo.GetByAppointmentID(txCtx, *slot.AppointmentID)
		if err != nil {
			return fmt.Errorf("%w: CommitCancellation - lock appointment: %v", ErrInternal, err)
		}

		// 4. Освобождаем всю запись
		updated, err := s.slotRepo.Release(txCtx, *slot.AppointmentID)
		if err != nil {
			return fmt.Errorf("%w: CommitCancellation - release: %v", ErrInternal, err)
		}
		if updated != int64(len(members)) {
			return fmt.Errorf("%w: released %d of %d slots", ErrInternal, updated, len(members))
		}

		ids := make([]int64, len(members))
		for i, m := range members {
			ids[i] = m.ID
		}

		// 5. Перечитываем освобожденные слоты
		released, err = s.slotRepo.GetByIDs(txCtx, ids)
		if err != nil {
			return fmt.Errorf("%w: CommitCancellation - reload slots: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrSlotNotFound), errors.Is(err, ErrNotBooked), errors.Is(err, ErrAccessDenied):
			s.logger.Warn("CommitCancellation: rejected slot=%d: %v", req.SlotID, err)
			return nil, err
		case errors.Is(err, ErrInternal):
			s.logger.Error("CommitCancellation: failed slot=%d: %v", req.SlotID, err)
			return nil, err
		default:
			s.logger.Error("CommitCancellation: failed slot=%d: %v", req.SlotID, err)
			return nil, fmt.Errorf("%w: CommitCancellation - transaction: %v", ErrInternal, err)
		}
	}

	s.logger.Info("CommitCancellation: released %d slots for slot=%d", len(released), req.SlotID)
	return released, nil
}

func validateReservation(req domain.ReservationRequest) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	if len(req.SlotIDs) == 0 {
		return fmt.Errorf("%w: block is empty", ErrInvalidInput)
	}

	seen := make(map[int64]struct{}, len(req.SlotIDs))
	for _, id := range req.SlotIDs {
		if id <= 0 {
			return fmt.Errorf("%w: slot id must be positive", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate slot id %d", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

// checkBlock проверяет заблокированные слоты, отсортированные по времени
func checkBlock(slots []*domain.Slot, req domain.ReservationRequest) error {
	first := slots[0]
	if req.StylistID > 0 && first.StylistID != req.StylistID {
		return fmt.Errorf("%w: slots belong to stylist %d", ErrInvalidBlock, first.StylistID)
	}
	if !req.Date.IsZero() && !domain.SameDate(first.Date, req.Date) {
		return fmt.Errorf("%w: slots are on %s", ErrInvalidBlock, first.Date.Format(domain.DateFormat))
	}

	for i, slot := range slots {
		if i > 0 {
			prev := slots[i-1]
			if slot.StylistID != prev.StylistID || !domain.SameDate(slot.Date, prev.Date) {
				return fmt.Errorf("%w: slots span several stylists or dates", ErrInvalidBlock)
			}
			if prev.EndTime != slot.StartTime {
				return fmt.Errorf("%w: gap between %s and %s", ErrInvalidBlock, prev.EndTime, slot.StartTime)
			}
		}
		if !slot.IsBookable() {
			return fmt.Errorf("%w: slot %d at %s", ErrSlotTaken, slot.ID, slot.StartTime)
		}
	}

	return nil
}
