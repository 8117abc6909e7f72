package confirm_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/sessionstore"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	"github.com/m04kA/SMC-SalonBooking/internal/service/reservations"
)

// UseCase use case подтверждения выбранного блока
type UseCase struct {
	store        SessionStore
	slotRepo     SlotRepository
	catalogRepo  CatalogRepository
	reservations ReservationService
	grid         scheduling.Grid
	metrics      Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	store SessionStore,
	slotRepo SlotRepository,
	catalogRepo CatalogRepository,
	reservations ReservationService,
	grid scheduling.Grid,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		store:        store,
		slotRepo:     slotRepo,
		catalogRepo:  catalogRepo,
		reservations: reservations,
		grid:         grid,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute отправляет выбранный блок арбитру целиком.
// Пока подтверждение не завершено, сессия помечена как занятая и не принимает новых кликов.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmReservation: session=%s, actor=%d", req.SessionID, req.Actor.ID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ConfirmReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Бронировать может только клиент
	if !req.Actor.IsClient() {
		uc.logger.Warn("ConfirmReservation: actor=%d with role=%s is not a client", req.Actor.ID, req.Actor.Role)
		return nil, ErrNotClient
	}

	// 3. Получаем сессию и проверяем владельца
	session, err := uc.getSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if session.Actor.ID != req.Actor.ID || session.Actor.Role != req.Actor.Role {
		uc.logger.Warn("ConfirmReservation: session=%s access denied for actor=%d", session.ID, req.Actor.ID)
		return nil, ErrAccessDenied
	}

	// 4. Помечаем сессию занятой
	acquired, err := uc.store.AcquirePending(ctx, session.ID)
	if err != nil {
		uc.logger.Error("ConfirmReservation: failed to acquire pending flag for session=%s: %v", session.ID, err)
		return nil, fmt.Errorf("%w: acquire pending: %v", ErrInternal, err)
	}
	if !acquired {
		uc.logger.Warn("ConfirmReservation: session=%s already has a pending operation", session.ID)
		return nil, ErrOperationPending
	}
	defer func() {
		if err := uc.store.ReleasePending(context.WithoutCancel(ctx), req.SessionID); err != nil {
			uc.logger.Error("ConfirmReservation: failed to release pending flag for session=%s: %v", req.SessionID, err)
		}
	}()

	// 5. Перечитываем сессию под флагом: выбор мог измениться до его установки
	session, err = uc.getSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if !session.HasSelection() {
		uc.logger.Warn("ConfirmReservation: session=%s has no selection", session.ID)
		return nil, ErrEmptySelection
	}

	// 6. Получаем услугу
	service, err := uc.catalogRepo.GetService(ctx, session.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("ConfirmReservation: service id=%d not found", session.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("ConfirmReservation: failed to get service id=%d: %v", session.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	slotIDs := append([]int64(nil), session.SelectedSlotIDs...)

	// 7. Предварительная проверка по свежим данным
	fresh, err := uc.slotRepo.GetByStylistAndDate(ctx, session.StylistID, session.Date)
	if err != nil {
		// Проверка только экономит запрос к арбитру, поэтому сверяемся с последними загруженными данными
		uc.logger.Warn("ConfirmReservation: failed to refetch slots, using cached ones: %v", err)
		fresh = session.Slots
	}
	display := scheduling.Classify(scheduling.ClassifyInput{
		Grid:     uc.grid,
		Date:     session.Date,
		Slots:    fresh,
		Selected: slotIDs,
		Viewer:   session.Actor,
		Service:  service,
	})
	if !selectionStillOffered(display, slotIDs) {
		uc.logger.Warn("ConfirmReservation: session=%s selection is stale, slots=%v", session.ID, slotIDs)
		return uc.reject(ctx, session, service, domain.ReasonSlotTaken), nil
	}

	// 8. Отправляем блок арбитру
	confirmed, err := uc.reservations.CommitReservation(ctx, domain.ReservationRequest{
		SlotIDs:   slotIDs,
		ClientID:  req.Actor.ID,
		ServiceID: service.ID,
		StylistID: session.StylistID,
		Date:      session.Date,
	})
	if err != nil {
		reason := rejectionReason(err)
		if reason == domain.ReasonServerError {
			uc.logger.Error("ConfirmReservation: commit failed for session=%s: %v", session.ID, err)
		} else {
			uc.logger.Warn("ConfirmReservation: commit rejected for session=%s: %v", session.ID, err)
		}
		return uc.reject(ctx, session, service, reason), nil
	}

	// 9. Частичный результат считается полным отказом
	appointmentID, ok := verifyCommitted(confirmed, slotIDs, req.Actor.ID)
	if !ok {
		uc.logger.Error("ConfirmReservation: partial commit for session=%s, requested=%v, confirmed=%d",
			session.ID, slotIDs, len(confirmed))
		return uc.reject(ctx, session, service, domain.ReasonPartialCommit), nil
	}

	// 10. Применяем результат к сессии
	resp := &Response{
		Outcome:        OutcomeConfirmed,
		AppointmentID:  &appointmentID,
		ConfirmedSlots: confirmed,
		Service:        service,
	}

	current, ok := uc.reload(ctx, session)
	if ok {
		current.Slots = mergeSlots(current.Slots, confirmed)
		current.ClearSelection()
		if err := uc.store.Replace(ctx, current); err != nil {
			uc.logger.Error("ConfirmReservation: failed to save session=%s: %v", current.ID, err)
		} else {
			resp.Applied = true
		}
	}
	uc.attach(resp, current)

	uc.metrics.RecordReservation(string(OutcomeConfirmed), "")
	uc.logger.Info("ConfirmReservation: session=%s booked appointment=%s, slots=%d, applied=%t",
		session.ID, appointmentID, len(confirmed), resp.Applied)

	return resp, nil
}

// reject сбрасывает выбор и перечитывает день, чтобы сессия отражала фактическое состояние
func (uc *UseCase) reject(ctx context.Context, session *domain.Session, service *domain.Service, reason domain.RejectionReason) *Response {
	resp := &Response{
		Outcome: OutcomeRejected,
		Reason:  reason,
		Service: service,
	}

	current, ok := uc.reload(ctx, session)
	if ok {
		current.ClearSelection()
		slots, err := uc.slotRepo.GetByStylistAndDate(ctx, current.StylistID, current.Date)
		if err != nil {
			uc.logger.Error("ConfirmReservation: failed to refetch slots after rejection: %v", err)
			current.Slots = nil
			current.LoadFailed = true
		} else {
			current.Slots = slots
			current.LoadFailed = false
		}

		if err := uc.store.Replace(ctx, current); err != nil {
			uc.logger.Error("ConfirmReservation: failed to save session=%s: %v", current.ID, err)
		} else {
			resp.Applied = true
		}
	}
	uc.attach(resp, current)

	uc.metrics.RecordReservation(string(OutcomeRejected), string(reason))
	return resp
}

// reload перечитывает сессию после обращения к арбитру.
// Возвращает false, если сессия закрыта или сменила день/услугу.
func (uc *UseCase) reload(ctx context.Context, started *domain.Session) (*domain.Session, bool) {
	current, err := uc.store.Get(ctx, started.ID)
	if err != nil {
		if !errors.Is(err, sessionstore.ErrSessionNotFound) {
			uc.logger.Error("ConfirmReservation: failed to reload session=%s: %v", started.ID, err)
		} else {
			uc.logger.Info("ConfirmReservation: session=%s closed, result discarded", started.ID)
		}
		return nil, false
	}

	if current.Generation != started.Generation {
		uc.logger.Info("ConfirmReservation: session=%s changed (generation %d -> %d), result discarded",
			started.ID, started.Generation, current.Generation)
		return current, false
	}

	return current, true
}

// attach добавляет в ответ состояние сессии
func (uc *UseCase) attach(resp *Response, session *domain.Session) {
	if session == nil {
		return
	}
	resp.Session = session

	service := resp.Service
	if service != nil && service.ID != session.ServiceID {
		// Сессия сменила услугу, допустимые начала блока посчитать не по чему
		service = nil
	}
	resp.Display = scheduling.ClassifySession(uc.grid, session, service)
}

func (uc *UseCase) getSession(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	session, err := uc.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sessionstore.ErrSessionNotFound) {
			uc.logger.Warn("ConfirmReservation: session=%s not found", id)
			return nil, ErrSessionNotFound
		}
		uc.logger.Error("ConfirmReservation: failed to get session=%s: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get session: %v", ErrInternal, err)
	}
	return session, nil
}

// mergeSlots заменяет записи слотов подтвержденными, остальной день не трогает
func mergeSlots(slots, confirmed []*domain.Slot) []*domain.Slot {
	byID := make(map[int64]*domain.Slot, len(confirmed))
	for _, slot := range confirmed {
		byID[slot.ID] = slot
	}

	merged := make([]*domain.Slot, 0, len(slots))
	for _, slot := range slots {
		if updated, ok := byID[slot.ID]; ok {
			merged = append(merged, updated)
			delete(byID, slot.ID)
			continue
		}
		merged = append(merged, slot)
	}
	for _, slot := range confirmed {
		if _, ok := byID[slot.ID]; ok {
			merged = append(merged, slot)
		}
	}

	return merged
}

// rejectionReason переводит ошибку арбитра в код причины
func rejectionReason(err error) domain.RejectionReason {
	switch {
	case errors.Is(err, reservations.ErrSlotTaken), errors.Is(err, reservations.ErrSlotNotFound):
		return domain.ReasonSlotTaken
	case errors.Is(err, reservations.ErrInvalidBlock),
		errors.Is(err, reservations.ErrInvalidInput),
		errors.Is(err, reservations.ErrServiceNotFound):
		return domain.ReasonValidation
	default:
		return domain.ReasonServerError
	}
}
