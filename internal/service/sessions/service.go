package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/sessionstore"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	"github.com/m04kA/SMC-SalonBooking/internal/service/sessions/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Service сервис сессий бронирования: один клиент, один стилист, один день, одна услуга
type Service struct {
	slotRepo     SlotRepository
	catalogRepo  CatalogRepository
	store        SessionStore
	grid         scheduling.Grid
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса сессий
func NewService(
	slotRepo SlotRepository,
	catalogRepo CatalogRepository,
	store SessionStore,
	grid scheduling.Grid,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:     slotRepo,
		catalogRepo:  catalogRepo,
		store:        store,
		grid:         grid,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Open открывает сессию и загружает день стилиста
func (s *Service) Open(ctx context.Context, req *models.OpenSessionRequest) (*models.SessionView, error) {
	s.logger.Info("Open: actor=%d, stylist=%d, service=%d, date=%s",
		req.Actor.ID, req.StylistID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if req.Actor.ID <= 0 || req.StylistID <= 0 || req.ServiceID <= 0 || req.Date.IsZero() {
		return nil, fmt.Errorf("%w: actor, stylist, service and date are required", ErrInvalidInput)
	}

	// 2. Бронировать может только клиент
	if !req.Actor.IsClient() {
		s.logger.Warn("Open: actor=%d with role=%s is not a client", req.Actor.ID, req.Actor.Role)
		return nil, ErrNotClient
	}

	// 3. Дата не раньше сегодняшней
	if err := s.checkDate(req.Date); err != nil {
		return nil, err
	}

	// 4. Проверяем услугу и стилиста
	service, err := s.getService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if _, err := s.catalogRepo.GetStylist(ctx, req.StylistID); err != nil {
		if errors.Is(err, catalogRepo.ErrStylistNotFound) {
			s.logger.Warn("Open: stylist id=%d not found", req.StylistID)
			return nil, ErrStylistNotFound
		}
		s.logger.Error("Open: failed to get stylist id=%d: %v", req.StylistID, err)
		return nil, fmt.Errorf("%w: Open - get stylist: %v", ErrInternal, err)
	}

	// 5. Создаем сессию и загружаем день
	now := s.timeProvider.Now()
	session := &domain.Session{
		ID:        uuid.New(),
		Actor:     req.Actor,
		StylistID: req.StylistID,
		Date:      domain.DateOnly(req.Date),
		ServiceID: req.ServiceID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.load(ctx, session)

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("Open: session=%s opened, slots=%d, loadFailed=%t", session.ID, len(session.Slots), session.LoadFailed)
	return s.view(ctx, session, service), nil
}

// Get возвращает текущее состояние сессии
func (s *Service) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*models.SessionView, error) {
	session, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	service, err := s.getService(ctx, session.ServiceID)
	if err != nil {
		return nil, err
	}

	return s.view(ctx, session, service), nil
}

// Select обрабатывает клик по позиции сетки
func (s *Service) Select(ctx context.Context, actor domain.Actor, id uuid.UUID, start types.TimeString) (*models.SessionView, error) {
	s.logger.Info("Select: session=%s, actor=%d, start=%s", id, actor.ID, start)

	session, release, err := s.hold(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	defer release()

	service, err := s.getService(ctx, session.ServiceID)
	if err != nil {
		return nil, err
	}

	display := scheduling.ClassifySession(s.grid, session, service)
	current := scheduling.NewSelection(session.SelectedStart, session.SelectedSlotIDs)

	next, err := current.Select(display, start, service)
	if err != nil {
		reason, mapped := mapSelectionError(err)
		s.metrics.RecordSelectionRejection(string(reason))
		s.logger.Warn("Select: session=%s rejected start=%s: %v", session.ID, start, err)
		return nil, mapped
	}

	session.SelectedStart = next.Start()
	session.SelectedSlotIDs = next.SlotIDs()
	if next.IsEmpty() {
		session.ClearSelection()
	}
	session.UpdatedAt = s.timeProvider.Now()

	if err := s.replace(ctx, session); err != nil {
		return nil, err
	}

	return s.heldView(session, service), nil
}

// ClearSelection сбрасывает выбранный блок
func (s *Service) ClearSelection(ctx context.Context, actor domain.Actor, id uuid.UUID) (*models.SessionView, error) {
	session, release, err := s.hold(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	defer release()

	service, err := s.getService(ctx, session.ServiceID)
	if err != nil {
		return nil, err
	}

	session.ClearSelection()
	session.UpdatedAt = s.timeProvider.Now()

	if err := s.replace(ctx, session); err != nil {
		return nil, err
	}

	return s.heldView(session, service), nil
}

// Update меняет услугу и/или дату. Любое изменение сбрасывает выбор и перезагружает день.
func (s *Service) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, req *models.UpdateSessionRequest) (*models.SessionView, error) {
	s.logger.Info("Update: session=%s, actor=%d", id, actor.ID)

	session, release, err := s.hold(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	defer release()

	changed := false

	if req.ServiceID != nil && *req.ServiceID != session.ServiceID {
		if *req.ServiceID <= 0 {
			return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
		}
		if _, err := s.getService(ctx, *req.ServiceID); err != nil {
			return nil, err
		}
		session.ServiceID = *req.ServiceID
		changed = true
	}

	if req.Date != nil && !domain.SameDate(*req.Date, session.Date) {
		if err := s.checkDate(*req.Date); err != nil {
			return nil, err
		}
		session.Date = domain.DateOnly(*req.Date)
		changed = true
	}

	service, err := s.getService(ctx, session.ServiceID)
	if err != nil {
		return nil, err
	}

	if changed {
		session.Generation++
		session.ClearSelection()
		s.load(ctx, session)
		session.UpdatedAt = s.timeProvider.Now()

		if err := s.replace(ctx, session); err != nil {
			return nil, err
		}
		s.logger.Info("Update: session=%s switched to service=%d, date=%s, generation=%d",
			session.ID, session.ServiceID, session.Date.Format(domain.DateFormat), session.Generation)
	}

	return s.heldView(session, service), nil
}

// Refresh перезагружает день. Выбор сохраняется, если все его слоты по-прежнему свободны.
func (s *Service) Refresh(ctx context.Context, actor domain.Actor, id uuid.UUID) (*models.SessionView, error) {
	s.logger.Info("Refresh: session=%s, actor=%d", id, actor.ID)

	session, release, err := s.hold(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	defer release()

	service, err := s.getService(ctx, session.ServiceID)
	if err != nil {
		return nil, err
	}

	s.load(ctx, session)

	selection := scheduling.NewSelection(session.SelectedStart, session.SelectedSlotIDs).
		Reconcile(scheduling.ClassifySession(s.grid, session, service), service.SlotSpan)
	if selection.IsEmpty() && session.HasSelection() {
		s.logger.Info("Refresh: session=%s selection dropped, slots are no longer free", session.ID)
		session.ClearSelection()
	}
	session.UpdatedAt = s.timeProvider.Now()

	if err := s.replace(ctx, session); err != nil {
		return nil, err
	}

	return s.heldView(session, service), nil
}

// Close закрывает сессию. Результаты незавершенных операций к ней уже не применяются.
func (s *Service) Close(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	session, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, session.ID); err != nil {
		s.logger.Error("Close: failed to delete session=%s: %v", session.ID, err)
		return fmt.Errorf("%w: Close - delete session: %v", ErrInternal, err)
	}

	s.logger.Info("Close: session=%s closed", session.ID)
	return nil
}

func (s *Service) getOwned(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Session, error) {
	if actor.ID <= 0 || id == uuid.Nil {
		return nil, fmt.Errorf("%w: actor and session id are required", ErrInvalidInput)
	}

	session, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sessionstore.ErrSessionNotFound) {
			s.logger.Warn("session=%s not found", id)
			return nil, ErrSessionNotFound
		}
		s.logger.Error("failed to get session=%s: %v", id, err)
		return nil, fmt.Errorf("%w: get session: %v", ErrInternal, err)
	}

	if session.Actor.ID != actor.ID || session.Actor.Role != actor.Role {
		s.logger.Warn("session=%s access denied for actor=%d", id, actor.ID)
		return nil, ErrAccessDenied
	}

	return session, nil
}

// hold ставит флаг операции и перечитывает сессию уже под ним.
// Пока флаг стоит, подтверждение и другие изменения сессии получают ErrOperationPending.
func (s *Service) hold(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Session, func(), error) {
	if _, err := s.getOwned(ctx, actor, id); err != nil {
		return nil, nil, err
	}

	acquired, err := s.store.AcquirePending(ctx, id)
	if err != nil {
		s.logger.Error("failed to acquire pending flag for session=%s: %v", id, err)
		return nil, nil, fmt.Errorf("%w: acquire pending: %v", ErrInternal, err)
	}
	if !acquired {
		s.logger.Warn("session=%s already has a pending operation", id)
		return nil, nil, ErrOperationPending
	}

	release := func() {
		if err := s.store.ReleasePending(context.WithoutCancel(ctx), id); err != nil {
			s.logger.Error("failed to release pending flag for session=%s: %v", id, err)
		}
	}

	session, err := s.getOwned(ctx, actor, id)
	if err != nil {
		release()
		return nil, nil, err
	}

	return session, release, nil
}

func (s *Service) getService(ctx context.Context, id int64) (*domain.Service, error) {
	service, err := s.catalogRepo.GetService(ctx, id)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			s.logger.Warn("service id=%d not found", id)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("failed to get service id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: get service: %v", ErrInternal, err)
	}
	return service, nil
}

// checkDate запрещает даты раньше сегодняшней
func (s *Service) checkDate(date time.Time) error {
	today := domain.DateOnly(s.timeProvider.Now())
	if domain.DateOnly(date).Before(today) {
		s.logger.Warn("date %s is in the past", date.Format(domain.DateFormat))
		return fmt.Errorf("%w: %s", ErrDateInPast, date.Format(domain.DateFormat))
	}
	return nil
}

// load перечитывает слоты дня. При ошибке день остается пустым с флагом LoadFailed.
func (s *Service) load(ctx context.Context, session *domain.Session) {
	slots, err := s.slotRepo.GetByStylistAndDate(ctx, session.StylistID, session.Date)
	if err != nil {
		s.logger.Error("failed to load slots for stylist=%d, date=%s: %v",
			session.StylistID, session.Date.Format(domain.DateFormat), err)
		session.Slots = nil
		session.LoadFailed = true
		return
	}
	for _, slot := range slots {
		if err := slot.CheckIntegrity(); err != nil {
			s.logger.Warn("slot=%d of stylist=%d: %v", slot.ID, session.StylistID, err)
		}
	}
	session.Slots = slots
	session.LoadFailed = false
}

func (s *Service) save(ctx context.Context, session *domain.Session) error {
	if err := s.store.Save(ctx, session); err != nil {
		s.logger.Error("failed to save session=%s: %v", session.ID, err)
		return fmt.Errorf("%w: save session: %v", ErrInternal, err)
	}
	return nil
}

// replace сохраняет изменения, не восстанавливая закрытую за это время сессию
func (s *Service) replace(ctx context.Context, session *domain.Session) error {
	if err := s.store.Replace(ctx, session); err != nil {
		if errors.Is(err, sessionstore.ErrSessionNotFound) {
			s.logger.Warn("session=%s closed before save", session.ID)
			return ErrSessionNotFound
		}
		s.logger.Error("failed to save session=%s: %v", session.ID, err)
		return fmt.Errorf("%w: save session: %v", ErrInternal, err)
	}
	return nil
}

// heldView собирает ответ операции, которая сама держит флаг
func (s *Service) heldView(session *domain.Session, service *domain.Service) *models.SessionView {
	display := scheduling.ClassifySession(s.grid, session, service)
	return models.NewSessionView(session, service, display, false)
}

func (s *Service) view(ctx context.Context, session *domain.Session, service *domain.Service) *models.SessionView {
	pending, err := s.store.IsPending(ctx, session.ID)
	if err != nil {
		s.logger.Warn("failed to check pending flag for session=%s: %v", session.ID, err)
	}
	display := scheduling.ClassifySession(s.grid, session, service)
	return models.NewSessionView(session, service, display, pending)
}

// mapSelectionError переводит отказ автомата выбора в ошибку сервиса и код причины
func mapSelectionError(err error) (domain.RejectionReason, error) {
	switch {
	case errors.Is(err, scheduling.ErrAlreadyBooked):
		return domain.ReasonAlreadyBooked, ErrAlreadyBooked
	case errors.Is(err, scheduling.ErrNotOffered):
		return domain.ReasonNotOffered, ErrNotOffered
	case errors.Is(err, scheduling.ErrInsufficientCapacity):
		return domain.ReasonInsufficientCapacity, ErrInsufficientCapacity
	case errors.Is(err, scheduling.ErrSlotNotOnGrid):
		return domain.ReasonNotOnGrid, ErrSlotNotOnGrid
	case errors.Is(err, scheduling.ErrNoService):
		return domain.ReasonNoService, ErrServiceNotFound
	default:
		return domain.ReasonServerError, fmt.Errorf("%w: select: %v", ErrInternal, err)
	}
}
