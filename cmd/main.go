package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	cancelAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/cancel_appointment"
	clearSelectionHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/clear_selection"
	closeSessionHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/close_session"
	confirmReservationHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/confirm_reservation"
	getClientAppointmentsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_client_appointments"
	getSalonStylistsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_salon_stylists"
	getServicesHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_services"
	getSessionHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_session"
	getStylistCalendarHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_stylist_calendar"
	openCalendarDayHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/open_calendar_day"
	openCalendarSlotHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/open_calendar_slot"
	openSessionHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/open_session"
	refreshSessionHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/refresh_session"
	selectSlotHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/select_slot"
	updateCalendarSlotHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_calendar_slot"
	updateSessionHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_session"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/config"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/sessionstore"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	slotRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/slot"
	userServiceClient "github.com/m04kA/SMC-SalonBooking/internal/integrations/userservice"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	appointmentsService "github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
	calendarService "github.com/m04kA/SMC-SalonBooking/internal/service/calendar"
	catalogService "github.com/m04kA/SMC-SalonBooking/internal/service/catalog"
	reservationsService "github.com/m04kA/SMC-SalonBooking/internal/service/reservations"
	sessionsService "github.com/m04kA/SMC-SalonBooking/internal/service/sessions"
	cancelAppointmentUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/cancel_appointment"
	confirmReservationUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/confirm_reservation"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

const (
	configPath = "config.toml"

	rateLimiterCleanupSchedule = "@every 5m"
	rateLimiterMaxIdle         = 10 * time.Minute
)

// domainMetrics доменные счетчики: prometheus или заглушка при выключенных метриках
type domainMetrics interface {
	RecordReservation(outcome, reason string)
	RecordCancellation(outcome string)
	RecordSelectionRejection(reason string)
}

// sessionStore хранилище сессий в памяти или в Redis
type sessionStore interface {
	sessionsService.SessionStore
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-SalonBooking...")

	// Инициализируем метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		recorder         domainMetrics = metrics.Nop{}
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		recorder = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// С nil метриками обёртка просто проксирует запросы
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Сетка рабочего дня
	grid := scheduling.GenerateGrid(
		types.TimeString(cfg.Schedule.DayStart),
		types.TimeString(cfg.Schedule.DayEnd),
		cfg.Schedule.SlotDurationMinutes,
	)
	log.Info("Day grid: %s-%s, %d positions of %d min",
		cfg.Schedule.DayStart, cfg.Schedule.DayEnd, len(grid), cfg.Schedule.SlotDurationMinutes)

	// Хранилище сессий
	store, janitor, err := newSessionStore(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize session store: %v", err)
	}

	// Интеграционные клиенты
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	log.Info("UserService client initialized (url=%s, timeout=%ds, trust_role_header=%t)",
		cfg.UserService.URL, cfg.UserService.Timeout, cfg.UserService.TrustRoleHeader)

	// Репозитории
	slotRepository := slotRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)

	// Сервисы
	reservationsSvc := reservationsService.NewService(slotRepository, catalogRepository, txMgr, log)
	sessionsSvc := sessionsService.NewService(slotRepository, catalogRepository, store, grid, recorder, log)
	calendarSvc := calendarService.NewService(slotRepository, catalogRepository, txMgr, grid, log)
	appointmentsSvc := appointmentsService.NewService(slotRepository, log)
	catalogSvc := catalogService.NewService(catalogRepository, log)

	// Use cases
	confirmReservationUseCase := confirmReservationUC.NewUseCase(
		store,
		slotRepository,
		catalogRepository,
		reservationsSvc,
		grid,
		recorder,
		log,
	)
	cancelAppointmentUseCase := cancelAppointmentUC.NewUseCase(reservationsSvc, recorder, log)

	// Handlers
	openSession := openSessionHandler.NewHandler(sessionsSvc, log)
	getSession := getSessionHandler.NewHandler(sessionsSvc, log)
	updateSession := updateSessionHandler.NewHandler(sessionsSvc, log)
	refreshSession := refreshSessionHandler.NewHandler(sessionsSvc, log)
	selectSlot := selectSlotHandler.NewHandler(sessionsSvc, log)
	clearSelection := clearSelectionHandler.NewHandler(sessionsSvc, log)
	closeSession := closeSessionHandler.NewHandler(sessionsSvc, log)
	confirmReservation := confirmReservationHandler.NewHandler(confirmReservationUseCase, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(cancelAppointmentUseCase, log)
	getClientAppointments := getClientAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getStylistCalendar := getStylistCalendarHandler.NewHandler(calendarSvc, log)
	openCalendarSlot := openCalendarSlotHandler.NewHandler(calendarSvc, log)
	openCalendarDay := openCalendarDayHandler.NewHandler(calendarSvc, log)
	updateCalendarSlot := updateCalendarSlotHandler.NewHandler(calendarSvc, log)
	getServices := getServicesHandler.NewHandler(catalogSvc, log)
	getSalonStylists := getSalonStylistsHandler.NewHandler(catalogSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/services", getServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/salons/{salonId}/stylists", getSalonStylists.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(userClient, cfg.UserService.TrustRoleHeader, log))

	var scheduler *cron.Cron
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst, log)
		protected.Use(limiter.Middleware())

		scheduler = cron.New()
		if _, err := scheduler.AddFunc(rateLimiterCleanupSchedule, func() {
			if removed := limiter.Cleanup(rateLimiterMaxIdle); removed > 0 {
				log.Info("Rate limiter: removed %d idle users", removed)
			}
		}); err != nil {
			log.Fatal("Failed to schedule rate limiter cleanup: %v", err)
		}
		scheduler.Start()
		log.Info("Rate limit enabled: %.1f req/s, burst %d", cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)
	}

	// --- Сессии бронирования ---
	protected.HandleFunc("/sessions", openSession.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{sessionId}", getSession.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/sessions/{sessionId}", updateSession.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/sessions/{sessionId}", closeSession.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/sessions/{sessionId}/refresh", refreshSession.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{sessionId}/select", selectSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/{sessionId}/selection", clearSelection.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/sessions/{sessionId}/confirm", confirmReservation.Handle).Methods(http.MethodPost)

	// --- Записи клиентов ---
	protected.HandleFunc("/appointments/{slotId}/cancel", cancelAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/clients/{clientId}/appointments", getClientAppointments.Handle).Methods(http.MethodGet)

	// --- Календарь (для сотрудников и администраторов) ---
	staff := protected.PathPrefix("").Subrouter()
	staff.Use(middleware.RequireRole(log, domain.RoleEmployee, domain.RoleAdmin))

	staff.HandleFunc("/stylists/{stylistId}/calendar", getStylistCalendar.Handle).Methods(http.MethodGet)
	staff.HandleFunc("/stylists/{stylistId}/calendar/slots", openCalendarSlot.Handle).Methods(http.MethodPost)
	staff.HandleFunc("/stylists/{stylistId}/calendar/days", openCalendarDay.Handle).Methods(http.MethodPost)
	staff.HandleFunc("/calendar/slots/{slotId}", updateCalendarSlot.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	if janitor != nil {
		<-janitor.Stop().Done()
	}
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}

// newSessionStore создает хранилище сессий по конфигурации.
// Для хранилища в памяти запускается очистка истекших сессий.
func newSessionStore(cfg *config.Config, log *logger.Logger) (sessionStore, *cron.Cron, error) {
	ttl := cfg.Session.TTLDuration()
	pendingTTL := cfg.Session.PendingTTLDuration()

	if cfg.Session.Store == config.SessionStoreRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.Redis.Addr, err)
		}

		log.Info("Session store: redis (addr=%s, ttl=%s)", cfg.Redis.Addr, ttl)
		return sessionstore.NewRedisStore(client, ttl, pendingTTL), nil, nil
	}

	store := sessionstore.NewMemoryStore(ttl, pendingTTL)
	janitor, err := sessionstore.StartJanitor(store, cfg.Session.JanitorSchedule, log)
	if err != nil {
		return nil, nil, err
	}

	log.Info("Session store: memory (ttl=%s, janitor=%s)", ttl, cfg.Session.JanitorSchedule)
	return store, janitor, nil
}
