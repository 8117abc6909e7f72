package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// EnvConfigPath переменная окружения, переопределяющая путь к файлу конфигурации
const EnvConfigPath = "CONFIG_PATH"

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Config конфигурация сервиса
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Logs        LogsConfig        `toml:"logs"`
	Metrics     MetricsConfig     `toml:"metrics"`
	UserService UserServiceConfig `toml:"user_service"`
	Schedule    ScheduleConfig    `toml:"schedule"`
	Session     SessionConfig     `toml:"session"`
	Redis       RedisConfig       `toml:"redis"`
	RateLimit   RateLimitConfig   `toml:"rate_limit"`
}

// ServerConfig параметры HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig параметры подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// UserServiceConfig клиент сервиса пользователей.
// TrustRoleHeader разрешает брать роль из заголовка X-User-Role без запроса в UserService.
type UserServiceConfig struct {
	URL             string `toml:"url"`
	Timeout         int    `toml:"timeout"` // секунды
	TrustRoleHeader bool   `toml:"trust_role_header"`
}

// ScheduleConfig сетка рабочего дня
type ScheduleConfig struct {
	DayStart            string `toml:"day_start"` // "09:00"
	DayEnd              string `toml:"day_end"`   // "20:00"
	SlotDurationMinutes int    `toml:"slot_duration_minutes"`
}

// SessionConfig хранилище сессий бронирования.
// Store: memory или redis. TTL и PendingTTL в секундах.
type SessionConfig struct {
	Store           string `toml:"store"`
	TTL             int    `toml:"ttl"`
	PendingTTL      int    `toml:"pending_ttl"`
	JanitorSchedule string `toml:"janitor_schedule"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// RateLimitConfig ограничение частоты запросов на пользователя
type RateLimitConfig struct {
	Enabled   bool    `toml:"enabled"`
	PerSecond float64 `toml:"per_second"`
	Burst     int     `toml:"burst"`
}

// TTLDuration время жизни сессии
func (s SessionConfig) TTLDuration() time.Duration {
	return time.Duration(s.TTL) * time.Second
}

// PendingTTLDuration время жизни флага незавершенного подтверждения
func (s SessionConfig) PendingTTLDuration() time.Duration {
	return time.Duration(s.PendingTTL) * time.Second
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "salon_booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "salon_booking",
		},
		UserService: UserServiceConfig{
			URL:     "http://localhost:8081",
			Timeout: 5,
		},
		Schedule: ScheduleConfig{
			DayStart:            "09:00",
			DayEnd:              "20:00",
			SlotDurationMinutes: 30,
		},
		Session: SessionConfig{
			Store:           SessionStoreMemory,
			TTL:             1800,
			PendingTTL:      30,
			JanitorSchedule: "@every 1m",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		RateLimit: RateLimitConfig{
			PerSecond: 5,
			Burst:     10,
		},
	}
}

// Load читает конфигурацию из TOML файла поверх значений по умолчанию.
// Если задана переменная CONFIG_PATH, путь берется из нее.
func Load(path string) (*Config, error) {
	if env := os.Getenv(EnvConfigPath); env != "" {
		path = env
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность параметров
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port must be in 1..65535, got %d", c.Server.HTTPPort))
	}

	start, err := types.NewTimeStringFromString(c.Schedule.DayStart)
	if err != nil {
		errs = append(errs, fmt.Errorf("schedule.day_start: %w", err))
	}
	end, err := types.NewTimeStringFromString(c.Schedule.DayEnd)
	if err != nil {
		errs = append(errs, fmt.Errorf("schedule.day_end: %w", err))
	}
	if c.Schedule.SlotDurationMinutes <= 0 {
		errs = append(errs, fmt.Errorf("schedule.slot_duration_minutes must be positive"))
	}
	if start != "" && end != "" && start.Minutes() >= end.Minutes() {
		errs = append(errs, fmt.Errorf("schedule.day_start %s must be before day_end %s", start, end))
	}

	switch c.Session.Store {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		errs = append(errs, fmt.Errorf("session.store must be %q or %q, got %q",
			SessionStoreMemory, SessionStoreRedis, c.Session.Store))
	}
	if c.Session.TTL <= 0 || c.Session.PendingTTL <= 0 {
		errs = append(errs, fmt.Errorf("session.ttl and session.pending_ttl must be positive"))
	}

	if c.RateLimit.Enabled && (c.RateLimit.PerSecond <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, fmt.Errorf("rate_limit.per_second and rate_limit.burst must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
