package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/pkg/types"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Storage  StorageConfig  `toml:"storage"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Salon    SalonConfig    `toml:"salon"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Staff    StaffConfig    `toml:"staff"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
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

// DSN возвращает строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// StorageConfig выбор хранилища: postgres или memory
type StorageConfig struct {
	Driver string `toml:"driver"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// SalonConfig часовой пояс, часы работы и политика hold
type SalonConfig struct {
	Timezone                string                `toml:"timezone"`
	HoldTTLMinutes          int                   `toml:"hold_ttl_minutes"`
	HoldSweepSchedule       string                `toml:"hold_sweep_schedule"`
	SlotStepMinutes         int                   `toml:"slot_step_minutes"`
	MinBookingNoticeMinutes int                   `toml:"min_booking_notice_minutes"`
	AdvanceBookingDays      int                   `toml:"advance_booking_days"`
	Hours                   map[string]HoursRange `toml:"hours"` // ключ: monday..sunday
}

// HoursRange время открытия и закрытия ("09:00", "20:00")
type HoursRange struct {
	Open  string `toml:"open"`
	Close string `toml:"close"`
}

// CatalogConfig пулы ресурсов и услуги
type CatalogConfig struct {
	Pools    []PoolConfig    `toml:"pools"`
	Services []ServiceConfig `toml:"services"`
}

// PoolConfig пул ресурсов одной категории; порядок ресурсов задаёт приоритет выбора
type PoolConfig struct {
	Category  string   `toml:"category"`
	Resources []string `toml:"resources"`
}

// ServiceConfig услуга. Для комбо заполняется Combo, Category игнорируется.
type ServiceConfig struct {
	ID              string       `toml:"id"`
	Name            string       `toml:"name"`
	DurationMinutes int          `toml:"duration_minutes"`
	Price           string       `toml:"price"`
	Category        string       `toml:"category"`
	Combo           *ComboConfig `toml:"combo"`
}

// ComboConfig разбиение комбо-услуги на две части
type ComboConfig struct {
	LegACategory string `toml:"leg_a_category"`
	LegAMinutes  int    `toml:"leg_a_minutes"`
	LegBCategory string `toml:"leg_b_category"`
	LegBMinutes  int    `toml:"leg_b_minutes"`
	Primary      string `toml:"primary"` // "a" или "b"
}

// StaffConfig справочник сотрудников
type StaffConfig struct {
	Roster []string `toml:"roster"`
}

// Load читает TOML файл, применяет переменные окружения (и .env, если есть)
// и проверяет результат
func Load(path string) (*Config, error) {
	// .env необязателен; уже заданные переменные окружения не перезаписываются
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to load .env: %w", err)
	}

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
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
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Storage: StorageConfig{Driver: DriverPostgres},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "salon-booking"},
		Salon: SalonConfig{
			Timezone:          "UTC",
			HoldTTLMinutes:    15,
			HoldSweepSchedule: "@every 1m",
			SlotStepMinutes:   30,
		},
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid HTTP_PORT %q: %w", v, err)
		}
		c.Server.HTTPPort = port
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logs.Level = v
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	return nil
}

// Validate проверяет конфигурацию и собирает каталоги, чтобы ошибки
// всплывали при старте
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("config: invalid server.http_port %d", c.Server.HTTPPort)
	}
	if c.Storage.Driver != DriverPostgres && c.Storage.Driver != DriverMemory {
		return fmt.Errorf("config: unknown storage.driver %q", c.Storage.Driver)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Salon.HoldTTLMinutes <= 0 {
		return fmt.Errorf("config: salon.hold_ttl_minutes must be positive")
	}
	if len(c.Staff.Roster) == 0 {
		return fmt.Errorf("config: staff.roster is empty")
	}
	if _, _, err := c.Catalogs(); err != nil {
		return err
	}
	if _, err := c.SalonHours(); err != nil {
		return err
	}
	return nil
}

// Location возвращает часовой пояс салона
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Salon.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid salon.timezone %q: %w", c.Salon.Timezone, err)
	}
	return loc, nil
}

// HoldTTL время жизни неподтверждённого бронирования
func (c *Config) HoldTTL() time.Duration {
	return time.Duration(c.Salon.HoldTTLMinutes) * time.Minute
}

// Catalogs собирает каталог ресурсов и каталог услуг
func (c *Config) Catalogs() (*domain.ResourceCatalog, *domain.ServiceCatalog, error) {
	pools := make([]domain.Pool, 0, len(c.Catalog.Pools))
	for _, p := range c.Catalog.Pools {
		pools = append(pools, domain.Pool{
			Category:    domain.Category(p.Category),
			ResourceIDs: p.Resources,
		})
	}

	resources, err := domain.NewResourceCatalog(pools)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	defs := make([]*domain.ServiceDefinition, 0, len(c.Catalog.Services))
	for _, s := range c.Catalog.Services {
		def, err := s.toDomain()
		if err != nil {
			return nil, nil, err
		}
		defs = append(defs, def)
	}

	services, err := domain.NewServiceCatalog(defs, resources)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	return resources, services, nil
}

func (s ServiceConfig) toDomain() (*domain.ServiceDefinition, error) {
	price := decimal.Zero
	if s.Price != "" {
		p, err := decimal.NewFromString(s.Price)
		if err != nil {
			return nil, fmt.Errorf("config: service %q: invalid price %q: %w", s.ID, s.Price, err)
		}
		if p.IsNegative() {
			return nil, fmt.Errorf("config: service %q: negative price", s.ID)
		}
		price = p
	}

	def := &domain.ServiceDefinition{
		ID:              s.ID,
		Name:            s.Name,
		DurationMinutes: s.DurationMinutes,
		UnitPrice:       price,
		Category:        domain.Category(s.Category),
	}

	if s.Combo != nil {
		def.Category = ""
		def.Combo = &domain.ComboSplit{
			LegA:    domain.LegSpec{Category: domain.Category(s.Combo.LegACategory), DurationMinutes: s.Combo.LegAMinutes},
			LegB:    domain.LegSpec{Category: domain.Category(s.Combo.LegBCategory), DurationMinutes: s.Combo.LegBMinutes},
			Primary: domain.LegKey(strings.ToLower(s.Combo.Primary)),
		}
	}

	return def, nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// SalonHours собирает расписание работы салона. Дни без записи считаются выходными.
func (c *Config) SalonHours() (*domain.SalonHours, error) {
	hours := &domain.SalonHours{
		SlotStepMinutes:         c.Salon.SlotStepMinutes,
		MinBookingNoticeMinutes: c.Salon.MinBookingNoticeMinutes,
		AdvanceBookingDays:      c.Salon.AdvanceBookingDays,
	}

	for name, r := range c.Salon.Hours {
		wd, ok := weekdays[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("config: unknown weekday %q in salon.hours", name)
		}
		hours.Week[wd] = domain.DaySchedule{
			Open:  types.TimeString(r.Open),
			Close: types.TimeString(r.Close),
		}
	}

	if err := hours.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return hours, nil
}
