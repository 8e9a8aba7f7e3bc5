package config

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig returned when a loaded config fails validation
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config application configuration loaded from config.toml
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Redis     RedisConfig     `toml:"redis"`
	Distance  DistanceConfig  `toml:"distance"`
	Business  BusinessConfig  `toml:"business"`
	Manager   ManagerConfig   `toml:"manager"`
	CORS      CORSConfig      `toml:"cors"`
	Jobs      JobsConfig      `toml:"jobs"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // seconds
	WriteTimeout    int `toml:"write_timeout"`    // seconds
	IdleTimeout     int `toml:"idle_timeout"`     // seconds
	ShutdownTimeout int `toml:"shutdown_timeout"` // seconds
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // seconds
}

// DSN connection string for lib/pq
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

type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// TTL day state cache lifetime
func (r RedisConfig) TTL() time.Duration {
	return time.Duration(r.TTLSeconds) * time.Second
}

// DistanceConfig postcode geocoder and the business base location
type DistanceConfig struct {
	GeocoderURL string  `toml:"geocoder_url"`
	Timeout     int     `toml:"timeout"` // seconds
	BaseLat     float64 `toml:"base_lat"`
	BaseLng     float64 `toml:"base_lng"`
	RoadFactor  float64 `toml:"road_factor"` // crow-flies to driving miles
}

type BusinessConfig struct {
	Timezone             string `toml:"timezone"`
	AdvanceBookingDays   int    `toml:"advance_booking_days"` // 0 = unlimited
	ClosedOnBankHolidays bool   `toml:"closed_on_bank_holidays"`
	CatalogFile          string `toml:"catalog_file"` // empty = built-in catalog
}

// Location parsed business timezone
func (b BusinessConfig) Location() (*time.Location, error) {
	return time.LoadLocation(b.Timezone)
}

type ManagerConfig struct {
	Token string `toml:"token"`
}

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

type JobsConfig struct {
	CompletionEnabled  bool   `toml:"completion_enabled"`
	CompletionSchedule string `toml:"completion_schedule"`
}

// RateLimitConfig per-IP limit on the public quote and booking endpoints
type RateLimitConfig struct {
	Enabled           bool     `toml:"enabled"`
	RequestsPerMinute int      `toml:"requests_per_minute"`
	Burst             int      `toml:"burst"`
	TrustedProxies    []string `toml:"trusted_proxies"` // CIDRs or addresses allowed to set X-Forwarded-For
}

// TrustedProxyPrefixes parses TrustedProxies; a bare address is a single-host prefix
func (r RateLimitConfig) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(r.TrustedProxies))
	for _, raw := range r.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, err
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, err
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// Load reads the config file, applies defaults and validates the result
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default configuration used as a base for Load
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
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "garden_booking",
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			TTLSeconds: 60,
		},
		Distance: DistanceConfig{
			Timeout:    3,
			RoadFactor: 1.3,
		},
		Business: BusinessConfig{
			Timezone:           "Europe/London",
			AdvanceBookingDays: 90,
		},
		Jobs: JobsConfig{
			CompletionSchedule: "@hourly",
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			Burst:             10,
		},
	}
}

// Validate checks the values that would otherwise fail late at runtime
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port out of range", ErrInvalidConfig)
	}
	if c.Business.AdvanceBookingDays < 0 {
		return fmt.Errorf("%w: business.advance_booking_days must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Business.Location(); err != nil {
		return fmt.Errorf("%w: business.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Distance.RoadFactor < 1 {
		return fmt.Errorf("%w: distance.road_factor must be >= 1", ErrInvalidConfig)
	}
	if c.Redis.Enabled && c.Redis.TTLSeconds <= 0 {
		return fmt.Errorf("%w: redis.ttl_seconds must be positive", ErrInvalidConfig)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: rate_limit values must be positive", ErrInvalidConfig)
	}
	if _, err := c.RateLimit.TrustedProxyPrefixes(); err != nil {
		return fmt.Errorf("%w: rate_limit.trusted_proxies: %v", ErrInvalidConfig, err)
	}
	if c.Manager.Token == "" {
		return fmt.Errorf("%w: manager.token is required", ErrInvalidConfig)
	}
	return nil
}
