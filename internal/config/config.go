package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Cache       CacheConfig
	Log         LogConfig
	Overpass    OverpassConfig
	EntityStore EntityStoreConfig
	Nominatim   NominatimConfig
	Fusion      FusionConfig
	Session     SessionConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Env         string
	CORSOrigins string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	AutoMigrate     bool
	MigrationsDir   string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// CacheConfig - хранилище GeoQueryCache
type CacheConfig struct {
	Backend string // memory | redis
	Size    int    // 0 - без ограничения
	TTL     time.Duration
}

type LogConfig struct {
	Level string
}

type OverpassConfig struct {
	URL     string
	Timeout time.Duration
}

const (
	EntitySourceHTTP     = "http"
	EntitySourcePostgres = "postgres"
	EntitySourceNone     = "none"
)

type EntityStoreConfig struct {
	Source  string
	URL     string
	Timeout time.Duration
	// Serve - отдавать GET /entities из PostgreSQL
	Serve bool
}

type NominatimConfig struct {
	URL       string
	Timeout   time.Duration
	UserAgent string
}

type FusionConfig struct {
	MatchTolerance   float64
	TagMemorySize    int
	FilterCooldown   time.Duration
	DefaultRadiusKm  float64
	FitPadding       float64
	HitToleranceM    float64
	ClusterDistanceM float64
}

type SessionConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:4200")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("OVERPASS_URL", "https://overpass-api.de/api/interpreter")
	v.SetDefault("OVERPASS_TIMEOUT", "20s")

	v.SetDefault("ENTITY_SOURCE", EntitySourceHTTP)
	v.SetDefault("ENTITY_STORE_URL", "http://localhost:3000/nodejs")
	v.SetDefault("ENTITY_STORE_TIMEOUT", "10s")
	v.SetDefault("ENTITY_STORE_SERVE", false)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "geofusion")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 3600)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 600)
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("MIGRATIONS_DIR", "migrations")

	v.SetDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("NOMINATIM_TIMEOUT", "10s")
	v.SetDefault("NOMINATIM_USER_AGENT", "geofusion-service/1.0")

	v.SetDefault("CACHE_BACKEND", "memory")
	v.SetDefault("QUERY_CACHE_SIZE", 0)
	v.SetDefault("QUERY_CACHE_TTL", "1h")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)

	v.SetDefault("FUSION_MATCH_TOLERANCE", 1e-5)
	v.SetDefault("FUSION_TAG_MEMORY_SIZE", 4096)
	v.SetDefault("FUSION_FILTER_COOLDOWN", "3s")
	v.SetDefault("FUSION_DEFAULT_RADIUS_KM", 1.0)
	v.SetDefault("FUSION_FIT_PADDING", 50.0)
	v.SetDefault("FUSION_HIT_TOLERANCE_M", 15.0)
	v.SetDefault("FUSION_CLUSTER_DISTANCE_M", 40.0)

	v.SetDefault("SESSION_IDLE_TTL", "30m")
	v.SetDefault("SESSION_SWEEP_INTERVAL", "1m")
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile - то же, что Load, с явным путем к env файлу
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("API_HOST"),
			Port:        v.GetInt("API_PORT"),
			Env:         v.GetString("API_ENV"),
			CORSOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
			MigrationsDir:   v.GetString("MIGRATIONS_DIR"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			PoolSize: v.GetInt("REDIS_POOL_SIZE"),
		},
		Cache: CacheConfig{
			Backend: strings.ToLower(v.GetString("CACHE_BACKEND")),
			Size:    v.GetInt("QUERY_CACHE_SIZE"),
			TTL:     v.GetDuration("QUERY_CACHE_TTL"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Overpass: OverpassConfig{
			URL:     v.GetString("OVERPASS_URL"),
			Timeout: v.GetDuration("OVERPASS_TIMEOUT"),
		},
		EntityStore: EntityStoreConfig{
			Source:  strings.ToLower(v.GetString("ENTITY_SOURCE")),
			URL:     strings.TrimRight(v.GetString("ENTITY_STORE_URL"), "/"),
			Timeout: v.GetDuration("ENTITY_STORE_TIMEOUT"),
			Serve:   v.GetBool("ENTITY_STORE_SERVE"),
		},
		Nominatim: NominatimConfig{
			URL:       strings.TrimRight(v.GetString("NOMINATIM_URL"), "/"),
			Timeout:   v.GetDuration("NOMINATIM_TIMEOUT"),
			UserAgent: v.GetString("NOMINATIM_USER_AGENT"),
		},
		Fusion: FusionConfig{
			MatchTolerance:   v.GetFloat64("FUSION_MATCH_TOLERANCE"),
			TagMemorySize:    v.GetInt("FUSION_TAG_MEMORY_SIZE"),
			FilterCooldown:   v.GetDuration("FUSION_FILTER_COOLDOWN"),
			DefaultRadiusKm:  v.GetFloat64("FUSION_DEFAULT_RADIUS_KM"),
			FitPadding:       v.GetFloat64("FUSION_FIT_PADDING"),
			HitToleranceM:    v.GetFloat64("FUSION_HIT_TOLERANCE_M"),
			ClusterDistanceM: v.GetFloat64("FUSION_CLUSTER_DISTANCE_M"),
		},
		Session: SessionConfig{
			IdleTTL:       v.GetDuration("SESSION_IDLE_TTL"),
			SweepInterval: v.GetDuration("SESSION_SWEEP_INTERVAL"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported CACHE_BACKEND %q", c.Cache.Backend)
	}
	switch c.EntityStore.Source {
	case EntitySourceHTTP, EntitySourcePostgres, EntitySourceNone:
	default:
		return fmt.Errorf("unsupported ENTITY_SOURCE %q", c.EntityStore.Source)
	}
	if c.Fusion.MatchTolerance <= 0 {
		return fmt.Errorf("FUSION_MATCH_TOLERANCE must be positive")
	}
	return nil
}

// UsesPostgres - нужно ли подключение к БД
func (c *Config) UsesPostgres() bool {
	return c.EntityStore.Source == EntitySourcePostgres || c.EntityStore.Serve
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
