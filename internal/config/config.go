package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Matching MatchingConfig
	Log      LogConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	WSPort      string
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DatabaseConfig struct {
	Driver     string
	SQLitePath string

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type MatchingConfig struct {
	TaxonomyTTL time.Duration
	Workers     int
	Limit       int
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

var defaults = map[string]any{
	"APP_NAME":                  "talent-match",
	"APP_ENV":                   "development",
	"HTTP_PORT":                 "8080",
	"WS_PORT":                   "",
	"DB_DRIVER":                 DriverPostgres,
	"SQLITE_PATH":               "talent-match.db",
	"DB_SSL_MODE":               "disable",
	"DB_CONNECT_TIMEOUT":        5 * time.Second,
	"DB_POOL_MAX_CONNS":         0,
	"DB_POOL_MIN_CONNS":         0,
	"DB_POOL_MAX_CONN_LIFETIME": time.Duration(0),
	"DB_POOL_MAX_CONN_IDLE":     time.Duration(0),
	"DB_POOL_HEALTH_CHECK":      time.Duration(0),
	"REDIS_ENABLED":             false,
	"REDIS_HOST":                "localhost",
	"REDIS_PORT":                "6379",
	"REDIS_DB":                  0,
	"REDIS_TTL":                 600 * time.Second,
	"TAXONOMY_TTL":              time.Hour,
	"MATCHING_WORKERS":          0,
	"MATCHING_LIMIT":            100,
	"LOG_JSON":                  false,
	"LOG_DEBUG":                 false,
}

// Load reads configuration from the environment, optionally layered over a config file.
// Environment variables always win.
func Load(configFile string) (Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if strings.TrimSpace(configFile) != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	return FromViper(v)
}

func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		s := strings.TrimSpace(v.GetString(key))
		if s == "" {
			missing = append(missing, key)
		}
		return s
	}
	opt := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		WSPort:      opt("WS_PORT"),
	}

	driver := strings.ToLower(opt("DB_DRIVER"))
	cfg.Database = DatabaseConfig{
		Driver:     driver,
		SQLitePath: opt("SQLITE_PATH"),

		ConnectTimeout:        v.GetDuration("DB_CONNECT_TIMEOUT"),
		PoolMaxConns:          v.GetInt32("DB_POOL_MAX_CONNS"),
		PoolMinConns:          v.GetInt32("DB_POOL_MIN_CONNS"),
		PoolMaxConnLifetime:   v.GetDuration("DB_POOL_MAX_CONN_LIFETIME"),
		PoolMaxConnIdleTime:   v.GetDuration("DB_POOL_MAX_CONN_IDLE"),
		PoolHealthCheckPeriod: v.GetDuration("DB_POOL_HEALTH_CHECK"),
	}
	switch driver {
	case DriverPostgres:
		cfg.Database.DBHost = req("DB_HOST")
		cfg.Database.DBPort = req("DB_PORT")
		cfg.Database.DBName = req("DB_NAME")
		cfg.Database.DBUser = req("DB_USER")
		cfg.Database.DBPassword = opt("DB_PASSWORD")
		cfg.Database.DBSSLMode = opt("DB_SSL_MODE")
	case DriverSQLite:
		req("SQLITE_PATH")
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		TTL:      v.GetDuration("REDIS_TTL"),
	}

	workers := v.GetInt("MATCHING_WORKERS")
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	limit := v.GetInt("MATCHING_LIMIT")
	if limit <= 0 {
		limit = 100
	}
	ttl := v.GetDuration("TAXONOMY_TTL")
	if ttl <= 0 {
		ttl = time.Hour
	}
	cfg.Matching = MatchingConfig{TaxonomyTTL: ttl, Workers: workers, Limit: limit}

	cfg.Log = LogConfig{JSON: v.GetBool("LOG_JSON"), Debug: v.GetBool("LOG_DEBUG")}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}
