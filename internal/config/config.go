package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"warehouse-inventory-api/pkg/database"
	"warehouse-inventory-api/pkg/logger"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverPostgres  = "postgres"
	DriverPostgREST = "postgrest"
	DriverSQLite    = "sqlite"
	DriverMemory    = "memory"
)

type Config struct {
	Server    ServerConfig
	Logger    logger.Config
	Store     StoreConfig
	Postgres  database.Config
	PostgREST PostgRESTConfig
	SQLite    SQLiteConfig
	Dashboard DashboardConfig
}

type ServerConfig struct {
	AppName string
	AppEnv  string
	Port    string
}

type StoreConfig struct {
	Driver  string
	Timeout time.Duration
	// SuppliersItemTable is the table used by supplier item operations.
	// Setting it to audit_log reproduces the legacy aliasing.
	SuppliersItemTable string
}

type PostgRESTConfig struct {
	URL string
	Key string
}

type SQLiteConfig struct {
	Path string
}

type DashboardConfig struct {
	Enabled bool
	APIURL  string
}

// Load reads the configuration from the process environment. Call
// godotenv.Load beforehand to pick up a .env file.
func Load() *Config {
	port := getEnv("PORT", "3000")

	return &Config{
		Server: ServerConfig{
			AppName: getEnv("APP_NAME", "Multi-Warehouse Inventory API"),
			AppEnv:  getEnv("APP_ENV", "dev"),
			Port:    port,
		},
		Logger: logger.Config{
			Level:             getEnv("LOGGER_LEVEL", "info"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Store: StoreConfig{
			Driver:             strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
			Timeout:            getEnvDuration("STORE_TIMEOUT", 10*time.Second),
			SuppliersItemTable: getEnv("SUPPLIERS_ITEM_TABLE", "suppliers"),
		},
		Postgres: database.Config{
			URL:             getEnv("DATABASE_URL", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			DBName:          getEnv("DB_NAME", "inventory"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", false),
			LogLevel:        getEnv("DB_LOG_LEVEL", "warn"),
		},
		PostgREST: PostgRESTConfig{
			URL: strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
			Key: getEnv("SUPABASE_KEY", ""),
		},
		SQLite: SQLiteConfig{
			Path: getEnv("SQLITE_PATH", "inventory.db"),
		},
		Dashboard: DashboardConfig{
			Enabled: getEnvBool("DASHBOARD_ENABLED", true),
			APIURL:  strings.TrimRight(getEnv("DASHBOARD_API_URL", "http://127.0.0.1:"+port+"/api"), "/"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("15s") or plain seconds ("15").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
