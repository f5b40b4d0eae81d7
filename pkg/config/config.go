package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Drivers de persistencia soportados.
const (
	StoreHTTP     = "http"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App          AppConfig
	HTTP         HTTPConfig
	Store        StoreConfig
	Backend      BackendConfig
	DB           DBConfig
	JWT          JWTConfig
	Optimization OptimizationConfig
	Stocktake    StocktakeConfig
	Notify       NotifyConfig
	Session      SessionConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env       string // development, staging, production
	Name      string
	Warehouse string // nombre en encabezados de informes
	LogLevel  string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig selección del adaptador de persistencia.
type StoreConfig struct {
	Driver string // http | postgres | memory
}

// BackendConfig cliente del backend SmartWMS.
type BackendConfig struct {
	URL       string
	Timeout   time.Duration
	RateLimit float64 // peticiones por segundo
	Burst     int
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	Migrate     bool // aplicar migraciones embebidas al arrancar
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig verificación de tokens bearer. Sin Secret solo se revisa la expiración.
type JWTConfig struct {
	Secret string
}

// OptimizationConfig ajustes del análisis de zonas.
type OptimizationConfig struct {
	RecomputeAfterMove bool
}

// StocktakeConfig ajustes del inventario físico.
type StocktakeConfig struct {
	DebounceWindow time.Duration
}

// NotifyConfig avisos transitorios.
type NotifyConfig struct {
	TTL time.Duration
}

// SessionConfig persistencia del contexto de sesión (token + preferencias).
type SessionConfig struct {
	File string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, BACKEND_URL, STORE_DRIVER, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:       getString(v, "APP_ENV", "development"),
			Name:      getString(v, "APP_NAME", "smartwms-station"),
			Warehouse: getString(v, "WAREHOUSE_NAME", "SmartWMS"),
			LogLevel:  getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getString(v, "STORE_DRIVER", StoreHTTP)),
		},
		Backend: BackendConfig{
			URL:       strings.TrimRight(getString(v, "BACKEND_URL", "http://127.0.0.1:8000/api"), "/"),
			Timeout:   time.Duration(getInt(v, "BACKEND_TIMEOUT_SECONDS", 15)) * time.Second,
			RateLimit: getFloat(v, "BACKEND_RATE_LIMIT", 20),
			Burst:     getInt(v, "BACKEND_BURST", 5),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "smartwms"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			Migrate:     getBool(v, "DB_MIGRATE", true),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
		},
		Optimization: OptimizationConfig{
			RecomputeAfterMove: getBool(v, "OPTIMIZATION_RECOMPUTE_AFTER_MOVE", false),
		},
		Stocktake: StocktakeConfig{
			DebounceWindow: time.Duration(getInt(v, "SCAN_DEBOUNCE_MS", 1500)) * time.Millisecond,
		},
		Notify: NotifyConfig{
			TTL: time.Duration(getInt(v, "NOTIFY_TTL_SECONDS", 3)) * time.Second,
		},
		Session: SessionConfig{
			File: getString(v, "SESSION_FILE", ".smartwms-session.yaml"),
		},
	}

	switch cfg.Store.Driver {
	case StoreHTTP, StorePostgres, StoreMemory:
	default:
		return nil, fmt.Errorf("config: STORE_DRIVER desconocido %q (http|postgres|memory)", cfg.Store.Driver)
	}
	if cfg.Stocktake.DebounceWindow <= 0 {
		return nil, fmt.Errorf("config: SCAN_DEBOUNCE_MS debe ser positivo")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		f, err := strconv.ParseFloat(strings.TrimSpace(v.GetString(key)), 64)
		if err != nil {
			return def
		}
		return f
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}
