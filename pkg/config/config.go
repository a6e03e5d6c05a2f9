package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App        AppConfig
	HTTP       HTTPConfig
	Provider   ProviderConfig
	Redis      RedisConfig
	AI         AIConfig
	JWT        JWTConfig
	Thresholds ThresholdsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
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

// ProviderConfig selecciona el proveedor de datos.
// Mode "demo" usa el dataset local generado; "remote" consume la API REST del backend.
type ProviderConfig struct {
	Mode            string // demo | remote
	RemoteBaseURL   string // ej. https://inventario.pcmejia.com/api
	RefreshInterval time.Duration
	RequestTimeout  time.Duration
}

// RedisConfig configuración del caché de resúmenes KPI. Addr vacío = caché deshabilitado.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	SummaryTTL time.Duration
}

// AIConfig configuración del servicio consultivo (Gemini).
type AIConfig struct {
	GeminiAPIKey string
	Model        string // modelo para consultas rápidas (búsqueda, chat)
	ProModel     string // modelo para análisis complejos (benchmarks, cortes de obra)
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// ThresholdsConfig umbrales operativos por defecto (ajustables por request donde aplica).
type ThresholdsConfig struct {
	StagnantDays  int // días sin movimiento para considerar un ítem estancado
	DeadStockDays int // días sin movimiento para considerar stock muerto
	StockoutQty   int // cantidad a partir de la cual se considera quiebre de stock
	WindowDays    int // ventana de análisis de consumo
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, PROVIDER_MODE, etc.
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
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "inventario-obras"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Provider: ProviderConfig{
			Mode:            getString(v, "PROVIDER_MODE", "demo"),
			RemoteBaseURL:   getString(v, "REMOTE_API_URL", "https://inventario.pcmejia.com/api"),
			RefreshInterval: getDuration(v, "REFRESH_INTERVAL", 10*time.Second),
			RequestTimeout:  getDuration(v, "PROVIDER_TIMEOUT", 15*time.Second),
		},
		Redis: RedisConfig{
			Addr:       getString(v, "REDIS_ADDR", ""),
			Password:   getString(v, "REDIS_PASSWORD", ""),
			DB:         getInt(v, "REDIS_DB", 0),
			SummaryTTL: getDuration(v, "REDIS_SUMMARY_TTL", time.Minute),
		},
		AI: AIConfig{
			GeminiAPIKey: getString(v, "GEMINI_API_KEY", ""),
			Model:        getString(v, "GEMINI_MODEL", "gemini-1.5-flash"),
			ProModel:     getString(v, "GEMINI_PRO_MODEL", "gemini-1.5-pro"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "inventario-obras"),
		},
		Thresholds: ThresholdsConfig{
			StagnantDays:  getInt(v, "THRESHOLD_STAGNANT_DAYS", 30),
			DeadStockDays: getInt(v, "THRESHOLD_DEAD_STOCK_DAYS", 90),
			StockoutQty:   getInt(v, "THRESHOLD_STOCKOUT_QTY", 5),
			WindowDays:    getInt(v, "THRESHOLD_WINDOW_DAYS", 30),
		},
	}

	if cfg.Provider.Mode != "demo" && cfg.Provider.Mode != "remote" {
		return nil, fmt.Errorf("config: PROVIDER_MODE inválido: %q (use demo o remote)", cfg.Provider.Mode)
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
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if v.IsSet(key) {
		if d, err := time.ParseDuration(v.GetString(key)); err == nil {
			return d
		}
	}
	return def
}
