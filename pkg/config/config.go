package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App   AppConfig
	DB    DBConfig
	JWT   JWTConfig
	HTTP  HTTPConfig
	Grocy GrocyConfig
	Stock StockConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// DBConfig configuración de la caché local SQLite.
type DBConfig struct {
	Path string // ruta del archivo; ":memory:" para base en memoria
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
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

// GrocyConfig conexión con el servidor Grocy.
type GrocyConfig struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
}

// StockConfig preferencias de la vista de stock.
type StockConfig struct {
	Currency       string
	DueSoonDays    int
	FirstDayOfWeek int             // 0=domingo .. 6=sábado; fuera de rango cae en 0
	Features       map[string]bool // banderas de funcionalidad; ausencia equivale a activada
}

// FeatureEnabled indica si una funcionalidad está activa; las no listadas lo están.
func (c StockConfig) FeatureEnabled(name string) bool {
	enabled, ok := c.Features[name]
	if !ok {
		return true
	}
	return enabled
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, GROCY_BASE_URL, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// También intenta config.env
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// Bind de variables de entorno (Viper las lee automáticamente si AutomaticEnv está activo)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "grocy-sync"),
		},
		DB: DBConfig{
			Path: getString(v, "DB_PATH", "grocy-sync.db"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "grocy-sync"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Grocy: GrocyConfig{
			BaseURL:        strings.TrimRight(getString(v, "GROCY_BASE_URL", "http://localhost:9283"), "/"),
			APIKey:         getString(v, "GROCY_API_KEY", ""),
			TimeoutSeconds: getInt(v, "GROCY_TIMEOUT_SECONDS", 30),
		},
		Stock: StockConfig{
			Currency:       getString(v, "STOCK_CURRENCY", "EUR"),
			DueSoonDays:    getInt(v, "STOCK_DUE_SOON_DAYS", 5),
			FirstDayOfWeek: clampWeekday(getInt(v, "STOCK_FIRST_DAY_OF_WEEK", 0)),
			Features:       parseDisabledFeatures(getString(v, "STOCK_DISABLED_FEATURES", "")),
		},
	}

	return cfg, nil
}

// clampWeekday limita el primer día de la semana al rango [0, 6].
func clampWeekday(day int) int {
	if day < 0 || day > 6 {
		return 0
	}
	return day
}

// parseDisabledFeatures convierte una lista separada por comas en el mapa de banderas.
func parseDisabledFeatures(raw string) map[string]bool {
	features := make(map[string]bool)
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			features[name] = false
		}
	}
	return features
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
