package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	LLM     LLMConfig     `yaml:"llm"`
	Weather WeatherConfig `yaml:"weather"`
	Outfits OutfitsConfig `yaml:"outfits"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LLMConfig selects and configures the model backend.
type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	APIKey      string  `yaml:"apiKey"`
	BaseURL     string  `yaml:"baseUrl"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"maxTokens"`
}

// WeatherConfig controls the weather provider.
type WeatherConfig struct {
	APIBaseURL       string        `yaml:"apiBaseUrl"`
	APIKey           string        `yaml:"apiKey"`
	CacheTTL         time.Duration `yaml:"cacheTtl"`
	LocationTimeout  time.Duration `yaml:"locationTimeout"`
	LocationMaxAge   time.Duration `yaml:"locationMaxAge"`
	DefaultLatitude  float64       `yaml:"defaultLatitude"`
	DefaultLongitude float64       `yaml:"defaultLongitude"`
	RefreshSchedule  string        `yaml:"refreshSchedule"`
	Redis            RedisConfig   `yaml:"redis"`
	GeoIP            GeoIPConfig   `yaml:"geoIp"`
}

// RedisConfig contains connection information for the shared weather slot.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Key     string `yaml:"key"`
}

// GeoIPConfig enables IP based location lookups.
type GeoIPConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"baseUrl"`
}

// OutfitsConfig controls batch generation.
type OutfitsConfig struct {
	DefaultBatchSize int    `yaml:"defaultBatchSize"`
	MaxBatchSize     int    `yaml:"maxBatchSize"`
	SystemPrompt     string `yaml:"systemPrompt"`
}

// StorageConfig selects the outfit and preference backends.
type StorageConfig struct {
	Driver    string          `yaml:"driver"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Firestore FirestoreConfig `yaml:"firestore"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// FirestoreConfig points at a Firebase project.
type FirestoreConfig struct {
	ProjectID       string `yaml:"projectId"`
	CredentialsFile string `yaml:"credentialsFile"`
}

// AuthConfig selects how bearer tokens are verified.
type AuthConfig struct {
	Mode                    string `yaml:"mode"`
	JWTSecret               string `yaml:"jwtSecret"`
	FirebaseProjectID       string `yaml:"firebaseProjectId"`
	FirebaseCredentialsFile string `yaml:"firebaseCredentialsFile"`
}

const (
	StorageMemory    = "memory"
	StoragePostgres  = "postgres"
	StorageFirestore = "firestore"

	LLMProviderOpenAI = "openai"
	LLMProviderGroq   = "groq"

	AuthModeFirebase = "firebase"
	AuthModeJWT      = "jwt"
	AuthModeHeader   = "header"
)

// Load reads configuration from .env, a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)
	cfg.LLM.applyModelDefault()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

var defaultModels = map[string]string{
	LLMProviderGroq:   "mixtral-8x7b-32768",
	LLMProviderOpenAI: "gpt-4o-mini",
}

func (c *LLMConfig) applyModelDefault() {
	if strings.TrimSpace(c.Model) == "" {
		c.Model = defaultModels[c.Provider]
	}
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.HTTP.Address, "HTTP_ADDRESS")
	setBool(&cfg.HTTP.RateLimit.Enabled, "HTTP_RATE_LIMIT_ENABLED")
	setInt(&cfg.HTTP.RateLimit.RequestsPerMinute, "HTTP_RATE_LIMIT_RPM")
	setInt(&cfg.HTTP.RateLimit.Burst, "HTTP_RATE_LIMIT_BURST")
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}

	setString(&cfg.LLM.Provider, "LLM_PROVIDER")
	setString(&cfg.LLM.APIKey, "LLM_API_KEY")
	setString(&cfg.LLM.BaseURL, "LLM_BASE_URL")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	setInt(&cfg.LLM.MaxTokens, "LLM_MAX_TOKENS")
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}

	setString(&cfg.Weather.APIBaseURL, "WEATHER_API_BASE_URL")
	setString(&cfg.Weather.APIKey, "WEATHER_API_KEY")
	setDuration(&cfg.Weather.CacheTTL, "WEATHER_CACHE_TTL")
	setDuration(&cfg.Weather.LocationTimeout, "WEATHER_LOCATION_TIMEOUT")
	setDuration(&cfg.Weather.LocationMaxAge, "WEATHER_LOCATION_MAX_AGE")
	setFloat(&cfg.Weather.DefaultLatitude, "WEATHER_DEFAULT_LAT")
	setFloat(&cfg.Weather.DefaultLongitude, "WEATHER_DEFAULT_LON")
	setString(&cfg.Weather.RefreshSchedule, "WEATHER_REFRESH_SCHEDULE")
	setBool(&cfg.Weather.Redis.Enabled, "WEATHER_REDIS_ENABLED")
	setString(&cfg.Weather.Redis.Addr, "WEATHER_REDIS_ADDR")
	setBool(&cfg.Weather.GeoIP.Enabled, "WEATHER_GEOIP_ENABLED")
	setString(&cfg.Weather.GeoIP.BaseURL, "WEATHER_GEOIP_BASE_URL")

	setInt(&cfg.Outfits.DefaultBatchSize, "OUTFITS_DEFAULT_BATCH_SIZE")
	setInt(&cfg.Outfits.MaxBatchSize, "OUTFITS_MAX_BATCH_SIZE")
	setString(&cfg.Outfits.SystemPrompt, "OUTFITS_SYSTEM_PROMPT")

	setString(&cfg.Storage.Driver, "STORAGE_DRIVER")
	setString(&cfg.Storage.Postgres.DSN, "POSTGRES_DSN")
	setInt32(&cfg.Storage.Postgres.MaxConns, "POSTGRES_MAX_CONNS")
	setInt32(&cfg.Storage.Postgres.MinConns, "POSTGRES_MIN_CONNS")
	setString(&cfg.Storage.Firestore.ProjectID, "FIRESTORE_PROJECT_ID")
	setString(&cfg.Storage.Firestore.CredentialsFile, "FIREBASE_CREDENTIALS_PATH")

	setString(&cfg.Auth.Mode, "AUTH_MODE")
	setString(&cfg.Auth.JWTSecret, "AUTH_JWT_SECRET")
	setString(&cfg.Auth.FirebaseProjectID, "FIREBASE_PROJECT_ID")
	setString(&cfg.Auth.FirebaseCredentialsFile, "FIREBASE_CREDENTIALS_PATH")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = int32(parsed)
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = parsed
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 90 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		LLM: LLMConfig{
			Provider:    LLMProviderGroq,
			Temperature: 0.9,
			MaxTokens:   1024,
		},
		Weather: WeatherConfig{
			APIBaseURL:       "https://api.openweathermap.org/data/2.5",
			CacheTTL:         10 * time.Minute,
			LocationTimeout:  5 * time.Second,
			LocationMaxAge:   10 * time.Minute,
			DefaultLatitude:  51.0447,
			DefaultLongitude: -114.0719,
			RefreshSchedule:  "@every 30m",
			Redis: RedisConfig{
				Key: "weather:current",
			},
			GeoIP: GeoIPConfig{
				BaseURL: "http://ip-api.com/json",
			},
		},
		Outfits: OutfitsConfig{
			DefaultBatchSize: 3,
			MaxBatchSize:     10,
		},
		Storage: StorageConfig{
			Driver: StorageMemory,
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
		Auth: AuthConfig{
			Mode: AuthModeHeader,
		},
	}
}

// Validate ensures the configuration is safe to use. Missing API keys are
// allowed here and surface as configuration errors when a call is made.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	switch c.LLM.Provider {
	case LLMProviderOpenAI, LLMProviderGroq:
	default:
		return fmt.Errorf("llm.provider %q is not supported", c.LLM.Provider)
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.MaxTokens <= 0 {
		return errors.New("llm.maxTokens must be positive")
	}
	if strings.TrimSpace(c.Weather.APIBaseURL) == "" {
		return errors.New("weather.apiBaseUrl cannot be empty")
	}
	if c.Weather.CacheTTL <= 0 {
		return errors.New("weather.cacheTtl must be positive")
	}
	if c.Weather.LocationTimeout <= 0 {
		return errors.New("weather.locationTimeout must be positive")
	}
	if c.Weather.DefaultLatitude < -90 || c.Weather.DefaultLatitude > 90 {
		return errors.New("weather.defaultLatitude out of range")
	}
	if c.Weather.DefaultLongitude < -180 || c.Weather.DefaultLongitude > 180 {
		return errors.New("weather.defaultLongitude out of range")
	}
	if c.Weather.Redis.Enabled && strings.TrimSpace(c.Weather.Redis.Addr) == "" {
		return errors.New("weather.redis.addr cannot be empty when redis cache is enabled")
	}
	if c.Outfits.DefaultBatchSize <= 0 {
		return errors.New("outfits.defaultBatchSize must be positive")
	}
	if c.Outfits.MaxBatchSize < c.Outfits.DefaultBatchSize {
		return errors.New("outfits.maxBatchSize cannot be below defaultBatchSize")
	}
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	case StorageFirestore:
		if strings.TrimSpace(c.Storage.Firestore.ProjectID) == "" && strings.TrimSpace(c.Storage.Firestore.CredentialsFile) == "" {
			return errors.New("storage.firestore requires projectId or credentialsFile")
		}
	default:
		return fmt.Errorf("storage.driver %q is not supported", c.Storage.Driver)
	}
	switch c.Auth.Mode {
	case AuthModeHeader, AuthModeFirebase:
	case AuthModeJWT:
		if strings.TrimSpace(c.Auth.JWTSecret) == "" {
			return errors.New("auth.jwtSecret cannot be empty in jwt mode")
		}
	default:
		return fmt.Errorf("auth.mode %q is not supported", c.Auth.Mode)
	}
	return nil
}
