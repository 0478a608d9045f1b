package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"
	"google.golang.org/api/option"

	"github.com/yanqian/outfit-advisor/internal/bootstrap"
	"github.com/yanqian/outfit-advisor/internal/domain/outfit"
	"github.com/yanqian/outfit-advisor/internal/domain/weather"
	"github.com/yanqian/outfit-advisor/internal/infra/config"
	"github.com/yanqian/outfit-advisor/internal/infra/geo/ipapi"
	"github.com/yanqian/outfit-advisor/internal/infra/identity"
	"github.com/yanqian/outfit-advisor/internal/infra/jobs"
	"github.com/yanqian/outfit-advisor/internal/infra/llm/chatgpt"
	"github.com/yanqian/outfit-advisor/internal/infra/llm/groq"
	"github.com/yanqian/outfit-advisor/internal/infra/outfitrepo"
	"github.com/yanqian/outfit-advisor/internal/infra/prefrepo"
	"github.com/yanqian/outfit-advisor/internal/infra/weather/openweather"
	"github.com/yanqian/outfit-advisor/internal/infra/weathercache"
	httpiface "github.com/yanqian/outfit-advisor/internal/interface/http"
)

func provideWeatherConfig(cfg *config.Config) weather.Config {
	return weather.Config{
		CacheTTL:        cfg.Weather.CacheTTL,
		LocationTimeout: cfg.Weather.LocationTimeout,
		LocationMaxAge:  cfg.Weather.LocationMaxAge,
		DefaultLocation: weather.Coordinates{
			Latitude:  cfg.Weather.DefaultLatitude,
			Longitude: cfg.Weather.DefaultLongitude,
		},
	}
}

func provideWeatherFetcher(cfg *config.Config, logger *slog.Logger) weather.Fetcher {
	if strings.TrimSpace(cfg.Weather.APIKey) == "" {
		logger.Warn("weather api key not set, live weather disabled")
	}
	return openweather.NewClient(cfg.Weather.APIKey, cfg.Weather.APIBaseURL)
}

func provideWeatherCache(cfg *config.Config, logger *slog.Logger) (weather.Cache, func()) {
	noop := func() {}
	if !cfg.Weather.Redis.Enabled {
		return weather.NewMemoryCache(), noop
	}
	opt, err := buildValkeyOptions(cfg.Weather.Redis.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
		return weather.NewMemoryCache(), noop
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
		return weather.NewMemoryCache(), noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		client.Close()
		return weather.NewMemoryCache(), noop
	}
	logger.Info("weather valkey cache enabled", "addr", cfg.Weather.Redis.Addr)
	return weathercache.NewValkeyCache(client, cfg.Weather.Redis.Key), client.Close
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func provideWeatherSource(svc weather.Service) outfit.WeatherSource {
	return svc
}

func provideOutfitConfig(cfg *config.Config) outfit.Config {
	return outfit.Config{
		Model:            cfg.LLM.Model,
		Temperature:      cfg.LLM.Temperature,
		MaxTokens:        cfg.LLM.MaxTokens,
		DefaultBatchSize: cfg.Outfits.DefaultBatchSize,
		MaxBatchSize:     cfg.Outfits.MaxBatchSize,
		SystemPrompt:     cfg.Outfits.SystemPrompt,
	}
}

func provideCompleter(cfg *config.Config, logger *slog.Logger) outfit.Completer {
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		logger.Warn("llm api key not set, outfit generation disabled", "provider", cfg.LLM.Provider)
	}
	if cfg.LLM.Provider == config.LLMProviderOpenAI {
		return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
	}
	return groq.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
}

// provideFirebaseApp returns nil when neither storage nor auth uses Firebase.
func provideFirebaseApp(cfg *config.Config) (*firebase.App, error) {
	useStore := cfg.Storage.Driver == config.StorageFirestore
	useAuth := cfg.Auth.Mode == config.AuthModeFirebase
	if !useStore && !useAuth {
		return nil, nil
	}
	projectID := cfg.Storage.Firestore.ProjectID
	credentials := cfg.Storage.Firestore.CredentialsFile
	if !useStore {
		projectID = cfg.Auth.FirebaseProjectID
		credentials = cfg.Auth.FirebaseCredentialsFile
	}
	var opts []option.ClientOption
	if credentials != "" {
		opts = append(opts, option.WithCredentialsFile(credentials))
	}
	var fbCfg *firebase.Config
	if projectID != "" {
		fbCfg = &firebase.Config{ProjectID: projectID}
	}
	return firebase.NewApp(context.Background(), fbCfg, opts...)
}

func provideFirestoreClient(cfg *config.Config, app *firebase.App, logger *slog.Logger) (*firestore.Client, func()) {
	noop := func() {}
	if cfg.Storage.Driver != config.StorageFirestore || app == nil {
		return nil, noop
	}
	client, err := app.Firestore(context.Background())
	if err != nil {
		logger.Error("failed to initialize firestore, using memory storage", "error", err)
		return nil, noop
	}
	logger.Info("firestore storage enabled")
	return client, func() { _ = client.Close() }
}

func providePostgresPool(cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, func()) {
	noop := func() {}
	if cfg.Storage.Driver != config.StoragePostgres {
		return nil, noop
	}
	dsn := strings.TrimSpace(cfg.Storage.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory storage")
		return nil, noop
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory storage", "error", err)
		return nil, noop
	}
	if cfg.Storage.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Storage.Postgres.MaxConns
	}
	if cfg.Storage.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Storage.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory storage", "error", err)
		return nil, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory storage", "error", err)
		pool.Close()
		return nil, noop
	}
	logger.Info("postgres storage enabled")
	return pool, pool.Close
}

func provideOutfitRepository(pool *pgxpool.Pool, fs *firestore.Client) outfit.Repository {
	switch {
	case pool != nil:
		return outfitrepo.NewPostgresRepository(pool)
	case fs != nil:
		return outfitrepo.NewFirestoreRepository(fs)
	default:
		return outfitrepo.NewMemoryRepository()
	}
}

func providePreferenceStore(pool *pgxpool.Pool, fs *firestore.Client) outfit.PreferenceStore {
	switch {
	case pool != nil:
		return prefrepo.NewPostgresStore(pool)
	case fs != nil:
		return prefrepo.NewFirestoreStore(fs)
	default:
		return prefrepo.NewMemoryStore()
	}
}

func provideIPLocator(cfg *config.Config) httpiface.IPLocator {
	if !cfg.Weather.GeoIP.Enabled {
		return nil
	}
	return ipapi.NewClient(cfg.Weather.GeoIP.BaseURL)
}

func provideTokenVerifier(cfg *config.Config, app *firebase.App, logger *slog.Logger) (httpiface.TokenVerifier, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeFirebase:
		client, err := app.Auth(context.Background())
		if err != nil {
			return nil, err
		}
		return identity.NewFirebaseVerifier(client), nil
	case config.AuthModeJWT:
		return identity.NewJWTVerifier(cfg.Auth.JWTSecret), nil
	default:
		logger.Warn("auth mode header trusts bearer tokens as user ids, do not use in production")
		return identity.PassthroughVerifier{}, nil
	}
}

func provideScheduler(cfg *config.Config, svc weather.Service, logger *slog.Logger) bootstrap.Scheduler {
	return jobs.NewWeatherRefresher(cfg.Weather.RefreshSchedule, svc, logger)
}
