package outfit

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/outfit-advisor/internal/domain/weather"
	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
	"github.com/yanqian/outfit-advisor/pkg/util"
)

// Service exposes outfit generation and the user's outfit history.
type Service interface {
	GenerateBatch(ctx context.Context, userID string, req BatchRequest, locator weather.Locator) (BatchResult, error)
	ListOutfits(ctx context.Context, userID string) ([]Outfit, error)
	DeleteOutfit(ctx context.Context, userID, outfitID string) error
	GetPreferences(ctx context.Context, userID string) (Preferences, error)
	SavePreferences(ctx context.Context, userID string, prefs Preferences) (Preferences, error)
}

type service struct {
	cfg       Config
	prompts   PromptBuilder
	weather   WeatherSource
	completer Completer
	outfits   Repository
	prefs     PreferenceStore
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires the generation pipeline.
func NewService(cfg Config, weatherSrc WeatherSource, completer Completer, outfits Repository, prefs PreferenceStore, logger *slog.Logger) Service {
	cfg = cfg.withDefaults()
	return &service{
		cfg:       cfg,
		prompts:   NewPromptBuilder(cfg),
		weather:   weatherSrc,
		completer: completer,
		outfits:   outfits,
		prefs:     prefs,
		logger:    logger.With("component", "outfit.service"),
		now:       util.NowUTC,
	}
}

// GenerateBatch runs the pipeline once. Stages run strictly in order and a
// failure in any stage ends the batch. Outfits persisted before a write
// failure are kept.
func (s *service) GenerateBatch(ctx context.Context, userID string, req BatchRequest, locator weather.Locator) (BatchResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return BatchResult{}, apperrors.Wrap(apperrors.CodeInvalidInput, "user id is required", nil)
	}
	size, err := s.batchSize(req.BatchSize)
	if err != nil {
		return BatchResult{}, err
	}

	start := s.now()
	log := s.logger.With("user_id", userID, "batch_size", size)

	s.enter(log, StageResolvingWeather)
	coords := s.weather.ResolveLocation(ctx, locator)
	snap, err := s.weather.GetWeather(ctx, coords)
	if err != nil {
		return BatchResult{}, s.fail(log, StageResolvingWeather, err)
	}

	s.enter(log, StageReadingPreferences)
	prefs, ok, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return BatchResult{}, s.fail(log, StageReadingPreferences, apperrors.Wrap(apperrors.CodePersistence, "failed to read preferences", err))
	}
	if !ok {
		return BatchResult{}, s.fail(log, StageReadingPreferences, apperrors.Wrap(apperrors.CodePreferencesMissing, "preferences have not been set", nil))
	}

	s.enter(log, StageComputingNextNumber)
	maxNumber, err := s.outfits.MaxNumber(ctx, userID)
	if err != nil {
		return BatchResult{}, s.fail(log, StageComputingNextNumber, apperrors.Wrap(apperrors.CodePersistence, "failed to read outfit numbers", err))
	}
	startNumber := maxNumber + 1
	log = log.With("start_number", startNumber)

	s.enter(log, StageBuildingPrompt)
	spec := s.prompts.BuildBatchRequest(prefs, snap, startNumber, size)

	// Once the model is called the batch runs to completion or failure. A
	// caller that goes away only discards the result.
	ctx = context.WithoutCancel(ctx)

	s.enter(log, StageCallingModel)
	completion, err := s.completer.Complete(ctx, spec)
	if err != nil {
		if errors.Is(err, apperrors.ErrMissingCredential) {
			return BatchResult{}, s.fail(log, StageCallingModel, apperrors.Wrap(apperrors.CodeConfiguration, "model api key is not configured", err))
		}
		return BatchResult{}, s.fail(log, StageCallingModel, apperrors.Wrap(apperrors.CodeGenerationUnavailable, "outfit generation failed", err))
	}

	s.enter(log, StageParsing)
	stamp := WeatherStamp{TemperatureC: snap.TemperatureC, Description: snap.Description}
	parsed := Parse(completion.Text, startNumber, stamp, s.now())
	if parsed.Empty() {
		return BatchResult{}, s.fail(log, StageParsing, apperrors.Wrap(apperrors.CodeGenerationUnavailable, "model reply contained no outfits", nil))
	}

	s.enter(log, StagePersisting)
	generated := make([]Outfit, 0, len(parsed.Outfits))
	for _, o := range parsed.Outfits {
		id, err := s.outfits.Create(ctx, userID, o)
		if err != nil {
			failure := s.fail(log, StagePersisting, apperrors.Wrap(apperrors.CodePersistence, "failed to save outfit", err))
			var stageErr *StageError
			if errors.As(failure, &stageErr) {
				stageErr.Persisted = len(generated)
			}
			return BatchResult{}, failure
		}
		o.ID = id
		generated = append(generated, o)
	}

	all, err := s.outfits.ListOrderedByNumber(ctx, userID)
	if err != nil {
		return BatchResult{}, s.fail(log, StagePersisting, apperrors.Wrap(apperrors.CodePersistence, "failed to list outfits", err))
	}

	s.enter(log, StageDone)
	elapsed := s.now().Sub(start)
	attrs := []any{"generated", len(generated), "total", len(all), "duration_ms", elapsed.Milliseconds()}
	if !completion.Usage.IsZero() {
		attrs = append(attrs, "total_tokens", completion.Usage.TotalTokens)
	}
	log.Info("outfit batch generated", attrs...)
	return BatchResult{
		Outfits:     all,
		Generated:   generated,
		StartNumber: startNumber,
		DurationMs:  elapsed.Milliseconds(),
		TokenUsage:  completion.Usage,
	}, nil
}

func (s *service) batchSize(requested int) (int, error) {
	if requested == 0 {
		return s.cfg.DefaultBatchSize, nil
	}
	if requested < 0 || requested > s.cfg.MaxBatchSize {
		return 0, apperrors.Wrap(apperrors.CodeInvalidInput, "batch size out of range", nil)
	}
	return requested, nil
}

func (s *service) enter(log *slog.Logger, stage Stage) {
	log.Debug("generation stage", "stage", stage)
}

func (s *service) fail(log *slog.Logger, stage Stage, err error) error {
	log.Warn("outfit batch failed", "stage", stage, "code", apperrors.CodeOf(err), "error", err)
	return failAt(stage, err)
}

func (s *service) ListOutfits(ctx context.Context, userID string) ([]Outfit, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "user id is required", nil)
	}
	outfits, err := s.outfits.ListOrderedByNumber(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodePersistence, "failed to list outfits", err)
	}
	return outfits, nil
}

func (s *service) DeleteOutfit(ctx context.Context, userID, outfitID string) error {
	userID = strings.TrimSpace(userID)
	outfitID = strings.TrimSpace(outfitID)
	if userID == "" || outfitID == "" {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "user id and outfit id are required", nil)
	}
	if err := s.outfits.Delete(ctx, userID, outfitID); err != nil {
		return apperrors.Wrap(apperrors.CodePersistence, "failed to delete outfit", err)
	}
	s.logger.Info("outfit deleted", "user_id", userID, "outfit_id", outfitID)
	return nil
}

func (s *service) GetPreferences(ctx context.Context, userID string) (Preferences, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Preferences{}, apperrors.Wrap(apperrors.CodeInvalidInput, "user id is required", nil)
	}
	prefs, ok, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return Preferences{}, apperrors.Wrap(apperrors.CodePersistence, "failed to read preferences", err)
	}
	if !ok {
		return Preferences{}, apperrors.Wrap(apperrors.CodePreferencesMissing, "preferences have not been set", nil)
	}
	return prefs, nil
}

func (s *service) SavePreferences(ctx context.Context, userID string, prefs Preferences) (Preferences, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Preferences{}, apperrors.Wrap(apperrors.CodeInvalidInput, "user id is required", nil)
	}
	prefs.Gender = Gender(strings.ToLower(strings.TrimSpace(string(prefs.Gender))))
	prefs.Style = strings.ToLower(strings.TrimSpace(prefs.Style))
	if !prefs.Gender.Valid() {
		return Preferences{}, apperrors.Wrap(apperrors.CodeInvalidInput, "gender must be male, female or nonbinary", nil)
	}
	if prefs.Style == "" {
		return Preferences{}, apperrors.Wrap(apperrors.CodeInvalidInput, "style is required", nil)
	}
	prefs.UpdatedAt = s.now()
	if err := s.prefs.Put(ctx, userID, prefs); err != nil {
		return Preferences{}, apperrors.Wrap(apperrors.CodePersistence, "failed to save preferences", err)
	}
	s.logger.Info("preferences saved", "user_id", userID, "gender", prefs.Gender, "style", prefs.Style)
	return prefs, nil
}
