package outfit

import (
	"context"

	"github.com/yanqian/outfit-advisor/internal/domain/weather"
	"github.com/yanqian/outfit-advisor/pkg/metrics"
)

// Repository stores a user's outfits ordered by number.
type Repository interface {
	Create(ctx context.Context, userID string, outfit Outfit) (string, error)
	// Delete removes an outfit. Deleting a missing id is not an error.
	Delete(ctx context.Context, userID, outfitID string) error
	ListOrderedByNumber(ctx context.Context, userID string) ([]Outfit, error)
	// MaxNumber returns the highest stored number, or 0 when the user has none.
	MaxNumber(ctx context.Context, userID string) (int, error)
}

// PreferenceStore holds one Preferences record per user.
type PreferenceStore interface {
	Get(ctx context.Context, userID string) (Preferences, bool, error)
	Put(ctx context.Context, userID string, prefs Preferences) error
}

// Completion is the model's raw reply.
type Completion struct {
	Text  string
	Usage metrics.TokenUsage
}

// Completer is the single capability every model backend provides.
type Completer interface {
	Complete(ctx context.Context, spec PromptSpec) (Completion, error)
}

// WeatherSource is the subset of the weather service used by generation.
type WeatherSource interface {
	ResolveLocation(ctx context.Context, locator weather.Locator) weather.Coordinates
	GetWeather(ctx context.Context, coords weather.Coordinates) (weather.Snapshot, error)
}
