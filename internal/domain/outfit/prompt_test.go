package outfit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/outfit-advisor/internal/domain/weather"
)

func TestBuildBatchRequestIsDeterministic(t *testing.T) {
	builder := NewPromptBuilder(Config{Model: "mixtral-8x7b-32768", Temperature: 0.9})
	prefs := Preferences{Gender: GenderNonbinary, Style: "streetwear"}
	snap := weather.Snapshot{TemperatureC: -7, Description: "snow"}

	first := builder.BuildBatchRequest(prefs, snap, 4, 3)
	second := builder.BuildBatchRequest(prefs, snap, 4, 3)

	require.Equal(t, first, second)
	require.Equal(t, "mixtral-8x7b-32768", first.Model)
	require.InDelta(t, 0.9, first.Temperature, 1e-6)
	require.Equal(t, 1024, first.MaxTokens)
	require.Equal(t, DefaultSystemPrompt, first.System)
	require.Contains(t, first.User, "Create 3 completely different outfits for a nonbinary person with a streetwear style preference.")
	require.Contains(t, first.User, "Current weather: -7°C and snow.")
	require.Contains(t, first.User, "starting from 4 up to 6")
	require.Contains(t, first.User, "Outfit [number]:\n• [item 1]")
	require.Contains(t, first.User, "Tip: [brief styling advice]")
}

func TestBuildBatchRequestUsesCustomSystemPrompt(t *testing.T) {
	builder := NewPromptBuilder(Config{SystemPrompt: "Be brief.", MaxTokens: 300})
	spec := builder.BuildBatchRequest(Preferences{Gender: GenderFemale, Style: "formal"}, weather.Snapshot{}, 1, 1)

	require.Equal(t, "Be brief.", spec.System)
	require.Equal(t, 300, spec.MaxTokens)
	require.Contains(t, spec.User, "unknown conditions")
}
