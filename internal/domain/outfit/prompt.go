package outfit

import (
	"fmt"
	"strings"

	"github.com/yanqian/outfit-advisor/internal/domain/weather"
)

// DefaultSystemPrompt frames the model as a stylist producing varied looks.
const DefaultSystemPrompt = "You are a fashion advisor creating distinctly different outfit recommendations. " +
	"Each outfit should serve a different purpose or situation while matching the user's style. " +
	"Keep clothing descriptions simple and clear. " +
	"Ensure maximum variety between outfits in color schemes and item types."

// PromptSpec is a fully resolved model request.
type PromptSpec struct {
	System      string
	User        string
	Model       string
	Temperature float32
	MaxTokens   int
}

// PromptBuilder renders the generation request. It never talks to the model.
type PromptBuilder struct {
	cfg Config
}

// NewPromptBuilder constructs a builder from the outfit config.
func NewPromptBuilder(cfg Config) PromptBuilder {
	return PromptBuilder{cfg: cfg.withDefaults()}
}

// BuildBatchRequest asks for batchSize outfits numbered from startingNumber.
// The same inputs always yield the same PromptSpec.
func (b PromptBuilder) BuildBatchRequest(prefs Preferences, snap weather.Snapshot, startingNumber, batchSize int) PromptSpec {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Create %d completely different outfits for a %s person with a %s style preference.\n",
		batchSize, prefs.Gender, strings.TrimSpace(prefs.Style))
	fmt.Fprintf(&sb, "Current weather: %d°C and %s.\n\n", snap.TemperatureC, describe(snap))
	sb.WriteString("Requirements:\n")
	fmt.Fprintf(&sb, "1. Number outfits starting from %d up to %d\n", startingNumber, startingNumber+batchSize-1)
	sb.WriteString("2. Each outfit must be distinctly different in style and color scheme\n")
	sb.WriteString("3. Include 4-5 items per outfit (including one accessory)\n")
	sb.WriteString("4. Keep descriptions simple and clear\n")
	sb.WriteString("5. End each outfit with a brief styling tip\n")
	sb.WriteString("6. Make sure outfits serve different purposes (e.g., casual outing, work, dinner)\n\n")
	sb.WriteString("Format each outfit as:\n")
	sb.WriteString(formatContract)
	sb.WriteString("\nEnsure maximum variety between the outfits!")

	return PromptSpec{
		System:      b.cfg.SystemPrompt,
		User:        sb.String(),
		Model:       b.cfg.Model,
		Temperature: b.cfg.Temperature,
		MaxTokens:   b.cfg.MaxTokens,
	}
}

const formatContract = "Outfit [number]:\n" +
	"• [item 1]\n" +
	"• [item 2]\n" +
	"• [item 3]\n" +
	"• [item 4]\n" +
	"Tip: [brief styling advice]\n"

func describe(snap weather.Snapshot) string {
	if d := strings.TrimSpace(snap.Description); d != "" {
		return d
	}
	return "unknown conditions"
}
