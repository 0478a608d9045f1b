package outfit

import (
	"strings"
	"time"

	"github.com/yanqian/outfit-advisor/pkg/metrics"
)

// Gender is the fixed set of fits the user can choose from.
type Gender string

const (
	GenderMale      Gender = "male"
	GenderFemale    Gender = "female"
	GenderNonbinary Gender = "nonbinary"
)

// Valid reports whether g is one of the supported values.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderNonbinary:
		return true
	}
	return false
}

// Preferences is the single active style profile of a user.
type Preferences struct {
	Gender    Gender    `json:"gender"`
	Style     string    `json:"style"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WeatherStamp is the weather captured at generation time.
type WeatherStamp struct {
	TemperatureC int    `json:"temperatureC"`
	Description  string `json:"description"`
}

// Outfit is a persisted recommendation. Outfits are never edited after creation.
type Outfit struct {
	ID        string       `json:"id"`
	Number    int          `json:"number"`
	Text      string       `json:"text"`
	Items     []string     `json:"items"`
	Tip       string       `json:"tip,omitempty"`
	Weather   WeatherStamp `json:"weather"`
	CreatedAt time.Time    `json:"createdAt"`
}

// HasTip reports whether a styling tip was parsed for the outfit.
func (o Outfit) HasTip() bool {
	return strings.TrimSpace(o.Tip) != ""
}

// BatchRequest is the input to GenerateBatch.
type BatchRequest struct {
	BatchSize int `json:"batchSize"`
}

// BatchResult carries the full updated outfit list after a generation.
type BatchResult struct {
	Outfits     []Outfit           `json:"outfits"`
	Generated   []Outfit           `json:"generated"`
	StartNumber int                `json:"startNumber"`
	DurationMs  int64              `json:"durationMs"`
	TokenUsage  metrics.TokenUsage `json:"tokenUsage"`
}

// Config wires runtime settings for the outfit domain.
type Config struct {
	Model            string
	Temperature      float32
	MaxTokens        int
	DefaultBatchSize int
	MaxBatchSize     int
	SystemPrompt     string
}

func (c Config) withDefaults() Config {
	if c.DefaultBatchSize <= 0 {
		c.DefaultBatchSize = 3
	}
	if c.MaxBatchSize <= 0 {
		c.MaxBatchSize = 10
	}
	if c.MaxBatchSize < c.DefaultBatchSize {
		c.MaxBatchSize = c.DefaultBatchSize
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 1024
	}
	if strings.TrimSpace(c.SystemPrompt) == "" {
		c.SystemPrompt = DefaultSystemPrompt
	}
	return c
}
