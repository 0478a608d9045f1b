package groq

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/yanqian/outfit-advisor/internal/domain/outfit"
	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
	"github.com/yanqian/outfit-advisor/pkg/metrics"
)

// DefaultBaseURL is Groq's OpenAI compatible endpoint.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

// Client sends prompts to Groq through the go-openai SDK.
type Client struct {
	api        *openai.Client
	configured bool
}

// NewClient builds a Groq client. An empty key yields a client whose calls
// fail with apperrors.ErrMissingCredential.
func NewClient(apiKey, baseURL string) *Client {
	cfg := openai.DefaultConfig(strings.TrimSpace(apiKey))
	cfg.BaseURL = DefaultBaseURL
	cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{
		api:        openai.NewClientWithConfig(cfg),
		configured: strings.TrimSpace(apiKey) != "",
	}
}

// Complete implements outfit.Completer.
func (c *Client) Complete(ctx context.Context, spec outfit.PromptSpec) (outfit.Completion, error) {
	if !c.configured {
		return outfit.Completion{}, apperrors.ErrMissingCredential
	}
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: spec.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: spec.System},
			{Role: openai.ChatMessageRoleUser, Content: spec.User},
		},
		Temperature: spec.Temperature,
		MaxTokens:   spec.MaxTokens,
	})
	if err != nil {
		return outfit.Completion{}, err
	}
	if len(resp.Choices) == 0 {
		return outfit.Completion{}, errors.New("groq returned no choices")
	}
	return outfit.Completion{
		Text: resp.Choices[0].Message.Content,
		Usage: metrics.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}.WithTotal(),
	}, nil
}

var _ outfit.Completer = (*Client)(nil)
