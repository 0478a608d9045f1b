package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenUsageWithTotal(t *testing.T) {
	require.True(t, TokenUsage{}.IsZero())
	require.Equal(t, 42, TokenUsage{PromptTokens: 30, CompletionTokens: 12}.WithTotal().TotalTokens)
	require.Equal(t, 50, TokenUsage{PromptTokens: 30, CompletionTokens: 12, TotalTokens: 50}.WithTotal().TotalTokens)
}
