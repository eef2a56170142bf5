package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenUsagePtr(t *testing.T) {
	require.Nil(t, TokenUsage{}.Ptr())

	usage := TokenUsage{PromptTokens: 10, TotalTokens: 12}
	ptr := usage.Ptr()
	require.NotNil(t, ptr)
	require.Equal(t, usage, *ptr)
}
