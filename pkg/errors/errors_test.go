package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapAndIsCode(t *testing.T) {
	err := Wrap("llm_error", "gemini request failed", io.ErrUnexpectedEOF)
	require.EqualError(t, err, "gemini request failed: unexpected EOF")
	require.True(t, IsCode(err, "llm_error"))
	require.False(t, IsCode(err, "invalid_input"))
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	wrapped := fmt.Errorf("handler: %w", err)
	require.True(t, IsCode(wrapped, "llm_error"))
	require.Equal(t, "llm_error", CodeOf(wrapped))
	require.Equal(t, "", CodeOf(io.EOF))
}

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap("invalid_input", "image is required", nil)
	require.EqualError(t, err, "image is required")
}
