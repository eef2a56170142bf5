package speech

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/nutrisnap/internal/infra/llm/gemini"
)

const transcribePrompt = "Transcribe the spoken question in this audio clip. Reply with the transcript only, no commentary. If nothing intelligible is said, reply with an empty message."

// ChatClient is the subset of the Gemini client used for transcription.
type ChatClient interface {
	GenerateContent(ctx context.Context, req gemini.Request) (gemini.Response, error)
}

// GeminiTranscriber turns recorded speech into text using Gemini's audio input.
type GeminiTranscriber struct {
	client      ChatClient
	model       string
	phraseLimit time.Duration
	logger      *slog.Logger
}

// NewGeminiTranscriber constructs a transcriber. WAV input longer than
// phraseLimit is cut before upload.
func NewGeminiTranscriber(client ChatClient, model string, phraseLimit time.Duration, logger *slog.Logger) *GeminiTranscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiTranscriber{
		client:      client,
		model:       model,
		phraseLimit: phraseLimit,
		logger:      logger.With("component", "speech.transcriber"),
	}
}

// Transcribe returns the recognized text, which may be empty. Context
// cancellation is reported as the context error.
func (t *GeminiTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	mimeType = normalizeAudioMime(mimeType)
	if mimeType == "audio/wav" {
		var trimmed bool
		audio, trimmed = TrimWAV(audio, t.phraseLimit)
		if trimmed {
			t.logger.Debug("voice clip trimmed to phrase limit", "limit", t.phraseLimit)
		}
	}
	resp, err := t.client.GenerateContent(ctx, gemini.Request{
		Model:  t.model,
		Prompt: transcribePrompt,
		Media:  []gemini.Media{{MimeType: mimeType, Data: audio}},
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("transcribe audio: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

func normalizeAudioMime(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	switch mimeType {
	case "", "application/octet-stream":
		return "audio/wav"
	case "audio/x-wav", "audio/wave", "audio/vnd.wave":
		return "audio/wav"
	}
	return mimeType
}
