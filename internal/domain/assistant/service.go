package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/nutrisnap/internal/domain/session"
	"github.com/yanqian/nutrisnap/internal/infra/llm/gemini"
	apperrors "github.com/yanqian/nutrisnap/pkg/errors"
)

// Service exposes the prompt-in/text-out helper flows.
type Service interface {
	Ask(ctx context.Context, req AskRequest) (AskResponse, error)
	VoiceAsk(ctx context.Context, req VoiceRequest) (AskResponse, error)
	MealPlan(ctx context.Context, req MealPlanRequest) (MealPlanResponse, error)
	DoctorPlan(ctx context.Context, req DoctorPlanRequest) (DoctorPlanResponse, error)
}

type ChatClient interface {
	GenerateContent(ctx context.Context, req gemini.Request) (gemini.Response, error)
}

// Speaker plays text aloud without blocking the caller.
type Speaker interface {
	Speak(text string)
}

// Transcriber converts recorded speech into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// PreferencesReader resolves the meal-plan category and calorie goal of a session.
type PreferencesReader interface {
	Preferences(ctx context.Context, sessionID string) (session.Preferences, error)
}

type service struct {
	cfg         Config
	client      ChatClient
	speaker     Speaker
	transcriber Transcriber
	prefs       PreferencesReader
	logger      *slog.Logger
	now         func() time.Time
}

// NewService wires up the assistant domain.
func NewService(cfg Config, client ChatClient, speaker Speaker, transcriber Transcriber, prefs PreferencesReader, logger *slog.Logger) Service {
	return &service{
		cfg:         cfg,
		client:      client,
		speaker:     speaker,
		transcriber: transcriber,
		prefs:       prefs,
		logger:      logger.With("component", "assistant.service"),
		now:         time.Now,
	}
}

func (s *service) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return AskResponse{}, apperrors.Wrap("invalid_input", "question cannot be empty", nil)
	}
	start := s.now()
	completion, err := s.generate(ctx, question)
	if err != nil {
		return AskResponse{}, err
	}
	spoken := s.speak(completion.Text)
	s.logger.Info("assistant question answered", "question_len", len(question), "answer_len", len(completion.Text))
	return AskResponse{
		Question:   question,
		Answer:     completion.Text,
		Spoken:     spoken,
		DurationMs: s.now().Sub(start).Milliseconds(),
		TokenUsage: completion.Usage.Ptr(),
	}, nil
}

func (s *service) VoiceAsk(ctx context.Context, req VoiceRequest) (AskResponse, error) {
	if len(req.Audio) == 0 {
		return AskResponse{}, apperrors.Wrap("invalid_input", "audio is required", nil)
	}
	question, err := s.transcribe(ctx, req)
	if err != nil {
		s.logger.Warn("voice question failed", "code", apperrors.CodeOf(err), "error", err)
		return AskResponse{}, err
	}
	s.logger.Info("voice question transcribed", "question_len", len(question))
	return s.Ask(ctx, AskRequest{Question: question})
}

func (s *service) MealPlan(ctx context.Context, req MealPlanRequest) (MealPlanResponse, error) {
	prefs, err := s.prefs.Preferences(ctx, req.SessionID)
	if err != nil {
		return MealPlanResponse{}, err
	}
	category := prefs.MealPlan
	if strings.TrimSpace(req.Category) != "" {
		parsed, ok := session.ParseCategory(req.Category)
		if !ok {
			return MealPlanResponse{}, apperrors.Wrap("invalid_input", fmt.Sprintf("unknown meal plan %q", req.Category), nil)
		}
		category = parsed
	}
	start := s.now()
	completion, err := s.generate(ctx, mealPlanPrompt(string(category), prefs.GoalCalories))
	if err != nil {
		return MealPlanResponse{}, err
	}
	s.logger.Info("meal plan generated", "category", category, "goal", prefs.GoalCalories)
	return MealPlanResponse{
		Category:     string(category),
		GoalCalories: prefs.GoalCalories,
		Plan:         completion.Text,
		DurationMs:   s.now().Sub(start).Milliseconds(),
		TokenUsage:   completion.Usage.Ptr(),
	}, nil
}

func (s *service) DoctorPlan(ctx context.Context, req DoctorPlanRequest) (DoctorPlanResponse, error) {
	period, ok := ParsePeriod(req.Period)
	if !ok {
		return DoctorPlanResponse{}, apperrors.Wrap("invalid_input", "period must be daily, weekly or monthly", nil)
	}
	start := s.now()
	completion, err := s.generate(ctx, doctorPlanPrompt(period))
	if err != nil {
		return DoctorPlanResponse{}, err
	}
	spoken := s.speak(completion.Text)
	s.logger.Info("doctor plan generated", "period", period)
	return DoctorPlanResponse{
		Period:     period,
		Plan:       completion.Text,
		Spoken:     spoken,
		DurationMs: s.now().Sub(start).Milliseconds(),
		TokenUsage: completion.Usage.Ptr(),
	}, nil
}

func (s *service) generate(ctx context.Context, prompt string) (gemini.Response, error) {
	completion, err := s.client.GenerateContent(ctx, gemini.Request{
		Model:       s.cfg.Model,
		Prompt:      prompt,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return gemini.Response{}, apperrors.Wrap("llm_error", "gemini request failed", err)
	}
	return completion, nil
}

func (s *service) transcribe(ctx context.Context, req VoiceRequest) (string, error) {
	listenCtx := ctx
	if s.cfg.ListenTimeout > 0 {
		var cancel context.CancelFunc
		listenCtx, cancel = context.WithTimeout(ctx, s.cfg.ListenTimeout)
		defer cancel()
	}
	text, err := s.transcriber.Transcribe(listenCtx, req.Audio, req.MimeType)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apperrors.Wrap("voice_timeout", "timed out waiting for speech, please try again", err)
		}
		return "", apperrors.Wrap("stt_error", "voice assistant error", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperrors.Wrap("no_speech", "no speech was recognized", nil)
	}
	return text, nil
}

// speak hands the first SpeakPrefix runes to the speaker and returns immediately.
func (s *service) speak(text string) bool {
	if !s.cfg.Speak || s.speaker == nil {
		return false
	}
	prefix := runePrefix(strings.TrimSpace(text), s.cfg.SpeakPrefix)
	if prefix == "" {
		return false
	}
	s.speaker.Speak(prefix)
	return true
}

func runePrefix(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
