package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/yanqian/nutrisnap/pkg/errors"
)

// Service manages per-session preferences.
type Service interface {
	Get(ctx context.Context, sessionID string) (Response, error)
	Update(ctx context.Context, sessionID string, req UpdateRequest) (Response, error)
	Preferences(ctx context.Context, sessionID string) (Preferences, error)
}

type service struct {
	cfg    Config
	store  Store
	logger *slog.Logger
}

// NewService wires up the session domain.
func NewService(cfg Config, store Store, logger *slog.Logger) Service {
	return &service{cfg: cfg, store: store, logger: logger.With("component", "session.service")}
}

func (s *service) Get(ctx context.Context, sessionID string) (Response, error) {
	prefs, err := s.Preferences(ctx, sessionID)
	if err != nil {
		return Response{}, err
	}
	return s.response(sessionID, prefs), nil
}

func (s *service) Update(ctx context.Context, sessionID string, req UpdateRequest) (Response, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Response{}, apperrors.Wrap("invalid_input", "session id is required", nil)
	}
	prefs, err := s.Preferences(ctx, sessionID)
	if err != nil {
		return Response{}, err
	}
	if req.GoalCalories != nil {
		goal := *req.GoalCalories
		if goal < s.cfg.MinGoalCalories || goal > s.cfg.MaxGoalCalories {
			msg := fmt.Sprintf("goalCalories must be between %d and %d", s.cfg.MinGoalCalories, s.cfg.MaxGoalCalories)
			return Response{}, apperrors.Wrap("invalid_input", msg, nil)
		}
		prefs.GoalCalories = goal
	}
	if req.MealPlan != nil {
		category, ok := ParseCategory(*req.MealPlan)
		if !ok {
			return Response{}, apperrors.Wrap("invalid_input", fmt.Sprintf("unknown meal plan %q", *req.MealPlan), nil)
		}
		prefs.MealPlan = category
	}
	if err := s.store.Save(ctx, sessionID, prefs); err != nil {
		return Response{}, apperrors.Wrap("session_error", "failed to save preferences", err)
	}
	s.logger.Debug("session preferences updated", "session_id", sessionID, "goal", prefs.GoalCalories, "meal_plan", prefs.MealPlan)
	return s.response(sessionID, prefs), nil
}

// Preferences returns the stored preferences or the defaults for unknown sessions.
func (s *service) Preferences(ctx context.Context, sessionID string) (Preferences, error) {
	defaults := Preferences{GoalCalories: s.cfg.DefaultGoalCalories, MealPlan: s.cfg.DefaultMealPlan}
	if strings.TrimSpace(sessionID) == "" {
		return defaults, nil
	}
	prefs, found, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return Preferences{}, apperrors.Wrap("session_error", "failed to load preferences", err)
	}
	if !found {
		return defaults, nil
	}
	return prefs, nil
}

func (s *service) response(sessionID string, prefs Preferences) Response {
	return Response{SessionID: sessionID, Preferences: prefs, Categories: Categories}
}
