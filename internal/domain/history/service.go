package history

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/yanqian/nutrisnap/pkg/errors"
	"github.com/yanqian/nutrisnap/pkg/util"
)

// Service exposes the analysis history log.
type Service interface {
	Record(ctx context.Context, entry Entry) (Entry, error)
	List(ctx context.Context) (ListResponse, error)
}

type service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires up the history domain.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.With("component", "history.service"),
		now:    time.Now,
	}
}

// Record stamps the entry with the current minute and appends it.
func (s *service) Record(ctx context.Context, entry Entry) (Entry, error) {
	entry.Timestamp = util.MinuteStamp(s.now())
	if strings.TrimSpace(entry.Source) == "" {
		entry.Source = CameraSource
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		return Entry{}, apperrors.Wrap("history_error", "failed to append history entry", err)
	}
	s.logger.Info("history entry recorded", "source", entry.Source, "total_calories", entry.TotalCalories)
	return entry, nil
}

// List returns every stored entry, most recent first.
func (s *service) List(ctx context.Context) (ListResponse, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return ListResponse{}, apperrors.Wrap("history_error", "failed to load history", err)
	}
	return ListResponse{Entries: reversed(entries)}, nil
}

func reversed(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, entry := range entries {
		out[len(entries)-1-i] = entry
	}
	return out
}
