package nutrition

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/nutrisnap/internal/domain/history"
	"github.com/yanqian/nutrisnap/internal/domain/session"
	"github.com/yanqian/nutrisnap/internal/infra/llm/gemini"
	apperrors "github.com/yanqian/nutrisnap/pkg/errors"
)

// Service exposes meal photo analysis.
type Service interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (AnalysisResponse, error)
	Report(ctx context.Context, id string) (string, error)
	Chart(ctx context.Context, id string) ([]byte, error)
}

type ChatClient interface {
	GenerateContent(ctx context.Context, req gemini.Request) (gemini.Response, error)
}

// BlurDetector flags images whose sharpness falls below a threshold.
type BlurDetector interface {
	IsBlurry(data []byte) (bool, float64, error)
}

// ChartRenderer turns computed slices into a PNG.
type ChartRenderer interface {
	RenderPie(title string, slices []PieSlice) ([]byte, error)
}

// ArtifactStore keeps downloadable outputs for a bounded time.
type ArtifactStore interface {
	Save(ctx context.Context, artifact Artifact, ttl time.Duration) error
	Get(ctx context.Context, id string) (Artifact, bool, error)
}

// ImageArchive stores analysed meal photos.
type ImageArchive interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (StoredObject, error)
}

// HistoryRecorder appends finished analyses to the history log.
type HistoryRecorder interface {
	Record(ctx context.Context, entry history.Entry) (history.Entry, error)
}

// PreferencesReader resolves the calorie goal of a session.
type PreferencesReader interface {
	Preferences(ctx context.Context, sessionID string) (session.Preferences, error)
}

const chartTitle = "Nutrient Distribution"

var supportedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type service struct {
	cfg       Config
	client    ChatClient
	blur      BlurDetector
	chart     ChartRenderer
	artifacts ArtifactStore
	archive   ImageArchive
	history   HistoryRecorder
	prefs     PreferencesReader
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewService wires up the nutrition analysis domain.
func NewService(cfg Config, client ChatClient, blur BlurDetector, chart ChartRenderer, artifacts ArtifactStore, archive ImageArchive, historyRecorder HistoryRecorder, prefs PreferencesReader, logger *slog.Logger) Service {
	return &service{
		cfg:       cfg,
		client:    client,
		blur:      blur,
		chart:     chart,
		artifacts: artifacts,
		archive:   archive,
		history:   historyRecorder,
		prefs:     prefs,
		logger:    logger.With("component", "nutrition.service"),
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

func (s *service) Analyze(ctx context.Context, req AnalyzeRequest) (AnalysisResponse, error) {
	start := s.now()
	if len(req.Image) == 0 {
		return AnalysisResponse{}, apperrors.Wrap("invalid_input", "image is required", nil)
	}
	mimeType := resolveMimeType(req.MimeType, req.Image)
	if _, ok := supportedImageTypes[mimeType]; !ok {
		return AnalysisResponse{}, apperrors.Wrap("invalid_input", fmt.Sprintf("unsupported image type %q", mimeType), nil)
	}

	prefs, err := s.prefs.Preferences(ctx, req.SessionID)
	if err != nil {
		return AnalysisResponse{}, err
	}

	var warnings []string
	blurry := s.checkBlur(req.Image)
	if blurry {
		warnings = append(warnings, "Image seems blurry. Try retaking a clearer photo.")
	}

	completion, err := s.client.GenerateContent(ctx, gemini.Request{
		Model:       s.cfg.Model,
		Prompt:      AnalysisPrompt,
		Media:       []gemini.Media{{MimeType: mimeType, Data: req.Image}},
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return AnalysisResponse{}, apperrors.Wrap("llm_error", "gemini request failed", err)
	}
	s.logger.Debug("gemini analysis received", "content", completion.Text)

	parsed := ParseReport(completion.Text)
	nutrients := ExtractNutrientValues(parsed.NutrientSection)
	slices := BuildPieSlices(nutrients)

	flatItems := FlattenItems(parsed.Items)
	flatNutrients := FlattenNutrients(parsed.NutrientSection)
	report := BuildReport(flatItems, flatNutrients, AssessmentComplete)

	source := sourceLabel(req)
	if _, err := s.history.Record(ctx, history.Entry{
		Source:        source,
		TotalCalories: parsed.TotalCalories,
		Items:         flatItems,
		Nutrients:     flatNutrients,
		Assessment:    AssessmentComplete,
	}); err != nil {
		return AnalysisResponse{}, err
	}

	id := s.newID()
	artifact := Artifact{ID: id, Report: report, CreatedAt: start}
	if len(slices) > 0 {
		png, renderErr := s.chart.RenderPie(chartTitle, slices)
		if renderErr != nil {
			s.logger.Error("nutrient chart render failed", "error", renderErr)
			warnings = append(warnings, "Nutrient chart could not be rendered.")
		} else {
			artifact.ChartPNG = png
		}
	}
	if err := s.artifacts.Save(ctx, artifact, s.cfg.ArtifactTTL); err != nil {
		s.logger.Error("analysis artifact save failed", "id", id, "error", err)
		warnings = append(warnings, "Report download is unavailable for this analysis.")
	}
	s.archiveImage(ctx, id, source, mimeType, req.Image)

	s.logger.Info("meal analysis completed", "id", id, "items", len(parsed.Items), "total_calories", parsed.TotalCalories, "blurry", blurry)

	return AnalysisResponse{
		ID:                id,
		Source:            source,
		Items:             parsed.Items,
		TotalCalories:     parsed.TotalCalories,
		NutrientSection:   parsed.NutrientSection,
		Nutrients:         nutrients,
		Slices:            slices,
		ChartAvailable:    len(artifact.ChartPNG) > 0,
		Assessment:        AssessmentComplete,
		Report:            report,
		Blurry:            blurry,
		Warnings:          warnings,
		RawResponse:       completion.Text,
		GoalCalories:      prefs.GoalCalories,
		RemainingCalories: prefs.GoalCalories - parsed.TotalCalories,
		DurationMs:        s.now().Sub(start).Milliseconds(),
		TokenUsage:        completion.Usage.Ptr(),
	}, nil
}

func (s *service) Report(ctx context.Context, id string) (string, error) {
	artifact, err := s.artifact(ctx, id)
	if err != nil {
		return "", err
	}
	return artifact.Report, nil
}

func (s *service) Chart(ctx context.Context, id string) ([]byte, error) {
	artifact, err := s.artifact(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(artifact.ChartPNG) == 0 {
		return nil, apperrors.Wrap("not_found", "no nutrient chart for this analysis", nil)
	}
	return artifact.ChartPNG, nil
}

func (s *service) artifact(ctx context.Context, id string) (Artifact, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Artifact{}, apperrors.Wrap("invalid_input", "invalid analysis id", err)
	}
	artifact, found, err := s.artifacts.Get(ctx, id)
	if err != nil {
		return Artifact{}, apperrors.Wrap("artifact_error", "failed to load analysis artifacts", err)
	}
	if !found {
		return Artifact{}, apperrors.Wrap("not_found", "analysis not found or expired", nil)
	}
	return artifact, nil
}

// checkBlur is advisory: decode failures are logged and treated as sharp.
func (s *service) checkBlur(image []byte) bool {
	if !s.cfg.BlurDetection || s.blur == nil {
		return false
	}
	blurry, variance, err := s.blur.IsBlurry(image)
	if err != nil {
		s.logger.Warn("blur detection skipped", "error", err)
		return false
	}
	s.logger.Debug("blur detection", "variance", variance, "blurry", blurry)
	return blurry
}

func (s *service) archiveImage(ctx context.Context, id, source, mimeType string, data []byte) {
	if !s.cfg.ArchiveImages || s.archive == nil {
		return
	}
	key := fmt.Sprintf("meals/%s/%s%s", s.now().Format("2006-01-02"), id, supportedImageTypes[mimeType])
	obj, err := s.archive.Put(ctx, key, data, mimeType)
	if err != nil {
		s.logger.Warn("meal image archive failed", "key", key, "error", err)
		return
	}
	s.logger.Info("meal image archived", "key", obj.Key, "size", obj.Size, "source", source)
}

func resolveMimeType(declared string, data []byte) string {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if declared == "image/jpg" {
		declared = "image/jpeg"
	}
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	sniffed := http.DetectContentType(data)
	if i := strings.Index(sniffed, ";"); i >= 0 {
		sniffed = sniffed[:i]
	}
	return sniffed
}

func sourceLabel(req AnalyzeRequest) string {
	if req.Source == SourceCamera {
		return history.CameraSource
	}
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(req.Filename), "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return history.CameraSource
	}
	return name
}
