package nutrition

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/nutrisnap/internal/domain/history"
	"github.com/yanqian/nutrisnap/internal/domain/session"
	"github.com/yanqian/nutrisnap/internal/infra/llm/gemini"
	apperrors "github.com/yanqian/nutrisnap/pkg/errors"
	"github.com/yanqian/nutrisnap/pkg/metrics"
)

const testAnalysisID = "6f1c2b8e-4a8f-4d0b-9a57-3a7f5f0f6d11"

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

func TestServiceAnalyzeSuccess(t *testing.T) {
	deps := newTestDeps()
	deps.chat.resp = gemini.Response{
		Text:  sampleResponse,
		Usage: metrics.TokenUsage{PromptTokens: 300, CompletionTokens: 120, TotalTokens: 420},
	}
	deps.prefs.prefs = session.Preferences{GoalCalories: 1800, MealPlan: session.CategoryWeightLoss}
	svc := deps.service()

	resp, err := svc.Analyze(context.Background(), AnalyzeRequest{
		SessionID: "s1",
		Filename:  "uploads/lunch.png",
		MimeType:  "image/png",
		Image:     pngHeader,
	})
	require.NoError(t, err)

	require.Equal(t, testAnalysisID, resp.ID)
	require.Equal(t, "lunch.png", resp.Source)
	require.Equal(t, 480, resp.TotalCalories)
	require.Len(t, resp.Items, 3)
	require.Len(t, resp.Nutrients, 5)
	require.Len(t, resp.Slices, 5)
	require.True(t, resp.Slices[0].Exploded)
	require.True(t, resp.ChartAvailable)
	require.Equal(t, AssessmentComplete, resp.Assessment)
	require.Equal(t, 1800, resp.GoalCalories)
	require.Equal(t, 1320, resp.RemainingCalories)
	require.Equal(t, sampleResponse, resp.RawResponse)
	require.Equal(t, 420, resp.TokenUsage.TotalTokens)
	require.False(t, resp.Blurry)
	require.Empty(t, resp.Warnings)

	require.Equal(t, AnalysisPrompt, deps.chat.last.Prompt)
	require.Equal(t, "gemini-test", deps.chat.last.Model)
	require.Equal(t, []gemini.Media{{MimeType: "image/png", Data: pngHeader}}, deps.chat.last.Media)

	require.Len(t, deps.history.entries, 1)
	entry := deps.history.entries[0]
	require.Equal(t, "lunch.png", entry.Source)
	require.Equal(t, 480, entry.TotalCalories)
	require.Equal(t, "Rice - 180 calories | Fish Fry - 200 calories | Mixed Vegetables - 100 calories", entry.Items)
	require.Equal(t, AssessmentComplete, entry.Assessment)

	artifact := deps.artifacts.saved[testAnalysisID]
	require.Equal(t, resp.Report, artifact.Report)
	require.Equal(t, []byte("png"), artifact.ChartPNG)
	require.Equal(t, time.Hour, deps.artifacts.ttl)
	require.Equal(t, "Nutrient Distribution", deps.chart.title)

	require.Equal(t, "meals/2024-07-01/"+testAnalysisID+".png", deps.archive.key)
}

func TestServiceAnalyzeMalformedResponseDegrades(t *testing.T) {
	deps := newTestDeps()
	deps.chat.resp = gemini.Response{Text: "Sorry, I cannot see any food."}
	svc := deps.service()

	resp, err := svc.Analyze(context.Background(), AnalyzeRequest{Source: SourceCamera, MimeType: "image/jpeg", Image: []byte{0xff, 0xd8, 0xff}})
	require.NoError(t, err)
	require.Empty(t, resp.Items)
	require.Zero(t, resp.TotalCalories)
	require.Empty(t, resp.NutrientSection)
	require.Nil(t, resp.Slices)
	require.False(t, resp.ChartAvailable)
	require.Equal(t, history.CameraSource, resp.Source)
	require.Zero(t, deps.chart.calls)
	require.Len(t, deps.history.entries, 1)
	require.Equal(t, "Items: \n\nNutrients: \n\nAssessment: Assessment complete", resp.Report)
}

func TestServiceAnalyzeBackendFailureSkipsHistory(t *testing.T) {
	deps := newTestDeps()
	deps.chat.err = errors.New("quota exceeded")
	svc := deps.service()

	_, err := svc.Analyze(context.Background(), AnalyzeRequest{MimeType: "image/png", Image: pngHeader})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "llm_error"))
	require.Empty(t, deps.history.entries)
	require.Empty(t, deps.artifacts.saved)
	require.Equal(t, 1, deps.chat.calls)
}

func TestServiceAnalyzeBlurryIsAdvisory(t *testing.T) {
	deps := newTestDeps()
	deps.blur.blurry = true
	deps.chat.resp = gemini.Response{Text: "- Toast - 90 calories"}
	svc := deps.service()

	resp, err := svc.Analyze(context.Background(), AnalyzeRequest{MimeType: "image/png", Image: pngHeader})
	require.NoError(t, err)
	require.True(t, resp.Blurry)
	require.Len(t, resp.Warnings, 1)
	require.Equal(t, 90, resp.TotalCalories)
	require.Equal(t, 1, deps.chat.calls)
}

func TestServiceAnalyzeBlurDecodeErrorIgnored(t *testing.T) {
	deps := newTestDeps()
	deps.blur.err = errors.New("unknown format")
	svc := deps.service()

	resp, err := svc.Analyze(context.Background(), AnalyzeRequest{MimeType: "image/png", Image: pngHeader})
	require.NoError(t, err)
	require.False(t, resp.Blurry)
}

func TestServiceAnalyzeValidation(t *testing.T) {
	svc := newTestDeps().service()

	_, err := svc.Analyze(context.Background(), AnalyzeRequest{})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.Analyze(context.Background(), AnalyzeRequest{MimeType: "application/pdf", Image: []byte("%PDF-1.4")})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestServiceAnalyzeHistoryFailure(t *testing.T) {
	deps := newTestDeps()
	deps.history.err = apperrors.Wrap("history_error", "failed to append history entry", errors.New("read-only fs"))
	svc := deps.service()

	_, err := svc.Analyze(context.Background(), AnalyzeRequest{MimeType: "image/png", Image: pngHeader})
	require.True(t, apperrors.IsCode(err, "history_error"))
	require.Empty(t, deps.artifacts.saved)
	require.Empty(t, deps.archive.key)
	require.Zero(t, deps.chart.calls)
}

func TestServiceReportAndChart(t *testing.T) {
	deps := newTestDeps()
	deps.artifacts.saved[testAnalysisID] = Artifact{ID: testAnalysisID, Report: "Items: x"}
	svc := deps.service()

	report, err := svc.Report(context.Background(), testAnalysisID)
	require.NoError(t, err)
	require.Equal(t, "Items: x", report)

	_, err = svc.Chart(context.Background(), testAnalysisID)
	require.True(t, apperrors.IsCode(err, "not_found"))

	_, err = svc.Report(context.Background(), "not-a-uuid")
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.Report(context.Background(), "0b7d2f7c-0000-4000-8000-000000000000")
	require.True(t, apperrors.IsCode(err, "not_found"))
}

func TestResolveMimeType(t *testing.T) {
	require.Equal(t, "image/jpeg", resolveMimeType("image/jpg", nil))
	require.Equal(t, "image/png", resolveMimeType("IMAGE/PNG; charset=binary", nil))
	require.Equal(t, "image/png", resolveMimeType("", pngHeader))
	require.Equal(t, "image/jpeg", resolveMimeType("application/octet-stream", []byte{0xff, 0xd8, 0xff, 0xe0}))
}

func TestSourceLabel(t *testing.T) {
	require.Equal(t, "meal.jpg", sourceLabel(AnalyzeRequest{Filename: `C:\photos\meal.jpg`}))
	require.Equal(t, history.CameraSource, sourceLabel(AnalyzeRequest{Filename: "meal.jpg", Source: SourceCamera}))
	require.Equal(t, history.CameraSource, sourceLabel(AnalyzeRequest{}))
}

type testDeps struct {
	chat      *stubChatClient
	blur      *stubBlurDetector
	chart     *stubChartRenderer
	artifacts *stubArtifactStore
	archive   *stubImageArchive
	history   *stubHistoryRecorder
	prefs     *stubPreferences
}

func newTestDeps() *testDeps {
	return &testDeps{
		chat:      &stubChatClient{},
		blur:      &stubBlurDetector{},
		chart:     &stubChartRenderer{},
		artifacts: &stubArtifactStore{saved: map[string]Artifact{}},
		archive:   &stubImageArchive{},
		history:   &stubHistoryRecorder{},
		prefs:     &stubPreferences{prefs: session.Preferences{GoalCalories: 2000, MealPlan: session.CategoryGeneralHealth}},
	}
}

func (d *testDeps) service() *service {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	return &service{
		cfg: Config{
			Model:         "gemini-test",
			Temperature:   0.2,
			BlurDetection: true,
			ArtifactTTL:   time.Hour,
			ArchiveImages: true,
		},
		client:    d.chat,
		blur:      d.blur,
		chart:     d.chart,
		artifacts: d.artifacts,
		archive:   d.archive,
		history:   d.history,
		prefs:     d.prefs,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       func() time.Time { return now },
		newID:     func() string { return testAnalysisID },
	}
}

type stubChatClient struct {
	resp  gemini.Response
	err   error
	last  gemini.Request
	calls int
}

func (s *stubChatClient) GenerateContent(_ context.Context, req gemini.Request) (gemini.Response, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return gemini.Response{}, s.err
	}
	return s.resp, nil
}

type stubBlurDetector struct {
	blurry bool
	err    error
}

func (s *stubBlurDetector) IsBlurry(_ []byte) (bool, float64, error) {
	if s.err != nil {
		return false, 0, s.err
	}
	if s.blurry {
		return true, 12.5, nil
	}
	return false, 350, nil
}

type stubChartRenderer struct {
	title string
	calls int
}

func (s *stubChartRenderer) RenderPie(title string, _ []PieSlice) ([]byte, error) {
	s.calls++
	s.title = title
	return []byte("png"), nil
}

type stubArtifactStore struct {
	saved map[string]Artifact
	ttl   time.Duration
}

func (s *stubArtifactStore) Save(_ context.Context, artifact Artifact, ttl time.Duration) error {
	s.saved[artifact.ID] = artifact
	s.ttl = ttl
	return nil
}

func (s *stubArtifactStore) Get(_ context.Context, id string) (Artifact, bool, error) {
	a, ok := s.saved[id]
	return a, ok, nil
}

type stubImageArchive struct {
	key string
}

func (s *stubImageArchive) Put(_ context.Context, key string, data []byte, mimeType string) (StoredObject, error) {
	s.key = key
	return StoredObject{Key: key, Size: int64(len(data)), MimeType: mimeType}, nil
}

type stubHistoryRecorder struct {
	entries []history.Entry
	err     error
}

func (s *stubHistoryRecorder) Record(_ context.Context, entry history.Entry) (history.Entry, error) {
	if s.err != nil {
		return history.Entry{}, s.err
	}
	s.entries = append(s.entries, entry)
	return entry, nil
}

type stubPreferences struct {
	prefs session.Preferences
}

func (s *stubPreferences) Preferences(_ context.Context, _ string) (session.Preferences, error) {
	return s.prefs, nil
}
