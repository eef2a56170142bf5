//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/nutrisnap/internal/bootstrap"
	"github.com/yanqian/nutrisnap/internal/domain/assistant"
	"github.com/yanqian/nutrisnap/internal/domain/history"
	"github.com/yanqian/nutrisnap/internal/domain/nutrition"
	"github.com/yanqian/nutrisnap/internal/domain/session"
	"github.com/yanqian/nutrisnap/internal/infra/config"
	"github.com/yanqian/nutrisnap/internal/infra/imaging"
	"github.com/yanqian/nutrisnap/internal/infra/llm/gemini"
	"github.com/yanqian/nutrisnap/internal/infra/piechart"
	"github.com/yanqian/nutrisnap/internal/infra/speech"
	httpiface "github.com/yanqian/nutrisnap/internal/interface/http"
	"github.com/yanqian/nutrisnap/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideGeminiClient,
		provideNutritionConfig,
		provideAssistantConfig,
		provideSessionConfig,
		provideBlurDetector,
		provideChartRenderer,
		provideHistoryRepository,
		provideValkeyClient,
		provideArtifactStore,
		provideSessionStore,
		provideImageArchive,
		provideSpeaker,
		provideTranscriber,
		history.NewService,
		session.NewService,
		nutrition.NewService,
		assistant.NewService,
		wire.Bind(new(nutrition.ChatClient), new(*gemini.Client)),
		wire.Bind(new(assistant.ChatClient), new(*gemini.Client)),
		wire.Bind(new(nutrition.BlurDetector), new(*imaging.LaplacianDetector)),
		wire.Bind(new(nutrition.ChartRenderer), new(*piechart.Renderer)),
		wire.Bind(new(nutrition.HistoryRecorder), new(history.Service)),
		wire.Bind(new(nutrition.PreferencesReader), new(session.Service)),
		wire.Bind(new(assistant.PreferencesReader), new(session.Service)),
		wire.Bind(new(assistant.Transcriber), new(*speech.GeminiTranscriber)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
