package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/masar-farm/masar/internal/config"
	"github.com/masar-farm/masar/internal/db"
	"github.com/masar-farm/masar/internal/imagestore/local"
	"github.com/masar-farm/masar/internal/irrigation"
	"github.com/masar-farm/masar/internal/logging"
	"github.com/masar-farm/masar/internal/service"
	"github.com/masar-farm/masar/internal/store"
	"github.com/masar-farm/masar/internal/vision"
	anthropicvision "github.com/masar-farm/masar/internal/vision/anthropic"
	openaivision "github.com/masar-farm/masar/internal/vision/openai"
	"github.com/masar-farm/masar/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	farmStore := store.NewFarmStore(database)
	fieldStore := store.NewFieldStore(database)
	fieldImageStore := store.NewFieldImageStore(database)
	inspectionStore := store.NewInspectionStore(database)

	images, err := local.NewLocalImageStore(cfg.ImagePath, cfg.ImagePublicBase)
	if err != nil {
		logger.Error("failed to initialize image store", "error", err)
		return
	}

	analyzer := newAnalyzer(cfg, logger)

	inspectionService := service.NewInspectionService(
		farmStore,
		fieldStore,
		inspectionStore,
		analyzer,
		irrigation.NewCalculator(time.Now),
		&http.Client{Timeout: 60 * time.Second},
		cfg.MaxAnalyzeImages,
		logger,
	)
	farmService := service.NewFarmService(farmStore, fieldStore, fieldImageStore, images, logger)

	server := web.NewServer(inspectionService, farmService, images, cfg.AllowedOrigins, logger)
	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

func newAnalyzer(cfg *config.Config, logger *slog.Logger) vision.Analyzer {
	switch cfg.InferenceBackend {
	case "anthropic":
		logger.Info("using Anthropic inference backend", "model", cfg.AnthropicModel)
		return anthropicvision.NewAnthropicAnalyzer(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	default:
		logger.Info("using OpenAI-compatible inference backend", "model", cfg.OpenAIModel)
		return openaivision.NewOpenAIAnalyzer(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}
}
