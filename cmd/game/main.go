package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/tatianab/pirate-latitudes/internal/config"
	"github.com/tatianab/pirate-latitudes/internal/engine"
	"github.com/tatianab/pirate-latitudes/internal/models"
	"github.com/tatianab/pirate-latitudes/internal/observability"
	"github.com/tatianab/pirate-latitudes/internal/tui"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Printf("Error creating logger: %v\n", err)
		os.Exit(1)
	}

	err = run(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("game exited", zap.Error(err))
		fmt.Printf("Error: %v\n", err)
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run returns instead of exiting so the engine and hint client are closed.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	eng, err := newEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer eng.Close()

	logger.Info("starting game", zap.String("save_path", cfg.Save.Path))
	if err := tui.Run(eng); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func newEngine(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*engine.Engine, error) {
	world, err := engine.DefaultWorld()
	if err != nil {
		return nil, fmt.Errorf("loading scenes: %w", err)
	}

	opts := []engine.Option{
		engine.WithStore(models.NewStore(cfg.Save.Path)),
		engine.WithLogger(logger),
	}
	if cfg.Gemini.APIKey != "" {
		hinter, err := engine.NewGeminiHinter(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return nil, fmt.Errorf("creating hint client: %w", err)
		}
		opts = append(opts, engine.WithHinter(hinter))
		logger.Info("gemini hints enabled", zap.String("model", cfg.Gemini.Model))
	}
	return engine.NewEngine(world, opts...), nil
}
