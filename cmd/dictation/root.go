package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"dictation/internal/config"
	"dictation/internal/domain"
	"dictation/internal/segment"
	"dictation/internal/service"
	"dictation/internal/tokenizer"
	"dictation/internal/vocab"
)

var (
	cfgFile   string
	activeCfg *config.AppConfig
)

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:           "dictation",
		Short:         "Cut Chinese text into short dictation sentences",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := loadConfig(cfgFile)
			if err != nil {
				return err
			}
			if err := config.ApplyFlags(cmd.Flags(), loaded); err != nil {
				return err
			}
			if err := loaded.Validate(); err != nil {
				return err
			}
			activeCfg = loaded
			setupLogger(loaded.Log.Level)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to YAML config file (optional; uses ./dictation.yaml or ~/.config/dictation/config.yaml)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(newSegmentCmd())
	cmd.AddCommand(newLessonCmd())
	cmd.AddCommand(newTUICmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMCPCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

func loadConfig(path string) (*config.AppConfig, error) {
	if path == "" {
		cfg, _, err := config.LoadDefault()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(levelStr string) {
	lvl, err := config.ParseLogLevel(levelStr)
	if err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
}

func requireConfig() (*config.AppConfig, error) {
	if activeCfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return activeCfg, nil
}

// app holds the components every subcommand is assembled from.
type app struct {
	cfg *config.AppConfig
	tok domain.Tokenizer
	seg *segment.Segmenter
	svc *service.LessonServiceImpl
}

func newApp(cfg *config.AppConfig) (*app, error) {
	log := slog.Default()

	tok, err := tokenizer.New(cfg.Tokenizer.Type, tokenizer.Options{
		DictPath: cfg.Tokenizer.DictPath,
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}

	seg, err := segment.New(cfg.Segmenter, segment.WithTokenizer(tok), segment.WithLogger(log))
	if err != nil {
		return nil, err
	}

	svc := service.NewLessonService(seg, vocab.NewFrequencyExtractor(tok),
		service.WithWorkers(cfg.Lesson.Workers),
		service.WithMaxWords(cfg.Lesson.MaxWords),
		service.WithLogger(log),
	)
	return &app{cfg: cfg, tok: tok, seg: seg, svc: svc}, nil
}

func requireApp() (*app, error) {
	cfg, err := requireConfig()
	if err != nil {
		return nil, err
	}
	return newApp(cfg)
}
