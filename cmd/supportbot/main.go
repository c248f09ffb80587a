package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"supportbot/internal/bot"
	"supportbot/internal/catalog"
	"supportbot/internal/completion"
	"supportbot/internal/config"
	"supportbot/internal/embedding/openai"
	"supportbot/internal/fallback"
	"supportbot/internal/index"
	"supportbot/internal/logging"
	"supportbot/internal/matcher"
	"supportbot/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/supportbot/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, closeLog, err := logging.Setup(cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to open log file: %v", err)
	}
	defer closeLog()

	fatal := func(msg string, err error) {
		logger.Error().Err(err).Msg(msg)
		log.Fatalf("%s: %v", msg, err)
	}

	// Everything below is required to serve; any failure aborts startup.
	embedder, err := openai.NewClient(openai.Config{
		BaseURL:   cfg.Embedder.BaseURL,
		APIKeyEnv: cfg.Embedder.APIKeyEnv,
		Model:     cfg.Embedder.Model,
		Timeout:   time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
	}, logger)
	if err != nil {
		fatal("embedder init failed", err)
	}

	idx, err := index.Load(cfg.Index.IndexFile)
	if err != nil {
		fatal("failed to load vector index", err)
	}
	cat, err := catalog.Load(cfg.Index.MappingFile)
	if err != nil {
		fatal("failed to load mapping", err)
	}
	if idx.Len() != cat.Len() {
		fatal("startup check failed", fmt.Errorf("index has %d vectors but mapping has %d entries", idx.Len(), cat.Len()))
	}

	completer, err := completion.NewClient(completion.Config{
		BaseURL:     cfg.Completion.BaseURL,
		APIKeyEnv:   cfg.Completion.APIKeyEnv,
		Model:       cfg.Completion.Model,
		Temperature: cfg.Completion.Temperature,
		MaxTokens:   cfg.Completion.MaxTokens,
		Timeout:     time.Duration(cfg.Completion.TimeoutSecs) * time.Second,
	})
	if err != nil {
		fatal("completion client init failed", err)
	}

	m := matcher.New(embedder, idx, cat, cfg.Matcher.SimilarityThreshold, logger)
	fb := fallback.New(completer, logger)
	engine := bot.New(m, cat, fb, logger)

	logger.Info().Int("questions", cat.Len()).Msg("supportbot ready")
	model := tui.New(engine, bot.NewSession(), logger)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		fatal("chat UI failed", err)
	}
}
