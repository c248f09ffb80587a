// Command indexbuild is the offline batch job that turns a question bank into
// the vector index blob and its mapping table. Run it before starting the
// serving process; the bot only ever reads what this writes.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"supportbot/internal/builder"
	"supportbot/internal/config"
	"supportbot/internal/embedding/openai"
	"supportbot/internal/logging"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, bankPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional)")
	flag.StringVar(&bankPath, "bank", "question_bank.json", "Path to the question bank JSON")
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

	logger, closeLog, err := logging.Setup("indexbuild.log")
	if err != nil {
		log.Fatalf("failed to open log file: %v", err)
	}
	defer closeLog()

	embedder, err := openai.NewClient(openai.Config{
		BaseURL:   cfg.Embedder.BaseURL,
		APIKeyEnv: cfg.Embedder.APIKeyEnv,
		Model:     cfg.Embedder.Model,
		Timeout:   time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
	}, logger)
	if err != nil {
		logger.Error().Err(err).Msg("embedder init failed")
		log.Fatalf("embedder init failed: %v", err)
	}

	if err := builder.Run(bankPath, embedder, cfg.Index.IndexFile, cfg.Index.MappingFile, logger); err != nil {
		logger.Error().Err(err).Msg("index build failed")
		log.Fatalf("index build failed: %v", err)
	}
	logger.Info().Msg("preprocessing completed successfully")
	log.Printf("wrote %s and %s", cfg.Index.IndexFile, cfg.Index.MappingFile)
}
