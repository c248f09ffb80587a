package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EmbedderConfig holds configuration for the OpenAI-compatible embeddings client.
type EmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// CompletionConfig holds configuration for the chat-completion client used
// when no scripted intent matches.
type CompletionConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	TimeoutSecs int     `yaml:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries"`
}

// IndexConfig points at the persisted vector index and its mapping table.
type IndexConfig struct {
	IndexFile   string `yaml:"index_file"`
	MappingFile string `yaml:"mapping_file"`
}

// MatcherConfig tunes intent matching. The similarity threshold is a squared
// L2 distance and depends on the embedding model; recalibrate whenever the
// model changes.
type MatcherConfig struct {
	SimilarityThreshold float32 `yaml:"similarity_threshold"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	LogFile    string           `yaml:"log_file"`
	Embedder   EmbedderConfig   `yaml:"embedder"`
	Completion CompletionConfig `yaml:"completion"`
	Index      IndexConfig      `yaml:"index"`
	Matcher    MatcherConfig    `yaml:"matcher"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/supportbot/config.yaml.
// If neither exists, it writes defaults to ~/.config/supportbot/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "supportbot", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.LogFile == "" {
		cfg.LogFile = "supportbot.log"
	}
	if cfg.Embedder.BaseURL == "" {
		cfg.Embedder.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Embedder.APIKeyEnv == "" {
		cfg.Embedder.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Embedder.Model == "" {
		cfg.Embedder.Model = "text-embedding-3-small"
	}
	if cfg.Embedder.TimeoutSecs == 0 {
		cfg.Embedder.TimeoutSecs = 30
	}
	if cfg.Completion.BaseURL == "" {
		cfg.Completion.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Completion.APIKeyEnv == "" {
		cfg.Completion.APIKeyEnv = "GROQ_API_KEY"
	}
	if cfg.Completion.Model == "" {
		cfg.Completion.Model = "llama-3.3-70b-versatile"
	}
	if cfg.Completion.Temperature == 0 {
		cfg.Completion.Temperature = 0.7
	}
	if cfg.Completion.MaxTokens == 0 {
		cfg.Completion.MaxTokens = 512
	}
	if cfg.Completion.TimeoutSecs == 0 {
		cfg.Completion.TimeoutSecs = 30
	}
	if cfg.Completion.MaxRetries == 0 {
		cfg.Completion.MaxRetries = 3
	}
	if cfg.Index.IndexFile == "" {
		cfg.Index.IndexFile = "index.bin"
	}
	if cfg.Index.MappingFile == "" {
		cfg.Index.MappingFile = "index_mapping.json"
	}
	if cfg.Matcher.SimilarityThreshold == 0 {
		cfg.Matcher.SimilarityThreshold = 0.9
	}
}
