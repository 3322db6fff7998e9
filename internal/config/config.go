package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// API contains configuration for the HTTP endpoint.
type API struct {
	Bind           string `toml:"bind"`
	FrontendOrigin string `toml:"frontend_origin"`
}

// TMDB contains configuration for The Movie Database API, the primary
// metadata provider and the only source of budget/revenue figures.
type TMDB struct {
	APIKey            string  `toml:"api_key"`
	BaseURL           string  `toml:"base_url"`
	Language          string  `toml:"language"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
}

// OMDB contains configuration for the OMDb API, the secondary provider used
// to fill fields the primary lookup left empty.
type OMDB struct {
	APIKey            string  `toml:"api_key"`
	BaseURL           string  `toml:"base_url"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
}

// OpenAI contains the chat-completion settings shared by the analyzers and
// the LLM keyword extractor.
type OpenAI struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	ReportModel    string `toml:"report_model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// HuggingFace contains configuration for the hosted NER and emotion
// classification models.
type HuggingFace struct {
	Token          string `toml:"token"`
	BaseURL        string `toml:"base_url"`
	NERModel       string `toml:"ner_model"`
	EmotionModel   string `toml:"emotion_model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Market contains tuning for the comparable-movie pipeline.
type Market struct {
	TopN          int    `toml:"top_n"`
	MaxKeywords   int    `toml:"max_keywords"`
	SearchLimit   int    `toml:"search_limit"`
	MatchMode     string `toml:"match_mode"` // "keyword" or "title"
	Extractor     string `toml:"extractor"`  // "pattern" or "llm"
	CachePath     string `toml:"cache_path"`
	CacheTTLHours int    `toml:"cache_ttl_hours"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for filmintel.
//
// Configuration sections by subsystem:
//   - Paths: data and log directories
//   - API: HTTP bind address and allowed frontend origin
//   - TMDB / OMDB: metadata provider credentials and pacing
//   - OpenAI: chat-completion model settings
//   - HuggingFace: NER and emotion classifier settings
//   - Market: comparable-movie pipeline tuning and lookup cache
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	API         API         `toml:"api"`
	TMDB        TMDB        `toml:"tmdb"`
	OMDB        OMDB        `toml:"omdb"`
	OpenAI      OpenAI      `toml:"openai"`
	HuggingFace HuggingFace `toml:"huggingface"`
	Market      Market      `toml:"market"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/filmintel/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. Environment variables
// (including a local .env file) supply credentials not present in the file.
func Load(path string) (*Config, string, bool, error) {
	// Match the original backend's dotenv behavior; a missing .env is fine.
	_ = godotenv.Load()

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("filmintel.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the process writes to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
