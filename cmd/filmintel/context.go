package main

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"filmintel/internal/analysis"
	"filmintel/internal/config"
	"filmintel/internal/keywords"
	"filmintel/internal/logging"
	"filmintel/internal/market"
	"filmintel/internal/market/lookupcache"
	"filmintel/internal/market/omdb"
	"filmintel/internal/market/tmdb"
	"filmintel/internal/services/hf"
	"filmintel/internal/services/openai"

	"github.com/spf13/cobra"
)

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolvedPath, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolvedPath
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// newChatClient builds the shared chat-completion client.
func (c *commandContext) newChatClient(cfg *config.Config) *openai.Client {
	return openai.NewClient(openai.Config{
		APIKey:         cfg.OpenAI.APIKey,
		BaseURL:        cfg.OpenAI.BaseURL,
		Model:          cfg.OpenAI.Model,
		TimeoutSeconds: cfg.OpenAI.TimeoutSeconds,
	})
}

func (c *commandContext) newHFClient(cfg *config.Config) *hf.Client {
	return hf.NewClient(hf.Config{
		Token:          cfg.HuggingFace.Token,
		BaseURL:        cfg.HuggingFace.BaseURL,
		NERModel:       cfg.HuggingFace.NERModel,
		EmotionModel:   cfg.HuggingFace.EmotionModel,
		TimeoutSeconds: cfg.HuggingFace.TimeoutSeconds,
	})
}

// newPipeline wires the market-context pipeline: extractor, both provider
// clients, and the shared lookup cache. The returned closer releases the
// cache handle.
func (c *commandContext) newPipeline(cfg *config.Config, logger *slog.Logger) (*market.Pipeline, func() error, error) {
	cache, err := lookupcache.Open(
		cfg.Market.CachePath,
		time.Duration(cfg.Market.CacheTTLHours)*time.Hour,
		logger)
	if err != nil {
		return nil, nil, err
	}

	primary := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language,
		tmdb.WithRequestsPerSecond(cfg.TMDB.RequestsPerSecond),
		tmdb.WithHTTPClient(timeoutClient(cfg.TMDB.TimeoutSeconds)),
		tmdb.WithCache(cache),
		tmdb.WithLogger(logging.NewComponentLogger(logger, "tmdb")))
	secondary := omdb.New(cfg.OMDB.APIKey, cfg.OMDB.BaseURL,
		omdb.WithRequestsPerSecond(cfg.OMDB.RequestsPerSecond),
		omdb.WithHTTPClient(timeoutClient(cfg.OMDB.TimeoutSeconds)),
		omdb.WithCache(cache),
		omdb.WithLogger(logging.NewComponentLogger(logger, "omdb")))

	var extractor market.Extractor
	switch cfg.Market.Extractor {
	case "llm":
		extractor = keywords.NewLLMExtractor(c.newChatClient(cfg),
			keywords.WithLLMMaxKeywords(cfg.Market.MaxKeywords),
			keywords.WithLLMLogger(logging.NewComponentLogger(logger, "keywords")))
	default:
		var ner keywords.NERClient
		if client := c.newHFClient(cfg); client.Configured() {
			ner = client
		}
		extractor = keywords.NewPatternExtractor(ner,
			keywords.WithMaxKeywords(cfg.Market.MaxKeywords),
			keywords.WithPatternLogger(logging.NewComponentLogger(logger, "keywords")))
	}

	pipeline := market.NewPipeline(extractor, primary, secondary,
		market.WithMatchMode(market.MatchMode(cfg.Market.MatchMode)),
		market.WithTopN(cfg.Market.TopN),
		market.WithSearchLimit(cfg.Market.SearchLimit),
		market.WithLogger(logging.NewComponentLogger(logger, "market")))
	return pipeline, cache.Close, nil
}

// newAnalyzer wires the full analyzer stack. The returned closer releases
// pipeline resources.
func (c *commandContext) newAnalyzer(cfg *config.Config, logger *slog.Logger) (*analysis.Analyzer, func() error, error) {
	pipeline, closer, err := c.newPipeline(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	// An unconfigured chat client stays nil so callers get a clear
	// configuration error instead of a failed request.
	var chat analysis.ChatClient
	if client := c.newChatClient(cfg); client.Configured() {
		chat = client
	}
	var emotions analysis.EmotionClient
	if client := c.newHFClient(cfg); client.Configured() {
		emotions = client
	}

	analyzer := analysis.New(
		chat,
		emotions,
		pipeline,
		analysis.WithReportModel(cfg.OpenAI.ReportModel),
		analysis.WithLogger(logging.NewComponentLogger(logger, "analysis")))
	return analyzer, closer, nil
}

// timeoutClient returns an HTTP client with the configured per-request
// timeout, or nil to keep the provider client's default.
func timeoutClient(seconds int) *http.Client {
	if seconds <= 0 {
		return nil
	}
	return &http.Client{Timeout: time.Duration(seconds) * time.Second}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
