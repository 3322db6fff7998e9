package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAPI()
	c.normalizeTMDB()
	c.normalizeOMDB()
	c.normalizeOpenAI()
	c.normalizeHuggingFace()
	if err := c.normalizeMarket(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAPI() {
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if c.API.Bind == "" {
		c.API.Bind = defaultAPIBind
	}
	c.API.FrontendOrigin = strings.TrimSpace(c.API.FrontendOrigin)
	if c.API.FrontendOrigin == "" {
		c.API.FrontendOrigin = defaultFrontendOrigin
	}
}

func (c *Config) normalizeTMDB() {
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = value
		}
	}
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	c.TMDB.BaseURL = strings.TrimSpace(c.TMDB.BaseURL)
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if c.TMDB.Language == "" {
		c.TMDB.Language = defaultTMDBLanguage
	}
	if c.TMDB.RequestsPerSecond <= 0 {
		c.TMDB.RequestsPerSecond = defaultTMDBRate
	}
	if c.TMDB.TimeoutSeconds <= 0 {
		c.TMDB.TimeoutSeconds = defaultProviderTimeout
	}
}

func (c *Config) normalizeOMDB() {
	if c.OMDB.APIKey == "" {
		if value, ok := os.LookupEnv("OMDB_API_KEY"); ok {
			c.OMDB.APIKey = value
		}
	}
	c.OMDB.APIKey = strings.TrimSpace(c.OMDB.APIKey)
	c.OMDB.BaseURL = strings.TrimSpace(c.OMDB.BaseURL)
	if c.OMDB.BaseURL == "" {
		c.OMDB.BaseURL = defaultOMDBBaseURL
	}
	if c.OMDB.RequestsPerSecond <= 0 {
		c.OMDB.RequestsPerSecond = defaultOMDBRate
	}
	if c.OMDB.TimeoutSeconds <= 0 {
		c.OMDB.TimeoutSeconds = defaultProviderTimeout
	}
}

func (c *Config) normalizeOpenAI() {
	if c.OpenAI.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.OpenAI.APIKey = value
		}
	}
	c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.APIKey)
	c.OpenAI.BaseURL = strings.TrimSpace(c.OpenAI.BaseURL)
	c.OpenAI.Model = strings.TrimSpace(c.OpenAI.Model)
	if c.OpenAI.Model == "" {
		if value, ok := os.LookupEnv("OPENAI_MODEL"); ok {
			c.OpenAI.Model = strings.TrimSpace(value)
		}
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = defaultOpenAIModel
	}
	c.OpenAI.ReportModel = strings.TrimSpace(c.OpenAI.ReportModel)
	if c.OpenAI.ReportModel == "" {
		c.OpenAI.ReportModel = defaultOpenAIReportModel
	}
	if c.OpenAI.TimeoutSeconds <= 0 {
		c.OpenAI.TimeoutSeconds = defaultOpenAITimeout
	}
}

func (c *Config) normalizeHuggingFace() {
	if c.HuggingFace.Token == "" {
		if value, ok := os.LookupEnv("HF_API_TOKEN"); ok {
			c.HuggingFace.Token = value
		} else if value, ok := os.LookupEnv("HF_TOKEN"); ok {
			c.HuggingFace.Token = value
		}
	}
	c.HuggingFace.Token = strings.TrimSpace(c.HuggingFace.Token)
	c.HuggingFace.BaseURL = strings.TrimSpace(c.HuggingFace.BaseURL)
	if c.HuggingFace.BaseURL == "" {
		c.HuggingFace.BaseURL = defaultHFBaseURL
	}
	c.HuggingFace.NERModel = strings.TrimSpace(c.HuggingFace.NERModel)
	if c.HuggingFace.NERModel == "" {
		if value, ok := os.LookupEnv("NER_MODEL"); ok {
			c.HuggingFace.NERModel = strings.TrimSpace(value)
		}
	}
	if c.HuggingFace.NERModel == "" {
		c.HuggingFace.NERModel = defaultNERModel
	}
	c.HuggingFace.EmotionModel = strings.TrimSpace(c.HuggingFace.EmotionModel)
	if c.HuggingFace.EmotionModel == "" {
		if value, ok := os.LookupEnv("EMOTION_MODEL"); ok {
			c.HuggingFace.EmotionModel = strings.TrimSpace(value)
		}
	}
	if c.HuggingFace.EmotionModel == "" {
		c.HuggingFace.EmotionModel = defaultEmotionModel
	}
	if c.HuggingFace.TimeoutSeconds <= 0 {
		c.HuggingFace.TimeoutSeconds = defaultHFTimeout
	}
}

func (c *Config) normalizeMarket() error {
	if c.Market.TopN <= 0 {
		c.Market.TopN = defaultMarketTopN
	}
	if c.Market.MaxKeywords <= 0 {
		c.Market.MaxKeywords = defaultMaxKeywords
	}
	if c.Market.SearchLimit <= 0 {
		c.Market.SearchLimit = defaultSearchLimit
	}
	c.Market.MatchMode = strings.ToLower(strings.TrimSpace(c.Market.MatchMode))
	if c.Market.MatchMode == "" {
		c.Market.MatchMode = defaultMatchMode
	}
	c.Market.Extractor = strings.ToLower(strings.TrimSpace(c.Market.Extractor))
	if c.Market.Extractor == "" {
		c.Market.Extractor = defaultExtractor
	}
	c.Market.CachePath = strings.TrimSpace(c.Market.CachePath)
	if c.Market.CachePath != "" {
		expanded, err := expandPath(c.Market.CachePath)
		if err != nil {
			return fmt.Errorf("market.cache_path: %w", err)
		}
		c.Market.CachePath = expanded
	}
	if c.Market.CacheTTLHours <= 0 {
		c.Market.CacheTTLHours = defaultCacheTTLHours
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
