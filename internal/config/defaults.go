package config

const (
	defaultDataDir           = "~/.local/share/filmintel"
	defaultLogDir            = "~/.local/share/filmintel/logs"
	defaultAPIBind           = "127.0.0.1:8000"
	defaultFrontendOrigin    = "http://localhost:3000"
	defaultTMDBBaseURL       = "https://api.themoviedb.org/3"
	defaultTMDBLanguage      = "en-US"
	defaultTMDBRate          = 3.0
	defaultOMDBBaseURL       = "https://www.omdbapi.com"
	defaultOMDBRate          = 5.0
	defaultProviderTimeout   = 5
	defaultOpenAIModel       = "gpt-4o"
	defaultOpenAIReportModel = "gpt-4o-mini"
	defaultOpenAITimeout     = 60
	defaultHFBaseURL         = "https://api-inference.huggingface.co"
	defaultNERModel          = "dslim/bert-base-NER"
	defaultEmotionModel      = "j-hartmann/emotion-english-distilroberta-base"
	defaultHFTimeout         = 30
	defaultMarketTopN        = 5
	defaultMaxKeywords       = 5
	defaultSearchLimit       = 5
	defaultMatchMode         = "keyword"
	defaultExtractor         = "pattern"
	defaultCacheTTLHours     = 72
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		API: API{
			Bind:           defaultAPIBind,
			FrontendOrigin: defaultFrontendOrigin,
		},
		TMDB: TMDB{
			BaseURL:           defaultTMDBBaseURL,
			Language:          defaultTMDBLanguage,
			RequestsPerSecond: defaultTMDBRate,
			TimeoutSeconds:    defaultProviderTimeout,
		},
		OMDB: OMDB{
			BaseURL:           defaultOMDBBaseURL,
			RequestsPerSecond: defaultOMDBRate,
			TimeoutSeconds:    defaultProviderTimeout,
		},
		OpenAI: OpenAI{
			Model:          defaultOpenAIModel,
			ReportModel:    defaultOpenAIReportModel,
			TimeoutSeconds: defaultOpenAITimeout,
		},
		HuggingFace: HuggingFace{
			BaseURL:        defaultHFBaseURL,
			NERModel:       defaultNERModel,
			EmotionModel:   defaultEmotionModel,
			TimeoutSeconds: defaultHFTimeout,
		},
		Market: Market{
			TopN:          defaultMarketTopN,
			MaxKeywords:   defaultMaxKeywords,
			SearchLimit:   defaultSearchLimit,
			MatchMode:     defaultMatchMode,
			Extractor:     defaultExtractor,
			CacheTTLHours: defaultCacheTTLHours,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
