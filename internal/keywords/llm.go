package keywords

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"filmintel/internal/market"
	"filmintel/internal/services/openai"
)

const llmExtractionPrompt = `You are a film research assistant. Given a movie synopsis, produce search queries for finding comparable released movies: central concepts, genre words, and any referenced titles or figures.

Return ONLY a JSON object of the form {"keywords": ["...", "..."]} with at most %LIMIT% entries. Each entry must be a short phrase under 50 characters. No explanations.`

// ChatClient is the completion surface the LLM extractor needs.
type ChatClient interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// LLMExtractor asks a chat model for the query list. Any failure, an
// unconfigured client included, degrades to an empty query set so the
// market lookup is skipped rather than aborted.
type LLMExtractor struct {
	client      ChatClient
	maxKeywords int
	logger      *slog.Logger
}

var _ market.Extractor = (*LLMExtractor)(nil)

// LLMOption customizes an LLMExtractor.
type LLMOption func(*LLMExtractor)

// WithLLMMaxKeywords bounds the returned query set.
func WithLLMMaxKeywords(limit int) LLMOption {
	return func(e *LLMExtractor) {
		if limit > 0 {
			e.maxKeywords = limit
		}
	}
}

// WithLLMLogger attaches a structured logger.
func WithLLMLogger(logger *slog.Logger) LLMOption {
	return func(e *LLMExtractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewLLMExtractor builds the model-backed extractor.
func NewLLMExtractor(client ChatClient, opts ...LLMOption) *LLMExtractor {
	e := &LLMExtractor{
		client:      client,
		maxKeywords: 5,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract asks the model for search queries. The response is parsed
// tolerantly; an unparseable or failed response yields no queries and no
// error.
func (e *LLMExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" || e.client == nil {
		return nil, nil
	}

	system := strings.ReplaceAll(llmExtractionPrompt, "%LIMIT%", strconv.Itoa(e.maxKeywords))
	content, err := e.client.CompleteJSON(ctx, system, text)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		e.logger.Warn("llm keyword extraction failed", slog.Any("error", err))
		return nil, nil
	}

	var parsed struct {
		Keywords []string `json:"keywords"`
	}
	if err := openai.DecodeModelJSON(content, &parsed); err != nil {
		// A model can still answer with a bare array.
		var list []string
		if listErr := openai.DecodeModelJSON(content, &list); listErr != nil {
			e.logger.Warn("llm keyword payload unparseable", slog.Any("error", err))
			return nil, nil
		}
		parsed.Keywords = list
	}

	return dedupeKeywords(parsed.Keywords, e.maxKeywords), nil
}
