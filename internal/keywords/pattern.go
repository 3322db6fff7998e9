// Package keywords derives provider search queries from a synopsis. Two
// strategies are available: a pattern extractor built on title-introducer
// phrases, genre vocabulary, and named-entity spans, and an LLM extractor
// that asks a chat model for the query list directly.
package keywords

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"filmintel/internal/market"
	"filmintel/internal/textutil"
)

const (
	// maxNames bounds how many recognized person names join the query set.
	maxNames = 3
	// minKeywordLen and maxKeywordLen bound accepted query lengths.
	minKeywordLen = 3
	maxKeywordLen = 49
	// nerChunkSize keeps each NER request inside the model's input window.
	nerChunkSize = 500
)

// titleIntroducerPattern captures phrases that tend to precede a title or
// central concept ("centers on X", "titled \"X\"").
var titleIntroducerPattern = regexp.MustCompile(
	`(?i)(?:in\s+the\s+story\s+of|about|follows|centers\s+on)\s+["']?([^"']+?)["']?(?:,|from|in|of|\.|$)|(?:titled|called)\s+["']?([^"']+)["']?`)

// genrePatterns are the genre words worth forwarding as search queries.
var genrePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bdrama\b`),
	regexp.MustCompile(`(?i)\bthriller\b`),
	regexp.MustCompile(`(?i)\bhorror\b`),
	regexp.MustCompile(`(?i)\bcomedy\b`),
	regexp.MustCompile(`(?i)\baction\b`),
	regexp.MustCompile(`(?i)\bsci[- ]?fi\b`),
	regexp.MustCompile(`(?i)\bfantasy\b`),
	regexp.MustCompile(`(?i)\bromance\b`),
	regexp.MustCompile(`(?i)\bwestern\b`),
	regexp.MustCompile(`(?i)\bnoir\b`),
}

// titleCase canonicalizes a candidate's casing. A fresh Caser per call
// because Caser values are stateful and not safe to share.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// NERClient recognizes person names in free text.
type NERClient interface {
	PersonNames(ctx context.Context, text string) ([]string, error)
}

// PatternExtractor extracts queries without any LLM round trip. The NER
// client is optional; without it the extractor relies on phrase and genre
// matching alone, and an NER failure degrades the same way.
type PatternExtractor struct {
	ner         NERClient
	maxKeywords int
	logger      *slog.Logger
}

var _ market.Extractor = (*PatternExtractor)(nil)

// PatternOption customizes a PatternExtractor.
type PatternOption func(*PatternExtractor)

// WithMaxKeywords bounds the returned query set.
func WithMaxKeywords(limit int) PatternOption {
	return func(e *PatternExtractor) {
		if limit > 0 {
			e.maxKeywords = limit
		}
	}
}

// WithPatternLogger attaches a structured logger.
func WithPatternLogger(logger *slog.Logger) PatternOption {
	return func(e *PatternExtractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewPatternExtractor builds the pattern-based extractor. ner may be nil.
func NewPatternExtractor(ner NERClient, opts ...PatternOption) *PatternExtractor {
	e := &PatternExtractor{
		ner:         ner,
		maxKeywords: 5,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract derives search queries from the synopsis: introduced titles
// first, then matched genre words, then up to three recognized person
// names. Duplicates collapse case-insensitively and out-of-bound lengths
// are dropped.
func (e *PatternExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	var candidates []string
	for _, match := range titleIntroducerPattern.FindAllStringSubmatch(text, -1) {
		captured := match[1]
		if captured == "" {
			captured = match[2]
		}
		if captured = strings.TrimSpace(captured); captured != "" {
			candidates = append(candidates, titleCase(captured))
		}
	}

	for _, pattern := range genrePatterns {
		if found := pattern.FindString(text); found != "" {
			candidates = append(candidates, titleCase(found))
		}
	}

	candidates = append(candidates, e.personNames(ctx, text)...)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return dedupeKeywords(candidates, e.maxKeywords), nil
}

// personNames gathers PER spans across NER-sized chunks of the synopsis.
// Any NER failure is logged and the extraction continues without names.
func (e *PatternExtractor) personNames(ctx context.Context, text string) []string {
	if e.ner == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var names []string
	for _, chunk := range textutil.Chunk(text, nerChunkSize) {
		found, err := e.ner.PersonNames(ctx, chunk)
		if err != nil {
			if ctx.Err() != nil {
				return names
			}
			e.logger.Warn("ner lookup failed", slog.Any("error", err))
			continue
		}
		for _, name := range found {
			// Long spans are usually mis-aggregated phrases, not names.
			if len(strings.Fields(name)) > 3 {
				continue
			}
			cased := titleCase(name)
			if _, dup := seen[cased]; dup {
				continue
			}
			seen[cased] = struct{}{}
			names = append(names, cased)
			if len(names) >= maxNames {
				return names
			}
		}
	}
	return names
}

func dedupeKeywords(candidates []string, limit int) []string {
	seen := make(map[string]struct{}, len(candidates))
	var keywords []string
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if len(candidate) < minKeywordLen || len(candidate) > maxKeywordLen {
			continue
		}
		key := strings.ToLower(candidate)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keywords = append(keywords, candidate)
		if limit > 0 && len(keywords) >= limit {
			break
		}
	}
	return keywords
}
