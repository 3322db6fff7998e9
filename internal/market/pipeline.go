package market

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MatchMode selects how provider queries are matched against titles.
type MatchMode string

const (
	// MatchKeywords treats each extracted query as an independent fuzzy
	// search term.
	MatchKeywords MatchMode = "keyword"
	// MatchTitles treats each query as a title requiring an exact
	// normalized match.
	MatchTitles MatchMode = "title"
)

// Searcher is the provider-facing contract. Implementations return at most
// limit records, skip failing items internally, and return an empty result
// without issuing requests when unconfigured.
type Searcher interface {
	SearchByKeywords(ctx context.Context, keywords []string, limit int) ([]Record, error)
	SearchByTitles(ctx context.Context, titles []string, limit int) ([]Record, error)
}

// Extractor derives provider search queries from free text.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]string, error)
}

// Pipeline orchestrates one market-context build: extract queries, fan out
// to both providers, merge, and format.
type Pipeline struct {
	extractor Extractor
	primary   Searcher
	secondary Searcher

	mode        MatchMode
	topN        int
	searchLimit int
	logger      *slog.Logger
}

// PipelineOption customizes a Pipeline.
type PipelineOption func(*Pipeline)

// WithMatchMode sets the query matching mode (default MatchKeywords).
func WithMatchMode(mode MatchMode) PipelineOption {
	return func(p *Pipeline) {
		if mode == MatchKeywords || mode == MatchTitles {
			p.mode = mode
		}
	}
}

// WithTopN bounds the merged comparable list.
func WithTopN(topN int) PipelineOption {
	return func(p *Pipeline) {
		if topN > 0 {
			p.topN = topN
		}
	}
}

// WithSearchLimit bounds each provider's contribution before the merge.
func WithSearchLimit(limit int) PipelineOption {
	return func(p *Pipeline) {
		if limit > 0 {
			p.searchLimit = limit
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline wires an extractor and two provider clients. Either searcher
// may be nil; a nil searcher simply contributes nothing.
func NewPipeline(extractor Extractor, primary, secondary Searcher, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		extractor:   extractor,
		primary:     primary,
		secondary:   secondary,
		mode:        MatchKeywords,
		topN:        DefaultTopN,
		searchLimit: DefaultTopN,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Comparables returns the ranked, merged comparable movies for a synopsis.
// Extraction or provider failures shrink the result; the only returned
// error is context cancellation.
func (p *Pipeline) Comparables(ctx context.Context, synopsis string) ([]Record, error) {
	queries, err := p.extractQueries(ctx, synopsis)
	if err != nil {
		return nil, err
	}
	if len(queries) == 0 {
		return nil, nil
	}

	start := time.Now()
	primary, secondary := p.fanOut(ctx, queries)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := Merge(primary, secondary, p.topN)
	p.logger.Debug("merged comparable movies",
		slog.Int("queries", len(queries)),
		slog.Int("primary", len(primary)),
		slog.Int("secondary", len(secondary)),
		slog.Int("merged", len(merged)),
		slog.Duration("elapsed", time.Since(start)))
	return merged, nil
}

// BuildContext runs the full pipeline and renders the context block. The
// returned string is "" when no market data was available.
func (p *Pipeline) BuildContext(ctx context.Context, synopsis string) (string, []Record, error) {
	records, err := p.Comparables(ctx, synopsis)
	if err != nil {
		return "", nil, err
	}
	return FormatContext(records), records, nil
}

func (p *Pipeline) extractQueries(ctx context.Context, synopsis string) ([]string, error) {
	if p.extractor == nil {
		return nil, nil
	}
	queries, err := p.extractor.Extract(ctx, synopsis)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// Extraction failure degrades to "no market context".
		p.logger.Warn("keyword extraction failed", slog.Any("error", err))
		return nil, nil
	}
	return queries, nil
}

// fanOut queries both providers concurrently. Each provider's rate-limit
// waits stay local to its own goroutine, so a slow or throttled provider
// never stalls the other.
func (p *Pipeline) fanOut(ctx context.Context, queries []string) (primary, secondary []Record) {
	var wg sync.WaitGroup
	run := func(name string, client Searcher, out *[]Record) {
		defer wg.Done()
		if client == nil {
			return
		}
		var (
			records []Record
			err     error
		)
		switch p.mode {
		case MatchTitles:
			records, err = client.SearchByTitles(ctx, queries, p.searchLimit)
		default:
			records, err = client.SearchByKeywords(ctx, queries, p.searchLimit)
		}
		if err != nil {
			p.logger.Warn("provider search failed",
				slog.String("provider", name),
				slog.Any("error", err))
			return
		}
		*out = records
	}

	wg.Add(2)
	go run(string(SourcePrimary), p.primary, &primary)
	go run(string(SourceSecondary), p.secondary, &secondary)
	wg.Wait()
	return primary, secondary
}
