package market_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"filmintel/internal/logging"
	"filmintel/internal/market"
)

type stubExtractor struct {
	queries []string
	err     error
}

func (s stubExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	return s.queries, s.err
}

type stubSearcher struct {
	keywordCalls atomic.Int64
	titleCalls   atomic.Int64
	records      []market.Record
	err          error
}

func (s *stubSearcher) SearchByKeywords(ctx context.Context, keywords []string, limit int) ([]market.Record, error) {
	s.keywordCalls.Add(1)
	return s.records, s.err
}

func (s *stubSearcher) SearchByTitles(ctx context.Context, titles []string, limit int) ([]market.Record, error) {
	s.titleCalls.Add(1)
	return s.records, s.err
}

func TestPipelineMergesBothProviders(t *testing.T) {
	primary := &stubSearcher{records: []market.Record{{Title: "Nova", Year: 2021, Revenue: 1000}}}
	secondary := &stubSearcher{records: []market.Record{{Title: "Nova", Year: 2021, Cast: []string{"A"}}}}
	p := market.NewPipeline(
		stubExtractor{queries: []string{"space"}},
		primary, secondary,
		market.WithLogger(logging.NewNop()),
	)

	records, err := p.Comparables(context.Background(), "a synopsis")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 merged record, got %d", len(records))
	}
	if records[0].Source != market.SourcePrimary || len(records[0].Cast) != 1 {
		t.Fatalf("merge did not combine sources: %+v", records[0])
	}
	if primary.keywordCalls.Load() != 1 || secondary.keywordCalls.Load() != 1 {
		t.Fatal("both providers must be queried once")
	}
}

func TestPipelineExtractorFailureDegradesToEmpty(t *testing.T) {
	primary := &stubSearcher{records: []market.Record{{Title: "X", Year: 2000}}}
	p := market.NewPipeline(
		stubExtractor{err: errors.New("model unavailable")},
		primary, nil,
		market.WithLogger(logging.NewNop()),
	)

	records, err := p.Comparables(context.Background(), "a synopsis")
	if err != nil {
		t.Fatalf("extractor failure must not surface: %v", err)
	}
	if records != nil {
		t.Fatalf("expected no records, got %+v", records)
	}
	if primary.keywordCalls.Load() != 0 {
		t.Fatal("no provider request should be issued without queries")
	}
}

func TestPipelineProviderFailureDropsThatProvider(t *testing.T) {
	primary := &stubSearcher{err: errors.New("upstream 500")}
	secondary := &stubSearcher{records: []market.Record{{Title: "Solo", Year: 2018, Budget: 5, Revenue: 5}}}
	p := market.NewPipeline(
		stubExtractor{queries: []string{"heist"}},
		primary, secondary,
		market.WithLogger(logging.NewNop()),
	)

	records, err := p.Comparables(context.Background(), "a synopsis")
	if err != nil {
		t.Fatalf("provider failure must not surface: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected secondary-only record, got %d", len(records))
	}
	rec := records[0]
	if rec.Source != market.SourceSecondary || rec.Budget != 0 || rec.Revenue != 0 {
		t.Fatalf("secondary fallback must drop commercial fields: %+v", rec)
	}
}

func TestPipelineTitleModeUsesExactSearch(t *testing.T) {
	primary := &stubSearcher{}
	secondary := &stubSearcher{}
	p := market.NewPipeline(
		stubExtractor{queries: []string{"Inception"}},
		primary, secondary,
		market.WithMatchMode(market.MatchTitles),
		market.WithLogger(logging.NewNop()),
	)

	if _, err := p.Comparables(context.Background(), "a synopsis"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if primary.titleCalls.Load() != 1 || secondary.titleCalls.Load() != 1 {
		t.Fatal("title mode must route to SearchByTitles")
	}
	if primary.keywordCalls.Load() != 0 {
		t.Fatal("title mode must not issue keyword searches")
	}
}

func TestPipelineNilSearchersContributeNothing(t *testing.T) {
	p := market.NewPipeline(
		stubExtractor{queries: []string{"space"}},
		nil, nil,
		market.WithLogger(logging.NewNop()),
	)
	records, err := p.Comparables(context.Background(), "a synopsis")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty result, got %+v", records)
	}
}

func TestPipelineCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := market.NewPipeline(
		stubExtractor{queries: []string{"space"}},
		&stubSearcher{}, nil,
		market.WithLogger(logging.NewNop()),
	)
	if _, err := p.Comparables(ctx, "a synopsis"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPipelineBuildContextEmptyString(t *testing.T) {
	p := market.NewPipeline(
		stubExtractor{queries: nil},
		nil, nil,
		market.WithLogger(logging.NewNop()),
	)
	text, records, err := p.BuildContext(context.Background(), "a synopsis")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "" || len(records) != 0 {
		t.Fatalf("expected empty context, got %q / %+v", text, records)
	}
}
