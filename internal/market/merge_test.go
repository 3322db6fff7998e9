package market_test

import (
	"testing"

	"filmintel/internal/market"
)

func TestMergeFillsGapsFromSecondary(t *testing.T) {
	primary := []market.Record{{
		Title:       "Nova",
		Year:        2021,
		ReleaseDate: "2021-03-05",
		Revenue:     1000,
		Genres:      []string{"Sci-Fi"},
	}}
	secondary := []market.Record{{
		Title:    "Nova",
		Year:     2021,
		Cast:     []string{"A", "B"},
		Overview: "A star is reborn.",
		Director: "C",
	}}

	merged := market.Merge(primary, secondary, 5)
	if len(merged) != 1 {
		t.Fatalf("expected 1 record, got %d", len(merged))
	}
	rec := merged[0]
	if rec.Source != market.SourcePrimary {
		t.Fatalf("expected primary source tag, got %q", rec.Source)
	}
	if rec.Revenue != 1000 || rec.Year != 2021 {
		t.Fatalf("primary fields must win: %+v", rec)
	}
	if len(rec.Cast) != 2 || rec.Overview != "A star is reborn." || rec.Director != "C" {
		t.Fatalf("secondary fields must fill gaps: %+v", rec)
	}
	if len(rec.Genres) != 1 || rec.Genres[0] != "Sci-Fi" {
		t.Fatalf("primary genres must be kept: %+v", rec.Genres)
	}
}

func TestMergeEmptySecondaryReturnsPrimaryVerbatim(t *testing.T) {
	primary := []market.Record{
		{Title: "One", Year: 2001, Revenue: 10, Overview: "first"},
		{Title: "Two", Year: 2002, Revenue: 20, Overview: "second"},
	}
	merged := market.Merge(primary, nil, 5)
	if len(merged) != 2 {
		t.Fatalf("expected 2 records, got %d", len(merged))
	}
	for _, rec := range merged {
		if rec.Source != market.SourcePrimary {
			t.Fatalf("expected primary tag, got %q", rec.Source)
		}
	}
	if merged[0].Title != "Two" || merged[0].Overview != "second" {
		t.Fatalf("fields changed or order wrong: %+v", merged[0])
	}
}

func TestMergeEmptyPrimaryForcesCommercialFieldsAbsent(t *testing.T) {
	secondary := []market.Record{{
		Title:   "Ghost",
		Year:    1990,
		Budget:  999, // should never survive the secondary-only path
		Revenue: 999,
	}}
	merged := market.Merge(nil, secondary, 5)
	if len(merged) != 1 {
		t.Fatalf("expected 1 record, got %d", len(merged))
	}
	rec := merged[0]
	if rec.Budget != 0 || rec.Revenue != 0 {
		t.Fatalf("budget/revenue must be forced absent: %+v", rec)
	}
	if rec.Source != market.SourceSecondary {
		t.Fatalf("expected secondary tag, got %q", rec.Source)
	}
}

func TestMergeDeduplicatesFirstSeenWins(t *testing.T) {
	primary := []market.Record{
		{Title: "Nova", Year: 2021, Overview: "first"},
		{Title: "NOVA!", Year: 2021, Overview: "duplicate"},
		{Title: "Nova", Year: 2019, Overview: "different year"},
	}
	merged := market.Merge(primary, nil, 5)
	if len(merged) != 2 {
		t.Fatalf("expected 2 records after dedupe, got %d: %+v", len(merged), merged)
	}
	for _, rec := range merged {
		if rec.Overview == "duplicate" {
			t.Fatal("later duplicate must not replace first occurrence")
		}
	}
}

func TestMergeAbsentYearsNeverEqual(t *testing.T) {
	primary := []market.Record{
		{Title: "Nova", Overview: "no year one"},
		{Title: "Nova", Overview: "no year two"},
	}
	merged := market.Merge(primary, nil, 5)
	if len(merged) != 2 {
		t.Fatalf("records without years must not collapse, got %d", len(merged))
	}
}

func TestMergeNoDuplicateKeysAcrossSources(t *testing.T) {
	primary := []market.Record{
		{Title: "Alpha", Year: 2000},
		{Title: "Beta", Year: 2001},
	}
	secondary := []market.Record{
		{Title: "alpha", Year: 2000},
		{Title: "Gamma", Year: 2002},
	}
	merged := market.Merge(primary, secondary, 10)
	type key struct {
		title string
		year  int
	}
	seen := map[key]bool{}
	for _, rec := range merged {
		k := key{rec.NormalizedTitle(), rec.Year}
		if seen[k] {
			t.Fatalf("duplicate merge key in output: %+v", k)
		}
		seen[k] = true
	}
}

func TestMergeTruncatesToTopN(t *testing.T) {
	var primary []market.Record
	for year := 2000; year < 2010; year++ {
		primary = append(primary, market.Record{Title: "M", Year: year})
	}
	if got := market.Merge(primary, nil, 3); len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	if got := market.Merge(primary[:2], nil, 5); len(got) != 2 {
		t.Fatalf("expected min(topN, count)=2, got %d", len(got))
	}
}

func TestMergeSortOrder(t *testing.T) {
	primary := []market.Record{
		{Title: "Low", Year: 2020, ReleaseDate: "2020-01-01", Revenue: 100},
		{Title: "High", Year: 2010, ReleaseDate: "2010-01-01", Revenue: 500},
		{Title: "LowLater", Year: 2022, ReleaseDate: "2022-06-01", Revenue: 100},
	}
	merged := market.Merge(primary, nil, 5)
	if merged[0].Title != "High" {
		t.Fatalf("highest revenue must sort first, got %q", merged[0].Title)
	}
	if merged[1].Title != "LowLater" || merged[2].Title != "Low" {
		t.Fatalf("equal revenue must tie-break on later release string: %+v", merged)
	}
}

func TestMergeSecondaryOnlyTieBreaksOnYear(t *testing.T) {
	secondary := []market.Record{
		{Title: "Old", Year: 1999, ReleaseDate: "30 Jan 1999"},
		{Title: "New", Year: 2021, ReleaseDate: "01 Jan 2021"},
	}
	merged := market.Merge(nil, secondary, 5)
	if len(merged) != 2 {
		t.Fatalf("expected 2 records, got %d", len(merged))
	}
	// Revenue is forced absent on the secondary-only path, so ordering
	// rides entirely on the release signal. The day-first Released text
	// would put 1999 first if compared raw.
	if merged[0].Title != "New" || merged[1].Title != "Old" {
		t.Fatalf("expected newer year to rank first, got %+v", merged)
	}
}

func TestMergeEmptyInputsYieldEmptyOutput(t *testing.T) {
	if got := market.Merge(nil, nil, 5); len(got) != 0 {
		t.Fatalf("expected empty output, got %+v", got)
	}
}

func TestMergeEndToEndExample(t *testing.T) {
	primary := []market.Record{{
		Title:       "Nova",
		ReleaseDate: "2021-03-05",
		Revenue:     1000,
		Genres:      []string{"Sci-Fi"},
	}}
	secondary := []market.Record{{
		Title:    "Nova",
		Year:     2021,
		Cast:     []string{"A", "B"},
		Overview: "...",
	}}
	merged := market.Merge(primary, secondary, 5)
	if len(merged) != 1 {
		t.Fatalf("expected single merged record, got %d", len(merged))
	}
	rec := merged[0]
	if rec.Title != "Nova" || rec.Revenue != 1000 || rec.Source != market.SourcePrimary {
		t.Fatalf("unexpected merge result: %+v", rec)
	}
	if rec.Year != 2021 {
		t.Fatalf("year must be filled from secondary: %+v", rec)
	}
	if len(rec.Cast) != 2 || rec.Cast[0] != "A" || rec.Overview != "..." {
		t.Fatalf("secondary fields missing: %+v", rec)
	}
	if len(rec.Genres) != 1 || rec.Genres[0] != "Sci-Fi" {
		t.Fatalf("genres lost: %+v", rec)
	}
}
