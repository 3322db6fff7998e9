package market_test

import (
	"strings"
	"testing"

	"filmintel/internal/market"
)

func TestFormatContextEmpty(t *testing.T) {
	if got := market.FormatContext(nil); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if got := market.FormatContext([]market.Record{}); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestFormatContextIncludesPresentFieldsOnly(t *testing.T) {
	records := []market.Record{{
		Title:     "Nova",
		Year:      2021,
		Genres:    []string{"Sci-Fi", "Drama"},
		Overview:  "A star is reborn.",
		Rating:    7.4,
		VoteCount: 1200,
		Revenue:   1000,
	}}
	got := market.FormatContext(records)

	for _, want := range []string{
		"1. Nova (2021)",
		"Genres: Sci-Fi, Drama",
		"Overview: A star is reborn.",
		"Rating: 7.4 (1200 votes)",
		"Revenue: $1000",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in:\n%s", want, got)
		}
	}
	for _, absent := range []string{"Budget", "Metascore", "Cast", "Director", "Keywords"} {
		if strings.Contains(got, absent+":") {
			t.Fatalf("label %q emitted for absent field:\n%s", absent, got)
		}
	}
	if !strings.Contains(got, "commercial potential") {
		t.Fatalf("missing trailing instruction:\n%s", got)
	}
}

func TestFormatContextNumbersRecordsInOrder(t *testing.T) {
	records := []market.Record{
		{Title: "First", Year: 2000},
		{Title: "Second", Year: 2001},
	}
	got := market.FormatContext(records)
	first := strings.Index(got, "1. First (2000)")
	second := strings.Index(got, "2. Second (2001)")
	if first < 0 || second < 0 || second < first {
		t.Fatalf("records misordered or misnumbered:\n%s", got)
	}
}

func TestFormatContextTruncatesOverview(t *testing.T) {
	long := strings.Repeat("x", 450)
	got := market.FormatContext([]market.Record{{Title: "Long", Year: 2020, Overview: long}})
	want := "Overview: " + strings.Repeat("x", 300) + "...\n"
	if !strings.Contains(got, want) {
		t.Fatalf("overview not truncated at 300 characters:\n%s", got)
	}
	if strings.Contains(got, strings.Repeat("x", 301)) {
		t.Fatalf("truncated overview still carries extra characters")
	}
}

func TestFormatContextZeroSentinelsOmitted(t *testing.T) {
	got := market.FormatContext([]market.Record{{
		Title:   "Indie",
		Year:    2019,
		Budget:  0,
		Revenue: 0,
		Rating:  0,
	}})
	for _, label := range []string{"Budget:", "Revenue:", "Rating:"} {
		if strings.Contains(got, label) {
			t.Fatalf("zero sentinel rendered as %q:\n%s", label, got)
		}
	}
}
