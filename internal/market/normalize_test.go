package market_test

import (
	"testing"

	"filmintel/internal/market"
)

func TestNormalizeTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Nova", "nova"},
		{"The Matrix: Reloaded!", "the matrix reloaded"},
		{"Amélie", "amlie"},
		{"  Spaced  Out  ", "  spaced  out  "},
		{"12 Angry Men", "12 angry men"},
	}
	for _, tc := range cases {
		if got := market.NormalizeTitle(tc.in); got != tc.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeTitleIdempotent(t *testing.T) {
	inputs := []string{"", "Nova", "L'Étranger (1967)", "A-B-C 123", "UPPER lower"}
	for _, in := range inputs {
		once := market.NormalizeTitle(in)
		if twice := market.NormalizeTitle(once); twice != once {
			t.Errorf("NormalizeTitle not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestParseYear(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"2021-07-16", 2021},
		{"2021", 2021},
		{"1999–2003", 1999},
		{"N/A", 0},
		{"", 0},
		{"19", 0},
	}
	for _, tc := range cases {
		if got := market.ParseYear(tc.in); got != tc.want {
			t.Errorf("ParseYear(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestSplitList(t *testing.T) {
	if got := market.SplitList("A, B , C"); len(got) != 3 || got[1] != "B" {
		t.Fatalf("unexpected split: %#v", got)
	}
	if got := market.SplitList("N/A"); got != nil {
		t.Fatalf("expected nil for N/A, got %#v", got)
	}
	if got := market.SplitList("  "); got != nil {
		t.Fatalf("expected nil for blank, got %#v", got)
	}
}
