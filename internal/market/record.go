package market

import (
	"strconv"
	"strings"
)

// Source identifies which provider supplied the majority of a record's fields.
type Source string

const (
	// SourcePrimary marks records assembled from a TMDB result, optionally
	// back-filled from OMDb.
	SourcePrimary Source = "tmdb"
	// SourceSecondary marks records presented from OMDb alone.
	SourceSecondary Source = "omdb"
)

// Record is one comparable movie, possibly assembled from two partial
// sources. Numeric fields use zero as the absent sentinel; only the primary
// provider ever supplies Budget and Revenue.
type Record struct {
	Title       string
	Year        int    // 0 when no parseable four-digit year was supplied
	ReleaseDate string // raw provider date or year text, kept for ordering
	Genres      []string
	Overview    string
	Keywords    []string
	Cast        []string
	Director    string
	Rating      float64
	VoteCount   int64
	Popularity  float64
	Metascore   int
	Budget      int64
	Revenue     int64
	Source      Source
	PosterPath  string
}

// NormalizedTitle returns the matching key form of the record's title.
func (r Record) NormalizedTitle() string {
	return NormalizeTitle(r.Title)
}

// releaseSignal is the raw string compared when revenues tie. Primary
// records compare their ISO date text byte-wise, not chronologically.
// Secondary records compare by year: OMDb's Released text ("30 Jan 2021")
// would otherwise order by day-of-month.
func (r Record) releaseSignal() string {
	if r.Source == SourceSecondary {
		if r.Year > 0 {
			return strconv.Itoa(r.Year)
		}
		return ""
	}
	if r.ReleaseDate != "" {
		return r.ReleaseDate
	}
	if r.Year > 0 {
		return strconv.Itoa(r.Year)
	}
	return ""
}

// ParseYear extracts a four-digit release year from provider date or year
// text ("2021-07-16", "2021", "2012–2015"). Returns 0 when the leading four
// characters do not form an integer.
func ParseYear(value string) int {
	value = strings.TrimSpace(value)
	if len(value) < 4 {
		return 0
	}
	year, err := strconv.Atoi(value[:4])
	if err != nil || year <= 0 {
		return 0
	}
	return year
}

// SplitList breaks an OMDb-style comma-joined field ("A, B, C") into its
// elements, dropping empties and the provider's "N/A" placeholder.
func SplitList(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" || value == "N/A" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
