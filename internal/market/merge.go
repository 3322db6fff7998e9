package market

import "sort"

// DefaultTopN bounds the merged comparable list when callers pass no limit.
const DefaultTopN = 5

type mergeKey struct {
	title string
	year  int
}

// keyOf builds the (normalized title, year) merge key. A record without a
// parseable year has no key: absent years are never equal to each other, so
// such records neither match across sources nor collapse as duplicates.
func keyOf(rec Record) (mergeKey, bool) {
	year := rec.Year
	if year == 0 {
		year = ParseYear(rec.ReleaseDate)
	}
	if year == 0 {
		return mergeKey{}, false
	}
	return mergeKey{title: rec.NormalizedTitle(), year: year}, true
}

// Merge reconciles both providers' result sets into one ranked list.
//
// Primary records win every field they carry a non-empty value for; a
// matching secondary record (same merge key) fills the gaps. When the
// primary set is empty the secondary records are presented alone with
// Budget/Revenue forced absent. Duplicate merge keys collapse
// first-seen-wins. The output is sorted by revenue descending, then by the
// release signal descending, and truncated to topN.
//
// Merge never fails: empty inputs produce an empty output.
func Merge(primary, secondary []Record, topN int) []Record {
	if topN <= 0 {
		topN = DefaultTopN
	}

	merged := make([]Record, 0, len(primary)+len(secondary))
	seen := make(map[mergeKey]struct{})

	if len(primary) == 0 {
		for _, rec := range secondary {
			rec.Budget = 0
			rec.Revenue = 0
			rec.Source = SourceSecondary
			if key, ok := keyOf(rec); ok {
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
			}
			merged = append(merged, rec)
		}
		sortRecords(merged)
		return truncateRecords(merged, topN)
	}

	index := make(map[mergeKey]Record, len(secondary))
	for _, rec := range secondary {
		key, ok := keyOf(rec)
		if !ok {
			continue
		}
		if _, exists := index[key]; !exists {
			index[key] = rec
		}
	}

	for _, rec := range primary {
		rec.Source = SourcePrimary
		key, ok := keyOf(rec)
		if ok {
			if _, dup := seen[key]; dup {
				continue
			}
			if match, found := index[key]; found {
				rec = fillFromSecondary(rec, match)
			}
			seen[key] = struct{}{}
		}
		merged = append(merged, rec)
	}

	sortRecords(merged)
	return truncateRecords(merged, topN)
}

// fillFromSecondary substitutes secondary values for every field the primary
// record left empty. Budget and Revenue are never taken from the secondary
// source.
func fillFromSecondary(rec, other Record) Record {
	if rec.Title == "" {
		rec.Title = other.Title
	}
	if rec.Year == 0 {
		rec.Year = other.Year
	}
	if rec.ReleaseDate == "" {
		rec.ReleaseDate = other.ReleaseDate
	}
	if len(rec.Genres) == 0 {
		rec.Genres = other.Genres
	}
	if rec.Overview == "" {
		rec.Overview = other.Overview
	}
	if len(rec.Keywords) == 0 {
		rec.Keywords = other.Keywords
	}
	if len(rec.Cast) == 0 {
		rec.Cast = other.Cast
	}
	if rec.Director == "" {
		rec.Director = other.Director
	}
	if rec.Rating == 0 {
		rec.Rating = other.Rating
	}
	if rec.VoteCount == 0 {
		rec.VoteCount = other.VoteCount
	}
	if rec.Metascore == 0 {
		rec.Metascore = other.Metascore
	}
	if rec.PosterPath == "" {
		rec.PosterPath = other.PosterPath
	}
	return rec
}

// sortRecords orders descending by revenue (absent treated as zero), then by
// the release signal: raw ISO date text for primary records (byte-wise, not
// chronological) and the year for secondary ones, whose day-first Released
// text would otherwise order by day-of-month.
func sortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		ri, rj := records[i].Revenue, records[j].Revenue
		if ri < 0 {
			ri = 0
		}
		if rj < 0 {
			rj = 0
		}
		if ri != rj {
			return ri > rj
		}
		return records[i].releaseSignal() > records[j].releaseSignal()
	})
}

func truncateRecords(records []Record, limit int) []Record {
	if len(records) > limit {
		return records[:limit]
	}
	return records
}
