package market

import (
	"fmt"
	"strconv"
	"strings"
)

// overviewLimit caps the plot text included per record in the context block.
const overviewLimit = 300

// contextInstruction trails the formatted block and tells the downstream
// model what the data is for.
const contextInstruction = "Use these comparable titles to ground your assessment of the story's commercial potential, genre positioning, and target audience overlap."

// FormatContext renders the ranked records as a numbered text block for LLM
// consumption. Only present fields are emitted; overview text is
// hard-truncated at 300 characters. An empty input returns "" so callers
// know no market data was available and can substitute a generic fallback.
func FormatContext(records []Record) string {
	if len(records) == 0 {
		return ""
	}

	var b strings.Builder
	for i, rec := range records {
		title := rec.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(&b, "%d. %s", i+1, title)
		if rec.Year > 0 {
			fmt.Fprintf(&b, " (%d)", rec.Year)
		} else if rec.ReleaseDate != "" {
			fmt.Fprintf(&b, " (%s)", rec.ReleaseDate)
		}
		b.WriteString("\n")

		writeField(&b, "Genres", strings.Join(rec.Genres, ", "))
		writeField(&b, "Overview", truncateOverview(rec.Overview))
		writeField(&b, "Keywords", strings.Join(rec.Keywords, ", "))
		writeField(&b, "Cast", strings.Join(rec.Cast, ", "))
		writeField(&b, "Director", rec.Director)
		if rec.Rating > 0 {
			rating := strconv.FormatFloat(rec.Rating, 'f', 1, 64)
			if rec.VoteCount > 0 {
				rating += fmt.Sprintf(" (%d votes)", rec.VoteCount)
			}
			writeField(&b, "Rating", rating)
		}
		if rec.Metascore > 0 {
			writeField(&b, "Metascore", strconv.Itoa(rec.Metascore))
		}
		if rec.Budget > 0 {
			writeField(&b, "Budget", "$"+strconv.FormatInt(rec.Budget, 10))
		}
		if rec.Revenue > 0 {
			writeField(&b, "Revenue", "$"+strconv.FormatInt(rec.Revenue, 10))
		}
		b.WriteString("\n")
	}

	b.WriteString(contextInstruction)
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "   %s: %s\n", label, value)
}

func truncateOverview(overview string) string {
	runes := []rune(overview)
	if len(runes) <= overviewLimit {
		return overview
	}
	return string(runes[:overviewLimit]) + "..."
}
