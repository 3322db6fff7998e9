package market

import (
	"regexp"
	"strings"
)

var titleStripPattern = regexp.MustCompile(`[^a-z0-9 ]`)

// NormalizeTitle canonicalizes a free-text title into its matching key:
// lowercase with every character outside [a-z0-9 ] removed, internal spacing
// untouched. Pure and total; empty input yields "".
func NormalizeTitle(title string) string {
	return titleStripPattern.ReplaceAllString(strings.ToLower(title), "")
}
