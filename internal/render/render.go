// Package render turns ranked sponsor lists into markup fragments and
// splices them into marked regions of a document.
package render

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"sponsorsync/internal/sponsor"
)

// Image widths per display tier.
const (
	RegularWidth     = "80px"
	HighlightedWidth = "120px"
)

// Marker names of the two document regions the tool rewrites.
const (
	MarkerRegular     = "sponsors"
	MarkerHighlighted = "sponsors-highlighted"
)

// Fragment renders one sponsor as a hyperlink wrapping an avatar image. URL
// and name are HTML-escaped; two non-breaking spaces trail each fragment.
func Fragment(s sponsor.Sponsor, width string) string {
	return fmt.Sprintf(`<a href="%s"><img src="%s" width="%s" alt="%s" /></a>&nbsp;&nbsp;`,
		html.EscapeString(s.ProfileURL),
		html.EscapeString(s.AvatarURL),
		width,
		html.EscapeString(s.Name),
	)
}

// TierMarkup concatenates the fragments for one tier list in order.
func TierMarkup(sponsors []sponsor.Sponsor, width string) string {
	var b strings.Builder
	for _, s := range sponsors {
		b.WriteString(Fragment(s, width))
	}
	return b.String()
}

// ReplaceMarker replaces the interior of the region delimited by the paired
// sentinel comments for marker with replacement, keeping the sentinels. The
// region must occur exactly once; zero or multiple occurrences are a
// configuration error naming the marker.
func ReplaceMarker(doc, marker, replacement string) (string, error) {
	sentinel := "<!-- " + marker + " -->"
	pattern := regexp.MustCompile(`(?s)` + regexp.QuoteMeta(sentinel) + `.*?` + regexp.QuoteMeta(sentinel))

	matches := pattern.FindAllStringIndex(doc, -1)
	if len(matches) != 1 {
		return "", fmt.Errorf("render: marker %q must appear as exactly one region, found %d", marker, len(matches))
	}

	m := matches[0]
	return doc[:m[0]] + sentinel + replacement + sentinel + doc[m[1]:], nil
}
