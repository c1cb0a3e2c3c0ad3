package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	slugStrip      = regexp.MustCompile(`[^a-z0-9\s]+`)
	slugWhitespace = regexp.MustCompile(`\s+`)
)

// Slugify builds the URL identifier of a listing from its title and creation time.
// The same title and time always give the same slug.
func Slugify(title string, at time.Time) string {
	s := strings.ToLower(title)
	s = slugStrip.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = slugWhitespace.ReplaceAllString(s, "-")

	suffix := strconv.FormatInt(at.UnixMilli(), 10)
	if s == "" {
		return suffix
	}
	return s + "-" + suffix
}
