package stihirus

import (
	"regexp"
	"strconv"
	"strings"

	"stihirus-reader/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var countPattern = regexp.MustCompile(`\d[\d\s\x{00a0}]*`)

// parseCount reads the first group of digits in s, thousands may be
// separated by spaces. Anything unreadable is 0.
func parseCount(s string) int {
	match := countPattern.FindString(s)
	if match == "" {
		return 0
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, match)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// parseCountPtr is parseCount that keeps absence distinct from zero.
func parseCountPtr(s string) *int {
	if countPattern.FindString(s) == "" {
		return nil
	}
	n := parseCount(s)
	return &n
}

// parseId parses a strictly positive integer id, 0 when s is not one.
func parseId(s string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

func parseUniqueness(s string) UniquenessStatus {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return UniquenessUnknown
	}
	switch UniquenessStatus(n) {
	case UniquenessUnknown, UniquenessNotUnique, UniquenessUnique:
		return UniquenessStatus(n)
	}
	return UniquenessUnknown
}

// parseGifts splits the comma separated gift list, the default reaction
// alone means there are no gifts.
func parseGifts(s string) []string {
	gifts := []string{}
	s = strings.TrimSpace(s)
	if s == "" || s == sentinelDefaultGift {
		return gifts
	}
	for _, g := range strings.Split(s, ",") {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		gifts = append(gifts, g)
	}
	return gifts
}

func ptr[T any](v T) *T {
	return &v
}

// optionalUrl normalizes a link to an absolute url, placeholder
// reports whether the raw value is the site's "no image" marker.
func (s site) optionalUrl(raw string, placeholder func(string) bool) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" || (placeholder != nil && placeholder(raw)) {
		return nil
	}
	abs := htmlutil.AbsoluteUrl(s.base, raw)
	if abs == "" {
		return nil
	}
	return &abs
}

func attr(sel *goquery.Selection, name string) string {
	v, _ := sel.Attr(name)
	return strings.TrimSpace(v)
}
