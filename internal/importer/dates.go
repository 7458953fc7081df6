package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Bank exports mix dot-separated European dates, slash-separated dates,
// and occasionally ISO or textual forms. The first two are matched
// explicitly because time.Parse alone cannot express "day-first with 1
// or 2 digit fields and a 2 or 4 digit year".
var (
	dotDateRe   = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{2}|\d{4})$`)
	slashDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// fallbackLayouts covers ISO-8601, RFC-2822-style, and common textual
// month forms. Only the date component of a match is kept.
var fallbackLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"20060102",
	time.RFC1123Z,
	time.RFC1123,
	"2 Jan 2006 15:04:05 -0700",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// NormalizeDate converts a raw trimmed date string to canonical
// YYYY-MM-DD form. The second return value is false when the input does
// not resolve to a valid calendar date.
//
// Slash-separated dates are assumed day-first; there is no locale
// detection for month-first exports.
func NormalizeDate(raw string) (string, bool) {
	if m := dotDateRe.FindStringSubmatch(raw); m != nil {
		return canonicalDate(m[3], m[2], m[1])
	}
	if m := slashDateRe.FindStringSubmatch(raw); m != nil {
		return canonicalDate(m[3], m[2], m[1])
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(time.DateOnly), true
		}
	}
	return "", false
}

// canonicalDate zero-pads the fields into YYYY-MM-DD, expanding
// two-digit years into the 2000s, and rejects impossible dates.
func canonicalDate(year, month, day string) (string, bool) {
	if len(year) == 2 {
		year = "20" + year
	}
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	canonical := fmt.Sprintf("%s-%02d-%02d", year, m, d)
	if _, err := time.Parse(time.DateOnly, canonical); err != nil {
		return "", false
	}
	return canonical, true
}
