package importer

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// spacedDecimalRe matches the known export defect where the decimal
	// separator is rendered as whitespace, e.g. "-4   86" meaning -4.86.
	spacedDecimalRe = regexp.MustCompile(`^([+-]?\d+)\s+(\d{1,2})$`)

	// groupedRe matches European thousands grouping with an optional
	// comma fraction, e.g. "1.234,56".
	groupedRe = regexp.MustCompile(`^([+-]?\d{1,3}(?:\.\d{3})+)(?:,(\d+))?$`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// ParseAmount converts a raw numeric string from a bank export to a
// signed decimal value. The second return value is false when the
// input cannot be interpreted as a number.
//
// Resolution order: the spaced-decimal defect pattern, then whitespace
// stripping, then European grouped notation, then a bare comma as the
// decimal separator.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Decimal{}, false
	}

	if m := spacedDecimalRe.FindStringSubmatch(s); m != nil {
		frac := m[2]
		if len(frac) == 1 {
			frac += "0"
		}
		s = m[1] + "." + frac
	} else {
		s = whitespaceRe.ReplaceAllString(s, "")
		if m := groupedRe.FindStringSubmatch(s); m != nil {
			s = strings.ReplaceAll(m[1], ".", "")
			if m[2] != "" {
				s += "." + m[2]
			}
		} else {
			s = strings.ReplaceAll(s, ",", ".")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
