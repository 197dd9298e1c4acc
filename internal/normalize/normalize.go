package normalize

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes characters and drops combining marks, turning
// "Querétaro" into "Queretaro".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// RemoveDiacritics returns s with accents and other combining marks removed.
func RemoveDiacritics(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}

// CleanString trims surrounding whitespace. An empty result means "absent".
func CleanString(v string) string {
	return strings.TrimSpace(v)
}

// CleanNumber strips currency symbols, thousands separators and whitespace,
// then parses the remainder. The second return value reports whether a finite
// number was found, so callers can distinguish "not provided" from zero.
func CleanNumber(v string) (float64, bool) {
	s := strings.TrimSpace(v)
	if s == "" {
		return 0, false
	}
	var b strings.Builder
	for _, r := range s {
		if r == '$' || r == ',' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	n, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// CleanPhone keeps only the digits of a phone number.
func CleanPhone(v string) string {
	var b strings.Builder
	for _, r := range v {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CleanEmail trims and lowercases an email address.
func CleanEmail(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// ParsePipeList splits a pipe-delimited cell ("alberca|gym| jardin ") into
// trimmed, non-empty segments.
func ParsePipeList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ParseMilestoneList splits a pipe-delimited cell into numbers, dropping
// segments that do not parse ("30|40|30" -> [30 40 30]).
func ParseMilestoneList(v string) []float64 {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, "|")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		if n, ok := CleanNumber(p); ok {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Slugify lowercases, strips diacritics, collapses runs of non-alphanumerics
// into single hyphens and trims leading/trailing hyphens.
func Slugify(s string) string {
	s = RemoveDiacritics(strings.ToLower(s))
	var b strings.Builder
	pending := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
		} else {
			pending = true
		}
	}
	return b.String()
}

// GenerateID builds a deterministic document id from two name parts, e.g.
// GenerateID("ACME", "Torre A") == "acme-torre-a". Returns "" when either
// part is empty. Collisions between distinct (a, b) pairs are an accepted
// risk, not guarded against.
func GenerateID(a, b string) string {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return ""
	}
	return Slugify(a + "-" + b)
}

// Round2 rounds a monetary or percentage value to two decimal places.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
