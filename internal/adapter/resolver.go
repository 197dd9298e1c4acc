package adapter

import (
	"strings"
	"time"

	"catalogo/internal/normalize"
)

// Row is one input record: a mapping from source column name to raw cell
// value. Column names vary across historical exports (camelCase, snake_case,
// dotted nested notation, legacy Spanish headers); the alias tables below
// enumerate the accepted spellings per canonical field.
type Row map[string]string

// resolve returns the raw value of the first candidate key present in the
// row whose trimmed value is non-empty. Fields that resolve to nothing are
// omitted from the draft; defaulting is the validator's job, not ours.
func resolve(row Row, keys []string) (string, bool) {
	for _, k := range keys {
		if v, ok := row[k]; ok {
			if s := strings.TrimSpace(v); s != "" {
				return s, true
			}
		}
	}
	return "", false
}

func strField(row Row, keys []string) *string {
	if v, ok := resolve(row, keys); ok {
		return &v
	}
	return nil
}

func numField(row Row, keys []string) *float64 {
	if v, ok := resolve(row, keys); ok {
		if n, ok := normalize.CleanNumber(v); ok {
			return &n
		}
	}
	return nil
}

func phoneField(row Row, keys []string) *string {
	if v, ok := resolve(row, keys); ok {
		if p := normalize.CleanPhone(v); p != "" {
			return &p
		}
	}
	return nil
}

func emailField(row Row, keys []string) *string {
	if v, ok := resolve(row, keys); ok {
		e := normalize.CleanEmail(v)
		return &e
	}
	return nil
}

func pipeField(row Row, keys []string) []string {
	if v, ok := resolve(row, keys); ok {
		return normalize.ParsePipeList(v)
	}
	return nil
}

func milestoneField(row Row, keys []string) []float64 {
	if v, ok := resolve(row, keys); ok {
		return normalize.ParseMilestoneList(v)
	}
	return nil
}

// boolField coerces an "active" style flag: TRUE, 1 and ON (any case) are
// true, any other present value is false, absence leaves the schema default
// to apply.
func boolField(row Row, keys []string) *bool {
	v, ok := resolve(row, keys)
	if !ok {
		return nil
	}
	up := strings.ToUpper(v)
	b := up == "TRUE" || up == "1" || up == "ON"
	return &b
}

// parseSimpleDate parses the date formats seen in sale-start columns.
func parseSimpleDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func ptr[T any](v T) *T { return &v }
