package geo

import (
	"strings"
	"time"

	"catalogo/internal/normalize"
)

// DefaultTimezone covers most of the target market (central Mexico).
const DefaultTimezone = "America/Mexico_City"

// cityTimezones maps normalized city names to IANA zones. Cities missing
// from this table fall back to DefaultTimezone; that matters because the
// northwest and the Caribbean coast are hours apart from the center.
var cityTimezones = map[string]string{
	"tijuana":            "America/Tijuana",
	"mexicali":           "America/Tijuana",
	"ensenada":           "America/Tijuana",
	"rosarito":           "America/Tijuana",
	"la paz":             "America/Mazatlan",
	"cabo san lucas":     "America/Mazatlan",
	"san jose del cabo":  "America/Mazatlan",
	"hermosillo":         "America/Hermosillo",
	"puerto penasco":     "America/Hermosillo",
	"nogales":            "America/Hermosillo",
	"culiacan":           "America/Mazatlan",
	"mazatlan":           "America/Mazatlan",
	"los mochis":         "America/Mazatlan",
	"cancun":             "America/Cancun",
	"playa del carmen":   "America/Cancun",
	"tulum":              "America/Cancun",
	"chetumal":           "America/Cancun",
	"merida":             "America/Merida",
	"cdmx":               "America/Mexico_City",
	"ciudad de mexico":   "America/Mexico_City",
	"mexico city":        "America/Mexico_City",
	"guadalajara":        "America/Mexico_City",
	"monterrey":          "America/Mexico_City",
	"queretaro":          "America/Mexico_City",
	"puebla":             "America/Mexico_City",
}

// TimezoneName resolves the IANA zone name for a city. Lookup is accent and
// case insensitive; unknown cities get the default zone.
func TimezoneName(city string) string {
	norm := strings.TrimSpace(strings.ToLower(normalize.RemoveDiacritics(city)))
	if norm == "" {
		return DefaultTimezone
	}
	if tz, ok := cityTimezones[norm]; ok {
		return tz
	}
	return DefaultTimezone
}

func location(city string) *time.Location {
	if loc, err := time.LoadLocation(TimezoneName(city)); err == nil {
		return loc
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// ParseDateRange interprets a YYYY-MM-DD string as midnight (or end of day,
// when isEnd is set) in the timezone associated with city, and returns the
// absolute instant in UTC. The same calendar date starts at a different
// instant in Tijuana than in Cancún; parsing naively as UTC would shift
// promotion windows by hours.
func ParseDateRange(dateStr, city string, isEnd bool) (time.Time, bool) {
	s := strings.TrimSpace(dateStr)
	if len(s) != 10 {
		return time.Time{}, false
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	loc := location(city)
	var t time.Time
	if isEnd {
		t = time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
	} else {
		t = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	}
	return t.UTC(), true
}
