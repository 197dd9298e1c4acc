package geo

import (
	"strings"

	"catalogo/internal/normalize"
)

// Place is one entry of the static geography dictionary: the canonical city
// spelling, its state, the accepted spelling variants seen in historical
// imports, and a stable geography id.
type Place struct {
	ID       string
	City     string
	State    string
	Variants []string
}

var places = []Place{
	{ID: "mx-bc-tijuana", City: "Tijuana", State: "Baja California", Variants: []string{"tj", "tijuana bc"}},
	{ID: "mx-bc-mexicali", City: "Mexicali", State: "Baja California"},
	{ID: "mx-bc-ensenada", City: "Ensenada", State: "Baja California"},
	{ID: "mx-bc-rosarito", City: "Rosarito", State: "Baja California", Variants: []string{"playas de rosarito"}},
	{ID: "mx-bcs-la-paz", City: "La Paz", State: "Baja California Sur"},
	{ID: "mx-bcs-cabo-san-lucas", City: "Cabo San Lucas", State: "Baja California Sur", Variants: []string{"los cabos"}},
	{ID: "mx-bcs-san-jose-del-cabo", City: "San José del Cabo", State: "Baja California Sur", Variants: []string{"san jose del cabo"}},
	{ID: "mx-son-hermosillo", City: "Hermosillo", State: "Sonora"},
	{ID: "mx-son-puerto-penasco", City: "Puerto Peñasco", State: "Sonora", Variants: []string{"puerto penasco", "rocky point"}},
	{ID: "mx-sin-culiacan", City: "Culiacán", State: "Sinaloa", Variants: []string{"culiacan"}},
	{ID: "mx-sin-mazatlan", City: "Mazatlán", State: "Sinaloa", Variants: []string{"mazatlan"}},
	{ID: "mx-qr-cancun", City: "Cancún", State: "Quintana Roo", Variants: []string{"cancun"}},
	{ID: "mx-qr-playa-del-carmen", City: "Playa del Carmen", State: "Quintana Roo", Variants: []string{"playa"}},
	{ID: "mx-qr-tulum", City: "Tulum", State: "Quintana Roo"},
	{ID: "mx-cmx-ciudad-de-mexico", City: "Ciudad de México", State: "Ciudad de México", Variants: []string{"cdmx", "ciudad de mexico", "mexico city", "df", "mexico df"}},
	{ID: "mx-jal-guadalajara", City: "Guadalajara", State: "Jalisco", Variants: []string{"gdl", "zapopan"}},
	{ID: "mx-nl-monterrey", City: "Monterrey", State: "Nuevo León", Variants: []string{"mty", "monterrey nl"}},
	{ID: "mx-yuc-merida", City: "Mérida", State: "Yucatán", Variants: []string{"merida"}},
	{ID: "mx-qro-queretaro", City: "Querétaro", State: "Querétaro", Variants: []string{"queretaro", "qro"}},
	{ID: "mx-pue-puebla", City: "Puebla", State: "Puebla"},
}

// byName is built once at startup; keys are lowercased canonical names and
// variants.
var byName = func() map[string]*Place {
	m := make(map[string]*Place, len(places)*2)
	for i := range places {
		p := &places[i]
		m[strings.ToLower(p.City)] = p
		for _, v := range p.Variants {
			m[v] = p
		}
	}
	return m
}()

// Match is the result of standardizing a raw city/state pair.
type Match struct {
	GeoID string
	City  string
	State string
}

// Standardize resolves a raw city spelling against the dictionary. On a hit
// it returns the canonical spelling, state and geo id; on a miss it
// synthesizes a fallback geo id from a slug of the input and preserves the
// original spelling.
func Standardize(city, state string) Match {
	trimmed := strings.TrimSpace(city)
	if trimmed == "" {
		return Match{}
	}
	if p, ok := byName[strings.ToLower(trimmed)]; ok {
		st := p.State
		if st == "" {
			st = state
		}
		return Match{GeoID: p.ID, City: p.City, State: st}
	}
	return Match{
		GeoID: "mx-custom-" + normalize.Slugify(trimmed),
		City:  trimmed,
		State: state,
	}
}
