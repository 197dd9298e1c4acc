package model

import "time"

// Development is a real-estate development (a named project by a builder).
// Optional fields are pointers so that absent values stay out of the stored
// document (merge-write semantics).
type Development struct {
	ID          string  `json:"id" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	BuilderName string  `json:"builderName" validate:"required"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"active,omitempty"`
	GeoID       *string `json:"geoId,omitempty"`

	Location   *Location       `json:"location,omitempty"`
	Features   *Features       `json:"features,omitempty"`
	Financing  *Financing      `json:"financing,omitempty"`
	Media      *Media          `json:"media,omitempty"`
	Commission *DevCommission  `json:"commission,omitempty"`
	Commercial *DevCommercial  `json:"commercial,omitempty"`
	Pricing    *DevPricing     `json:"pricing,omitempty"`
	Stats      *DevStats       `json:"stats,omitempty"`
	Promotion  *Promotion      `json:"promotion,omitempty"`
	Analysis   *Analysis       `json:"analysis,omitempty"`
	Legal      *Legal          `json:"legal,omitempty"`
	UpdatedAt  *time.Time      `json:"updatedAt,omitempty"`
}

type Location struct {
	Street       *string  `json:"street,omitempty"`
	Neighborhood *string  `json:"neighborhood,omitempty"`
	Locality     *string  `json:"locality,omitempty"`
	PostalCode   *float64 `json:"postalCode,omitempty"`
	City         *string  `json:"city,omitempty"`
	State        *string  `json:"state,omitempty"`
	Zone         *string  `json:"zone,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

type Features struct {
	Amenities    []string `json:"amenities,omitempty"`
	Surroundings []string `json:"surroundings,omitempty"`
}

type Financing struct {
	AcceptedCredits   []string `json:"acceptedCredits,omitempty"`
	MinDeposit        *float64 `json:"minDeposit,omitempty"`
	MinDownPaymentPct *float64 `json:"minDownPaymentPct,omitempty"`
}

type Media struct {
	Cover       *string  `json:"cover,omitempty"`
	Gallery     []string `json:"gallery,omitempty"`
	Brochure    *string  `json:"brochure,omitempty"`
	FloorPlans  []string `json:"floorPlans,omitempty"`
	VirtualTour *string  `json:"virtualTour,omitempty"`
	Video       *string  `json:"video,omitempty"`
}

type DevCommission struct {
	OverridePct *float64 `json:"overridePct,omitempty"`
}

type DevCommercial struct {
	ModelCount     *float64 `json:"modelCount,omitempty"`
	SaleStartDate  *string  `json:"saleStartDate,omitempty"`
	UnitsTotal     *float64 `json:"unitsTotal,omitempty"`
	UnitsSold      *float64 `json:"unitsSold,omitempty"`
	UnitsAvailable *float64 `json:"unitsAvailable,omitempty"`
	// Inventory is a legacy alias for available units still present on old
	// documents; developer rollups fall back to it when unitsAvailable is
	// absent.
	Inventory *float64 `json:"inventory,omitempty"`
}

type DevPricing struct {
	From     *float64 `json:"from,omitempty"`
	Currency *string  `json:"currency,omitempty"`
}

// DevStats holds system-computed figures; the importer never writes them,
// only the aggregation engine does.
type DevStats struct {
	PriceRange []float64 `json:"priceRange,omitempty"`
}

type Promotion struct {
	Name  *string    `json:"name,omitempty"`
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

type Analysis struct {
	Summary    *string  `json:"summary,omitempty"`
	Strengths  []string `json:"strengths,omitempty"`
	Weaknesses []string `json:"weaknesses,omitempty"`
}

type Legal struct {
	Regime *string `json:"regime,omitempty"`
}
