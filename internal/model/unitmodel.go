package model

import "time"

// UnitModel is one housing model offered inside a Development.
type UnitModel struct {
	ID            string     `json:"id" validate:"required"`
	DevelopmentID string     `json:"developmentId" validate:"required"`
	ModelName     string     `json:"modelName" validate:"required"`
	Description   *string    `json:"description,omitempty"`
	Active        *bool      `json:"active,omitempty"`
	Status        StatusList `json:"status,omitempty"`
	PropertyType  *string    `json:"propertyType,omitempty"`

	Bedrooms  *float64 `json:"bedrooms,omitempty"`
	Bathrooms *float64 `json:"bathrooms,omitempty"`
	Levels    *float64 `json:"levels,omitempty"`
	Parking   *float64 `json:"parking,omitempty"`
	FloorArea *float64 `json:"floorArea,omitempty"`
	LotArea   *float64 `json:"lotArea,omitempty"`
	Frontage  *float64 `json:"frontage,omitempty"`
	Depth     *float64 `json:"depth,omitempty"`
	Amenities []string `json:"amenities,omitempty"`

	Pricing             *UnitPricing    `json:"pricing,omitempty"`
	PriceHistory        []PriceEntry    `json:"priceHistory,omitempty"`
	RealAppreciationPct *float64        `json:"realAppreciationPct,omitempty"`
	Finishes            *Finishes       `json:"finishes,omitempty"`
	Media               *Media          `json:"media,omitempty"`
	Highlights          []string        `json:"highlights,omitempty"`
	Promotion           *Promotion      `json:"promotion,omitempty"`
	Analysis            *Analysis       `json:"analysis,omitempty"`
	Commercial          *UnitCommercial `json:"commercial,omitempty"`
	UpdatedAt           *time.Time      `json:"updatedAt,omitempty"`
}

type UnitPricing struct {
	Base        *float64 `json:"base,omitempty"`
	Initial     *float64 `json:"initial,omitempty"`
	PerArea     *float64 `json:"perArea,omitempty"`
	Maintenance *float64 `json:"maintenance,omitempty"`
	Currency    *string  `json:"currency,omitempty"`
}

// PriceEntry is one element of the append-only price history. The price is
// the value that was superseded, stamped with the instant the change was
// detected.
type PriceEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

type Finishes struct {
	Kitchen *string `json:"kitchen,omitempty"`
	Floors  *string `json:"floors,omitempty"`
}

type UnitCommercial struct {
	UnitsSold                *float64 `json:"unitsSold,omitempty"`
	EstimatedAppreciationPct *float64 `json:"estimatedAppreciationPct,omitempty"`
	SaleStartDate            *string  `json:"saleStartDate,omitempty"`
	DeliveryTime             *string  `json:"deliveryTime,omitempty"`
}
