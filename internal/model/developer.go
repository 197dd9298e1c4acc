package model

import "time"

// Developer statuses (closed set, lowercase).
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
)

// Developer is a building company. Developments link to it by builder-name
// string, not by id; the rollup fields at the bottom are fully recomputed by
// the aggregation engine, never patched incrementally.
type Developer struct {
	ID         string          `json:"id" validate:"required"`
	Name       string          `json:"name" validate:"required"`
	Status     *string         `json:"status,omitempty" validate:"omitempty,oneof=active inactive suspended"`
	Fiscal     *Fiscal         `json:"fiscal,omitempty"`
	Commission *DevrCommission `json:"commission,omitempty"`
	Contact    *Contact        `json:"contact,omitempty"`

	// Derived portfolio rollups.
	Developments        []string `json:"developments,omitempty"`
	Cities              []string `json:"cities,omitempty"`
	TotalUnitsOffered   *float64 `json:"totalUnitsOffered,omitempty"`
	TotalUnitsAvailable *float64 `json:"totalUnitsAvailable,omitempty"`

	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type Fiscal struct {
	LegalName *string `json:"legalName,omitempty"`
}

type DevrCommission struct {
	BasePct    *float64    `json:"basePct,omitempty"`
	Milestones *Milestones `json:"milestones,omitempty"`
}

// Milestones are payment schedules per sale channel; each list, when
// present, is expected to sum to 100.
type Milestones struct {
	Credit []float64 `json:"credit,omitempty"`
	Cash   []float64 `json:"cash,omitempty"`
	Direct []float64 `json:"direct,omitempty"`
}

type Contact struct {
	Primary   *ContactPerson `json:"primary,omitempty"`
	Secondary *ContactPerson `json:"secondary,omitempty"`
}

type ContactPerson struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Role  *string `json:"role,omitempty"`
}
