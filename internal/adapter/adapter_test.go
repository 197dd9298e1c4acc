package adapter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdaptDevelopmentDerivesID(t *testing.T) {
	d := AdaptDevelopment(Row{"nombre": "Torre A", "constructora": "ACME"})
	assert.Equal(t, "acme-torre-a", d.ID)
	assert.Equal(t, "Torre A", d.Name)
	assert.Equal(t, "ACME", d.BuilderName)
}

func TestAdaptDevelopmentExplicitIDFallback(t *testing.T) {
	d := AdaptDevelopment(Row{"id": "custom-1", "nombre": "Torre A"})
	assert.Equal(t, "custom-1", d.ID)
}

func TestAdaptDevelopmentAliasEquivalence(t *testing.T) {
	// The same canonical value must come out regardless of which accepted
	// column spelling supplied it.
	variants := []Row{
		{"nombre": "Torre A", "constructora": "ACME", "ciudad": "Tijuana"},
		{"Nombre": "Torre A", "Constructora": "ACME", "ubicacion.ciudad": "Tijuana"},
	}
	first := AdaptDevelopment(variants[0])
	for _, row := range variants[1:] {
		got := AdaptDevelopment(row)
		assert.Equal(t, first.ID, got.ID)
		assert.Equal(t, first.Name, got.Name)
		require.NotNil(t, got.Location)
		assert.Equal(t, *first.Location.City, *got.Location.City)
	}
}

func TestAdaptDevelopmentGeoStandardization(t *testing.T) {
	d := AdaptDevelopment(Row{"nombre": "Altamar", "constructora": "ACME", "ciudad": "cancun"})
	require.NotNil(t, d.Location)
	assert.Equal(t, "Cancún", *d.Location.City)
	assert.Equal(t, "Quintana Roo", *d.Location.State)
	require.NotNil(t, d.GeoID)
	assert.Equal(t, "mx-qr-cancun", *d.GeoID)
}

func TestAdaptDevelopmentEmptyBlocksOmitted(t *testing.T) {
	d := AdaptDevelopment(Row{"nombre": "Torre A", "constructora": "ACME"})
	assert.Nil(t, d.Location)
	assert.Nil(t, d.Features)
	assert.Nil(t, d.Financing)
	assert.Nil(t, d.Media)
	assert.Nil(t, d.Commercial)
	assert.Nil(t, d.Promotion)
	assert.Nil(t, d.Analysis)
}

func TestBoolCoercion(t *testing.T) {
	tests := []struct {
		raw  string
		want *bool
	}{
		{raw: "TRUE", want: ptr(true)},
		{raw: "true", want: ptr(true)},
		{raw: "1", want: ptr(true)},
		{raw: "on", want: ptr(true)},
		{raw: "FALSE", want: ptr(false)},
		{raw: "0", want: ptr(false)},
		{raw: "si", want: ptr(false)},
		{raw: "", want: nil},
	}
	for _, tt := range tests {
		t.Run("raw="+tt.raw, func(t *testing.T) {
			d := AdaptDevelopment(Row{"nombre": "X", "constructora": "Y", "activo": tt.raw})
			if tt.want == nil {
				assert.Nil(t, d.Active)
			} else {
				require.NotNil(t, d.Active)
				assert.Equal(t, *tt.want, *d.Active)
			}
		})
	}
}

func TestAdaptDevelopmentPromotionAnchoredToCity(t *testing.T) {
	d := AdaptDevelopment(Row{
		"nombre":           "Altamar",
		"constructora":     "ACME",
		"ciudad":           "Tijuana",
		"promocion.nombre": "Preventa",
		"promocion.inicio": "2024-01-15",
		"promocion.final":  "2024-02-15",
	})
	require.NotNil(t, d.Promotion)
	assert.Equal(t, "Preventa", *d.Promotion.Name)
	// Midnight in Tijuana is 08:00 UTC in winter.
	assert.Equal(t, "2024-01-15T08:00:00Z", d.Promotion.Start.Format(time.RFC3339))
}

func TestAdaptUnitModelIDs(t *testing.T) {
	m := AdaptUnitModel(Row{
		"idDesarrollo": "acme-torre-a",
		"nombreModelo": "Modelo Sol",
	})
	assert.Equal(t, "acme-torre-a-modelo-sol", m.ID)
	assert.Equal(t, "acme-torre-a", m.DevelopmentID)
}

func TestAdaptUnitModelRebuildsParentID(t *testing.T) {
	m := AdaptUnitModel(Row{
		"desarrollo":   "Torre A",
		"constructora": "ACME",
		"nombreModelo": "Modelo Sol",
	})
	assert.Equal(t, "acme-torre-a", m.DevelopmentID)
	assert.Equal(t, "acme-torre-a-modelo-sol", m.ID)
}

func TestAdaptUnitModelPricePerArea(t *testing.T) {
	m := AdaptUnitModel(Row{
		"idDesarrollo":   "acme-torre-a",
		"nombreModelo":   "Modelo Sol",
		"precio_inicial": "2000000",
		"m2_const":       "100",
	})
	require.NotNil(t, m.Pricing)
	require.NotNil(t, m.Pricing.PerArea)
	assert.Equal(t, 20000.0, *m.Pricing.PerArea)
}

func TestAdaptUnitModelNoPerAreaWithoutArea(t *testing.T) {
	m := AdaptUnitModel(Row{
		"idDesarrollo":   "acme-torre-a",
		"nombreModelo":   "Modelo Sol",
		"precio_inicial": "2000000",
	})
	require.NotNil(t, m.Pricing)
	assert.Nil(t, m.Pricing.PerArea)
}

func TestAdaptUnitModelEstimatedAppreciation(t *testing.T) {
	restore := now
	now = func() time.Time { return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC) }
	defer func() { now = restore }()

	tests := []struct {
		name      string
		saleStart string
		base      string
		initial   string
		want      float64
	}{
		// 12 months elapsed, 10% growth: 10% per year.
		{name: "one year", saleStart: "2023-01-10", base: "1100000", initial: "1000000", want: 10.00},
		// Same month floors at 1: 5% growth extrapolates to 60% yearly.
		{name: "same month floors at one", saleStart: "2024-01-05", base: "1050000", initial: "1000000", want: 60.00},
		// 6 months, 5% growth: 10% yearly.
		{name: "half year", saleStart: "2023-07-20", base: "1050000", initial: "1000000", want: 10.00},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := AdaptUnitModel(Row{
				"idDesarrollo":      "acme-torre-a",
				"nombreModelo":      "Modelo Sol",
				"precio_inicial":    tt.base,
				"precio_orig_lista": tt.initial,
				"fecha_inicio":      tt.saleStart,
			})
			require.NotNil(t, m.Commercial)
			require.NotNil(t, m.Commercial.EstimatedAppreciationPct)
			assert.Equal(t, tt.want, *m.Commercial.EstimatedAppreciationPct)
		})
	}
}

func TestAdaptUnitModelStatusList(t *testing.T) {
	m := AdaptUnitModel(Row{
		"idDesarrollo": "acme-torre-a",
		"nombreModelo": "Modelo Sol",
		"status":       "preventa|entrega inmediata",
	})
	assert.Equal(t, []string{"preventa", "entrega inmediata"}, []string(m.Status))
}

func TestAdaptUnitModelNeverMapsHighlights(t *testing.T) {
	m := AdaptUnitModel(Row{
		"idDesarrollo": "acme-torre-a",
		"nombreModelo": "Modelo Sol",
		"highlights":   "Precio bajo",
	})
	assert.Nil(t, m.Highlights)
}

func TestAdaptDeveloper(t *testing.T) {
	d := AdaptDeveloper(Row{
		"Nombre":            "Constructora del Valle",
		"Status":            "Activo",
		"RazonSocial":       "Constructora del Valle SA de CV",
		"ComisionBase":      "3.5",
		"HitosCredito":      "30|40|30",
		"ContactoNombre":    "Laura Méndez",
		"ContactoTelefono":  "+52 (664) 123-4567",
		"ContactoEmail":     " Laura@Valle.MX ",
	})
	assert.Equal(t, "constructora-del-valle", d.ID)
	require.NotNil(t, d.Status)
	assert.Equal(t, "activo", *d.Status)
	require.NotNil(t, d.Fiscal)
	assert.Equal(t, "Constructora del Valle SA de CV", *d.Fiscal.LegalName)
	require.NotNil(t, d.Commission)
	assert.Equal(t, 3.5, *d.Commission.BasePct)
	require.NotNil(t, d.Commission.Milestones)
	assert.Equal(t, []float64{30, 40, 30}, d.Commission.Milestones.Credit)
	require.NotNil(t, d.Contact)
	require.NotNil(t, d.Contact.Primary)
	assert.Equal(t, "526641234567", *d.Contact.Primary.Phone)
	assert.Equal(t, "laura@valle.mx", *d.Contact.Primary.Email)
	assert.Nil(t, d.Contact.Secondary)
}

func TestResolverFirstNonEmptyWins(t *testing.T) {
	v, ok := resolve(Row{"precio_inicial": "  ", "precio_base": "1500000"},
		unitModelAliases["priceBase"])
	require.True(t, ok)
	assert.Equal(t, "1500000", v)
}
