package adapter

import (
	"strings"

	"catalogo/internal/geo"
	"catalogo/internal/model"
	"catalogo/internal/normalize"
)

// AdaptDevelopment maps a raw row onto a Development draft. Fields that do
// not resolve are left absent; nested blocks attach only when at least one
// of their sub-fields resolved.
func AdaptDevelopment(row Row) *model.Development {
	d := &model.Development{}

	if v := strField(row, developmentAliases["name"]); v != nil {
		d.Name = normalize.CleanString(*v)
	}
	if v := strField(row, developmentAliases["builderName"]); v != nil {
		d.BuilderName = normalize.CleanString(*v)
	}
	d.Description = strField(row, developmentAliases["description"])
	d.Active = boolField(row, developmentAliases["active"])

	// Deterministic id from (builder, name); an explicit id column is the
	// fallback when either part is missing.
	if d.Name != "" && d.BuilderName != "" {
		d.ID = normalize.GenerateID(d.BuilderName, d.Name)
	} else if v := strField(row, developmentAliases["id"]); v != nil {
		d.ID = *v
	}

	loc := model.Location{
		Street:       strField(row, developmentAliases["street"]),
		Neighborhood: strField(row, developmentAliases["neighborhood"]),
		Locality:     strField(row, developmentAliases["locality"]),
		PostalCode:   numField(row, developmentAliases["postalCode"]),
		City:         strField(row, developmentAliases["city"]),
		State:        strField(row, developmentAliases["state"]),
		Zone:         strField(row, developmentAliases["zone"]),
		Latitude:     numField(row, developmentAliases["latitude"]),
		Longitude:    numField(row, developmentAliases["longitude"]),
	}
	if loc.City != nil {
		state := ""
		if loc.State != nil {
			state = *loc.State
		}
		m := geo.Standardize(*loc.City, state)
		loc.City = ptr(m.City)
		if m.State != "" {
			loc.State = ptr(m.State)
		}
		d.GeoID = ptr(m.GeoID)
	}
	if loc != (model.Location{}) {
		d.Location = &loc
	}

	feats := model.Features{
		Amenities:    pipeField(row, developmentAliases["amenities"]),
		Surroundings: pipeField(row, developmentAliases["surroundings"]),
	}
	if len(feats.Amenities) > 0 || len(feats.Surroundings) > 0 {
		d.Features = &feats
	}

	fin := model.Financing{
		AcceptedCredits:   pipeField(row, developmentAliases["acceptedCredits"]),
		MinDeposit:        numField(row, developmentAliases["minDeposit"]),
		MinDownPaymentPct: numField(row, developmentAliases["minDownPaymentPct"]),
	}
	if len(fin.AcceptedCredits) > 0 || fin.MinDeposit != nil || fin.MinDownPaymentPct != nil {
		d.Financing = &fin
	}

	media := model.Media{
		Cover:    strField(row, developmentAliases["mediaCover"]),
		Gallery:  pipeField(row, developmentAliases["mediaGallery"]),
		Brochure: strField(row, developmentAliases["mediaBrochure"]),
		Video:    strField(row, developmentAliases["mediaVideo"]),
	}
	if media.Cover != nil || len(media.Gallery) > 0 || media.Brochure != nil || media.Video != nil {
		d.Media = &media
	}

	if v := numField(row, developmentAliases["commissionOverridePct"]); v != nil {
		d.Commission = &model.DevCommission{OverridePct: v}
	}

	com := model.DevCommercial{
		UnitsTotal:     numField(row, developmentAliases["unitsTotal"]),
		UnitsSold:      numField(row, developmentAliases["unitsSold"]),
		UnitsAvailable: numField(row, developmentAliases["unitsAvailable"]),
		ModelCount:     numField(row, developmentAliases["modelCount"]),
		SaleStartDate:  strField(row, developmentAliases["saleStartDate"]),
	}
	if com != (model.DevCommercial{}) {
		d.Commercial = &com
	}

	if v := strField(row, developmentAliases["currency"]); v != nil {
		d.Pricing = &model.DevPricing{Currency: v}
	}

	if v := strField(row, developmentAliases["legalRegime"]); v != nil {
		d.Legal = &model.Legal{Regime: v}
	}

	analysis := model.Analysis{
		Summary:    strField(row, developmentAliases["analysisSummary"]),
		Strengths:  pipeField(row, developmentAliases["analysisStrengths"]),
		Weaknesses: pipeField(row, developmentAliases["analysisWeaknesses"]),
	}
	if analysis.Summary != nil || len(analysis.Strengths) > 0 || len(analysis.Weaknesses) > 0 {
		d.Analysis = &analysis
	}

	// Promotion dates are anchored to the development's own city so that a
	// calendar date means the same local day everywhere.
	city := ""
	if d.Location != nil && d.Location.City != nil {
		city = *d.Location.City
	}
	d.Promotion = adaptPromotion(row, developmentAliases, city)

	return d
}

// adaptPromotion builds the promotion block. Dates must be YYYY-MM-DD;
// anything else leaves that bound absent.
func adaptPromotion(row Row, aliases map[string][]string, city string) *model.Promotion {
	promo := model.Promotion{Name: strField(row, aliases["promotionName"])}
	if v := strField(row, aliases["promotionStart"]); v != nil {
		if t, ok := geo.ParseDateRange(strings.TrimSpace(*v), city, false); ok {
			promo.Start = &t
		}
	}
	if v := strField(row, aliases["promotionEnd"]); v != nil {
		if t, ok := geo.ParseDateRange(strings.TrimSpace(*v), city, true); ok {
			promo.End = &t
		}
	}
	if promo.Name == nil && promo.Start == nil && promo.End == nil {
		return nil
	}
	return &promo
}
