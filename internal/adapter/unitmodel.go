package adapter

import (
	"time"

	"catalogo/internal/model"
	"catalogo/internal/normalize"
)

// now is swapped out by tests that pin the appreciation clock.
var now = time.Now

// AdaptUnitModel maps a raw row onto a UnitModel draft and computes the
// derived price metrics (price per area, annualized estimated appreciation).
func AdaptUnitModel(row Row) *model.UnitModel {
	m := &model.UnitModel{}

	devID := strField(row, unitModelAliases["developmentId"])
	if devID == nil {
		// Legacy sheets identify the parent by name; rebuild the same
		// deterministic id the development import would have produced.
		devName := strField(row, unitModelAliases["developmentName"])
		builder := strField(row, unitModelAliases["builderName"])
		if devName != nil && builder != nil {
			if id := normalize.GenerateID(*builder, *devName); id != "" {
				devID = &id
			}
		}
	}
	modelName := strField(row, unitModelAliases["modelName"])

	if v := strField(row, unitModelAliases["id"]); v != nil {
		m.ID = *v
	} else if devID != nil && modelName != nil {
		m.ID = normalize.GenerateID(*devID, *modelName)
	}
	if devID != nil {
		m.DevelopmentID = *devID
	}
	if modelName != nil {
		m.ModelName = *modelName
	}

	m.Description = strField(row, unitModelAliases["description"])
	m.Active = boolField(row, unitModelAliases["active"])
	m.PropertyType = strField(row, unitModelAliases["propertyType"])
	if v := strField(row, unitModelAliases["status"]); v != nil {
		m.Status = model.StatusList(normalize.ParsePipeList(*v))
	}

	m.Bedrooms = numField(row, unitModelAliases["bedrooms"])
	m.Bathrooms = numField(row, unitModelAliases["bathrooms"])
	m.Levels = numField(row, unitModelAliases["levels"])
	m.Parking = numField(row, unitModelAliases["parking"])
	m.FloorArea = numField(row, unitModelAliases["floorArea"])
	m.LotArea = numField(row, unitModelAliases["lotArea"])
	m.Frontage = numField(row, unitModelAliases["frontage"])
	m.Depth = numField(row, unitModelAliases["depth"])
	m.Amenities = pipeField(row, unitModelAliases["amenities"])

	pricing := model.UnitPricing{
		Base:        numField(row, unitModelAliases["priceBase"]),
		Initial:     numField(row, unitModelAliases["priceInitial"]),
		PerArea:     numField(row, unitModelAliases["pricePerArea"]),
		Maintenance: numField(row, unitModelAliases["priceMaintenance"]),
		Currency:    strField(row, unitModelAliases["currency"]),
	}
	if pricing != (model.UnitPricing{}) {
		m.Pricing = &pricing
	}

	com := model.UnitCommercial{
		UnitsSold:                numField(row, unitModelAliases["unitsSold"]),
		EstimatedAppreciationPct: numField(row, unitModelAliases["estimatedAppreciationPct"]),
		SaleStartDate:            strField(row, unitModelAliases["saleStartDate"]),
		DeliveryTime:             strField(row, unitModelAliases["deliveryTime"]),
	}
	if com != (model.UnitCommercial{}) {
		m.Commercial = &com
	}

	fin := model.Finishes{
		Kitchen: strField(row, unitModelAliases["finishKitchen"]),
		Floors:  strField(row, unitModelAliases["finishFloors"]),
	}
	if fin != (model.Finishes{}) {
		m.Finishes = &fin
	}

	media := model.Media{
		Cover:       strField(row, unitModelAliases["mediaCover"]),
		Gallery:     pipeField(row, unitModelAliases["mediaGallery"]),
		FloorPlans:  pipeField(row, unitModelAliases["mediaFloorPlans"]),
		VirtualTour: strField(row, unitModelAliases["mediaVirtualTour"]),
		Video:       strField(row, unitModelAliases["mediaVideo"]),
	}
	if media.Cover != nil || len(media.Gallery) > 0 || len(media.FloorPlans) > 0 || media.VirtualTour != nil || media.Video != nil {
		m.Media = &media
	}

	analysis := model.Analysis{
		Summary:    strField(row, unitModelAliases["analysisSummary"]),
		Strengths:  pipeField(row, unitModelAliases["analysisStrengths"]),
		Weaknesses: pipeField(row, unitModelAliases["analysisWeaknesses"]),
	}
	if analysis.Summary != nil || len(analysis.Strengths) > 0 || len(analysis.Weaknesses) > 0 {
		m.Analysis = &analysis
	}

	// Models anchor promotion dates to their own city when the sheet gives
	// one, falling back to the default zone otherwise.
	city := ""
	if v := strField(row, unitModelAliases["timezoneCity"]); v != nil {
		city = *v
	}
	m.Promotion = adaptPromotion(row, unitModelAliases, city)

	applyDerivedPricing(m)
	return m
}

// applyDerivedPricing recomputes price-per-area and the annualized estimated
// appreciation from the resolved inputs.
func applyDerivedPricing(m *model.UnitModel) {
	if m.Pricing == nil || m.Pricing.Base == nil {
		return
	}
	base := *m.Pricing.Base

	if m.FloorArea != nil && *m.FloorArea > 0 {
		m.Pricing.PerArea = ptr(normalize.Round2(base / *m.FloorArea))
	}

	if m.Pricing.Initial == nil || *m.Pricing.Initial <= 0 ||
		m.Commercial == nil || m.Commercial.SaleStartDate == nil {
		return
	}
	start, ok := parseSimpleDate(*m.Commercial.SaleStartDate)
	if !ok {
		return
	}
	// Linear extrapolation of the observed growth to a yearly rate. Months
	// elapsed is floored at 1 so a same-month sale never divides by zero.
	n := now()
	months := (n.Year()-start.Year())*12 + int(n.Month()) - int(start.Month())
	if months < 1 {
		months = 1
	}
	initial := *m.Pricing.Initial
	growth := (base - initial) / initial
	annualized := growth / float64(months) * 12
	m.Commercial.EstimatedAppreciationPct = ptr(normalize.Round2(annualized * 100))
}
