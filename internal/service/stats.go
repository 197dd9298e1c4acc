package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"catalogo/internal/model"
	"catalogo/internal/repository"
)

// noZone is the bucket for models whose development states no zone.
const noZone = "Sin Zona"

// Aggregator recomputes the derived statistics after an import: development
// stats from child models, per-city highlight labels, developer portfolio
// rollups. Every pass is idempotent and only updates existing documents.
type Aggregator struct {
	store repository.Store
	log   *logrus.Logger
	now   func() time.Time
}

func NewAggregator(store repository.Store, log *logrus.Logger) *Aggregator {
	return &Aggregator{store: store, log: log, now: time.Now}
}

// RecalcDevelopment recomputes one development's stats from its child unit
// models and returns the development's city and builder name so the caller
// can trigger the highlight and rollup passes over what changed.
func (a *Aggregator) RecalcDevelopment(ctx context.Context, devID string) (string, string, error) {
	models, err := a.store.Query(ctx, model.UnitModels,
		repository.Filter{Path: "developmentId", Op: repository.OpEq, Value: devID})
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch models of %s: %w", devID, err)
	}

	var (
		minPrice    float64
		activeCount float64
		soldSum     float64
		rangeMin    float64
		rangeMax    float64
		anyPositive bool
	)
	for _, doc := range models {
		if !pathActive(doc.Data) {
			continue
		}
		activeCount++
		if base, ok := pathNumber(doc.Data, "pricing.base"); ok && base > 0 {
			if !anyPositive || base < minPrice {
				minPrice = base
			}
			if !anyPositive || base < rangeMin {
				rangeMin = base
			}
			if !anyPositive || base > rangeMax {
				rangeMax = base
			}
			anyPositive = true
		}
		if sold, ok := pathNumber(doc.Data, "commercial.unitsSold"); ok {
			soldSum += sold
		}
	}

	dev, err := a.store.Get(ctx, model.Developments, devID)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch development %s: %w", devID, err)
	}
	if dev == nil {
		return "", "", fmt.Errorf("development %s not found", devID)
	}

	priceFrom := 0.0
	if anyPositive {
		priceFrom = minPrice
	}
	fields := map[string]any{
		"pricing.from":          priceFrom,
		"commercial.modelCount": activeCount,
		"commercial.unitsSold":  soldSum,
		"updatedAt":             a.now().UTC(),
	}
	if total, ok := pathNumber(dev, "commercial.unitsTotal"); ok && total > 0 {
		available := total - soldSum
		if available < 0 {
			available = 0
		}
		fields["commercial.unitsAvailable"] = available
	}
	if anyPositive {
		fields["stats.priceRange"] = []float64{rangeMin, rangeMax}
	}

	if err := a.store.Update(ctx, model.Developments, devID, fields); err != nil {
		return "", "", fmt.Errorf("failed to update development %s: %w", devID, err)
	}

	city, _ := pathString(dev, "location.city")
	builder, _ := pathString(dev, "builderName")
	return city, builder, nil
}

// metric is one highlight competition: the value extractor, the direction,
// and the label templates at city and zone scope.
type metric struct {
	value     func(doc map[string]any) (float64, bool)
	max       bool
	cityLabel string
	zoneLabel string
}

var highlightMetrics = []metric{
	{
		value:     func(d map[string]any) (float64, bool) { return pathNumber(d, "pricing.base") },
		cityLabel: "Modelo con el precio más bajo de %s",
		zoneLabel: "Modelo con el precio más bajo de la zona %s",
	},
	{
		value:     func(d map[string]any) (float64, bool) { return pathNumber(d, "pricing.perArea") },
		cityLabel: "Modelo con el precio más bajo por m² de %s",
		zoneLabel: "Modelo con el precio más bajo por m² de la zona %s",
	},
	{
		value:     func(d map[string]any) (float64, bool) { return pathNumber(d, "lotArea") },
		max:       true,
		cityLabel: "Modelo con más terreno de %s",
		zoneLabel: "Modelo con más terreno de la zona %s",
	},
	{
		value:     func(d map[string]any) (float64, bool) { return pathNumber(d, "floorArea") },
		max:       true,
		cityLabel: "Modelo con más m² de construcción de %s",
		zoneLabel: "Modelo con más m² de construcción de la zona %s",
	},
}

type winner struct {
	modelID string
	value   float64
}

// better reports whether value displaces the current winner. Strict
// comparison: an equal value keeps the earlier-seen winner, which together
// with id-ordered iteration makes the outcome deterministic.
func (w *winner) better(value float64, max bool) bool {
	if w.modelID == "" {
		return true
	}
	if max {
		return value > w.value
	}
	return value < w.value
}

// RecalcCityHighlights recomputes the highlight labels of every active model
// in a city. Labels are system-owned and replaced wholesale; models whose
// label set did not change are not written.
func (a *Aggregator) RecalcCityHighlights(ctx context.Context, city string) error {
	if city == "" {
		return nil
	}
	devs, err := a.store.Query(ctx, model.Developments,
		repository.Filter{Path: "location.city", Op: repository.OpEq, Value: city},
		repository.Filter{Path: "active", Op: repository.OpEq, Value: true})
	if err != nil {
		return fmt.Errorf("failed to fetch developments in %s: %w", city, err)
	}
	if len(devs) == 0 {
		a.log.WithField("city", city).Debug("no active developments, skipping highlights")
		return nil
	}

	devZones := map[string]string{}
	for _, d := range devs {
		zone, _ := pathString(d.Data, "location.zone")
		if strings.TrimSpace(zone) == "" {
			zone = noZone
		}
		devZones[d.ID] = zone
	}

	// Candidate models, in id order across all developments of the city.
	type candidate struct {
		doc  repository.Document
		zone string
	}
	var candidates []candidate
	for _, d := range devs {
		models, err := a.store.Query(ctx, model.UnitModels,
			repository.Filter{Path: "developmentId", Op: repository.OpEq, Value: d.ID},
			repository.Filter{Path: "active", Op: repository.OpEq, Value: true})
		if err != nil {
			return fmt.Errorf("failed to fetch models of %s: %w", d.ID, err)
		}
		for _, m := range models {
			candidates = append(candidates, candidate{doc: m, zone: devZones[d.ID]})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].doc.ID < candidates[j].doc.ID
	})
	if len(candidates) == 0 {
		return nil
	}

	cityWinners := make([]winner, len(highlightMetrics))
	zoneWinners := map[string][]winner{}

	for _, c := range candidates {
		zw, ok := zoneWinners[c.zone]
		if !ok {
			zw = make([]winner, len(highlightMetrics))
			zoneWinners[c.zone] = zw
		}
		for mi, metric := range highlightMetrics {
			v, ok := metric.value(c.doc.Data)
			if !ok || v <= 0 {
				continue
			}
			if cityWinners[mi].better(v, metric.max) {
				cityWinners[mi] = winner{modelID: c.doc.ID, value: v}
			}
			if zw[mi].better(v, metric.max) {
				zw[mi] = winner{modelID: c.doc.ID, value: v}
			}
		}
	}

	labels := map[string][]string{}
	for mi, m := range highlightMetrics {
		if w := cityWinners[mi]; w.modelID != "" {
			labels[w.modelID] = append(labels[w.modelID], fmt.Sprintf(m.cityLabel, city))
		}
	}
	for zone, zw := range zoneWinners {
		for mi, m := range highlightMetrics {
			if w := zw[mi]; w.modelID != "" {
				labels[w.modelID] = append(labels[w.modelID], fmt.Sprintf(m.zoneLabel, zone))
			}
		}
	}

	written := 0
	for _, c := range candidates {
		generated := append([]string(nil), labels[c.doc.ID]...)
		sort.Strings(generated)
		current := append([]string(nil), pathStrings(c.doc.Data, "highlights")...)
		sort.Strings(current)
		if equalStrings(generated, current) {
			continue
		}
		if generated == nil {
			generated = []string{}
		}
		err := a.store.Update(ctx, model.UnitModels, c.doc.ID, map[string]any{
			"highlights": generated,
		})
		if err != nil {
			a.log.WithField("model", c.doc.ID).WithError(err).Error("highlight update failed")
			continue
		}
		written++
	}
	a.log.WithFields(logrus.Fields{"city": city, "updated": written}).Info("highlights recomputed")
	return nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// RecalcDeveloper recomputes one developer's portfolio rollup from the
// developments carrying its name as builder.
func (a *Aggregator) RecalcDeveloper(ctx context.Context, developerID string) error {
	dev, err := a.store.Get(ctx, model.Developers, developerID)
	if err != nil {
		return fmt.Errorf("failed to fetch developer %s: %w", developerID, err)
	}
	if dev == nil {
		return nil
	}
	name, _ := pathString(dev, "name")
	if name == "" {
		a.log.WithField("developer", developerID).Warn("developer has no name, skipping rollup")
		return nil
	}

	devs, err := a.store.Query(ctx, model.Developments,
		repository.Filter{Path: "builderName", Op: repository.OpEq, Value: name})
	if err != nil {
		return fmt.Errorf("failed to fetch developments of %q: %w", name, err)
	}

	ids := make([]string, 0, len(devs))
	citySet := map[string]struct{}{}
	cities := []string{}
	var totalOffered, totalAvailable float64
	for _, d := range devs {
		ids = append(ids, d.ID)
		if city, ok := pathString(d.Data, "location.city"); ok {
			city = strings.TrimSpace(city)
			if _, seen := citySet[city]; city != "" && !seen {
				citySet[city] = struct{}{}
				cities = append(cities, city)
			}
		}
		if total, ok := pathNumber(d.Data, "commercial.unitsTotal"); ok {
			totalOffered += total
		}
		if avail, ok := pathNumber(d.Data, "commercial.unitsAvailable"); ok {
			totalAvailable += avail
		} else if inv, ok := pathNumber(d.Data, "commercial.inventory"); ok {
			// Legacy documents carried the available count under inventory.
			totalAvailable += inv
		}
	}

	fields := map[string]any{
		"developments":        ids,
		"cities":              cities,
		"totalUnitsOffered":   totalOffered,
		"totalUnitsAvailable": totalAvailable,
		"updatedAt":           a.now().UTC(),
	}
	if err := a.store.Update(ctx, model.Developers, developerID, fields); err != nil {
		return fmt.Errorf("failed to update developer %s: %w", developerID, err)
	}
	a.log.WithFields(logrus.Fields{
		"developer":    name,
		"developments": len(ids),
		"offered":      totalOffered,
		"available":    totalAvailable,
	}).Info("developer rollup recomputed")
	return nil
}

// RecalcAll recomputes every development, every city and every developer.
// Used by the standalone recalculation command.
func (a *Aggregator) RecalcAll(ctx context.Context) error {
	devs, err := a.store.Query(ctx, model.Developments)
	if err != nil {
		return fmt.Errorf("failed to list developments: %w", err)
	}
	citySet := map[string]struct{}{}
	for _, d := range devs {
		city, _, err := a.RecalcDevelopment(ctx, d.ID)
		if err != nil {
			a.log.WithField("development", d.ID).WithError(err).Error("stats recompute failed")
			continue
		}
		if city != "" {
			citySet[city] = struct{}{}
		}
	}
	cities := make([]string, 0, len(citySet))
	for city := range citySet {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	for _, city := range cities {
		if err := a.RecalcCityHighlights(ctx, city); err != nil {
			a.log.WithField("city", city).WithError(err).Error("highlight recompute failed")
		}
	}

	developers, err := a.store.Query(ctx, model.Developers)
	if err != nil {
		return fmt.Errorf("failed to list developers: %w", err)
	}
	for _, d := range developers {
		if err := a.RecalcDeveloper(ctx, d.ID); err != nil {
			a.log.WithField("developer", d.ID).WithError(err).Error("rollup recompute failed")
		}
	}
	return nil
}
