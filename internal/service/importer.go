package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalogo/internal/adapter"
	"catalogo/internal/model"
	"catalogo/internal/normalize"
	"catalogo/internal/repository"
	"catalogo/internal/schema"
)

// Kind selects which entity the rows describe.
type Kind string

const (
	KindDevelopment Kind = "development"
	KindUnitModel   Kind = "unitModel"
	KindDeveloper   Kind = "developer"
)

// ParseKind resolves a command-line kind argument.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.TrimSpace(s)) {
	case KindDevelopment, KindUnitModel, KindDeveloper:
		return Kind(strings.TrimSpace(s)), nil
	default:
		return "", fmt.Errorf("unknown entity kind %q (want development, unitModel or developer)", s)
	}
}

// Options tune one import run.
type Options struct {
	// Region scopes the deduplication preload to developers with presence
	// in one city. Empty loads the whole catalog.
	Region string
	// Fuzzy enables developer name deduplication.
	Fuzzy bool
}

// RowError is one skipped row with the reason.
type RowError struct {
	Row     int
	Message string
}

// Result summarizes an import run.
type Result struct {
	Imported int
	Failed   int
	Errors   []RowError
}

// Importer runs the sequential row loop: adapt, validate, dedupe, queue,
// commit in bounded batches, then trigger the aggregation passes over the
// entities the run touched.
type Importer struct {
	store     repository.Store
	log       *logrus.Logger
	audit     *logrus.Logger
	batchSize int
	threshold float64
	now       func() time.Time
}

// NewImporter wires an importer. batchSize and threshold of zero take the
// standard values (400 writes, 0.90 similarity).
func NewImporter(store repository.Store, log, audit *logrus.Logger, batchSize int, threshold float64) *Importer {
	if batchSize <= 0 {
		batchSize = 400
	}
	if threshold <= 0 {
		threshold = 0.90
	}
	return &Importer{
		store:     store,
		log:       log,
		audit:     audit,
		batchSize: batchSize,
		threshold: threshold,
		now:       time.Now,
	}
}

// affectedSet tracks which entities a run touched, keyed by kind, as input
// to the aggregation trigger.
type affectedSet struct {
	developments map[string]struct{}
	developers   map[string]struct{}
	builderNames map[string]struct{}
	cities       map[string]struct{}
}

func newAffectedSet() *affectedSet {
	return &affectedSet{
		developments: map[string]struct{}{},
		developers:   map[string]struct{}{},
		builderNames: map[string]struct{}{},
		cities:       map[string]struct{}{},
	}
}

// Run imports all rows of one kind and recomputes the derived statistics of
// every touched entity. Row failures are collected, not raised.
func (i *Importer) Run(ctx context.Context, kind Kind, rows []adapter.Row, opts Options) (*Result, error) {
	var deduper *Deduper
	if kind == KindDeveloper && opts.Fuzzy {
		refs, err := PreloadDeveloperRefs(ctx, i.store, opts.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to preload developers for dedup: %w", err)
		}
		deduper = NewDeduper(refs, i.threshold, i.audit)
		i.log.WithField("existing", len(refs)).Info("fuzzy deduplication enabled")
	}

	result := &Result{}
	affected := newAffectedSet()
	batch := i.store.Batch()

	for idx, row := range rows {
		var err error
		switch kind {
		case KindDevelopment:
			err = i.importDevelopment(row, batch, affected)
		case KindUnitModel:
			err = i.importUnitModel(ctx, row, batch, affected)
		case KindDeveloper:
			err = i.importDeveloper(row, batch, affected, deduper)
		default:
			return nil, fmt.Errorf("unknown entity kind %q", kind)
		}
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RowError{Row: idx, Message: err.Error()})
			i.log.WithFields(logrus.Fields{"row": idx, "kind": kind, "data": row}).
				WithError(err).Warn("row skipped")
			continue
		}
		result.Imported++

		if batch.Len() >= i.batchSize {
			if err := batch.Commit(ctx); err != nil {
				i.log.WithError(err).Error("batch commit failed")
			}
			batch = i.store.Batch()
		}
	}
	if batch.Len() > 0 {
		if err := batch.Commit(ctx); err != nil {
			i.log.WithError(err).Error("final batch commit failed")
		}
	}

	i.log.WithFields(logrus.Fields{
		"kind":     kind,
		"imported": result.Imported,
		"failed":   result.Failed,
	}).Info("import finished")

	if err := i.triggerAggregation(ctx, kind, affected); err != nil {
		return result, err
	}
	return result, nil
}

func (i *Importer) importDevelopment(row adapter.Row, batch repository.WriteBatch, affected *affectedSet) error {
	d := adapter.AdaptDevelopment(row)
	if errs := schema.ValidateDevelopment(d); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", schema.Join(errs))
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := i.now().UTC()
	d.UpdatedAt = &now

	doc, err := model.Doc(d)
	if err != nil {
		return err
	}
	batch.Set(model.Developments, d.ID, doc)

	affected.developments[d.ID] = struct{}{}
	if d.BuilderName != "" {
		affected.builderNames[d.BuilderName] = struct{}{}
	}
	if d.Location != nil && d.Location.City != nil {
		affected.cities[*d.Location.City] = struct{}{}
	}
	return nil
}

func (i *Importer) importUnitModel(ctx context.Context, row adapter.Row, batch repository.WriteBatch, affected *affectedSet) error {
	m := adapter.AdaptUnitModel(row)
	if errs := schema.ValidateUnitModel(m); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", schema.Join(errs))
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := i.applyPriceHistory(ctx, m); err != nil {
		return err
	}
	now := i.now().UTC()
	m.UpdatedAt = &now

	doc, err := model.Doc(m)
	if err != nil {
		return err
	}
	batch.Set(model.UnitModels, m.ID, doc)

	if m.DevelopmentID != "" {
		affected.developments[m.DevelopmentID] = struct{}{}
	}
	return nil
}

// applyPriceHistory reads the stored document and, when the base price
// changed, appends the superseded price to the history and recomputes the
// realized appreciation against the earliest known price.
func (i *Importer) applyPriceHistory(ctx context.Context, m *model.UnitModel) error {
	if m.Pricing == nil || m.Pricing.Base == nil || *m.Pricing.Base <= 0 {
		return nil
	}
	newBase := *m.Pricing.Base

	existing, err := i.store.Get(ctx, model.UnitModels, m.ID)
	if err != nil {
		return fmt.Errorf("failed to read stored model %s: %w", m.ID, err)
	}
	if existing == nil {
		return nil
	}
	oldBase, ok := pathNumber(existing, "pricing.base")
	if !ok || oldBase <= 0 || oldBase == newBase {
		return nil
	}

	history := decodeHistory(existing)
	history = append(history, model.PriceEntry{Timestamp: i.now().UTC(), Price: oldBase})
	m.PriceHistory = history

	// Baseline preference: recorded initial price, then the oldest history
	// entry, then the price just superseded.
	first := oldBase
	if v, ok := pathNumber(existing, "pricing.initial"); ok && v > 0 {
		first = v
	} else if len(history) > 0 {
		first = history[0].Price
	}
	if first > 0 {
		m.RealAppreciationPct = ptr(normalize.Round2((newBase - first) / first * 100))
	}
	return nil
}

func decodeHistory(doc map[string]any) []model.PriceEntry {
	v, ok := pathValue(doc, "priceHistory")
	if !ok {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]model.PriceEntry, 0, len(arr))
	for _, el := range arr {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		price, ok := m["price"].(float64)
		if !ok {
			continue
		}
		entry := model.PriceEntry{Price: price}
		if ts, ok := m["timestamp"].(string); ok {
			if t, err := time.Parse(time.RFC3339, ts); err == nil {
				entry.Timestamp = t
			}
		}
		out = append(out, entry)
	}
	return out
}

func (i *Importer) importDeveloper(row adapter.Row, batch repository.WriteBatch, affected *affectedSet, deduper *Deduper) error {
	d := adapter.AdaptDeveloper(row)
	if errs := schema.ValidateDeveloper(d); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", schema.Join(errs))
	}
	for _, warn := range schema.CheckMilestones(d) {
		i.log.WithFields(logrus.Fields{"developer": d.Name, "field": warn.Path}).
			Warn(warn.Message)
	}

	if deduper != nil && d.Name != "" {
		if ref, score, merged := deduper.Match(d.Name); merged {
			i.log.WithFields(logrus.Fields{
				"incoming": d.Name,
				"existing": ref.Name,
				"score":    score,
			}).Info("merging into existing developer")
			d.ID = ref.ID
		} else {
			deduper.Register(d.ID, d.Name)
		}
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := i.now().UTC()
	d.UpdatedAt = &now

	doc, err := model.Doc(d)
	if err != nil {
		return err
	}
	batch.Set(model.Developers, d.ID, doc)
	affected.developers[d.ID] = struct{}{}
	return nil
}

// triggerAggregation recomputes derived statistics for everything the run
// touched: development stats and city highlights for unit-model imports,
// then developer rollups regardless of kind. Model imports change the sold
// and available figures the rollup sums, so the builders of the recomputed
// developments join the resolution set too.
func (i *Importer) triggerAggregation(ctx context.Context, kind Kind, affected *affectedSet) error {
	agg := NewAggregator(i.store, i.log)

	if kind == KindUnitModel {
		cities := map[string]struct{}{}
		for city := range affected.cities {
			cities[city] = struct{}{}
		}
		for devID := range affected.developments {
			city, builder, err := agg.RecalcDevelopment(ctx, devID)
			if err != nil {
				i.log.WithField("development", devID).WithError(err).Error("stats recompute failed")
				continue
			}
			if city != "" {
				cities[city] = struct{}{}
			}
			if builder != "" {
				affected.builderNames[builder] = struct{}{}
			}
		}
		for city := range cities {
			if err := agg.RecalcCityHighlights(ctx, city); err != nil {
				i.log.WithField("city", city).WithError(err).Error("highlight recompute failed")
			}
		}
	}

	developerIDs := map[string]struct{}{}
	for id := range affected.developers {
		developerIDs[id] = struct{}{}
	}
	for name := range affected.builderNames {
		docs, err := i.store.Query(ctx, model.Developers,
			repository.Filter{Path: "name", Op: repository.OpEq, Value: name})
		if err != nil {
			i.log.WithField("builder", name).WithError(err).Error("developer lookup failed")
			continue
		}
		for _, doc := range docs {
			developerIDs[doc.ID] = struct{}{}
		}
	}
	for id := range developerIDs {
		if err := agg.RecalcDeveloper(ctx, id); err != nil {
			i.log.WithField("developer", id).WithError(err).Error("rollup recompute failed")
		}
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
