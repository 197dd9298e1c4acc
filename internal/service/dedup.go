// Package service contains the import pipeline: the row loop with its
// bounded batch writer, fuzzy developer deduplication, and the post-import
// aggregation passes.
package service

import (
	"context"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sirupsen/logrus"

	"catalogo/internal/model"
	"catalogo/internal/normalize"
	"catalogo/internal/repository"
)

// DeveloperRef is the (id, name) pair preloaded for fuzzy matching.
type DeveloperRef struct {
	ID   string
	Name string
}

// Deduper fuzzy-matches incoming developer names against the existing
// catalog so that respellings merge into the existing document instead of
// creating a duplicate.
type Deduper struct {
	refs      []DeveloperRef
	threshold float64
	audit     *logrus.Logger
}

// NewDeduper builds a deduper over a preloaded reference list. Matches above
// threshold merge; audit, when non-nil, receives one record per merge.
func NewDeduper(refs []DeveloperRef, threshold float64, audit *logrus.Logger) *Deduper {
	return &Deduper{refs: refs, threshold: threshold, audit: audit}
}

// PreloadDeveloperRefs loads the (id, name) pairs of stored developers,
// optionally scoped to developers with presence in the given region.
func PreloadDeveloperRefs(ctx context.Context, store repository.Store, region string) ([]DeveloperRef, error) {
	var filters []repository.Filter
	if region != "" {
		filters = append(filters, repository.Filter{
			Path: "cities", Op: repository.OpArrayContains, Value: region,
		})
	}
	docs, err := store.Query(ctx, model.Developers, filters...)
	if err != nil {
		return nil, err
	}
	refs := make([]DeveloperRef, 0, len(docs))
	for _, doc := range docs {
		name, _ := doc.Data["name"].(string)
		if name == "" {
			continue
		}
		refs = append(refs, DeveloperRef{ID: doc.ID, Name: name})
	}
	return refs, nil
}

// Similarity scores two names on a 0..1 scale from their edit distance,
// after case folding and diacritic stripping. Identical strings score 1.
func Similarity(a, b string) float64 {
	a = foldName(a)
	b = foldName(b)
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	if a == b {
		return 1
	}
	d := fuzzy.LevenshteinDistance(a, b)
	return 1 - float64(d)/float64(longest)
}

func foldName(s string) string {
	return strings.ToLower(normalize.RemoveDiacritics(strings.TrimSpace(s)))
}

// shouldMerge is strict: a score exactly at the threshold does not merge.
func (d *Deduper) shouldMerge(score float64) bool {
	return score > d.threshold
}

// Match returns the best existing candidate for name and whether the
// incoming record should merge into it. Merges are appended to the audit log.
func (d *Deduper) Match(name string) (DeveloperRef, float64, bool) {
	var best DeveloperRef
	bestScore := -1.0
	for _, ref := range d.refs {
		if score := Similarity(name, ref.Name); score > bestScore {
			best, bestScore = ref, score
		}
	}
	if bestScore < 0 || !d.shouldMerge(bestScore) {
		return DeveloperRef{}, bestScore, false
	}
	if d.audit != nil {
		d.audit.WithFields(logrus.Fields{
			"incoming": name,
			"existing": best.Name,
			"score":    bestScore,
			"action":   "MERGED",
		}).Info("duplicate developer merged")
	}
	return best, bestScore, true
}

// Register makes an id/name pair visible to later rows in the same run.
func (d *Deduper) Register(id, name string) {
	if name == "" {
		return
	}
	d.refs = append(d.refs, DeveloperRef{ID: id, Name: name})
}
