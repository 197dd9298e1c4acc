package service

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogo/internal/adapter"
	"catalogo/internal/repository"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestImporter(store repository.Store) *Importer {
	return NewImporter(store, quietLogger(), quietLogger(), 0, 0)
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"development", "unitModel", "developer"} {
		kind, err := ParseKind(s)
		require.NoError(t, err)
		assert.Equal(t, Kind(s), kind)
	}
	_, err := ParseKind("listing")
	assert.Error(t, err)
}

func TestRunImportsDevelopments(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	imp := newTestImporter(store)

	result, err := imp.Run(ctx, KindDevelopment, []adapter.Row{
		{"nombre": "Torre A", "constructora": "ACME", "ciudad": "Tijuana"},
	}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 0, result.Failed)

	doc, err := store.Get(ctx, "developments", "acme-torre-a")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Torre A", doc["name"])
	assert.Equal(t, "ACME", doc["builderName"])
	assert.Equal(t, true, doc["active"])
	assert.NotEmpty(t, doc["updatedAt"])
}

func TestRunSkipsInvalidRows(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	imp := newTestImporter(store)

	result, err := imp.Run(ctx, KindDevelopment, []adapter.Row{
		{"nombre": "Torre A", "constructora": "ACME"},
		{"descripcion": "sin nombre ni constructora"},
	}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Message, "validation failed")
}

func TestRunBatchChunking(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	imp := newTestImporter(store)

	rows := make([]adapter.Row, 0, 401)
	for i := 0; i < 401; i++ {
		rows = append(rows, adapter.Row{
			"nombre":       fmt.Sprintf("Torre %d", i),
			"constructora": "ACME",
		})
	}

	result, err := imp.Run(ctx, KindDevelopment, rows, Options{})
	require.NoError(t, err)
	assert.Equal(t, 401, result.Imported)
	// 400 writes trigger a commit; the remaining single write flushes at end.
	assert.Equal(t, []int{400, 1}, store.CommitSizes)
}

func TestRunBatchExactCeiling(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	imp := newTestImporter(store)

	rows := make([]adapter.Row, 0, 400)
	for i := 0; i < 400; i++ {
		rows = append(rows, adapter.Row{
			"nombre":       fmt.Sprintf("Torre %d", i),
			"constructora": "ACME",
		})
	}

	_, err := imp.Run(ctx, KindDevelopment, rows, Options{})
	require.NoError(t, err)
	assert.Equal(t, []int{400}, store.CommitSizes)
}

func TestRunUnitModelTriggersDevelopmentStats(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	imp := newTestImporter(store)

	_, err := imp.Run(ctx, KindDevelopment, []adapter.Row{
		{"nombre": "Torre A", "constructora": "ACME", "ciudad": "Tijuana", "unidades.totales": "50"},
	}, Options{})
	require.NoError(t, err)

	_, err = imp.Run(ctx, KindUnitModel, []adapter.Row{
		{
			"desarrollo":        "Torre A",
			"constructora":      "ACME",
			"nombreModelo":      "Modelo Sol",
			"precio_inicial":    "2000000",
			"m2_const":          "100",
			"unidades_vendidas": "10",
		},
	}, Options{})
	require.NoError(t, err)

	model, err := store.Get(ctx, "unit_models", "acme-torre-a-modelo-sol")
	require.NoError(t, err)
	require.NotNil(t, model)
	pricing := model["pricing"].(map[string]any)
	assert.Equal(t, 2000000.0, pricing["base"])
	assert.Equal(t, 20000.0, pricing["perArea"])

	dev, err := store.Get(ctx, "developments", "acme-torre-a")
	require.NoError(t, err)
	com := dev["commercial"].(map[string]any)
	assert.Equal(t, 1.0, com["modelCount"])
	assert.Equal(t, 10.0, com["unitsSold"])
	assert.Equal(t, 40.0, com["unitsAvailable"])
	assert.Equal(t, 2000000.0, dev["pricing"].(map[string]any)["from"])
	assert.Equal(t, []any{2000000.0, 2000000.0}, dev["stats"].(map[string]any)["priceRange"])
}

func TestRunUnitModelTriggersDeveloperRollup(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	store.Seed("developers", "acme", map[string]any{"name": "ACME"})
	store.Seed("developments", "acme-torre-a", map[string]any{
		"name":        "Torre A",
		"builderName": "ACME",
		"active":      true,
		"location":    map[string]any{"city": "Tijuana"},
		"commercial":  map[string]any{"unitsTotal": 50.0},
	})
	imp := newTestImporter(store)

	_, err := imp.Run(ctx, KindUnitModel, []adapter.Row{
		{
			"desarrollo":        "Torre A",
			"constructora":      "ACME",
			"nombreModelo":      "Modelo Sol",
			"precio_inicial":    "2000000",
			"unidades_vendidas": "10",
		},
	}, Options{})
	require.NoError(t, err)

	// The model import changed the figures the rollup sums, so the builder's
	// developer document must be recomputed too.
	doc, err := store.Get(ctx, "developers", "acme")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, []any{"acme-torre-a"}, doc["developments"])
	assert.Equal(t, []any{"Tijuana"}, doc["cities"])
	assert.Equal(t, 50.0, doc["totalUnitsOffered"])
	assert.Equal(t, 40.0, doc["totalUnitsAvailable"])
}

func TestRunAppendsPriceHistory(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	imp := newTestImporter(store)

	row := adapter.Row{
		"desarrollo":     "Torre A",
		"constructora":   "ACME",
		"nombreModelo":   "Modelo Sol",
		"precio_inicial": "2000000",
		"m2_const":       "100",
	}
	_, err := imp.Run(ctx, KindUnitModel, []adapter.Row{row}, Options{})
	require.NoError(t, err)

	// Same model again with a higher price.
	row["precio_inicial"] = "2200000"
	_, err = imp.Run(ctx, KindUnitModel, []adapter.Row{row}, Options{})
	require.NoError(t, err)

	doc, err := store.Get(ctx, "unit_models", "acme-torre-a-modelo-sol")
	require.NoError(t, err)

	history := doc["priceHistory"].([]any)
	require.Len(t, history, 1)
	entry := history[0].(map[string]any)
	assert.Equal(t, 2000000.0, entry["price"])
	assert.NotEmpty(t, entry["timestamp"])

	assert.Equal(t, 10.0, doc["realAppreciationPct"])
	assert.Equal(t, 2200000.0, doc["pricing"].(map[string]any)["base"])
}

func TestRunPriceHistoryUnchangedPrice(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	imp := newTestImporter(store)

	row := adapter.Row{
		"desarrollo":     "Torre A",
		"constructora":   "ACME",
		"nombreModelo":   "Modelo Sol",
		"precio_inicial": "2000000",
	}
	for i := 0; i < 2; i++ {
		_, err := imp.Run(ctx, KindUnitModel, []adapter.Row{row}, Options{})
		require.NoError(t, err)
	}

	doc, err := store.Get(ctx, "unit_models", "acme-torre-a-modelo-sol")
	require.NoError(t, err)
	assert.Nil(t, doc["priceHistory"])
	assert.Nil(t, doc["realAppreciationPct"])
}

func TestRunPriceHistorySkipsZeroStoredPrice(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	store.Seed("unit_models", "acme-torre-a-modelo-sol", map[string]any{
		"developmentId": "acme-torre-a",
		"modelName":     "Modelo Sol",
		"pricing":       map[string]any{"base": 0.0},
	})
	imp := newTestImporter(store)

	_, err := imp.Run(ctx, KindUnitModel, []adapter.Row{
		{
			"desarrollo":     "Torre A",
			"constructora":   "ACME",
			"nombreModelo":   "Modelo Sol",
			"precio_inicial": "2000000",
		},
	}, Options{})
	require.NoError(t, err)

	// A zero stored price is not a real prior price: no history entry and no
	// realized appreciation.
	doc, err := store.Get(ctx, "unit_models", "acme-torre-a-modelo-sol")
	require.NoError(t, err)
	assert.Nil(t, doc["priceHistory"])
	assert.Nil(t, doc["realAppreciationPct"])
	assert.Equal(t, 2000000.0, doc["pricing"].(map[string]any)["base"])
}

func TestRunDeveloperFuzzyMerge(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	store.Seed("developers", "constructora-del-valle", map[string]any{
		"name":   "Constructora del Valle",
		"status": "active",
	})
	imp := newTestImporter(store)

	result, err := imp.Run(ctx, KindDeveloper, []adapter.Row{
		{"Nombre": "Constructora del Valles", "ComisionBase": "3.5"},
	}, Options{Fuzzy: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	// The respelled name merged into the existing document instead of
	// creating constructora-del-valles.
	ghost, err := store.Get(ctx, "developers", "constructora-del-valles")
	require.NoError(t, err)
	assert.Nil(t, ghost)

	doc, err := store.Get(ctx, "developers", "constructora-del-valle")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, 3.5, doc["commission"].(map[string]any)["basePct"])
}

func TestRunDeveloperWithoutFuzzyCreatesNew(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	store.Seed("developers", "constructora-del-valle", map[string]any{
		"name": "Constructora del Valle",
	})
	imp := newTestImporter(store)

	_, err := imp.Run(ctx, KindDeveloper, []adapter.Row{
		{"Nombre": "Constructora del Valles"},
	}, Options{Fuzzy: false})
	require.NoError(t, err)

	doc, err := store.Get(ctx, "developers", "constructora-del-valles")
	require.NoError(t, err)
	assert.NotNil(t, doc)
}

func TestRunDeveloperTriggersRollup(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	store.Seed("developments", "acme-torre-a", map[string]any{
		"builderName": "ACME",
		"location":    map[string]any{"city": "Tijuana"},
		"commercial":  map[string]any{"unitsTotal": 50.0, "unitsAvailable": 20.0},
	})
	imp := newTestImporter(store)

	_, err := imp.Run(ctx, KindDeveloper, []adapter.Row{
		{"Nombre": "ACME"},
	}, Options{})
	require.NoError(t, err)

	doc, err := store.Get(ctx, "developers", "acme")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, []any{"acme-torre-a"}, doc["developments"])
	assert.Equal(t, []any{"Tijuana"}, doc["cities"])
	assert.Equal(t, 50.0, doc["totalUnitsOffered"])
	assert.Equal(t, 20.0, doc["totalUnitsAvailable"])
}

func TestEndToEndScenario(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	imp := newTestImporter(store)

	// One development, no explicit id.
	_, err := imp.Run(ctx, KindDevelopment, []adapter.Row{
		{"nombre": "Torre A", "constructora": "ACME"},
	}, Options{})
	require.NoError(t, err)
	dev, err := store.Get(ctx, "developments", "acme-torre-a")
	require.NoError(t, err)
	require.NotNil(t, dev)

	// A model priced at 2,000,000 over 100 m².
	modelRow := adapter.Row{
		"desarrollo":     "Torre A",
		"constructora":   "ACME",
		"nombreModelo":   "Modelo Sol",
		"precio_inicial": "2000000",
		"m2_const":       "100",
	}
	_, err = imp.Run(ctx, KindUnitModel, []adapter.Row{modelRow}, Options{})
	require.NoError(t, err)
	doc, err := store.Get(ctx, "unit_models", "acme-torre-a-modelo-sol")
	require.NoError(t, err)
	assert.Equal(t, 20000.0, doc["pricing"].(map[string]any)["perArea"])

	// Re-import at 2,200,000: history records the old price and the realized
	// appreciation lands at 10%.
	modelRow["precio_inicial"] = "2200000"
	_, err = imp.Run(ctx, KindUnitModel, []adapter.Row{modelRow}, Options{})
	require.NoError(t, err)
	doc, err = store.Get(ctx, "unit_models", "acme-torre-a-modelo-sol")
	require.NoError(t, err)

	history := doc["priceHistory"].([]any)
	require.Len(t, history, 1)
	assert.Equal(t, 2000000.0, history[0].(map[string]any)["price"])
	assert.Equal(t, 10.0, doc["realAppreciationPct"])
}
