package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func TestNormalizeHistoryEntry_LegacyFields(t *testing.T) {
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	created := time.Date(2025, 12, 1, 8, 0, 0, 0, time.UTC)

	got := NormalizeHistoryEntry("ing-1", RawHistoryEntry{
		Type:       "export",
		ToQuantity: f64(40),
		Quantity:   f64(99),
		Unit:       "PIECE",
		CreatedAt:  created.Format(time.RFC3339),
	}, now)

	assert.Equal(t, HistoryExport, got.Type)
	assert.Equal(t, 40.0, got.ImportQuantity)
	assert.Equal(t, UnitPiece, got.Unit)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, "ing-1"+"1764576000", got.ID)
}

func TestNormalizeHistoryEntry_Defaults(t *testing.T) {
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	got := NormalizeHistoryEntry("ing-1", RawHistoryEntry{ID: "h1", Type: "weird"}, now)

	assert.Equal(t, "h1", got.ID)
	assert.Equal(t, HistoryImport, got.Type)
	assert.Equal(t, UnitGram, got.Unit)
	assert.Equal(t, now, got.CreatedAt)
	assert.Zero(t, got.ImportQuantity)
}

func TestNormalizeIngredientType(t *testing.T) {
	assert.Equal(t, IngredientTopping, NormalizeIngredientType("topping"))
	assert.Equal(t, IngredientBase, NormalizeIngredientType(""))
	assert.Equal(t, IngredientBase, NormalizeIngredientType("sauce"))
}

func TestBuildConsumptionReport(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 9, 0, 0, 0, time.UTC) }
	flour := Ingredient{
		ID: "flour", Name: "Flour", Unit: UnitGram, InitialQuantity: 1000,
		History: []IngredientHistoryEntry{
			{ID: "f1", Type: HistoryImport, ImportQuantity: 500, CreatedAt: day(1)},
			{ID: "f2", Type: HistoryExport, ImportQuantity: 300, CreatedAt: day(5)},
			{ID: "f3", Type: HistoryAdjustment, ImportQuantity: -50, CreatedAt: day(10)},
		},
	}
	box := Ingredient{
		ID: "box", Name: "Box", Unit: UnitPiece, Type: IngredientMaterial,
		History: []IngredientHistoryEntry{
			{ID: "b1", Type: HistoryImport, ImportQuantity: 20, CreatedAt: day(3)},
		},
	}

	report := BuildConsumptionReport([]Ingredient{flour, box}, HistoryFilter{From: day(2), To: day(10)})

	require.Len(t, report.Entries, 2)
	assert.Equal(t, "f2", report.Entries[0].ID)
	assert.Equal(t, "Flour", report.Entries[0].IngredientName)
	assert.Equal(t, "b1", report.Entries[1].ID)

	require.Len(t, report.Balances, 2)
	assert.Equal(t, "Box", report.Balances[0].Name)
	assert.Equal(t, 20.0, report.Balances[0].Imported)
	assert.Equal(t, 20.0, report.Balances[0].Current)

	assert.Equal(t, "Flour", report.Balances[1].Name)
	assert.Equal(t, 0.0, report.Balances[1].Imported)
	assert.Equal(t, 300.0, report.Balances[1].Exported)
	assert.Equal(t, 1150.0, report.Balances[1].Current)
}

func TestBuildConsumptionReport_TypeFilter(t *testing.T) {
	ing := Ingredient{ID: "sugar", Name: "Sugar", History: []IngredientHistoryEntry{
		{ID: "s1", Type: HistoryImport, ImportQuantity: 10},
		{ID: "s2", Type: HistoryExport, ImportQuantity: 4},
	}}

	report := BuildConsumptionReport([]Ingredient{ing}, HistoryFilter{Type: HistoryExport})

	require.Len(t, report.Entries, 1)
	assert.Equal(t, "s2", report.Entries[0].ID)
	assert.Equal(t, 6.0, report.Balances[0].Current)
}
