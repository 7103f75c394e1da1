package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

type Unit string

const (
	UnitGram  Unit = "g"
	UnitPiece Unit = "piece"
)

func NormalizeUnit(raw string) Unit {
	if strings.EqualFold(strings.TrimSpace(raw), string(UnitPiece)) {
		return UnitPiece
	}
	return UnitGram
}

type IngredientType string

const (
	IngredientBase       IngredientType = "BASE"
	IngredientFlavor     IngredientType = "FLAVOR"
	IngredientTopping    IngredientType = "TOPPING"
	IngredientDecoration IngredientType = "DECORATION"
	IngredientMaterial   IngredientType = "MATERIAL"
)

func NormalizeIngredientType(raw string) IngredientType {
	switch t := IngredientType(strings.ToUpper(strings.TrimSpace(raw))); t {
	case IngredientBase, IngredientFlavor, IngredientTopping, IngredientDecoration, IngredientMaterial:
		return t
	default:
		return IngredientBase
	}
}

type HistoryType string

const (
	HistoryImport     HistoryType = "IMPORT"
	HistoryExport     HistoryType = "EXPORT"
	HistoryAdjustment HistoryType = "ADJUSTMENT"
)

func NormalizeHistoryType(raw string) HistoryType {
	switch t := HistoryType(strings.ToUpper(strings.TrimSpace(raw))); t {
	case HistoryImport, HistoryExport, HistoryAdjustment:
		return t
	default:
		return HistoryImport
	}
}

type IngredientHistoryEntry struct {
	ID             string      `json:"id"`
	Type           HistoryType `json:"type"`
	FromQuantity   float64     `json:"from_quantity"`
	ImportQuantity float64     `json:"import_quantity"`
	Unit           Unit        `json:"unit"`
	Note           string      `json:"note,omitempty"`
	Price          float64     `json:"price,omitempty"`
	SupplierID     string      `json:"supplier_id,omitempty"`
	SupplierName   string      `json:"supplier_name,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

// Delta is the signed stock movement of the entry. Adjustments carry their
// sign in ImportQuantity.
func (e IngredientHistoryEntry) Delta() float64 {
	if e.Type == HistoryExport {
		return -e.ImportQuantity
	}
	return e.ImportQuantity
}

type Ingredient struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	Type            IngredientType           `json:"type"`
	InitialQuantity float64                  `json:"initial_quantity"`
	Unit            Unit                     `json:"unit"`
	History         []IngredientHistoryEntry `json:"history"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

func (i Ingredient) CurrentQuantity() float64 {
	q := i.InitialQuantity
	for _, h := range i.History {
		q += h.Delta()
	}
	return q
}

// RawHistoryEntry is a history element as stored, including the field
// names used by records written before importQuantity existed.
type RawHistoryEntry struct {
	ID             string   `dynamodbav:"ID"`
	Type           string   `dynamodbav:"Type"`
	FromQuantity   *float64 `dynamodbav:"FromQuantity"`
	ImportQuantity *float64 `dynamodbav:"ImportQuantity"`
	ToQuantity     *float64 `dynamodbav:"ToQuantity"`
	Quantity       *float64 `dynamodbav:"Quantity"`
	Unit           string   `dynamodbav:"Unit"`
	Note           string   `dynamodbav:"Note"`
	Price          *float64 `dynamodbav:"Price"`
	SupplierID     string   `dynamodbav:"SupplierID"`
	SupplierName   string   `dynamodbav:"SupplierName"`
	CreatedAt      string   `dynamodbav:"CreatedAt"`
}

func firstOf(values ...*float64) float64 {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}

// NormalizeHistoryEntry converts a stored element into an entry. now is used
// when the element has no parseable timestamp.
func NormalizeHistoryEntry(ingredientID string, raw RawHistoryEntry, now time.Time) IngredientHistoryEntry {
	createdAt, err := time.Parse(time.RFC3339, raw.CreatedAt)
	hasTime := err == nil
	if !hasTime {
		createdAt = now
	}
	id := raw.ID
	if id == "" {
		id = ingredientID
		if hasTime {
			id += fmt.Sprintf("%d", createdAt.Unix())
		}
	}
	return IngredientHistoryEntry{
		ID:             id,
		Type:           NormalizeHistoryType(raw.Type),
		FromQuantity:   firstOf(raw.FromQuantity),
		ImportQuantity: firstOf(raw.ImportQuantity, raw.ToQuantity, raw.Quantity),
		Unit:           NormalizeUnit(raw.Unit),
		Note:           raw.Note,
		Price:          firstOf(raw.Price),
		SupplierID:     raw.SupplierID,
		SupplierName:   raw.SupplierName,
		CreatedAt:      createdAt,
	}
}

type HistoryFilter struct {
	From time.Time
	To   time.Time
	Type HistoryType
}

func (f HistoryFilter) Match(e IngredientHistoryEntry) bool {
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if !f.From.IsZero() && e.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !e.CreatedAt.Before(f.To) {
		return false
	}
	return true
}

type ConsumptionEntry struct {
	IngredientID   string         `json:"ingredient_id"`
	IngredientName string         `json:"ingredient_name"`
	IngredientType IngredientType `json:"ingredient_type"`
	IngredientHistoryEntry
}

type IngredientBalance struct {
	IngredientID string  `json:"ingredient_id"`
	Name         string  `json:"name"`
	Unit         Unit    `json:"unit"`
	Initial      float64 `json:"initial"`
	Imported     float64 `json:"imported"`
	Exported     float64 `json:"exported"`
	Adjusted     float64 `json:"adjusted"`
	Current      float64 `json:"current"`
}

type ConsumptionReport struct {
	Entries  []ConsumptionEntry  `json:"entries"`
	Balances []IngredientBalance `json:"balances"`
}

// BuildConsumptionReport flattens the history embedded in every ingredient
// into one stream ordered by time (newest first). Imported/Exported/Adjusted
// only count entries inside the filter; Current always covers the full
// history.
func BuildConsumptionReport(ingredients []Ingredient, filter HistoryFilter) ConsumptionReport {
	report := ConsumptionReport{
		Entries:  []ConsumptionEntry{},
		Balances: make([]IngredientBalance, 0, len(ingredients)),
	}
	for _, ing := range ingredients {
		balance := IngredientBalance{
			IngredientID: ing.ID,
			Name:         ing.Name,
			Unit:         ing.Unit,
			Initial:      ing.InitialQuantity,
			Current:      ing.CurrentQuantity(),
		}
		for _, h := range ing.History {
			if !filter.Match(h) {
				continue
			}
			switch h.Type {
			case HistoryImport:
				balance.Imported += h.ImportQuantity
			case HistoryExport:
				balance.Exported += h.ImportQuantity
			case HistoryAdjustment:
				balance.Adjusted += h.ImportQuantity
			}
			report.Entries = append(report.Entries, ConsumptionEntry{
				IngredientID:           ing.ID,
				IngredientName:         ing.Name,
				IngredientType:         ing.Type,
				IngredientHistoryEntry: h,
			})
		}
		report.Balances = append(report.Balances, balance)
	}
	slices.SortStableFunc(report.Entries, func(a, b ConsumptionEntry) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	slices.SortStableFunc(report.Balances, func(a, b IngredientBalance) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return report
}
