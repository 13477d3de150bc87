package sheets

import (
	"github.com/Veraticus/hotel-itemizer/internal/model"
)

// Tab titles.
const (
	ItemizationTab = "Itemization"
	CategoriesTab  = "Categories"
)

// EntryRow is one line of the entries section.
type EntryRow struct {
	StartDate   string
	Subcategory string
	DailyRate   string
	TotalAmount string
	Quantity    int
}

// CategoryRow is one line of the consolidated categories section.
type CategoryRow struct {
	Category    string
	Kind        string
	DailyRate   string
	TotalAmount string
	Quantity    int
	SourceItems int
}

// CategoryLookupRow is one line of the taxonomy reference tab.
type CategoryLookupRow struct {
	CategoryName string
	Kind         string
}

func entryRows(entries []model.ItemizationEntry) []EntryRow {
	rows := make([]EntryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, EntryRow{
			StartDate:   e.StartDate.Format("2006-01-02"),
			Subcategory: e.Subcategory.String(),
			DailyRate:   e.DailyRate.StringFixed(2),
			TotalAmount: e.TotalAmount.StringFixed(2),
			Quantity:    e.Quantity,
		})
	}
	return rows
}

func categoryRows(cats []model.ConsolidatedCategory) []CategoryRow {
	rows := make([]CategoryRow, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, CategoryRow{
			Category:    c.Category.String(),
			Kind:        c.Category.Kind().String(),
			DailyRate:   c.DailyRate.StringFixed(2),
			TotalAmount: c.TotalAmount.StringFixed(2),
			Quantity:    c.Quantity,
			SourceItems: len(c.SourceItems),
		})
	}
	return rows
}

func categoryLookup() []CategoryLookupRow {
	cats := model.Categories()
	rows := make([]CategoryLookupRow, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, CategoryLookupRow{CategoryName: c.String(), Kind: c.Kind().String()})
	}
	return rows
}
