package itemize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/hotel-itemizer/internal/model"
)

type stubSuggester map[string]model.Category

func (s stubSuggester) Suggest(description string) model.Category {
	if cat, ok := s[description]; ok {
		return cat
	}
	return model.CategoryIncidentals
}

func TestCategorizer_SuggestCategories(t *testing.T) {
	c := NewCategorizer(stubSuggester{"Room": model.CategoryDailyRoomRate}, NewValidator(DefaultConfig()))

	inv := invoice("2024-03-01", "2024-03-02", "120.00",
		model.LineItem{Description: "Room", Amount: dec("100.00")},
		model.LineItem{Description: "Gift shop", Amount: dec("15.00")},
		model.LineItem{Description: "Tax", Amount: dec("5.00"), SuggestedCategory: model.CategoryPtr(model.CategoryHotelTax)},
	)

	out := c.SuggestCategories(inv)

	require.Len(t, out.LineItems, 3)
	assert.Equal(t, model.CategoryDailyRoomRate, *out.LineItems[0].SuggestedCategory)
	assert.Equal(t, model.CategoryIncidentals, *out.LineItems[1].SuggestedCategory)
	assert.Equal(t, model.CategoryHotelTax, *out.LineItems[2].SuggestedCategory)

	for _, li := range out.LineItems {
		assert.Nil(t, li.UserCategory, "suggestions must not assign categories")
	}
	assert.Nil(t, inv.LineItems[0].SuggestedCategory, "input must not be modified")
}

func TestCategorizer_AcceptSuggestionsKeepsReviewerChoice(t *testing.T) {
	c := NewCategorizer(stubSuggester{"Room": model.CategoryDailyRoomRate}, NewValidator(DefaultConfig()))

	inv := invoice("2024-03-01", "2024-03-02", "110.00",
		model.LineItem{Description: "Room", Amount: dec("100.00")},
		item("Minibar", "10.00", model.CategoryIgnore),
	)

	out := c.AcceptSuggestions(inv)

	assert.Equal(t, model.CategoryDailyRoomRate, *out.LineItems[0].UserCategory)
	assert.Equal(t, model.CategoryIgnore, *out.LineItems[1].UserCategory)
	assert.Nil(t, inv.LineItems[0].UserCategory)

	report := c.Validate(out)
	assert.True(t, report.Passed, report.Errors())
}

func TestCategorizer_NilSuggester(t *testing.T) {
	c := NewCategorizer(nil, NewValidator(DefaultConfig()))
	inv := invoice("2024-03-01", "2024-03-02", "100.00",
		model.LineItem{Description: "Room", Amount: dec("100.00")},
	)

	out := c.AcceptSuggestions(inv)
	assert.Nil(t, out.LineItems[0].SuggestedCategory)
	assert.Nil(t, out.LineItems[0].UserCategory)

	report := c.Validate(out)
	assert.False(t, report.Passed)
	assert.Contains(t, report.Errors(), "No category assigned for: Room")
}

func TestCategoryMapping(t *testing.T) {
	mapping := CategoryMapping()
	require.Len(t, mapping, len(model.Categories()))

	byName := make(map[model.Category]CategoryInfo, len(mapping))
	for _, info := range mapping {
		byName[info.Name] = info
	}

	tests := []struct {
		category  model.Category
		kind      string
		recurring bool
		oneTime   bool
		excluded  bool
	}{
		{model.CategoryDailyRoomRate, "recurring", true, false, false},
		{model.CategoryHotelTax, "recurring", true, false, false},
		{model.CategoryLaundry, "one-time", false, true, false},
		{model.CategoryIgnore, "excluded", false, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			info, ok := byName[tt.category]
			require.True(t, ok)
			assert.Equal(t, tt.kind, info.Kind)
			assert.Equal(t, tt.recurring, info.IsRecurring)
			assert.Equal(t, tt.oneTime, info.IsOneTime)
			assert.Equal(t, tt.excluded, info.IsExcluded)
		})
	}
}

func TestAssemble(t *testing.T) {
	inv := invoice("2024-03-01", "2024-03-04", "330.00",
		item("Room", "300.00", model.CategoryDailyRoomRate),
		item("Laundry", "30.00", model.CategoryLaundry),
	)
	cats := Consolidate(inv)
	entries, _ := CalculateEntries(inv, cats)

	result := Assemble(inv, cats, entries, true)

	assert.Equal(t, 3, result.Nights)
	assert.True(t, result.ValidationPassed)
	assert.True(t, result.TotalItemized.Equal(dec("330.00")))
	assert.True(t, result.TotalOriginal.Equal(dec("330.00")))
	require.Len(t, result.Entries, 2)

	entries[0].TotalAmount = dec("1")
	inv.LineItems[0].Description = "changed"
	assert.True(t, result.Entries[0].TotalAmount.Equal(dec("300.00")))
	assert.Equal(t, "Room", result.InvoiceDetails.LineItems[0].Description)
}
