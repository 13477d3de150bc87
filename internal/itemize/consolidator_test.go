package itemize

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/hotel-itemizer/internal/model"
)

func TestConsolidate_GroupsAndDerivesRates(t *testing.T) {
	inv := invoice("2024-03-01", "2024-03-04", "472.50",
		item("Room night 1", "100.00", model.CategoryDailyRoomRate),
		item("Room night 2", "100.00", model.CategoryDailyRoomRate),
		item("Room night 3", "100.00", model.CategoryDailyRoomRate),
		item("City tax", "30.00", model.CategoryHotelTax),
		item("Breakfast", "22.50", model.CategoryRoomServiceMeals),
		item("Dinner", "40.00", model.CategoryRoomServiceMeals),
		item("Deposit", "80.00", model.CategoryHotelDeposit),
	)

	cats := Consolidate(inv)
	require.Len(t, cats, 4)

	assert.Equal(t, model.CategoryDailyRoomRate, cats[0].Category)
	assert.Equal(t, "300.00", cats[0].TotalAmount.StringFixed(2))
	assert.Equal(t, "100.00", cats[0].DailyRate.StringFixed(2))
	assert.Equal(t, 3, cats[0].Quantity)
	assert.Len(t, cats[0].SourceItems, 3)

	assert.Equal(t, model.CategoryHotelDeposit, cats[1].Category)
	assert.Equal(t, 1, cats[1].Quantity)
	assert.True(t, cats[1].DailyRate.Equal(cats[1].TotalAmount))

	assert.Equal(t, model.CategoryHotelTax, cats[2].Category)
	assert.Equal(t, "10.00", cats[2].DailyRate.StringFixed(2))
	assert.Equal(t, 3, cats[2].Quantity)

	assert.Equal(t, model.CategoryRoomServiceMeals, cats[3].Category)
	assert.Equal(t, "62.50", cats[3].TotalAmount.StringFixed(2))
	assert.Equal(t, 1, cats[3].Quantity)
}

func TestConsolidate_SkipsIgnoredAndUnassigned(t *testing.T) {
	inv := invoice("2024-03-01", "2024-03-02", "100.00",
		item("Room", "85.00", model.CategoryDailyRoomRate),
		item("Minibar", "15.00", model.CategoryIgnore),
		model.LineItem{Description: "Mystery", Amount: dec("3.00")},
	)

	cats := Consolidate(inv)
	require.Len(t, cats, 1)
	assert.Equal(t, model.CategoryDailyRoomRate, cats[0].Category)
	for _, c := range cats {
		assert.NotEqual(t, model.CategoryIgnore, c.Category)
	}
}

func TestConsolidate_OrderIndependentAndIdempotent(t *testing.T) {
	items := []model.LineItem{
		item("Room", "150.00", model.CategoryDailyRoomRate),
		item("Room", "150.00", model.CategoryDailyRoomRate),
		item("Tax", "31.00", model.CategoryHotelTax),
		item("Phone", "4.20", model.CategoryHotelTelephone),
		item("Laundry", "12.00", model.CategoryLaundry),
		item("Parking", "25.00", model.CategoryIncidentals),
	}
	inv := invoice("2024-06-01", "2024-06-04", "372.20", items...)
	want := Consolidate(inv)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := model.CloneLineItems(items)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := Consolidate(invoice("2024-06-01", "2024-06-04", "372.20", shuffled...))

		require.Len(t, got, len(want))
		for j := range want {
			assert.Equal(t, want[j].Category, got[j].Category)
			assert.True(t, want[j].TotalAmount.Equal(got[j].TotalAmount))
			assert.True(t, want[j].DailyRate.Equal(got[j].DailyRate))
			assert.Equal(t, want[j].Quantity, got[j].Quantity)
		}
	}
}

func TestConsolidate_EmitsCredits(t *testing.T) {
	inv := invoice("2024-03-01", "2024-03-02", "90.00",
		item("Room", "100.00", model.CategoryDailyRoomRate),
		item("Goodwill credit", "-10.00", model.CategoryIncidentals),
	)

	cats := Consolidate(inv)
	require.Len(t, cats, 2)
	assert.Equal(t, "-10.00", cats[1].TotalAmount.StringFixed(2))

	report := NewValidator(DefaultConfig()).ValidateConsolidation(cats, inv.ItemizableTotal(), inv.Currency)
	assert.False(t, report.Passed)
	assert.True(t, report.Has(ErrInvalidAmount))
	assert.Contains(t, report.Errors(), "Category 'Incidentals' has invalid total: -$10.00")
}

func TestConsolidate_DoesNotMutateInput(t *testing.T) {
	inv := invoice("2024-03-01", "2024-03-02", "100.00",
		item("Room", "100.00", model.CategoryDailyRoomRate),
	)

	cats := Consolidate(inv)
	*cats[0].SourceItems[0].UserCategory = model.CategoryIgnore
	assert.Equal(t, model.CategoryDailyRoomRate, *inv.LineItems[0].UserCategory)
}
