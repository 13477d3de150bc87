package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/hotel-itemizer/internal/model"
)

func reviewInvoice() model.InvoiceDetails {
	return model.InvoiceDetails{
		HotelName:   "Seaside Resort",
		Currency:    "USD",
		CheckIn:     time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:    time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.RequireFromString("260.00"),
		LineItems: []model.LineItem{
			{
				Description:       "Room Charge",
				Amount:            decimal.RequireFromString("200.00"),
				SuggestedCategory: model.CategoryPtr(model.CategoryDailyRoomRate),
			},
			{
				Description:       "Minibar",
				Amount:            decimal.RequireFromString("25.00"),
				SuggestedCategory: model.CategoryPtr(model.CategoryIncidentals),
			},
			{
				Description:  "State Tax",
				Amount:       decimal.RequireFromString("30.00"),
				UserCategory: model.CategoryPtr(model.CategoryHotelTax),
			},
			{
				Description: "Parking",
				Amount:      decimal.RequireFromString("5.00"),
			},
		},
	}
}

func TestReviewer_Review(t *testing.T) {
	// accept, pick Room Service & Meals (7), keep, skip
	input := strings.NewReader("a\n7\nk\ns\n")
	var out bytes.Buffer
	reviewer := NewReviewer(input, &out)

	inv := reviewInvoice()
	reviewed, err := reviewer.Review(context.Background(), inv)
	require.NoError(t, err)

	require.NotNil(t, reviewed.LineItems[0].UserCategory)
	assert.Equal(t, model.CategoryDailyRoomRate, *reviewed.LineItems[0].UserCategory)
	require.NotNil(t, reviewed.LineItems[1].UserCategory)
	assert.Equal(t, model.CategoryRoomServiceMeals, *reviewed.LineItems[1].UserCategory)
	assert.Equal(t, model.CategoryHotelTax, *reviewed.LineItems[2].UserCategory)
	assert.Nil(t, reviewed.LineItems[3].UserCategory)

	// The input invoice is untouched.
	assert.Nil(t, inv.LineItems[0].UserCategory)

	stats := reviewer.Stats()
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Accepted)
	assert.Equal(t, 1, stats.Changed)
	assert.Equal(t, 1, stats.Kept)
	assert.Equal(t, 1, stats.Skipped)

	output := out.String()
	assert.Contains(t, output, "Room Charge")
	assert.Contains(t, output, "$200.00")
	assert.Contains(t, output, "Line item 4 of 4")

	reviewer.ShowCompletion()
	assert.Contains(t, out.String(), "Review Complete")
}

func TestReviewer_InvalidChoiceRetries(t *testing.T) {
	inv := reviewInvoice()
	inv.LineItems = inv.LineItems[3:] // no suggestion, no assignment

	// "a" and "k" are not offered for this item; "9" is out of range.
	input := strings.NewReader("a\nk\n9\n2\n")
	var out bytes.Buffer
	reviewer := NewReviewer(input, &out)

	reviewed, err := reviewer.Review(context.Background(), inv)
	require.NoError(t, err)
	require.NotNil(t, reviewed.LineItems[0].UserCategory)
	assert.Equal(t, model.CategoryHotelDeposit, *reviewed.LineItems[0].UserCategory)
	assert.Equal(t, 3, strings.Count(out.String(), "Invalid choice"))
}

func TestReviewer_InputTerminated(t *testing.T) {
	reviewer := NewReviewer(strings.NewReader("a\n"), io.Discard)

	_, err := reviewer.Review(context.Background(), reviewInvoice())
	assert.ErrorIs(t, err, ErrInputTerminated)
}

func TestReviewer_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reviewer := NewReviewer(strings.NewReader("a\n"), io.Discard)
	inv := reviewInvoice()
	reviewed, err := reviewer.Review(ctx, inv)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, reviewed.LineItems[0].UserCategory)
}

func TestValidChoices(t *testing.T) {
	inv := reviewInvoice()
	n := len(model.Categories())

	tests := []struct {
		name string
		item model.LineItem
		want []string
	}{
		{name: "suggested", item: inv.LineItems[0], want: []string{"a", "s"}},
		{name: "assigned", item: inv.LineItems[2], want: []string{"k", "s"}},
		{name: "bare", item: inv.LineItems[3], want: []string{"s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validChoices(tt.item)
			require.Len(t, got, n+len(tt.want))
			assert.Equal(t, "1", got[0])
			assert.Equal(t, tt.want, got[n:])
		})
	}
}

func TestRemember(t *testing.T) {
	r := &Reviewer{}
	for _, c := range []model.Category{
		model.CategoryLaundry,
		model.CategoryHotelTax,
		model.CategoryLaundry,
		model.CategoryIncidentals,
		model.CategoryHotelTelephone,
	} {
		r.remember(c)
	}
	assert.Equal(t, []model.Category{
		model.CategoryHotelTelephone,
		model.CategoryIncidentals,
		model.CategoryLaundry,
	}, r.recent)
}

func TestBatchProgress(t *testing.T) {
	progress := NewBatchProgress(io.Discard, 3)

	done := make(chan struct{})
	for _, ok := range []bool{true, false, true} {
		go func(ok bool) {
			progress.Done(ok)
			done <- struct{}{}
		}(ok)
	}
	for range 3 {
		<-done
	}

	passed, failed := progress.Finish()
	assert.Equal(t, 2, passed)
	assert.Equal(t, 1, failed)
}

func TestFormatCheckpoint(t *testing.T) {
	assert.Contains(t, FormatCheckpoint("entries", true, nil), "entries")

	failed := FormatCheckpoint("categorization", false, []string{"No category assigned for: Parking"})
	assert.Contains(t, failed, "categorization")
	assert.Contains(t, failed, "No category assigned for: Parking")
}

func TestRenderTable(t *testing.T) {
	table := RenderTable(
		[]string{"Subcategory", "Total"},
		[][]string{{"Daily Room Rate", "200.00"}, {"Hotel Tax", "30.00"}},
	)

	lines := strings.Split(table, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Subcategory")
	assert.Contains(t, lines[1], "Daily Room Rate")
	assert.Contains(t, lines[2], "30.00")
}
