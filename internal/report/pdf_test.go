package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/hotel-itemizer/internal/model"
)

func sampleResult() model.ItemizationResult {
	checkIn := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return model.ItemizationResult{
		InvoiceDetails: model.InvoiceDetails{
			HotelName:     "Grand Central Hotel",
			InvoiceNumber: "GC-1001",
			Location:      "New York, NY",
			Currency:      "USD",
			CheckIn:       checkIn,
			CheckOut:      checkIn.AddDate(0, 0, 3),
			TotalAmount:   decimal.RequireFromString("345.00"),
		},
		ConsolidatedCategories: []model.ConsolidatedCategory{{
			Category:    model.CategoryDailyRoomRate,
			TotalAmount: decimal.RequireFromString("300.00"),
			DailyRate:   decimal.RequireFromString("100.00"),
			Quantity:    3,
			SourceItems: []model.LineItem{{Description: "Room", Amount: decimal.RequireFromString("300.00")}},
		}},
		Entries: []model.ItemizationEntry{{
			StartDate:   checkIn,
			Subcategory: model.CategoryDailyRoomRate,
			DailyRate:   decimal.RequireFromString("100.00"),
			TotalAmount: decimal.RequireFromString("300.00"),
			Quantity:    3,
		}},
		TotalOriginal:    decimal.RequireFromString("300.00"),
		TotalItemized:    decimal.RequireFromString("300.00"),
		Nights:           3,
		ValidationPassed: true,
	}
}

func TestRenderPDF(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, RenderPDF(&buf, sampleResult()))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.True(t, bytes.Contains(buf.Bytes(), []byte("%%EOF")))
}

func TestNewDocumentContent(t *testing.T) {
	tests := []struct {
		mutate func(r *model.ItemizationResult)
		want   []string
		name   string
	}{
		{
			name: "passed",
			want: []string{"Grand Central Hotel", "GC-1001", "Daily Room Rate", "300.00", "Passed"},
		},
		{
			name:   "failed",
			mutate: func(r *model.ItemizationResult) { r.ValidationPassed = false },
			want:   []string{"Failed"},
		},
		{
			name: "euro amounts",
			mutate: func(r *model.ItemizationResult) {
				r.InvoiceDetails.Currency = "EUR"
				r.InvoiceDetails.InvoiceNumber = ""
			},
			want: []string{"EUR", "Itemized total"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sampleResult()
			if tt.mutate != nil {
				tt.mutate(&result)
			}

			pdf := newDocument(result, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
			pdf.SetCompression(false)

			var buf bytes.Buffer
			require.NoError(t, pdf.Output(&buf))
			for _, s := range tt.want {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}
