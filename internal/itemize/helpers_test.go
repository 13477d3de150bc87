package itemize

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/hotel-itemizer/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func item(desc, amount string, cat model.Category) model.LineItem {
	return model.LineItem{
		Description:  desc,
		Amount:       dec(amount),
		UserCategory: model.CategoryPtr(cat),
	}
}

func invoice(checkIn, checkOut, total string, items ...model.LineItem) model.InvoiceDetails {
	return model.InvoiceDetails{
		HotelName:   "Grand Hotel",
		CheckIn:     day(checkIn),
		CheckOut:    day(checkOut),
		TotalAmount: dec(total),
		Currency:    "USD",
		LineItems:   items,
	}
}

func sumEntries(entries []model.ItemizationEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.TotalAmount)
	}
	return total
}
