package classification

import "github.com/Veraticus/hotel-itemizer/internal/model"

// DefaultPatterns returns the keyword table used when neither a reviewer nor
// the upstream extractor supplied a category.
func DefaultPatterns() []Pattern {
	return []Pattern{
		// "room service" must win over the generic room keyword below
		{
			Name:     "Room Service",
			Category: model.CategoryRoomServiceMeals,
			Regex:    `room\s*service`,
			Priority: 110,
		},
		{
			Name:     "Room Rate",
			Category: model.CategoryDailyRoomRate,
			Regex:    `room|accommodation`,
			Priority: 100,
		},
		{
			Name:     "Tax",
			Category: model.CategoryHotelTax,
			Regex:    `tax|vat`,
			Priority: 90,
		},
		{
			Name:     "Deposit",
			Category: model.CategoryHotelDeposit,
			Regex:    `deposit`,
			Priority: 80,
		},
		{
			Name:     "Telephone",
			Category: model.CategoryHotelTelephone,
			Regex:    `phone`,
			Priority: 70,
		},
		{
			Name:     "Food & Beverage",
			Category: model.CategoryRoomServiceMeals,
			Regex:    `restaurant|bar`,
			Priority: 60,
		},
		{
			Name:     "Laundry",
			Category: model.CategoryLaundry,
			Regex:    `laundry`,
			Priority: 50,
		},
	}
}
