package model

import (
	"fmt"
)

// ChargeKind tells how a category is billed across a stay.
type ChargeKind int

const (
	// ChargeUnknown is the zero value and never belongs to a valid category.
	ChargeUnknown ChargeKind = iota
	// ChargeRecurring categories are billed once per night.
	ChargeRecurring
	// ChargeOneTime categories are billed once for the whole stay.
	ChargeOneTime
	// ChargeExcluded categories never reach consolidation or itemization.
	ChargeExcluded
)

func (k ChargeKind) String() string {
	switch k {
	case ChargeRecurring:
		return "recurring"
	case ChargeOneTime:
		return "one-time"
	case ChargeExcluded:
		return "excluded"
	default:
		return "unknown"
	}
}

// Category is a hotel expense subcategory. The names must match the
// destination expense system exactly, including case.
type Category string

// The closed hotel taxonomy.
const (
	CategoryDailyRoomRate    Category = "Daily Room Rate"
	CategoryHotelDeposit     Category = "Hotel Deposit"
	CategoryHotelTax         Category = "Hotel Tax"
	CategoryHotelTelephone   Category = "Hotel Telephone"
	CategoryIncidentals      Category = "Incidentals"
	CategoryLaundry          Category = "Laundry"
	CategoryRoomServiceMeals Category = "Room Service & Meals etc"
	CategoryIgnore           Category = "Ignore"
)

// taxonomy lists every category in display order. Consolidated output is
// sorted by this order.
var taxonomy = [...]Category{
	CategoryDailyRoomRate,
	CategoryHotelDeposit,
	CategoryHotelTax,
	CategoryHotelTelephone,
	CategoryIncidentals,
	CategoryLaundry,
	CategoryRoomServiceMeals,
	CategoryIgnore,
}

// Categories returns the full taxonomy in display order.
func Categories() []Category {
	out := make([]Category, len(taxonomy))
	copy(out, taxonomy[:])
	return out
}

// Kind reports how the category is billed. Names outside the taxonomy
// report ChargeUnknown.
func (c Category) Kind() ChargeKind {
	switch c {
	case CategoryDailyRoomRate, CategoryHotelTax:
		return ChargeRecurring
	case CategoryHotelDeposit, CategoryHotelTelephone, CategoryIncidentals,
		CategoryLaundry, CategoryRoomServiceMeals:
		return ChargeOneTime
	case CategoryIgnore:
		return ChargeExcluded
	default:
		return ChargeUnknown
	}
}

// Valid reports whether c is part of the taxonomy.
func (c Category) Valid() bool {
	return c.Kind() != ChargeUnknown
}

// IsRecurring reports whether the category is billed per night.
func (c Category) IsRecurring() bool {
	return c.Kind() == ChargeRecurring
}

// IsExcluded reports whether the category is dropped from itemization.
func (c Category) IsExcluded() bool {
	return c.Kind() == ChargeExcluded
}

// Rank returns the position of c in the taxonomy, or -1.
func (c Category) Rank() int {
	for i, cat := range taxonomy {
		if cat == c {
			return i
		}
	}
	return -1
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory converts an exact category name into a Category.
func ParseCategory(name string) (Category, error) {
	c := Category(name)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	return c, nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c), nil
}

// UnmarshalText implements encoding.TextUnmarshaler and rejects names
// outside the taxonomy.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// CategoryPtr returns a pointer to c, for optional category fields.
func CategoryPtr(c Category) *Category {
	return &c
}
