package itemize

import (
	"log/slog"

	"github.com/Veraticus/hotel-itemizer/internal/model"
)

// Suggester proposes a category for a charge description.
type Suggester interface {
	Suggest(description string) model.Category
}

// Categorizer fills in category suggestions and checks reviewer assignments.
type Categorizer struct {
	suggester Suggester
	validator *Validator
}

// NewCategorizer creates a categorizer. A nil suggester disables the
// keyword fallback.
func NewCategorizer(suggester Suggester, validator *Validator) *Categorizer {
	return &Categorizer{
		suggester: suggester,
		validator: validator,
	}
}

// SuggestCategories returns a copy of inv where every line item without a
// suggestion carries the keyword suggestion. Upstream suggestions are kept.
func (c *Categorizer) SuggestCategories(inv model.InvoiceDetails) model.InvoiceDetails {
	out := inv.Clone()
	if c.suggester == nil {
		return out
	}

	suggested := 0
	for i := range out.LineItems {
		item := &out.LineItems[i]
		if item.SuggestedCategory != nil {
			continue
		}
		item.SuggestedCategory = model.CategoryPtr(c.suggester.Suggest(item.Description))
		suggested++
	}

	slog.Debug("applied keyword suggestions", "hotel", inv.HotelName, "suggested", suggested)
	return out
}

// AcceptSuggestions returns a copy of inv where items without a reviewer
// assignment take their suggested category. Reviewer assignments win.
func (c *Categorizer) AcceptSuggestions(inv model.InvoiceDetails) model.InvoiceDetails {
	out := c.SuggestCategories(inv)
	for i := range out.LineItems {
		item := &out.LineItems[i]
		if item.UserCategory == nil && item.SuggestedCategory != nil {
			item.UserCategory = model.CategoryPtr(*item.SuggestedCategory)
		}
	}
	return out
}

// Validate checks the reviewer assignments of inv.
func (c *Categorizer) Validate(inv model.InvoiceDetails) CategorizationReport {
	return c.validator.ValidateCategorization(inv)
}

// CategoryInfo describes one taxonomy entry for front ends.
type CategoryInfo struct {
	Name        model.Category `json:"name"`
	Kind        string         `json:"kind"`
	IsRecurring bool           `json:"is_recurring"`
	IsOneTime   bool           `json:"is_one_time"`
	IsExcluded  bool           `json:"is_excluded"`
}

// CategoryMapping lists the taxonomy with its billing tags.
func CategoryMapping() []CategoryInfo {
	cats := model.Categories()
	out := make([]CategoryInfo, 0, len(cats))
	for _, cat := range cats {
		kind := cat.Kind()
		out = append(out, CategoryInfo{
			Name:        cat,
			Kind:        kind.String(),
			IsRecurring: kind == model.ChargeRecurring,
			IsOneTime:   kind == model.ChargeOneTime,
			IsExcluded:  kind == model.ChargeExcluded,
		})
	}
	return out
}
