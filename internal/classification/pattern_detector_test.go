package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/hotel-itemizer/internal/model"
)

func TestNewPatternDetector(t *testing.T) {
	tests := []struct {
		name     string
		errMsg   string
		fallback model.Category
		patterns []Pattern
		wantErr  bool
	}{
		{
			name:     "valid patterns",
			fallback: model.CategoryIncidentals,
			patterns: []Pattern{
				{Name: "Room", Category: model.CategoryDailyRoomRate, Regex: `room`, Priority: 100},
				{Name: "Tax", Category: model.CategoryHotelTax, Regex: `tax`, Priority: 90},
			},
		},
		{
			name:     "invalid regex",
			fallback: model.CategoryIncidentals,
			patterns: []Pattern{
				{Name: "Bad Pattern", Category: model.CategoryHotelTax, Regex: `[invalid regex`, Priority: 100},
			},
			wantErr: true,
			errMsg:  "failed to compile pattern",
		},
		{
			name:     "unknown category",
			fallback: model.CategoryIncidentals,
			patterns: []Pattern{
				{Name: "Spa", Category: model.Category("Spa"), Regex: `spa`, Priority: 10},
			},
			wantErr: true,
			errMsg:  "unknown hotel category",
		},
		{
			name:     "invalid fallback",
			fallback: model.Category("Other"),
			wantErr:  true,
			errMsg:   "invalid fallback category",
		},
		{
			name:     "empty patterns",
			fallback: model.CategoryIncidentals,
			patterns: []Pattern{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pd, err := NewPatternDetector(tt.patterns, tt.fallback)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, pd)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, pd)
			assert.Equal(t, len(tt.patterns), pd.GetPatternCount())
		})
	}
}

func TestPatternDetector_PriorityOrder(t *testing.T) {
	pd, err := NewPatternDetector([]Pattern{
		{Name: "Low", Category: model.CategoryLaundry, Regex: `charge`, Priority: 10},
		{Name: "High", Category: model.CategoryHotelTax, Regex: `charge`, Priority: 100},
		{Name: "Medium", Category: model.CategoryHotelDeposit, Regex: `charge`, Priority: 50},
	}, model.CategoryIncidentals)
	require.NoError(t, err)

	for i := 0; i < len(pd.patterns)-1; i++ {
		assert.GreaterOrEqual(t, pd.patterns[i].Priority, pd.patterns[i+1].Priority)
	}

	match := pd.Detect("Service charge")
	assert.Equal(t, "High", match.PatternName)
	assert.Equal(t, model.CategoryHotelTax, match.Category)
	assert.False(t, match.Fallback)
}

func TestDefaultDetector_Suggest(t *testing.T) {
	pd := NewDefaultDetector()

	tests := []struct {
		description string
		want        model.Category
	}{
		{"Room Charge", model.CategoryDailyRoomRate},
		{"ACCOMMODATION 12/03", model.CategoryDailyRoomRate},
		{"City Tax", model.CategoryHotelTax},
		{"VAT 20%", model.CategoryHotelTax},
		{"Advance Deposit", model.CategoryHotelDeposit},
		{"Telephone call", model.CategoryHotelTelephone},
		{"Room Service - dinner", model.CategoryRoomServiceMeals},
		{"Lobby Bar", model.CategoryRoomServiceMeals},
		{"Restaurant", model.CategoryRoomServiceMeals},
		{"Laundry service", model.CategoryLaundry},
		{"Parking", model.CategoryIncidentals},
		{"", model.CategoryIncidentals},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			assert.Equal(t, tt.want, pd.Suggest(tt.description))
		})
	}
}

func TestDefaultDetector_FallbackFlag(t *testing.T) {
	match := NewDefaultDetector().Detect("Spa treatment")
	assert.True(t, match.Fallback)
	assert.Empty(t, match.PatternName)
	assert.Equal(t, model.CategoryIncidentals, match.Category)
}
