package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wareongo/internal/model"
)

func TestAnnotatorReasons(t *testing.T) {
	warehouse := model.Warehouse{
		ID:               1,
		WarehouseType:    strPtr("PEB Shed"),
		City:             strPtr("Bengaluru"),
		State:            strPtr("Karnataka"),
		TotalSpaceSqft:   []int64{20000, 55000},
		RatePerSqft:      strPtr("24"),
		NumberOfDocks:    strPtr("6"),
		ClearHeightFt:    strPtr("32.5"),
		FireNocAvailable: boolPtr(true),
		LandType:         strPtr("Industrial"),
	}

	tests := []struct {
		name    string
		filters *model.WarehouseFilters
		want    []string
	}{
		{
			name:    "no filters",
			filters: nil,
			want:    []string{ReasonGeneralMatch},
		},
		{
			name: "every filter satisfied",
			filters: &model.WarehouseFilters{
				Cities:             []string{"bengaluru"},
				SizeMin:            intPtr(40000),
				SizeMax:            intPtr(60000),
				RateMax:            intPtr(25),
				WarehouseType:      strPtr("PEB"),
				MinDocks:           intPtr(4),
				MinClearHeight:     intPtr(30),
				FireNOCRequired:    true,
				LandTypeIndustrial: true,
				IsBroker:           boolPtr(false),
			},
			want: []string{
				ReasonLocationMatch, ReasonSizeFits, ReasonWithinBudget, ReasonTypeMatch,
				ReasonDocks, ReasonClearHeight, ReasonFireNOC, ReasonIndustrial, ReasonOwnerListing,
			},
		},
		{
			name:    "state search",
			filters: &model.WarehouseFilters{State: strPtr("karnataka"), RateMax: intPtr(20)},
			want:    []string{ReasonLocationMatch},
		},
		{
			name:    "no unit inside the size window",
			filters: &model.WarehouseFilters{SizeMin: intPtr(25000), SizeMax: intPtr(50000)},
			want:    []string{ReasonGeneralMatch},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Annotator{}.reasons(warehouse, tt.filters))
		})
	}
}

func TestNumeric(t *testing.T) {
	v, ok := numeric(strPtr(" 28 "))
	assert.True(t, ok)
	assert.Equal(t, 28.0, v)

	_, ok = numeric(strPtr("on request"))
	assert.False(t, ok)

	_, ok = numeric(nil)
	assert.False(t, ok)
}
