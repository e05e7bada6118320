package agent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeBand(t *testing.T) {
	tests := []struct {
		target, lo, hi int
	}{
		{50000, 40000, 60000},
		{10000, 8000, 12000},
		{12345, 9876, 14814},
		{1, 0, 2},
	}
	for _, tt := range tests {
		lo, hi := SizeBand(tt.target)
		assert.Equal(t, tt.lo, lo, "target %d", tt.target)
		assert.Equal(t, tt.hi, hi, "target %d", tt.target)
	}
}

func TestApplySizeTargetIsIdempotent(t *testing.T) {
	s := NewState()
	u := SlotUpdate{Values: map[Slot]any{SlotSizeTarget: 50000}}

	changed := s.apply(u)
	assert.ElementsMatch(t, []Slot{SlotSizeMin, SlotSizeMax}, changed)

	changed = s.apply(u)
	assert.Empty(t, changed)
	assert.Equal(t, 40000, *s.SizeMin)
	assert.Equal(t, 60000, *s.SizeMax)
}

func TestApplyEqualBoundsBecomeBand(t *testing.T) {
	s := NewState()
	s.apply(SlotUpdate{Values: map[Slot]any{SlotSizeMin: 20000, SlotSizeMax: 20000}})

	assert.Equal(t, 16000, *s.SizeMin)
	assert.Equal(t, 24000, *s.SizeMax)
}

func TestApplySwapsInvertedBounds(t *testing.T) {
	s := NewState()
	s.apply(SlotUpdate{Values: map[Slot]any{SlotBudgetMin: 40, SlotBudgetMax: 25}})

	assert.Equal(t, 25, *s.BudgetMin)
	assert.Equal(t, 40, *s.BudgetMax)
}

func TestApplyChangeResetsConfirmationAndPaging(t *testing.T) {
	s := searchingState(3, 5)

	changed := s.apply(SlotUpdate{Values: map[Slot]any{SlotMinDocks: 4}})

	assert.Equal(t, []Slot{SlotMinDocks}, changed)
	assert.False(t, s.RequirementsConfirmed)
	assert.Equal(t, 1, s.CurrentPage)
	assert.Equal(t, []string{"Bengaluru"}, s.ResolvedCities, "resolution survives non-location changes")
	assert.Nil(t, s.SearchResultsCache, "a changed filter set invalidates the shown page")
}

func TestApplyLocationChangeDropsResolution(t *testing.T) {
	s := searchingState(2, 5)
	s.ResolvedArea = ptr("Whitefield")

	changed := s.apply(SlotUpdate{Values: map[Slot]any{SlotLocation: "Hyderabad"}})

	assert.Equal(t, []Slot{SlotLocation}, changed)
	assert.Nil(t, s.ResolvedCities)
	assert.Nil(t, s.ResolvedArea)
	assert.Nil(t, s.ResolvedFor)
	assert.Nil(t, s.SearchResultsCache)
}

func TestApplyUnchangedValueIsNotAChange(t *testing.T) {
	s := searchingState(2, 5)

	changed := s.apply(SlotUpdate{Values: map[Slot]any{SlotLocation: "Bangalore", SlotLandType: LandEither}})

	assert.Empty(t, changed)
	assert.True(t, s.RequirementsConfirmed)
	assert.Equal(t, 2, s.CurrentPage)
}

func TestApplyClear(t *testing.T) {
	s := confirmingState()
	s.WarehouseType = ptr("PEB")

	changed := s.apply(SlotUpdate{Clear: []Slot{SlotWarehouseType, SlotZone}})

	assert.Equal(t, []Slot{SlotWarehouseType}, changed)
	assert.Nil(t, s.WarehouseType)
}

func TestDecodeExtraction(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		schema  []Slot
		want    map[Slot]any
		clear   []Slot
		wantErr bool
	}{
		{
			name:    "numbers with units",
			payload: `{"size_min": "50k sqft", "budget_max": "₹28 per sqft", "min_docks": 4.0}`,
			schema:  fullSchema,
			want:    map[Slot]any{SlotSizeMin: 50000, SlotBudgetMax: 28, SlotMinDocks: 4},
		},
		{
			name:    "keys outside schema are dropped",
			payload: `{"location_query": "Pune", "budget_max": 30}`,
			schema:  areaSchema,
			want:    map[Slot]any{SlotLocation: "Pune"},
		},
		{
			name:    "null-like strings are absent",
			payload: `{"location_query": "null", "size_min": null, "warehouse_type": "N/A"}`,
			schema:  fullSchema,
			want:    map[Slot]any{},
		},
		{
			name:    "fenced payload with prose",
			payload: "Sure! Here you go:\n```json\n{\"land_type_industrial\": true}\n```",
			schema:  landSchema,
			want:    map[Slot]any{SlotLandType: LandIndustrial},
		},
		{
			name:    "land type words",
			payload: `{"land_type_industrial": "doesn't matter"}`,
			schema:  landSchema,
			want:    map[Slot]any{SlotLandType: LandEither},
		},
		{
			name:    "indifferent answer clears",
			payload: `{"warehouse_type": "any", "fire_noc_required": "no"}`,
			schema:  fullSchema,
			want:    map[Slot]any{SlotFireNOC: false},
			clear:   []Slot{SlotWarehouseType},
		},
		{
			name:    "warehouse type normalized",
			payload: `{"warehouse_type": "pre-engineered building"}`,
			schema:  fullSchema,
			want:    map[Slot]any{SlotWarehouseType: "PEB"},
		},
		{
			name:    "lakh suffix",
			payload: `{"size_max": "1.5 lakh"}`,
			schema:  areaSchema,
			want:    map[Slot]any{SlotSizeMax: 150000},
		},
		{name: "bad number rejects payload", payload: `{"size_min": "big", "location_query": "Pune"}`, schema: areaSchema, wantErr: true},
		{name: "bad boolean", payload: `{"fire_noc_required": "perhaps"}`, schema: fullSchema, wantErr: true},
		{name: "negative number", payload: `{"min_docks": -2}`, schema: fullSchema, wantErr: true},
		{name: "no json", payload: `I could not find anything`, schema: fullSchema, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := decodeExtraction(tt.payload, tt.schema)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrExtractionFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.Values)
			assert.ElementsMatch(t, tt.clear, u.Clear)
		})
	}
}

func TestRelaxBounds(t *testing.T) {
	lo, hi := RelaxSize(ptr(40000), ptr(60000))
	assert.Equal(t, 28000, *lo)
	assert.Equal(t, 78000, *hi)

	lo, hi = RelaxSize(nil, ptr(10001))
	assert.Nil(t, lo)
	assert.Equal(t, 13002, *hi)

	lo, hi = RelaxBudget(ptr(25), nil)
	assert.Equal(t, 20, *lo)
	assert.Nil(t, hi)
}
