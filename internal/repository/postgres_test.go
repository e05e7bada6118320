package repository

import (
	"regexp"
	"testing"

	"wareongo/internal/model"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

var placeholder = regexp.MustCompile(`\$[0-9]+`)

func TestBuildWarehouseQueryNoFilters(t *testing.T) {
	query, args := buildWarehouseQuery(nil, 5, 10)

	assert.Contains(t, query, "WHERE 1=1\n")
	assert.Contains(t, query, `LEFT JOIN "WarehouseData" wd ON w.id = wd."warehouseId"`)
	assert.Contains(t, query, "ORDER BY w.id DESC")
	assert.Contains(t, query, "LIMIT $1 OFFSET $2")
	assert.Equal(t, []interface{}{5, 10}, args)
}

func TestBuildWarehouseQueryFilters(t *testing.T) {
	tests := []struct {
		name     string
		filters  model.WarehouseFilters
		contains []string
		args     []interface{}
	}{
		{
			name:     "cities take precedence over state",
			filters:  model.WarehouseFilters{Cities: []string{"Bengaluru", "Bangalore"}, State: strPtr("Karnataka")},
			contains: []string{"w.city ILIKE ANY($1)"},
			args:     []interface{}{pq.Array([]string{"Bengaluru", "Bangalore"})},
		},
		{
			name:     "state",
			filters:  model.WarehouseFilters{State: strPtr("Karnataka")},
			contains: []string{"w.state ILIKE $1"},
			args:     []interface{}{"%Karnataka%"},
		},
		{
			name:    "size bounds against the space array",
			filters: model.WarehouseFilters{SizeMin: intPtr(40000), SizeMax: intPtr(60000)},
			contains: []string{
				`unnest(w."totalSpaceSqft") AS s WHERE s >= $1`,
				`unnest(w."totalSpaceSqft") AS s WHERE s <= $2`,
			},
			args: []interface{}{40000, 60000},
		},
		{
			name:    "numeric text columns are guarded",
			filters: model.WarehouseFilters{RateMax: intPtr(28), MinDocks: intPtr(4), MinClearHeight: intPtr(30)},
			contains: []string{
				`w."ratePerSqft" ~ '^[0-9]+(\.[0-9]+)?$' AND CAST(CAST(w."ratePerSqft" AS NUMERIC) AS INTEGER) <= $1`,
				`CAST(CAST(w."numberOfDocks" AS NUMERIC) AS INTEGER) >= $2`,
				`CAST(CAST(w."clearHeightFt" AS NUMERIC) AS INTEGER) >= $3`,
			},
			args: []interface{}{28, 4, 30},
		},
		{
			name:     "broker listing",
			filters:  model.WarehouseFilters{IsBroker: boolPtr(false)},
			contains: []string{`w."isBroker" ILIKE $1`},
			args:     []interface{}{"No"},
		},
		{
			name:    "fire noc and industrial land",
			filters: model.WarehouseFilters{FireNOCRequired: true, LandTypeIndustrial: true, WarehouseType: strPtr("PEB")},
			contains: []string{
				`w."warehouseType" ILIKE $1`,
				`wd."fireNocAvailable" = $2`,
				`wd."landType" ILIKE $3`,
			},
			args: []interface{}{"%PEB%", true, "%industrial%"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildWarehouseQuery(&tt.filters, 5, 0)

			for _, fragment := range tt.contains {
				assert.Contains(t, query, fragment)
			}
			n := len(tt.args)
			assert.Equal(t, tt.args, args[:n])
			assert.Equal(t, []interface{}{5, 0}, args[n:])
			assert.Len(t, placeholder.FindAllString(query, -1), n+2)
		})
	}
}

func TestBuildWarehouseQueryIgnoresFalseFlags(t *testing.T) {
	query, args := buildWarehouseQuery(&model.WarehouseFilters{}, 5, 0)

	assert.NotContains(t, query, "fireNocAvailable\" =")
	assert.NotContains(t, query, "landType\" ILIKE")
	assert.Len(t, args, 2)
}
