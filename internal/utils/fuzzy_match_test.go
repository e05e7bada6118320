package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLandType(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"industrial", "industrial"},
		{"Industrial land with CLU please", "industrial"},
		{"we do e-commerce fulfilment", "commercial"},
		{"either is fine", "either"},
		{"manufacturing and distribution", "either"},
		{"true", "industrial"},
		{"banana", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLandType(tt.input))
		})
	}
}

func TestNormalizeWarehouseType(t *testing.T) {
	assert.Equal(t, "PEB", NormalizeWarehouseType("pre-engineered building"))
	assert.Equal(t, "RCC", NormalizeWarehouseType("RCC"))
	assert.Equal(t, "Cold Storage", NormalizeWarehouseType("refrigerated"))
	assert.Equal(t, "Mezzanine Rack", NormalizeWarehouseType("mezzanine rack"))
	assert.Equal(t, "", NormalizeWarehouseType("  "))
}

func TestContainsPhrase(t *testing.T) {
	assert.True(t, ContainsPhrase("Show me MORE, please", "more"))
	assert.False(t, ContainsPhrase("furthermore", "more"))
	assert.True(t, ContainsAny("no preference really", []string{"either", "no preference"}))
	assert.False(t, ContainsPhrase("anything", ""))
}

func TestIsIndifferentAnswer(t *testing.T) {
	assert.True(t, IsIndifferentAnswer("Doesn't matter"))
	assert.False(t, IsIndifferentAnswer("any PEB warehouse"))
	assert.True(t, IsIndifferent("any PEB warehouse"))
}
