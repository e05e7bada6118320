package utils

import (
	"regexp"
	"strings"
	"unicode"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}/&+-]+`)

// Tokens lowercases text and splits it into words
func Tokens(text string) []string {
	return strings.Fields(nonWord.ReplaceAllString(strings.ToLower(text), " "))
}

// NormalizeText lowercases text and collapses punctuation and whitespace
func NormalizeText(text string) string {
	return strings.Join(Tokens(text), " ")
}

// ContainsPhrase reports whether phrase occurs in text on word boundaries
func ContainsPhrase(text, phrase string) bool {
	t := " " + NormalizeText(text) + " "
	p := NormalizeText(phrase)
	if p == "" {
		return false
	}
	return strings.Contains(t, " "+p+" ")
}

// ContainsAny reports whether any of the phrases occurs in text on word boundaries
func ContainsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if ContainsPhrase(text, p) {
			return true
		}
	}
	return false
}

// Common aliases for warehouse structure types
var warehouseTypeAliases = map[string][]string{
	"PEB":           {"peb", "pre-engineered", "pre engineered", "preengineered", "steel structure", "steel building"},
	"RCC":           {"rcc", "concrete", "reinforced concrete", "cement", "masonry"},
	"Shed":          {"shed", "tin shed", "godown"},
	"Cold Storage":  {"cold storage", "cold chain", "refrigerated", "temperature controlled"},
	"Open Yard":     {"open yard", "open storage", "open land"},
	"Built-to-suit": {"built to suit", "built-to-suit", "bts"},
}

// warehouseTypeOrder keeps alias lookups deterministic
var warehouseTypeOrder = []string{"Cold Storage", "Open Yard", "Built-to-suit", "PEB", "RCC", "Shed"}

// NormalizeWarehouseType maps a structure description to its canonical name.
// Unknown descriptions are title-cased.
func NormalizeWarehouseType(raw string) string {
	text := NormalizeText(raw)
	if text == "" {
		return ""
	}
	if canonical, ok := MatchWarehouseType(text); ok {
		return canonical
	}
	return titleCase(text)
}

// MatchWarehouseType finds a known structure type mentioned in text
func MatchWarehouseType(text string) (string, bool) {
	for _, canonical := range warehouseTypeOrder {
		if ContainsAny(text, warehouseTypeAliases[canonical]) {
			return canonical, true
		}
	}
	return "", false
}

var (
	industrialIndicators = []string{
		"industrial", "manufacturing", "factory", "production", "processing",
		"chemical", "chemicals", "assembly", "fabrication", "clu", "heavy machinery",
	}
	commercialIndicators = []string{
		"commercial", "distribution", "storage", "retail", "logistics",
		"ecommerce", "e-commerce", "fmcg", "3pl", "fulfillment", "fulfilment",
	}
	indifferentPhrases = []string{
		"either", "any", "both", "no preference", "doesn't matter", "does not matter",
		"dont care", "don't care", "flexible", "whatever", "anything",
	}
)

// NormalizeLandType maps a land classification answer to
// "industrial", "commercial" or "either". Unrecognised input returns "".
func NormalizeLandType(raw string) string {
	text := NormalizeText(raw)
	switch text {
	case "industrial", "commercial", "either":
		return text
	case "true":
		return "industrial"
	case "false":
		return "commercial"
	}
	industrial := ContainsAny(text, industrialIndicators)
	commercial := ContainsAny(text, commercialIndicators)
	switch {
	case IsIndifferent(text), industrial && commercial:
		return "either"
	case industrial:
		return "industrial"
	case commercial:
		return "commercial"
	}
	return ""
}

// IsIndifferent reports whether text expresses no preference
func IsIndifferent(text string) bool {
	return ContainsAny(text, indifferentPhrases)
}

// IsIndifferentAnswer reports whether the whole answer is a no-preference phrase
func IsIndifferentAnswer(text string) bool {
	n := NormalizeText(text)
	for _, p := range indifferentPhrases {
		if n == NormalizeText(p) {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
