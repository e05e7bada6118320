package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/kaptinlin/jsonrepair"
)

var (
	fencedJSONPattern = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.+?)\\s*```")
	trailingComma     = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyPattern    = regexp.MustCompile(`([{,]\s*)([A-Za-z_]\w*)(\s*:)`)
	controlChars      = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

// ParseAIJSON extracts and parses JSON from LLM output that may be:
// - Pure JSON
// - Wrapped in markdown code fences
// - Surrounded by prose
// - Slightly malformed (trailing commas, bare keys, single quotes, truncation)
func ParseAIJSON(input string, target interface{}) error {
	input = strings.TrimSpace(strings.TrimPrefix(input, "\ufeff"))
	if input == "" {
		return fmt.Errorf("empty input")
	}

	candidates := []string{input}
	if fenced := extractFromMarkdown(input); fenced != "" {
		candidates = append(candidates, fenced)
	}
	if embedded := extractJSONFromText(input); embedded != "" {
		candidates = append(candidates, embedded)
	}

	for _, c := range candidates {
		if err := sonic.UnmarshalString(c, target); err == nil {
			return nil
		}
	}

	// Repair only text that looks like it was meant to be JSON
	for _, c := range candidates {
		if !looksLikeJSON(c) {
			continue
		}
		if err := sonic.UnmarshalString(cleanAndFixJSON(c), target); err == nil {
			return nil
		}
		if repaired, err := jsonrepair.JSONRepair(c); err == nil {
			if err := sonic.UnmarshalString(repaired, target); err == nil {
				return nil
			}
		}
	}

	return fmt.Errorf("failed to parse JSON from input: %s", truncateString(input, 100))
}

// TryParseJSONObject parses a JSON object with the same fallbacks as ParseAIJSON
func TryParseJSONObject(input string) (map[string]interface{}, error) {
	var result map[string]interface{}
	if err := ParseAIJSON(input, &result); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("JSON payload is not an object")
	}
	return result, nil
}

// extractFromMarkdown returns the body of the first ``` fence that holds JSON
func extractFromMarkdown(input string) string {
	for _, m := range fencedJSONPattern.FindAllStringSubmatch(input, -1) {
		content := strings.TrimSpace(m[1])
		if looksLikeJSON(content) {
			return content
		}
	}
	return ""
}

// extractJSONFromText finds the first balanced JSON object or array in text
func extractJSONFromText(input string) string {
	if start := strings.Index(input, "{"); start >= 0 {
		if extracted := extractBalancedBraces(input[start:], '{', '}'); extracted != "" {
			return extracted
		}
		// Unterminated object, hand the tail to the repair step
		return input[start:]
	}
	if start := strings.Index(input, "["); start >= 0 {
		if extracted := extractBalancedBraces(input[start:], '[', ']'); extracted != "" {
			return extracted
		}
	}
	return ""
}

// extractBalancedBraces extracts content with balanced braces, skipping string literals
func extractBalancedBraces(input string, open, close rune) string {
	depth := 0
	inString := false
	escape := false
	start := 0

	for i, ch := range input {
		if escape {
			escape = false
			continue
		}
		switch {
		case ch == '\\':
			escape = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			if depth == 0 {
				start = i
			}
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}
	return ""
}

// cleanAndFixJSON fixes the mistakes models make most often
func cleanAndFixJSON(input string) string {
	s := strings.TrimSpace(input)
	s = trailingComma.ReplaceAllString(s, "$1")
	s = bareKeyPattern.ReplaceAllString(s, `$1"$2"$3`)
	s = fixSingleQuotes(s)
	return controlChars.ReplaceAllString(s, "")
}

// fixSingleQuotes converts single quotes used as string delimiters to double quotes
func fixSingleQuotes(input string) string {
	var result strings.Builder
	inDoubleQuote := false
	escape := false
	var prev rune

	for _, ch := range input {
		switch {
		case escape:
			escape = false
		case ch == '\\':
			escape = true
		case ch == '"':
			inDoubleQuote = !inDoubleQuote
		case ch == '\'' && !inDoubleQuote:
			// Apostrophes inside words stay as they are
			if prev == 0 || strings.ContainsRune(":,[{ }]", prev) {
				ch = '"'
			}
		}
		result.WriteRune(ch)
		prev = ch
	}
	return result.String()
}

func looksLikeJSON(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}

// truncateString truncates a string to maxLen bytes
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
