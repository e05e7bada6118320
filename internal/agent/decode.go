package agent

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"wareongo/internal/utils"
)

// SlotUpdate is a decoded, coerced extractor result
type SlotUpdate struct {
	Values map[Slot]any
	Clear  []Slot
}

// Empty reports whether the update carries no change request
func (u SlotUpdate) Empty() bool {
	return len(u.Values) == 0 && len(u.Clear) == 0
}

func (u SlotUpdate) intValue(s Slot) (int, bool) {
	v, ok := u.Values[s].(int)
	return v, ok
}

var errAbsent = errors.New("absent")

var nullish = []string{"", "null", "none", "nil", "n/a", "na", "unknown", "not specified", "undefined"}

// decodeExtraction parses payload and coerces every schema field it carries.
// Keys outside schema are dropped; any unreadable value rejects the whole payload.
func decodeExtraction(payload string, schema []Slot) (SlotUpdate, error) {
	raw, err := utils.TryParseJSONObject(payload)
	if err != nil {
		return SlotUpdate{}, fmt.Errorf("%w: %v", ErrExtractionFormat, err)
	}

	u := SlotUpdate{Values: map[Slot]any{}}
	for key, value := range raw {
		if key == "clear" {
			cleared, err := coerceClearList(value, schema)
			if err != nil {
				return SlotUpdate{}, err
			}
			u.Clear = append(u.Clear, cleared...)
			continue
		}
		slot := Slot(key)
		if !slices.Contains(schema, slot) {
			continue
		}
		v, err := coerce(slot, value)
		if errors.Is(err, errAbsent) {
			continue
		}
		if errors.Is(err, errClearRequested) {
			u.Clear = append(u.Clear, slot)
			continue
		}
		if err != nil {
			return SlotUpdate{}, fmt.Errorf("%w: %s: %v", ErrExtractionFormat, key, err)
		}
		u.Values[slot] = v
	}
	return u, nil
}

var errClearRequested = errors.New("clear requested")

func coerce(slot Slot, value any) (any, error) {
	if value == nil {
		return nil, errAbsent
	}
	if s, ok := value.(string); ok && slices.Contains(nullish, strings.ToLower(strings.TrimSpace(s))) {
		return nil, errAbsent
	}
	switch slotKinds[slot] {
	case kindInt:
		return coerceInt(value)
	case kindBool:
		return coerceBool(value)
	case kindLand:
		return coerceLand(value)
	default:
		s, err := coerceString(value)
		if err != nil {
			return nil, err
		}
		if slot != SlotLocation && utils.IsIndifferentAnswer(s) {
			return nil, errClearRequested
		}
		if slot == SlotWarehouseType {
			return utils.NormalizeWarehouseType(s), nil
		}
		return s, nil
	}
}

var (
	numericNoise = regexp.MustCompile(`(?i)(₹|rs\.?|inr|/\s*sq\.?\s*ft|per\s+sq\.?\s*ft|sq\.?\s*ft|sqft|square\s+feet|square\s+foot|feet|foot|ft|docks?|,|\s)`)
	numberSuffix = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)(k|thousand|lakhs?|lacs?|l)?$`)
)

// coerceInt accepts JSON numbers and strings like "50k", "50,000 sqft" or "₹25"
func coerceInt(value any) (int, error) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return 0, fmt.Errorf("invalid number %v", v)
		}
		return int(math.Round(v)), nil
	case int:
		if v < 0 {
			return 0, fmt.Errorf("invalid number %d", v)
		}
		return v, nil
	case int64:
		if v < 0 {
			return 0, fmt.Errorf("invalid number %d", v)
		}
		return int(v), nil
	case string:
		s := numericNoise.ReplaceAllString(strings.ToLower(strings.TrimSpace(v)), "")
		m := numberSuffix.FindStringSubmatch(s)
		if m == nil {
			return 0, fmt.Errorf("not a number: %q", v)
		}
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", v)
		}
		switch {
		case m[2] == "k" || m[2] == "thousand":
			f *= 1000
		case m[2] != "":
			f *= 100000
		}
		return int(math.Round(f)), nil
	}
	return 0, fmt.Errorf("unexpected %T for number", value)
}

func coerceBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case float64:
		return v != 0, nil
	case string:
		switch utils.NormalizeText(v) {
		case "true", "yes", "y", "required", "mandatory", "must", "needed", "1":
			return true, nil
		case "false", "no", "n", "not required", "optional", "not needed", "0":
			return false, nil
		}
		return false, fmt.Errorf("not a boolean: %q", v)
	}
	return false, fmt.Errorf("unexpected %T for boolean", value)
}

func coerceLand(value any) (LandPreference, error) {
	switch v := value.(type) {
	case bool:
		if v {
			return LandIndustrial, nil
		}
		return LandCommercial, nil
	case string:
		if p := LandPreference(utils.NormalizeLandType(v)); p != LandUndecided {
			return p, nil
		}
		return LandUndecided, fmt.Errorf("unknown land type %q", v)
	}
	return LandUndecided, fmt.Errorf("unexpected %T for land type", value)
}

func coerceString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("unexpected %T for text", value)
}

func coerceClearList(value any, schema []Slot) ([]Slot, error) {
	var names []string
	switch v := value.(type) {
	case string:
		names = []string{v}
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: clear: unexpected %T", ErrExtractionFormat, item)
			}
			names = append(names, s)
		}
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: clear: unexpected %T", ErrExtractionFormat, value)
	}

	var slots []Slot
	for _, name := range names {
		slot := Slot(strings.TrimSpace(name))
		switch slot {
		case SlotSize:
			if slices.Contains(schema, SlotSizeMin) {
				slots = append(slots, SlotSizeMin, SlotSizeMax)
			}
		case SlotBudget:
			if slices.Contains(schema, SlotBudgetMin) {
				slots = append(slots, SlotBudgetMin, SlotBudgetMax)
			}
		case SlotLocation, SlotLandType, SlotSizeTarget:
			// required decisions are replaced, never cleared
		default:
			if slices.Contains(schema, slot) {
				slots = append(slots, slot)
			}
		}
	}
	return slots, nil
}
