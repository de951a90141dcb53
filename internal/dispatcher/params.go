package dispatcher

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Params is the loosely-typed parameter bag accompanying an operation.
// Values arrive from JSON decoding or direct construction, so a field may be
// a string, any integer flavor, or a float that happens to hold an integer.
// Accessors report absence explicitly instead of failing.
type Params map[string]any

// String returns the value for key as a string, and whether it was present.
// Numeric values are rendered to their decimal form.
func (p Params) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", false
	}

	switch val := v.(type) {
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	default:
		return "", false
	}
}

// Text returns the value for key with surrounding whitespace trimmed.
// A present-but-blank value counts as absent.
func (p Params) Text(key string) (string, bool) {
	s, ok := p.String(key)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// ID returns the value for key as an int64, and whether a usable integer was
// present. Models frequently emit ids as JSON numbers or as digit strings;
// both are accepted.
func (p Params) ID(key string) (int64, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return 0, false
	}

	switch val := v.(type) {
	case int:
		return int64(val), true
	case int64:
		return val, true
	case float64:
		id := int64(val)
		if float64(id) != val {
			return 0, false
		}
		return id, true
	case json.Number:
		id, err := val.Int64()
		if err != nil {
			return 0, false
		}
		return id, true
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}
