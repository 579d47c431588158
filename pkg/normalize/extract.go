package normalize

import (
	"strconv"
)

// extractor pulls one candidate value for a canonical field out of a raw
// backend payload.
type extractor func(raw map[string]any) (any, bool)

func key(name string) extractor {
	return func(raw map[string]any) (any, bool) {
		v, ok := raw[name]
		if !ok || v == nil {
			return nil, false
		}
		return v, true
	}
}

func nested(parent, child string) extractor {
	return func(raw map[string]any) (any, bool) {
		p, ok := raw[parent].(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := p[child]
		if !ok || v == nil {
			return nil, false
		}
		return v, true
	}
}

// chain is an ordered list of extractors for a single canonical field.
// First match wins.
type chain []extractor

// str returns the first candidate that renders to a non-empty string.
func (c chain) str(raw map[string]any) string {
	for _, ex := range c {
		if v, ok := ex(raw); ok {
			if s := asString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// boolValue returns the first candidate present that renders to a bool.
// Presence matters here, not truthiness, so a false flag still wins over
// later extractors.
func (c chain) boolValue(raw map[string]any) (bool, bool) {
	for _, ex := range c {
		if v, ok := ex(raw); ok {
			if b, ok := asBool(v); ok {
				return b, true
			}
		}
	}
	return false, false
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

func asBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case float64:
		return t != 0, true
	case string:
		if b, err := strconv.ParseBool(t); err == nil {
			return b, true
		}
	}
	return false, false
}

func asInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case int64:
		return int(t)
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return int(f)
		}
	}
	return 0
}
