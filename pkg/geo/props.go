package geo

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// StringProp safely extracts a string property from GeoJSON properties.
func StringProp(props geojson.Properties, key string) string {
	if val, ok := props[key]; ok {
		if s, ok := val.(string); ok {
			return s
		}
		// Handle JSON numbers that might be parsed as json.Number
		if f, ok := val.(json.Number); ok {
			return string(f)
		}
	}
	return ""
}

// NumberProp extracts a numeric property from GeoJSON properties.
// Source files encode volumes inconsistently (numbers, quoted numbers,
// quoted numbers with whitespace), so strings are parsed too.
// ok is false when the property is absent or not parseable.
func NumberProp(props geojson.Properties, key string) (float64, bool) {
	val, present := props[key]
	if !present {
		return 0, false
	}
	switch v := val.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
