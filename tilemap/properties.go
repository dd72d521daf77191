package tilemap

import (
	"fmt"
	"strconv"
	"strings"
)

// Properties are the custom properties of a map, layer or object, with
// every value kept in its string form.
type Properties map[string]string

func (p Properties) Has(key string) bool {
	_, ok := p[key]
	return ok
}

func (p Properties) String(key, def string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

func (p Properties) Int(key string, def int) (int, error) {
	v, ok := p[key]
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("property %q: %w", key, err)
	}
	return n, nil
}

func (p Properties) Float(key string, def float64) (float64, error) {
	v, ok := p[key]
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def, fmt.Errorf("property %q: %w", key, err)
	}
	return f, nil
}

func (p Properties) Bool(key string, def bool) (bool, error) {
	v, ok := p[key]
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("property %q: %w", key, err)
	}
	return b, nil
}

// propertyString renders a decoded JSON property value.
func propertyString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
