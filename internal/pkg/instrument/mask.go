package instrument

import (
	"encoding/json"
	"strings"
)

const maskedValue = "***"

// Masker replaces values of sensitive keys (OTP codes, auth headers) before
// they reach logs. Key matching is case-insensitive.
type Masker struct {
	keys map[string]struct{}
}

// NewMasker builds a Masker from a list of field names.
func NewMasker(fields []string) *Masker {
	keys := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if field = strings.TrimSpace(strings.ToLower(field)); field != "" {
			keys[field] = struct{}{}
		}
	}
	return &Masker{keys: keys}
}

// Empty reports whether nothing would be masked.
func (m *Masker) Empty() bool {
	return m == nil || len(m.keys) == 0
}

// Sensitive reports whether key must be masked.
func (m *Masker) Sensitive(key string) bool {
	if m.Empty() {
		return false
	}
	_, ok := m.keys[strings.ToLower(key)]
	return ok
}

// Data walks decoded JSON (maps and slices) and masks sensitive keys.
func (m *Masker) Data(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, v2 := range val {
			if m.Sensitive(k) {
				out[k] = maskedValue
				continue
			}
			out[k] = m.Data(v2)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(val))
		for k, v2 := range val {
			if m.Sensitive(k) {
				out[k] = maskedValue
				continue
			}
			out[k] = v2
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, v2 := range val {
			out[i] = m.Data(v2)
		}
		return out
	default:
		return v
	}
}

// JSON masks a JSON document. ok is false when payload is not JSON.
func (m *Masker) JSON(payload []byte) (masked any, ok bool) {
	if len(payload) == 0 || (payload[0] != '{' && payload[0] != '[') {
		return nil, false
	}

	var body any
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, false
	}
	return m.Data(body), true
}
