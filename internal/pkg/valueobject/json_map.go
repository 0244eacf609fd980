// Package valueobject holds small value types shared by the storage layers.
package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// ErrScanValueNotBytes indicates the database value is not JSON text.
var ErrScanValueNotBytes = errors.New("valueobject: jsonmap scan value is not []byte")

// JSONMap is a JSON object stored in a jsonb column. A nil map is written as
// an empty object so the column never holds SQL NULL.
type JSONMap map[string]any

func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(j)
}

func (j *JSONMap) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*j = JSONMap{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case map[string]any:
		*j = JSONMap(v)
		return nil
	default:
		return ErrScanValueNotBytes
	}

	out := JSONMap{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*j = out
	return nil
}

// GetString returns "" when the key is missing or not a string.
func (j JSONMap) GetString(key string) string {
	s, _ := j[key].(string)
	return s
}
