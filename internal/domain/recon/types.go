package recon

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

func jsonColumnValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonColumnScan(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("cannot scan %T into %T", value, dest)
	}
}

// StringList is a JSON-encoded string slice column
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return jsonColumnValue(l)
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	return jsonColumnScan(value, l)
}

// FieldMap is a JSON-encoded string-to-string column used for raw and
// mapped row payloads
type FieldMap map[string]string

// Value implements driver.Valuer
func (m FieldMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return jsonColumnValue(m)
}

// Scan implements sql.Scanner
func (m *FieldMap) Scan(value interface{}) error {
	return jsonColumnScan(value, m)
}

// Clone returns a shallow copy of the map
func (m FieldMap) Clone() FieldMap {
	if m == nil {
		return nil
	}
	out := make(FieldMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
