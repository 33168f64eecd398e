package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringArray is a jsonb-backed list of strings (advertising image URLs).
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal([]string(a))
}

func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	switch raw := value.(type) {
	case []byte:
		return json.Unmarshal(raw, a)
	case string:
		return json.Unmarshal([]byte(raw), a)
	default:
		return fmt.Errorf("string array: unsupported scan type %T", value)
	}
}
