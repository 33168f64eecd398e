package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Social holds a star's social media links, stored as jsonb.
type Social struct {
	Instagram *string `json:"instagram,omitempty"`
	Twitter   *string `json:"twitter,omitempty"`
	Facebook  *string `json:"facebook,omitempty"`
	YouTube   *string `json:"youtube,omitempty"`
}

func (s Social) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *Social) Scan(value interface{}) error {
	if value == nil {
		*s = Social{}
		return nil
	}
	switch raw := value.(type) {
	case []byte:
		return json.Unmarshal(raw, s)
	case string:
		return json.Unmarshal([]byte(raw), s)
	default:
		return fmt.Errorf("social: unsupported scan type %T", value)
	}
}
