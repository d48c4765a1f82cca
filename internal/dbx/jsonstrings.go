package dbx

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONStrings maps a []string onto a jsonb column. The document-style sets
// on the user row (following, favorites) are stored this way so membership
// can be queried with jsonb containment.
type JSONStrings []string

func (s JSONStrings) Value() (driver.Value, error) {
	if s == nil {
		s = JSONStrings{}
	}
	return json.Marshal([]string(s))
}

func (s *JSONStrings) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		return json.Unmarshal(v, (*[]string)(s))
	case string:
		return json.Unmarshal([]byte(v), (*[]string)(s))
	default:
		return fmt.Errorf("cannot scan %T into JSONStrings", src)
	}
}
