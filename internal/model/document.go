package model

import (
	"encoding/json"
	"fmt"
)

// Collection names of the three logical document collections.
const (
	Developments = "developments"
	UnitModels   = "unit_models"
	Developers   = "developers"
)

// Doc converts a record into the generic document form the store consumes.
// Optional fields are pointers with omitempty tags, so absent fields never
// appear in the document and merge writes leave them untouched.
func Doc(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}

// StatusList holds the sale-stage tags of a unit model. Historical documents
// store a single string; newer ones store a list. It marshals back to a bare
// string when it holds exactly one tag.
type StatusList []string

func (s StatusList) MarshalJSON() ([]byte, error) {
	if len(s) == 1 {
		return json.Marshal(s[0])
	}
	return json.Marshal([]string(s))
}

func (s *StatusList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = StatusList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = StatusList(many)
	return nil
}
