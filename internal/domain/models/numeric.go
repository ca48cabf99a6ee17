package models

import (
	"encoding/json"
	"strings"
)

// NumericText is a form field that riders fill in as free text. It accepts a JSON
// number, a JSON string or null, and keeps the raw text so that parsing (and the
// zero default for garbage) happens in one place.
type NumericText struct {
	Raw     string
	Present bool
}

// Text builds a NumericText from a raw string, mostly for tests and internal callers.
func Text(raw string) NumericText {
	return NumericText{Raw: raw, Present: strings.TrimSpace(raw) != ""}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NumericText) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*n = NumericText{}
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Text(s)
		return nil
	}

	*n = NumericText{Raw: trimmed, Present: true}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n NumericText) MarshalJSON() ([]byte, error) {
	if !n.Present {
		return []byte("null"), nil
	}
	return json.Marshal(n.Raw)
}
