package attrs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Version is a logger version given either as text or as a number.
// When Number is set it takes precedence and is encoded as a bare JSON number.
type Version struct {
	Text   string
	Number json.Number
}

// TextVersion returns a version encoded as a JSON string
func TextVersion(s string) *Version {
	return &Version{Text: s}
}

// NumberVersion returns a version encoded as a JSON number
func NumberVersion(n int64) *Version {
	return &Version{Number: json.Number(strconv.FormatInt(n, 10))}
}

// IsNumber reports whether the version is numeric
func (v Version) IsNumber() bool {
	return v.Number != ""
}

func (v Version) String() string {
	if v.IsNumber() {
		return v.Number.String()
	}
	return v.Text
}

// MarshalJSON implements json.Marshaler
func (v Version) MarshalJSON() ([]byte, error) {
	if v.IsNumber() {
		if _, err := v.Number.Float64(); err != nil {
			return nil, fmt.Errorf("invalid numeric version %q: %w", v.Number, err)
		}
		return []byte(v.Number), nil
	}
	return encodeJSON(v.Text)
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Version) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Version{Text: s}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	n, ok := raw.(json.Number)
	if !ok {
		return fmt.Errorf("version must be text or a number, got %s", data)
	}
	*v = Version{Number: n}
	return nil
}
