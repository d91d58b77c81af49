package attrs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// plainMetadata has the fields of LogMetadata without its JSON methods.
type plainMetadata LogMetadata

// Marshal encodes m as a single JSON object
func Marshal(m *LogMetadata) ([]byte, error) {
	return encodeJSON(m)
}

// encodeJSON is json.Marshal without HTML escaping of <, > and &.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// MarshalJSON encodes the reserved fields and Extra as one object.
// Extra keys that name a reserved attribute are skipped.
func (m LogMetadata) MarshalJSON() ([]byte, error) {
	known, err := encodeJSON(plainMetadata(m))
	if err != nil {
		return nil, err
	}
	if len(m.Extra) == 0 {
		return known, nil
	}

	merged := make(map[string]json.RawMessage)
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for k, v := range m.Extra {
		if isReserved(k) {
			continue
		}
		raw, err := encodeJSON(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode attribute %q: %w", k, err)
		}
		merged[k] = raw
	}
	return encodeJSON(merged)
}

// UnmarshalJSON decodes reserved keys into the typed fields and keeps every
// other key in Extra. Numbers in Extra are kept as json.Number.
func (m *LogMetadata) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	// Only exact reserved names reach the typed decode; encoding/json would
	// otherwise match "HOST" to Host.
	known := make(map[string]json.RawMessage)
	var extra map[string]any
	for k, v := range raw {
		if isReserved(k) {
			known[k] = v
			continue
		}
		val, err := decodeValue(v)
		if err != nil {
			return fmt.Errorf("failed to decode attribute %q: %w", k, err)
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[k] = val
	}

	knownData, err := json.Marshal(known)
	if err != nil {
		return err
	}
	var plain plainMetadata
	dec := json.NewDecoder(bytes.NewReader(knownData))
	dec.UseNumber()
	if err := dec.Decode(&plain); err != nil {
		return err
	}
	plain.Extra = extra
	*m = LogMetadata(plain)
	return nil
}

// decodeValue decodes a single JSON value, keeping numbers as json.Number.
func decodeValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return v, nil
}

// ToMap returns m as a generic map, the shape it has on the wire
func ToMap(m *LogMetadata) (map[string]any, error) {
	if m == nil {
		return map[string]any{}, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	v, err := decodeValue(data)
	if err != nil {
		return nil, err
	}
	return v.(map[string]any), nil
}

// Lookup returns the value at a dotted path such as "http.url_details.port".
// Extra attributes are addressed the same way.
func Lookup(m *LogMetadata, path string) (any, bool) {
	fields, err := ToMap(m)
	if err != nil {
		return nil, false
	}
	return LookupPath(fields, path)
}

// LookupPath resolves a dotted path in a map returned by ToMap
func LookupPath(fields map[string]any, path string) (any, bool) {
	// A literal dotted key in Extra wins over nesting.
	if v, ok := fields[path]; ok {
		return v, true
	}
	head, rest, nested := strings.Cut(path, ".")
	if !nested {
		return nil, false
	}
	child, ok := fields[head].(map[string]any)
	if !ok {
		return nil, false
	}
	return LookupPath(child, rest)
}

// MarshalYAML renders m with the same keys and nesting as its JSON form
func (m LogMetadata) MarshalYAML() (interface{}, error) {
	fields, err := ToMap(&m)
	if err != nil {
		return nil, err
	}
	return yamlValue(fields), nil
}

// yamlValue turns json.Number into native numbers so they are not quoted.
func yamlValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if isInteger(val.String()) {
			// Beyond int64: keep the literal digits.
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: val.String()}
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: val.String()}
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = yamlValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = yamlValue(item)
		}
		return out
	default:
		return v
	}
}

func isInteger(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
