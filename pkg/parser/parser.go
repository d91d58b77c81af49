package parser

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mchurichi/ddattrs/pkg/attrs"
	"github.com/valyala/fastjson"
)

// Parser interface for different log formats
type Parser interface {
	Parse(line string) (*attrs.LogMetadata, *attrs.Report, error)
	CanParse(line string) bool
}

// JSONParser handles JSON object lines
type JSONParser struct {
	checker *attrs.Checker
	pool    fastjson.ParserPool
}

// NewJSONParser creates a new JSON parser
func NewJSONParser(checker *attrs.Checker) *JSONParser {
	if checker == nil {
		checker = attrs.NewChecker()
	}
	return &JSONParser{checker: checker}
}

// CanParse checks if the line is a JSON object
func (p *JSONParser) CanParse(line string) bool {
	fp := p.pool.Get()
	defer p.pool.Put(fp)

	v, err := fp.Parse(line)
	return err == nil && v.Type() == fastjson.TypeObject
}

// Parse decodes a JSON line and checks it against the reserved attributes
func (p *JSONParser) Parse(line string) (*attrs.LogMetadata, *attrs.Report, error) {
	return p.checker.Decode([]byte(line))
}

// LogfmtParser handles key=value log format (logfmt).
// Dotted keys under a reserved attribute build nested objects: http.method=GET.
type LogfmtParser struct {
	checker *attrs.Checker
}

// NewLogfmtParser creates a new logfmt parser
func NewLogfmtParser(checker *attrs.Checker) *LogfmtParser {
	if checker == nil {
		checker = attrs.NewChecker()
	}
	return &LogfmtParser{checker: checker}
}

// CanParse checks if the line looks like logfmt (key=value pairs)
func (p *LogfmtParser) CanParse(line string) bool {
	has := func(key string) bool {
		return strings.Contains(line, key+"=")
	}
	return has("msg") || has("message") ||
		((has("level") || has("status")) && (has("source") || has("time") || has("error") || has("service") || has("host")))
}

// Parse parses a logfmt line into LogMetadata
func (p *LogfmtParser) Parse(line string) (*attrs.LogMetadata, *attrs.Report, error) {
	fields := parseLogfmt(line)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	// Sorted so "http" is overwritten by "http.method", never the reverse
	sort.Strings(keys)

	doc := make(map[string]any)
	for _, k := range keys {
		setPath(doc, k, typedValue(k, fields[k]))
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode logfmt fields: %w", err)
	}
	return p.checker.Decode(data)
}

// typedValue converts a logfmt value to a number when the reserved attribute
// at key is numeric. Everything else stays text.
func typedValue(key, value string) any {
	kind, ok := attrs.KindOf(key)
	if !ok {
		return value
	}
	switch kind {
	case attrs.KindNumber:
		if _, err := strconv.ParseInt(value, 10, 64); err == nil {
			return json.Number(value)
		}
	case attrs.KindTextOrNumber:
		if _, err := strconv.ParseFloat(value, 64); err == nil {
			return json.Number(value)
		}
	}
	return value
}

// setPath stores value in doc. Keys whose first segment is a reserved
// attribute are nested, other dotted keys are kept literally.
func setPath(doc map[string]any, key string, value any) {
	head, _, dotted := strings.Cut(key, ".")
	if !dotted {
		doc[key] = value
		return
	}
	if _, reserved := attrs.KindOf(head); !reserved {
		doc[key] = value
		return
	}

	parts := strings.Split(key, ".")
	cur := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}

// parseLogfmt parses a logfmt-style line into key-value pairs.
// Handles: key=value, key="quoted value", key="value with \"escapes\""
func parseLogfmt(line string) map[string]string {
	result := make(map[string]string)
	i := 0
	n := len(line)

	for i < n {
		// Skip whitespace
		for i < n && line[i] == ' ' {
			i++
		}
		if i >= n {
			break
		}

		// Read key
		keyStart := i
		for i < n && line[i] != '=' && line[i] != ' ' {
			i++
		}
		if i >= n || line[i] != '=' {
			continue
		}
		key := line[keyStart:i]
		i++ // skip '='

		if i >= n {
			result[key] = ""
			break
		}

		// Read value
		var value string
		if line[i] == '"' {
			i++ // skip opening quote
			var b strings.Builder
			for i < n {
				if line[i] == '\\' && i+1 < n {
					b.WriteByte(line[i+1])
					i += 2
				} else if line[i] == '"' {
					i++ // skip closing quote
					break
				} else {
					b.WriteByte(line[i])
					i++
				}
			}
			value = b.String()
		} else {
			valStart := i
			for i < n && line[i] != ' ' {
				i++
			}
			value = line[valStart:i]
		}

		result[key] = value
	}

	return result
}
