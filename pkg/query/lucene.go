package query

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mchurichi/ddattrs/pkg/attrs"
)

// Query represents a parsed Lucene-style query over log metadata
type Query struct {
	filters []Filter
}

// Filter represents a query filter condition. Records are given in their
// wire shape, as returned by attrs.ToMap.
type Filter interface {
	Match(record map[string]any) bool
}

// Parse parses a Lucene-style query string
func Parse(queryStr string) (*Query, error) {
	if strings.TrimSpace(queryStr) == "" || queryStr == "*" {
		return &Query{filters: []Filter{&AllFilter{}}}, nil
	}

	parser := &parser{
		input: queryStr,
		pos:   0,
	}

	filter, err := parser.parse()
	if err != nil {
		return nil, err
	}
	parser.skipWhitespace()
	if parser.pos < len(parser.input) {
		return nil, fmt.Errorf("unexpected %q at position %d", parser.input[parser.pos:], parser.pos)
	}

	return &Query{filters: []Filter{filter}}, nil
}

// Match checks if metadata matches the query
func (q *Query) Match(m *attrs.LogMetadata) bool {
	record, err := attrs.ToMap(m)
	if err != nil {
		return false
	}
	return q.MatchRecord(record)
}

// MatchRecord checks if a record in wire shape matches the query
func (q *Query) MatchRecord(record map[string]any) bool {
	for _, filter := range q.filters {
		if !filter.Match(record) {
			return false
		}
	}
	return true
}

// parser implements a simple Lucene query parser
type parser struct {
	input string
	pos   int
}

func (p *parser) parse() (Filter, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (Filter, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for {
		p.skipWhitespace()
		if p.peekKeyword("OR") {
			p.consume(2)
			p.skipWhitespace()
			right, err := p.parseAnd()
			if err != nil {
				return nil, err
			}
			left = &OrFilter{Left: left, Right: right}
		} else {
			break
		}
	}

	return left, nil
}

func (p *parser) parseAnd() (Filter, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for {
		p.skipWhitespace()
		if p.peekKeyword("AND") {
			p.consume(3)
			p.skipWhitespace()
			right, err := p.parseNot()
			if err != nil {
				return nil, err
			}
			left = &AndFilter{Left: left, Right: right}
		} else if p.pos < len(p.input) && !p.peekKeyword("OR") && !p.peekChar(')') {
			// Implicit AND
			right, err := p.parseNot()
			if err != nil {
				return nil, err
			}
			left = &AndFilter{Left: left, Right: right}
		} else {
			break
		}
	}

	return left, nil
}

func (p *parser) parseNot() (Filter, error) {
	p.skipWhitespace()
	if p.peekKeyword("NOT") {
		p.consume(3)
		p.skipWhitespace()
		filter, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &NotFilter{Filter: filter}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Filter, error) {
	p.skipWhitespace()

	// Handle parentheses
	if p.peekChar('(') {
		p.consume(1)
		filter, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		p.skipWhitespace()
		if !p.peekChar(')') {
			return nil, fmt.Errorf("expected closing parenthesis")
		}
		p.consume(1)
		return filter, nil
	}

	token := p.readToken()
	if token == "" {
		return nil, fmt.Errorf("unexpected end of query")
	}

	// Quoted keyword
	if strings.HasPrefix(token, "\"") {
		return &KeywordFilter{Keyword: strings.Trim(token, "\"")}, nil
	}

	// field:value, the field being a dotted attribute path
	if field, value, ok := strings.Cut(token, ":"); ok && field != "" {
		if strings.HasPrefix(value, "[") {
			return p.parseRange(field, value)
		}

		if strings.HasPrefix(value, "\"") {
			value = strings.Trim(value, "\"")
			return &FieldFilter{Field: field, Value: value, Exact: true}, nil
		}

		if strings.Contains(value, "*") {
			return &WildcardFilter{Field: field, Pattern: value}, nil
		}

		return &FieldFilter{Field: field, Value: value, Exact: false}, nil
	}

	// Keyword search (searches every attribute value)
	return &KeywordFilter{Keyword: token}, nil
}

func (p *parser) parseRange(field, rangeStr string) (Filter, error) {
	// Range format: [start TO end], * leaves a side open
	if !strings.HasSuffix(rangeStr, "]") {
		return nil, fmt.Errorf("invalid range format")
	}
	rangeStr = strings.TrimPrefix(rangeStr, "[")
	rangeStr = strings.TrimSuffix(rangeStr, "]")

	parts := strings.Split(rangeStr, " TO ")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid range format")
	}

	filter := &NumericRangeFilter{Field: field}
	var err error
	if filter.Start, filter.HasStart, err = p.parseBound(parts[0]); err != nil {
		return nil, err
	}
	if filter.End, filter.HasEnd, err = p.parseBound(parts[1]); err != nil {
		return nil, err
	}
	return filter, nil
}

func (p *parser) parseBound(val string) (float64, bool, error) {
	val = strings.TrimSpace(val)
	if val == "*" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid range bound %q", val)
	}
	return f, true, nil
}

// readToken reads up to the next unquoted, unbracketed space or parenthesis.
func (p *parser) readToken() string {
	start := p.pos
	inQuote := false
	inRange := false

	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		switch {
		case inQuote:
			if ch == '"' {
				inQuote = false
			}
		case inRange:
			if ch == ']' {
				inRange = false
			}
		case ch == '"':
			inQuote = true
		case ch == '[':
			inRange = true
		case ch == ' ' || ch == '(' || ch == ')':
			return p.input[start:p.pos]
		}
		p.pos++
	}

	return p.input[start:p.pos]
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) peek(str string) bool {
	if p.pos+len(str) > len(p.input) {
		return false
	}
	return p.input[p.pos:p.pos+len(str)] == str
}

// peekKeyword matches an operator followed by a space, a parenthesis or the end.
func (p *parser) peekKeyword(word string) bool {
	if !p.peek(word) {
		return false
	}
	next := p.pos + len(word)
	return next == len(p.input) || p.input[next] == ' ' || p.input[next] == '('
}

func (p *parser) peekChar(ch byte) bool {
	if p.pos >= len(p.input) {
		return false
	}
	return p.input[p.pos] == ch
}

func (p *parser) consume(n int) {
	p.pos += n
}

// text renders a scalar attribute value for comparison.
func text(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case map[string]any, []any:
		return "", false
	default:
		return fmt.Sprintf("%v", val), true
	}
}

// Filter implementations

// AllFilter matches all records
type AllFilter struct{}

func (f *AllFilter) Match(record map[string]any) bool {
	return true
}

// AndFilter combines two filters with AND logic
type AndFilter struct {
	Left  Filter
	Right Filter
}

func (f *AndFilter) Match(record map[string]any) bool {
	return f.Left.Match(record) && f.Right.Match(record)
}

// OrFilter combines two filters with OR logic
type OrFilter struct {
	Left  Filter
	Right Filter
}

func (f *OrFilter) Match(record map[string]any) bool {
	return f.Left.Match(record) || f.Right.Match(record)
}

// NotFilter negates a filter
type NotFilter struct {
	Filter Filter
}

func (f *NotFilter) Match(record map[string]any) bool {
	return !f.Filter.Match(record)
}

// FieldFilter matches the value at a dotted attribute path
type FieldFilter struct {
	Field string
	Value string
	Exact bool
}

func (f *FieldFilter) Match(record map[string]any) bool {
	v, ok := attrs.LookupPath(record, f.Field)
	if !ok {
		return false
	}
	value, ok := text(v)
	if !ok {
		return false
	}

	if f.Exact {
		return value == f.Value
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(f.Value))
}

// KeywordFilter searches across every attribute value
type KeywordFilter struct {
	Keyword string
}

func (f *KeywordFilter) Match(record map[string]any) bool {
	return containsKeyword(record, strings.ToLower(f.Keyword))
}

func containsKeyword(v any, keyword string) bool {
	switch val := v.(type) {
	case map[string]any:
		for _, item := range val {
			if containsKeyword(item, keyword) {
				return true
			}
		}
		return false
	case []any:
		for _, item := range val {
			if containsKeyword(item, keyword) {
				return true
			}
		}
		return false
	default:
		s, ok := text(val)
		return ok && strings.Contains(strings.ToLower(s), keyword)
	}
}

// WildcardFilter matches attribute values with wildcards
type WildcardFilter struct {
	Field   string
	Pattern string
}

func (f *WildcardFilter) Match(record map[string]any) bool {
	v, ok := attrs.LookupPath(record, f.Field)
	if !ok {
		return false
	}
	value, ok := text(v)
	if !ok {
		return false
	}

	// Convert wildcard pattern to regex
	parts := strings.Split(f.Pattern, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	pattern := "^" + strings.Join(parts, ".*") + "$"
	matched, _ := regexp.MatchString("(?i)"+pattern, value)
	return matched
}

// NumericRangeFilter filters numeric attribute values, bounds inclusive
type NumericRangeFilter struct {
	Field    string
	Start    float64
	End      float64
	HasStart bool
	HasEnd   bool
}

func (f *NumericRangeFilter) Match(record map[string]any) bool {
	v, ok := attrs.LookupPath(record, f.Field)
	if !ok {
		return false
	}

	var value float64
	switch val := v.(type) {
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return false
		}
		value = parsed
	case float64:
		value = val
	case int64:
		value = float64(val)
	case string:
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return false
		}
		value = parsed
	default:
		return false
	}

	if f.HasStart && value < f.Start {
		return false
	}
	if f.HasEnd && value > f.End {
		return false
	}
	return true
}
