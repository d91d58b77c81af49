package attrs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotObject is returned when encoded metadata is not a JSON object.
var ErrNotObject = errors.New("metadata is not a JSON object")

// ShapeViolation reports a field whose value is outside its declared domain.
type ShapeViolation struct {
	Field  string // dotted path, e.g. "http.method"
	Value  any
	Reason string
}

func (v ShapeViolation) String() string {
	return fmt.Sprintf("%s: %s (got %v)", v.Field, v.Reason, v.Value)
}

// UnknownField notes a key outside the reserved set. It is never an error.
type UnknownField struct {
	Field string
}

// Report collects every finding of a validation pass.
type Report struct {
	Violations []ShapeViolation
	Unknown    []UnknownField
}

// OK reports whether no violation was found
func (r *Report) OK() bool {
	return r == nil || len(r.Violations) == 0
}

// Err returns a *ValidationError holding every violation, or nil
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	return &ValidationError{Violations: r.Violations}
}

// Merge appends the findings of other to r
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
	r.Unknown = append(r.Unknown, other.Unknown...)
}

// HasViolation reports whether field has at least one violation
func (r *Report) HasViolation(field string) bool {
	if r == nil {
		return false
	}
	for _, v := range r.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

func (r *Report) violate(field string, value any, reason string) {
	r.Violations = append(r.Violations, ShapeViolation{Field: field, Value: value, Reason: reason})
}

func (r *Report) unknown(field string) {
	r.Unknown = append(r.Unknown, UnknownField{Field: field})
}

func (r *Report) sort() {
	sort.SliceStable(r.Violations, func(i, j int) bool {
		return r.Violations[i].Field < r.Violations[j].Field
	})
	sort.SliceStable(r.Unknown, func(i, j int) bool {
		return r.Unknown[i].Field < r.Unknown[j].Field
	})
}

// ValidationError is returned when metadata has one or more shape violations.
type ValidationError struct {
	Violations []ShapeViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("%d shape violation(s): %s", len(e.Violations), strings.Join(parts, "; "))
}
