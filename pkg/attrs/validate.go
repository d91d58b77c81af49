package attrs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Checker validates and decodes log metadata. It is safe for concurrent use.
type Checker struct {
	validate      *validator.Validate
	allowBooleans bool
}

// Option configures a Checker.
type Option func(*Checker)

// AllowBooleans accepts true/false as values of non-reserved attributes.
func AllowBooleans(allow bool) Option {
	return func(c *Checker) {
		c.allowBooleans = allow
	}
}

// NewChecker creates a Checker
func NewChecker(opts ...Option) *Checker {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return jsonName(f)
	})
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("ddstatus", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("httpmethod", func(fl validator.FieldLevel) bool {
		return HTTPMethod(fl.Field().String()).Valid()
	})

	c := &Checker{validate: v}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultChecker = NewChecker()

// Validate checks m with the default Checker
func Validate(m *LogMetadata) *Report {
	return defaultChecker.Validate(m)
}

// Decode decodes and checks data with the default Checker
func Decode(data []byte) (*LogMetadata, *Report, error) {
	return defaultChecker.Decode(data)
}

// Validate reports every enumeration, range and extra-value violation in m
// and lists its non-reserved attributes.
func (c *Checker) Validate(m *LogMetadata) *Report {
	r := &Report{}
	if m == nil {
		return r
	}

	if err := c.validate.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			r.violate("", nil, err.Error())
			return r
		}
		for _, fe := range verrs {
			r.violate(fieldPath(fe.Namespace()), fe.Value(), reason(fe))
		}
	}

	for k, v := range m.Extra {
		if isReserved(k) {
			r.violate(k, v, "reserved attribute set through Extra")
			continue
		}
		r.unknown(k)
		if !c.extraValueOK(v) {
			r.violate(k, v, "must be null, text, a number or an object")
		}
	}

	r.sort()
	return r
}

// Decode parses a JSON object into LogMetadata. Malformed JSON or a
// non-object root is an error. Values of the wrong JSON type are reported
// and dropped; enumeration and range violations are reported and kept, so
// the returned value still shows what the producer sent.
func (c *Checker) Decode(data []byte) (*LogMetadata, *Report, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, nil, fmt.Errorf("failed to decode metadata: unexpected data after object")
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, nil, ErrNotObject
	}

	shape := &Report{}
	cleaned := make(map[string]any, len(obj))
	for k, v := range obj {
		n, reserved := root.children[k]
		if !reserved {
			// Unknown keys are listed by Validate below.
			if !c.extraValueOK(v) {
				shape.violate(k, v, "must be null, text, a number or an object")
				continue
			}
			cleaned[k] = v
			continue
		}
		if out, keep := n.check(k, v, shape); keep {
			cleaned[k] = out
		}
	}

	buf, err := json.Marshal(cleaned)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to re-encode metadata: %w", err)
	}
	m := &LogMetadata{}
	if err := json.Unmarshal(buf, m); err != nil {
		return nil, nil, fmt.Errorf("failed to decode metadata: %w", err)
	}

	r := c.Validate(m)
	r.Merge(shape)
	r.sort()
	return m, r, nil
}

func (c *Checker) extraValueOK(v any) bool {
	if v == nil {
		return true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool:
		return c.allowBooleans
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Map, reflect.Struct, reflect.Slice, reflect.Array, reflect.Ptr:
		return true
	default:
		return false
	}
}

// check verifies that v fits n. It returns the value to keep, with unknown
// and offending nested keys removed, and false when v must be dropped.
func (n *node) check(path string, v any, r *Report) (any, bool) {
	if v == nil {
		// null is treated as absent
		return nil, false
	}

	switch n.kind {
	case KindText, KindStatus, KindHTTPMethod:
		if _, ok := v.(string); !ok {
			r.violate(path, v, "must be text")
			return nil, false
		}
	case KindNumber:
		num, ok := v.(json.Number)
		if !ok {
			r.violate(path, v, "must be a number")
			return nil, false
		}
		if _, err := strconv.ParseInt(num.String(), 10, 64); err != nil {
			r.violate(path, v, "must be an integer")
			return nil, false
		}
	case KindTextOrNumber:
		switch v.(type) {
		case string, json.Number:
		default:
			r.violate(path, v, "must be text or a number")
			return nil, false
		}
	case KindAnyObject:
		if _, ok := v.(map[string]any); !ok {
			r.violate(path, v, "must be an object")
			return nil, false
		}
	case KindObject:
		obj, ok := v.(map[string]any)
		if !ok {
			r.violate(path, v, "must be an object")
			return nil, false
		}
		out := make(map[string]any, len(obj))
		for k, child := range obj {
			childPath := path + "." + k
			cn, known := n.children[k]
			if !known {
				r.unknown(childPath)
				continue
			}
			if val, keep := cn.check(childPath, child, r); keep {
				out[k] = val
			}
		}
		return out, true
	}
	return v, true
}

// fieldPath strips the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "ddstatus":
		return "must be one of " + joinStatuses()
	case "httpmethod":
		return "must be one of " + joinMethods()
	case "gte":
		return "must be non-negative"
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func joinStatuses() string {
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

func joinMethods() string {
	parts := make([]string, len(httpMethods))
	for i, m := range httpMethods {
		parts[i] = string(m)
	}
	return strings.Join(parts, ", ")
}
