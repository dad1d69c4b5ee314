// Package validation checks decoded JSON request bodies against declarative
// rule tables and returns the normalized values.
//
// A Schema lists its fields; each string field is an ordered list of Steps.
// A step either checks the current value (recording its message on failure)
// or transforms it. Steps run in order, so a check only sees the transforms
// declared before it. Every failing check of every field is reported.
package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Step is one entry of a field's rule list: a Check with its Message, or a
// Transform.
type Step struct {
	Check     func(string) bool
	Message   string
	Transform func(string) string
}

// Check builds a predicate step.
func Check(fn func(string) bool, message string) Step {
	return Step{Check: fn, Message: message}
}

// Transform builds a normalizing step.
func Transform(fn func(string) string) Step {
	return Step{Transform: fn}
}

// Field describes one key of a Schema. Exactly one of Steps or Object is
// expected to be set.
type Field struct {
	Name   string
	Steps  []Step
	Object *Schema
}

// Schema is an ordered set of fields. Keys not listed are dropped from the
// output.
type Schema struct {
	Fields []Field
}

// FieldError is a failed check, Field being the dot-joined path to the value.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is returned by Parse when any check fails.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// IsValidationError reports whether err carries field errors.
func IsValidationError(err error) bool {
	var vErr *Error
	return errors.As(err, &vErr)
}

// Parse validates input, which must be a decoded JSON object, and returns the
// normalized copy. On failure the error is an *Error.
func (s *Schema) Parse(input any) (map[string]any, error) {
	var issues []FieldError
	out := s.parse(nil, input, &issues)
	if len(issues) > 0 {
		return nil, &Error{Fields: issues}
	}
	return out, nil
}

func (s *Schema) parse(path []string, input any, issues *[]FieldError) map[string]any {
	obj, ok := input.(map[string]any)
	if !ok {
		addIssue(issues, path, expected("object", input))
		return nil
	}

	out := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		fieldPath := append(append([]string(nil), path...), f.Name)

		raw, present := obj[f.Name]
		if !present {
			addIssue(issues, fieldPath, "Required")
			continue
		}

		if f.Object != nil {
			if v := f.Object.parse(fieldPath, raw, issues); v != nil {
				out[f.Name] = v
			}
			continue
		}

		str, ok := raw.(string)
		if !ok {
			addIssue(issues, fieldPath, expected("string", raw))
			continue
		}

		failed := false
		for _, step := range f.Steps {
			if step.Transform != nil {
				str = step.Transform(str)
				continue
			}
			if !step.Check(str) {
				addIssue(issues, fieldPath, step.Message)
				failed = true
			}
		}
		if !failed {
			out[f.Name] = str
		}
	}
	return out
}

func addIssue(issues *[]FieldError, path []string, message string) {
	*issues = append(*issues, FieldError{Field: strings.Join(path, "."), Message: message})
}

func expected(want string, got any) string {
	return fmt.Sprintf("Expected %s, received %s", want, jsonType(got))
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
