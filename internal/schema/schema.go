// Package schema validates and defaults lead records. Each validate
// function is pure and total: it either fills documented defaults in
// place and returns nil, or returns a *ValidationError enumerating
// every violated field path. Validating an already-valid record is a
// no-op, so validation is idempotent.
package schema

import (
	"fmt"
	"strings"
)

// FieldError describes a single violated field.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError aggregates all field violations found in one pass.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Path + ": " + f.Message
	}
	return fmt.Sprintf("validation failed (%d fields): %s", len(e.Fields), strings.Join(parts, "; "))
}

func (e *ValidationError) add(path, message string) {
	e.Fields = append(e.Fields, FieldError{Path: path, Message: message})
}

// err returns nil when no violations were recorded, so callers can
// return it directly as an error value.
func (e *ValidationError) err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// joinPath prefixes a field name with its parent path.
func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
