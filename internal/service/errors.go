package service

import (
	"errors"
	"strings"
)

// ErrBadRequest - the request is structurally inconsistent, e.g. the path id
// and the body id disagree. Detected before any storage call.
var ErrBadRequest = errors.New("path and body identifiers do not match")

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field-level rule violation found in one
// pass, so the caller can fix all of them before resubmitting.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
