// Package models defines the records the console manages (ads and users)
// and the generic contract the resource manager works against.
package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrReadOnlyField = errors.New("read-only field")
)

// Record is implemented by every entity the console manages. T is the
// concrete value type, so edits stay typed.
type Record[T any] interface {
	GetID() string
	// Fields lists field names in display order; "id" is always first.
	Fields() []string
	Value(field string) any
	// With returns a copy with field set from its text form.
	With(field, text string) (T, error)
}

func parseBool(field, text string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "yes", "y":
		return true, nil
	case "no", "n", "":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(text))
	if err != nil {
		return false, fmt.Errorf("%s: %q is not a boolean", field, text)
	}
	return b, nil
}
