package server

import (
	"strconv"
	"strings"
)

// parseOptionalBool parses a form value into a bool pointer; an empty
// value means "not set".
func parseOptionalBool(raw string) (*bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// parseOptionalInt parses a form value into an int, returning def when
// the value is empty.
func parseOptionalInt(raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
