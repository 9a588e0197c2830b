package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Unique-violation message fragments for the dialects this app runs on:
// postgres (SQLSTATE 23505) and sqlite (error 2067).
var uniqueViolationFragments = []string{
	"duplicate key value violates unique constraint",
	"UNIQUE constraint failed",
}

// IsDuplicateKeyErr reports whether err is a unique-constraint
// violation, letting services map races on unique columns to their own
// conflict errors.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	for _, fragment := range uniqueViolationFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
