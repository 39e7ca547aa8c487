package utils

import (
	"fmt"
	"strings"
)

// NewNullString is a helper for string pointers, returning nil if string is empty.
// Useful for fields that are optional and should be NULL in DB if not provided.
func NewNullString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// NullIfEmpty normalizes optional request fields: nil and blank both become nil.
func NullIfEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	return NewNullString(*s)
}

// PadNumber renders n zero-padded to width digits, e.g. PadNumber(7, 4) == "0007".
func PadNumber(n int64, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}
