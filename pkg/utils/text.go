package utils

import "strings"

// CollapseWhitespace trims s and collapses every internal run of
// whitespace (including newlines from multi-line anchor markup) into a
// single space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
