package utils

import (
	"strconv"
)

// StringToInt converts string to int, returns 0 if error
func StringToInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

// ClampLimit parses a page size, falling back to def and capping at max.
func ClampLimit(s string, def, max int) int {
	n := StringToInt(s)
	switch {
	case n <= 0:
		return def
	case n > max:
		return max
	}
	return n
}
