package utils

import (
	"strconv"
	"strings"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// ParseFloat converts string to a positive float64, falling back to defaultValue
func ParseFloat(value string, defaultValue float64) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultValue
	}

	result, err := strconv.ParseFloat(value, 64)
	if err != nil || result <= 0 {
		return defaultValue
	}

	return result
}

// NormalizeEmail lower-cases and trims an address before lookups and inserts
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
