package util

import "strings"

// NormaliseName lower cases a stop or destination name and treats hyphens as spaces,
// so "Saint-Cyprien" and "saint cyprien" compare equal
func NormaliseName(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "-", " ")
}

func TrimString(s string, length int) string {
	if len(s) <= length {
		return s
	}

	return s[:length]
}
