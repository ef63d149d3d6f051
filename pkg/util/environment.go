package util

import (
	"os"
	"strings"
)

// GetEnvironmentVariables returns the process environment as a map, keeping only keys with the given prefix
func GetEnvironmentVariables(prefix string) map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		key, value, found := strings.Cut(variable, "=")

		if found && strings.HasPrefix(key, prefix) {
			environmentVariables[key] = value
		}
	}

	return environmentVariables
}
