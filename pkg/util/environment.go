package util

import (
	"os"
	"strings"
)

// GetEnvironmentVariables returns the process environment as a map so
// callers can look up CURBWISE_* settings without repeated os.Getenv.
func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		key, value, found := strings.Cut(variable, "=")
		if !found {
			continue
		}

		environmentVariables[key] = value
	}

	return environmentVariables
}
