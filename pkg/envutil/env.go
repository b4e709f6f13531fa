// Package envutil resolves connection parameters that may be supplied
// either as experiment secrets or as environment variables. Secrets
// always take precedence over the environment.
package envutil

import (
	"os"
	"strings"
)

// string representations of boolean true & boolean false
var _falsy = "false"
var _truthy = "true"

// Lookup returns the trimmed value of the key from the provided
// secrets, falling back to the process environment
func Lookup(secrets map[string]string, key string) (string, bool) {
	if val, found := secrets[key]; found {
		return strings.TrimSpace(val), true
	}
	val, found := os.LookupEnv(key)
	if !found {
		return "", false
	}
	return strings.TrimSpace(val), true
}

// GetOrDefault returns the fallback if the key is either not found
// or is set to an empty value
func GetOrDefault(secrets map[string]string, key string, fallback string) string {
	val, _ := Lookup(secrets, key)
	if val == "" {
		return fallback
	}
	return val
}

// IsEnabled returns the boolean representation of the key. Values
// other than true or false are treated as false.
func IsEnabled(secrets map[string]string, key string, fallback bool) bool {
	var fb = _falsy
	if fallback {
		fb = _truthy
	}
	v := strings.ToLower(GetOrDefault(secrets, key, fb))
	if v != _truthy && v != _falsy {
		v = _falsy
	}
	return v == _truthy
}
