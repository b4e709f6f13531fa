package envutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetOrDefault(t *testing.T) {
	t.Setenv("CRDKIT_TEST_HOST", " http://from-env ")

	var scenarios = []struct {
		name     string
		secrets  map[string]string
		key      string
		fallback string
		expected string
	}{
		{
			name:     "should prefer secrets over environment",
			secrets:  map[string]string{"CRDKIT_TEST_HOST": "http://from-secrets"},
			key:      "CRDKIT_TEST_HOST",
			expected: "http://from-secrets",
		},
		{
			name:     "should fall back to the trimmed environment value",
			key:      "CRDKIT_TEST_HOST",
			expected: "http://from-env",
		},
		{
			name:     "should fall back to default when key is missing",
			key:      "CRDKIT_TEST_MISSING",
			fallback: "none",
			expected: "none",
		},
		{
			name:     "should fall back to default when secret is empty",
			secrets:  map[string]string{"CRDKIT_TEST_MISSING": " "},
			key:      "CRDKIT_TEST_MISSING",
			fallback: "none",
			expected: "none",
		},
	}

	for _, scenario := range scenarios {
		scenario := scenario // pin it
		t.Run(scenario.name, func(t *testing.T) {
			got := GetOrDefault(scenario.secrets, scenario.key, scenario.fallback)
			assert.Equal(t, scenario.expected, got)
		})
	}
}

func TestIsEnabled(t *testing.T) {
	assert.True(t, IsEnabled(map[string]string{"K": "True"}, "K", false))
	assert.False(t, IsEnabled(map[string]string{"K": "false"}, "K", true))
	assert.False(t, IsEnabled(map[string]string{"K": "yes"}, "K", true))
	assert.True(t, IsEnabled(nil, "CRDKIT_TEST_UNSET_BOOL", true))
}
