package crd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadBody(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	widgetFile := writeFile(t, dir, "widget.yaml", `
apiVersion: example.com/v1
kind: Widget
metadata:
  name: w1
spec:
  size: 3
`)
	patchFile := writeFile(t, dir, "patch.yaml", `
- op: replace
  path: /spec/size
  value: 5
`)
	missingFile := filepath.Join(dir, "missing.yaml")
	inMemory := map[string]interface{}{"kind": "Widget"}

	var scenarios = []struct {
		name          string
		body          Body
		expected      interface{}
		isError       bool
		errorContains string
	}{
		{
			name:          "should fail when no source is set",
			body:          Body{},
			isError:       true,
			errorContains: "must be set",
		},
		{
			name:          "should fail when the file does not exist",
			body:          Body{YAMLFile: missingFile},
			isError:       true,
			errorContains: missingFile,
		},
		{
			name:          "should fail when the path is a directory",
			body:          Body{YAMLFile: dir},
			isError:       true,
			errorContains: dir,
		},
		{
			name:     "should return the in memory object unchanged",
			body:     Body{Object: inMemory},
			expected: inMemory,
		},
		{
			name:     "should prefer the in memory object over the file",
			body:     Body{Object: inMemory, YAMLFile: missingFile},
			expected: inMemory,
		},
		{
			name: "should parse the yaml file into a document",
			body: Body{YAMLFile: widgetFile},
			expected: map[string]interface{}{
				"apiVersion": "example.com/v1",
				"kind":       "Widget",
				"metadata":   map[string]interface{}{"name": "w1"},
				"spec":       map[string]interface{}{"size": float64(3)},
			},
		},
		{
			name: "should parse a yaml list into a json patch document",
			body: Body{YAMLFile: patchFile},
			expected: []interface{}{
				map[string]interface{}{"op": "replace", "path": "/spec/size", "value": float64(5)},
			},
		},
	}

	for _, scenario := range scenarios {
		scenario := scenario // pin it
		t.Run(scenario.name, func(t *testing.T) {
			t.Parallel()

			got, err := LoadBody(scenario.body)
			if scenario.isError {
				assert.Error(t, err)
				assert.True(t, IsInvalidInput(err), "want invalid input got %v", err)
				assert.Contains(t, err.Error(), scenario.errorContains)
				return
			}
			assert.NoError(t, err)
			assert.Empty(t, cmp.Diff(scenario.expected, got))
		})
	}
}
