package crd

import (
	"os"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// Body defines the sources a resource body can be loaded from
//
// Object takes precedence over YAMLFile when both are set
type Body struct {
	// Object is an already parsed document e.g. a map or a list of
	// JSON Patch operations
	Object interface{}

	// YAMLFile is the path to a YAML or JSON document
	YAMLFile string
}

// IsEmpty returns true if neither of the sources is set
func (b Body) IsEmpty() bool {
	return b.Object == nil && b.YAMLFile == ""
}

// LoadBody resolves the resource body from the provided sources
func LoadBody(body Body) (interface{}, error) {
	if body.IsEmpty() {
		return nil, invalidInputf("either a resource object or a resource YAML file must be set")
	}

	if body.Object != nil {
		return body.Object, nil
	}

	fi, err := os.Stat(body.YAMLFile)
	if err != nil || !fi.Mode().IsRegular() {
		return nil, invalidInputf("path %q is not a valid resource file", body.YAMLFile)
	}

	raw, err := os.ReadFile(body.YAMLFile)
	if err != nil {
		return nil, errors.Wrapf(err, "read resource file %q", body.YAMLFile)
	}

	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, invalidInputf("path %q is not a valid YAML document: %s", body.YAMLFile, err)
	}
	return doc, nil
}
