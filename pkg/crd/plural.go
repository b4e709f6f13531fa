package crd

import (
	"strings"

	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Pluralize converts the provided kind to its REST resource name
//
// The conversion follows the heuristic used by the Kubernetes REST
// mapper & does not consult the cluster's discovery API. Irregular
// kinds e.g. 'Analysis' are not pluralised correctly.
//
// credit: https://github.com/kubernetes/kubernetes/blob/v1.28.2/staging/src/k8s.io/apimachinery/pkg/api/meta/restmapper.go#L126
func Pluralize(kind string) string {
	singular := strings.ToLower(kind)
	if singular == "" || singular == "endpoints" {
		return singular
	}

	switch singular[len(singular)-1] {
	case 's':
		return singular + "es"
	case 'y':
		return strings.TrimSuffix(singular, "y") + "ies"
	}
	return singular + "s"
}

// GroupVersionResourceFor derives the REST coordinates of the
// provided apiVersion & kind
func GroupVersionResourceFor(apiVersion, kind string) (schema.GroupVersionResource, error) {
	if apiVersion == "" {
		return schema.GroupVersionResource{}, invalidInputf("missing apiVersion in resource")
	}
	if kind == "" {
		return schema.GroupVersionResource{}, invalidInputf("missing kind in resource")
	}
	if strings.Count(apiVersion, "/") != 1 {
		return schema.GroupVersionResource{}, invalidInputf(
			"invalid apiVersion %q: want <group>/<version>", apiVersion,
		)
	}
	group, version := splitAPIVersion(apiVersion)
	if group == "" || version == "" {
		return schema.GroupVersionResource{}, invalidInputf(
			"invalid apiVersion %q: want <group>/<version>", apiVersion,
		)
	}
	return schema.GroupVersionResource{
		Group:    group,
		Version:  version,
		Resource: Pluralize(kind),
	}, nil
}

func splitAPIVersion(apiVersion string) (group, version string) {
	idx := strings.LastIndex(apiVersion, "/")
	return apiVersion[:idx], apiVersion[idx+1:]
}

// validateGroupVersionResource ensures all the coordinates are set
func validateGroupVersionResource(gvr schema.GroupVersionResource) error {
	if gvr.Group == "" {
		return invalidInputf("missing group: %s", gvr)
	}
	if gvr.Version == "" {
		return invalidInputf("missing version: %s", gvr)
	}
	if gvr.Resource == "" {
		return invalidInputf("missing plural: %s", gvr)
	}
	return nil
}
