package crd

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/util/json"
	"sigs.k8s.io/yaml"

	"github.com/simplekube/crdkit/pkg/k8sutil"
)

// ApplyFromJSON creates the custom object described by the provided
// JSON document. Coordinates are derived from its apiVersion & kind
// while the namespace defaults to 'default'.
func ApplyFromJSON(ctx context.Context, resource string, options ...RunOption) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(resource), &doc); err != nil {
		return nil, invalidInputf("resource is not a valid JSON document: %s", err)
	}
	return applyDocument(ctx, doc, options...)
}

// ApplyFromYAML creates the custom object described by the provided
// YAML document
func ApplyFromYAML(ctx context.Context, resource string, options ...RunOption) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal([]byte(resource), &doc); err != nil {
		return nil, invalidInputf("resource is not a valid YAML document: %s", err)
	}
	return applyDocument(ctx, doc, options...)
}

// ApplyManifests creates the custom objects found in the provided YAML
// or JSON files & directories. Objects are applied in a stable order &
// every object is attempted even if an earlier one failed.
func ApplyManifests(ctx context.Context, paths []string, options ...RunOption) ([]map[string]interface{}, error) {
	objs, err := k8sutil.LoadSortedManifests(paths)
	if err != nil {
		return nil, err
	}
	if len(objs) == 0 {
		return nil, invalidInputf("no kubernetes objects found: %q", paths)
	}

	// build the client once for all the objects
	opts, err := FromRunOptions(options...)
	if err != nil {
		return nil, err
	}
	if err := opts.ensureClient(); err != nil {
		return nil, err
	}

	var results []map[string]interface{}
	var finalError *multierror.Error
	for _, obj := range objs {
		got, err := applyDocument(ctx, obj.Object, opts)
		if err != nil {
			finalError = multierror.Append(finalError, errors.WithMessage(err, k8sutil.DescribeObj(obj)))
			continue
		}
		results = append(results, got)
	}
	return results, finalError.ErrorOrNil()
}

func applyDocument(ctx context.Context, doc map[string]interface{}, options ...RunOption) (map[string]interface{}, error) {
	if len(doc) == 0 {
		return nil, invalidInputf("resource is empty")
	}
	obj := &unstructured.Unstructured{Object: doc}
	gvr, err := GroupVersionResourceFor(obj.GetAPIVersion(), obj.GetKind())
	if err != nil {
		return nil, err
	}
	return create(ctx, gvr, defaultNamespace(obj.GetNamespace()), Body{Object: doc}, options...)
}
