package crd

import (
	"context"
	"net/http"

	"k8s.io/apimachinery/pkg/runtime/schema"
)

// GetCustomObject reads a custom object from the given namespace
func GetCustomObject(ctx context.Context, gvr schema.GroupVersionResource, namespace, name string, options ...RunOption) (map[string]interface{}, error) {
	return get(ctx, gvr, defaultNamespace(namespace), name, options...)
}

// GetClusterCustomObject reads a cluster scoped custom object
func GetClusterCustomObject(ctx context.Context, gvr schema.GroupVersionResource, name string, options ...RunOption) (map[string]interface{}, error) {
	return get(ctx, gvr, "", name, options...)
}

func get(ctx context.Context, gvr schema.GroupVersionResource, namespace, name string, options ...RunOption) (map[string]interface{}, error) {
	opts, err := FromRunOptions(options...)
	if err != nil {
		return nil, err
	}
	if err := validateGroupVersionResource(gvr); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := opts.ensureClient(); err != nil {
		return nil, err
	}
	return do(ctx, opts, request{
		operation: operationGet,
		verb:      http.MethodGet,
		gvr:       gvr,
		namespace: namespace,
		name:      name,
	})
}

// ListCustomObjects lists the custom objects of the given namespace
// optionally filtered by a label selector
func ListCustomObjects(ctx context.Context, gvr schema.GroupVersionResource, namespace, labelSelector string, options ...RunOption) (map[string]interface{}, error) {
	return list(ctx, gvr, defaultNamespace(namespace), labelSelector, options...)
}

// ListClusterCustomObjects lists the custom objects across the cluster
// optionally filtered by a label selector
func ListClusterCustomObjects(ctx context.Context, gvr schema.GroupVersionResource, labelSelector string, options ...RunOption) (map[string]interface{}, error) {
	return list(ctx, gvr, "", labelSelector, options...)
}

func list(ctx context.Context, gvr schema.GroupVersionResource, namespace, labelSelector string, options ...RunOption) (map[string]interface{}, error) {
	opts, err := FromRunOptions(options...)
	if err != nil {
		return nil, err
	}
	if err := validateGroupVersionResource(gvr); err != nil {
		return nil, err
	}
	if err := opts.ensureClient(); err != nil {
		return nil, err
	}
	r := request{
		operation: operationList,
		verb:      http.MethodGet,
		gvr:       gvr,
		namespace: namespace,
	}
	if labelSelector != "" {
		r.params = map[string]string{"labelSelector": labelSelector}
	}
	return do(ctx, opts, r)
}
