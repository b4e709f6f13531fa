package crd

import (
	"context"
	"net/http"
	"time"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/pkg/errors"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/json"
	"k8s.io/klog/v2"
)

const (
	// DefaultNamespace is used by namespaced operations when no
	// namespace is provided
	DefaultNamespace = "default"

	// DefaultFieldManager is the field manager used by server side
	// apply patches
	DefaultFieldManager = "crdkit"
)

const (
	operationCreate  = "create"
	operationDelete  = "delete"
	operationPatch   = "patch"
	operationReplace = "replace"
	operationGet     = "get"
	operationList    = "list"
)

// request describes a single call against the custom resource
// endpoints of the API server
type request struct {
	operation   string
	verb        string
	gvr         schema.GroupVersionResource
	namespace   string
	name        string
	body        []byte
	contentType string
	params      map[string]string
}

// segments returns the absolute path of the request
//
// e.g. /apis/{group}/{version}/namespaces/{namespace}/{plural}/{name}
func (r request) segments() []string {
	segments := []string{"/apis", r.gvr.Group, r.gvr.Version}
	if r.namespace != "" {
		segments = append(segments, "namespaces", r.namespace)
	}
	segments = append(segments, r.gvr.Resource)
	if r.name != "" {
		segments = append(segments, r.name)
	}
	return segments
}

// do issues exactly one request & maps the response
//
// A conflict during create is not an error; the body returned by the
// server is decoded & returned instead.
func do(ctx context.Context, opts *RunOptions, r request) (map[string]interface{}, error) {
	started := time.Now()

	req := opts.Client.Verb(r.verb).AbsPath(r.segments()...)
	if r.body != nil {
		req = req.SetHeader("Content-Type", r.contentType).Body(r.body)
	}
	for key, value := range r.params {
		req = req.Param(key, value)
	}

	klog.V(4).InfoS("Sending custom object request",
		"operation", r.operation, "verb", r.verb, "resource", r.gvr.String(),
		"namespace", r.namespace, "name", r.name)

	var statusCode int
	raw, err := req.Do(ctx).StatusCode(&statusCode).Raw()
	if err != nil {
		statusCode, raw = statusFromError(err, statusCode, raw)
		if r.operation == operationCreate && statusCode == http.StatusConflict {
			klog.V(2).InfoS("Custom resource object already exists",
				"resource", r.gvr.String(), "namespace", r.namespace)
			opts.Metrics.observe(r.operation, outcomeConflict, started)
			return decodeResponse(r.operation, raw)
		}
		opts.Metrics.observe(r.operation, outcomeFailure, started)
		return nil, newAPIOperationFailedError(r.operation, statusCode, raw, err)
	}

	opts.Metrics.observe(r.operation, outcomeSuccess, started)
	return decodeResponse(r.operation, raw)
}

// statusFromError fills the status code & body from the structured
// error when the client could not retain them from the response
func statusFromError(err error, statusCode int, body []byte) (int, []byte) {
	var status apierrors.APIStatus
	if !errors.As(err, &status) {
		return statusCode, body
	}
	if statusCode == 0 {
		statusCode = int(status.Status().Code)
	}
	if len(body) == 0 {
		if raw, mErr := json.Marshal(status.Status()); mErr == nil {
			body = raw
		}
	}
	return statusCode, body
}

func decodeResponse(operation string, raw []byte) (map[string]interface{}, error) {
	result := map[string]interface{}{}
	if len(raw) == 0 {
		return result, nil
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s response", operation)
	}
	return result, nil
}

func marshalBody(doc interface{}) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, invalidInputf("resource is not JSON serializable: %s", err)
	}
	return raw, nil
}

func defaultNamespace(namespace string) string {
	if namespace == "" {
		return DefaultNamespace
	}
	return namespace
}

func validateName(name string) error {
	if name == "" {
		return invalidInputf("missing name of the custom resource object")
	}
	return nil
}

// validateJSONPatch ensures the body is a list of JSON Patch operations
func validateJSONPatch(raw []byte) error {
	patch, err := jsonpatch.DecodePatch(raw)
	if err != nil {
		return invalidInputf("resource must be a JSON Patch document: %s", err)
	}
	for idx, op := range patch {
		switch op.Kind() {
		case "add", "remove", "replace", "move", "copy", "test":
		default:
			return invalidInputf("resource must be a JSON Patch document: operation #%d: unsupported op %q", idx+1, op.Kind())
		}
		if _, err := op.Path(); err != nil {
			return invalidInputf("resource must be a JSON Patch document: operation #%d: %s", idx+1, err)
		}
	}
	return nil
}

// CreateCustomObject creates a custom object in the given namespace.
// Its custom resource definition must already exist or this will fail
// with a 404.
//
// An object that already exists is not an error; the server's answer
// is returned as is & the existing object is left untouched.
func CreateCustomObject(ctx context.Context, gvr schema.GroupVersionResource, namespace string, body Body, options ...RunOption) (map[string]interface{}, error) {
	return create(ctx, gvr, defaultNamespace(namespace), body, options...)
}

// CreateClusterCustomObject creates a cluster scoped custom object
func CreateClusterCustomObject(ctx context.Context, gvr schema.GroupVersionResource, body Body, options ...RunOption) (map[string]interface{}, error) {
	return create(ctx, gvr, "", body, options...)
}

func create(ctx context.Context, gvr schema.GroupVersionResource, namespace string, body Body, options ...RunOption) (map[string]interface{}, error) {
	opts, err := FromRunOptions(options...)
	if err != nil {
		return nil, err
	}
	if err := validateGroupVersionResource(gvr); err != nil {
		return nil, err
	}
	doc, err := LoadBody(body)
	if err != nil {
		return nil, err
	}
	raw, err := marshalBody(doc)
	if err != nil {
		return nil, err
	}
	if err := opts.ensureClient(); err != nil {
		return nil, err
	}
	return do(ctx, opts, request{
		operation:   operationCreate,
		verb:        http.MethodPost,
		gvr:         gvr,
		namespace:   namespace,
		body:        raw,
		contentType: runtime.ContentTypeJSON,
	})
}

// DeleteCustomObject deletes a custom object in the given namespace
func DeleteCustomObject(ctx context.Context, gvr schema.GroupVersionResource, namespace, name string, options ...RunOption) (map[string]interface{}, error) {
	return remove(ctx, gvr, defaultNamespace(namespace), name, options...)
}

// DeleteClusterCustomObject deletes a cluster scoped custom object
func DeleteClusterCustomObject(ctx context.Context, gvr schema.GroupVersionResource, name string, options ...RunOption) (map[string]interface{}, error) {
	return remove(ctx, gvr, "", name, options...)
}

func remove(ctx context.Context, gvr schema.GroupVersionResource, namespace, name string, options ...RunOption) (map[string]interface{}, error) {
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
		operation: operationDelete,
		verb:      http.MethodDelete,
		gvr:       gvr,
		namespace: namespace,
		name:      name,
	})
}

// PatchCustomObject patches a custom object in the given namespace.
// The body must be a JSON Patch document.
//
// Force re-acquires conflicting fields owned by others. It is only
// honoured when server side apply is enabled via WithServerSideApply
// since the API server rejects force for any other patch type.
func PatchCustomObject(ctx context.Context, gvr schema.GroupVersionResource, namespace, name string, force bool, body Body, options ...RunOption) (map[string]interface{}, error) {
	return patch(ctx, gvr, defaultNamespace(namespace), name, force, body, options...)
}

// PatchClusterCustomObject patches a cluster scoped custom object.
// The body must be a JSON Patch document.
func PatchClusterCustomObject(ctx context.Context, gvr schema.GroupVersionResource, name string, force bool, body Body, options ...RunOption) (map[string]interface{}, error) {
	return patch(ctx, gvr, "", name, force, body, options...)
}

func patch(ctx context.Context, gvr schema.GroupVersionResource, namespace, name string, force bool, body Body, options ...RunOption) (map[string]interface{}, error) {
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
	doc, err := LoadBody(body)
	if err != nil {
		return nil, err
	}
	raw, err := marshalBody(doc)
	if err != nil {
		return nil, err
	}

	r := request{
		operation: operationPatch,
		verb:      http.MethodPatch,
		gvr:       gvr,
		namespace: namespace,
		name:      name,
		body:      raw,
	}
	if opts.isServerSideApply() {
		r.contentType = string(types.ApplyPatchType)
		r.params = map[string]string{"fieldManager": opts.fieldManager()}
		if force {
			r.params["force"] = "true"
		}
	} else {
		if err := validateJSONPatch(raw); err != nil {
			return nil, err
		}
		r.contentType = string(types.JSONPatchType)
		if force {
			klog.V(2).InfoS("Force is ignored for JSON Patch requests",
				"resource", gvr.String(), "namespace", namespace, "name", name)
		}
	}

	if err := opts.ensureClient(); err != nil {
		return nil, err
	}
	return do(ctx, opts, r)
}

// ReplaceCustomObject replaces a custom object in the given namespace.
// The body must be the new version of the object.
func ReplaceCustomObject(ctx context.Context, gvr schema.GroupVersionResource, namespace, name string, force bool, body Body, options ...RunOption) (map[string]interface{}, error) {
	return replace(ctx, gvr, defaultNamespace(namespace), name, force, body, options...)
}

// ReplaceClusterCustomObject replaces a cluster scoped custom object
func ReplaceClusterCustomObject(ctx context.Context, gvr schema.GroupVersionResource, name string, force bool, body Body, options ...RunOption) (map[string]interface{}, error) {
	return replace(ctx, gvr, "", name, force, body, options...)
}

func replace(ctx context.Context, gvr schema.GroupVersionResource, namespace, name string, force bool, body Body, options ...RunOption) (map[string]interface{}, error) {
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
	doc, err := LoadBody(body)
	if err != nil {
		return nil, err
	}
	raw, err := marshalBody(doc)
	if err != nil {
		return nil, err
	}
	if err := opts.ensureClient(); err != nil {
		return nil, err
	}

	r := request{
		operation:   operationReplace,
		verb:        http.MethodPut,
		gvr:         gvr,
		namespace:   namespace,
		name:        name,
		body:        raw,
		contentType: runtime.ContentTypeJSON,
	}
	if force {
		r.params = map[string]string{"force": "true"}
	}
	return do(ctx, opts, r)
}
