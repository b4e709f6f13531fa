package crd

import (
	"context"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/util/json"

	"github.com/simplekube/crdkit/pkg/k8sutil"
)

// Arguments are the activity arguments as declared in an experiment
// document
type Arguments map[string]interface{}

// ActivityFunc invokes an activity with the provided arguments
type ActivityFunc func(ctx context.Context, args Arguments, options ...RunOption) (interface{}, error)

// Activity is an action or probe that can be invoked by name
type Activity struct {
	Name        Key
	Type        EntityType
	Description string
	Func        ActivityFunc
}

// Validate returns error if the activity can't be registered
func (a *Activity) Validate() error {
	if a.Name == "" {
		return errors.New("missing activity name")
	}
	if a.Type != EntityTypeAction && a.Type != EntityTypeProbe {
		return errors.Errorf("unsupported activity type %q: key %q", a.Type, a.Name)
	}
	if a.Func == nil {
		return errors.Errorf("nil activity func: key %q", a.Name)
	}
	return nil
}

// Run invokes the activity
func (a *Activity) Run(ctx context.Context, args Arguments, options ...RunOption) (interface{}, error) {
	got, err := a.Func(ctx, args, options...)
	if err != nil {
		return nil, errors.WithMessagef(err, "activity %q", a.Name)
	}
	return got, nil
}

// activityArguments maps the keys used in experiment documents
type activityArguments struct {
	Group              string      `json:"group"`
	Version            string      `json:"version"`
	Plural             string      `json:"plural"`
	Name               string      `json:"name"`
	Namespace          string      `json:"ns"`
	Force              bool        `json:"force"`
	Resource           interface{} `json:"resource"`
	ResourceAsYAMLFile string      `json:"resource_as_yaml_file"`
	LabelSelector      string      `json:"label_selector"`
	Paths              []string    `json:"paths"`
}

func (a activityArguments) gvr() schema.GroupVersionResource {
	return schema.GroupVersionResource{Group: a.Group, Version: a.Version, Resource: a.Plural}
}

func (a activityArguments) body() Body {
	return Body{Object: a.Resource, YAMLFile: a.ResourceAsYAMLFile}
}

// resourceString returns the resource as a document string. Documents
// given as objects are encoded as JSON which is valid YAML as well.
func (a activityArguments) resourceString() (string, error) {
	switch r := a.Resource.(type) {
	case nil:
		return "", invalidInputf("missing resource")
	case string:
		return r, nil
	default:
		raw, err := json.Marshal(r)
		if err != nil {
			return "", invalidInputf("resource is not JSON serializable: %s", err)
		}
		return string(raw), nil
	}
}

func decodeArguments(args Arguments) (activityArguments, error) {
	var decoded activityArguments
	if err := k8sutil.FromMap(args, &decoded); err != nil {
		return decoded, invalidInputf("invalid arguments: %s", err)
	}
	return decoded, nil
}

// withArguments adapts an activity implementation to ActivityFunc
func withArguments(fn func(ctx context.Context, a activityArguments, options ...RunOption) (interface{}, error)) ActivityFunc {
	return func(ctx context.Context, args Arguments, options ...RunOption) (interface{}, error) {
		decoded, err := decodeArguments(args)
		if err != nil {
			return nil, err
		}
		return fn(ctx, decoded, options...)
	}
}

// Activities returns the activities exposed by this package
func Activities() []*Activity {
	return []*Activity{
		{
			Name:        "apply_from_json",
			Type:        EntityTypeAction,
			Description: "Apply the given custom resource, given as a JSON string, to the cluster",
			Func: withArguments(func(ctx context.Context, a activityArguments, options ...RunOption) (interface{}, error) {
				resource, err := a.resourceString()
				if err != nil {
					return nil, err
				}
				return ApplyFromJSON(ctx, resource, options...)
			}),
		},
		{
			Name:        "apply_from_yaml",
			Type:        EntityTypeAction,
			Description: "Apply the given custom resource, given as a YAML string, to the cluster",
			Func: withArguments(func(ctx context.Context, a activityArguments, options ...RunOption) (interface{}, error) {
				resource, err := a.resourceString()
				if err != nil {
					return nil, err
				}
				return ApplyFromYAML(ctx, resource, options...)
			}),
		},
		{
			Name:        "apply_manifests",
			Type:        EntityTypeAction,
			Description: "Apply the custom resources found in the given YAML or JSON files & directories",
			Func: withArguments(func(ctx context.Context, a activityArguments, options ...RunOption) (interface{}, error) {
				return ApplyManifests(ctx, a.Paths, options...)
			}),
		},
		{
			Name:        "create_custom_object",
			Type:        EntityTypeAction,
			Description: "Create a custom object in the given namespace",
			Func: withArguments(func(ctx context.Context, a activityArguments, options ...RunOption) (interface{}, error) {
				return CreateCustomObject(ctx, a.gvr(), a.Namespace, a.body(), options...)
			}),
		},
		{
			Name:        "delete_custom_object",
			Type:        EntityTypeAction,
			Description: "Delete a custom object in the given namespace",
			Func: withArguments(func(ctx context.Context, a activityArguments, options ...RunOption) (interface{}, error) {
				return DeleteCustomObject(ctx, a.gvr(), a.Namespace, a.Name, options...)
			}),
		},
		{
			Name:        "create_cluster_custom_object",
			Type:        EntityTypeAction,
			Description: "Create a custom object cluster wide",
			Func: withArguments(func(ctx context.Context, a activityArguments, options ...RunOption) (interface{}, error) {
				return CreateClusterCustomObject(ctx, a.gvr(), a.body(), options...)
			}),
		},
		{
			Name:        "delete_cluster_custom_object",
			Type:        EntityTypeAction,
			Description: "Delete a custom object cluster wide",
			Func: withArguments(func(ctx context.Context, a activityArguments, options ...RunOption) (interface{}, error) {
				return DeleteClusterCustomObject(ctx, a.gvr(), a.Name, options...)
			}),
		},
		{
			Name:        "patch_custom_object",
			Type:        EntityTypeAction,
			Description: "Patch a custom object in the given namespace with a JSON Patch document",
			Func: withArguments(func(ctx context.Context, a activityArguments, options ...RunOption) (interface{}, error) {
				return PatchCustomObject(ctx, a.gvr(), a.Namespace, a.Name, a.Force, a.body(), options...)
			}),
		},
		{
			Name:        "replace_custom_object",
			Type:        EntityTypeAction,
			Description: "Replace a custom object in the given namespace",
			Func: withArguments(func(ctx context.Context, a activityArguments, options ...RunOption) (interface{}, error) {
				return ReplaceCustomObject(ctx, a.gvr(), a.Namespace, a.Name, a.Force, a.body(), options...)
			}),
		},
		{
			Name:        "patch_cluster_custom_object",
			Type:        EntityTypeAction,
			Description: "Patch a custom object cluster wide with a JSON Patch document",
			Func: withArguments(func(ctx context.Context, a activityArguments, options ...RunOption) (interface{}, error) {
				return PatchClusterCustomObject(ctx, a.gvr(), a.Name, a.Force, a.body(), options...)
			}),
		},
		{
			Name:        "replace_cluster_custom_object",
			Type:        EntityTypeAction,
			Description: "Replace a custom object cluster wide",
			Func: withArguments(func(ctx context.Context, a activityArguments, options ...RunOption) (interface{}, error) {
				return ReplaceClusterCustomObject(ctx, a.gvr(), a.Name, a.Force, a.body(), options...)
			}),
		},
		{
			Name:        "get_custom_object",
			Type:        EntityTypeProbe,
			Description: "Get a custom object in the given namespace",
			Func: withArguments(func(ctx context.Context, a activityArguments, options ...RunOption) (interface{}, error) {
				return GetCustomObject(ctx, a.gvr(), a.Namespace, a.Name, options...)
			}),
		},
		{
			Name:        "get_cluster_custom_object",
			Type:        EntityTypeProbe,
			Description: "Get a custom object cluster wide",
			Func: withArguments(func(ctx context.Context, a activityArguments, options ...RunOption) (interface{}, error) {
				return GetClusterCustomObject(ctx, a.gvr(), a.Name, options...)
			}),
		},
		{
			Name:        "list_custom_objects",
			Type:        EntityTypeProbe,
			Description: "List the custom objects in the given namespace",
			Func: withArguments(func(ctx context.Context, a activityArguments, options ...RunOption) (interface{}, error) {
				return ListCustomObjects(ctx, a.gvr(), a.Namespace, a.LabelSelector, options...)
			}),
		},
		{
			Name:        "list_cluster_custom_objects",
			Type:        EntityTypeProbe,
			Description: "List the custom objects cluster wide",
			Func: withArguments(func(ctx context.Context, a activityArguments, options ...RunOption) (interface{}, error) {
				return ListClusterCustomObjects(ctx, a.gvr(), a.LabelSelector, options...)
			}),
		},
	}
}

// NewDefaultRegistrar returns a registrar holding all the activities
// exposed by this package
func NewDefaultRegistrar() *BaseRegistrar {
	r := NewRegistrar()
	for _, a := range Activities() {
		if err := r.Register(a); err != nil {
			panic(err)
		}
	}
	return r
}
