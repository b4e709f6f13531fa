package k8sutil

import (
	"fmt"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/apiutil"
)

func IsNilUnstructured(given *unstructured.Unstructured) bool {
	return given == nil || given.Object == nil
}

func MaybeAppendUnstructured(list []*unstructured.Unstructured, add *unstructured.Unstructured) []*unstructured.Unstructured {
	if IsNilUnstructured(add) {
		return list
	}
	return append(list, add)
}

func MaybeAppendUnstructuredList(list []*unstructured.Unstructured, add []*unstructured.Unstructured) []*unstructured.Unstructured {
	for _, a := range add {
		list = MaybeAppendUnstructured(list, a)
	}
	return list
}

// IsKubernetesObject returns true if the provided unstructured instance
// has the type information & an identity i.e. name or generateName
func IsKubernetesObject(object *unstructured.Unstructured) bool {
	if object.GetKind() == "" || object.GetAPIVersion() == "" {
		return false
	}
	return object.GetName() != "" || object.GetGenerateName() != ""
}

// IsKustomizeObject returns true if the provided unstructured instance
// resembles a Kustomize schema
func IsKustomizeObject(object *unstructured.Unstructured) bool {
	return object.GetKind() == "Kustomization" &&
		object.GroupVersionKind().Group == "kustomize.config.k8s.io"
}

// DescribeObj returns a string format of the provided
// object that may be used for logging purposes
func DescribeObj(obj client.Object) string {
	gvk, _ := apiutil.GVKForObject(obj, scheme.Scheme)
	return fmt.Sprintf("ns=%s: name=%s: %s", obj.GetNamespace(), obj.GetName(), gvk)
}

// FromMap transforms the provided map into dest using dest's json
// field tags
func FromMap(src map[string]interface{}, dest interface{}) error {
	if dest == nil {
		return errors.New("can't transform map: nil dest")
	}
	if src == nil {
		src = map[string]interface{}{}
	}
	return errors.Wrap(
		runtime.DefaultUnstructuredConverter.FromUnstructured(src, dest),
		"transform map",
	)
}
