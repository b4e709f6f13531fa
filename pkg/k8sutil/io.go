package k8sutil

import (
	"io"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	yamlutil "k8s.io/apimachinery/pkg/util/yaml"
)

// ReadKubernetesObjects decodes the YAML or JSON documents of the
// provided stream. Lists are flattened into their items while empty
// documents & kustomize files are skipped.
func ReadKubernetesObjects(r io.Reader) ([]*unstructured.Unstructured, error) {
	decoder := yamlutil.NewYAMLOrJSONDecoder(r, 4096)
	objects := make([]*unstructured.Unstructured, 0)

	var keep = func(obj *unstructured.Unstructured) {
		if !IsNilUnstructured(obj) && IsKubernetesObject(obj) && !IsKustomizeObject(obj) {
			objects = append(objects, obj)
		}
	}

	for {
		obj := &unstructured.Unstructured{}
		err := decoder.Decode(&obj.Object)
		if err == io.EOF {
			break
		}
		if err != nil {
			return objects, errors.Wrap(err, "decode to unstructured")
		}
		if len(obj.Object) == 0 {
			// blank document e.g. a trailing '---'
			continue
		}

		if obj.IsList() {
			err = obj.EachListItem(func(item runtime.Object) error {
				if u, ok := item.(*unstructured.Unstructured); ok {
					keep(u)
				}
				return nil
			})
			if err != nil {
				return objects, errors.Wrap(err, "decode list items")
			}
			continue
		}
		keep(obj)
	}

	return objects, nil
}
