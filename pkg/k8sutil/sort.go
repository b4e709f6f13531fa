package k8sutil

import (
	"sort"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/cli-utils/pkg/object"
)

// SortableUnstructureds orders objects by kind priority, then group,
// kind, namespace & name
type SortableUnstructureds []*unstructured.Unstructured

var _ sort.Interface = SortableUnstructureds{}

func (a SortableUnstructureds) Len() int      { return len(a) }
func (a SortableUnstructureds) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a SortableUnstructureds) Less(i, j int) bool {
	return less(toObjMeta(a[i]), toObjMeta(a[j]))
}

// toObjMeta tolerates objects that only set generateName
func toObjMeta(u *unstructured.Unstructured) object.ObjMetadata {
	if meta, err := object.UnstructuredToObjMeta(u); err == nil {
		return meta
	}
	return object.ObjMetadata{
		Namespace: u.GetNamespace(),
		Name:      u.GetName() + u.GetGenerateName(),
		GroupKind: u.GroupVersionKind().GroupKind(),
	}
}

func less(i, j object.ObjMetadata) bool {
	if !Equals(i.GroupKind, j.GroupKind) {
		return IsLessThan(i.GroupKind, j.GroupKind)
	}
	if i.Namespace != j.Namespace {
		return i.Namespace < j.Namespace
	}
	return i.Name < j.Name
}

// kinds that custom objects usually depend upon
var kind2index = map[string]int{
	"CustomResourceDefinition": -3,
	"Namespace":                -2,
	"ServiceAccount":           -1,
}

func Equals(i, j schema.GroupKind) bool {
	return i.Group == j.Group && i.Kind == j.Kind
}

func IsLessThan(i, j schema.GroupKind) bool {
	indexI := kind2index[i.Kind]
	indexJ := kind2index[j.Kind]
	if indexI != indexJ {
		return indexI < indexJ
	}
	if i.Group != j.Group {
		return i.Group < j.Group
	}
	return i.Kind < j.Kind
}
