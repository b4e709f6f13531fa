package k8sutil

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// LoadSortedManifests returns the objects found at the provided paths
// ordered so that definitions & namespaces come first
func LoadSortedManifests(paths []string) ([]*unstructured.Unstructured, error) {
	objs, err := LoadManifests(paths)
	if err != nil {
		return nil, err
	}
	sort.Stable(SortableUnstructureds(objs))
	return objs, nil
}

// LoadManifests returns the objects found at the provided paths in the
// order they were read. Every manifest is attempted; failures are
// reported together.
func LoadManifests(paths []string) ([]*unstructured.Unstructured, error) {
	if len(paths) == 0 {
		return nil, errors.New("no manifest paths provided")
	}

	files, err := ScanManifests(paths)
	if err != nil {
		return nil, err
	}

	var result *multierror.Error
	objects := make([]*unstructured.Unstructured, 0, len(files))
	for _, file := range files {
		objs, err := loadManifest(file)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		objects = MaybeAppendUnstructuredList(objects, objs)
	}
	return objects, result.ErrorOrNil()
}

func loadManifest(file string) ([]*unstructured.Unstructured, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest %q", file)
	}
	defer f.Close()

	objs, err := ReadKubernetesObjects(bufio.NewReader(f))
	return objs, errors.Wrapf(err, "manifest %q", file)
}

// ScanManifests expands the provided paths into manifest files.
// Directories are walked recursively & only files with a manifest
// extension are picked from them. Files named explicitly are taken as
// is.
func ScanManifests(paths []string) ([]string, error) {
	var files []string
	var result *multierror.Error
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "path %q", p))
			continue
		}
		if !fi.IsDir() {
			if fi.Mode().IsRegular() {
				files = append(files, p)
			}
			continue
		}

		err = filepath.WalkDir(p, func(name string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() && HasManifestExtension(name) {
				files = append(files, name)
			}
			return nil
		})
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "dir %q", p))
		}
	}
	return files, result.ErrorOrNil()
}

// HasManifestExtension returns true for .yaml, .yml & .json files
func HasManifestExtension(name string) bool {
	switch filepath.Ext(name) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}
