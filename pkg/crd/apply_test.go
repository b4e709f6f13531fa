package crd

import (
	"context"
	"net/http"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifests = `
apiVersion: example.com/v1
kind: Widget
metadata:
  name: w2
  namespace: ns1
---
# nothing to apply
---
apiVersion: apiextensions.k8s.io/v1
kind: CustomResourceDefinition
metadata:
  name: widgets.example.com
`

func TestApplyManifests(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "widgets.yaml", manifests)
	writeFile(t, dir, "notes.txt", "not a manifest")

	f := newFakeAPIServer(t, http.StatusCreated, widgetResponse)
	got, err := ApplyManifests(context.Background(), []string{dir}, WithClient(f.client(t)))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	requests := f.Requests()
	require.Len(t, requests, 2)
	// definitions are applied before the objects
	assert.Equal(t, "/apis/apiextensions.k8s.io/v1/namespaces/default/customresourcedefinitions", requests[0].Path)
	assert.Equal(t, "/apis/example.com/v1/namespaces/ns1/widgets", requests[1].Path)
}

func TestApplyManifestsAggregatesFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "widgets.yaml", `
apiVersion: example.com/v1
kind: Widget
metadata:
  name: w1
---
apiVersion: example.com/v1
kind: Widget
metadata:
  name: w2
`)

	f := newFakeAPIServer(t, http.StatusForbidden, statusForbidden)
	got, err := ApplyManifests(context.Background(), []string{dir}, WithClient(f.client(t)))
	assert.Empty(t, got)
	require.Error(t, err)
	assert.True(t, IsAPIOperationFailed(err))

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 2)
	assert.Len(t, f.Requests(), 2, "every object must be attempted")
}

func TestApplyManifestsWithoutObjects(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "empty.yaml", "---\n")

	f := newFakeAPIServer(t, http.StatusCreated, widgetResponse)
	_, err := ApplyManifests(context.Background(), []string{dir}, WithClient(f.client(t)))
	assert.True(t, IsInvalidInput(err), "want invalid input got %v", err)
	assert.Empty(t, f.Requests())
}
