package crd

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widgetListResponse = `{"apiVersion":"example.com/v1","kind":"WidgetList","metadata":{"resourceVersion":"9"},"items":[` + widgetResponse + `]}`

func TestGetCustomObject(t *testing.T) {
	t.Parallel()

	f := newFakeAPIServer(t, http.StatusOK, widgetResponse)
	got, err := GetCustomObject(context.Background(), widgets, "ns1", "w1", WithClient(f.client(t)))
	require.NoError(t, err)
	assert.Equal(t, "Widget", got["kind"])

	req := f.onlyRequest(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/apis/example.com/v1/namespaces/ns1/widgets/w1", req.Path)

	f = newFakeAPIServer(t, http.StatusNotFound, statusNotFound)
	_, err = GetClusterCustomObject(context.Background(), widgets, "w1", WithClient(f.client(t)))
	apiErr, ok := AsAPIOperationFailed(err)
	require.True(t, ok, "want api operation failed got %v", err)
	assert.Equal(t, "get", apiErr.Operation)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "/apis/example.com/v1/widgets/w1", f.onlyRequest(t).Path)
}

func TestListCustomObjects(t *testing.T) {
	t.Parallel()

	var scenarios = []struct {
		name          string
		cluster       bool
		namespace     string
		labelSelector string
		expectedPath  string
	}{
		{
			name:         "should list the default namespace",
			expectedPath: "/apis/example.com/v1/namespaces/default/widgets",
		},
		{
			name:          "should list a namespace by label",
			namespace:     "ns1",
			labelSelector: "app=demo,tier!=db",
			expectedPath:  "/apis/example.com/v1/namespaces/ns1/widgets",
		},
		{
			name:          "should list cluster wide",
			cluster:       true,
			labelSelector: "app=demo",
			expectedPath:  "/apis/example.com/v1/widgets",
		},
	}

	for _, scenario := range scenarios {
		scenario := scenario // pin it
		t.Run(scenario.name, func(t *testing.T) {
			t.Parallel()

			f := newFakeAPIServer(t, http.StatusOK, widgetListResponse)
			var got map[string]interface{}
			var err error
			if scenario.cluster {
				got, err = ListClusterCustomObjects(context.Background(), widgets, scenario.labelSelector, WithClient(f.client(t)))
			} else {
				got, err = ListCustomObjects(context.Background(), widgets, scenario.namespace, scenario.labelSelector, WithClient(f.client(t)))
			}
			require.NoError(t, err)
			assert.Len(t, got["items"], 1)

			req := f.onlyRequest(t)
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, scenario.expectedPath, req.Path)
			assert.Equal(t, scenario.labelSelector, req.Query.Get("labelSelector"))
		})
	}
}
