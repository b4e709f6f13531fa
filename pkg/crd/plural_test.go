package crd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

func TestPluralize(t *testing.T) {
	t.Parallel()

	var scenarios = []struct {
		kind     string
		expected string
	}{
		{kind: "pod", expected: "pods"},
		{kind: "policy", expected: "policies"},
		{kind: "endpoints", expected: "endpoints"},
		{kind: "Endpoints", expected: "endpoints"},
		{kind: "ingress", expected: "ingresses"},
		{kind: "Deployment", expected: "deployments"},
		{kind: "Widget", expected: "widgets"},
		{kind: "NetworkChaos", expected: "networkchaoses"},
		{kind: "Gateway", expected: "gatewaies"},
		// known limitation of the heuristic
		{kind: "Analysis", expected: "analysises"},
		{kind: "", expected: ""},
	}

	for _, scenario := range scenarios {
		scenario := scenario // pin it
		t.Run(scenario.kind, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, scenario.expected, Pluralize(scenario.kind))
		})
	}
}

func TestGroupVersionResourceFor(t *testing.T) {
	t.Parallel()

	var scenarios = []struct {
		name       string
		apiVersion string
		kind       string
		expected   schema.GroupVersionResource
		isError    bool
	}{
		{
			name:       "should derive the coordinates of a custom resource",
			apiVersion: "example.com/v1",
			kind:       "Widget",
			expected:   schema.GroupVersionResource{Group: "example.com", Version: "v1", Resource: "widgets"},
		},
		{
			name:       "should derive the coordinates of a chaos experiment",
			apiVersion: "chaos-mesh.org/v1alpha1",
			kind:       "PodChaos",
			expected:   schema.GroupVersionResource{Group: "chaos-mesh.org", Version: "v1alpha1", Resource: "podchaoses"},
		},
		{
			name:    "should fail when apiVersion is missing",
			kind:    "Widget",
			isError: true,
		},
		{
			name:       "should fail when kind is missing",
			apiVersion: "example.com/v1",
			isError:    true,
		},
		{
			name:       "should fail when apiVersion has no group",
			apiVersion: "v1",
			kind:       "Widget",
			isError:    true,
		},
		{
			name:       "should fail when apiVersion has more than one separator",
			apiVersion: "example.com/v1/extra",
			kind:       "Widget",
			isError:    true,
		},
		{
			name:       "should fail when group is empty",
			apiVersion: "/v1",
			kind:       "Widget",
			isError:    true,
		},
		{
			name:       "should fail when version is empty",
			apiVersion: "example.com/",
			kind:       "Widget",
			isError:    true,
		},
	}

	for _, scenario := range scenarios {
		scenario := scenario // pin it
		t.Run(scenario.name, func(t *testing.T) {
			t.Parallel()

			got, err := GroupVersionResourceFor(scenario.apiVersion, scenario.kind)
			if scenario.isError {
				assert.Error(t, err)
				assert.True(t, IsInvalidInput(err), "want invalid input got %v", err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, scenario.expected, got)
		})
	}
}
