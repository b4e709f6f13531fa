// Package crd provides chaos engineering activities that create, patch,
// replace, delete, get & list Kubernetes custom objects via the custom
// resource endpoints of the API server.
//
// Each activity issues exactly one request. There are no retries, no
// polling & no waiting for an object to become ready; these concerns
// belong to the experiment runtime that invokes the activities.
//
// Activities are resolvable by name through a Registrar so that they
// can be invoked from declarative experiment documents e.g.
//
//	r := crd.NewDefaultRegistrar()
//	got, err := r.Get("create_custom_object").Run(ctx, crd.Arguments{
//		"group":    "example.com",
//		"version":  "v1",
//		"plural":   "widgets",
//		"ns":       "chaos",
//		"resource": widget,
//	}, crd.WithSecrets(secrets))
//
// These are the references which were studied while implementing this package
//
// - https://kubernetes.io/docs/concepts/extend-kubernetes/api-extension/custom-resources/
// - https://kubernetes.io/docs/reference/using-api/api-concepts/
// - https://kubernetes.io/docs/reference/using-api/server-side-apply/
// - https://datatracker.ietf.org/doc/html/rfc6902 - JSON Patch
package crd
