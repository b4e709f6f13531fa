// Package integration exercises the custom object activities against a
// local control plane i.e. etcd & kube-apiserver binaries found at
// KUBEBUILDER_ASSETS. The suite is skipped when the binaries are not
// available.
package integration
