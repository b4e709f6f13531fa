package crd

import (
	"github.com/pkg/errors"
	"k8s.io/client-go/rest"

	"github.com/simplekube/crdkit/pkg/pointer"
)

// This file makes use of functional options pattern
// credit: https://github.com/uber-go/guide/blob/master/style.md

type RunOption interface {
	// ApplyTo sets the provided RunOption instance
	ApplyTo(RunOption) error
}

// RunOptions defines the runtime options of an activity
type RunOptions struct {
	// Client is used as is when set
	Client rest.Interface

	// Config is used to build the client when Client is not set
	Config *rest.Config

	// Secrets are used to build the config when neither Client nor
	// Config is set
	Secrets Secrets

	// Metrics records every request when set
	Metrics *Metrics

	// ServerSideApply switches patch operations from JSON Patch to
	// server side apply which in turn honours the force flag
	ServerSideApply *bool

	// FieldManager identifies the actor during server side apply
	FieldManager string
}

// compile time check to assert if the structure
// RunOptions implements the interface RunOption
var _ RunOption = (*RunOptions)(nil)

// ApplyTo applies properties from the method receiver
// to the provided target instance
func (o *RunOptions) ApplyTo(target RunOption) error {
	if o == nil {
		return errors.Errorf("nil receiver options")
	}
	if target == nil {
		return errors.Errorf("nil target options")
	}
	targetObj, ok := target.(*RunOptions)
	if !ok {
		return errors.Errorf("invalid options type: want 'RunOptions' got %T", target)
	}
	if o.Client != nil {
		targetObj.Client = o.Client
	}
	if o.Config != nil {
		targetObj.Config = o.Config
	}
	if o.Secrets != nil {
		targetObj.Secrets = o.Secrets
	}
	if o.Metrics != nil {
		targetObj.Metrics = o.Metrics
	}
	if o.ServerSideApply != nil {
		targetObj.ServerSideApply = o.ServerSideApply
	}
	if o.FieldManager != "" {
		targetObj.FieldManager = o.FieldManager
	}
	return nil
}

// WithClient sets the API client used to invoke the activity
func WithClient(c rest.Interface) *RunOptions {
	return &RunOptions{Client: c}
}

// WithConfig sets the connection config used to build the API client
func WithConfig(cfg *rest.Config) *RunOptions {
	return &RunOptions{Config: cfg}
}

// WithSecrets sets the connection parameters used to build the API client
func WithSecrets(secrets Secrets) *RunOptions {
	return &RunOptions{Secrets: secrets}
}

// WithMetrics sets the collectors that record each request
func WithMetrics(m *Metrics) *RunOptions {
	return &RunOptions{Metrics: m}
}

// WithServerSideApply makes patch operations use server side apply
// on behalf of the provided field manager
func WithServerSideApply(fieldManager string) *RunOptions {
	return &RunOptions{ServerSideApply: pointer.Bool(true), FieldManager: fieldManager}
}

// ApplyRunOptionsToTarget builds the target instance from the list of
// provided options
func ApplyRunOptionsToTarget(target *RunOptions, options ...RunOption) error {
	if target == nil {
		return errors.New("nil target to build options")
	}
	for _, o := range options {
		if o == nil {
			continue
		}
		err := o.ApplyTo(target)
		if err != nil {
			return err
		}
	}
	return nil
}

// FromRunOptions creates a new options instance assembled from the
// provided list of options
func FromRunOptions(options ...RunOption) (*RunOptions, error) {
	var target RunOptions
	err := ApplyRunOptionsToTarget(&target, options...)
	if err != nil {
		return nil, err
	}
	return &target, nil
}

// isServerSideApply returns true if patches should be sent as
// server side apply requests
func (o *RunOptions) isServerSideApply() bool {
	return o.ServerSideApply != nil && *o.ServerSideApply
}

func (o *RunOptions) fieldManager() string {
	if o.FieldManager == "" {
		return DefaultFieldManager
	}
	return o.FieldManager
}

// ensureClient builds the API client from Config or Secrets when
// none was provided
func (o *RunOptions) ensureClient() error {
	if o.Client != nil {
		return nil
	}
	cfg := o.Config
	if cfg == nil {
		var err error
		cfg, err = NewConfig(o.Secrets)
		if err != nil {
			return err
		}
	}
	c, err := NewClient(cfg)
	if err != nil {
		return err
	}
	o.Client = c
	return nil
}
