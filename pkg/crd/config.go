package crd

import (
	"net/http"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"sigs.k8s.io/controller-runtime/pkg/client/config"

	"github.com/simplekube/crdkit/pkg/envutil"
)

// Secrets is an opaque bag of connection parameters supplied by the
// experiment runtime. Keys not found here are looked up from the
// environment.
type Secrets map[string]string

// Keys understood by NewConfig
const (
	KeyHost         = "KUBERNETES_HOST"
	KeyAPIKey       = "KUBERNETES_API_KEY"
	KeyAPIKeyPrefix = "KUBERNETES_API_KEY_PREFIX"
	KeyUsername     = "KUBERNETES_USERNAME"
	KeyPassword     = "KUBERNETES_PASSWORD"
	KeyVerifySSL    = "KUBERNETES_VERIFY_SSL"
	KeyCACertFile   = "KUBERNETES_CA_CERT_FILE"
	KeyCertFile     = "KUBERNETES_CERT_FILE"
	KeyKeyFile      = "KUBERNETES_KEY_FILE"
	KeyContext      = "KUBERNETES_CONTEXT"
	KeyInPod        = "CHAOSTOOLKIT_IN_POD"
)

const defaultAPIKeyPrefix = "Bearer"

// NewConfig builds the connection config from the provided secrets
//
// Precedence:
// - explicit host based settings if KUBERNETES_HOST is set
// - in-cluster config if CHAOSTOOLKIT_IN_POD is true
// - kubeconfig, optionally pinned to KUBERNETES_CONTEXT
func NewConfig(secrets Secrets) (*rest.Config, error) {
	if host := envutil.GetOrDefault(secrets, KeyHost, ""); host != "" {
		return newHostConfig(secrets, host), nil
	}

	if envutil.IsEnabled(secrets, KeyInPod, false) {
		cfg, err := rest.InClusterConfig()
		if err != nil {
			return nil, errors.Wrap(err, "failed to load in-cluster config")
		}
		return cfg, nil
	}

	cfg, err := config.GetConfigWithContext(envutil.GetOrDefault(secrets, KeyContext, ""))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load kubeconfig")
	}
	return cfg, nil
}

func newHostConfig(secrets Secrets, host string) *rest.Config {
	cfg := &rest.Config{
		Host:     host,
		Username: envutil.GetOrDefault(secrets, KeyUsername, ""),
		Password: envutil.GetOrDefault(secrets, KeyPassword, ""),
	}

	if key := envutil.GetOrDefault(secrets, KeyAPIKey, ""); key != "" {
		prefix := envutil.GetOrDefault(secrets, KeyAPIKeyPrefix, defaultAPIKeyPrefix)
		if prefix == defaultAPIKeyPrefix {
			cfg.BearerToken = key
		} else {
			authz := prefix + " " + key
			cfg.WrapTransport = func(rt http.RoundTripper) http.RoundTripper {
				return &authorizationRoundTripper{authorization: authz, rt: rt}
			}
		}
	}

	if !envutil.IsEnabled(secrets, KeyVerifySSL, true) {
		cfg.TLSClientConfig.Insecure = true
	} else {
		cfg.TLSClientConfig.CAFile = envutil.GetOrDefault(secrets, KeyCACertFile, "")
	}
	cfg.TLSClientConfig.CertFile = envutil.GetOrDefault(secrets, KeyCertFile, "")
	cfg.TLSClientConfig.KeyFile = envutil.GetOrDefault(secrets, KeyKeyFile, "")
	return cfg
}

// authorizationRoundTripper sets the Authorization header for API keys
// that use a prefix other than Bearer
type authorizationRoundTripper struct {
	authorization string
	rt            http.RoundTripper
}

func (a *authorizationRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if len(req.Header.Get("Authorization")) != 0 {
		return a.rt.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", a.authorization)
	return a.rt.RoundTrip(req)
}

// NewClient builds the REST client used to reach the custom resource
// endpoints. Paths are always absolute i.e. /apis/{group}/{version}/...
func NewClient(cfg *rest.Config) (rest.Interface, error) {
	if cfg == nil {
		return nil, errors.New("nil rest config")
	}
	c := rest.CopyConfig(cfg)
	c.APIPath = "/apis"
	c.ContentType = runtime.ContentTypeJSON
	c.AcceptContentTypes = runtime.ContentTypeJSON
	c.NegotiatedSerializer = scheme.Codecs.WithoutConversion()
	if c.UserAgent == "" {
		c.UserAgent = rest.DefaultKubernetesUserAgent()
	}

	cli, err := rest.UnversionedRESTClientFor(c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialise client")
	}
	return cli, nil
}
