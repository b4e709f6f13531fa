package crd

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"k8s.io/client-go/rest"
)

// recordedRequest is a request as observed by the fake API server
type recordedRequest struct {
	Method        string
	Path          string
	Query         url.Values
	ContentType   string
	Authorization string
	Body          []byte
}

// decodedBody returns the request body as a generic JSON value with
// numbers as float64
func (r recordedRequest) decodedBody(t *testing.T) interface{} {
	t.Helper()
	var got interface{}
	require.NoError(t, json.Unmarshal(r.Body, &got))
	return got
}

// fakeAPIServer answers every request with the configured status &
// body while recording the requests it received
type fakeAPIServer struct {
	*httptest.Server

	mu       sync.Mutex
	status   int
	body     string
	requests []recordedRequest
}

func newFakeAPIServer(t *testing.T, status int, body string) *fakeAPIServer {
	t.Helper()
	f := &fakeAPIServer{status: status, body: body}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.Query(),
			ContentType:   r.Header.Get("Content-Type"),
			Authorization: r.Header.Get("Authorization"),
			Body:          raw,
		})
		status, body := f.status, f.body
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPIServer) config() *rest.Config {
	return &rest.Config{Host: f.URL}
}

func (f *fakeAPIServer) client(t *testing.T) rest.Interface {
	t.Helper()
	c, err := NewClient(f.config())
	require.NoError(t, err)
	return c
}

func (f *fakeAPIServer) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

// onlyRequest returns the single request received by the server
func (f *fakeAPIServer) onlyRequest(t *testing.T) recordedRequest {
	t.Helper()
	requests := f.Requests()
	require.Len(t, requests, 1)
	return requests[0]
}

const statusAlreadyExists = `{"kind":"Status","apiVersion":"v1","metadata":{},"status":"Failure","message":"widgets.example.com \"w1\" already exists","reason":"AlreadyExists","details":{"name":"w1","group":"example.com","kind":"widgets"},"code":409}`

const statusForbidden = `{"kind":"Status","apiVersion":"v1","metadata":{},"status":"Failure","message":"widgets.example.com is forbidden","reason":"Forbidden","code":403}`

const statusNotFound = `{"kind":"Status","apiVersion":"v1","metadata":{},"status":"Failure","message":"widgets.example.com \"w1\" not found","reason":"NotFound","code":404}`

const statusInvalid = `{"kind":"Status","apiVersion":"v1","metadata":{},"status":"Failure","message":"Widget.example.com \"w1\" is invalid","reason":"Invalid","code":422}`

const widgetResponse = `{"apiVersion":"example.com/v1","kind":"Widget","metadata":{"name":"w1","namespace":"ns1","resourceVersion":"7"},"spec":{"size":3}}`
