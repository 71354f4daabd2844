package opensearch

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

// fakeCluster answers just enough of the OpenSearch API for index setup and document writes
type fakeCluster struct {
	mu       sync.Mutex
	requests []recordedRequest
	indices  map[string]bool
	failDocs bool
}

func newFakeCluster(t *testing.T) (*fakeCluster, *httptest.Server) {
	t.Helper()

	fc := &fakeCluster{indices: map[string]bool{}}
	srv := httptest.NewServer(http.HandlerFunc(fc.serve))
	t.Cleanup(srv.Close)

	return fc, srv
}

func (fc *fakeCluster) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.requests = append(fc.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})

	w.Header().Set("Content-Type", "application/json")
	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case r.URL.Path == "/":
		_, _ = w.Write([]byte(`{"version":{"number":"2.11.0","distribution":"opensearch"}}`))
	case r.Method == http.MethodHead && len(segments) == 1:
		if fc.indices[segments[0]] {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodPut && len(segments) == 1:
		fc.indices[segments[0]] = true
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
	case len(segments) == 2 && segments[1] == "_doc":
		if fc.failDocs {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"mapper_parsing_exception"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (fc *fakeCluster) find(method, path string) []recordedRequest {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var out []recordedRequest
	for _, req := range fc.requests {
		if req.Method == method && req.Path == path {
			out = append(out, req)
		}
	}
	return out
}
