package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-systems/waypoint/pkg/dispatch"
)

func TestClient_FetchRows_ArrayPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0", r.URL.Query().Get("skip"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"Ada"},{"id":2,"email":"g@example.com"}]`))
	}))
	defer srv.Close()

	rows, total, err := NewClient(srv.URL).FetchRows(context.Background(), "/api/students", 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ada", rows[0]["name"])
	// Field sets may vary row to row.
	assert.NotContains(t, rows[1], "name")
}

func TestClient_FetchRows_EnvelopePayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"id":1}],"total":41}`))
	}))
	defer srv.Close()

	rows, total, err := NewClient(srv.URL).FetchRows(context.Background(), "/api/students", 0, 100)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 41, total)
}

func TestClient_FetchRows_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, _, err := NewClient(srv.URL).FetchRows(context.Background(), "/api/assets", 0, 100)
	require.Error(t, err)

	de, ok := dispatch.AsDispatchError(err)
	require.True(t, ok, "expected a normalized dispatch error, got %T", err)
	assert.Contains(t, de.Error(), "status 502")
	assert.Contains(t, de.Endpoints["fetch"], "/api/assets")
}

func TestClient_FetchRows_MalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items": "not a list"`))
	}))
	defer srv.Close()

	_, _, err := NewClient(srv.URL).FetchRows(context.Background(), "/api/events", 0, 100)
	require.Error(t, err)

	de, ok := dispatch.AsDispatchError(err)
	require.True(t, ok)
	assert.Contains(t, de.Error(), "unexpected upstream payload")
}

func TestClient_FetchRows_UnexpectedShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	_, _, err := NewClient(srv.URL).FetchRows(context.Background(), "/api/events", 0, 100)
	require.Error(t, err)
	_, ok := dispatch.AsDispatchError(err)
	assert.True(t, ok)
}

func TestClient_FetchRows_NetworkError(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, _, err := NewClient(srv.URL).FetchRows(context.Background(), "/api/students", 0, 100)
	require.Error(t, err)

	de, ok := dispatch.AsDispatchError(err)
	require.True(t, ok)
	assert.Contains(t, de.Error(), "upstream request failed")
}

func TestClient_FetchRows_HonorsContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := NewClient(srv.URL).FetchRows(ctx, "/api/students", 0, 100)
	require.Error(t, err)
	assert.True(t, dispatch.IsTimeout(err) || ctx.Err() != nil)
}

func TestRESTHandler_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/students", r.URL.Path)
		_, _ = w.Write([]byte(`{"items":[{"id":1,"name":"Ada"}],"total":1}`))
	}))
	defer srv.Close()

	h := NewRESTHandler("students", "Student Records Service", "/api/students",
		[]string{"student"}, []string{"id", "name"}, NewClient(srv.URL))

	got, err := h.Fetch(context.Background(), nil, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Meta.Count)
	assert.Equal(t, 0, got.Meta.Skip)
	assert.Equal(t, 100, got.Meta.Limit)
	assert.Equal(t, "Student Records Service", got.Meta.Source)
	assert.Equal(t, 1, got.Echo["total"])
}

func TestBaseURL_EnvOverride(t *testing.T) {
	t.Setenv("WAYPOINT_TEST_URL", "http://localhost:9999")
	assert.Equal(t, "http://localhost:9999", baseURL("WAYPOINT_TEST_URL", "http://fallback"))

	assert.Equal(t, "http://fallback", baseURL("WAYPOINT_UNSET_URL", "http://fallback"))
}

func TestRegisterAll(t *testing.T) {
	reg := dispatch.NewRegistry(nil)
	RegisterAll(reg)

	want := []string{"students", "courses", "instructors", "enrollments", "events", "assets"}
	assert.Equal(t, want, reg.Modes())
	for _, mode := range want {
		h, ok := reg.Get(mode)
		require.True(t, ok, "mode %s not registered", mode)
		assert.NotEmpty(t, h.SourceLabel())
		assert.NotEmpty(t, h.Keywords())
	}
}
