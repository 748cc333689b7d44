package diag

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracksync/internal/logging"
)

func TestHealthzReportsOK(t *testing.T) {
	server := NewServer(logging.Discard())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestStatusReflectsSetState(t *testing.T) {
	server := NewServer(logging.Discard())
	server.SetState("syncing")

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "syncing", resp.State)
	assert.Empty(t, resp.LastError)
}

func TestStatusReflectsSetError(t *testing.T) {
	server := NewServer(logging.Discard())
	server.SetError(assertError{"base station disconnected"})

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.State)
	assert.Equal(t, "base station disconnected", resp.LastError)
}

type assertError struct{ msg string }

func (e assertError) Error() string { return e.msg }
