package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpslab/clientcore/internal/config"
	"github.com/gpslab/clientcore/internal/metrics"
	"github.com/gpslab/clientcore/internal/storage"
)

func testServer(t *testing.T, backend storage.Backend) (*Server, *storage.Store) {
	t.Helper()
	if backend == nil {
		backend = storage.NewMemoryBackend(0)
	}
	store := storage.New(storage.Options{Backend: backend})
	cfg := &config.Config{
		Server: config.ServerConfig{Host: "localhost", Port: 8350},
		Validation: config.ValidationConfig{
			Locale:            "en",
			MinPasswordLength: 8,
		},
	}
	return New(cfg, store, nil, metrics.NewRegistry()), store
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	return payload
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := testServer(t, nil)
	recorder := doJSON(t, srv.Handler(), http.MethodGet, "/healthz", nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeResponse(t, recorder)
	assert.Equal(t, "ok", payload["status"])
	assert.Equal(t, true, payload["storageAvailable"])
	assert.Contains(t, payload, "counters")
}

func TestValidateEmailEndpoint(t *testing.T) {
	srv, _ := testServer(t, nil)
	handler := srv.Handler()

	recorder := doJSON(t, handler, http.MethodPost, "/api/validate/email",
		map[string]interface{}{"email": "student@university.edu"})
	require.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeResponse(t, recorder)
	result := payload["result"].(map[string]interface{})
	assert.Equal(t, true, result["isValid"])
	assert.Equal(t, "educational", payload["class"])

	recorder = doJSON(t, handler, http.MethodPost, "/api/validate/email",
		map[string]interface{}{"email": "not-an-email"})
	require.Equal(t, http.StatusOK, recorder.Code)
	payload = decodeResponse(t, recorder)
	result = payload["result"].(map[string]interface{})
	assert.Equal(t, false, result["isValid"])
	assert.NotEmpty(t, result["error"])
}

func TestValidateEmailEndpointHonorsOverrides(t *testing.T) {
	srv, _ := testServer(t, nil)

	// Disposable providers rejected by default, accepted when the
	// request opts in.
	body := map[string]interface{}{"email": "user@mailinator.com"}
	recorder := doJSON(t, srv.Handler(), http.MethodPost, "/api/validate/email", body)
	result := decodeResponse(t, recorder)["result"].(map[string]interface{})
	assert.Equal(t, false, result["isValid"])

	body["allowDisposable"] = true
	recorder = doJSON(t, srv.Handler(), http.MethodPost, "/api/validate/email", body)
	result = decodeResponse(t, recorder)["result"].(map[string]interface{})
	assert.Equal(t, true, result["isValid"])
}

func TestValidatePasswordEndpoint(t *testing.T) {
	srv, _ := testServer(t, nil)

	recorder := doJSON(t, srv.Handler(), http.MethodPost, "/api/validate/password",
		map[string]interface{}{
			"password":     "Tr4il#Mix!9z",
			"confirmation": "different",
		})
	require.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeResponse(t, recorder)

	report := payload["report"].(map[string]interface{})
	assert.Equal(t, true, report["isValid"])
	assert.Contains(t, report, "strength")

	match := payload["match"].(map[string]interface{})
	assert.Equal(t, false, match["isValid"])
}

func TestValidateFormEndpoint(t *testing.T) {
	srv, _ := testServer(t, nil)

	recorder := doJSON(t, srv.Handler(), http.MethodPost, "/api/validate/form",
		map[string]interface{}{
			"values": map[string]string{
				"username": "ab",
				"stage":    "99",
			},
			"fields": map[string][]map[string]interface{}{
				"username": {{"type": "required"}, {"type": "username"}},
				"stage":    {{"type": "stage_number"}},
				"email":    {{"type": "required"}},
			},
		})
	require.Equal(t, http.StatusOK, recorder.Code)

	var result struct {
		IsValid bool                `json:"isValid"`
		Errors  map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &result))

	assert.False(t, result.IsValid)
	assert.NotEmpty(t, result.Errors["username"])
	assert.NotEmpty(t, result.Errors["stage"])
	assert.NotEmpty(t, result.Errors["email"], "missing required field is an error")
}

func TestValidateFormEndpointRejectsUnknownRule(t *testing.T) {
	srv, _ := testServer(t, nil)

	recorder := doJSON(t, srv.Handler(), http.MethodPost, "/api/validate/form",
		map[string]interface{}{
			"values": map[string]string{"x": "1"},
			"fields": map[string][]map[string]interface{}{
				"x": {{"type": "telepathy"}},
			},
		})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestStoreEndpoints(t *testing.T) {
	srv, store := testServer(t, nil)
	handler := srv.Handler()

	recorder := doJSON(t, handler, http.MethodPut, "/api/store/theme",
		map[string]interface{}{"value": "dark"})
	require.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = doJSON(t, handler, http.MethodGet, "/api/store/theme", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeResponse(t, recorder)
	assert.Equal(t, "theme", payload["key"])
	assert.Equal(t, "dark", payload["value"])

	recorder = doJSON(t, handler, http.MethodGet, "/api/store", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	entries := decodeResponse(t, recorder)["entries"].(map[string]interface{})
	assert.Equal(t, "dark", entries["theme"])

	recorder = doJSON(t, handler, http.MethodDelete, "/api/store/theme", nil)
	require.Equal(t, http.StatusNoContent, recorder.Code)
	assert.False(t, store.Has("theme"))

	recorder = doJSON(t, handler, http.MethodGet, "/api/store/theme", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestStorePutReportsQuota(t *testing.T) {
	srv, _ := testServer(t, storage.NewMemoryBackend(128))

	large := make([]byte, 512)
	for i := range large {
		large[i] = 'x'
	}
	recorder := doJSON(t, srv.Handler(), http.MethodPut, "/api/store/big",
		map[string]interface{}{"value": string(large)})

	assert.Equal(t, http.StatusInsufficientStorage, recorder.Code)
	payload := decodeResponse(t, recorder)
	errBody := payload["error"].(map[string]interface{})
	assert.Equal(t, "quota_exceeded", errBody["code"])
}

func TestValidationCounters(t *testing.T) {
	srv, _ := testServer(t, nil)
	handler := srv.Handler()

	doJSON(t, handler, http.MethodPost, "/api/validate/email",
		map[string]interface{}{"email": "student@university.edu"})
	doJSON(t, handler, http.MethodPost, "/api/validate/email",
		map[string]interface{}{"email": "not-an-email"})
	doJSON(t, handler, http.MethodPost, "/api/validate/form",
		map[string]interface{}{
			"values": map[string]string{"stage": "99"},
			"fields": map[string][]map[string]interface{}{
				"stage": {{"type": "stage_number"}},
			},
		})

	assert.Equal(t, int64(1), srv.registry.Get(metrics.ValidationPassTotal))
	assert.Equal(t, int64(2), srv.registry.Get(metrics.ValidationFailTotal))

	recorder := doJSON(t, handler, http.MethodGet, "/healthz", nil)
	counters := decodeResponse(t, recorder)["counters"].(map[string]interface{})
	assert.Equal(t, float64(1), counters[string(metrics.ValidationPassTotal)])
	assert.Equal(t, float64(2), counters[string(metrics.ValidationFailTotal)])
}

func TestChangeFeedRejectsMissingOrigin(t *testing.T) {
	srv, _ := testServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	recorder := httptest.NewRecorder()
	srv.Handler().ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestCheckOrigin(t *testing.T) {
	srv, _ := testServer(t, nil)
	srv.config.Server.AllowedOrigins = []string{"https://lab.gps.example"}

	tests := []struct {
		origin string
		want   bool
	}{
		{"http://localhost:8350", true},
		{"http://localhost", true},
		{"https://lab.gps.example", true},
		{"http://evil.example", false},
		{"ftp://localhost:8350", false},
		{"", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		assert.Equal(t, tt.want, srv.checkOrigin(req), "origin %q", tt.origin)
	}
}
