package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/treebjj/academy-hub/internal/domain/user"
	"github.com/treebjj/academy-hub/internal/engine"
	"github.com/treebjj/academy-hub/internal/infrastructure/messaging"
	"github.com/treebjj/academy-hub/internal/infrastructure/persistence/localstore"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store := localstore.NewMemoryStore()
	bus := messaging.NewInMemoryEventBus(messaging.DefaultConfig())
	t.Cleanup(func() { bus.Close() })

	admin, err := user.NewUser("u-1", "Anderson", "admin@treebjj.com", "secret", user.RoleAdmin)
	assert.NoError(t, err)

	e, err := engine.New(engine.Config{
		Store:    store,
		Bus:      bus,
		Accounts: []*user.User{admin},
	})
	assert.NoError(t, err)

	config := DefaultConfig()
	config.RateLimitPerMinute = 0
	return NewServer(config, Dependencies{Engine: e})
}

func doRequest(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.NoError(t, json.Unmarshal(envelope.Data, dst))
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEnrollAndListStudents(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/students", map[string]interface{}{
		"name": "Ana", "belt": "Branca", "status": "Ativo", "planId": "plan-1",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	decodeData(t, rec, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Ana", created.Name)

	rec = doRequest(t, s, http.MethodGet, "/api/v1/students", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var roster []json.RawMessage
	decodeData(t, rec, &roster)
	assert.Len(t, roster, 3) // two seeded plus Ana
}

func TestEnrollValidationFailure(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/students", map[string]interface{}{
		"name": "", "belt": "Branca",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUnknownStudent(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/v1/students/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckInEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/students/stu-1/checkins", map[string]string{
		"method": "TOTEM",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var record struct {
		StudentName string `json:"studentName"`
		Method      string `json:"method"`
	}
	decodeData(t, rec, &record)
	assert.Equal(t, "Carlos Oliveira", record.StudentName)
	assert.Equal(t, "TOTEM", record.Method)
}

func TestCheckInUnknownStudent(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodPost, "/api/v1/students/missing/checkins", map[string]string{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFinancialSummaryEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/v1/financials/summary", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var summary struct {
		Income  int64 `json:"income"`
		Balance int64 `json:"balance"`
	}
	decodeData(t, rec, &summary)
	assert.NotZero(t, summary.Income)
}

func TestSnapshotExportIsRawDocument(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/v1/snapshot", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The export bypasses the response envelope.
	var doc map[string]json.RawMessage
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Contains(t, doc, "students")
	assert.Contains(t, doc, "updatedAt")
}

func TestSnapshotImportRejectsMalformed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/snapshot", bytes.NewReader([]byte(`{broken`)))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginFlow(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/session", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/api/v1/session", map[string]string{
		"email": "admin@treebjj.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/api/v1/session", map[string]string{
		"email": "admin@treebjj.com", "password": "secret",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/v1/session", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodDelete, "/api/v1/session", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSyncEndpointsWithoutAdapter(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/v1/sync/status", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSystemResetRequiresConfirmation(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/system/reset", map[string]bool{"confirm": false})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/api/v1/system/reset", map[string]bool{"confirm": true})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t)
	rec := doRequest(t, s, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
