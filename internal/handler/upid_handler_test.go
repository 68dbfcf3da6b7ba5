package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Siddarth2230/upid/internal/models"
	"github.com/Siddarth2230/upid/internal/repository"
	"github.com/Siddarth2230/upid/internal/service"
	"github.com/Siddarth2230/upid/pkg/idgen"
	"github.com/Siddarth2230/upid/pkg/upid"
)

type memRepo struct {
	mu   sync.Mutex
	recs map[upid.UPID]models.Record
}

func (m *memRepo) SaveBatch(_ context.Context, recs []*models.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range recs {
		m.recs[rec.ID] = *rec
	}
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id upid.UPID) (*models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *memRepo) ListByPrefix(_ context.Context, prefix string, limit int) ([]models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Record{}
	for _, rec := range m.recs {
		if prefix == "" || rec.Prefix == prefix {
			out = append(out, rec)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) DeleteByID(_ context.Context, id upid.UPID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recs[id]; !ok {
		return repository.ErrNoRecord
	}
	delete(m.recs, id)
	return nil
}

func newTestRouter() *mux.Router {
	repo := &memRepo{recs: map[upid.UPID]models.Record{}}
	svc := service.NewUPIDService(repo, idgen.NewUPIDGenerator(nil), nil, 16)
	r := mux.NewRouter()
	NewUPIDHandler(svc).RegisterRoutes(r)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestIssueAndGet(t *testing.T) {
	r := newTestRouter()

	rec := do(t, r, http.MethodPost, "/upids", `{"prefix":"user","label":"signup","timestamp_ms":1720600366848}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var issued models.IssueResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &issued))
	require.Len(t, issued.IDs, 1)
	id := issued.IDs[0].ID
	assert.Equal(t, "user", id.Prefix())
	assert.Equal(t, int64(1720600366848), id.Milliseconds())

	rec = do(t, r, http.MethodGet, "/upids/"+id.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "signup", got.Label)

	// The canonical form without separator resolves to the same record.
	rec = do(t, r, http.MethodGet, "/upids/"+id.Canonical(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIssueBatch(t *testing.T) {
	r := newTestRouter()

	rec := do(t, r, http.MethodPost, "/upids", `{"prefix":"ab","count":5}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var issued models.IssueResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &issued))
	assert.Len(t, issued.IDs, 5)

	rec = do(t, r, http.MethodGet, "/upids?prefix=ab&limit=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list models.ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 3, list.Count)
	assert.Len(t, list.Items, 3)

	rec = do(t, r, http.MethodGet, "/upids?prefix=abz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 5, list.Count)
}

func TestIssueRejects(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name string
		body string
		kind string
	}{
		{"malformed json", `{"prefix":`, ""},
		{"unknown field", `{"prefix":"a","node":1}`, ""},
		{"count over limit", `{"prefix":"a","count":1001}`, "invalid_request"},
		{"long label", `{"prefix":"a","label":"` + strings.Repeat("x", 257) + `"}`, "invalid_request"},
		{"prefix too long", `{"prefix":"users"}`, "prefix_too_long"},
		{"upper-case prefix", `{"prefix":"User"}`, "invalid_character"},
		{"negative timestamp", `{"prefix":"a","timestamp_ms":-1}`, "timestamp_out_of_range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, http.MethodPost, "/upids", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.kind, decodeError(t, rec).Kind)
		})
	}
}

func TestGetErrors(t *testing.T) {
	r := newTestRouter()

	rec := do(t, r, http.MethodGet, "/upids/user_2acdrlkjmhs6ar53taem6a", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	tests := map[string]string{
		"USER_2acdrlkjmhs6ar53taem6a":  "invalid_character",
		"user_2acdrlkjmhs6ar53taem6":   "invalid_length",
		"user_2acdrlkjmhs6ar53taem6ab": "invalid_length",
		"zzzz_zzzzzzzzzzzzzzzzzzzzzz":  "overflow",
	}
	for id, kind := range tests {
		rec := do(t, r, http.MethodGet, "/upids/"+id, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, id)
		assert.Equal(t, kind, decodeError(t, rec).Kind, id)
	}
}

func TestRevoke(t *testing.T) {
	r := newTestRouter()

	rec := do(t, r, http.MethodPost, "/upids", `{"prefix":"tmp"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var issued models.IssueResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &issued))
	path := "/upids/" + issued.IDs[0].ID.String()

	assert.Equal(t, http.StatusNoContent, do(t, r, http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, path, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodDelete, path, "").Code)
}

func TestList(t *testing.T) {
	r := newTestRouter()

	rec := do(t, r, http.MethodGet, "/upids?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodGet, "/upids?limit=5000", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeError(t, rec).Kind)

	rec = do(t, r, http.MethodGet, "/upids?prefix=toolong", "")
	assert.Equal(t, "prefix_too_long", decodeError(t, rec).Kind)

	rec = do(t, r, http.MethodGet, "/upids", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list models.ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 0, list.Count)
	assert.NotNil(t, list.Items)
}

func TestDecode(t *testing.T) {
	r := newTestRouter()

	rec := do(t, r, http.MethodGet, "/decode/user_2acdrlkjmhs6ar53taem6a", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var d models.Decoded
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, "user", d.Prefix)
	assert.Equal(t, "01909bc6-0f93-7043-5c61-c99524d61576", d.UUID)
	assert.Equal(t, "01909bc60f9370435c61c99524d61576", d.Hex)
	assert.Equal(t, int64(1720600366848), d.Milliseconds)

	rec = do(t, r, http.MethodGet, "/decode/user_2acdrlkjmhs6ar53taem6z", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "overflow", decodeError(t, rec).Kind)
}
