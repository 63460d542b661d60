package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pcp-service/internal/settings"
	"pcp-service/internal/store"
)

// newEntityTest wires an adapter against a fake PostgREST backend. The
// backend URL is itself a setting, so no driver internals are touched.
func newEntityTest(t *testing.T, backend http.HandlerFunc) (*echo.Echo, *EntityHandler, *settings.Store) {
	t.Helper()

	st := settings.NewStore(newFakeKV())
	if backend != nil {
		server := httptest.NewServer(backend)
		t.Cleanup(server.Close)
		require.NoError(t, st.Set(settings.KeyBackend, settings.BackendSupabase))
		require.NoError(t, st.Set(settings.KeySupabaseURL, server.URL))
		require.NoError(t, st.Set(settings.KeySupabaseKey, "anon-key"))
	}

	e := echo.New()
	e.Validator = NewValidator()
	return e, NewEntityHandler(store.NewAdapter(st, zap.NewNop())), st
}

func entityContext(e *echo.Echo, method, target, body string, names, values []string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func TestEntityList(t *testing.T) {
	e, h, _ := newEntityTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/stamp_types", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "a1", "name": "Sublimação"},
			{"id": "a2", "name": "DTF"},
		})
	})

	c, rec := entityContext(e, http.MethodGet, "/api/entities/stamp_types", "", []string{"entity"}, []string{"stamp_types"})
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "Sublimação", records[0]["name"])
}

func TestEntityList_UnknownEntity(t *testing.T) {
	e, h, _ := newEntityTest(t, nil)

	c, rec := entityContext(e, http.MethodGet, "/api/entities/invoices", "", []string{"entity"}, []string{"invoices"})
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEntityList_NotConfigured(t *testing.T) {
	// No backend configured at all; the default sheets driver has no creds
	e, h, _ := newEntityTest(t, nil)

	c, rec := entityContext(e, http.MethodGet, "/api/entities/products", "", []string{"entity"}, []string{"products"})
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	assert.Contains(t, rec.Body.String(), "settings")
}

func TestEntityList_RemoteErrorBecomesBadGateway(t *testing.T) {
	e, h, _ := newEntityTest(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "permission denied", http.StatusForbidden)
	})

	c, rec := entityContext(e, http.MethodGet, "/api/entities/products", "", []string{"entity"}, []string{"products"})
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, http.StatusForbidden, resp["upstream_status"])
}

func TestEntityCreate(t *testing.T) {
	e, h, _ := newEntityTest(t, func(w http.ResponseWriter, r *http.Request) {
		var sent map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		sent["id"] = "srv-1"
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode([]map[string]any{sent})
	})

	c, rec := entityContext(e, http.MethodPost, "/api/entities/stamp_types",
		`{"name":"Silk"}`, []string{"entity"}, []string{"stamp_types"})
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var stored map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	assert.Equal(t, "Silk", stored["name"])
	assert.Equal(t, "srv-1", stored["id"])
}

func TestEntityCreate_EmptyRecord(t *testing.T) {
	e, h, _ := newEntityTest(t, nil)

	c, rec := entityContext(e, http.MethodPost, "/api/entities/stamp_types",
		`{}`, []string{"entity"}, []string{"stamp_types"})
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEntityUpdate(t *testing.T) {
	e, h, _ := newEntityTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		json.NewEncoder(w).Encode([]map[string]any{{"id": "a1", "name": "Silk"}})
	})

	c, rec := entityContext(e, http.MethodPut, "/api/entities/stamp_types/a1",
		`{"name":"Silk"}`, []string{"entity", "id"}, []string{"stamp_types", "a1"})
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEntityUpdate_NotSupportedOnSheets(t *testing.T) {
	e, h, st := newEntityTest(t, nil)
	// The sheets backend is configured but has no row update operation
	require.NoError(t, st.Set(settings.KeySheetsAPIKey, "key-1"))
	require.NoError(t, st.Set(settings.KeySpreadsheetID, "sheet-1"))

	c, rec := entityContext(e, http.MethodPut, "/api/entities/stamp_types/1",
		`{"Nome":"X"}`, []string{"entity", "id"}, []string{"stamp_types", "1"})
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestEntityDelete(t *testing.T) {
	e, h, _ := newEntityTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		json.NewEncoder(w).Encode([]map[string]any{{"id": "a1"}})
	})

	c, rec := entityContext(e, http.MethodDelete, "/api/entities/stamp_types/a1",
		"", []string{"entity", "id"}, []string{"stamp_types", "a1"})
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEntityDelete_NotSupportedOnSheets(t *testing.T) {
	e, h, st := newEntityTest(t, nil)
	require.NoError(t, st.Set(settings.KeySheetsAPIKey, "key-1"))
	require.NoError(t, st.Set(settings.KeySpreadsheetID, "sheet-1"))

	c, rec := entityContext(e, http.MethodDelete, "/api/entities/stamp_types/1",
		"", []string{"entity", "id"}, []string{"stamp_types", "1"})
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
