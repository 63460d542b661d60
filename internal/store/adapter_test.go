package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcp-service/internal/settings"
)

func TestAdapter_UnknownEntity(t *testing.T) {
	adapter := NewAdapter(newTestSettings(t, nil), testLogger())

	_, err := adapter.List(context.Background(), "invoices")
	var unknown *UnknownEntityError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "invoices", unknown.Name)
}

func TestAdapter_DispatchFollowsBackendSelection(t *testing.T) {
	sheetsHits, supabaseHits := 0, 0

	sheetsServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sheetsHits++
		json.NewEncoder(w).Encode(valueRange{})
	}))
	defer sheetsServer.Close()

	supabaseServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		supabaseHits++
		w.Write([]byte(`[]`))
	}))
	defer supabaseServer.Close()

	st := newTestSettings(t, map[string]string{
		settings.KeySheetsAPIKey:  "key-1",
		settings.KeySpreadsheetID: "sheet-1",
		settings.KeySupabaseURL:   supabaseServer.URL,
		settings.KeySupabaseKey:   "anon-key",
	})
	adapter := NewAdapter(st, testLogger())
	adapter.drivers[settings.BackendSheets].(*SheetsDriver).BaseURL = sheetsServer.URL

	// Default backend is the spreadsheet
	_, err := adapter.List(context.Background(), "products")
	require.NoError(t, err)
	assert.Equal(t, 1, sheetsHits)
	assert.Equal(t, 0, supabaseHits)

	// Switching settings redirects the very next operation
	require.NoError(t, st.Set(settings.KeyBackend, settings.BackendSupabase))
	_, err = adapter.List(context.Background(), "products")
	require.NoError(t, err)
	assert.Equal(t, 1, sheetsHits)
	assert.Equal(t, 1, supabaseHits)
}

func TestAdapter_InsertRoundTrip(t *testing.T) {
	rows := [][]string{{"ID", "Nome"}}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var vr valueRange
			require.NoError(t, json.NewDecoder(r.Body).Decode(&vr))
			rows = append(rows, vr.Values...)
			w.Write([]byte(`{}`))
			return
		}
		json.NewEncoder(w).Encode(valueRange{Values: rows})
	}))
	defer server.Close()

	st := newTestSettings(t, map[string]string{
		settings.KeySheetsAPIKey:  "key-1",
		settings.KeySpreadsheetID: "sheet-1",
	})
	adapter := NewAdapter(st, testLogger())
	adapter.drivers[settings.BackendSheets].(*SheetsDriver).BaseURL = server.URL

	_, err := adapter.Insert(context.Background(), "stamp_types", Record{"Nome": "Sublimação"})
	require.NoError(t, err)

	records, err := adapter.List(context.Background(), "stamp_types")
	require.NoError(t, err)
	require.Len(t, records, 1)
	// The inserted fields come back; the identifier is generated
	assert.Equal(t, "Sublimação", records[0]["Nome"])
	assert.NotEmpty(t, records[0]["ID"])
}
