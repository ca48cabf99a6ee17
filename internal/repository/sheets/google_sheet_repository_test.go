package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

func newTestRepository(t *testing.T, handler http.HandlerFunc) *GoogleSheetRepository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	service, err := sheetsapi.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return NewWithService(service, "sheet-123", nil)
}

func TestGoogleSheetRepository_WriteRow(t *testing.T) {
	var gotPath string
	var gotBody sheetsapi.ValueRange
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "USER_ENTERED", r.URL.Query().Get("valueInputOption"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	err := repo.WriteRow(context.Background(), "Shifts!A:O", []interface{}{"e1", "2025-03-01", "Ali", 3470})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(gotPath, "/v4/spreadsheets/sheet-123/values/"), gotPath)
	require.Len(t, gotBody.Values, 1)
	assert.Equal(t, "Ali", gotBody.Values[0][2])
}

func TestGoogleSheetRepository_WriteRowFailure(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"denied"}}`, http.StatusForbidden)
	})

	err := repo.WriteRow(context.Background(), "Shifts!A:O", []interface{}{"x"})
	assert.ErrorContains(t, err, "Shifts!A:O")
}

func TestGoogleSheetRepository_ReadRange(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "FORMATTED_VALUE", r.URL.Query().Get("valueRenderOption"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"range":"Shifts!A1:A3","values":[["ID"],["e1"],["e2"]]}`))
	})

	rows, err := repo.ReadRange(context.Background(), "Shifts!A:A")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "e2", rows[2][0])
}

func TestGoogleSheetRepository_EmptyRange(t *testing.T) {
	repo := newTestRepository(t, func(http.ResponseWriter, *http.Request) {
		t.Fatal("no request expected")
	})

	assert.Error(t, repo.WriteRow(context.Background(), "", nil))
	_, err := repo.ReadRange(context.Background(), "")
	assert.Error(t, err)
}
