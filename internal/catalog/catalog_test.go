package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `[
	{"name": "Mug", "price": 12.5, "categoryKey": "kitchen", "featured": true},
	{"name": "Lamp", "price": "40", "categoryKey": "lighting", "rating": 4.2}
]`

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{name: "array", body: sampleCatalog, want: 2},
		{name: "wrapped", body: `{"products": ` + sampleCatalog + `}`, want: 2},
		{name: "broken", body: `[{"name": `, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := Decode(strings.NewReader(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, entries, tt.want)
		})
	}
}

func TestEntryInput(t *testing.T) {
	entries, err := Decode(strings.NewReader(sampleCatalog))
	require.NoError(t, err)

	inputs := Inputs(entries)

	require.Len(t, inputs, 2)
	assert.True(t, inputs[0].Price.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, inputs[0].Featured)
	require.NotNil(t, inputs[1].Rating)
	assert.InDelta(t, 4.2, *inputs[1].Rating, 0.0001)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/catalog.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sampleCatalog))
	}))
	defer srv.Close()

	fromFile, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, fromFile, 2)

	fromURL, err := Load(context.Background(), srv.URL+"/catalog.json")
	require.NoError(t, err)
	assert.Len(t, fromURL, 2)

	_, err = Load(context.Background(), srv.URL+"/missing.json")
	assert.Error(t, err)
}

func TestDecode_RejectsOversizedDocument(t *testing.T) {
	padding := strings.Repeat(" ", MaxDocumentBytes)

	_, err := Decode(strings.NewReader(sampleCatalog + padding))

	assert.ErrorIs(t, err, ErrTooLarge)
}
