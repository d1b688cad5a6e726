package openapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/api-typegen/pkg/document"
)

const petstore = `{
  "openapi": "3.0.0",
  "info": {"title": "Petstore", "version": "1.0.0"},
  "paths": {}
}`

func TestLoadDocument_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.json")
	require.NoError(t, os.WriteFile(path, []byte(petstore), 0o644))

	doc, err := LoadDocument(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "3.0.0", document.String(doc.Root(), "openapi"))
}

func TestLoadDocument_MissingFile(t *testing.T) {
	_, err := LoadDocument(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestLoadDocument_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openapi.yaml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("openapi: 3.1.0\npaths: {}\n"))
	}))
	defer srv.Close()

	doc, err := LoadDocumentWithClient(context.Background(), srv.Client(), srv.URL+"/openapi.yaml")
	require.NoError(t, err)
	assert.Equal(t, "3.1.0", document.String(doc.Root(), "openapi"))

	_, err = LoadDocumentWithClient(context.Background(), srv.Client(), srv.URL+"/missing.yaml")
	assert.Error(t, err)
}

func TestLoadDocument_InvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n"), 0o644))

	_, err := LoadDocument(context.Background(), path)
	assert.True(t, errors.Is(err, document.ErrInvalidDocument))
}

func TestLoadDocument_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadDocument(ctx, "https://example.com/openapi.yaml")
	assert.True(t, errors.Is(err, context.Canceled))
}
