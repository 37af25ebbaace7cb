package shapetemplate

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMux(t *testing.T) (*Component, *http.ServeMux) {
	t.Helper()
	c := newTestComponent(t, writeDir(t), nil)
	mux := http.NewServeMux()
	c.RegisterHTTPHandlers("/shape-template/", mux)
	return c, mux
}

func get(mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHTTP_ListTypes(t *testing.T) {
	c, mux := newTestMux(t)

	rec := get(mux, "/shape-template/types")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TemplateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Address", "Person"}, resp.Types)
	assert.Equal(t, c.Holder().Registry().Generation(), resp.Generation)
}

func TestHTTP_GetTemplate(t *testing.T) {
	c, mux := newTestMux(t)

	t.Run("json", func(t *testing.T) {
		rec := get(mux, "/shape-template/templates/Person")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, c.Holder().Registry().Generation(), rec.Header().Get("X-Shape-Generation"))
		assert.Equal(t, personJSON, rec.Body.String())
	})

	t.Run("yaml mandatory", func(t *testing.T) {
		rec := get(mux, "/shape-template/templates/Person?mandatory=true&format=yaml")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
		assert.Equal(t, "id: \"\"\ntype: Person\nname: \"\"\n", rec.Body.String())
	})

	t.Run("unknown type", func(t *testing.T) {
		rec := get(mux, "/shape-template/templates/Starship")
		assert.Equal(t, http.StatusNotFound, rec.Code)

		var resp TemplateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, ErrorKindUnknownType, resp.ErrorKind)
	})

	t.Run("bad mandatory flag", func(t *testing.T) {
		rec := get(mux, "/shape-template/templates/Person?mandatory=maybe")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad format", func(t *testing.T) {
		rec := get(mux, "/shape-template/templates/Person?format=ntriples")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing type", func(t *testing.T) {
		rec := get(mux, "/shape-template/templates/")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/shape-template/templates/Person", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHTTP_GetCatalog(t *testing.T) {
	_, mux := newTestMux(t)

	t.Run("turtle default", func(t *testing.T) {
		rec := get(mux, "/shape-template/catalog")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/turtle", rec.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(rec.Body.String(), "@prefix "))
		assert.Contains(t, rec.Body.String(), "PersonShape")
	})

	t.Run("jsonld", func(t *testing.T) {
		rec := get(mux, "/shape-template/catalog?format=jsonld&profile=cco")
		require.Equal(t, http.StatusOK, rec.Code)

		var doc map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
		assert.Contains(t, doc, "@graph")
	})

	t.Run("template format rejected", func(t *testing.T) {
		rec := get(mux, "/shape-template/catalog?format=yaml")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind string
		want int
	}{
		{"", http.StatusOK},
		{ErrorKindUnknownType, http.StatusNotFound},
		{ErrorKindInvalidRequest, http.StatusBadRequest},
		{ErrorKindCycle, http.StatusUnprocessableEntity},
		{ErrorKindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.kind); got != tt.want {
			t.Errorf("statusFor(%q) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestExtractTypeName(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"standard path", "/shape-template/templates/Person", "Person"},
		{"with trailing slash", "/shape-template/templates/Person/", "Person"},
		{"complex prefix", "/api/v1/shape-template/templates/Employee", "Employee"},
		{"no templates segment", "/shape-template/types", ""},
		{"empty path", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractTypeName(tt.path); got != tt.want {
				t.Errorf("extractTypeName(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
