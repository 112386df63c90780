package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearchStub(t *testing.T, results []Result) (*httptest.Server, *map[string]any) {
	t.Helper()
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		require.Equal(t, "secret", r.Header.Get("x-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(Output{Results: results})
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestSearchHandlers(t *testing.T) {
	ctx := context.Background()
	hits := []Result{{Title: "Go", URL: "https://go.dev"}}

	t.Run("wide search requests highlights", func(t *testing.T) {
		srv, captured := newSearchStub(t, hits)
		t.Setenv("EXA_API_KEY", "secret")
		t.Setenv("EXA_BASE_URL", srv.URL)

		out, err := OnWideSearch(ctx, &Input{Query: "golang", NumResults: 30, LookbackDays: 7})
		require.NoError(t, err)
		require.Len(t, out.Results, 1)
		assert.Equal(t, "Go", out.Results[0].Title)

		body := *captured
		assert.Equal(t, "golang", body["query"])
		assert.Equal(t, float64(30), body["numResults"])
		assert.Contains(t, body["contents"], "highlights")
		assert.NotEmpty(t, body["startPublishedDate"])
	})

	t.Run("deep search requests full text", func(t *testing.T) {
		srv, captured := newSearchStub(t, hits)
		t.Setenv("EXA_API_KEY", "secret")
		t.Setenv("EXA_BASE_URL", srv.URL)

		_, err := OnDeepSearch(ctx, &Input{Query: "golang", NumResults: 5})
		require.NoError(t, err)

		body := *captured
		assert.Equal(t, float64(5), body["numResults"])
		assert.Contains(t, body["contents"], "text")
		assert.NotContains(t, body, "startPublishedDate")
	})

	t.Run("missing api key", func(t *testing.T) {
		t.Setenv("EXA_API_KEY", "")
		_, err := OnWideSearch(ctx, &Input{Query: "golang"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "EXA_API_KEY")
	})

	t.Run("api failure surfaces status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}))
		t.Cleanup(srv.Close)
		t.Setenv("EXA_API_KEY", "secret")
		t.Setenv("EXA_BASE_URL", srv.URL)

		_, err := OnDeepSearch(ctx, &Input{Query: "golang", NumResults: 5})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("empty results decode to empty slice", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		t.Cleanup(srv.Close)
		t.Setenv("EXA_API_KEY", "secret")
		t.Setenv("EXA_BASE_URL", srv.URL)

		out, err := OnDeepSearch(ctx, &Input{Query: "golang", NumResults: 5})
		require.NoError(t, err)
		assert.NotNil(t, out.Results)
		assert.Empty(t, out.Results)
	})
}
