package collector

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aiops-data-collector/internal/config"
	"aiops-data-collector/internal/model"
)

func newFetcher() *PaginatedFetcher {
	return NewPaginatedFetcher(NewTransport(1, true))
}

func TestFetchCountedSinglePage(t *testing.T) {
	var pages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages = append(pages, r.URL.Query().Get("page"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"results":  []map[string]interface{}{{"id": 1}, {"id": 2}},
			"total":    2,
			"per_page": 10,
		})
	}))
	defer srv.Close()

	out, err := newFetcher().FetchCounted(srv.URL+"/hosts?staleness=fresh", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"1"}, pages)
	assert.Equal(t, 2, out.Total)
	assert.Len(t, out.Results, 2)
}

func TestFetchCountedPageBound(t *testing.T) {
	// total=25, per_page=10 gives pageCount=3, yet only pages 1 and 2 are
	// requested; see the TODO at the loop bound before relying on this.
	var pages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"results":  []map[string]interface{}{{"page": page}},
			"total":    25,
			"per_page": 10,
		})
	}))
	defer srv.Close()

	out, err := newFetcher().FetchCounted(srv.URL+"/hosts?staleness=fresh", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2"}, pages)
	assert.Equal(t, 25, out.Total)
	assert.Len(t, out.Results, 2)
}

func TestFetchCountedPreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"results":  []map[string]interface{}{{"id": "p" + page}},
			"total":    30,
			"per_page": 10,
		})
	}))
	defer srv.Close()

	out, err := newFetcher().FetchCounted(srv.URL+"/hosts?staleness=fresh", nil)
	require.NoError(t, err)

	var ids []interface{}
	for _, rec := range out.Results {
		ids = append(ids, rec["id"])
	}
	assert.Equal(t, []interface{}{"p1", "p2"}, ids)
}

func TestFetchLinkedSinglePage(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data":  []map[string]interface{}{{"id": 0}, {"id": 1}, {"id": 2}},
			"links": map[string]string{},
		})
	}))
	defer srv.Close()

	endpoint := config.Endpoint{Host: srv.URL, Path: "api/topo/vX"}
	out, err := newFetcher().FetchLinked(endpoint, "container_nodes", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"/api/topo/vX/container_nodes"}, paths)
	assert.Len(t, out, 3)
}

func TestFetchLinkedFollowsNext(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/api/topo/vX/container_nodes":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data":  []map[string]interface{}{{"id": 0}, {"id": 1}},
				"links": map[string]string{"next": "/next_page"},
			})
		default:
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data":  []map[string]interface{}{{"id": 2}, {"id": 3}},
				"links": map[string]string{},
			})
		}
	}))
	defer srv.Close()

	endpoint := config.Endpoint{Host: srv.URL, Path: "api/topo/vX"}
	out, err := newFetcher().FetchLinked(endpoint, "container_nodes", nil)
	require.NoError(t, err)

	// the next link is a path rooted at the host, not at the API path
	assert.Equal(t, []string{"/api/topo/vX/container_nodes", "/next_page"}, paths)

	var ids []interface{}
	for _, rec := range out {
		ids = append(ids, rec["id"])
	}
	assert.Equal(t, []interface{}{float64(0), float64(1), float64(2), float64(3)}, ids)
}

func TestFetchLinkedUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newFetcher().FetchLinked(config.Endpoint{Host: srv.URL}, "container_nodes", nil)
	assert.Error(t, err)
}

func collectionIDs(result model.CollectionResult) []string {
	ids := make([]string, 0, len(result))
	for _, rec := range result {
		ids = append(ids, fmt.Sprintf("%v", rec["id"]))
	}
	return ids
}
