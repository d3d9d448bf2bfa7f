// ABOUTME: Tests for the document library, GitHub fetcher, cache, and fallback behavior
// ABOUTME: Uses httptest for the contents API and t.TempDir for the SQLite cache

package docs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibrary_NamesExcludePersonality(t *testing.T) {
	lib := NewLibrary(map[string]string{
		"b.txt":        "bee",
		"a.txt":        "ay",
		PersonalityDoc: "Tone: warm.",
	})

	assert.Equal(t, []string{"a.txt", "b.txt"}, lib.Names())
	assert.Equal(t, "Tone: warm.", lib.Personality())
	assert.Equal(t, 3, lib.Len())
}

func TestLibrary_PersonalityDefault(t *testing.T) {
	lib := NewLibrary(map[string]string{"a.txt": "ay"})
	assert.Contains(t, lib.Personality(), "Neutral and helpful")
}

func TestGitHubFetcher_FetchesTxtFilesOnly(t *testing.T) {
	mux := http.NewServeMux()
	var server *httptest.Server

	mux.HandleFunc("/repos/acme/handbook/contents/docs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		assert.Equal(t, "Bearer sekrit", r.Header.Get("Authorization"))
		entries := []map[string]string{
			{"name": "faq.txt", "type": "file", "download_url": server.URL + "/raw/faq.txt"},
			{"name": "logo.png", "type": "file", "download_url": server.URL + "/raw/logo.png"},
			{"name": "archive", "type": "dir", "download_url": ""},
		}
		json.NewEncoder(w).Encode(entries)
	})
	mux.HandleFunc("/raw/faq.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "Frequently asked answers.")
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	f := NewGitHubFetcher(GitHubConfig{
		Owner:   "acme",
		Repo:    "handbook",
		Branch:  "main",
		Folder:  "docs",
		Token:   "sekrit",
		APIBase: server.URL,
	}, nil)

	fetched, err := f.Fetch(t.Context())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"faq.txt": "Frequently asked answers."}, fetched)
}

func TestGitHubFetcher_ListFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	f := NewGitHubFetcher(GitHubConfig{Owner: "o", Repo: "r", Branch: "main", Folder: "docs", APIBase: server.URL}, nil)
	_, err := f.Fetch(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestCache_SaveAndLoadRoundtrip(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "docs.db"))
	require.NoError(t, err)
	defer cache.Close()

	docs := map[string]string{"a.txt": "alpha", "b.txt": "beta"}
	require.NoError(t, cache.Save(t.Context(), docs))

	loaded, err := cache.Load(t.Context())
	require.NoError(t, err)
	assert.Equal(t, docs, loaded)

	// A second save replaces, not appends
	require.NoError(t, cache.Save(t.Context(), map[string]string{"c.txt": "gamma"}))
	loaded, err = cache.Load(t.Context())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"c.txt": "gamma"}, loaded)
}

// failingFetcher always errors, standing in for an unreachable source.
type failingFetcher struct{}

func (failingFetcher) Fetch(context.Context) (map[string]string, error) {
	return nil, errors.New("github unreachable")
}

type staticFetcher map[string]string

func (s staticFetcher) Fetch(context.Context) (map[string]string, error) {
	return s, nil
}

func TestService_LoadFallsBackToCache(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "docs.db"))
	require.NoError(t, err)
	defer cache.Close()
	require.NoError(t, cache.Save(t.Context(), map[string]string{"a.txt": "cached"}))

	s := NewService(failingFetcher{}, cache, 0, nil)
	defer s.Close()

	require.NoError(t, s.Load(t.Context()))
	text, ok := s.Library().Get("a.txt")
	require.True(t, ok)
	assert.Equal(t, "cached", text)
}

func TestService_LoadFailsWhenFetchAndCacheEmpty(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "docs.db"))
	require.NoError(t, err)
	defer cache.Close()

	s := NewService(failingFetcher{}, cache, 0, nil)
	defer s.Close()

	require.Error(t, s.Load(t.Context()))
}

func TestService_LoadPopulatesCache(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "docs.db"))
	require.NoError(t, err)
	defer cache.Close()

	s := NewService(staticFetcher{"a.txt": "fresh"}, cache, 0, nil)
	defer s.Close()

	require.NoError(t, s.Load(t.Context()))

	cached, err := cache.Load(t.Context())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a.txt": "fresh"}, cached)
}
