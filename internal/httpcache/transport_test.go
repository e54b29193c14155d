package httpcache

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/listbuilder/internal/metrics"
)

type countingRecorder struct {
	metrics.NoopRecorder
	results map[metrics.CacheResult]int
}

func (c *countingRecorder) IncHTTPCache(r metrics.CacheResult) { c.results[r]++ }

func newServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		default:
			w.Header().Set("Content-Type", "text/plain")
			_, _ = io.WriteString(w, "payload for "+r.URL.Path)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, client *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestTransport_MemoryAndDiskHits(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	store := NewStore(t.TempDir(), time.Hour)
	rec := &countingRecorder{results: map[metrics.CacheResult]int{}}

	client := NewTransport(nil, store, rec).Client()

	resp, body := get(t, client, srv.URL+"/lists/")
	assert.Equal(t, "payload for /lists/", body)
	assert.Empty(t, resp.Header.Get(XFromCache))

	resp, body = get(t, client, srv.URL+"/lists/")
	assert.Equal(t, "payload for /lists/", body)
	assert.Equal(t, "1", resp.Header.Get(XFromCache))
	assert.Equal(t, "text/plain", resp.Header.Get("Content-Type"))
	assert.Equal(t, int32(1), hits.Load())

	// A new transport shares nothing in memory but finds the disk entry.
	other := NewTransport(nil, store, rec).Client()
	_, body = get(t, other, srv.URL+"/lists/")
	assert.Equal(t, "payload for /lists/", body)
	assert.Equal(t, int32(1), hits.Load())

	assert.Equal(t, 1, rec.results[metrics.CacheMiss])
	assert.Equal(t, 1, rec.results[metrics.CacheHitMemory])
	assert.Equal(t, 1, rec.results[metrics.CacheHitDisk])
}

func TestTransport_ErrorsAreNotCached(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	client := NewTransport(nil, NewStore(t.TempDir(), time.Hour), nil).Client()

	for range 2 {
		resp, _ := get(t, client, srv.URL+"/missing")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}
	assert.Equal(t, int32(2), hits.Load())
}

func TestTransport_NonGetBypassesCache(t *testing.T) {
	var hits atomic.Int32
	srv := newServer(t, &hits)
	client := NewTransport(nil, NewStore(t.TempDir(), time.Hour), nil).Client()

	for range 2 {
		resp, err := client.Post(srv.URL+"/x", "text/plain", strings.NewReader("b"))
		require.NoError(t, err)
		_ = resp.Body.Close()
	}
	assert.Equal(t, int32(2), hits.Load())
}

func TestStore_Expiry(t *testing.T) {
	store := NewStore(t.TempDir(), time.Minute)
	require.NoError(t, store.Put("k", []byte("v")))

	data, ok := store.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", string(data))

	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, ok = store.Get("k")
	assert.False(t, ok)

	require.NoError(t, store.Delete("k"))
	require.NoError(t, store.Delete("k"))
}

func TestStore_ShardedLayout(t *testing.T) {
	store := NewStore(t.TempDir(), time.Minute)
	p := store.path("GET https://example.com/")
	rel, err := filepath.Rel(store.Dir(), p)
	require.NoError(t, err)
	parts := strings.Split(filepath.ToSlash(rel), "/")
	require.Len(t, parts, 2)
	assert.Len(t, parts[0], 2)
	assert.True(t, strings.HasPrefix(parts[1], parts[0]))
}
