package httpcache

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"git.home.luguber.info/inful/listbuilder/internal/logfields"
	"git.home.luguber.info/inful/listbuilder/internal/metrics"
)

// XFromCache is set on responses served from the cache.
const XFromCache = "X-From-Cache"

// Transport serves GET requests from the cache and records fresh 200 responses.
type Transport struct {
	Base     http.RoundTripper
	Store    *Store
	Recorder metrics.Recorder

	memo *gocache.Cache
}

// NewTransport creates a caching transport over base (http.DefaultTransport when nil).
func NewTransport(base http.RoundTripper, store *Store, recorder metrics.Recorder) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Transport{
		Base:     base,
		Store:    store,
		Recorder: recorder,
		memo:     gocache.New(store.ttl, 2*store.ttl),
	}
}

// Client returns an *http.Client using the transport.
func (t *Transport) Client() *http.Client {
	return &http.Client{Transport: t}
}

func cacheKey(req *http.Request) string {
	return req.Method + " " + req.URL.String()
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.Base.RoundTrip(req)
	}
	key := cacheKey(req)

	if v, ok := t.memo.Get(key); ok {
		if resp, err := decode(v.([]byte), req, true); err == nil {
			t.Recorder.IncHTTPCache(metrics.CacheHitMemory)
			slog.Debug("HTTP cache hit", logfields.URL(req.URL.String()), logfields.Cache(string(metrics.CacheHitMemory)))
			return resp, nil
		}
		t.memo.Delete(key)
	}

	if data, ok := t.Store.Get(key); ok {
		if resp, err := decode(data, req, true); err == nil {
			t.memo.SetDefault(key, data)
			t.Recorder.IncHTTPCache(metrics.CacheHitDisk)
			slog.Debug("HTTP cache hit", logfields.URL(req.URL.String()), logfields.Cache(string(metrics.CacheHitDisk)))
			return resp, nil
		}
		_ = t.Store.Delete(key)
	}

	t.Recorder.IncHTTPCache(metrics.CacheMiss)
	start := time.Now()
	resp, err := t.Base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	slog.Debug("HTTP fetch", logfields.URL(req.URL.String()), logfields.Status(resp.StatusCode),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))

	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	data, err := httputil.DumpResponse(resp, true)
	if err != nil {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("read response body: %w", err)
	}
	_ = resp.Body.Close()

	t.memo.SetDefault(key, data)
	if perr := t.Store.Put(key, data); perr != nil {
		slog.Warn("Failed to persist HTTP cache entry", logfields.URL(req.URL.String()), logfields.Error(perr))
	}
	return decode(data, req, false)
}

// decode rebuilds a response from its wire dump.
func decode(data []byte, req *http.Request, cached bool) (*http.Response, error) {
	resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(data)), req)
	if err != nil {
		return nil, err
	}
	if cached {
		resp.Header.Set(XFromCache, "1")
	}
	return resp, nil
}
