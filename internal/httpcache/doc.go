// Package httpcache memoizes successful GET responses on disk for a fixed
// expiry, fronted by an in-process go-cache memo.
//
// Transport is an http.RoundTripper, so callers keep using a plain
// *http.Client. Responses served from the cache carry the XFromCache header.
// Freshness is purely time based; Cache-Control and validators are ignored.
package httpcache
