package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyCategory   = "category"
	KeySlug       = "slug"
	KeyFile       = "file"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyName       = "name"
	KeyCount      = "count"
	KeyMode       = "mode"
	KeyStatus     = "status"
	KeyCache      = "cache"
	KeyKey        = "key"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Name(n string) slog.Attr         { return slog.String(KeyName, n) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Mode(m string) slog.Attr         { return slog.String(KeyMode, m) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func Cache(result string) slog.Attr   { return slog.String(KeyCache, result) }
func Key(k string) slog.Attr          { return slog.String(KeyKey, k) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
