// Package workspace manages the cache directory holding the content clone and
// the HTTP response cache, supporting both ephemeral (timestamped) and
// persistent (fixed-path) modes.
//
// Persistent mode uses the configured cache directory (".cache" by default),
// so the clone and cached responses survive between runs.
//
// Ephemeral mode creates a timestamped directory (e.g. listbuilder-20251214-122336)
// under the system temp dir for a one-off run and removes it afterwards.
package workspace
