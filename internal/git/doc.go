// Package git keeps a local clone of the content repository.
//
// The clone is created lazily on first use and can be fast-forwarded on
// demand. Failures are returned as ClassifiedErrors so the CLI can map them
// onto exit codes.
package git
