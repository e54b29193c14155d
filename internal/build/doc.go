// Package build wires the source, list builder, bundle writer and cluster
// merger into the runs exposed by the CLI.
//
// A Pipeline is created once per command invocation. It owns the cache
// workspace, the HTTP cache transport and the metrics recorder; each run
// fetches everything afresh and holds the results in memory only.
package build
