//go:build purego || !cgo_sqlite

package storage

// Compiled when building without CGO or with the purego tag.
//
// Build command:
//   CGO_ENABLED=0 go build ./...
//
// modernc.org/sqlite is a pure Go translation of the SQLite amalgamation
// with FTS5 (including the trigram tokenizer) compiled in, so the search
// mirror works without a C toolchain.

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite"

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
