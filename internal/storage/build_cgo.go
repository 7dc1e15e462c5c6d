//go:build cgo_sqlite

package storage

// Compiled when building with CGO and the cgo_sqlite tag.
//
// Build command:
//   CGO_ENABLED=1 go build -tags "cgo_sqlite sqlite_fts5" ./...
//
// The sqlite_fts5 tag is required: the snippet search mirror is an FTS5
// virtual table and schema creation fails without it.
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)
