package db

import (
	_ "embed"

	// warehouse.Open dials "libsql" for hosted stores and "sqlite"
	// for local files, both drivers must be registered here
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Schema holds the warehouse DDL. EnsureSchema splits it on
// semicolons before executing, so no statement may carry a semicolon
// inside a literal or trigger body.
//
//go:embed schema.sql
var Schema string
