// Package database connects dropzone to its upload index.
//
// The index records every stored file (path, content type, etag, size and
// creation time) so uploads can be listed without walking the storage
// directory.
//
// # Supported Backends
//
//   - SQLite: default, suitable for single-node deployments
//   - PostgreSQL: pgx connection pool
//
// # Usage
//
//	cfg := database.Config{
//	    Type:   "sqlite",
//	    DSN:    "dropzone.db",
//	    Tables: dropzone.Tables{Uploads: "dropzone_uploads"},
//	}
//
//	db, err := database.Open(ctx, cfg) // cfg.AutoMigrate = true
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	repo := db.GetRepo()
//
// Connect only opens the backend. Open also pings it, optionally migrates
// and then validates the schema.
package database
