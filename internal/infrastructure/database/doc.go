// Package database provides the SQLite connection behind brewshell's command
// history.
//
// This package manages:
//   - Database connection with WAL mode and a busy timeout
//   - Versioned schema migrations read from an fs.FS
//
// All queries use parameterised statements. The database file is created
// with 0600 permissions.
//
// Usage:
//
//	db, err := database.Open(database.ConfigFrom(cfg.Database))
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
package database
