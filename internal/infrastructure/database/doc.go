// Package database provides SQLite connectivity for ProjectHub.
//
// This package manages:
//   - Opening the database with WAL mode, busy timeout and foreign keys
//   - Applying embedded schema migrations (schema_migrations table)
//   - Health checks and lifecycle management
//   - Classifying driver errors (unique constraint violations)
//
// Security Considerations:
//   - All queries use parameterised statements
//   - The database file is chmod 0600 after creation
//   - Only password hashes are stored, never plaintext
//
// Usage:
//
//	db, err := database.Open(ctx, cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
