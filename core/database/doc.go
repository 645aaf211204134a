// Package database handles database connections.
//
// It wraps GORM to configure the MySQL connection (pool sizes, DSN timeouts,
// boot-time ping) used in production, and a sqlite driver used by tests and
// local development. Callers pick the driver through Config.Driver.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
