// Package database handles database connections, transactions and schema checks.
//
// It provides a wrapper around GORM to configure MySQL or SQLite connections
// from the application's configuration.
//
// # Connect
//
// Connect opens the database and verifies it with a ping bounded by the
// configured timeout.
//
// # Transactions
//
// Tx implements content.Transaction. Beginner returns the content.BeginFunc a
// content.Manager uses to open one transaction per update.
//
// # Sync State
//
// The sync_states table keeps the last revision committed for each content
// root, so that an update without an explicit starting revision resumes from it.
//
// # Schema Inspection
//
// CheckSchema compares the live tables with the document models and reports
// missing tables and columns.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	issues, err := database.CheckSchema(db, &article.Article{}, &page.Page{})
package database
