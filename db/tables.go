package db

import (
	"fmt"

	"go.uber.org/zap"
)

func CheckUsersTable(db DBExecutor) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			chat_id INTEGER NOT NULL UNIQUE,
			name TEXT NOT NULL,
			tg_tag TEXT,
			lang TEXT NOT NULL DEFAULT 'pl',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			CHECK (lang IN ('en', 'pl', 'de'))
		)
	`)
	return err
}

func CheckFilesTable(db DBExecutor) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS files (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			original_name TEXT NOT NULL,
			path TEXT NOT NULL,
			filetype TEXT NOT NULL,
			mimetype TEXT NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			telegram_file_id TEXT,
			from_chat_id INTEGER,
			FOREIGN KEY (from_chat_id) REFERENCES users(chat_id),
			CHECK (filetype IN ('document', 'spreadsheet', 'other')),
			CHECK (mimetype IN (
				'application/pdf',
				'application/vnd.openxmlformats-officedocument.spreadsheetml.sheet',
				'application/json',
				'text/plain',
				'application/octet-stream'
			))
		)
	`)
	return err
}

func CheckOrdersTable(db DBExecutor) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS orders (
			id TEXT NOT NULL PRIMARY KEY,
			order_number TEXT,
			unloading_date TEXT,
			license_plate TEXT,
			freight REAL,
			loading_city TEXT,
			unloading_city TEXT,
			loading_country TEXT,
			unloading_country TEXT,
			source_file TEXT NOT NULL,
			doc_id INTEGER,
			chat_id INTEGER,
			created_at TEXT DEFAULT (datetime('now')),
			FOREIGN KEY (doc_id) REFERENCES files(id)
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS orders_license_plate_idx ON orders (license_plate)`)
	return err
}

// CheckAllTables creates every table the bot needs if it does not exist yet.
func CheckAllTables(db DBExecutor) error {
	logger := zap.L().Named("db")

	checks := []struct {
		table string
		check func(DBExecutor) error
	}{
		{"users", CheckUsersTable},
		{"files", CheckFilesTable},
		{"orders", CheckOrdersTable},
	}

	for _, c := range checks {
		if err := c.check(db); err != nil {
			return fmt.Errorf("ERR: creating or checking the table %s: %w", c.table, err)
		}
		logger.Debug("Table is ok", zap.String("table", c.table))
	}
	return nil
}
