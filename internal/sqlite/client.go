package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type Client struct {
	db     *sql.DB
	config Config
}

func NewClient(config Config) (*Client, error) {
	dsn := buildDSN(config)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	client := &Client{
		db:     db,
		config: config,
	}

	if err = client.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return client, nil
}

func buildDSN(config Config) string {
	dsn := fmt.Sprintf("file:%s?", config.DatabasePath)

	dsn += fmt.Sprintf("_busy_timeout=%d", int(config.BusyTimeout.Milliseconds()))

	// Use IMMEDIATE transactions by default to acquire the reserved lock up
	// front: batch creation for a collection date must not race with itself.
	dsn += "&_txlock=immediate"

	if config.EnableWAL {
		dsn += "&_journal_mode=WAL"
	}

	return dsn
}

// migrate creates the schema on first start.
func (c *Client) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS mandates (
			reference TEXT PRIMARY KEY,
			debtor_ref TEXT NOT NULL,
			iban TEXT NOT NULL,
			bic TEXT NOT NULL DEFAULT '',
			account_holder TEXT NOT NULL,
			signature_date TEXT NOT NULL,
			sequence_type TEXT NOT NULL,
			status TEXT NOT NULL,
			activated_at TEXT,
			cancelled_at TEXT,
			cancel_reason TEXT NOT NULL DEFAULT '',
			last_used_at TEXT
		);

		CREATE TABLE IF NOT EXISTS batches (
			reference TEXT PRIMARY KEY,
			collection_date TEXT NOT NULL,
			status TEXT NOT NULL,
			total_cents INTEGER NOT NULL,
			control_sum_cents INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_batches_collection_date
			ON batches (collection_date, status);

		CREATE TABLE IF NOT EXISTS batch_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			batch_reference TEXT NOT NULL REFERENCES batches (reference),
			position INTEGER NOT NULL,
			invoice_ref TEXT NOT NULL,
			mandate_ref TEXT NOT NULL REFERENCES mandates (reference),
			account_holder TEXT NOT NULL,
			iban TEXT NOT NULL,
			bic TEXT NOT NULL DEFAULT '',
			signature_date TEXT NOT NULL,
			sequence_type TEXT NOT NULL,
			amount_cents INTEGER NOT NULL,
			status TEXT NOT NULL,
			return_code TEXT NOT NULL DEFAULT '',
			return_reason TEXT NOT NULL DEFAULT '',
			advice TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_batch_entries_batch
			ON batch_entries (batch_reference, position);

		CREATE INDEX IF NOT EXISTS idx_batch_entries_mandate
			ON batch_entries (mandate_ref);
	`

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func (c *Client) DB() *sql.DB {
	return c.db
}

func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
