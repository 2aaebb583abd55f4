package postgres

import "fmt"

// DefaultTable is the review item table name.
const DefaultTable = "review_items"

// Schema returns the DDL creating table.
func Schema(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
    content_id   TEXT PRIMARY KEY,
    id           TEXT NOT NULL UNIQUE,
    batch_job_id TEXT NOT NULL DEFAULT '',
    status       TEXT NOT NULL,
    priority     INTEGER NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    payload      JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS %[1]s_status_idx ON %[1]s (status);`, table)
}
