package export

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/client-dashboard/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS clients (
	client_id                  INTEGER PRIMARY KEY,
	client_fullname            TEXT NOT NULL,
	phone                      TEXT,
	assigned_employee_fullname TEXT,
	city                       TEXT NOT NULL DEFAULT '',
	state                      TEXT NOT NULL DEFAULT '',
	street                     TEXT NOT NULL DEFAULT '',
	current_stage              INTEGER NOT NULL,
	created_on                 DATETIME NOT NULL
);
`

const sqliteInsert = `INSERT OR REPLACE INTO clients
	(client_id, client_fullname, phone, assigned_employee_fullname, city, state, street, current_stage, created_on)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

// WriteSQLite writes rows into the clients table of the SQLite database at
// path, creating the table if needed. Rows for a client already present are
// replaced.
func WriteSQLite(ctx context.Context, path string, rows []model.NormalizedClientRow) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return eris.Wrap(err, "sqlite: open")
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return eris.Wrap(err, "sqlite: create schema")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, sqliteInsert)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx,
			r.ClientID,
			r.ClientFullname,
			r.Phone,
			r.AssignedEmployeeFullname,
			r.City,
			r.State,
			r.Street,
			r.CurrentStage,
			r.CreatedOn,
		); err != nil {
			return eris.Wrapf(err, "sqlite: insert client %d", r.ClientID)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}
