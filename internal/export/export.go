// Package export writes normalized client rows to CSV, XLSX, or SQLite files.
package export

import (
	"context"
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/client-dashboard/internal/model"
)

// Columns is the column set handed to every export format.
var Columns = []string{
	"client_id",
	"client_fullname",
	"phone",
	"assigned_employee_fullname",
	"city",
	"state",
	"street",
	"current_stage",
}

func record(r model.NormalizedClientRow) []string {
	return []string{
		strconv.FormatInt(r.ClientID, 10),
		r.ClientFullname,
		r.PhoneValue(),
		r.EmployeeValue(),
		r.City,
		r.State,
		r.Street,
		strconv.Itoa(r.CurrentStage),
	}
}

// WriteCSV writes a header row followed by one record per client.
func WriteCSV(w io.Writer, rows []model.NormalizedClientRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, r := range rows {
		if err := cw.Write(record(r)); err != nil {
			return eris.Wrapf(err, "export: write csv row for client %d", r.ClientID)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// Format is an export file format.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatSQLite Format = "sqlite"
)

// FormatForPath picks the export format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", eris.Errorf("export: unsupported file extension %q", filepath.Ext(path))
	}
}

// WriteFile writes rows to path in the format implied by its extension.
func WriteFile(ctx context.Context, path string, rows []model.NormalizedClientRow) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	switch format {
	case FormatXLSX:
		return WriteXLSX(path, rows)
	case FormatSQLite:
		return WriteSQLite(ctx, path, rows)
	default:
		return writeCSVFile(path, rows)
	}
}
