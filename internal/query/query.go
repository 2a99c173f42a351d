// Package query builds the parameterized statements the dashboard runs.
package query

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/client-dashboard/internal/model"
)

// Comparison selects which side of the stage threshold a stage query returns.
type Comparison int

const (
	GreaterThan Comparison = iota + 1
	LessThan
)

// String returns the SQL operator for the comparison.
func (c Comparison) String() string {
	switch c {
	case GreaterThan:
		return ">"
	case LessThan:
		return "<"
	default:
		return fmt.Sprintf("Comparison(%d)", int(c))
	}
}

// Slug returns the short name used in URLs and CLI flags.
func (c Comparison) Slug() string {
	switch c {
	case GreaterThan:
		return "gt"
	case LessThan:
		return "lt"
	default:
		return ""
	}
}

// ParseComparison accepts "gt"/"lt" or ">"/"<".
func ParseComparison(s string) (Comparison, error) {
	switch s {
	case "gt", ">":
		return GreaterThan, nil
	case "lt", "<":
		return LessThan, nil
	default:
		return 0, eris.Errorf("query: unknown stage comparison %q", s)
	}
}

const (
	DefaultThreshold = 4
	DefaultWindow    = 4 * 24 * time.Hour
)

// StageOptions holds the variable dimensions of a stage query. Zero values
// select DefaultThreshold and DefaultWindow; config validation rejects a
// configured threshold of zero so the substitution never hides a setting.
type StageOptions struct {
	Threshold int
	Window    time.Duration
}

func (o StageOptions) withDefaults() StageOptions {
	if o.Threshold == 0 {
		o.Threshold = DefaultThreshold
	}
	if o.Window <= 0 {
		o.Window = DefaultWindow
	}
	return o
}

// Statement is a SQL text plus its bound arguments.
type Statement struct {
	Name string
	SQL  string
	Args []any
}

// stageSQL is formatted only with an operator from Comparison.String.
const stageSQL = `SELECT cp.client_id, cp.current_stage, cp.created_on,
	c.fullname AS client_fullname, c.fphone1, c.addresses,
	e.fullname AS assigned_employee_fullname
FROM client_stage_progression cp
JOIN client c ON cp.client_id = c.id
LEFT JOIN employee e ON c.assigned_employee = e.id
WHERE cp.current_stage %s $1
AND cp.created_on > $2
ORDER BY cp.created_on ASC, cp.current_stage ASC`

// StageQuery returns the stage-progression statement for cmp. Rows are
// ordered oldest first so that deduplication keeps the earliest record in
// the window.
func StageQuery(cmp Comparison, opts StageOptions, now time.Time) (Statement, error) {
	if cmp != GreaterThan && cmp != LessThan {
		return Statement{}, eris.Errorf("query: unsupported comparison %d", int(cmp))
	}
	opts = opts.withDefaults()
	windowStart := now.Add(-opts.Window)
	return Statement{
		Name: "stage_" + cmp.Slug(),
		SQL:  fmt.Sprintf(stageSQL, cmp.String()),
		Args: []any{opts.Threshold, windowStart},
	}, nil
}

const chatHistorySQL = `SELECT to_char(created_on, $2) AS timestamp, status, message
FROM message
WHERE client_id = $1
ORDER BY created_on ASC`

// ChatHistoryQuery returns every message for a client, oldest first.
func ChatHistoryQuery(clientID int64) Statement {
	return Statement{
		Name: "chat_history",
		SQL:  chatHistorySQL,
		Args: []any{clientID, model.ChatTimestampFormat},
	}
}

const clientLookupSQL = `SELECT c.id, c.fullname, e.fullname AS assigned_employee_fullname
FROM client c
LEFT JOIN employee e ON c.assigned_employee = e.id
WHERE c.id = $1`

// ClientLookupQuery returns the client and assigned-employee names for one client.
func ClientLookupQuery(clientID int64) Statement {
	return Statement{
		Name: "client_lookup",
		SQL:  clientLookupSQL,
		Args: []any{clientID},
	}
}
