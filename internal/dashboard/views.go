package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/sells-group/client-dashboard/internal/fetch"
	"github.com/sells-group/client-dashboard/internal/model"
	"github.com/sells-group/client-dashboard/internal/normalize"
	"github.com/sells-group/client-dashboard/internal/query"
)

// StageSource runs stage queries.
type StageSource interface {
	FetchStage(ctx context.Context, stmt query.Statement) fetch.Result[model.ClientStageRow]
}

// StageTable is one rendered stage query.
type StageTable struct {
	Title      string
	Comparison query.Comparison
	Rows       []model.NormalizedClientRow
	Failure    *fetch.Failure
}

// Empty reports whether the table has no rows to show.
func (t StageTable) Empty() bool {
	return len(t.Rows) == 0
}

// ChatLink is the list view's link to a client's chat view.
func ChatLink(clientID int64) string {
	return fmt.Sprintf("/?client_id=%d", clientID)
}

// StageTitle describes a stage query for display.
func StageTitle(cmp query.Comparison, opts query.StageOptions) string {
	if opts.Threshold == 0 {
		opts.Threshold = query.DefaultThreshold
	}
	if opts.Window <= 0 {
		opts.Window = query.DefaultWindow
	}
	days := int(opts.Window / (24 * time.Hour))
	unit := "Days"
	if days == 1 {
		unit = "Day"
	}
	return fmt.Sprintf("Clients with Current Stage %s %d (Last %d %s)", cmp, opts.Threshold, days, unit)
}

// LoadStageTable runs one stage query and normalizes its rows. It never
// fails; a failed query yields an empty table carrying the failure.
func LoadStageTable(ctx context.Context, src StageSource, cmp query.Comparison, opts query.StageOptions, now time.Time) StageTable {
	table := StageTable{
		Title:      StageTitle(cmp, opts),
		Comparison: cmp,
		Rows:       []model.NormalizedClientRow{},
	}

	stmt, err := query.StageQuery(cmp, opts, now)
	if err != nil {
		table.Failure = &fetch.Failure{Kind: fetch.KindQuery, Query: "stage", Err: err}
		return table
	}

	res := src.FetchStage(ctx, stmt)
	table.Failure = res.Failure
	table.Rows = normalize.WithLinks(normalize.Normalize(res.Rows), ChatLink)
	return table
}

// LoadStageTables runs the greater-than and less-than queries one after the
// other.
func LoadStageTables(ctx context.Context, src StageSource, opts query.StageOptions, now time.Time) []StageTable {
	return []StageTable{
		LoadStageTable(ctx, src, query.GreaterThan, opts, now),
		LoadStageTable(ctx, src, query.LessThan, opts, now),
	}
}
