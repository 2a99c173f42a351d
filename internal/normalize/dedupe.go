package normalize

import "github.com/sells-group/client-dashboard/internal/model"

// Deduplicate keeps the first row for each client id in input order and drops
// the rest. Dropped rows are discarded, not merged.
func Deduplicate(rows []model.ClientStageRow) []model.ClientStageRow {
	seen := make(map[int64]struct{}, len(rows))
	out := make([]model.ClientStageRow, 0, len(rows))
	for _, r := range rows {
		if _, dup := seen[r.ClientID]; dup {
			continue
		}
		seen[r.ClientID] = struct{}{}
		out = append(out, r)
	}
	return out
}
