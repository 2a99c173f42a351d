package normalize

import "github.com/sells-group/client-dashboard/internal/model"

// Normalize deduplicates rows by client id and appends the derived address
// columns to each survivor.
func Normalize(rows []model.ClientStageRow) []model.NormalizedClientRow {
	unique := Deduplicate(rows)
	out := make([]model.NormalizedClientRow, len(unique))
	for i, r := range unique {
		out[i] = model.NormalizedClientRow{
			ClientStageRow: r,
			Address:        ExtractAddress(r.AddressesRaw),
		}
	}
	return out
}

// WithLinks returns a copy of rows with ClientLink set by link.
func WithLinks(rows []model.NormalizedClientRow, link func(clientID int64) string) []model.NormalizedClientRow {
	out := make([]model.NormalizedClientRow, len(rows))
	for i, r := range rows {
		r.ClientLink = link(r.ClientID)
		out[i] = r
	}
	return out
}
