package dashboard

import (
	"context"
	"html/template"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/client-dashboard/internal/fetch"
	"github.com/sells-group/client-dashboard/internal/model"
	"github.com/sells-group/client-dashboard/internal/query"
)

func TestStageTitle(t *testing.T) {
	assert.Equal(t, "Clients with Current Stage > 4 (Last 4 Days)", StageTitle(query.GreaterThan, query.StageOptions{}))
	assert.Equal(t, "Clients with Current Stage < 2 (Last 1 Day)",
		StageTitle(query.LessThan, query.StageOptions{Threshold: 2, Window: 24 * time.Hour}))
}

func TestLoadStageTable_Scenarios(t *testing.T) {
	src := &fakeStages{results: map[string]fetch.Result[model.ClientStageRow]{
		"stage_gt": {Rows: []model.ClientStageRow{
			{ClientID: 7, CurrentStage: 5, AddressesRaw: strPtr(`[{"city":"Austin","state":"TX","street":"Main St"}]`)},
			{ClientID: 7, CurrentStage: 6},
			{ClientID: 9, CurrentStage: 5},
		}},
	}}

	table := LoadStageTable(context.Background(), src, query.GreaterThan, query.StageOptions{}, testNow)

	require.Len(t, table.Rows, 2)
	assert.Nil(t, table.Failure)
	assert.Equal(t, 5, table.Rows[0].CurrentStage)
	assert.Equal(t, model.Address{City: "Austin", State: "TX", Street: "Main St"}, table.Rows[0].Address)
	assert.Equal(t, "/?client_id=7", table.Rows[0].ClientLink)
	assert.Equal(t, model.Address{}, table.Rows[1].Address)
}

func TestLoadStageTable_InvalidComparison(t *testing.T) {
	src := &fakeStages{}

	table := LoadStageTable(context.Background(), src, query.Comparison(9), query.StageOptions{}, testNow)

	require.NotNil(t, table.Failure)
	assert.True(t, table.Empty())
	assert.Empty(t, src.calls)
}

func TestTelHref(t *testing.T) {
	assert.Equal(t, template.URL("tel:5125550100"), TelHref("(512) 555-0100"))
	assert.Equal(t, template.URL("tel:+15125550100"), TelHref(" +1 512.555.0100"))
	assert.Equal(t, template.URL(""), TelHref("n/a"))
	assert.Equal(t, template.URL("tel:15"), TelHref("1+5"))
}

func TestRoleLabel(t *testing.T) {
	assert.Equal(t, "Client", RoleLabel(model.RoleClient))
	assert.Equal(t, "Sales Rep", RoleLabel(model.RoleSalesRep))
}
