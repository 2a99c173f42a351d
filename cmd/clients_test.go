package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/client-dashboard/internal/chat"
	"github.com/sells-group/client-dashboard/internal/db"
	"github.com/sells-group/client-dashboard/internal/fetch"
	"github.com/sells-group/client-dashboard/internal/model"
	"github.com/sells-group/client-dashboard/internal/query"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

type fakeStages struct {
	results map[string]fetch.Result[model.ClientStageRow]
	calls   []string
}

func (f *fakeStages) FetchStage(_ context.Context, stmt query.Statement) fetch.Result[model.ClientStageRow] {
	f.calls = append(f.calls, stmt.Name)
	if res, ok := f.results[stmt.Name]; ok {
		return res
	}
	return fetch.Result[model.ClientStageRow]{Rows: []model.ClientStageRow{}}
}

type fakeChats struct {
	calls int
}

func (f *fakeChats) FetchMessages(context.Context, query.Statement) fetch.Result[model.MessageRow] {
	f.calls++
	return fetch.Result[model.MessageRow]{Rows: []model.MessageRow{}}
}

func (f *fakeChats) FetchClient(context.Context, query.Statement) fetch.Result[model.ClientLookup] {
	f.calls++
	return fetch.Result[model.ClientLookup]{Rows: []model.ClientLookup{}}
}

func sampleRows() []model.NormalizedClientRow {
	return []model.NormalizedClientRow{{
		ClientStageRow: model.ClientStageRow{
			ClientID:                 7,
			CurrentStage:             5,
			CreatedOn:                testNow,
			ClientFullname:           "Ada Lovelace",
			Phone:                    strPtr("555-0100"),
			AssignedEmployeeFullname: strPtr("Grace Hopper"),
		},
		Address: model.Address{City: "Austin", State: "TX", Street: "1 Main St"},
	}}
}

func TestLoadRows_NormalizesThroughFetcher(t *testing.T) {
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{
		"client_id", "current_stage", "created_on", "client_fullname",
		"fphone1", "addresses", "assigned_employee_fullname",
	}).
		AddRow(int64(1), intPtr(5), testNow, strPtr("Ada"), strPtr("555"), strPtr(`[{"city":"Austin","state":"TX","street":"1 Main"}]`), strPtr("Grace")).
		AddRow(int64(1), intPtr(6), testNow, strPtr("Ada"), strPtr("555"), strPtr(`[{"city":"Dallas"}]`), strPtr("Grace")).
		AddRow(int64(2), intPtr(5), testNow, strPtr("Bob"), (*string)(nil), (*string)(nil), (*string)(nil))
	mock.ExpectQuery("FROM client_stage_progression").
		WithArgs(4, testNow.Add(-96*time.Hour)).
		WillReturnRows(rows)
	mock.ExpectClose()

	f := fetch.New(func(context.Context) (db.Conn, error) { return mock, nil })
	got, err := loadRows(context.Background(), f, query.GreaterThan, query.StageOptions{}, testNow)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ClientID)
	assert.Equal(t, "Austin", got[0].City)
	assert.Equal(t, int64(2), got[1].ClientID)
	assert.True(t, got[1].Address.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadRows_Failure(t *testing.T) {
	stages := &fakeStages{results: map[string]fetch.Result[model.ClientStageRow]{
		"stage_lt": {
			Rows:    []model.ClientStageRow{},
			Failure: &fetch.Failure{Kind: fetch.KindUnavailable, Query: "stage_lt", Err: errors.New("connection refused")},
		},
	}}

	rows, err := loadRows(context.Background(), stages, query.LessThan, query.StageOptions{}, testNow)
	assert.Nil(t, rows)
	var failure *fetch.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, fetch.KindUnavailable, failure.Kind)
	assert.Equal(t, []string{"stage_lt"}, stages.calls)
}

func TestWriteRows_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRows(&buf, "table", sampleRows()))

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "Grace Hopper")
	assert.Contains(t, out, "Austin")
}

func TestWriteRows_TableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRows(&buf, "table", nil))
	assert.Equal(t, "No clients found matching the criteria.\n", buf.String())
}

func TestWriteRows_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRows(&buf, "json", sampleRows()))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Ada Lovelace", got[0]["client_fullname"])
	assert.Equal(t, "Austin", got[0]["city"])
	assert.NotContains(t, got[0], "AddressesRaw")
}

func TestWriteRows_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeRows(&buf, "yaml", sampleRows()))

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Ada Lovelace", got[0]["client_fullname"])
	assert.Equal(t, "TX", got[0]["state"])
}

func TestWriteRows_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, writeRows(&buf, "xml", sampleRows()))
}

func TestPrintTranscript(t *testing.T) {
	tr := chat.Transcript{
		Client: model.ClientLookup{ClientID: 7, ClientFullname: "Ada", EmployeeFullname: "Grace"},
		Messages: []model.ChatMessage{
			{Timestamp: "2026-03-09 02:03 PM", Role: model.RoleClient, Message: "hello"},
			{Timestamp: "2026-03-09 02:03 PM", Role: model.RoleSalesRep, Message: "hi there"},
		},
	}

	var buf bytes.Buffer
	printTranscript(&buf, tr)

	out := buf.String()
	assert.Contains(t, out, "Ada (client 7), assigned to Grace")
	assert.Contains(t, out, "[2026-03-09 02:03 PM] Ada: hello")
	assert.Contains(t, out, "[2026-03-09 02:03 PM] Grace: hi there")
}

func TestPrintTranscript_Empty(t *testing.T) {
	tr := chat.Transcript{Client: model.ClientLookup{ClientID: 9, ClientFullname: chat.PlaceholderClientName, EmployeeFullname: chat.PlaceholderEmployeeName}}

	var buf bytes.Buffer
	printTranscript(&buf, tr)
	assert.Contains(t, buf.String(), "Client (client 9), assigned to Sales Rep")
	assert.Contains(t, buf.String(), "No messages yet.")
}
