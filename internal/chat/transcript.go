// Package chat builds client message transcripts and runs the simulated
// sales-rep reply for a browser session.
package chat

import (
	"context"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/client-dashboard/internal/fetch"
	"github.com/sells-group/client-dashboard/internal/model"
	"github.com/sells-group/client-dashboard/internal/query"
)

// Placeholder names shown when the client lookup returns no row.
const (
	PlaceholderClientName   = "Client"
	PlaceholderEmployeeName = "Sales Rep"
)

// ErrInvalidClientID is returned for a client id that is not a positive integer.
var ErrInvalidClientID = eris.New("chat: invalid client id")

// ParseClientID parses the client id taken from a page address.
func ParseClientID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, eris.Wrapf(ErrInvalidClientID, "%q", s)
	}
	return id, nil
}

// Source runs the transcript statements.
type Source interface {
	FetchMessages(ctx context.Context, stmt query.Statement) fetch.Result[model.MessageRow]
	FetchClient(ctx context.Context, stmt query.Statement) fetch.Result[model.ClientLookup]
}

// Transcript is everything the chat view renders for one client.
type Transcript struct {
	Client   model.ClientLookup
	Messages []model.ChatMessage
	Failures []*fetch.Failure
}

// Builder assembles transcripts.
type Builder struct {
	src Source
}

// NewBuilder creates a Builder reading from src.
func NewBuilder(src Source) *Builder {
	return &Builder{src: src}
}

// Transcript fetches a client's messages, oldest first, and the client's
// display names. Fetch failures are recorded on the transcript; a missing
// client is shown with placeholder names.
func (b *Builder) Transcript(ctx context.Context, clientID int64) Transcript {
	t := Transcript{Messages: []model.ChatMessage{}}

	msgs := b.src.FetchMessages(ctx, query.ChatHistoryQuery(clientID))
	if !msgs.OK() {
		t.Failures = append(t.Failures, msgs.Failure)
	}
	t.Messages = MapMessages(msgs.Rows)

	lookup := b.src.FetchClient(ctx, query.ClientLookupQuery(clientID))
	if !lookup.OK() {
		t.Failures = append(t.Failures, lookup.Failure)
	}
	t.Client = clientOrPlaceholder(clientID, lookup.Rows)

	return t
}

// MapMessages assigns a role to each stored message, preserving order.
func MapMessages(rows []model.MessageRow) []model.ChatMessage {
	out := make([]model.ChatMessage, len(rows))
	for i, r := range rows {
		out[i] = model.ChatMessage{
			Timestamp: r.Timestamp,
			Role:      model.RoleFromStatus(r.Status),
			Message:   r.Message,
		}
	}
	return out
}

func clientOrPlaceholder(clientID int64, rows []model.ClientLookup) model.ClientLookup {
	c := model.ClientLookup{ClientID: clientID}
	if len(rows) > 0 {
		c = rows[0]
	}
	if c.ClientFullname == "" {
		c.ClientFullname = PlaceholderClientName
	}
	if c.EmployeeFullname == "" {
		c.EmployeeFullname = PlaceholderEmployeeName
	}
	return c
}
