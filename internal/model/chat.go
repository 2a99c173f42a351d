package model

// Role identifies who sent a chat message.
type Role string

const (
	RoleClient   Role = "client"
	RoleSalesRep Role = "sales_rep"
)

// StatusReceived is the message status recorded for inbound client messages.
const StatusReceived = "Received"

// ChatTimestampFormat is the to_char pattern used to render message
// timestamps. MM is to_char's month token; the pattern is kept as-is until
// product confirms whether minutes were intended.
const ChatTimestampFormat = "YYYY-MM-DD HH12:MM AM"

// ChatTimestampLayout renders in-session messages the same way the database
// renders stored ones (month in the minute position).
const ChatTimestampLayout = "2006-01-02 03:01 PM"

// RoleFromStatus maps a raw message status to a role. Only the exact status
// "Received" is a client message; every other value is the sales rep.
func RoleFromStatus(status string) Role {
	if status == StatusReceived {
		return RoleClient
	}
	return RoleSalesRep
}

// MessageRow is a message as stored, before role mapping.
type MessageRow struct {
	Timestamp string
	Status    string
	Message   string
}

// ChatMessage is one entry of a client transcript.
type ChatMessage struct {
	Timestamp string `json:"timestamp"`
	Role      Role   `json:"role"`
	Message   string `json:"message"`
}
