package model

import "time"

// ClientStageRow is one stage-progression record joined with its client and
// the client's assigned employee.
type ClientStageRow struct {
	ClientID                 int64     `json:"client_id" yaml:"client_id"`
	CurrentStage             int       `json:"current_stage" yaml:"current_stage"`
	CreatedOn                time.Time `json:"created_on" yaml:"created_on"`
	ClientFullname           string    `json:"client_fullname" yaml:"client_fullname"`
	Phone                    *string   `json:"phone,omitempty" yaml:"phone,omitempty"`
	AddressesRaw             *string   `json:"-" yaml:"-"`
	AssignedEmployeeFullname *string   `json:"assigned_employee_fullname,omitempty" yaml:"assigned_employee_fullname,omitempty"`
}

// Address holds the flattened fields of a client's primary address.
type Address struct {
	City   string `json:"city" yaml:"city"`
	State  string `json:"state" yaml:"state"`
	Street string `json:"street" yaml:"street"`
}

// IsZero reports whether no address field was found.
func (a Address) IsZero() bool {
	return a == Address{}
}

// NormalizedClientRow is a ClientStageRow with its derived address columns
// and an optional display link to the client's chat view.
type NormalizedClientRow struct {
	ClientStageRow `yaml:",inline"`
	Address        `yaml:",inline"`

	ClientLink string `json:"client_link,omitempty" yaml:"client_link,omitempty"`
}

// PhoneValue returns the phone number or "" when it is NULL.
func (r NormalizedClientRow) PhoneValue() string {
	return deref(r.Phone)
}

// EmployeeValue returns the assigned employee's name or "" when unassigned.
func (r NormalizedClientRow) EmployeeValue() string {
	return deref(r.AssignedEmployeeFullname)
}

// ClientLookup is the single row describing a client and its assigned employee.
type ClientLookup struct {
	ClientID         int64  `json:"client_id"`
	ClientFullname   string `json:"client_fullname"`
	EmployeeFullname string `json:"employee_fullname"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
