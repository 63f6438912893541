package models

import (
	"time"
)

// ToolStatus values used by clients. The store does not enforce them.
const (
	StatusAvailable = "available"
	StatusBorrowed  = "borrowed"
)

// TimestampLayout matches the millisecond ISO-8601 form browsers produce with toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Tool represents a lendable item ("Werkzeug").
// Status, Borrower and BorrowedDate form the lending state; their coherence is up to the caller.
// Fields left out of a request body stay out of the stored record, except the lending state,
// which is always written.
type Tool struct {
	ID           int     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name         string         `json:"name,omitempty"`
	Owner        string         `json:"owner,omitempty" gorm:"index"`
	Image        NullableString `json:"image,omitzero"`
	Status       string         `json:"status,omitempty"`
	Borrower     *string        `json:"borrower"`
	BorrowedDate *string        `json:"borrowedDate" gorm:"column:borrowed_date"`
}

// TableName specifies the table name for Tool Model
func (Tool) TableName() string {
	return "werkzeuge"
}

// RecordID returns the store-assigned identifier.
func (t Tool) RecordID() int {
	return t.ID
}

// WithID returns a copy of the tool carrying the given id.
func (t Tool) WithID(id int) Tool {
	t.ID = id
	return t
}

// PrepareNewTool applies the creation rules: status defaults to available and a new
// tool is never created already borrowed.
func PrepareNewTool(t Tool) Tool {
	if t.Status == "" {
		t.Status = StatusAvailable
	}
	t.Borrower = nil
	t.BorrowedDate = nil
	return t
}

// FormatTimestamp renders t the way the lending frontend stores borrowedDate.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// DefaultTools is the seed dataset; the borrowed hammer is stamped with now.
func DefaultTools(now time.Time) []Tool {
	borrower := "anna"
	borrowedDate := FormatTimestamp(now)
	return []Tool{
		{ID: 1, Name: "Bohrmaschine", Owner: "admin", Image: Null(), Status: StatusAvailable},
		{ID: 2, Name: "Hammer", Owner: "max", Image: Null(), Status: StatusBorrowed, Borrower: &borrower, BorrowedDate: &borrowedDate},
	}
}
