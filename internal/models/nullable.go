package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// NullableString is an optional JSON string that keeps an absent key apart from an
// explicit null. The zero value is absent and is dropped by the omitzero tag option.
type NullableString struct {
	Text    *string
	Present bool
}

// Null returns an explicit JSON null.
func Null() NullableString {
	return NullableString{Present: true}
}

// NewNullableString returns a present, non-null value.
func NewNullableString(s string) NullableString {
	return NullableString{Text: &s, Present: true}
}

// IsZero reports whether the field was absent.
func (n NullableString) IsZero() bool {
	return !n.Present
}

func (n NullableString) MarshalJSON() ([]byte, error) {
	if n.Text == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Text)
}

// UnmarshalJSON accepts a string or null. Any other JSON value is read as null
// so that a stray type never fails the whole record.
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Present = true
	n.Text = nil
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		n.Text = &s
	}
	return nil
}

// Scan implements sql.Scanner. A column that was read is always present.
func (n *NullableString) Scan(src any) error {
	n.Present = true
	n.Text = nil
	switch v := src.(type) {
	case nil:
	case string:
		n.Text = &v
	case []byte:
		s := string(v)
		n.Text = &s
	default:
		return fmt.Errorf("scan %T into NullableString", src)
	}
	return nil
}

// Value implements driver.Valuer.
func (n NullableString) Value() (driver.Value, error) {
	if n.Text == nil {
		return nil, nil
	}
	return *n.Text, nil
}

// GormDataType stores the field as a plain string column.
func (NullableString) GormDataType() string {
	return "string"
}
