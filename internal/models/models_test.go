package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPrepareNewTool(t *testing.T) {
	borrower := "anna"
	when := "2025-01-01T00:00:00.000Z"

	prepared := PrepareNewTool(Tool{Name: "Saw", Owner: "max", Borrower: &borrower, BorrowedDate: &when})
	require.Equal(t, StatusAvailable, prepared.Status)
	require.Nil(t, prepared.Borrower)
	require.Nil(t, prepared.BorrowedDate)

	kept := PrepareNewTool(Tool{Name: "Saw", Status: "defekt"})
	require.Equal(t, "defekt", kept.Status)
}

func TestDefaultTools_StampsBorrowedHammer(t *testing.T) {
	now := time.Date(2025, 3, 4, 5, 6, 7, 890_000_000, time.FixedZone("CET", 3600))
	tools := DefaultTools(now)

	require.Len(t, tools, 2)
	require.Equal(t, Null(), tools[0].Image)
	require.Nil(t, tools[0].Borrower)
	require.Equal(t, StatusBorrowed, tools[1].Status)
	require.Equal(t, "anna", *tools[1].Borrower)
	require.Equal(t, "2025-03-04T04:06:07.890Z", *tools[1].BorrowedDate)
}

func TestWithID_ReturnsCopy(t *testing.T) {
	u := User{ID: 1, Name: "Administrator"}
	moved := u.WithID(5)
	require.Equal(t, 5, moved.ID)
	require.Equal(t, 1, u.ID)
	require.Equal(t, 5, moved.RecordID())
}

func TestTool_ImageAbsentVersusNull(t *testing.T) {
	var absent Tool
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Saw","owner":"max"}`), &absent))
	out, err := json.Marshal(absent)
	require.NoError(t, err)
	require.NotContains(t, string(out), `"image"`)
	require.Contains(t, string(out), `"borrower":null`)

	var explicit Tool
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Saw","image":null}`), &explicit))
	require.True(t, explicit.Image.Present)
	require.Nil(t, explicit.Image.Text)
	out, err = json.Marshal(explicit)
	require.NoError(t, err)
	require.Contains(t, string(out), `"image":null`)

	var withURL Tool
	require.NoError(t, json.Unmarshal([]byte(`{"image":"saw.png"}`), &withURL))
	require.Equal(t, NewNullableString("saw.png"), withURL.Image)

	var stray Tool
	require.NoError(t, json.Unmarshal([]byte(`{"image":7,"name":"Saw"}`), &stray))
	require.Equal(t, Null(), stray.Image)
	require.Equal(t, "Saw", stray.Name)
}

func TestNullableString_SQLRoundTrip(t *testing.T) {
	v, err := NewNullableString("saw.png").Value()
	require.NoError(t, err)
	require.Equal(t, "saw.png", v)

	v, err = Null().Value()
	require.NoError(t, err)
	require.Nil(t, v)

	var n NullableString
	require.NoError(t, n.Scan([]byte("saw.png")))
	require.Equal(t, NewNullableString("saw.png"), n)
	require.NoError(t, n.Scan(nil))
	require.Equal(t, Null(), n)
	require.Error(t, n.Scan(42))
}

func TestUser_PartialBodyEchoesAsSent(t *testing.T) {
	out, err := json.Marshal(User{ID: 1, Name: "Admin"})
	require.NoError(t, err)
	require.JSONEq(t, `{"id":1,"name":"Admin"}`, string(out))
}
