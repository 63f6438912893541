package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no record carries the requested id.
var ErrNotFound = errors.New("record not found")

// Record is implemented by every entity kept in a collection.
type Record[T any] interface {
	RecordID() int
	WithID(id int) T
}

// Repository is the CRUD contract shared by every collection backend.
type Repository[T any] interface {
	// List returns all records in insertion order.
	List(ctx context.Context) ([]T, error)

	// Create assigns the next id to rec, appends it and returns the stored record.
	Create(ctx context.Context, rec T) (T, error)

	// Replace overwrites the record with rec's id. It returns ErrNotFound if none exists.
	Replace(ctx context.Context, rec T) (T, error)

	// Delete removes the record with the given id. It returns ErrNotFound if none exists.
	Delete(ctx context.Context, id int) error
}

// NextID returns max(existing ids, 0) + 1.
func NextID[T Record[T]](records []T) int {
	maxID := 0
	for _, r := range records {
		if id := r.RecordID(); id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

// Append assigns the next id to rec and appends it.
func Append[T Record[T]](records []T, rec T) ([]T, T) {
	rec = rec.WithID(NextID(records))
	return append(records, rec), rec
}

// ReplaceByID overwrites the first record matching rec's id in place.
func ReplaceByID[T Record[T]](records []T, rec T) ([]T, error) {
	for i := range records {
		if records[i].RecordID() == rec.RecordID() {
			records[i] = rec
			return records, nil
		}
	}
	return records, ErrNotFound
}

// RemoveByID drops the first record with the given id, keeping the others in order.
func RemoveByID[T Record[T]](records []T, id int) ([]T, error) {
	for i := range records {
		if records[i].RecordID() == id {
			out := make([]T, 0, len(records)-1)
			out = append(out, records[:i]...)
			return append(out, records[i+1:]...), nil
		}
	}
	return records, ErrNotFound
}
