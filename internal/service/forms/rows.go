package forms

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrRowIndex is returned for an index outside the collection.
	ErrRowIndex = errors.New("row index out of range")
	// ErrLastRow is returned when removing the only remaining row.
	ErrLastRow = errors.New("at least one row must remain")
)

// Rows is an ordered list of editable form rows. It is never mutated in
// place: every edit returns a new Rows, so indexes held by a caller keep
// pointing at the snapshot they were read from.
type Rows[T any] struct {
	items []T
}

// NewRows copies items into a new collection.
func NewRows[T any](items ...T) Rows[T] {
	return Rows[T]{items: append([]T(nil), items...)}
}

// Len returns the number of rows.
func (r Rows[T]) Len() int { return len(r.items) }

// Items returns a copy of the rows.
func (r Rows[T]) Items() []T {
	return append([]T{}, r.items...)
}

// Append adds a row at the end.
func (r Rows[T]) Append(row T) Rows[T] {
	items := make([]T, 0, len(r.items)+1)
	items = append(items, r.items...)
	return Rows[T]{items: append(items, row)}
}

// Replace swaps the row at index.
func (r Rows[T]) Replace(index int, row T) (Rows[T], error) {
	if index < 0 || index >= len(r.items) {
		return r, fmt.Errorf("%w: %d", ErrRowIndex, index)
	}
	items := r.Items()
	items[index] = row
	return Rows[T]{items: items}, nil
}

// Remove drops the row at index. The last remaining row cannot be removed.
func (r Rows[T]) Remove(index int) (Rows[T], error) {
	if index < 0 || index >= len(r.items) {
		return r, fmt.Errorf("%w: %d", ErrRowIndex, index)
	}
	if len(r.items) == 1 {
		return r, ErrLastRow
	}
	items := make([]T, 0, len(r.items)-1)
	items = append(items, r.items[:index]...)
	items = append(items, r.items[index+1:]...)
	return Rows[T]{items: items}, nil
}

// MarshalJSON encodes the rows as a plain array.
func (r Rows[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Items())
}
