package buffalos

import (
	"context"

	"github.com/mamadbah2/buffalo/internal/domain/models"
	"github.com/mamadbah2/buffalo/internal/service/forms"
)

// DraftFlow binds a draft registry to the list field of a record it edits.
// Rows are loaded from the store on Open and written back on Submit.
type DraftFlow[T any] struct {
	svc    *Service
	drafts *forms.Drafts[T]
	load   func(models.BuffaloRecord) []T
	save   func(ctx context.Context, id string, rows []T) (models.BuffaloRecord, error)
}

// Open starts a draft from the stored list. An empty list opens with one
// blank row.
func (f *DraftFlow[T]) Open(ctx context.Context, id string) (forms.Draft[T], error) {
	record, err := f.svc.Get(ctx, id)
	if err != nil {
		return forms.Draft[T]{}, err
	}
	items := f.load(record)
	if len(items) == 0 {
		var blank T
		items = []T{blank}
	}
	return f.drafts.Open(id, forms.NewRows(items...))
}

// Get returns the open draft.
func (f *DraftFlow[T]) Get(id string) (forms.Draft[T], error) {
	return f.drafts.Get(id)
}

// AddRow appends row to the draft.
func (f *DraftFlow[T]) AddRow(id string, row T) (forms.Draft[T], error) {
	return f.drafts.Edit(id, func(rows forms.Rows[T]) (forms.Rows[T], error) {
		return rows.Append(row), nil
	})
}

// ReplaceRow overwrites the row at index.
func (f *DraftFlow[T]) ReplaceRow(id string, index int, row T) (forms.Draft[T], error) {
	return f.drafts.Edit(id, func(rows forms.Rows[T]) (forms.Rows[T], error) {
		return rows.Replace(index, row)
	})
}

// RemoveRow drops the row at index.
func (f *DraftFlow[T]) RemoveRow(id string, index int) (forms.Draft[T], error) {
	return f.drafts.Edit(id, func(rows forms.Rows[T]) (forms.Rows[T], error) {
		return rows.Remove(index)
	})
}

// Submit writes the draft rows through the matching edit flow.
func (f *DraftFlow[T]) Submit(ctx context.Context, id string) (models.BuffaloRecord, error) {
	var saved models.BuffaloRecord
	err := f.drafts.Submit(ctx, id, func(ctx context.Context, rows forms.Rows[T]) error {
		record, err := f.save(ctx, id, rows.Items())
		if err != nil {
			return err
		}
		saved = record
		return nil
	})
	return saved, err
}

// Discard closes the draft without writing.
func (f *DraftFlow[T]) Discard(id string) error {
	return f.drafts.Discard(id)
}
