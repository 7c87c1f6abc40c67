package forms

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrNoDraft is returned when no draft is open for the record.
	ErrNoDraft = errors.New("no draft open for this buffalo")
	// ErrSubmitInFlight is returned while the draft's previous submit is still writing.
	ErrSubmitInFlight = errors.New("draft submission already in progress")
)

// Draft is a snapshot of an open edit form.
type Draft[T any] struct {
	BuffaloID  string    `json:"buffaloId"`
	Rows       Rows[T]   `json:"rows"`
	Submitting bool      `json:"submitting"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Drafts keeps one open form per buffalo id in memory.
type Drafts[T any] struct {
	mu     sync.Mutex
	drafts map[string]*Draft[T]
	now    func() time.Time
}

// NewDrafts creates an empty draft registry.
func NewDrafts[T any]() *Drafts[T] {
	return &Drafts[T]{
		drafts: make(map[string]*Draft[T]),
		now:    time.Now,
	}
}

// Open starts (or restarts) a draft from the given rows.
func (d *Drafts[T]) Open(id string, rows Rows[T]) (Draft[T], error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if existing, ok := d.drafts[id]; ok && existing.Submitting {
		return *existing, ErrSubmitInFlight
	}
	draft := &Draft[T]{BuffaloID: id, Rows: rows, UpdatedAt: d.now()}
	d.drafts[id] = draft
	return *draft, nil
}

// Get returns the current draft.
func (d *Drafts[T]) Get(id string) (Draft[T], error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	draft, ok := d.drafts[id]
	if !ok {
		return Draft[T]{}, ErrNoDraft
	}
	return *draft, nil
}

// Edit replaces the draft rows with the result of fn. Edits are rejected
// while a submit is writing.
func (d *Drafts[T]) Edit(id string, fn func(Rows[T]) (Rows[T], error)) (Draft[T], error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	draft, ok := d.drafts[id]
	if !ok {
		return Draft[T]{}, ErrNoDraft
	}
	if draft.Submitting {
		return *draft, ErrSubmitInFlight
	}
	rows, err := fn(draft.Rows)
	if err != nil {
		return *draft, err
	}
	draft.Rows = rows
	draft.UpdatedAt = d.now()
	return *draft, nil
}

// Submit hands the rows to save without holding the lock. A second submit
// during the write gets ErrSubmitInFlight. On success the draft is closed;
// on failure it stays open for correction.
func (d *Drafts[T]) Submit(ctx context.Context, id string, save func(context.Context, Rows[T]) error) error {
	d.mu.Lock()
	draft, ok := d.drafts[id]
	if !ok {
		d.mu.Unlock()
		return ErrNoDraft
	}
	if draft.Submitting {
		d.mu.Unlock()
		return ErrSubmitInFlight
	}
	draft.Submitting = true
	rows := draft.Rows
	d.mu.Unlock()

	err := save(ctx, rows)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		draft.Submitting = false
		return err
	}
	if current, ok := d.drafts[id]; ok && current == draft {
		delete(d.drafts, id)
	}
	return nil
}

// Discard closes the draft. Discarding a draft that is being submitted is
// rejected.
func (d *Drafts[T]) Discard(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	draft, ok := d.drafts[id]
	if !ok {
		return ErrNoDraft
	}
	if draft.Submitting {
		return ErrSubmitInFlight
	}
	delete(d.drafts, id)
	return nil
}

// Forget drops any draft for id, used after the buffalo is deleted.
func (d *Drafts[T]) Forget(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.drafts, id)
}
