package repository

import (
	"context"
	"time"

	"github.com/mamadbah2/buffalo/internal/domain/models"
)

// Observer receives the outcome of every store call.
type Observer interface {
	ObserveStoreOperation(op string, err error, elapsed time.Duration)
}

// Instrument wraps a store so each call is reported to the observer.
func Instrument(store Store, observer Observer) Store {
	if observer == nil {
		return store
	}
	return &instrumented{next: store, observer: observer}
}

type instrumented struct {
	next     Store
	observer Observer
}

func (s *instrumented) observe(op string, start time.Time, err error) {
	s.observer.ObserveStoreOperation(op, err, time.Since(start))
}

func (s *instrumented) Get(ctx context.Context, id string) (r models.BuffaloRecord, err error) {
	defer func(start time.Time) { s.observe("get", start, err) }(time.Now())
	return s.next.Get(ctx, id)
}

func (s *instrumented) Set(ctx context.Context, record models.BuffaloRecord) (err error) {
	defer func(start time.Time) { s.observe("set", start, err) }(time.Now())
	return s.next.Set(ctx, record)
}

func (s *instrumented) Update(ctx context.Context, id string, patch models.BuffaloPatch) (err error) {
	defer func(start time.Time) { s.observe("update", start, err) }(time.Now())
	return s.next.Update(ctx, id, patch)
}

func (s *instrumented) Delete(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { s.observe("delete", start, err) }(time.Now())
	return s.next.Delete(ctx, id)
}

func (s *instrumented) ListAll(ctx context.Context) (records []models.BuffaloRecord, err error) {
	defer func(start time.Time) { s.observe("list_all", start, err) }(time.Now())
	return s.next.ListAll(ctx)
}

func (s *instrumented) ListIDs(ctx context.Context) (ids []string, err error) {
	defer func(start time.Time) { s.observe("list_ids", start, err) }(time.Now())
	return s.next.ListIDs(ctx)
}

func (s *instrumented) Close(ctx context.Context) error {
	return s.next.Close(ctx)
}
