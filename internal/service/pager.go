package service

import (
	"context"

	"github.com/staffhours/backend/internal/pkg/apperr"
)

type pageFunc[T any] func(ctx context.Context, cursor *int64) (items []*T, next *int64, err error)

// Pager iterates a cursor-paginated Hubstaff collection one page at a time.
// It is lazy and single use:
//
//	for p.Next(ctx) {
//		use(p.Page())
//	}
//	if err := p.Err(); err != nil { ... }
type Pager[T any] struct {
	resource string
	fetch    pageFunc[T]

	cursor *int64
	seen   map[int64]struct{}
	page   []*T
	pages  int
	done   bool
	err    error
}

func newPager[T any](resource string, fetch pageFunc[T]) *Pager[T] {
	return &Pager[T]{
		resource: resource,
		fetch:    fetch,
		seen:     map[int64]struct{}{},
	}
}

// Next fetches the following page. It returns false after the last page or on error.
func (p *Pager[T]) Next(ctx context.Context) bool {
	if p.done || p.err != nil {
		return false
	}

	items, next, err := p.fetch(ctx, p.cursor)
	if err != nil {
		p.err = err
		p.page = nil
		return false
	}

	p.page = items
	p.pages++

	if next == nil {
		p.done = true
		return true
	}
	if _, ok := p.seen[*next]; ok {
		// a cursor that does not advance would loop forever
		p.err = apperr.ErrFetchFailed.
			Msg("%s pagination did not advance: cursor %d was already visited", p.resource, *next).
			WithExtras(apperr.Extras{"resource": p.resource, "cursor": *next})
		p.done = true
		return true
	}
	p.seen[*next] = struct{}{}
	p.cursor = next

	return true
}

// Page returns the items of the current page.
func (p *Pager[T]) Page() []*T {
	return p.page
}

func (p *Pager[T]) Err() error {
	return p.err
}

// Cursor is the page_start_id the next call to Next will request; nil before the
// first page and after the last one.
func (p *Pager[T]) Cursor() *int64 {
	if p.done {
		return nil
	}
	return p.cursor
}

func (p *Pager[T]) Pages() int {
	return p.pages
}

// All drains the pager.
func (p *Pager[T]) All(ctx context.Context) ([]*T, error) {
	var all []*T
	for p.Next(ctx) {
		all = append(all, p.Page()...)
	}
	return all, p.Err()
}
