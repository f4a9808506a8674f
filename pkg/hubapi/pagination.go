package hubapi

import (
	"context"
	"fmt"
)

// PageLister fetches one page of results. The platform pages with count/start
// offsets rather than page links, so a page shorter than the requested count
// marks the end of the stream.
type PageLister[T any] interface {
	ListPage(ctx context.Context, params *QueryParams) ([]T, error)
}

// PageListerFunc adapts a function to the PageLister interface.
type PageListerFunc[T any] func(ctx context.Context, params *QueryParams) ([]T, error)

// ListPage implements PageLister.
func (f PageListerFunc[T]) ListPage(ctx context.Context, params *QueryParams) ([]T, error) {
	return f(ctx, params)
}

// PaginationOptions controls page-fetching helpers.
type PaginationOptions struct {
	// PageSize is the count requested per page.
	PageSize int
	// MaxPages caps the number of pages fetched; 0 means no cap.
	MaxPages int
	// MaxItems caps the total number of items returned; 0 means no cap.
	MaxItems int
}

// DefaultPaginationOptions returns sensible defaults.
func DefaultPaginationOptions() *PaginationOptions {
	return &PaginationOptions{
		PageSize: defaultPageSize,
	}
}

const defaultPageSize = 100

// PageIterator iterates over an offset-paged result stream item by item.
type PageIterator[T any] struct {
	ctx      context.Context
	lister   PageLister[T]
	params   *QueryParams
	pageSize int
	maxItems int

	buffer  []T
	offset  int
	yielded int
	done    bool
	err     error
}

// NewPageIterator creates an iterator over the lister's results. A Count set
// on params caps the total number of items yielded.
func NewPageIterator[T any](ctx context.Context, lister PageLister[T], params *QueryParams) *PageIterator[T] {
	params = params.clone()

	pageSize := defaultPageSize
	maxItems := 0

	if params.Count > 0 {
		maxItems = params.Count
		if params.Count < pageSize {
			pageSize = params.Count
		}
	}

	return &PageIterator[T]{
		ctx:      ctx,
		lister:   lister,
		params:   params,
		pageSize: pageSize,
		maxItems: maxItems,
		offset:   params.Start,
	}
}

// NewStaticIterator creates an iterator over an in-memory slice. Used where
// the API returns the full result set in one response but an iterator is
// offered for consistency.
func NewStaticIterator[T any](items []T) *PageIterator[T] {
	return &PageIterator[T]{
		buffer: append([]T(nil), items...),
		done:   true,
	}
}

// HasNext reports whether another item is available, fetching the next page
// when needed. A fetch error is surfaced by the following Next call.
func (it *PageIterator[T]) HasNext() bool {
	if len(it.buffer) > 0 {
		return true
	}

	if it.done || it.err != nil {
		return false
	}

	it.fetch()

	return len(it.buffer) > 0 || it.err != nil
}

// Next returns the next item. It returns ErrNoMoreItems when the stream is
// exhausted.
func (it *PageIterator[T]) Next() (T, error) {
	var zero T

	if len(it.buffer) == 0 && !it.done && it.err == nil {
		it.fetch()
	}

	if it.err != nil {
		err := it.err
		it.err = nil

		return zero, err
	}

	if len(it.buffer) == 0 {
		return zero, ErrNoMoreItems
	}

	item := it.buffer[0]
	it.buffer = it.buffer[1:]
	it.yielded++

	if it.maxItems > 0 && it.yielded >= it.maxItems {
		it.done = true
		it.buffer = nil
	}

	return item, nil
}

// All drains the iterator and returns the remaining items.
func (it *PageIterator[T]) All() ([]T, error) {
	var items []T

	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			return items, err
		}

		items = append(items, item)
	}

	return items, nil
}

// ForEach calls fn for every remaining item, stopping on the first error.
func (it *PageIterator[T]) ForEach(fn func(item T) error) error {
	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			return err
		}

		err = fn(item)
		if err != nil {
			return err
		}
	}

	return nil
}

func (it *PageIterator[T]) fetch() {
	pageParams := it.params.clone()
	pageParams.Start = it.offset
	pageParams.Count = it.pageSize

	if it.maxItems > 0 {
		remaining := it.maxItems - it.yielded
		if remaining <= 0 {
			it.done = true

			return
		}

		if remaining < pageParams.Count {
			pageParams.Count = remaining
		}
	}

	page, err := it.lister.ListPage(it.ctx, pageParams)
	if err != nil {
		it.err = fmt.Errorf("fetching page at offset %d: %w", it.offset, err)
		it.done = true

		return
	}

	it.buffer = page
	it.offset += len(page)

	if len(page) < pageParams.Count {
		it.done = true
	}
}

// FetchAllPages collects every page of the lister's results.
func FetchAllPages[T any](ctx context.Context, lister PageLister[T], params *QueryParams, options *PaginationOptions) ([]T, error) {
	if options == nil {
		options = DefaultPaginationOptions()
	}

	pageParams := params.clone()
	pageParams.Count = options.PageSize

	var all []T

	pages := 0

	for {
		page, err := lister.ListPage(ctx, pageParams)
		if err != nil {
			return nil, fmt.Errorf("fetching page at offset %d: %w", pageParams.Start, err)
		}

		all = append(all, page...)
		pages++

		if options.MaxItems > 0 && len(all) >= options.MaxItems {
			return all[:options.MaxItems], nil
		}

		if len(page) < pageParams.Count {
			return all, nil
		}

		if options.MaxPages > 0 && pages >= options.MaxPages {
			return all, nil
		}

		pageParams.Start += len(page)
	}
}

// PageResult is one page delivered by StreamPages.
type PageResult[T any] struct {
	Items []T
	Err   error
}

// StreamPages fetches pages in the background and delivers them on a channel.
// The channel closes after the last page or the first error.
func StreamPages[T any](ctx context.Context, lister PageLister[T], params *QueryParams, options *PaginationOptions) <-chan PageResult[T] {
	if options == nil {
		options = DefaultPaginationOptions()
	}

	results := make(chan PageResult[T])

	go func() {
		defer close(results)

		pageParams := params.clone()
		pageParams.Count = options.PageSize
		pages := 0

		for {
			page, err := lister.ListPage(ctx, pageParams)
			if err != nil {
				select {
				case results <- PageResult[T]{Err: fmt.Errorf("fetching page at offset %d: %w", pageParams.Start, err)}:
				case <-ctx.Done():
				}

				return
			}

			select {
			case results <- PageResult[T]{Items: page}:
			case <-ctx.Done():
				return
			}

			pages++

			if len(page) < pageParams.Count {
				return
			}

			if options.MaxPages > 0 && pages >= options.MaxPages {
				return
			}

			pageParams.Start += len(page)
		}
	}()

	return results
}
