package hubapi_test

import (
	"context"
	"errors"
	"testing"

	"github.com/spiderhub-io/hubapi/pkg/hubapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceLister serves pages out of a fixed slice using count/start offsets,
// the way the platform's listing endpoints page.
func sliceLister(items []int) hubapi.PageListerFunc[int] {
	return func(ctx context.Context, params *hubapi.QueryParams) ([]int, error) {
		start := params.Start
		if start >= len(items) {
			return nil, nil
		}

		end := start + params.Count
		if end > len(items) {
			end = len(items)
		}

		return items[start:end], nil
	}
}

func makeInts(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}

	return items
}

func TestPageIteratorAll(t *testing.T) {
	t.Parallel()

	items := makeInts(250)
	it := hubapi.NewPageIterator(context.Background(), sliceLister(items), nil)

	got, err := it.All()
	require.NoError(t, err)
	assert.Equal(t, items, got)
}

func TestPageIteratorCountCapsTotal(t *testing.T) {
	t.Parallel()

	items := makeInts(250)
	params := hubapi.NewQueryParams().WithCount(30)
	it := hubapi.NewPageIterator(context.Background(), sliceLister(items), params)

	got, err := it.All()
	require.NoError(t, err)
	assert.Equal(t, items[:30], got)
}

func TestPageIteratorStartOffset(t *testing.T) {
	t.Parallel()

	items := makeInts(50)
	params := hubapi.NewQueryParams().WithStart(40)
	it := hubapi.NewPageIterator(context.Background(), sliceLister(items), params)

	got, err := it.All()
	require.NoError(t, err)
	assert.Equal(t, items[40:], got)
}

func TestPageIteratorExhaustion(t *testing.T) {
	t.Parallel()

	it := hubapi.NewPageIterator(context.Background(), sliceLister([]int{1, 2}), nil)

	first, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, second)

	_, err = it.Next()
	assert.ErrorIs(t, err, hubapi.ErrNoMoreItems)
	assert.False(t, it.HasNext())
}

func TestPageIteratorEmpty(t *testing.T) {
	t.Parallel()

	it := hubapi.NewPageIterator(context.Background(), sliceLister(nil), nil)

	assert.False(t, it.HasNext())

	_, err := it.Next()
	assert.ErrorIs(t, err, hubapi.ErrNoMoreItems)
}

func TestPageIteratorListError(t *testing.T) {
	t.Parallel()

	listErr := errors.New("backend unavailable")
	lister := hubapi.PageListerFunc[int](func(ctx context.Context, params *hubapi.QueryParams) ([]int, error) {
		return nil, listErr
	})

	it := hubapi.NewPageIterator(context.Background(), lister, nil)

	assert.True(t, it.HasNext())

	_, err := it.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, listErr)
}

func TestPageIteratorForEach(t *testing.T) {
	t.Parallel()

	items := makeInts(10)
	it := hubapi.NewPageIterator(context.Background(), sliceLister(items), nil)

	var seen []int

	err := it.ForEach(func(item int) error {
		seen = append(seen, item)

		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, items, seen)
}

func TestPageIteratorForEachStopsOnError(t *testing.T) {
	t.Parallel()

	stopErr := errors.New("stop")
	it := hubapi.NewPageIterator(context.Background(), sliceLister(makeInts(10)), nil)

	count := 0

	err := it.ForEach(func(item int) error {
		count++
		if count == 3 {
			return stopErr
		}

		return nil
	})
	assert.ErrorIs(t, err, stopErr)
	assert.Equal(t, 3, count)
}

func TestStaticIterator(t *testing.T) {
	t.Parallel()

	it := hubapi.NewStaticIterator([]string{"a", "b"})

	got, err := it.All()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	_, err = it.Next()
	assert.ErrorIs(t, err, hubapi.ErrNoMoreItems)
}

func TestFetchAllPages(t *testing.T) {
	t.Parallel()

	items := makeInts(120)

	got, err := hubapi.FetchAllPages[int](context.Background(), sliceLister(items), nil, &hubapi.PaginationOptions{PageSize: 50})
	require.NoError(t, err)
	assert.Equal(t, items, got)
}

func TestFetchAllPagesMaxItems(t *testing.T) {
	t.Parallel()

	items := makeInts(120)
	options := &hubapi.PaginationOptions{PageSize: 50, MaxItems: 75}

	got, err := hubapi.FetchAllPages[int](context.Background(), sliceLister(items), nil, options)
	require.NoError(t, err)
	assert.Len(t, got, 75)
	assert.Equal(t, items[:75], got)
}

func TestFetchAllPagesMaxPages(t *testing.T) {
	t.Parallel()

	items := makeInts(120)
	options := &hubapi.PaginationOptions{PageSize: 50, MaxPages: 2}

	got, err := hubapi.FetchAllPages[int](context.Background(), sliceLister(items), nil, options)
	require.NoError(t, err)
	assert.Len(t, got, 100)
}

func TestStreamPages(t *testing.T) {
	t.Parallel()

	items := makeInts(120)
	options := &hubapi.PaginationOptions{PageSize: 50}

	var got []int

	for result := range hubapi.StreamPages[int](context.Background(), sliceLister(items), nil, options) {
		require.NoError(t, result.Err)

		got = append(got, result.Items...)
	}

	assert.Equal(t, items, got)
}

func TestStreamPagesError(t *testing.T) {
	t.Parallel()

	listErr := errors.New("backend unavailable")
	lister := hubapi.PageListerFunc[int](func(ctx context.Context, params *hubapi.QueryParams) ([]int, error) {
		return nil, listErr
	})

	var errs []error

	for result := range hubapi.StreamPages[int](context.Background(), lister, nil, nil) {
		if result.Err != nil {
			errs = append(errs, result.Err)
		}
	}

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], listErr)
}
