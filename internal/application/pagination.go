package application

import (
	"context"
	"sync"

	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
)

// InfiniteList accumulates pages of a cursor-based feed (predictions history,
// liked posts). The cursor is monotonic within a session: the next page number
// always derives from the totalPages observed in the latest successful fetch.
type InfiniteList[T any] struct {
	mu       sync.Mutex
	items    []T
	lastPage *domain.Page[T]
	fetch    func(ctx context.Context, page int) (domain.Page[T], error)
}

// NewInfiniteList creates an empty list over the given page fetcher.
func NewInfiniteList[T any](fetch func(ctx context.Context, page int) (domain.Page[T], error)) *InfiniteList[T] {
	return &InfiniteList[T]{fetch: fetch}
}

// FetchNext loads the next page and appends its items. The first call fetches
// page 1. Once the cursor is terminal (page == totalPages) it returns
// domain.ErrNoNextPage without touching the network.
func (l *InfiniteList[T]) FetchNext(ctx context.Context) ([]T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := 1
	if l.lastPage != nil {
		var err error
		next, err = l.lastPage.NextPage()
		if err != nil {
			return nil, err
		}
	}

	page, err := l.fetch(ctx, next)
	if err != nil {
		return nil, err
	}
	l.lastPage = &page
	l.items = append(l.items, page.Items...)
	return page.Items, nil
}

// HasNext reports whether another page can be fetched. Before the first fetch
// it is true.
func (l *InfiniteList[T]) HasNext() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lastPage == nil {
		return true
	}
	return l.lastPage.HasNext()
}

// Items returns everything accumulated so far.
func (l *InfiniteList[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Reset drops the accumulated items and rewinds the cursor, so the next
// FetchNext starts over at page 1.
func (l *InfiniteList[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
	l.lastPage = nil
}
