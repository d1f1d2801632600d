package application

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/orzaapi"
	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
	"gitlab.com/orza-agritech/web/orza-sync/pkg/cachekeys"
)

func newArticleService(h *harness) *ArticleService {
	return NewArticleService(nopLogger{}, h.cfg, h.api, h.session, h.engine, h.runner)
}

func articleListData(titles ...string) any {
	items := make([]domain.Article, len(titles))
	for i, title := range titles {
		items[i] = domain.Article{ID: title, Title: title}
	}
	return map[string]any{
		"items":      items,
		"pagination": map[string]int{"page": 1, "totalPages": 1, "total": len(items)},
	}
}

func TestArticleService_List_FilteredAndUnfilteredCacheSeparately(t *testing.T) {
	h := newHarness(t)
	h.transport.handler = func(_, path string, opts domain.RequestOptions) (*domain.Envelope, error) {
		require.Equal(t, "/articles", path)
		if opts.Query.Get("search") == "wereng" {
			return successEnvelope(articleListData("Mengatasi Hama Wereng"), ""), nil
		}
		return successEnvelope(articleListData("Panen Raya", "Pupuk Organik"), ""), nil
	}
	svc := newArticleService(h)
	ctx := context.Background()
	filter := orzaapi.ArticleFilter{Search: "wereng"}

	all, err := svc.List(ctx, 1, 10, orzaapi.ArticleFilter{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	filtered, err := svc.List(ctx, 1, 10, filter)
	require.NoError(t, err)
	require.Len(t, filtered.Items, 1)
	assert.Equal(t, "Mengatasi Hama Wereng", filtered.Items[0].Title)

	// The filter went out on the wire.
	assert.Equal(t, "wereng", h.transport.lastCall().Opts.Query.Get("search"))

	// Repeating either read is a cache hit; logically equal filters share one
	// entry.
	_, err = svc.List(ctx, 1, 10, orzaapi.ArticleFilter{})
	require.NoError(t, err)
	_, err = svc.List(ctx, 1, 10, orzaapi.ArticleFilter{Search: "wereng"})
	require.NoError(t, err)
	assert.Equal(t, 2, h.transport.callCount())
}

func TestArticleService_Create_InvalidatesFilteredPagesToo(t *testing.T) {
	h := newHarness(t)
	hash, err := cachekeys.ParamsHash(orzaapi.ArticleFilter{CategoryID: "padi"})
	require.NoError(t, err)
	h.seedEntry(t, cachekeys.Articles(1, 10), []string{}, testConfig().Get().MediumTTL())
	h.seedEntry(t, cachekeys.ArticlesFiltered(1, 10, hash), []string{}, testConfig().Get().MediumTTL())
	h.transport.handler = func(method, path string, _ domain.RequestOptions) (*domain.Envelope, error) {
		require.Equal(t, http.MethodPost, method)
		require.Equal(t, "/articles", path)
		return successEnvelope(domain.Article{ID: "a9"}, "Artikel dibuat"), nil
	}
	svc := newArticleService(h)

	_, err = svc.Create(context.Background(), orzaapi.ArticleParams{Title: "Rotasi Tanam"})

	require.NoError(t, err)
	assert.True(t, h.entryStale(t, cachekeys.Articles(1, 10)))
	assert.True(t, h.entryStale(t, cachekeys.ArticlesFiltered(1, 10, hash)))
}
