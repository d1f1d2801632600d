package orzaapi

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
)

// The two pagination shapes the API returns must normalize to the same
// canonical Page regardless of which resource produced them.

func TestAPI_ListPosts_NormalizesEnvelopeLevelPagination(t *testing.T) {
	transport := &stubTransport{handler: func(_, path string, opts domain.RequestOptions) (*domain.Envelope, error) {
		require.Equal(t, "/posts", path)
		assert.Equal(t, "c1", opts.Query.Get("communityId"))
		env := envelope([]domain.Post{{ID: "p1"}, {ID: "p2"}}, "")
		env.Page = 2
		env.TotalPages = 4
		env.Total = 37
		return env, nil
	}}
	api := New(transport, nopLogger{})

	page, err := api.ListPosts(context.Background(), "c1", 2, 10)

	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 4, page.TotalPages)
	assert.Equal(t, 37, page.Total)
}

func TestAPI_ListCommunities_NormalizesNestedPagination(t *testing.T) {
	transport := &stubTransport{handler: func(_, path string, _ domain.RequestOptions) (*domain.Envelope, error) {
		require.Equal(t, "/communities", path)
		return envelope(map[string]any{
			"items": []domain.Community{{ID: "c1"}},
			"pagination": map[string]int{
				"page":       3,
				"totalPages": 3,
				"total":      21,
			},
		}, ""), nil
	}}
	api := New(transport, nopLogger{})

	page, err := api.ListCommunities(context.Background(), 3, 10)

	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 21, page.Total)
	assert.False(t, page.HasNext())
}
