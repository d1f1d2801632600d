package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
	"gitlab.com/orza-agritech/web/orza-sync/pkg/cachekeys"
)

func TestMutationRunner_Success_InvalidatesEdgesAndNotifies(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seedEntry(t, cachekeys.Article("a1"), map[string]string{"id": "a1"}, time.Hour)
	h.seedEntry(t, cachekeys.Notifications(), []string{}, time.Hour)

	outcome, err := h.runner.run(ctx, "save_article", domain.MsgArticleSaveFailed,
		[]cachekeys.Predicate{cachekeys.Exact(cachekeys.Article("a1"))},
		func(context.Context) (mutationResult, error) {
			return mutationResult{message: "Artikel berhasil disimpan"}, nil
		})

	require.NoError(t, err)
	assert.Equal(t, "Artikel berhasil disimpan", outcome.Message)
	assert.Equal(t, []string{"Artikel berhasil disimpan"}, h.notifier.successes)

	// Only the declared edge went stale.
	assert.True(t, h.entryStale(t, cachekeys.Article("a1")))
	assert.False(t, h.entryStale(t, cachekeys.Notifications()))
}

func TestMutationRunner_Success_GenericMessageWhenServerSilent(t *testing.T) {
	h := newHarness(t)

	outcome, err := h.runner.run(context.Background(), "save_article", domain.MsgArticleSaveFailed, nil,
		func(context.Context) (mutationResult, error) {
			return mutationResult{}, nil
		})

	require.NoError(t, err)
	assert.Equal(t, "Berhasil", outcome.Message)
	assert.Equal(t, []string{"Berhasil"}, h.notifier.successes)
}

func TestMutationRunner_Failure_ServerMessagePassesThroughVerbatim(t *testing.T) {
	h := newHarness(t)
	h.seedEntry(t, cachekeys.Article("a1"), map[string]string{"id": "a1"}, time.Hour)

	serverErr := domain.NewAPIError(422, "Judul wajib diisi")
	_, err := h.runner.run(context.Background(), "save_article", domain.MsgArticleSaveFailed,
		[]cachekeys.Predicate{cachekeys.Exact(cachekeys.Article("a1"))},
		func(context.Context) (mutationResult, error) {
			return mutationResult{}, serverErr
		})

	assert.ErrorIs(t, err, serverErr)
	assert.Equal(t, []string{"Judul wajib diisi"}, h.notifier.errors)

	// Failed mutations leave the cache untouched.
	assert.False(t, h.entryStale(t, cachekeys.Article("a1")))
}

func TestMutationRunner_Failure_FallsBackToOperationMessage(t *testing.T) {
	h := newHarness(t)

	_, err := h.runner.run(context.Background(), "save_article", domain.MsgArticleSaveFailed, nil,
		func(context.Context) (mutationResult, error) {
			return mutationResult{}, errors.New("connection refused")
		})

	require.Error(t, err)
	assert.Equal(t, []string{"Gagal menyimpan artikel"}, h.notifier.errors)
}

func TestMutationRunner_Pending_TracksInFlightOperation(t *testing.T) {
	h := newHarness(t)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = h.runner.run(context.Background(), "join_community", domain.MsgCommunityJoinFailed, nil,
			func(context.Context) (mutationResult, error) {
				close(started)
				<-release
				return mutationResult{}, nil
			})
	}()

	<-started
	assert.True(t, h.runner.Pending("join_community"))
	assert.False(t, h.runner.Pending("leave_community"))

	close(release)
	<-done
	assert.False(t, h.runner.Pending("join_community"))
}
