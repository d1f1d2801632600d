package application

import (
	"context"
	"sync"

	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/metrics"
	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
	"gitlab.com/orza-agritech/web/orza-sync/pkg/cachekeys"
)

// mutationResult is what a wrapped resource-client call hands back to the
// runner: the server's success message and an optional navigation target.
type mutationResult struct {
	message    string
	navigateTo *domain.Route
}

// MutationRunner is the write side of the synchronization layer. Each mutation
// declares the resource-client call it wraps, the cache-key predicates it
// invalidates on success, and its generic failure message. The runner owns the
// uniform feedback contract: server message on success (generic fallback when
// absent), server error message on failure when present, the operation's
// localized fallback otherwise.
//
// Mutations are never coalesced; concurrent identical mutations each go out.
// The Pending flag exists so the UI can disable the triggering control and
// approximate at-most-once submission.
type MutationRunner struct {
	engine   *QueryEngine
	notifier domain.Notifier
	catalog  domain.MessageCatalog
	logger   domain.Logger

	mu      sync.Mutex
	pending map[string]int
}

// NewMutationRunner creates the write runner.
func NewMutationRunner(engine *QueryEngine, notifier domain.Notifier, catalog domain.MessageCatalog, logger domain.Logger) *MutationRunner {
	if engine == nil {
		panic("query engine cannot be nil in NewMutationRunner")
	}
	if notifier == nil {
		notifier = domain.NoopNotifier{}
	}
	if catalog == nil {
		catalog = domain.IndonesianCatalog{}
	}
	return &MutationRunner{
		engine:   engine,
		notifier: notifier,
		catalog:  catalog,
		logger:   logger,
		pending:  make(map[string]int),
	}
}

// Pending reports whether a mutation with the given operation name is in
// flight. The UI consumes this to disable submit controls.
func (r *MutationRunner) Pending(operation string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending[operation] > 0
}

// lookup resolves a catalog message for client-side rejections that never
// reach the call path.
func (r *MutationRunner) lookup(id domain.MessageID) string {
	return r.catalog.Lookup(id)
}

func (r *MutationRunner) setPending(operation string, delta int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[operation] += delta
	if r.pending[operation] <= 0 {
		delete(r.pending, operation)
	}
}

// run executes one mutation end to end: the wrapped call, user feedback,
// invalidation of the declared edges, and the typed outcome for the UI
// effect layer. The error, when any, is returned unrecovered — the cache and
// UI stay in their pre-mutation state and no retry occurs.
func (r *MutationRunner) run(
	ctx context.Context,
	operation string,
	failureID domain.MessageID,
	invalidates []cachekeys.Predicate,
	call func(context.Context) (mutationResult, error),
) (domain.Outcome, error) {
	r.setPending(operation, 1)
	defer r.setPending(operation, -1)

	result, err := call(ctx)
	if err != nil {
		metrics.MutationsTotal.WithLabelValues(operation, "failure").Inc()
		message := domain.DisplayMessage(err, r.catalog.Lookup(failureID))
		r.notifier.Error(ctx, message)
		r.logger.Warn(ctx, "Mutation failed", "operation", operation, "error", err.Error())
		return domain.Outcome{Message: message}, err
	}

	metrics.MutationsTotal.WithLabelValues(operation, "success").Inc()

	// Restore cache consistency before reporting success so the next read of
	// any affected key is a network fetch. The edges collapse into one
	// predicate so each affected key is visited once.
	if len(invalidates) > 0 {
		if invErr := r.engine.Invalidate(ctx, cachekeys.Any(invalidates...)); invErr != nil {
			r.logger.Error(ctx, "Invalidation after mutation failed", "operation", operation, "error", invErr.Error())
		}
	}

	message := result.message
	if message == "" {
		message = r.catalog.Lookup(domain.MsgGenericSuccess)
	}
	r.notifier.Success(ctx, message)

	return domain.Outcome{Message: message, NavigateTo: result.navigateTo}, nil
}
