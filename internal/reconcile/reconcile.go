package reconcile

import (
	"bookden/internal/metrics"
	"bookden/internal/models"
	"bookden/internal/store"
)

// Reconciler is the only writer to the store after a mutation: it applies
// server-confirmed results verbatim and resolves the cross-entity staleness
// they cause. A rejected mutation never goes through here; the caller
// re-fetches authoritative state instead (see Resync*).
//
// The book list and the cached saga details are two independently fetched,
// denormalized copies of the same one-to-many relation. The saga detail owns
// the forward list, so after any edit that can move a book between sagas the
// affected cached details are dropped rather than patched; they get re-fetched
// on next access.
type Reconciler struct {
	store *store.Store
}

func New(s *store.Store) *Reconciler {
	return &Reconciler{store: s}
}

// ApplyBookCreated appends the server's copy of a new book.
func (r *Reconciler) ApplyBookCreated(created *models.Book) {
	r.store.AddBook(*created)
	if created.Saga != nil {
		r.store.InvalidateSagaDetail(created.Saga.ID)
	}
	metrics.ReconcileApplies.WithLabelValues("book_created").Inc()
}

// ApplyBookUpdated replaces the stored entry with the server's returned
// representation. previous is the entry as it stood before the mutation; it
// is needed to spot a saga reassignment, which invalidates the cached detail
// of both the old and the new saga.
func (r *Reconciler) ApplyBookUpdated(previous, updated *models.Book) {
	r.store.ReplaceBook(*updated)

	prevSaga := sagaID(previous)
	newSaga := sagaID(updated)
	if prevSaga != newSaga {
		if prevSaga != 0 {
			r.store.InvalidateSagaDetail(prevSaga)
		}
		if newSaga != 0 {
			r.store.InvalidateSagaDetail(newSaga)
		}
	} else if newSaga != 0 {
		// Same saga, but the summary entry inside its detail is now stale
		// (title, status, index may have changed).
		r.store.InvalidateSagaDetail(newSaga)
	}
	metrics.ReconcileApplies.WithLabelValues("book_updated").Inc()
}

// ApplyBookDeleted removes the book and detaches it from every cached saga
// detail. Returns false when the book was already gone.
func (r *Reconciler) ApplyBookDeleted(id int64) bool {
	removed := r.store.RemoveBook(id)
	r.store.DetachBookEverywhere(id)
	metrics.ReconcileApplies.WithLabelValues("book_deleted").Inc()
	return removed
}

// ApplySagaCreated appends the server's copy of a new saga.
func (r *Reconciler) ApplySagaCreated(created *models.Saga) {
	r.store.AddSaga(created.Summary())
	r.store.PutSagaDetail(created)
	metrics.ReconcileApplies.WithLabelValues("saga_created").Inc()
}

// ApplySagaUpdated propagates a saga field edit: the summary entry is
// replaced and the cached detail, if present, gets a shallow merge of name
// and cover. The embedded book list is left alone; a field edit cannot
// change membership.
func (r *Reconciler) ApplySagaUpdated(updated *models.Saga) {
	r.store.ReplaceSaga(updated.Summary())
	r.store.MergeSagaDetail(updated.ID, updated.Name, updated.CoverURL)
	metrics.ReconcileApplies.WithLabelValues("saga_updated").Inc()
}

// ApplySagaDeleted removes the saga and clears the back-reference on every
// book that pointed at it.
func (r *Reconciler) ApplySagaDeleted(id int64) bool {
	removed := r.store.RemoveSaga(id)
	r.store.DetachSagaRefs(id)
	metrics.ReconcileApplies.WithLabelValues("saga_deleted").Inc()
	return removed
}

// ResyncBooks replaces the local book list with a full re-fetch result. This
// is the recovery path after a rejected mutation: the optimistic change is
// discarded wholesale in favor of the server's last accepted state.
func (r *Reconciler) ResyncBooks(books []models.Book) {
	r.store.SetBooks(books)
	metrics.Resyncs.WithLabelValues("books").Inc()
}

// ResyncSagas replaces the saga summary list with a full re-fetch result.
func (r *Reconciler) ResyncSagas(sagas []models.SagaSummary) {
	r.store.SetSagas(sagas)
	metrics.Resyncs.WithLabelValues("sagas").Inc()
}

func sagaID(b *models.Book) int64 {
	if b == nil || b.Saga == nil {
		return 0
	}
	return b.Saga.ID
}
