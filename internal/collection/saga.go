package collection

import (
	"context"
	"errors"
	"fmt"

	"bookden/internal/client"
	"bookden/internal/logger"
	"bookden/internal/metrics"
	"bookden/internal/models"
)

// SagaDetail returns the saga with its authoritative book list, from cache
// when the cached copy has not been invalidated by a cross-entity edit,
// otherwise via a fresh fetch.
func (c *Controller) SagaDetail(ctx context.Context, id int64) (*models.Saga, error) {
	if cached, ok := c.store.SagaDetail(id); ok {
		return cached, nil
	}
	ctx = c.opContext(ctx)
	saga, err := c.sagas.GetSaga(ctx, id)
	if err != nil {
		metrics.Operations.WithLabelValues("saga_detail", outcome(err)).Inc()
		return nil, fmt.Errorf("load saga: %w", err)
	}
	c.store.PutSagaDetail(saga)
	metrics.Operations.WithLabelValues("saga_detail", "ok").Inc()
	return saga.Clone(), nil
}

// CreateSaga registers a new saga with a name and optional cover.
func (c *Controller) CreateSaga(ctx context.Context, name string, coverURL *string) (*models.Saga, error) {
	ctx = c.opContext(ctx)
	if name == "" {
		return nil, errors.New("saga name must not be empty")
	}
	draft := &models.Saga{Name: name, CoverURL: coverURL, Books: []models.Book{}}
	created, err := c.sagas.CreateSaga(ctx, draft)
	if err != nil {
		metrics.Operations.WithLabelValues("create_saga", outcome(err)).Inc()
		return nil, fmt.Errorf("create saga %q: %w", name, err)
	}
	c.rec.ApplySagaCreated(created)
	logger.For(ctx).WithField("saga_id", created.ID).Info("saga created")
	metrics.Operations.WithLabelValues("create_saga", "ok").Inc()
	return created, nil
}

// EditSaga updates a saga's own fields through fetch-merge-submit: the
// current detail (with its book list) is fetched, only name and cover are
// merged, and the whole body goes back in one PUT.
func (c *Controller) EditSaga(ctx context.Context, id int64, name string, coverURL *string) (*models.Saga, error) {
	ctx = c.opContext(ctx)
	if name == "" {
		return nil, errors.New("saga name must not be empty")
	}
	if !c.acquire("saga", id) {
		metrics.InFlightRejections.Inc()
		return nil, ErrMutationInFlight
	}
	defer c.release("saga", id)
	c.setState(StateMutating)
	defer c.setState(StateReady)

	current, err := c.sagas.GetSaga(ctx, id)
	if err != nil {
		metrics.Operations.WithLabelValues("edit_saga", outcome(err)).Inc()
		return nil, fmt.Errorf("fetch current saga: %w", err)
	}
	merged := current.Clone()
	merged.Name = name
	merged.CoverURL = coverURL

	updated, err := c.sagas.ReplaceSaga(ctx, id, merged)
	if err != nil {
		logger.For(ctx).WithError(err).Warn("saga edit rejected, resyncing")
		metrics.Operations.WithLabelValues("edit_saga", outcome(err)).Inc()
		c.resyncSagas(ctx)
		return nil, err
	}
	c.rec.ApplySagaUpdated(updated)
	metrics.Operations.WithLabelValues("edit_saga", "ok").Inc()
	return updated, nil
}

// DeleteSaga removes a saga. Books keep existing; their back-references are
// detached locally and the next book refresh confirms the server did the
// same.
func (c *Controller) DeleteSaga(ctx context.Context, id int64) error {
	ctx = c.opContext(ctx)
	if !c.acquire("saga", id) {
		metrics.InFlightRejections.Inc()
		return ErrMutationInFlight
	}
	defer c.release("saga", id)
	c.setState(StateMutating)
	defer c.setState(StateReady)

	if err := c.sagas.DeleteSaga(ctx, id); err != nil {
		metrics.Operations.WithLabelValues("delete_saga", outcome(err)).Inc()
		c.resyncSagas(ctx)
		return fmt.Errorf("delete saga: %w", err)
	}
	c.rec.ApplySagaDeleted(id)
	logger.For(ctx).WithField("saga_id", id).Info("saga deleted")
	metrics.Operations.WithLabelValues("delete_saga", "ok").Inc()
	return nil
}

// SearchByTitle queries the external search collaborator.
func (c *Controller) SearchByTitle(ctx context.Context, title string) ([]client.Candidate, error) {
	ctx = c.opContext(ctx)
	if title == "" {
		return nil, errors.New("search text must not be empty")
	}
	candidates, err := c.search.SearchByTitle(ctx, title)
	if err != nil {
		metrics.Operations.WithLabelValues("search", outcome(err)).Inc()
		return nil, fmt.Errorf("search %q: %w", title, err)
	}
	metrics.Operations.WithLabelValues("search", "ok").Inc()
	return candidates, nil
}

// AddFromCandidate maps a search result into a pending draft and creates it.
func (c *Controller) AddFromCandidate(ctx context.Context, cand client.Candidate) (*models.Book, error) {
	return c.AddBook(ctx, cand.Draft())
}
