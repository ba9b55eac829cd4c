package collection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"bookden/internal/client"
	"bookden/internal/facets"
	"bookden/internal/lifecycle"
	"bookden/internal/logger"
	"bookden/internal/metrics"
	"bookden/internal/models"
	"bookden/internal/reconcile"
	"bookden/internal/store"
)

// State is the session-level phase, tracked for the shell. There is no
// automatic retry; every failure is reported and needs a new explicit
// trigger.
type State string

const (
	StateLoading  State = "loading"
	StateReady    State = "ready"
	StateMutating State = "mutating"
)

// ErrMutationInFlight is returned when a second mutation is triggered for an
// entity whose previous one has not resolved yet. The source UI only exposed
// one action per entity at a time; the guard makes that explicit instead of
// letting overlapping fetch-merge-submit sequences overwrite each other.
var ErrMutationInFlight = errors.New("another change to this entity is still in progress")

// Controller orchestrates user-triggered operations: it calls the API
// collaborators, hands confirmed results to the reconciler, and recovers
// from rejections by forcing a full re-fetch of the affected collection.
type Controller struct {
	books  client.BookAPI
	sagas  client.SagaAPI
	search client.SearchAPI
	upload client.UploadAPI
	store  *store.Store
	rec    *reconcile.Reconciler

	mu       sync.Mutex
	state    State
	inFlight map[string]bool
}

func New(books client.BookAPI, sagas client.SagaAPI, search client.SearchAPI, upload client.UploadAPI, st *store.Store) *Controller {
	return &Controller{
		books:    books,
		sagas:    sagas,
		search:   search,
		upload:   upload,
		store:    st,
		rec:      reconcile.New(st),
		state:    StateLoading,
		inFlight: make(map[string]bool),
	}
}

// State returns the current session phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Store exposes the session store for read access by the shell.
func (c *Controller) Store() *store.Store {
	return c.store
}

// Facets derives the current filter dimensions.
func (c *Controller) Facets() facets.Facets {
	return facets.Derive(c.store.Books())
}

// Filter returns the books matching the selection.
func (c *Controller) Filter(sel facets.Selection) []models.Book {
	return sel.Apply(c.store.Books())
}

// Stats derives the dashboard view for the given year.
func (c *Controller) Stats(year string) facets.Stats {
	return facets.ComputeStats(c.store.Books(), year)
}

// Refresh re-fetches books and saga summaries. On failure the prior store
// contents stay intact and the error is surfaced.
func (c *Controller) Refresh(ctx context.Context) error {
	ctx = c.opContext(ctx)
	log := logger.For(ctx)

	books, err := c.books.ListBooks(ctx)
	if err != nil {
		metrics.Operations.WithLabelValues("refresh", outcome(err)).Inc()
		return fmt.Errorf("load books: %w", err)
	}
	sagas, err := c.sagas.ListSagas(ctx)
	if err != nil {
		metrics.Operations.WithLabelValues("refresh", outcome(err)).Inc()
		return fmt.Errorf("load sagas: %w", err)
	}

	c.store.SetBooks(books)
	c.store.SetSagas(sagas)
	c.setState(StateReady)
	log.WithField("books", len(books)).WithField("sagas", len(sagas)).Debug("collection refreshed")
	metrics.Operations.WithLabelValues("refresh", "ok").Inc()
	return nil
}

// AddBook creates a book from a draft. The server assigns the id; the
// returned copy is the authoritative one.
func (c *Controller) AddBook(ctx context.Context, draft *models.Book) (*models.Book, error) {
	ctx = c.opContext(ctx)
	if draft.Title == "" {
		return nil, errors.New("title must not be empty")
	}
	if draft.Status == "" {
		draft = draft.Clone()
		draft.Status = models.StatusPending
	}
	if err := lifecycle.Validate(draft); err != nil {
		return nil, err
	}

	created, err := c.books.CreateBook(ctx, draft)
	if err != nil {
		metrics.Operations.WithLabelValues("add_book", outcome(err)).Inc()
		return nil, fmt.Errorf("add %q: %w", draft.Title, err)
	}
	c.rec.ApplyBookCreated(created)
	logger.For(ctx).WithField("book_id", created.ID).Info("book added")
	metrics.Operations.WithLabelValues("add_book", "ok").Inc()
	return created, nil
}

// StartReading runs the PENDING -> READING trigger: fetch the current full
// representation, merge only the lifecycle fields, and submit the whole body
// back. The fetch is mandatory; submitting a stale local copy would clobber
// fields the cache never saw.
func (c *Controller) StartReading(ctx context.Context, id int64) (*models.Book, error) {
	return c.mutateBook(ctx, "start_reading", id, func(current *models.Book) (*models.Book, error) {
		return lifecycle.StartReading(current, lifecycle.Today())
	})
}

// FinishReading runs the READING -> FINISHED trigger with the chosen rating.
// An out-of-range rating aborts before any network call, matching the
// cancelable rating prompt.
func (c *Controller) FinishReading(ctx context.Context, id int64, rating int) (*models.Book, error) {
	if rating < 1 || rating > 5 {
		return nil, lifecycle.ErrBadRating
	}
	return c.mutateBook(ctx, "finish_reading", id, func(current *models.Book) (*models.Book, error) {
		return lifecycle.FinishReading(current, rating, lifecycle.Today())
	})
}

// EditBook submits a caller-built full replacement body. Callers are
// expected to start from the current representation (Store().Book or a fresh
// GET); the backend only supports whole-entity PUT.
func (c *Controller) EditBook(ctx context.Context, id int64, replacement *models.Book) (*models.Book, error) {
	if err := lifecycle.Validate(replacement); err != nil {
		return nil, err
	}
	return c.mutateBook(ctx, "edit_book", id, func(current *models.Book) (*models.Book, error) {
		out := replacement.Clone()
		out.ID = current.ID
		return out, nil
	})
}

// mutateBook is the shared fetch-merge-submit path for single-book
// mutations. On rejection nothing is applied locally; the book list is
// re-fetched so the store reflects the server's last accepted state.
func (c *Controller) mutateBook(ctx context.Context, op string, id int64, merge func(*models.Book) (*models.Book, error)) (*models.Book, error) {
	ctx = c.opContext(ctx)
	log := logger.For(ctx).WithField("book_id", id)

	if !c.acquire("book", id) {
		metrics.InFlightRejections.Inc()
		return nil, ErrMutationInFlight
	}
	defer c.release("book", id)
	c.setState(StateMutating)
	defer c.setState(StateReady)

	current, err := c.books.GetBook(ctx, id)
	if err != nil {
		metrics.Operations.WithLabelValues(op, outcome(err)).Inc()
		return nil, fmt.Errorf("fetch current book: %w", err)
	}

	merged, err := merge(current)
	if err != nil {
		metrics.Operations.WithLabelValues(op, "invalid").Inc()
		return nil, err
	}

	updated, err := c.books.ReplaceBook(ctx, id, merged)
	if err != nil {
		log.WithError(err).Warn("mutation rejected, resyncing")
		metrics.Operations.WithLabelValues(op, outcome(err)).Inc()
		c.resyncBooks(ctx)
		return nil, err
	}

	previous, _ := c.store.Book(id)
	c.rec.ApplyBookUpdated(&previous, updated)
	log.WithField("status", updated.Status).Info("book updated")
	metrics.Operations.WithLabelValues(op, "ok").Inc()
	return updated, nil
}

// UploadCover sends a cover image to the asset collaborator and writes the
// returned URL onto the book through the usual fetch-merge-submit path.
func (c *Controller) UploadCover(ctx context.Context, id int64, filename string, content io.Reader) (*models.Book, error) {
	ctx = c.opContext(ctx)
	url, err := c.upload.Upload(ctx, filename, content)
	if err != nil {
		metrics.Operations.WithLabelValues("upload_cover", outcome(err)).Inc()
		return nil, fmt.Errorf("upload cover: %w", err)
	}
	return c.mutateBook(ctx, "upload_cover", id, func(current *models.Book) (*models.Book, error) {
		out := current.Clone()
		out.CoverURL = &url
		return out, nil
	})
}

// DeleteBook removes a book. Any view showing it must close; the reconciler
// also detaches it from cached saga details.
func (c *Controller) DeleteBook(ctx context.Context, id int64) error {
	ctx = c.opContext(ctx)
	if !c.acquire("book", id) {
		metrics.InFlightRejections.Inc()
		return ErrMutationInFlight
	}
	defer c.release("book", id)
	c.setState(StateMutating)
	defer c.setState(StateReady)

	if err := c.books.DeleteBook(ctx, id); err != nil {
		metrics.Operations.WithLabelValues("delete_book", outcome(err)).Inc()
		c.resyncBooks(ctx)
		return fmt.Errorf("delete book: %w", err)
	}
	c.rec.ApplyBookDeleted(id)
	logger.For(ctx).WithField("book_id", id).Info("book deleted")
	metrics.Operations.WithLabelValues("delete_book", "ok").Inc()
	return nil
}

// resyncBooks is the rejection recovery path: discard the optimistic view
// and take the server's word. Best effort; if the re-fetch itself fails the
// prior state simply stays until the next explicit refresh.
func (c *Controller) resyncBooks(ctx context.Context) {
	books, err := c.books.ListBooks(ctx)
	if err != nil {
		logger.For(ctx).WithError(err).Warn("resync failed, keeping prior state")
		return
	}
	c.rec.ResyncBooks(books)
}

func (c *Controller) resyncSagas(ctx context.Context) {
	sagas, err := c.sagas.ListSagas(ctx)
	if err != nil {
		logger.For(ctx).WithError(err).Warn("resync failed, keeping prior state")
		return
	}
	c.rec.ResyncSagas(sagas)
}

func (c *Controller) opContext(ctx context.Context) context.Context {
	return logger.ContextWithID(ctx, uuid.NewString())
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Controller) acquire(kind string, id int64) bool {
	key := fmt.Sprintf("%s/%d", kind, id)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[key] {
		return false
	}
	c.inFlight[key] = true
	return true
}

func (c *Controller) release(kind string, id int64) {
	key := fmt.Sprintf("%s/%d", kind, id)
	c.mu.Lock()
	delete(c.inFlight, key)
	c.mu.Unlock()
}

// outcome buckets an error for metrics: a server rejection vs. everything
// else (transport failure, timeout).
func outcome(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return "rejected"
	}
	return "error"
}
