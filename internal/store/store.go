package store

import (
	"sync"

	"bookden/internal/models"
)

// Store holds the session's view of the collection: the book list, the saga
// summaries, and saga details cached after an explicit fetch. It does no I/O;
// internal/reconcile decides what gets written here and internal/collection
// decides when. A Store starts empty and is discarded at session end.
type Store struct {
	mu          sync.RWMutex
	books       []models.Book
	sagas       []models.SagaSummary
	sagaDetails map[int64]*models.Saga
}

func New() *Store {
	return &Store{
		sagaDetails: make(map[int64]*models.Saga),
	}
}

// Books returns a snapshot of the book list. The slice is copied; the entries
// share pointer fields with the stored ones, so callers must Clone before
// mutating an entry.
func (s *Store) Books() []models.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Book, len(s.books))
	copy(out, s.books)
	return out
}

// Book looks up a book by id.
func (s *Store) Book(id int64) (models.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.books {
		if s.books[i].ID == id {
			return s.books[i], true
		}
	}
	return models.Book{}, false
}

// SetBooks replaces the whole book list with a freshly fetched one.
func (s *Store) SetBooks(books []models.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books = make([]models.Book, len(books))
	copy(s.books, books)
}

// ReplaceBook swaps the entry with a matching id for the given one, leaving
// every other entry untouched. Returns false when no entry matches.
func (s *Store) ReplaceBook(book models.Book) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.books {
		if s.books[i].ID == book.ID {
			s.books[i] = book
			return true
		}
	}
	return false
}

// AddBook appends a server-assigned book to the list.
func (s *Store) AddBook(book models.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books = append(s.books, book)
}

// RemoveBook deletes the entry with the given id. Returns false when absent.
func (s *Store) RemoveBook(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.books {
		if s.books[i].ID == id {
			s.books = append(s.books[:i], s.books[i+1:]...)
			return true
		}
	}
	return false
}

// Sagas returns a snapshot of the saga summary list.
func (s *Store) Sagas() []models.SagaSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SagaSummary, len(s.sagas))
	copy(out, s.sagas)
	return out
}

// Saga looks up a saga summary by id.
func (s *Store) Saga(id int64) (models.SagaSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.sagas {
		if s.sagas[i].ID == id {
			return s.sagas[i], true
		}
	}
	return models.SagaSummary{}, false
}

// SetSagas replaces the saga summary list.
func (s *Store) SetSagas(sagas []models.SagaSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sagas = make([]models.SagaSummary, len(sagas))
	copy(s.sagas, sagas)
}

// ReplaceSaga swaps the summary with a matching id. Returns false when absent.
func (s *Store) ReplaceSaga(saga models.SagaSummary) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sagas {
		if s.sagas[i].ID == saga.ID {
			s.sagas[i] = saga
			return true
		}
	}
	return false
}

// AddSaga appends a server-assigned saga summary.
func (s *Store) AddSaga(saga models.SagaSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sagas = append(s.sagas, saga)
}

// RemoveSaga deletes the summary and any cached detail for the id.
func (s *Store) RemoveSaga(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sagaDetails, id)
	for i := range s.sagas {
		if s.sagas[i].ID == id {
			s.sagas = append(s.sagas[:i], s.sagas[i+1:]...)
			return true
		}
	}
	return false
}

// SagaDetail returns the cached detail view for a saga, if one was fetched
// and not invalidated since. The copy is deep; mutating it does not touch
// the cache.
func (s *Store) SagaDetail(id int64) (*models.Saga, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	detail, ok := s.sagaDetails[id]
	if !ok {
		return nil, false
	}
	return detail.Clone(), true
}

// PutSagaDetail caches a freshly fetched saga detail.
func (s *Store) PutSagaDetail(saga *models.Saga) {
	if saga == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sagaDetails[saga.ID] = saga.Clone()
}

// InvalidateSagaDetail drops a cached detail view so the next access forces
// a re-fetch.
func (s *Store) InvalidateSagaDetail(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sagaDetails, id)
}

// MergeSagaDetail shallow-merges name and cover into a cached detail without
// touching its embedded book list. No-op when the detail is not cached.
func (s *Store) MergeSagaDetail(id int64, name string, coverURL *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	detail, ok := s.sagaDetails[id]
	if !ok {
		return
	}
	detail.Name = name
	detail.CoverURL = coverURL
}

// DetachBookEverywhere removes a deleted book from every cached saga detail.
func (s *Store) DetachBookEverywhere(bookID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, detail := range s.sagaDetails {
		for i := range detail.Books {
			if detail.Books[i].ID == bookID {
				detail.Books = append(detail.Books[:i], detail.Books[i+1:]...)
				break
			}
		}
	}
}

// DetachSagaRefs clears the saga back-reference on every book pointing at
// the given saga. Used after a confirmed saga deletion.
func (s *Store) DetachSagaRefs(sagaID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.books {
		if s.books[i].Saga != nil && s.books[i].Saga.ID == sagaID {
			s.books[i].Saga = nil
			s.books[i].IndexInSaga = nil
		}
	}
}

// Clear empties the store. Used at session teardown.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books = nil
	s.sagas = nil
	s.sagaDetails = make(map[int64]*models.Saga)
}
