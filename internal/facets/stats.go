package facets

import (
	"strings"

	"bookden/internal/models"
)

// Stats is the dashboard view derived from the current collection, computed
// client-side the same pull-based way as the facet sets.
type Stats struct {
	TotalBooks        int
	BooksReadThisYear int
	CurrentBook       *models.Book
	NextBookInSaga    *models.Book
}

// ComputeStats walks the book list once per call. year is the current
// four-digit year, e.g. "2026"; it is a parameter so the derivation stays
// deterministic under test.
func ComputeStats(books []models.Book, year string) Stats {
	st := Stats{TotalBooks: len(books)}
	for i := range books {
		b := &books[i]
		if b.Status == models.StatusFinished && b.EndDate != nil && strings.HasPrefix(*b.EndDate, year+"-") {
			st.BooksReadThisYear++
		}
		if st.CurrentBook == nil && b.Status == models.StatusReading {
			st.CurrentBook = b.Clone()
		}
	}
	st.NextBookInSaga = nextInSaga(books)
	return st
}

// nextInSaga suggests the next pending volume: within sagas the reader has
// started (a volume finished or in progress), the pending book with the
// lowest reading order index. Books without an index are skipped since their position is
// unknown.
func nextInSaga(books []models.Book) *models.Book {
	progressed := make(map[int64]bool)
	for i := range books {
		b := &books[i]
		if b.Saga != nil && (b.Status == models.StatusFinished || b.Status == models.StatusReading) {
			progressed[b.Saga.ID] = true
		}
	}
	var best *models.Book
	for i := range books {
		b := &books[i]
		if b.Status != models.StatusPending || b.Saga == nil || b.IndexInSaga == nil {
			continue
		}
		if !progressed[b.Saga.ID] {
			continue
		}
		if best == nil || *b.IndexInSaga < *best.IndexInSaga {
			best = b
		}
	}
	return best.Clone()
}
