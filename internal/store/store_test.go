package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookden/internal/models"
)

func seeded() *Store {
	s := New()
	s.SetBooks([]models.Book{
		{ID: 1, Title: "Dune", Status: models.StatusPending, Author: &models.Author{Name: "Frank Herbert"}},
		{ID: 2, Title: "The Hobbit", Status: models.StatusReading},
	})
	s.SetSagas([]models.SagaSummary{
		{ID: 10, Name: "Dune Saga"},
	})
	return s
}

func TestReplaceBookTouchesOnlyMatchingID(t *testing.T) {
	s := seeded()
	before := s.Books()

	ok := s.ReplaceBook(models.Book{ID: 2, Title: "The Hobbit", Status: models.StatusFinished, Rating: 5})
	require.True(t, ok)

	after := s.Books()
	assert.Equal(t, models.StatusFinished, after[1].Status)

	// the unrelated entry is byte-for-byte the same, pointer fields included
	assert.Equal(t, before[0], after[0])
	assert.Same(t, before[0].Author, after[0].Author)
}

func TestReplaceBookUnknownID(t *testing.T) {
	s := seeded()
	assert.False(t, s.ReplaceBook(models.Book{ID: 99}))
	assert.Len(t, s.Books(), 2)
}

func TestAddAndRemoveBook(t *testing.T) {
	s := seeded()
	s.AddBook(models.Book{ID: 3, Title: "New"})
	assert.Len(t, s.Books(), 3)

	assert.True(t, s.RemoveBook(1))
	assert.False(t, s.RemoveBook(1))

	books := s.Books()
	require.Len(t, books, 2)
	assert.Equal(t, int64(2), books[0].ID)
}

func TestBookLookup(t *testing.T) {
	s := seeded()
	b, ok := s.Book(1)
	require.True(t, ok)
	assert.Equal(t, "Dune", b.Title)

	_, ok = s.Book(42)
	assert.False(t, ok)
}

func TestSagaDetailCache(t *testing.T) {
	s := seeded()

	_, ok := s.SagaDetail(10)
	assert.False(t, ok, "nothing cached before an explicit fetch")

	detail := &models.Saga{ID: 10, Name: "Dune Saga", Books: []models.Book{{ID: 1, Title: "Dune"}}}
	s.PutSagaDetail(detail)

	got, ok := s.SagaDetail(10)
	require.True(t, ok)
	assert.Equal(t, "Dune Saga", got.Name)
	require.Len(t, got.Books, 1)

	// returned copy is detached from the cache
	got.Books[0].Title = "mutated"
	again, _ := s.SagaDetail(10)
	assert.Equal(t, "Dune", again.Books[0].Title)

	s.InvalidateSagaDetail(10)
	_, ok = s.SagaDetail(10)
	assert.False(t, ok)
}

func TestMergeSagaDetailKeepsBooks(t *testing.T) {
	s := seeded()
	s.PutSagaDetail(&models.Saga{ID: 10, Name: "Dune Saga", Books: []models.Book{{ID: 1}}})

	cover := "http://example.com/new.jpg"
	s.MergeSagaDetail(10, "Dune Chronicles", &cover)

	got, ok := s.SagaDetail(10)
	require.True(t, ok)
	assert.Equal(t, "Dune Chronicles", got.Name)
	assert.Equal(t, cover, *got.CoverURL)
	assert.Len(t, got.Books, 1, "embedded book list untouched by shallow merge")
}

func TestDetachBookEverywhere(t *testing.T) {
	s := seeded()
	s.PutSagaDetail(&models.Saga{ID: 10, Books: []models.Book{{ID: 1}, {ID: 2}}})

	s.DetachBookEverywhere(1)

	got, ok := s.SagaDetail(10)
	require.True(t, ok)
	require.Len(t, got.Books, 1)
	assert.Equal(t, int64(2), got.Books[0].ID)
}

func TestDetachSagaRefs(t *testing.T) {
	s := New()
	idx := 2
	s.SetBooks([]models.Book{
		{ID: 1, Saga: &models.SagaRef{ID: 10, Name: "S"}, IndexInSaga: &idx},
		{ID: 2, Saga: &models.SagaRef{ID: 11, Name: "Other"}},
	})

	s.DetachSagaRefs(10)

	books := s.Books()
	assert.Nil(t, books[0].Saga)
	assert.Nil(t, books[0].IndexInSaga)
	require.NotNil(t, books[1].Saga, "books of other sagas keep their reference")
}

func TestRemoveSagaDropsDetail(t *testing.T) {
	s := seeded()
	s.PutSagaDetail(&models.Saga{ID: 10, Name: "Dune Saga"})

	assert.True(t, s.RemoveSaga(10))
	assert.Empty(t, s.Sagas())
	_, ok := s.SagaDetail(10)
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	s := seeded()
	s.PutSagaDetail(&models.Saga{ID: 10})
	s.Clear()
	assert.Empty(t, s.Books())
	assert.Empty(t, s.Sagas())
	_, ok := s.SagaDetail(10)
	assert.False(t, ok)
}
