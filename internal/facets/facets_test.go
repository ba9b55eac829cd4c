package facets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookden/internal/models"
)

func sampleBooks() []models.Book {
	return []models.Book{
		{ID: 1, Title: "Dune", Status: models.StatusFinished, Rating: 5,
			Author: &models.Author{Name: "Frank Herbert"},
			Genres: []models.Genre{{Name: "SciFi"}}},
		{ID: 2, Title: "The Hobbit", Status: models.StatusReading,
			Author: &models.Author{Name: "J.R.R. Tolkien"},
			Genres: []models.Genre{{Name: "Fantasy"}}},
		{ID: 3, Title: "Anonymous Tales", Status: models.StatusPending,
			Genres: []models.Genre{{Name: "Fantasy"}, {Name: "Short Stories"}}},
	}
}

func TestDerive(t *testing.T) {
	f := Derive(sampleBooks())

	assert.Equal(t, []string{All, models.StatusReading, models.StatusPending, models.StatusFinished}, f.Statuses)
	assert.Equal(t, []string{All, "SciFi", "Fantasy", "Short Stories"}, f.Genres)
	assert.Equal(t, []string{All, "Frank Herbert", "J.R.R. Tolkien", models.UnknownAuthor}, f.Authors)
}

func TestDeriveDeduplicates(t *testing.T) {
	books := []models.Book{
		{ID: 1, Author: &models.Author{Name: "A"}, Genres: []models.Genre{{Name: "Fantasy"}}},
		{ID: 2, Author: &models.Author{Name: "A"}, Genres: []models.Genre{{Name: "Fantasy"}}},
		// values are taken as-is: differing case is a distinct value
		{ID: 3, Author: &models.Author{Name: "a"}, Genres: []models.Genre{{Name: "fantasy"}}},
	}
	f := Derive(books)
	assert.Equal(t, []string{All, "Fantasy", "fantasy"}, f.Genres)
	assert.Equal(t, []string{All, "A", "a"}, f.Authors)
}

func TestDeriveEmptyCollection(t *testing.T) {
	f := Derive(nil)
	assert.Equal(t, []string{All}, f.Genres)
	assert.Equal(t, []string{All}, f.Authors)
}

func TestSelectionAllReturnsEverything(t *testing.T) {
	books := sampleBooks()
	got := NewSelection().Apply(books)
	assert.Equal(t, books, got)
}

func TestSelectionByGenre(t *testing.T) {
	books := []models.Book{
		{ID: 2, Genres: []models.Genre{{Name: "Fantasy"}}, Status: models.StatusPending},
	}

	included := Selection{Status: All, Genre: "Fantasy", Author: All}.Apply(books)
	require.Len(t, included, 1)
	assert.Equal(t, int64(2), included[0].ID)

	excluded := Selection{Status: All, Genre: "SciFi", Author: All}.Apply(books)
	assert.Empty(t, excluded)
}

func TestSelectionAndSemantics(t *testing.T) {
	books := sampleBooks()

	// all three predicates must hold
	sel := Selection{Status: models.StatusFinished, Genre: "SciFi", Author: "Frank Herbert"}
	got := sel.Apply(books)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	// same genre, wrong status
	sel.Status = models.StatusReading
	assert.Empty(t, sel.Apply(books))
}

func TestSelectionUnknownAuthor(t *testing.T) {
	books := sampleBooks()
	sel := Selection{Status: All, Genre: All, Author: models.UnknownAuthor}
	got := sel.Apply(books)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
}

func TestSelectionByStatus(t *testing.T) {
	books := sampleBooks()
	for status, wantID := range map[string]int64{
		models.StatusPending:  3,
		models.StatusReading:  2,
		models.StatusFinished: 1,
	} {
		sel := Selection{Status: status, Genre: All, Author: All}
		got := sel.Apply(books)
		require.Len(t, got, 1, status)
		assert.Equal(t, wantID, got[0].ID, status)
	}
}
