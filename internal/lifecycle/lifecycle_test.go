package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookden/internal/models"
)

func strPtr(s string) *string { return &s }

func TestStartReading(t *testing.T) {
	t.Run("PendingBecomesReading", func(t *testing.T) {
		cover := "http://example.com/c.jpg"
		book := &models.Book{
			ID:       1,
			Title:    "Dune",
			Status:   models.StatusPending,
			CoverURL: &cover,
			Genres:   []models.Genre{{Name: "SciFi"}},
			Saga:     &models.SagaRef{ID: 7, Name: "Dune Saga"},
		}

		out, err := StartReading(book, "2026-08-31")
		require.NoError(t, err)

		assert.Equal(t, models.StatusReading, out.Status)
		require.NotNil(t, out.StartDate)
		assert.Equal(t, "2026-08-31", *out.StartDate)
		assert.Nil(t, out.EndDate)

		// everything else carried over from the fetched snapshot
		assert.Equal(t, book.Title, out.Title)
		assert.Equal(t, book.Genres, out.Genres)
		assert.Equal(t, book.Saga.ID, out.Saga.ID)
		assert.Equal(t, cover, *out.CoverURL)

		// input untouched
		assert.Equal(t, models.StatusPending, book.Status)
		assert.Nil(t, book.StartDate)
	})

	t.Run("RejectsNonPending", func(t *testing.T) {
		for _, status := range []string{models.StatusReading, models.StatusFinished} {
			book := &models.Book{ID: 1, Title: "Dune", Status: status}
			_, err := StartReading(book, "2026-08-31")
			assert.ErrorIs(t, err, ErrNotPending, status)
		}
	})
}

func TestFinishReading(t *testing.T) {
	t.Run("ReadingBecomesFinished", func(t *testing.T) {
		book := &models.Book{
			ID:        1,
			Title:     "Dune",
			Status:    models.StatusReading,
			StartDate: strPtr("2026-08-01"),
		}

		out, err := FinishReading(book, 4, "2026-08-31")
		require.NoError(t, err)

		assert.Equal(t, models.StatusFinished, out.Status)
		assert.Equal(t, 4, out.Rating)
		require.NotNil(t, out.EndDate)
		assert.Equal(t, "2026-08-31", *out.EndDate)
		assert.Equal(t, "2026-08-01", *out.StartDate)
	})

	t.Run("RejectsNonReading", func(t *testing.T) {
		book := &models.Book{ID: 1, Title: "Dune", Status: models.StatusPending}
		_, err := FinishReading(book, 4, "2026-08-31")
		assert.ErrorIs(t, err, ErrNotReading)
	})

	t.Run("RejectsBadRating", func(t *testing.T) {
		book := &models.Book{ID: 1, Title: "Dune", Status: models.StatusReading}
		for _, rating := range []int{0, -1, 6} {
			_, err := FinishReading(book, rating, "2026-08-31")
			assert.ErrorIs(t, err, ErrBadRating, rating)
			// aborted with no side effect
			assert.Equal(t, models.StatusReading, book.Status)
		}
	})
}

func TestFullLifecycleScenario(t *testing.T) {
	book := &models.Book{ID: 1, Title: "Dune", Status: models.StatusPending}

	reading, err := StartReading(book, "2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, models.StatusReading, reading.Status)
	assert.Equal(t, "2026-08-30", *reading.StartDate)

	finished, err := FinishReading(reading, 4, "2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinished, finished.Status)
	assert.Equal(t, 4, finished.Rating)
	assert.Equal(t, "2026-08-31", *finished.EndDate)
	require.NoError(t, Validate(finished))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		book    models.Book
		wantErr error
	}{
		{
			name: "valid finished book",
			book: models.Book{Title: "A", Status: models.StatusFinished, Rating: 5,
				StartDate: strPtr("2026-01-01"), EndDate: strPtr("2026-02-01")},
		},
		{
			name: "same day read",
			book: models.Book{Title: "A", Status: models.StatusFinished, Rating: 1,
				StartDate: strPtr("2026-01-01"), EndDate: strPtr("2026-01-01")},
		},
		{
			name: "unrated finished book",
			book: models.Book{Title: "A", Status: models.StatusFinished,
				StartDate: strPtr("2026-01-01"), EndDate: strPtr("2026-02-01")},
		},
		{
			name:    "end before start",
			book:    models.Book{Title: "A", Status: models.StatusFinished, StartDate: strPtr("2026-02-01"), EndDate: strPtr("2026-01-01")},
			wantErr: ErrDateOrder,
		},
		{
			name:    "end without start",
			book:    models.Book{Title: "A", Status: models.StatusFinished, EndDate: strPtr("2026-01-01")},
			wantErr: ErrEndWithout,
		},
		{
			name:    "rating out of range",
			book:    models.Book{Title: "A", Status: models.StatusPending, Rating: 6},
			wantErr: ErrRatingRange,
		},
		{
			name:    "unknown status",
			book:    models.Book{Title: "A", Status: "ABANDONED"},
			wantErr: ErrBadStatus,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.book)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(models.StatusPending))
	assert.True(t, ValidStatus(models.StatusReading))
	assert.True(t, ValidStatus(models.StatusFinished))
	assert.False(t, ValidStatus("reading"))
	assert.False(t, ValidStatus(""))
}
