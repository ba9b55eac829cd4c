package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"bookden/internal/models"
)

// DateLayout is the calendar-date wire format for start and end dates.
const DateLayout = "2006-01-02"

var (
	ErrNotPending  = errors.New("book is not pending")
	ErrNotReading  = errors.New("book is not being read")
	ErrBadRating   = errors.New("rating must be between 1 and 5")
	ErrBadStatus   = errors.New("unknown status")
	ErrDateOrder   = errors.New("end date precedes start date")
	ErrEndWithout  = errors.New("end date set without start date")
	ErrRatingRange = errors.New("rating out of range")
)

// Statuses lists the valid states in display order.
func Statuses() []string {
	return []string{models.StatusPending, models.StatusReading, models.StatusFinished}
}

// ValidStatus reports whether s is one of the three known states.
func ValidStatus(s string) bool {
	switch s {
	case models.StatusPending, models.StatusReading, models.StatusFinished:
		return true
	}
	return false
}

// Today returns the client-local calendar date in wire format.
func Today() string {
	return time.Now().Format(DateLayout)
}

// StartReading merges the start-reading transition into a copy of the given
// book: PENDING -> READING with StartDate = today. Every other field is kept
// from the input, which callers must have fetched immediately beforehand so
// the full-entity PUT does not clobber server-side state.
func StartReading(book *models.Book, today string) (*models.Book, error) {
	if book.Status != models.StatusPending {
		return nil, fmt.Errorf("%w: status is %s", ErrNotPending, book.Status)
	}
	out := book.Clone()
	out.Status = models.StatusReading
	out.StartDate = &today
	return out, nil
}

// FinishReading merges the finish-reading transition into a copy of the given
// book: READING -> FINISHED with EndDate = today and the chosen rating. A
// rating outside 1..5 aborts the transition with no side effect.
func FinishReading(book *models.Book, rating int, today string) (*models.Book, error) {
	if book.Status != models.StatusReading {
		return nil, fmt.Errorf("%w: status is %s", ErrNotReading, book.Status)
	}
	if rating < 1 || rating > 5 {
		return nil, ErrBadRating
	}
	out := book.Clone()
	out.Status = models.StatusFinished
	out.EndDate = &today
	out.Rating = rating
	return out, nil
}

// Validate checks the date and rating invariants on a book, typically before
// submitting a manual edit. Manual edits may set any status combination
// (there is deliberately no one-click path backward from FINISHED), but the
// dates must still be coherent.
func Validate(book *models.Book) error {
	if !ValidStatus(book.Status) {
		return fmt.Errorf("%w: %q", ErrBadStatus, book.Status)
	}
	if book.Rating < 0 || book.Rating > 5 {
		return ErrRatingRange
	}
	start, err := parseDate(book.StartDate)
	if err != nil {
		return fmt.Errorf("start date: %w", err)
	}
	end, err := parseDate(book.EndDate)
	if err != nil {
		return fmt.Errorf("end date: %w", err)
	}
	if end != nil {
		if start == nil {
			return ErrEndWithout
		}
		if end.Before(*start) {
			return ErrDateOrder
		}
	}
	return nil
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
