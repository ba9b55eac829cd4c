package facets

import "bookden/internal/models"

// All is the wildcard value for every facet.
const All = "ALL"

// Facets are the selectable filter dimensions derived from the current book
// list. Each slice starts with the All wildcard followed by distinct values
// in first-encounter order. Values are compared as-is: no case folding or
// whitespace normalization, matching what the server sent.
type Facets struct {
	Statuses []string
	Genres   []string
	Authors  []string
}

// Derive recomputes the facet sets from scratch. Collections are
// personal-library sized, so there is no incremental maintenance.
func Derive(books []models.Book) Facets {
	f := Facets{
		Statuses: append([]string{All}, models.StatusReading, models.StatusPending, models.StatusFinished),
		Genres:   []string{All},
		Authors:  []string{All},
	}
	seenGenre := make(map[string]struct{})
	seenAuthor := make(map[string]struct{})
	for i := range books {
		for _, g := range books[i].Genres {
			if _, ok := seenGenre[g.Name]; ok {
				continue
			}
			seenGenre[g.Name] = struct{}{}
			f.Genres = append(f.Genres, g.Name)
		}
		name := books[i].AuthorName()
		if _, ok := seenAuthor[name]; !ok {
			seenAuthor[name] = struct{}{}
			f.Authors = append(f.Authors, name)
		}
	}
	return f
}

// Selection is the active filter: one value per facet, ANDed together.
// Facets are single-select; choosing a value replaces the previous one.
type Selection struct {
	Status string
	Genre  string
	Author string
}

// NewSelection returns the all-wildcard selection.
func NewSelection() Selection {
	return Selection{Status: All, Genre: All, Author: All}
}

// Matches evaluates the combined predicate for one book.
func (sel Selection) Matches(book *models.Book) bool {
	if sel.Status != All && book.Status != sel.Status {
		return false
	}
	if sel.Genre != All && !book.HasGenre(sel.Genre) {
		return false
	}
	if sel.Author != All && book.AuthorName() != sel.Author {
		return false
	}
	return true
}

// Apply returns the books matching the selection, preserving order.
func (sel Selection) Apply(books []models.Book) []models.Book {
	out := make([]models.Book, 0, len(books))
	for i := range books {
		if sel.Matches(&books[i]) {
			out = append(out, books[i])
		}
	}
	return out
}
