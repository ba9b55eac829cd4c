package models

// Status values a book moves through. See internal/lifecycle for the
// transition rules.
const (
	StatusPending  = "PENDING"
	StatusReading  = "READING"
	StatusFinished = "FINISHED"
)

// UnknownAuthor is the display label substituted when a book has no author.
const UnknownAuthor = "Unknown"

// Author is a value, not an entity: it has no lifecycle of its own and is
// compared by display name only.
type Author struct {
	Name string `json:"name"`
}

// Genre is a label attached to a book. The server preserves display order;
// the client deduplicates by name when deriving facets.
type Genre struct {
	Name string `json:"name"`
}

// SagaRef is the weak back-reference a book holds to its saga. The saga owns
// the forward association list; this copy exists for display and navigation.
type SagaRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Book is the client's view of a catalogued book. Optional scalar fields are
// pointers so a full-entity PUT round-trips absent values as null instead of
// zero values the server would persist.
type Book struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Author      *Author  `json:"author,omitempty"`
	Status      string   `json:"status"`
	Rating      int      `json:"rating"`
	CoverURL    *string  `json:"coverUrl,omitempty"`
	Genres      []Genre  `json:"genres"`
	Saga        *SagaRef `json:"saga,omitempty"`
	IndexInSaga *int     `json:"indexInSaga,omitempty"`
	StartDate   *string  `json:"startDate,omitempty"`
	EndDate     *string  `json:"endDate,omitempty"`
}

// AuthorName returns the display name used for facets and filtering,
// substituting UnknownAuthor when the book has none.
func (b *Book) AuthorName() string {
	if b.Author == nil || b.Author.Name == "" {
		return UnknownAuthor
	}
	return b.Author.Name
}

// HasGenre reports whether the book carries a genre with the given name.
// Comparison is exact: no case folding or trimming.
func (b *Book) HasGenre(name string) bool {
	for _, g := range b.Genres {
		if g.Name == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can build replacement bodies without
// mutating the cached entity.
func (b *Book) Clone() *Book {
	if b == nil {
		return nil
	}
	out := *b
	if b.Author != nil {
		a := *b.Author
		out.Author = &a
	}
	if b.CoverURL != nil {
		u := *b.CoverURL
		out.CoverURL = &u
	}
	if b.Saga != nil {
		s := *b.Saga
		out.Saga = &s
	}
	if b.IndexInSaga != nil {
		i := *b.IndexInSaga
		out.IndexInSaga = &i
	}
	if b.StartDate != nil {
		d := *b.StartDate
		out.StartDate = &d
	}
	if b.EndDate != nil {
		d := *b.EndDate
		out.EndDate = &d
	}
	if b.Genres != nil {
		out.Genres = make([]Genre, len(b.Genres))
		copy(out.Genres, b.Genres)
	}
	return &out
}
