package models

// SagaSummary is the list-endpoint representation of a saga, without the
// embedded book list.
type SagaSummary struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	CoverURL *string `json:"coverUrl,omitempty"`
}

// Saga is the detail representation. Books is the authoritative forward
// reference for saga membership; each Book's Saga field is only a
// back-reference copy of it.
type Saga struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	CoverURL *string `json:"coverUrl,omitempty"`
	Books    []Book  `json:"books"`
}

// Summary projects the detail down to its list representation.
func (s *Saga) Summary() SagaSummary {
	return SagaSummary{ID: s.ID, Name: s.Name, CoverURL: s.CoverURL}
}

// ContainsBook reports whether the saga's book list has an entry with the
// given id.
func (s *Saga) ContainsBook(id int64) bool {
	for i := range s.Books {
		if s.Books[i].ID == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the saga detail.
func (s *Saga) Clone() *Saga {
	if s == nil {
		return nil
	}
	out := *s
	if s.CoverURL != nil {
		u := *s.CoverURL
		out.CoverURL = &u
	}
	if s.Books != nil {
		out.Books = make([]Book, len(s.Books))
		for i := range s.Books {
			out.Books[i] = *s.Books[i].Clone()
		}
	}
	return &out
}
