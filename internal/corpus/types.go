package corpus

// Passage is one retrievable unit of source text with its citation metadata.
// Passages are immutable once returned from a search; callers must not mutate
// them across requests.
type Passage struct {
	// ID is the stable passage identifier, unique within the corpus.
	ID string `json:"id"`
	// BookTitle is the Arabic title of the source book.
	BookTitle string `json:"book_title_ar"`
	// Author is the Arabic author name.
	Author string `json:"author_ar"`
	// SourceRef is the human-readable citation string (book, volume, page).
	SourceRef string `json:"source_ref_ar"`
	// Volume is the volume number, if known.
	Volume string `json:"volume,omitempty"`
	// Page is the page number, if known.
	Page string `json:"page,omitempty"`
	// Snippet is the passage text truncated to SnippetMaxRunes runes.
	Snippet string `json:"snippet_ar"`
	// Score is the bm25 relevance score. Lower is better; results are
	// ordered ascending.
	Score float64 `json:"score"`
}

// SourceKey identifies the source a passage came from. Two passages share a
// source when both book title and author match.
func (p Passage) SourceKey() string {
	return p.BookTitle + "|" + p.Author
}
