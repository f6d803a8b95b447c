package answer

import (
	"errors"

	"github.com/alaifari/nususai/internal/corpus"
)

// Question bounds, shared with the HTTP layer.
const (
	MaxQuestionRunes = 6000
	MinTopK          = 3
	MaxTopK          = 30
	MinMaxOpinions   = 2
	MaxMaxOpinions   = 8
)

// ErrInvalidQuestion is returned for an empty or oversized question. The
// pipeline never runs for such input.
var ErrInvalidQuestion = errors.New("invalid question")

// Request is one question with optional per-request overrides. Zero values
// for TopK and MaxOpinions take the engine defaults.
type Request struct {
	Question    string
	TopK        int
	MaxOpinions int
}

// Opinion is one distinct viewpoint in the final answer, backed by citation
// ids that are guaranteed to reference retrieved passages.
type Opinion struct {
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	CitationIDs []string `json:"citation_ids"`
}

// Result is the assembled answer payload. Citations are exactly the
// passages referenced by the emitted opinions, deduplicated in first-use
// order; never the full selected set and never a fabricated id.
type Result struct {
	Answer    string           `json:"answer"`
	Language  string           `json:"language"`
	Opinions  []Opinion        `json:"opinions"`
	Citations []corpus.Passage `json:"citations"`
	Notes     []string         `json:"notes"`
}
