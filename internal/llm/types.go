package llm

import (
	"errors"
	"fmt"

	"github.com/alaifari/nususai/internal/corpus"
)

// Reason classifies why a model call was unavailable, so callers can tell
// missing configuration from transient failure from malformed output.
type Reason string

const (
	// ReasonNoCredential means no API key is configured. This is a normal,
	// expected deployment state, not an error condition.
	ReasonNoCredential Reason = "no_credential"
	// ReasonRequestFailed covers network errors, timeouts, and non-200
	// responses from the model service.
	ReasonRequestFailed Reason = "request_failed"
	// ReasonBadResponse means the service replied but the body was empty or
	// not parseable into the expected shape.
	ReasonBadResponse Reason = "bad_response"
)

// UnavailableError signals that a model call produced no usable result.
// Callers degrade to local composition; they never retry.
type UnavailableError struct {
	Reason Reason
	Err    error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model unavailable (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("model unavailable (%s)", e.Reason)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// UnavailableReason extracts the Reason from err, or "" when err is not an
// UnavailableError.
func UnavailableReason(err error) Reason {
	var ue *UnavailableError
	if errors.As(err, &ue) {
		return ue.Reason
	}
	return ""
}

// ComposeInput carries everything the synthesis prompt needs.
type ComposeInput struct {
	Question    string
	Language    string
	Passages    []corpus.Passage
	MaxOpinions int
}

// DraftOpinion is one viewpoint grouping as asserted by the model. Citation
// ids are untrusted until validated against the selected passages.
type DraftOpinion struct {
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	CitationIDs []string `json:"citation_ids"`
}

// Draft is the structured synthesis payload returned by the model, before
// any citation validation.
type Draft struct {
	Answer   string         `json:"answer"`
	Opinions []DraftOpinion `json:"opinions"`
}
