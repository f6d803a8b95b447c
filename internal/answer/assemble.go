package answer

import (
	"log/slog"
	"strings"

	"github.com/alaifari/nususai/internal/corpus"
	"github.com/alaifari/nususai/internal/llm"
)

// assembleFromDraft reconciles a model draft against the selected passages.
// Citation ids the model asserted but the selection does not contain are
// dropped; opinions left with zero citations are dropped; a draft whose
// opinions all drop is rejected entirely (second return false) and the
// caller routes to the extractive fallback. This is the no-fabrication
// invariant: no citation reaches the response unless it was retrieved.
func assembleFromDraft(logger *slog.Logger, lang string, draft *llm.Draft, selected []corpus.Passage) (Result, bool) {
	byID := passageIndex(selected)

	var opinions []Opinion
	for _, op := range draft.Opinions {
		var kept []string
		for _, cid := range op.CitationIDs {
			if _, ok := byID[cid]; ok {
				kept = appendNewIDs(kept, []string{cid})
			} else {
				// Quality signal only; over-claiming is filtered, not surfaced.
				logger.Warn("model cited passage outside selection", "citation_id", cid)
			}
		}
		if len(kept) == 0 {
			continue
		}

		title := strings.TrimSpace(op.Title)
		if title == "" {
			title = "Opinion"
		}
		opinions = append(opinions, Opinion{
			Title:       title,
			Summary:     strings.TrimSpace(op.Summary),
			CitationIDs: kept,
		})
	}

	if len(opinions) == 0 {
		return Result{}, false
	}

	var usedIDs []string
	for _, op := range opinions {
		usedIDs = appendNewIDs(usedIDs, op.CitationIDs)
	}

	answerText := strings.TrimSpace(draft.Answer)
	if answerText == "" {
		answerText = fallbackSummary(lang)
	}

	return Result{
		Answer:    answerText,
		Language:  lang,
		Opinions:  opinions,
		Citations: citationsFor(usedIDs, byID),
		Notes:     []string{},
	}, true
}

// passageIndex maps each selected passage by id.
func passageIndex(selected []corpus.Passage) map[string]corpus.Passage {
	byID := make(map[string]corpus.Passage, len(selected))
	for _, p := range selected {
		byID[p.ID] = p
	}
	return byID
}

// appendNewIDs appends ids not already present, preserving first-use order.
func appendNewIDs(ids []string, add []string) []string {
	for _, id := range add {
		seen := false
		for _, existing := range ids {
			if existing == id {
				seen = true
				break
			}
		}
		if !seen {
			ids = append(ids, id)
		}
	}
	return ids
}

// citationsFor resolves ids to passages, keeping the given order.
func citationsFor(ids []string, byID map[string]corpus.Passage) []corpus.Passage {
	citations := make([]corpus.Passage, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			citations = append(citations, p)
		}
	}
	return citations
}
