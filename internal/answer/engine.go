package answer

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_model.go -package=mocks github.com/alaifari/nususai/internal/answer ModelClient

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alaifari/nususai/internal/contextutil"
	"github.com/alaifari/nususai/internal/corpus"
	"github.com/alaifari/nususai/internal/llm"
)

// Advisory note texts carried in Result.Notes.
const (
	noteNoMatches    = "No matching passages found in current local index."
	noteFallbackMode = "Model unavailable; using extractive fallback mode."
)

// PassageSearcher executes ranked full-text search against the corpus.
// *corpus.Store implements it.
type PassageSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]corpus.Passage, error)
}

// ModelClient is the narrow external-model surface the pipeline consumes:
// query translation into the corpus language and structured answer
// composition. Both operations fail with *llm.UnavailableError rather than
// panicking or retrying. This interface is defined from the engine's
// perspective (consumer-first).
type ModelClient interface {
	Translate(ctx context.Context, text string) (string, error)
	Compose(ctx context.Context, in llm.ComposeInput) (*llm.Draft, error)
}

// Options are the process-wide pipeline defaults, built once from config.
type Options struct {
	// DefaultTopK is the selected-set size when the request does not set one.
	DefaultTopK int
	// DefaultMaxOpinions bounds opinion groupings when the request does not
	// set one.
	DefaultMaxOpinions int
	// MaxCandidates is the retrieval limit before diversity selection.
	MaxCandidates int
}

func (o Options) withDefaults() Options {
	if o.DefaultTopK <= 0 {
		o.DefaultTopK = 12
	}
	if o.DefaultMaxOpinions <= 0 {
		o.DefaultMaxOpinions = 4
	}
	if o.MaxCandidates <= 0 {
		o.MaxCandidates = 30
	}
	return o
}

// Engine runs the retrieval-and-synthesis pipeline for one question at a
// time: detect language, optionally translate the query, retrieve
// candidates, select a source-diverse subset, attempt model synthesis, and
// fall back to extractive composition whenever the model is absent or its
// output fails validation. Stateless across requests; safe for concurrent
// use.
type Engine struct {
	store PassageSearcher
	model ModelClient // nil when no credential is configured
	opts  Options
}

// NewEngine creates an Engine. model may be nil; the engine then always
// composes answers extractively.
func NewEngine(store PassageSearcher, model ModelClient, opts Options) *Engine {
	return &Engine{
		store: store,
		model: model,
		opts:  opts.withDefaults(),
	}
}

// Answer runs the full pipeline for one question.
//
// Errors are limited to invalid input (ErrInvalidQuestion) and a failed
// retrieval (wrapping corpus.ErrStoreUnavailable); every model failure
// degrades to a citation-safe local answer instead.
func (e *Engine) Answer(ctx context.Context, req Request) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return Result{}, fmt.Errorf("%w: question is empty", ErrInvalidQuestion)
	}
	if utf8.RuneCountInString(question) > MaxQuestionRunes {
		return Result{}, fmt.Errorf("%w: question exceeds %d characters", ErrInvalidQuestion, MaxQuestionRunes)
	}

	topK := clamp(req.TopK, e.opts.DefaultTopK, MinTopK, MaxTopK)
	maxOpinions := clamp(req.MaxOpinions, e.opts.DefaultMaxOpinions, MinMaxOpinions, MaxMaxOpinions)

	lang := DetectLanguage(question)
	logger.Info("answer pipeline started", "language", lang, "top_k", topK, "max_opinions", maxOpinions)

	searchQuery := question
	if lang != LanguageArabic && e.model != nil {
		translated, err := e.model.Translate(ctx, question)
		if err != nil {
			// Best-effort step: search proceeds on the original text with
			// degraded recall.
			logger.Warn("query translation unavailable", "reason", llm.UnavailableReason(err), "error", err)
		} else {
			searchQuery = translated
		}
	}

	limit := e.opts.MaxCandidates
	if topK > limit {
		limit = topK
	}
	candidates, err := e.store.Search(ctx, searchQuery, limit)
	if err != nil {
		return Result{}, fmt.Errorf("retrieving passages: %w", err)
	}

	selected := corpus.SelectDiverse(candidates, topK, corpus.DefaultMaxPerSource)
	logger.Info("passages selected", "candidates", len(candidates), "selected", len(selected))

	if len(selected) == 0 {
		return noMatchResult(lang), nil
	}

	if e.model != nil {
		draft, err := e.model.Compose(ctx, llm.ComposeInput{
			Question:    question,
			Language:    lang,
			Passages:    selected,
			MaxOpinions: maxOpinions,
		})
		if err != nil {
			logger.Warn("model synthesis unavailable", "reason", llm.UnavailableReason(err), "error", err)
		} else if result, ok := assembleFromDraft(logger, lang, draft, selected); ok {
			logger.Info("model synthesis accepted", "opinions", len(result.Opinions), "citations", len(result.Citations))
			return result, nil
		} else {
			logger.Warn("model synthesis rejected, no opinion survived citation filtering")
		}
	}

	result := fallbackResult(lang, selected, maxOpinions)
	result.Notes = append(result.Notes, noteFallbackMode)
	logger.Info("extractive fallback used", "opinions", len(result.Opinions))
	return result, nil
}

// clamp applies the default for a zero value, then bounds the result.
func clamp(v, def, min, max int) int {
	if v == 0 {
		v = def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
