package answer

import (
	"fmt"
	"strings"

	"github.com/alaifari/nususai/internal/corpus"
)

// fallbackQuoteMaxRunes bounds the snippet quote in a fallback opinion.
const fallbackQuoteMaxRunes = 260

// fallbackResult composes a deterministic, model-free answer from the
// selected passages. Passages are grouped by source in first-appearance
// order; each group (up to maxOpinions) becomes one opinion titled with the
// source, summarized by quoting the group's first passage, and cited by the
// group's first two passage ids. Always succeeds.
func fallbackResult(lang string, selected []corpus.Passage, maxOpinions int) Result {
	var (
		groupKeys []string
		groups    = make(map[string][]corpus.Passage)
	)
	for _, p := range selected {
		key := fmt.Sprintf("%s - %s", p.BookTitle, p.Author)
		if _, seen := groups[key]; !seen {
			groupKeys = append(groupKeys, key)
		}
		groups[key] = append(groups[key], p)
	}

	byID := passageIndex(selected)

	opinions := make([]Opinion, 0, maxOpinions)
	var usedIDs []string
	for _, key := range groupKeys {
		if len(opinions) >= maxOpinions {
			break
		}
		items := groups[key]

		quote := collapseWhitespace(items[0].Snippet)
		quote = truncateRunes(quote, fallbackQuoteMaxRunes)

		citationIDs := make([]string, 0, 2)
		for _, p := range items {
			citationIDs = append(citationIDs, p.ID)
			if len(citationIDs) == 2 {
				break
			}
		}

		opinions = append(opinions, Opinion{
			Title:       key,
			Summary:     fallbackOpinionText(lang, quote),
			CitationIDs: citationIDs,
		})
		usedIDs = appendNewIDs(usedIDs, citationIDs)
	}

	return Result{
		Answer:    fallbackSummary(lang),
		Language:  lang,
		Opinions:  opinions,
		Citations: citationsFor(usedIDs, byID),
		Notes:     []string{},
	}
}

// noMatchResult is the terminal response when retrieval found nothing
// usable. Not an error state.
func noMatchResult(lang string) Result {
	return Result{
		Answer:    noMatchAnswer(lang),
		Language:  lang,
		Opinions:  []Opinion{},
		Citations: []corpus.Passage{},
		Notes:     []string{noteNoMatches},
	}
}

// fallbackSummary is the templated top-level answer sentence. Arabic gets a
// native template; everything else falls back to English.
func fallbackSummary(lang string) string {
	if lang == LanguageArabic {
		return "فيما يلي خلاصة مبنية على نصوص من المكتبة المحلية مع عرض آراء متعددة وتوثيق كل رأي بمصدره."
	}
	return "Below is a source-grounded summary from primary texts, with multiple viewpoints and explicit citations."
}

func fallbackOpinionText(lang, quote string) string {
	if lang == LanguageArabic {
		return "يركز هذا المصدر على: " + quote
	}
	return "This source emphasizes: " + quote
}

func noMatchAnswer(lang string) string {
	if lang == LanguageArabic {
		return "لم أجد نتائج كافية في الفهرس الحالي. يرجى تجربة صياغة أخرى أو توسيع بيانات المصادر المستوردة."
	}
	return "No sufficient matches were found in the current local index. Try rephrasing or importing more source data."
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
