package answer

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// Language codes used by the pipeline.
const (
	// LanguageArabic is the corpus indexing language.
	LanguageArabic = "ar"
	// LanguageUndetermined is returned when classification fails; detection
	// never errors.
	LanguageUndetermined = "und"
)

// detectorLanguages is the closed set the classifier chooses from. A closed
// set keeps short questions from drifting into exotic matches.
var detectorLanguages = []lingua.Language{
	lingua.Arabic,
	lingua.English,
	lingua.French,
	lingua.German,
	lingua.Indonesian,
	lingua.Persian,
	lingua.Russian,
	lingua.Spanish,
	lingua.Turkish,
	lingua.Urdu,
}

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

func languageDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(detectorLanguages...).
			Build()
	})
	return detector
}

// DetectLanguage classifies the question's language and returns a lowercase
// ISO 639-1 code, or LanguageUndetermined when the input is too short or
// ambiguous to classify. Deterministic for identical input; never errors.
func DetectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return LanguageUndetermined
	}
	lang, ok := languageDetector().DetectLanguageOf(text)
	if !ok {
		return LanguageUndetermined
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
