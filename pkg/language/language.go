// Package language resolves a page's language. The markup's own declaration
// always wins; statistical detection over body text is only a fallback and
// never overrides what the page says about itself.
package language

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// minBodyLength guards against detecting on snippets too short to be
// statistically meaningful.
const minBodyLength = 40

var candidateLanguages = []lingua.Language{
	lingua.English, lingua.Spanish, lingua.French, lingua.German,
	lingua.Italian, lingua.Portuguese, lingua.Dutch, lingua.Russian,
	lingua.Japanese, lingua.Chinese, lingua.Korean, lingua.Arabic,
}

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// The detector model is expensive to build; it is immutable and safe to
// share across concurrent pipeline runs.
func sharedDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(candidateLanguages...).
			Build()
	})
	return detector
}

// Resolve returns the page language: the declared value when present,
// otherwise an ISO 639-1 code detected from body text. Returns "" when
// neither source yields anything.
func Resolve(declared, body string, logger *slog.Logger) string {
	if declared != "" {
		return declared
	}

	body = strings.TrimSpace(body)
	if len(body) < minBodyLength {
		logger.Debug("language omitted", "reason", "body_too_short_for_detection")
		return ""
	}

	lang, ok := sharedDetector().DetectLanguageOf(body)
	if !ok {
		logger.Debug("language omitted", "reason", "detection_inconclusive")
		return ""
	}

	code := strings.ToLower(lang.IsoCode639_1().String())
	logger.Debug("language detected", "source", "body_text", "language", code)
	return code
}
