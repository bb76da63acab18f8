package ai

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// sampleRunes bounds how much of a transcript is fed to the detector
const sampleRunes = 4000

var (
	detector     lingua.LanguageDetector
	detectorOnce sync.Once
)

func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(
				lingua.English,
				lingua.Spanish,
				lingua.French,
				lingua.German,
				lingua.Portuguese,
				lingua.Italian,
				lingua.Dutch,
				lingua.Vietnamese,
			).
			WithMinimumRelativeDistance(0.1).
			Build()
	})
	return detector
}

// DetectLanguage returns the lower-case ISO 639-1 code of the dominant
// language in text, or "" when it cannot be told apart reliably.
func DetectLanguage(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if runes := []rune(text); len(runes) > sampleRunes {
		text = string(runes[:sampleRunes])
	}

	lang, ok := getDetector().DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
