package lang

import (
	"strings"

	"github.com/pemistahl/lingua-go"
	"github.com/xhad/memogen/internal/models"
)

// Detector classifies raw text as Dutch or English. Detection failures
// (empty input, text too short or too ambiguous to place) fall back to
// English; no other language is ever returned.
type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.Dutch, lingua.English).
			Build(),
	}
}

func (d *Detector) Detect(text string) models.Language {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.LanguageEnglish
	}

	language, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return models.LanguageEnglish
	}

	if language == lingua.Dutch {
		return models.LanguageDutch
	}
	return models.LanguageEnglish
}
