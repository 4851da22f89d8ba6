package compress

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// LocaleDetector guesses the page language from body text when the caller
// supplies no locale hint. Restricted to the languages the budget math
// distinguishes plus common Latin-script ones, which keeps the model small
// and the classification fast.
type LocaleDetector struct {
	det lingua.LanguageDetector
}

func NewLocaleDetector() *LocaleDetector {
	det := lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.Korean,
			lingua.Japanese,
			lingua.Chinese,
			lingua.English,
			lingua.French,
			lingua.German,
			lingua.Spanish,
		).
		WithMinimumRelativeDistance(0.25).
		Build()
	return &LocaleDetector{det: det}
}

// Detect returns a lowercase ISO 639-1 code for the sample, or "" when
// the text is too short or the detector is not confident.
func (d *LocaleDetector) Detect(sample string) string {
	sample = strings.TrimSpace(sample)
	if len(sample) < minSampleRunes {
		return ""
	}
	if r := []rune(sample); len(r) > sampleWindow {
		sample = string(r[:sampleWindow])
	}
	lang, ok := d.det.DetectLanguageOf(sample)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
