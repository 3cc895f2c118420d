// Package sentiment scores free text against fixed positive and negative
// lexicons.
package sentiment

import (
	"math/rand/v2"
	"strings"
)

type Label string

const (
	Positive Label = "Positive"
	Neutral  Label = "Neutral"
	Negative Label = "Negative"
)

const (
	MinConfidence = 70
	MaxConfidence = 99
)

var positiveWords = map[string]bool{
	"good": true, "great": true, "excellent": true, "amazing": true,
	"happy": true, "love": true, "best": true,
}

var negativeWords = map[string]bool{
	"bad": true, "terrible": true, "worst": true, "hate": true,
	"sad": true, "angry": true, "poor": true,
}

// Result is the outcome of scoring one text.
type Result struct {
	Sentiment        Label    `json:"sentiment"`
	ConfidenceScore  int      `json:"confidence_score"`
	DetectedKeywords []string `json:"detected_keywords"`
}

// IntSource draws integers in [0, n). *rand.Rand satisfies it.
type IntSource interface {
	IntN(n int) int
}

// globalSource uses the auto-seeded top-level generator, which is safe for
// concurrent use.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Analyzer is stateless apart from its random source; with the default source
// it can be shared across goroutines.
type Analyzer struct {
	rnd IntSource
}

// NewAnalyzer returns an Analyzer drawing confidence from src, or from the
// global generator when src is nil. A non-nil src must be safe for the
// concurrency it is used with.
func NewAnalyzer(src IntSource) *Analyzer {
	if src == nil {
		src = globalSource{}
	}
	return &Analyzer{rnd: src}
}

// Analyze never fails. Text without lexicon hits is Neutral with no keywords.
func (a *Analyzer) Analyze(text string) Result {
	score := 0
	keywords := []string{}
	seen := make(map[string]bool)

	for _, word := range strings.Fields(strings.ToLower(text)) {
		switch {
		case positiveWords[word]:
			score++
		case negativeWords[word]:
			score--
		default:
			continue
		}
		if !seen[word] {
			seen[word] = true
			keywords = append(keywords, word)
		}
	}

	return Result{
		Sentiment:        labelFor(score),
		ConfidenceScore:  MinConfidence + a.rnd.IntN(MaxConfidence-MinConfidence+1),
		DetectedKeywords: keywords,
	}
}

func labelFor(score int) Label {
	switch {
	case score > 0:
		return Positive
	case score < 0:
		return Negative
	default:
		return Neutral
	}
}

// IsValid reports whether l is one of the three known labels.
func (l Label) IsValid() bool {
	return l == Positive || l == Neutral || l == Negative
}
