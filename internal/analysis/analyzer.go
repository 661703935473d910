// File: internal/analysis/analyzer.go
// Description: Lexicon-based text analysis for complaint descriptions. Good
// enough to drive triage end to end without an external NLP service.

package analysis

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/voltride/crew-cli/api/schemas"
)

const maxKeywords = 8

var positiveWords = map[string]struct{}{
	"good": {}, "great": {}, "helpful": {}, "thanks": {}, "thank": {},
	"resolved": {}, "fast": {}, "friendly": {}, "appreciate": {}, "works": {},
}

var negativeWords = map[string]struct{}{
	"broken": {}, "bad": {}, "terrible": {}, "angry": {}, "refund": {},
	"late": {}, "slow": {}, "unacceptable": {}, "failed": {}, "dead": {},
	"stuck": {}, "overcharged": {}, "dangerous": {}, "unsafe": {}, "never": {},
}

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "that": {}, "this": {}, "with": {}, "from": {},
	"have": {}, "been": {}, "was": {}, "were": {}, "for": {}, "not": {},
	"but": {}, "are": {}, "you": {}, "your": {}, "very": {}, "when": {},
	"what": {}, "just": {}, "they": {}, "them": {}, "then": {}, "there": {},
}

// Analyzer derives a sentiment label and keyword list from free text using
// fixed word lists. It implements schemas.Analyzer.
type Analyzer struct {
	log *zap.Logger
}

func New(logger *zap.Logger) *Analyzer {
	return &Analyzer{log: logger.Named("analysis")}
}

// Analyze tokenizes the text, scores sentiment by counting lexicon hits, and
// extracts up to maxKeywords distinct non-stopword terms in order of first
// appearance.
func (a *Analyzer) Analyze(ctx context.Context, text string) (schemas.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return schemas.Analysis{}, err
	}

	tokens := tokenize(text)

	var score int
	for _, tok := range tokens {
		if _, ok := positiveWords[tok]; ok {
			score++
		}
		if _, ok := negativeWords[tok]; ok {
			score--
		}
	}
	sentiment := "neutral"
	switch {
	case score > 0:
		sentiment = "positive"
	case score < 0:
		sentiment = "negative"
	}

	seen := make(map[string]struct{}, len(tokens))
	var keywords []string
	for _, tok := range tokens {
		if len(tok) <= 3 {
			continue
		}
		if _, ok := stopwords[tok]; ok {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
		if len(keywords) == maxKeywords {
			break
		}
	}

	a.log.Debug("Text analyzed", zap.String("sentiment", sentiment), zap.Int("keyword_count", len(keywords)))
	return schemas.Analysis{Sentiment: sentiment, Keywords: keywords}, nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
}
