package analysis

import (
	"context"
	"strings"
	"unicode"

	"github.com/wonny/tickerpulse/internal/contracts"
)

const maxImpactScore = 10

// KeywordAnalyzer scores industries by keyword mentions across posts.
// Industries never mentioned are omitted.
type KeywordAnalyzer struct {
	industries []compiledIndustry
	positive   map[string]bool
	negative   map[string]bool
}

type compiledIndustry struct {
	name     string
	keywords map[string]bool
	tickers  []string
}

// NewKeywordAnalyzer compiles a lexicon into an analyzer
func NewKeywordAnalyzer(lex *Lexicon) *KeywordAnalyzer {
	a := &KeywordAnalyzer{
		positive: wordSet(lex.Positive),
		negative: wordSet(lex.Negative),
	}
	for _, ind := range lex.Industries {
		a.industries = append(a.industries, compiledIndustry{
			name:     strings.TrimSpace(ind.Name),
			keywords: wordSet(ind.Keywords),
			tickers:  append([]string(nil), ind.Tickers...),
		})
	}
	return a
}

// Analyze returns one impact per mentioned industry, in lexicon order.
//
//	impact_score = min(10, 2·mentions + |positive − negative|)
func (a *KeywordAnalyzer) Analyze(ctx context.Context, posts []contracts.Post) (contracts.ImpactSummary, error) {
	tokenized := make([][]string, len(posts))
	for i, p := range posts {
		tokenized[i] = tokenize(p.Content)
	}

	summary := contracts.ImpactSummary{}
	for _, ind := range a.industries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		mentions, net := 0, 0
		for _, words := range tokenized {
			if !ind.mentionedIn(words) {
				continue
			}
			mentions++
			for _, w := range words {
				switch {
				case a.positive[w]:
					net++
				case a.negative[w]:
					net--
				}
			}
		}
		if mentions == 0 {
			continue
		}

		summary = append(summary, contracts.IndustryImpact{
			Industry:       ind.name,
			Sentiment:      sentimentOf(net),
			ImpactScore:    impactScore(mentions, net),
			AffectedStocks: append([]string(nil), ind.tickers...),
		})
	}
	return summary, nil
}

func (c compiledIndustry) mentionedIn(words []string) bool {
	for _, w := range words {
		if c.keywords[w] {
			return true
		}
	}
	return false
}

func sentimentOf(net int) contracts.Sentiment {
	switch {
	case net > 0:
		return contracts.SentimentPositive
	case net < 0:
		return contracts.SentimentNegative
	default:
		return contracts.SentimentNeutral
	}
}

func impactScore(mentions, net int) float64 {
	if net < 0 {
		net = -net
	}
	score := 2*mentions + net
	if score > maxImpactScore {
		score = maxImpactScore
	}
	return float64(score)
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func wordSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			set[w] = true
		}
	}
	return set
}

// NullAnalyzer always returns an empty summary
type NullAnalyzer struct{}

func (NullAnalyzer) Analyze(context.Context, []contracts.Post) (contracts.ImpactSummary, error) {
	return contracts.ImpactSummary{}, nil
}
