package signals

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wonny/tickerpulse/internal/contracts"
)

// impactScale is the upper bound of the analyzer's impact score (0~10)
const impactScale = 10.0

// Derive turns an impact summary into industry and stock signals.
// ⭐ SSOT: impact → signal 변환은 여기서만
//
// Output order follows the summary order. Derive has no state and never fails.
func Derive(summary contracts.ImpactSummary) contracts.SignalSet {
	set := contracts.SignalSet{
		IndustrySignals: make([]contracts.IndustrySignal, 0, len(summary)),
		StockSignals:    make([]contracts.StockSignal, 0),
	}

	for _, impact := range summary {
		sentiment := impact.Sentiment
		if sentiment == "" {
			sentiment = contracts.SentimentNeutral
		}
		signalType := contracts.SignalTypeFor(sentiment)
		strength := Strength(impact.ImpactScore)
		industry := DisplayName(impact.Industry)

		related := make([]string, len(impact.AffectedStocks))
		copy(related, impact.AffectedStocks)

		set.IndustrySignals = append(set.IndustrySignals, contracts.IndustrySignal{
			Industry:      industry,
			SignalType:    signalType,
			Strength:      strength,
			Description:   describe(sentiment, impact.ImpactScore),
			RelatedStocks: related,
		})

		for _, symbol := range impact.AffectedStocks {
			set.StockSignals = append(set.StockSignals, contracts.StockSignal{
				Symbol:     symbol,
				Company:    symbol, // no name lookup here
				SignalType: signalType,
				Strength:   strength,
				Industry:   industry,
			})
		}
	}

	return set
}

// Strength normalizes a 0~10 impact score into [0, 1]
func Strength(impactScore float64) float64 {
	if math.IsNaN(impactScore) {
		return 0
	}
	return math.Min(1.0, math.Max(0.0, impactScore/impactScale))
}

// DisplayName title-cases an industry key ("aerospace & defense" → "Aerospace & Defense").
// Word breaks follow Unicode rules, so an apostrophe does not start a new word ("o'neil" → "O'neil").
func DisplayName(industry string) string {
	// cases.Caser is stateful, build one per call
	return cases.Title(language.Und).String(industry)
}

func describe(sentiment contracts.Sentiment, impactScore float64) string {
	return fmt.Sprintf("Detected %s sentiment with impact score %s",
		sentiment, strconv.FormatFloat(impactScore, 'f', -1, 64))
}
