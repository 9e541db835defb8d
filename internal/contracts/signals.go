package contracts

// Sentiment is the upstream analyzer's label for an industry
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// SignalType is the directional call derived from a sentiment
type SignalType string

const (
	SignalBullish SignalType = "bullish"
	SignalBearish SignalType = "bearish"
	SignalNeutral SignalType = "neutral"
)

// SignalTypeFor maps a sentiment to its signal type.
// Empty or unknown sentiments are neutral.
func SignalTypeFor(s Sentiment) SignalType {
	switch s {
	case SentimentPositive:
		return SignalBullish
	case SentimentNegative:
		return SignalBearish
	default:
		return SignalNeutral
	}
}

// IndustryImpact is one entry of an impact summary.
//
// Defaults for absent fields:
//
//	Sentiment      ""  → neutral
//	ImpactScore    0
//	AffectedStocks nil → no stock signals
type IndustryImpact struct {
	Industry       string    `json:"industry"`
	Sentiment      Sentiment `json:"sentiment,omitempty"`
	ImpactScore    float64   `json:"impact_score"`
	AffectedStocks []string  `json:"affected_stocks,omitempty"`
}

// ImpactSummary maps industry → impact, in analyzer emission order
type ImpactSummary []IndustryImpact

// IndustrySignal is the signal attached to one industry
type IndustrySignal struct {
	Industry      string     `json:"industry"`
	SignalType    SignalType `json:"signal_type"`
	Strength      float64    `json:"strength"` // 0.0 ~ 1.0
	Description   string     `json:"description"`
	RelatedStocks []string   `json:"related_stocks"`
}

// StockSignal is a per-ticker copy of its industry's signal
type StockSignal struct {
	Symbol     string     `json:"symbol"`
	Company    string     `json:"company"`
	SignalType SignalType `json:"signal_type"`
	Strength   float64    `json:"strength"`
	Industry   string     `json:"industry"`
}

// SignalSet is the unit persisted to the signals artifact
// ⭐ SSOT: signals 캐시 문서 구조
type SignalSet struct {
	IndustrySignals []IndustrySignal `json:"industry_signals"`
	StockSignals    []StockSignal    `json:"stock_signals"`
}

// Normalize replaces nil collections with empty ones so they encode as []
func (s *SignalSet) Normalize() {
	if s.IndustrySignals == nil {
		s.IndustrySignals = []IndustrySignal{}
	}
	if s.StockSignals == nil {
		s.StockSignals = []StockSignal{}
	}
	for i := range s.IndustrySignals {
		if s.IndustrySignals[i].RelatedStocks == nil {
			s.IndustrySignals[i].RelatedStocks = []string{}
		}
	}
}

// Empty reports whether the set carries no signals
func (s *SignalSet) Empty() bool {
	return len(s.IndustrySignals) == 0 && len(s.StockSignals) == 0
}
