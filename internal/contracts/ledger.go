package contracts

// DayLayout is the calendar-day format used by the historical ledger
const DayLayout = "2006-01-02"

// HistoricalDayRecord is one day of signal accuracy
type HistoricalDayRecord struct {
	Date            string  `json:"date"` // YYYY-MM-DD
	BullishAccuracy float64 `json:"bullish_accuracy"`
	BearishAccuracy float64 `json:"bearish_accuracy"`
	TotalSignals    int     `json:"total_signals"`
}

// AccuracyStats is the weighted aggregate over all day records
type AccuracyStats struct {
	OverallAccuracy float64 `json:"overall_accuracy"`
	BullishAccuracy float64 `json:"bullish_accuracy"`
	BearishAccuracy float64 `json:"bearish_accuracy"`
	TotalSignals    int     `json:"total_signals"`
}

// HistoricalLedger is the unit persisted to the historical artifact
// ⭐ SSOT: historical 캐시 문서 구조
type HistoricalLedger struct {
	Data          []HistoricalDayRecord `json:"data"`
	AccuracyStats AccuracyStats         `json:"accuracy_stats"`
}
