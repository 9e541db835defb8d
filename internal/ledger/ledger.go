package ledger

import (
	"math/rand"
	"time"

	"github.com/wonny/tickerpulse/internal/contracts"
)

const (
	// SampleDays is the length of the synthesized sample ledger
	SampleDays = 30

	// SampleSeed keeps sample synthesis reproducible
	SampleSeed int64 = 42

	minDailySignals = 5
	maxDailySignals = 20
)

// SynthesizeSample builds a deterministic ledger of `days` consecutive
// calendar days ending the day before now.
// ⭐ SSOT: 샘플 historical 데이터 생성은 여기서만
func SynthesizeSample(now time.Time, days int, seed int64) contracts.HistoricalLedger {
	rng := rand.New(rand.NewSource(seed))

	data := make([]contracts.HistoricalDayRecord, 0, days)
	for i := days; i >= 1; i-- {
		day := now.AddDate(0, 0, -i)

		// 0.5 + uniform(-0.2, 0.4) → [0.3, 0.9)
		bullish := 0.5 + uniform(rng, -0.2, 0.4)
		bearish := 0.5 + uniform(rng, -0.2, 0.4)
		total := minDailySignals + rng.Intn(maxDailySignals-minDailySignals+1)

		data = append(data, contracts.HistoricalDayRecord{
			Date:            day.Format(contracts.DayLayout),
			BullishAccuracy: bullish,
			BearishAccuracy: bearish,
			TotalSignals:    total,
		})
	}

	return contracts.HistoricalLedger{
		Data:          data,
		AccuracyStats: Aggregate(data),
	}
}

// Aggregate computes signal-weighted accuracy over the records.
// All values are zero when no signals were recorded.
func Aggregate(records []contracts.HistoricalDayRecord) contracts.AccuracyStats {
	var bullish, bearish float64
	var total int

	for _, r := range records {
		n := float64(r.TotalSignals)
		bullish += r.BullishAccuracy * n
		bearish += r.BearishAccuracy * n
		total += r.TotalSignals
	}

	if total == 0 {
		return contracts.AccuracyStats{}
	}

	n := float64(total)
	return contracts.AccuracyStats{
		OverallAccuracy: (bullish + bearish) / (2 * n),
		BullishAccuracy: bullish / n,
		BearishAccuracy: bearish / n,
		TotalSignals:    total,
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}
