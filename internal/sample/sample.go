// Package sample provides the well-formed defaults served when a cache
// artifact does not exist yet.
package sample

import (
	"time"

	"github.com/wonny/tickerpulse/internal/contracts"
	"github.com/wonny/tickerpulse/internal/ledger"
)

const profileImage = "https://pbs.twimg.com/profile_images/874276197357596672/kUuht00m_400x400.jpg"

// Posts returns three demonstration posts timestamped relative to now, newest first
func Posts(now time.Time) []contracts.Post {
	return []contracts.Post{
		{
			ID:           "1",
			Author:       "Donald J. Trump",
			Content:      "Just got off the phone with Elon Musk. We discussed the future of electric vehicles and space exploration. American innovation is the best in the world! Tesla and SpaceX are doing incredible things.",
			Timestamp:    now.Add(-2 * time.Hour),
			Source:       "Twitter",
			ProfileImage: profileImage,
			URL:          "https://twitter.com/user/status/1",
		},
		{
			ID:           "2",
			Author:       "Donald J. Trump",
			Content:      "The pharmaceutical industry needs to lower drug prices NOW! Americans are paying too much for prescription drugs. Time for Big Pharma to step up and do what's right for our great citizens!",
			Timestamp:    now.Add(-5 * time.Hour),
			Source:       "Twitter",
			ProfileImage: profileImage,
			URL:          "https://twitter.com/user/status/2",
		},
		{
			ID:           "3",
			Author:       "Donald J. Trump",
			Content:      "Just signed a major Executive Order on defense spending. We're going to rebuild our military like never before. Lockheed Martin, Boeing, and Raytheon will be very busy. AMERICA FIRST!",
			Timestamp:    now.Add(-8 * time.Hour),
			Source:       "Twitter",
			ProfileImage: profileImage,
			URL:          "https://twitter.com/user/status/3",
		},
	}
}

// Signals returns the fixed demonstration signal set
func Signals() contracts.SignalSet {
	return contracts.SignalSet{
		IndustrySignals: []contracts.IndustrySignal{
			{
				Industry:      "Automotive & Electric Vehicles",
				SignalType:    contracts.SignalBullish,
				Strength:      0.85,
				Description:   "Positive sentiment toward Tesla and electric vehicle innovation",
				RelatedStocks: []string{"TSLA", "GM", "F"},
			},
			{
				Industry:      "Aerospace & Defense",
				SignalType:    contracts.SignalBullish,
				Strength:      0.92,
				Description:   "Increased defense spending and support for major contractors",
				RelatedStocks: []string{"LMT", "BA", "RTX"},
			},
			{
				Industry:      "Pharmaceuticals",
				SignalType:    contracts.SignalBearish,
				Strength:      0.78,
				Description:   "Pressure to lower drug prices could impact profit margins",
				RelatedStocks: []string{"PFE", "JNJ", "MRK"},
			},
		},
		StockSignals: []contracts.StockSignal{
			{Symbol: "TSLA", Company: "Tesla Inc.", SignalType: contracts.SignalBullish, Strength: 0.88, Industry: "Automotive & Electric Vehicles"},
			{Symbol: "LMT", Company: "Lockheed Martin Corp.", SignalType: contracts.SignalBullish, Strength: 0.94, Industry: "Aerospace & Defense"},
			{Symbol: "PFE", Company: "Pfizer Inc.", SignalType: contracts.SignalBearish, Strength: 0.79, Industry: "Pharmaceuticals"},
		},
	}
}

// Historical returns the 30-day seeded sample ledger ending yesterday
func Historical(now time.Time) contracts.HistoricalLedger {
	return ledger.SynthesizeSample(now, ledger.SampleDays, ledger.SampleSeed)
}
