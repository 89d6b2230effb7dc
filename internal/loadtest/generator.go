package loadtest

import (
	"context"
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"

	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/model"
	"github.com/hsh723/rocket-sourcer-sub001/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	volumeClassDivisor = 6
	trendPoints        = 12
)

// Volume classes mirror what real keyword pools look like: a long tail of
// small keywords with a few heavy hitters.
const (
	caseNicheKeyword   = 0
	caseSmallKeyword   = 1
	caseMidKeyword     = 2
	caseLargeKeyword   = 3
	caseHeadKeyword    = 4
	caseDormantKeyword = 5
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generateSignals creates the configured number of keyword signals with
// unique keywords and a varied volume distribution.
func generateSignals(ctx context.Context, config *Config, stats *Stats) []model.KeywordSignal {
	logger.Get().Info(ctx, "generating keyword signals", logger.Int("numKeywords", config.NumKeywords))

	signals := make([]model.KeywordSignal, config.NumKeywords)
	for i := range signals {
		signals[i] = generateSingleSignal()
	}

	stats.SignalsGenerated = len(signals)
	logger.Get().Info(ctx, "generated signals successfully", logger.Int("count", len(signals)))
	return signals
}

// generateSingleSignal creates one signal with a unique keyword.
func generateSingleSignal() model.KeywordSignal {
	return model.KeywordSignal{
		Keyword:       "kw-" + uuid.New().String(),
		MonthlyVolume: generateVariedVolume(),
		Competition: model.CompetitionFactors{
			SellerCount:       getRandomFloat() * 100,
			PriceCompetition:  getRandomFloat() * 100,
			ReviewCompetition: getRandomFloat() * 100,
			BrandPresence:     getRandomFloat() * 100,
		},
		TrendSeries: generateTrendSeries(),
	}
}

// generateVariedVolume draws a monthly volume from one of six classes.
func generateVariedVolume() int {
	class, _ := rand.Int(rand.Reader, big.NewInt(volumeClassDivisor))
	switch class.Int64() {
	case caseNicheKeyword:
		return 10 + int(getRandomFloat()*90)
	case caseSmallKeyword:
		return 100 + int(getRandomFloat()*900)
	case caseMidKeyword:
		return 1000 + int(getRandomFloat()*9000)
	case caseLargeKeyword:
		return 10000 + int(getRandomFloat()*90000)
	case caseHeadKeyword:
		return 100000 + int(getRandomFloat()*900000)
	case caseDormantKeyword:
		return 0
	default:
		return 1000
	}
}

// generateTrendSeries produces a short series around a random baseline
// with a random drift, so runs exercise rising, flat and falling trends.
func generateTrendSeries() []float64 {
	baseline := 20 + getRandomFloat()*80
	drift := (getRandomFloat() - 0.5) * 10
	series := make([]float64, trendPoints)
	for i := range series {
		noise := (getRandomFloat() - 0.5) * 4
		series[i] = baseline + drift*float64(i) + noise
		if series[i] < 0 {
			series[i] = 0
		}
	}
	return series
}
