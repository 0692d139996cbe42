package transcription

import (
	"github.com/xpanvictor/voxqa/internal/config"
	"github.com/xpanvictor/voxqa/internal/types"
)

// retryRotation is indexed by (attempt-1) % len(retryRotation).
var retryRotation = [...]types.Strategy{
	{Index: 1, Tier: types.TierBest},
	{Index: 2, Tier: types.TierUniversal, Alternate: true},
	{Index: 3, Tier: types.TierNano},
}

var initialStrategy = types.Strategy{Index: 0, Tier: types.TierUniversal}

// StrategyFor returns the strategy for an attempt number. Attempt 0 is the
// first pass; retries cycle through retryRotation.
func StrategyFor(attempt int) types.Strategy {
	if attempt <= 0 {
		return initialStrategy
	}
	return retryRotation[(attempt-1)%len(retryRotation)]
}

func modelFor(models config.SpeechModels, tier types.Tier) string {
	switch tier {
	case types.TierBest:
		return models.Best
	case types.TierNano:
		return models.Nano
	default:
		return models.Universal
	}
}
