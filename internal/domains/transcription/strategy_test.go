package transcription

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xpanvictor/voxqa/internal/types"
)

func TestStrategyForInitial(t *testing.T) {
	s := StrategyFor(0)
	assert.Equal(t, types.TierUniversal, s.Tier)
	assert.False(t, s.Alternate)
	assert.Equal(t, 0, s.Index)
}

func TestStrategyRotationIsPeriodic(t *testing.T) {
	want := []types.Tier{types.TierBest, types.TierUniversal, types.TierNano}
	for attempt := 1; attempt <= 30; attempt++ {
		s := StrategyFor(attempt)
		assert.Equal(t, want[(attempt-1)%3], s.Tier, "attempt %d", attempt)
		assert.Equal(t, StrategyFor(attempt+3), s, "attempt %d", attempt)
	}
	assert.True(t, StrategyFor(2).Alternate)
}

func TestModelFor(t *testing.T) {
	m := modelsFixture()
	assert.Equal(t, "m-best", modelFor(m, types.TierBest))
	assert.Equal(t, "m-universal", modelFor(m, types.TierUniversal))
	assert.Equal(t, "m-nano", modelFor(m, types.TierNano))
}
