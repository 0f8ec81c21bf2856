package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTitleHits_CapsAtThirty(t *testing.T) {
	score := titleHits("alpha-beta-gamma-delta.md", []string{"alpha", "beta", "gamma", "delta"})
	assert.Equal(t, 30.0, score)
}

func TestContentHits_CapsPerTermAndTotal(t *testing.T) {
	body := ""
	for i := 0; i < 50; i++ {
		body += "keyword "
	}
	score := contentHits(body, []string{"keyword"})
	assert.Equal(t, 5.0, score)

	multi := ""
	for i := 0; i < 50; i++ {
		multi += "alpha beta gamma delta "
	}
	assert.Equal(t, 15.0, contentHits(multi, []string{"alpha", "beta", "gamma", "delta"}))
}

func TestRecencyScore_Buckets(t *testing.T) {
	now := time.Now()
	assert.Equal(t, 5.0, recencyScore(now.Add(-1*24*time.Hour), now))
	assert.Equal(t, 3.0, recencyScore(now.Add(-20*24*time.Hour), now))
	assert.Equal(t, 1.0, recencyScore(now.Add(-60*24*time.Hour), now))
	assert.Equal(t, 0.5, recencyScore(now.Add(-200*24*time.Hour), now))
	assert.Equal(t, 0.0, recencyScore(time.Time{}, now))
}

func TestFinalScore_WeightsSumToOne(t *testing.T) {
	got := finalScore(1, 1, 1, 1)
	assert.InDelta(t, 1.0, got, 1e-9)
}
