package confidence

import (
	"testing"

	"github.com/latforge/sondeo/core"
	"github.com/stretchr/testify/assert"
)

func TestScoreWithoutCrossValidation(t *testing.T) {
	tests := []struct {
		name     string
		analyzer int
		want     int
		label    core.ConfidenceLabel
	}{
		{"high", 92, 92, core.ConfidenceAlta},
		{"boundary alta", 80, 80, core.ConfidenceAlta},
		{"media", 65, 65, core.ConfidenceMedia},
		{"boundary media", 50, 50, core.ConfidenceMedia},
		{"baja", 49, 49, core.ConfidenceBaja},
		{"zero", 0, 0, core.ConfidenceBaja},
		{"above range clamps", 140, 100, core.ConfidenceAlta},
		{"below range clamps", -5, 0, core.ConfidenceBaja},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, label := Score(tt.analyzer, nil)
			assert.Equal(t, tt.want, score)
			assert.Equal(t, tt.label, label)
		})
	}
}

func TestScoreWithCrossValidation(t *testing.T) {
	t.Run("averages the two signals", func(t *testing.T) {
		cv := &core.CrossValidation{CombinedConfidence: 100, Validated: true}
		score, label := Score(80, cv)
		assert.Equal(t, 90, score)
		assert.Equal(t, core.ConfidenceAlta, label)
	})

	t.Run("weak validation drags down a strong analysis", func(t *testing.T) {
		cv := &core.CrossValidation{CombinedConfidence: 20}
		score, label := Score(90, cv)
		assert.Equal(t, 55, score)
		assert.Equal(t, core.ConfidenceMedia, label)
	})

	t.Run("out of range inputs stay bounded", func(t *testing.T) {
		cv := &core.CrossValidation{CombinedConfidence: 400}
		score, _ := Score(-50, cv)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	})
}

func TestLabelFor(t *testing.T) {
	assert.Equal(t, core.ConfidenceAlta, LabelFor(100))
	assert.Equal(t, core.ConfidenceAlta, LabelFor(80))
	assert.Equal(t, core.ConfidenceMedia, LabelFor(79))
	assert.Equal(t, core.ConfidenceMedia, LabelFor(50))
	assert.Equal(t, core.ConfidenceBaja, LabelFor(49))
	assert.Equal(t, core.ConfidenceBaja, LabelFor(0))
}
