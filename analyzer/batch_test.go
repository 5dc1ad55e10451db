package analyzer

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/latforge/sondeo/ai"
	"github.com/latforge/sondeo/ai/mock"
	"github.com/latforge/sondeo/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeBatchEmpty(t *testing.T) {
	a := newTestAnalyzer(t, mock.NewMockClassifier(), mock.NewMockAnalyst())
	items := a.AnalyzeBatch(context.Background(), nil, DefaultOptions())
	assert.Empty(t, items)
}

func TestAnalyzeBatchOrder(t *testing.T) {
	classifier := mock.NewMockClassifier()
	classifier.ClassifyFunc = func(ctx context.Context, text string) (ai.Classification, error) {
		return ai.Classification{Module: "KYC/KYB", Confidence: 90}, nil
	}

	a := newTestAnalyzer(t, classifier, mock.NewMockAnalyst(),
		WithConfig(Config{Concurrency: 2}))

	samples := make([]*core.TextSample, 8)
	for i := range samples {
		samples[i] = sample(
			fmt.Sprintf("KYC verification plan %d costs $%d.00 per check", i, i+1),
			fmt.Sprintf("source-%d", i))
	}

	items := a.AnalyzeBatch(context.Background(), samples, DefaultOptions())
	require.Len(t, items, len(samples))

	for i, item := range items {
		assert.Equal(t, i, item.Index)
		require.NoError(t, item.Err)
		require.NotNil(t, item.Result)
		// Results line up with their input samples
		assert.Equal(t, samples[i].Source, item.Result.Source)
	}
}

func TestAnalyzeBatchItemIsolation(t *testing.T) {
	classifier := mock.NewMockClassifier()
	classifier.ClassifyFunc = func(ctx context.Context, text string) (ai.Classification, error) {
		if strings.Contains(text, "slow") {
			<-ctx.Done()
			return ai.Classification{}, ctx.Err()
		}
		return ai.Classification{Module: "KYC/KYB", Confidence: 90}, nil
	}

	a := newTestAnalyzer(t, classifier, mock.NewMockAnalyst(),
		WithConfig(Config{Concurrency: 4, ItemTimeout: 100 * time.Millisecond}))

	samples := []*core.TextSample{
		sample("KYC plan one costs $1.00 per check", "s1"),
		sample("KYC plan two costs $2.00 per check", "s2"),
		sample("slow KYC plan three costs $3.00 per check", "s3"),
		sample("KYC plan four costs $4.00 per check", "s4"),
		sample("KYC plan five costs $5.00 per check", "s5"),
	}

	items := a.AnalyzeBatch(context.Background(), samples, Options{UseLocal: true, UseFallback: false})
	require.Len(t, items, 5)

	for i, item := range items {
		if i == 2 {
			assert.ErrorIs(t, item.Err, core.ErrItemTimeout, "item 3 should time out")
			assert.Nil(t, item.Result)
			continue
		}
		require.NoError(t, item.Err, "item %d should be unaffected", i+1)
		require.NotNil(t, item.Result)
		assert.Equal(t, core.MethodLocal, item.Result.Method)
	}
}

func TestAnalyzeBatchMalformedItem(t *testing.T) {
	a := newTestAnalyzer(t, mock.NewMockClassifier(), mock.NewMockAnalyst())

	samples := []*core.TextSample{
		sample("KYC verification costs $0.50 per check", "ok"),
		sample("   ", "empty-text"),
	}

	items := a.AnalyzeBatch(context.Background(), samples, DefaultOptions())
	require.Len(t, items, 2)

	assert.NoError(t, items[0].Err)
	assert.ErrorIs(t, items[1].Err, core.ErrEmptyText)
}
