package sentiment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newslens/internal/models"
)

type fakeClassifier struct {
	got    []string
	result models.SentimentResult
	err    error
}

func (f *fakeClassifier) Classify(ctx context.Context, text string) (models.SentimentResult, error) {
	f.got = append(f.got, text)
	return f.result, f.err
}

func TestAggregateEmptyIsIndeterminate(t *testing.T) {
	summary := Aggregate(nil)
	assert.True(t, summary.Indeterminate)
	assert.Zero(t, summary.PositivePct)
	assert.Zero(t, summary.NegativePct)
}

func TestAggregatePercentages(t *testing.T) {
	summary := Aggregate([]models.SentimentResult{
		{Label: models.Positive, Confidence: 0.9},
		{Label: models.Positive, Confidence: 0.8},
		{Label: models.Negative, Confidence: 0.95},
	})

	assert.False(t, summary.Indeterminate)
	assert.InDelta(t, 66.7, summary.PositivePct, 0.001)
	assert.InDelta(t, 33.3, summary.NegativePct, 0.001)
}

func TestAggregateAllPositive(t *testing.T) {
	summary := Aggregate([]models.SentimentResult{
		{Label: models.Positive},
		{Label: models.Positive},
	})
	assert.InDelta(t, 100.0, summary.PositivePct, 0.001)
	assert.InDelta(t, 0.0, summary.NegativePct, 0.001)
}

func TestClassifyTruncatesInput(t *testing.T) {
	fake := &fakeClassifier{result: models.SentimentResult{Label: models.Positive, Confidence: 0.9}}
	a := NewAnalyzer(fake, 512)

	long := strings.Repeat("x", 600)
	_, err := a.Classify(context.Background(), long)

	require.NoError(t, err)
	require.Len(t, fake.got, 1)
	assert.Len(t, fake.got[0], 512)
}

func TestClassifyPropagatesError(t *testing.T) {
	fake := &fakeClassifier{err: errors.New("boom")}
	a := NewAnalyzer(fake, 512)

	_, err := a.Classify(context.Background(), "some headline")
	assert.Error(t, err)
}

func TestHeadRuneSafe(t *testing.T) {
	// Multibyte runes must not be split.
	text := strings.Repeat("é", 10)
	head := Head(text, 4)
	assert.Equal(t, "éééé", head)
}

func TestHeadShortInputUnchanged(t *testing.T) {
	assert.Equal(t, "short", Head("short", 512))
}
