package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSummarizer struct {
	gotText string
	gotMax  int
	gotMin  int
	summary string
	err     error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text string, maxWords, minWords int) (string, error) {
	f.gotText = text
	f.gotMax = maxWords
	f.gotMin = minWords
	return f.summary, f.err
}

func newTestController(s *fakeSummarizer) *Controller {
	return NewController(s, 130, 30, 3000)
}

func TestBoundsLongText(t *testing.T) {
	c := newTestController(&fakeSummarizer{})

	// 300 words: 300/2 = 150 capped to 130.
	maxW, minW := c.Bounds(300)
	assert.Equal(t, 130, maxW)
	assert.Equal(t, 30, minW)
}

func TestBoundsShortTextClampsToMin(t *testing.T) {
	c := newTestController(&fakeSummarizer{})

	// 40 words: 40/2 = 20 < 30, clamped up so maxWords never undercuts minWords.
	maxW, minW := c.Bounds(40)
	assert.Equal(t, 30, maxW)
	assert.Equal(t, 30, minW)
}

func TestBoundsMidRange(t *testing.T) {
	c := newTestController(&fakeSummarizer{})

	maxW, _ := c.Bounds(120)
	assert.Equal(t, 60, maxW)
}

func TestSummarizePassesBoundsToModel(t *testing.T) {
	fake := &fakeSummarizer{summary: "A fine summary."}
	c := newTestController(fake)

	text := strings.Repeat("word ", 200)
	got := c.Summarize(context.Background(), text)

	assert.Equal(t, "A fine summary.", got)
	assert.Equal(t, 100, fake.gotMax) // 200 words / 2
	assert.Equal(t, 30, fake.gotMin)
}

func TestSummarizeVeryShortTextSkipsModel(t *testing.T) {
	fake := &fakeSummarizer{summary: "should not be used"}
	c := newTestController(fake)

	text := "Only a handful of words here."
	got := c.Summarize(context.Background(), text)

	assert.Equal(t, text, got, "short text is its own summary")
	assert.Empty(t, fake.gotText, "model must not be called for short input")
}

func TestSummarizeFailureReturnsSentinel(t *testing.T) {
	fake := &fakeSummarizer{err: errors.New("provider down")}
	c := newTestController(fake)

	got := c.Summarize(context.Background(), strings.Repeat("word ", 100))
	assert.Equal(t, FailedSentinel, got)
}

func TestSummarizeEmptyInput(t *testing.T) {
	c := newTestController(&fakeSummarizer{})
	assert.Equal(t, FailedSentinel, c.Summarize(context.Background(), "   "))
}

func TestSummarizeTruncatesInput(t *testing.T) {
	fake := &fakeSummarizer{summary: "ok"}
	c := newTestController(fake)

	text := strings.Repeat("word ", 2000) // ~10000 chars
	c.Summarize(context.Background(), text)

	require.NotEmpty(t, fake.gotText)
	assert.LessOrEqual(t, len(fake.gotText), 3000)
}

func TestTruncateRuneBoundary(t *testing.T) {
	text := strings.Repeat("é", 100)
	got := Truncate(text, 50)
	assert.True(t, strings.HasPrefix(text, got))
	for _, r := range got {
		assert.NotEqual(t, '�', r)
	}
}

func TestTruncatePrefersSentenceBoundary(t *testing.T) {
	text := strings.Repeat("A sentence here. ", 40) // ~680 chars
	got := Truncate(text, 500)
	assert.True(t, strings.HasSuffix(got, "."), "expected cut at sentence end, got %q", got[len(got)-10:])
}

func TestTruncateShortInputUnchanged(t *testing.T) {
	assert.Equal(t, "untouched", Truncate("untouched", 3000))
}
