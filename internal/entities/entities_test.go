package entities

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newslens/internal/models"
)

type fakeRecognizer struct {
	mu      sync.Mutex
	inputs  []string
	results map[int][]models.Entity // per call index
	err     error
}

func (f *fakeRecognizer) Recognize(ctx context.Context, text string) ([]models.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := len(f.inputs)
	f.inputs = append(f.inputs, text)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[call], nil
}

func TestChunksSplitsOnFixedWindows(t *testing.T) {
	text := strings.Repeat("x", 1000)
	chunks := Chunks(text, 400)

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 400)
	assert.Len(t, chunks[1], 400)
	assert.Len(t, chunks[2], 200)
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestChunksEdgeCases(t *testing.T) {
	assert.Nil(t, Chunks("", 400))
	assert.Nil(t, Chunks("text", 0))
	assert.Equal(t, []string{"abc"}, Chunks("abc", 400))
	assert.Equal(t, []string{"ab", "cd"}, Chunks("abcd", 2))
}

func TestExtractIssuesOneCallPerChunk(t *testing.T) {
	rec := &fakeRecognizer{results: map[int][]models.Entity{}}
	text := strings.Repeat("x", 1000)

	Extract(context.Background(), rec, text, Options{ChunkSize: 400, Threshold: 0.85})

	require.Len(t, rec.inputs, 3)
	assert.Len(t, rec.inputs[0], 400)
	assert.Len(t, rec.inputs[1], 400)
	assert.Len(t, rec.inputs[2], 200)
}

func TestExtractDeduplicatesAcrossChunks(t *testing.T) {
	rec := &fakeRecognizer{results: map[int][]models.Entity{
		0: {{Text: "Angela Merkel", Group: "PER", Score: 0.99}},
		1: {{Text: "Angela Merkel", Group: "PER", Score: 0.95}},
		2: {{Text: "Berlin", Group: "LOC", Score: 0.97}},
	}}

	set := Extract(context.Background(), rec, strings.Repeat("x", 1000), Options{ChunkSize: 400, Threshold: 0.85})

	assert.Equal(t, []string{"Angela Merkel"}, set[Person])
	assert.Equal(t, []string{"Berlin"}, set[Location])
	assert.Empty(t, set[Organization])
}

func TestExtractFiltersLowConfidenceAndNoise(t *testing.T) {
	rec := &fakeRecognizer{results: map[int][]models.Entity{
		0: {
			{Text: "Microsoft", Group: "ORG", Score: 0.99},
			{Text: "Apple", Group: "ORG", Score: 0.50},     // below threshold
			{Text: "##soft", Group: "ORG", Score: 0.99},    // subword fragment
			{Text: "IBM", Group: "ORG", Score: 0.99},       // too short
			{Text: "  Google ", Group: "ORG", Score: 0.95}, // trimmed
			{Text: "Quarter", Group: "MISC", Score: 0.99},  // unknown group
		},
	}}

	set := Extract(context.Background(), rec, "some text", Options{ChunkSize: 400, Threshold: 0.85})

	assert.Equal(t, []string{"Google", "Microsoft"}, set[Organization])
	assert.Empty(t, set[Person])
	assert.Empty(t, set[Location])
}

func TestExtractChunkFailureSkipsChunkOnly(t *testing.T) {
	rec := &failOnceRecognizer{
		failCall: 1,
		good: []models.Entity{
			{Text: "Reuters", Group: "ORG", Score: 0.99},
		},
	}

	set := Extract(context.Background(), rec, strings.Repeat("x", 1000), Options{ChunkSize: 400, Threshold: 0.85})

	// Call 1 failed but calls 0 and 2 still contributed.
	assert.Equal(t, 3, rec.calls)
	assert.Equal(t, []string{"Reuters"}, set[Organization])
}

type failOnceRecognizer struct {
	calls    int
	failCall int
	good     []models.Entity
}

func (f *failOnceRecognizer) Recognize(ctx context.Context, text string) ([]models.Entity, error) {
	call := f.calls
	f.calls++
	if call == f.failCall {
		return nil, errors.New("recognizer blew up")
	}
	return f.good, nil
}

func TestExtractConcurrentWorkersDeduplicate(t *testing.T) {
	rec := &fakeRecognizer{results: map[int][]models.Entity{
		0: {{Text: "London", Group: "LOC", Score: 0.99}},
		1: {{Text: "London", Group: "LOC", Score: 0.99}},
		2: {{Text: "London", Group: "LOC", Score: 0.99}},
	}}

	set := Extract(context.Background(), rec, strings.Repeat("x", 1000), Options{ChunkSize: 400, Threshold: 0.85, Workers: 3})

	assert.Equal(t, []string{"London"}, set[Location])
}

func TestSetIsEmpty(t *testing.T) {
	assert.True(t, Set{}.IsEmpty())
	assert.True(t, Set{Person: {}}.IsEmpty())
	assert.False(t, Set{Person: {"Someone Real"}}.IsEmpty())
}
