// Package entities runs chunked named-entity recognition and aggregates the
// results into a deduplicated set per entity group.
package entities

import (
	"context"
	"sort"
	"strings"
	"sync"

	"newslens/internal/logger"
	"newslens/internal/models"
)

// Group is a coarse entity category.
type Group string

const (
	Person       Group = "PERSON"
	Organization Group = "ORGANIZATION"
	Location     Group = "LOCATION"
)

// Model tags map to groups; anything else is dropped.
var groupByTag = map[string]Group{
	"PER": Person,
	"ORG": Organization,
	"LOC": Location,
}

// Set maps each group to its deduplicated, sorted entity surface strings.
type Set map[Group][]string

// Options bound one extraction pass.
type Options struct {
	ChunkSize int     // characters per recognizer call
	Threshold float64 // minimum score to accept an entity
	Workers   int     // concurrent recognizer calls; <=1 means sequential
}

// Chunks splits text into fixed-size, non-overlapping character windows.
// Recognizers degrade on long inputs, so every window stays within a safe
// range. No reassembly across boundaries: an entity split by a window edge
// may be lost, which is accepted.
func Chunks(text string, size int) []string {
	if text == "" || size <= 0 {
		return nil
	}
	chunks := make([]string, 0, len(text)/size+1)
	for i := 0; i < len(text); i += size {
		end := i + size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[i:end])
	}
	return chunks
}

// Extract recognizes entities over the whole text chunk by chunk. One chunk
// failing does not abort the pass; it is logged and skipped.
func Extract(ctx context.Context, rec models.EntityRecognizer, text string, opts Options) Set {
	set := newAccumulator()
	chunks := Chunks(text, opts.ChunkSize)
	if len(chunks) == 0 {
		return set.result()
	}

	workers := opts.Workers
	if workers <= 1 {
		for i, chunk := range chunks {
			recognizeChunk(ctx, rec, chunk, i, opts.Threshold, set)
		}
		return set.result()
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, chunk string) {
			defer wg.Done()
			defer func() { <-sem }()
			recognizeChunk(ctx, rec, chunk, i, opts.Threshold, set)
		}(i, chunk)
	}
	wg.Wait()

	return set.result()
}

func recognizeChunk(ctx context.Context, rec models.EntityRecognizer, chunk string, index int, threshold float64, acc *accumulator) {
	found, err := rec.Recognize(ctx, chunk)
	if err != nil {
		logger.Warn("entity recognition failed for chunk, skipping", "chunk", index, "error", err)
		return
	}

	for _, ent := range found {
		if ent.Score < threshold {
			continue
		}
		word := strings.TrimSpace(ent.Text)
		// "##" marks a continuation fragment of a longer token; together with
		// very short surfaces these are tokenizer noise, not entities.
		if strings.HasPrefix(word, "##") || len(word) < 4 {
			continue
		}
		group, ok := groupByTag[ent.Group]
		if !ok {
			continue
		}
		acc.add(group, word)
	}
}

// accumulator collects surfaces with mutex-guarded dedup so chunk workers can
// run concurrently.
type accumulator struct {
	mu   sync.Mutex
	seen map[Group]map[string]struct{}
}

func newAccumulator() *accumulator {
	return &accumulator{seen: map[Group]map[string]struct{}{
		Person:       {},
		Organization: {},
		Location:     {},
	}}
}

func (a *accumulator) add(group Group, word string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seen[group][word] = struct{}{}
}

func (a *accumulator) result() Set {
	a.mu.Lock()
	defer a.mu.Unlock()

	set := make(Set, len(a.seen))
	for group, words := range a.seen {
		list := make([]string, 0, len(words))
		for w := range words {
			list = append(list, w)
		}
		sort.Strings(list)
		set[group] = list
	}
	return set
}

// IsEmpty reports whether no entity of any group was found.
func (s Set) IsEmpty() bool {
	for _, list := range s {
		if len(list) > 0 {
			return false
		}
	}
	return true
}
