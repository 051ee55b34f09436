package steps

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Optimizer defaults; callers usually override from config.
const (
	DefaultMinChunkWords   = 30
	DefaultMaxChunkWords   = 200
	DefaultTargetChunkSize = 100
)

// cleanupPassCap bounds the final repair loop. Whatever is still out of band
// after this many passes is accepted; word conservation is the hard
// invariant, size bounds are best-effort.
const cleanupPassCap = 3

type sizedChunk struct {
	text  string
	words int
	vec   []float32
}

func newSizedChunk(text string) sizedChunk {
	return sizedChunk{text: text, words: WordCount(text)}
}

func mergeSized(a, b sizedChunk) sizedChunk {
	return sizedChunk{text: a.text + " " + b.text, words: a.words + b.words}
}

// OptimizeChunkSizes re-segments chunks toward the [minWords, maxWords] band
// with mean size near targetSize. Three phases run in order: undersize
// repair, similarity-guided greedy growth, and final cleanup. The multiset of
// whitespace-split words is preserved exactly; only boundaries move. Output
// positions are renumbered "0".."n-1" in order.
func OptimizeChunkSizes(ctx context.Context, emb Embedder, chunks []Chunk, minWords, maxWords, targetSize int) ([]Chunk, error) {
	if len(chunks) == 0 {
		return []Chunk{}, nil
	}
	if minWords <= 0 {
		minWords = DefaultMinChunkWords
	}
	if maxWords <= minWords {
		maxWords = DefaultMaxChunkWords
	}
	if targetSize <= 0 || targetSize > maxWords {
		targetSize = DefaultTargetChunkSize
	}

	items := make([]sizedChunk, 0, len(chunks))
	for _, c := range chunks {
		items = append(items, newSizedChunk(c.Text))
	}

	items = repairUndersized(items, minWords, maxWords)

	var err error
	items, err = growTowardTarget(ctx, emb, items, maxWords, targetSize)
	if err != nil {
		return nil, err
	}

	for pass := 0; pass < cleanupPassCap; pass++ {
		changed := false
		items, changed = splitOversized(items, maxWords, changed)
		items, changed = forwardMergeUndersized(items, minWords, maxWords, changed)
		items, changed = pairwiseMergeUndersized(items, minWords, maxWords, changed)
		if !changed {
			break
		}
	}

	out := make([]Chunk, len(items))
	for i, it := range items {
		out[i] = Chunk{Position: strconv.Itoa(i), Text: it.text}
	}
	return out, nil
}

// repairUndersized is a single left-to-right pass merging any undersized
// chunk into its immediate successor when the combined size still fits.
func repairUndersized(items []sizedChunk, minWords, maxWords int) []sizedChunk {
	i := 0
	for i < len(items)-1 {
		if items[i].words < minWords && items[i].words+items[i+1].words <= maxWords {
			items[i] = mergeSized(items[i], items[i+1])
			items = append(items[:i+1], items[i+2:]...)
			continue // merged chunk may still be undersized
		}
		i++
	}
	return items
}

// growTowardTarget raises the mean chunk size toward targetSize by repeatedly
// merging the single most semantically similar adjacent pair whose combined
// size fits under maxWords. Greedy and non-exhaustive: one merge per
// iteration, candidates recomputed each time. Pair similarities are scored in
// parallel across index ranges sharded by CPU count; results merge back
// before each greedy decision, so chunk state is never mutated concurrently.
func growTowardTarget(ctx context.Context, emb Embedder, items []sizedChunk, maxWords, targetSize int) ([]sizedChunk, error) {
	if len(items) < 2 || meanWords(items) >= float64(targetSize) {
		return items, nil
	}

	texts := make([]string, len(items))
	for i := range items {
		texts[i] = items[i].text
	}
	vecs, err := emb.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks for growth: %w", err)
	}
	if len(vecs) != len(items) {
		return nil, fmt.Errorf("embed chunks for growth: got %d vectors for %d chunks", len(vecs), len(items))
	}
	for i := range items {
		items[i].vec = vecs[i]
	}

	for len(items) >= 2 && meanWords(items) < float64(targetSize) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		best, ok := bestAdjacentPair(ctx, items, maxWords)
		if !ok {
			break
		}
		merged := mergeSized(items[best], items[best+1])
		mv, err := emb.Embed(ctx, []string{merged.text})
		if err != nil {
			return nil, fmt.Errorf("embed merged chunk: %w", err)
		}
		if len(mv) == 1 {
			merged.vec = mv[0]
		}
		items[best] = merged
		items = append(items[:best+1], items[best+2:]...)
	}
	return items, nil
}

func meanWords(items []sizedChunk) float64 {
	if len(items) == 0 {
		return 0
	}
	sum := 0
	for _, it := range items {
		sum += it.words
	}
	return float64(sum) / float64(len(items))
}

// bestAdjacentPair scores every adjacent pair in parallel shards and returns
// the index of the most similar pair whose combined size fits under maxWords.
func bestAdjacentPair(ctx context.Context, items []sizedChunk, maxWords int) (int, bool) {
	n := len(items) - 1
	if n < 1 {
		return 0, false
	}
	sims := make([]float64, n)

	shards := runtime.NumCPU()
	if shards > n {
		shards = n
	}
	g, _ := errgroup.WithContext(ctx)
	per := (n + shards - 1) / shards
	for s := 0; s < shards; s++ {
		lo := s * per
		hi := lo + per
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				sims[i] = cosineSimilarity(items[i].vec, items[i+1].vec)
			}
			return nil
		})
	}
	_ = g.Wait()

	best := -1
	bestSim := -1.0
	for i := 0; i < n; i++ {
		if items[i].words+items[i+1].words > maxWords {
			continue
		}
		if sims[i] > bestSim {
			bestSim = sims[i]
			best = i
		}
	}
	return best, best >= 0
}

// splitOversized cuts any chunk above maxWords: sentence-boundary splits
// first (accumulating sentences up to the word budget), raw word slicing when
// the text is a single sentence.
func splitOversized(items []sizedChunk, maxWords int, changed bool) ([]sizedChunk, bool) {
	out := make([]sizedChunk, 0, len(items))
	for _, it := range items {
		if it.words <= maxWords {
			out = append(out, it)
			continue
		}
		changed = true
		for _, piece := range splitChunkText(it.text, maxWords) {
			out = append(out, newSizedChunk(piece))
		}
	}
	return out, changed
}

func splitChunkText(text string, maxWords int) []string {
	sentences := splitSentences(text)
	if len(sentences) < 2 {
		return sliceWords(text, maxWords)
	}
	var pieces []string
	var current []string
	budget := 0
	for _, s := range sentences {
		w := WordCount(s)
		if budget > 0 && budget+w > maxWords {
			pieces = append(pieces, strings.Join(current, " "))
			current = nil
			budget = 0
		}
		current = append(current, s)
		budget += w
	}
	if len(current) > 0 {
		pieces = append(pieces, strings.Join(current, " "))
	}
	// A single sentence can still exceed the budget; word-slice those.
	var out []string
	for _, p := range pieces {
		if WordCount(p) > maxWords {
			out = append(out, sliceWords(p, maxWords)...)
		} else {
			out = append(out, p)
		}
	}
	return out
}

func sliceWords(text string, maxWords int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}
	}
	var out []string
	for start := 0; start < len(words); start += maxWords {
		end := start + maxWords
		if end > len(words) {
			end = len(words)
		}
		out = append(out, strings.Join(words[start:end], " "))
	}
	return out
}

// forwardMergeUndersized greedily merges each undersized chunk with its
// successors until it reaches minWords or the next merge would exceed
// maxWords.
func forwardMergeUndersized(items []sizedChunk, minWords, maxWords int, changed bool) ([]sizedChunk, bool) {
	i := 0
	for i < len(items) {
		for items[i].words < minWords && i+1 < len(items) && items[i].words+items[i+1].words <= maxWords {
			items[i] = mergeSized(items[i], items[i+1])
			items = append(items[:i+1], items[i+2:]...)
			changed = true
		}
		i++
	}
	return items, changed
}

// pairwiseMergeUndersized is the best-effort tail pass: one sweep merging any
// remaining undersized neighbor pair that still fits under maxWords.
func pairwiseMergeUndersized(items []sizedChunk, minWords, maxWords int, changed bool) ([]sizedChunk, bool) {
	i := 0
	for i < len(items)-1 {
		if (items[i].words < minWords || items[i+1].words < minWords) && items[i].words+items[i+1].words <= maxWords {
			items[i] = mergeSized(items[i], items[i+1])
			items = append(items[:i+1], items[i+2:]...)
			changed = true
			continue
		}
		i++
	}
	return items, changed
}
