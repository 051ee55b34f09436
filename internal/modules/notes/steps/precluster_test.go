package steps

import (
	"fmt"
	"strconv"
	"strings"
	"testing"
)

func subjectChunks(n int, wordsEach int, subject []string) []Chunk {
	chunks := make([]Chunk, n)
	for i := 0; i < n; i++ {
		var b strings.Builder
		for j := 0; j < wordsEach; j++ {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(subject[j%len(subject)])
			fmt.Fprintf(&b, "%d", i%3)
		}
		chunks[i] = Chunk{Position: strconv.Itoa(i), Text: b.String()}
	}
	return chunks
}

func TestPreClusterChunksTooFewChunks(t *testing.T) {
	chunks := subjectChunks(19, 60, []string{"calculus", "derivative", "integral"})
	parts := PreClusterChunks(chunks, 10, 500, nil)
	if len(parts) != 1 {
		t.Fatalf("want single partition below 2*minClusterSize, got %d", len(parts))
	}
	if len(parts[0]) != len(chunks) {
		t.Fatalf("partition lost chunks: %d != %d", len(parts[0]), len(chunks))
	}
}

func TestPreClusterChunksTooFewWords(t *testing.T) {
	chunks := subjectChunks(30, 20, []string{"calculus", "derivative", "integral"})
	// 30*20 = 600 words < 2*500.
	parts := PreClusterChunks(chunks, 10, 500, nil)
	if len(parts) != 1 {
		t.Fatalf("want single partition below the word gate, got %d", len(parts))
	}
}

func TestPreClusterChunksPreservesAllChunks(t *testing.T) {
	math := subjectChunks(15, 60, []string{"calculus", "derivative", "integral", "limit"})
	bio := subjectChunks(15, 60, []string{"neuron", "synapse", "axon", "dendrite"})
	for i := range bio {
		bio[i].Position = strconv.Itoa(15 + i)
	}
	chunks := append(append([]Chunk{}, math...), bio...)

	parts := PreClusterChunks(chunks, 10, 500, nil)

	total := 0
	seen := map[string]bool{}
	for _, p := range parts {
		total += len(p)
		for _, c := range p {
			if seen[c.Position] {
				t.Fatalf("chunk %s appears in multiple partitions", c.Position)
			}
			seen[c.Position] = true
		}
	}
	if total != len(chunks) {
		t.Fatalf("partitioning changed chunk count: %d != %d", total, len(chunks))
	}
	if len(parts) == 2 {
		for _, p := range parts {
			if len(p) < 10 || totalWords(p) < 500 {
				t.Fatalf("accepted split violates gates: %d chunks, %d words", len(p), totalWords(p))
			}
		}
	}
}
