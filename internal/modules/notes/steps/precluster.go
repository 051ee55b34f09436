package steps

import (
	"github.com/studyforge/studyforge-backend/internal/platform/logger"
)

const (
	DefaultMinClusterSize     = 10
	DefaultMinWordsPerCluster = 500
)

func totalWords(chunks []Chunk) int {
	n := 0
	for _, c := range chunks {
		n += WordCount(c.Text)
	}
	return n
}

// PreClusterChunks optionally splits a large chunk set into two coarse
// partitions before topic modeling. Splitting requires at least
// 2*minClusterSize chunks and 2*minWordsPerCluster total words; the 2-way
// split is kept only when both halves independently satisfy both gates.
// Vectorization or clustering failure falls back to the single input
// partition with the cause logged. Chunk order is preserved within each
// partition.
func PreClusterChunks(chunks []Chunk, minClusterSize, minWordsPerCluster int, log *logger.Logger) [][]Chunk {
	if minClusterSize <= 0 {
		minClusterSize = DefaultMinClusterSize
	}
	if minWordsPerCluster <= 0 {
		minWordsPerCluster = DefaultMinWordsPerCluster
	}
	single := [][]Chunk{chunks}
	if len(chunks) < 2*minClusterSize {
		return single
	}
	if totalWords(chunks) < 2*minWordsPerCluster {
		return single
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	rows, _, err := FitTFIDF(texts, TFIDFOptions{MaxFeatures: 2000, MinDF: 1, NGramMax: 2})
	if err != nil {
		if log != nil {
			log.Warn("pre-clustering vectorization failed, keeping single partition", "error", err)
		}
		return single
	}

	assign, _ := kmeansVectors(rows, 2)
	var a, b []Chunk
	for i, c := range chunks {
		if assign[i] == 0 {
			a = append(a, c)
		} else {
			b = append(b, c)
		}
	}

	for _, half := range [][]Chunk{a, b} {
		if len(half) < minClusterSize || totalWords(half) < minWordsPerCluster {
			if log != nil {
				log.Debug("pre-clustering split rejected",
					"half_chunks", len(half),
					"half_words", totalWords(half),
					"min_chunks", minClusterSize,
					"min_words", minWordsPerCluster,
				)
			}
			return single
		}
	}
	return [][]Chunk{a, b}
}
