package steps

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultSimilarityThreshold is the adjacent-sentence cosine similarity below
// which a new segment starts.
const DefaultSimilarityThreshold = 0.3

var sentenceEndRe = regexp.MustCompile(`[.!?]+["')\]]*\s+`)

// splitSentences cuts text after sentence-ending punctuation followed by
// whitespace. Trailing text without terminal punctuation is its own sentence.
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var out []string
	last := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		// Cut after the punctuation run, before the whitespace.
		end := loc[1]
		for end > loc[0] && (text[end-1] == ' ' || text[end-1] == '\t' || text[end-1] == '\n' || text[end-1] == '\r') {
			end--
		}
		s := strings.TrimSpace(text[last:end])
		if s != "" {
			out = append(out, s)
		}
		last = loc[1]
	}
	if tail := strings.TrimSpace(text[last:]); tail != "" {
		out = append(out, tail)
	}
	return out
}

// SemanticSegment splits raw transcript text into minimal semantic units.
// Fewer than two sentences (including empty text) yields the whole input as
// one chunk at position "0". Otherwise every sentence is embedded, and a new
// segment starts whenever the cosine similarity between adjacent sentences
// falls below similarityThreshold; contiguous runs of similar sentences merge
// into one segment. Positions are emitted as "0", "1", "2", ...
func SemanticSegment(ctx context.Context, emb Embedder, text string, similarityThreshold float64) ([]Chunk, error) {
	sentences := splitSentences(text)
	if len(sentences) < 2 {
		return []Chunk{{Position: "0", Text: strings.TrimSpace(text)}}, nil
	}

	vecs, err := emb.Embed(ctx, sentences)
	if err != nil {
		return nil, fmt.Errorf("embed sentences: %w", err)
	}
	if len(vecs) != len(sentences) {
		return nil, fmt.Errorf("embed sentences: got %d vectors for %d sentences", len(vecs), len(sentences))
	}

	var chunks []Chunk
	current := []string{sentences[0]}
	for i := 1; i < len(sentences); i++ {
		if cosineSimilarity(vecs[i-1], vecs[i]) < similarityThreshold {
			chunks = append(chunks, Chunk{
				Position: strconv.Itoa(len(chunks)),
				Text:     strings.Join(current, " "),
			})
			current = current[:0]
		}
		current = append(current, sentences[i])
	}
	chunks = append(chunks, Chunk{
		Position: strconv.Itoa(len(chunks)),
		Text:     strings.Join(current, " "),
	})
	return chunks, nil
}
