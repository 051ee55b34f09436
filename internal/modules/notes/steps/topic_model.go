package steps

import (
	"context"
	"math"
	"sort"
)

// NoiseLabel marks a document the topic model could not confidently assign.
const NoiseLabel = -1

// WeightedTerm is one keyword of a discovered topic.
type WeightedTerm struct {
	Term   string
	Weight float64
}

// TopicModelOptions parameterizes one FitTransform run.
type TopicModelOptions struct {
	// MinTopicSize demotes clusters with fewer members to noise.
	MinTopicSize int
	// MinDF is the document-frequency floor for the vectorizer.
	MinDF int
	// MaxTopics caps the cluster count; 0 means automatic.
	MaxTopics int
}

// TopicModel is the topic-discovery engine contract. FitTransform labels
// every doc (NoiseLabel for unassigned) with a confidence per doc, and must
// return an error wrapping errors.ErrCorpusTooSmall when docs cannot satisfy
// the configured document-frequency filter, so callers can retry looser.
type TopicModel interface {
	FitTransform(ctx context.Context, docs []string, opts TopicModelOptions) (labels []int, probs []float64, err error)
	Topic(label int) []WeightedTerm
}

// lexicalTopicModel discovers topics by clustering TF-IDF rows with
// deterministic cosine k-means, auto-sizing k to sqrt(n). Clusters below
// MinTopicSize, and documents nearly orthogonal to their centroid, demote to
// noise. Keywords per topic are the heaviest centroid terms.
type lexicalTopicModel struct {
	keywords map[int][]WeightedTerm
}

func NewLexicalTopicModel() TopicModel {
	return &lexicalTopicModel{keywords: map[int][]WeightedTerm{}}
}

// Documents this dissimilar to their own centroid carry no usable signal.
const noiseSimilarityFloor = 0.05

func autoTopicCount(n, maxTopics int) int {
	if n <= 1 {
		return 1
	}
	k := int(math.Round(math.Sqrt(float64(n))))
	if k < 2 {
		k = 2
	}
	if maxTopics > 0 && k > maxTopics {
		k = maxTopics
	}
	if k > n {
		k = n
	}
	return k
}

func (m *lexicalTopicModel) FitTransform(ctx context.Context, docs []string, opts TopicModelOptions) ([]int, []float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	rows, terms, err := FitTFIDF(docs, TFIDFOptions{MinDF: opts.MinDF})
	if err != nil {
		return nil, nil, err
	}

	k := autoTopicCount(len(docs), opts.MaxTopics)
	assign, centroids := kmeansVectors(rows, k)

	labels := make([]int, len(docs))
	probs := make([]float64, len(docs))
	sizes := make(map[int]int, k)
	for i, c := range assign {
		labels[i] = c
		probs[i] = cosineSimilarity(rows[i], centroids[c])
		sizes[c]++
	}

	minSize := opts.MinTopicSize
	if minSize < 1 {
		minSize = 1
	}
	for i := range labels {
		if sizes[labels[i]] < minSize || probs[i] < noiseSimilarityFloor {
			labels[i] = NoiseLabel
			probs[i] = 0
		}
	}

	// Relabel surviving clusters densely, ordered by first occurrence, so
	// callers see stable labels 0..t-1.
	remap := map[int]int{}
	next := 0
	for i := range labels {
		if labels[i] == NoiseLabel {
			continue
		}
		if _, ok := remap[labels[i]]; !ok {
			remap[labels[i]] = next
			next++
		}
	}

	m.keywords = map[int][]WeightedTerm{}
	for orig, dense := range remap {
		m.keywords[dense] = topCentroidTerms(centroids[orig], terms, 10)
	}
	for i := range labels {
		if labels[i] != NoiseLabel {
			labels[i] = remap[labels[i]]
		}
	}
	return labels, probs, nil
}

func (m *lexicalTopicModel) Topic(label int) []WeightedTerm {
	return m.keywords[label]
}

func topCentroidTerms(centroid []float32, terms []string, n int) []WeightedTerm {
	type scored struct {
		idx int
		w   float64
	}
	sc := make([]scored, 0, len(centroid))
	for i, w := range centroid {
		if i >= len(terms) || w <= 0 {
			continue
		}
		sc = append(sc, scored{idx: i, w: float64(w)})
	}
	sort.Slice(sc, func(i, j int) bool {
		if sc[i].w != sc[j].w {
			return sc[i].w > sc[j].w
		}
		return terms[sc[i].idx] < terms[sc[j].idx]
	})
	if len(sc) > n {
		sc = sc[:n]
	}
	out := make([]WeightedTerm, 0, len(sc))
	for _, s := range sc {
		out = append(out, WeightedTerm{Term: terms[s.idx], Weight: s.w})
	}
	return out
}
