package steps

import (
	"fmt"
	"strconv"
	"strings"
)

// Chunk is the atomic unit of transcript text the pipeline operates on.
// Position is a stringified integer index that is unique per document and
// monotonically increasing in original order.
type Chunk struct {
	Position string `json:"position"`
	Text     string `json:"text"`
}

// TopicID is a composite key identifying a topic by its source partition and
// the partition-local label. It replaces a flat integer encoding so the
// number of partitions and topics per partition is unbounded.
type TopicID struct {
	Partition int
	Local     int
}

func (id TopicID) String() string {
	return fmt.Sprintf("p%d.t%d", id.Partition, id.Local)
}

// Less orders TopicIDs by partition, then local label. Used wherever a
// deterministic iteration order over a topic map is required.
func (id TopicID) Less(other TopicID) bool {
	if id.Partition != other.Partition {
		return id.Partition < other.Partition
	}
	return id.Local < other.Local
}

// ParseTopicID is the inverse of TopicID.String.
func ParseTopicID(s string) (TopicID, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "p") {
		return TopicID{}, false
	}
	rest := strings.TrimPrefix(s, "p")
	parts := strings.SplitN(rest, ".t", 2)
	if len(parts) != 2 {
		return TopicID{}, false
	}
	p, err1 := strconv.Atoi(parts[0])
	l, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return TopicID{}, false
	}
	return TopicID{Partition: p, Local: l}, true
}

// Bullet is one study-note line. Sub bullets nest at most one level deeper
// (overall depth 2).
type Bullet struct {
	Text string   `json:"text"`
	Sub  []Bullet `json:"sub,omitempty"`
}

// TopicStats are descriptive statistics over a topic's member chunks.
type TopicStats struct {
	ChunkCount int     `json:"chunk_count"`
	MinWords   int     `json:"min_words"`
	MeanWords  float64 `json:"mean_words"`
	MaxWords   int     `json:"max_words"`
}

// Topic groups semantically coherent chunks with generated study metadata.
// Members keep their original relative order; only the rebalancer moves
// chunks between topics.
type Topic struct {
	ID       TopicID
	Members  []Chunk
	Keywords []string
	Concepts []string
	Heading  string
	Summary  string
	Examples []Bullet
	Stats    TopicStats
}

// ClusterView is the serialized shape of a topic in the result document.
type ClusterView struct {
	ClusterID        string     `json:"cluster_id"`
	Heading          string     `json:"heading"`
	Concepts         []string   `json:"concepts"`
	SegmentPositions []string   `json:"segment_positions"`
	Keywords         []string   `json:"keywords"`
	Examples         []Bullet   `json:"examples"`
	Stats            TopicStats `json:"stats"`
	Summary          string     `json:"summary"`
}

// ResultMeta carries aggregate counters for one processed document.
type ResultMeta struct {
	NumSegments int `json:"num_segments"`
	NumClusters int `json:"num_clusters"`
	NumNoise    int `json:"num_noise"`
	TokensUsed  int `json:"tokens_used"`
}

// ResultDocument is the final pipeline output. Segments hold every input
// chunk (topic-assigned and noise) sorted by integer position; the legacy
// top-level mirrors are kept for existing consumers of the JSON artifact.
type ResultDocument struct {
	Segments []Chunk       `json:"segments"`
	Clusters []ClusterView `json:"clusters"`
	Meta     ResultMeta    `json:"meta"`

	NumChunks       int                    `json:"num_chunks"`
	NumTopics       int                    `json:"num_topics"`
	TotalTokensUsed int                    `json:"total_tokens_used"`
	Topics          map[string]ClusterView `json:"topics"`
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
