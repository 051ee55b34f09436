package steps

import (
	"math"
	"sort"

	"github.com/studyforge/studyforge-backend/internal/platform/logger"
)

func sortedTopicIDs(topics map[TopicID]*Topic) []TopicID {
	ids := make([]TopicID, 0, len(topics))
	for id := range topics {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

// RedistributeLargeTopics moves chunks out of topics holding more than
// maxTopicPercentage of all topic-assigned chunks. Single pass: every
// eviction is planned against the pre-redistribution map, so a topic sheds
// chunks at most once per call and is not re-checked after receiving chunks
// evicted elsewhere. Within an oversized topic the members least similar to
// the topic's own centroid leave first; each goes to whichever other topic's
// centroid it matches best, ties broken by ascending TopicID. A topic is
// never emptied. Any failure returns the original map unchanged with the
// cause logged.
func RedistributeLargeTopics(topics map[TopicID]*Topic, maxTopicPercentage float64, log *logger.Logger) map[TopicID]*Topic {
	if len(topics) < 2 {
		return topics
	}
	if maxTopicPercentage <= 0 || maxTopicPercentage > 1 {
		maxTopicPercentage = DefaultMaxTopicPercentage
	}

	ids := sortedTopicIDs(topics)
	total := 0
	for _, id := range ids {
		total += len(topics[id].Members)
	}
	maxChunksPerTopic := int(math.Floor(float64(total) * maxTopicPercentage))

	var oversized []TopicID
	for _, id := range ids {
		if len(topics[id].Members) > maxChunksPerTopic {
			oversized = append(oversized, id)
		}
	}
	if len(oversized) == 0 {
		return topics
	}

	// Vectorize across the entire topic map so all centroids share one space.
	var texts []string
	for _, id := range ids {
		for _, c := range topics[id].Members {
			texts = append(texts, c.Text)
		}
	}
	rows, _, err := FitTFIDF(texts, TFIDFOptions{MaxFeatures: 2000, MinDF: 1, NGramMax: 2})
	if err != nil {
		if log != nil {
			log.Warn("topic redistribution vectorization failed, keeping original topics", "error", err)
		}
		return topics
	}

	vecsByTopic := map[TopicID][][]float32{}
	r := 0
	for _, id := range ids {
		for range topics[id].Members {
			vecsByTopic[id] = append(vecsByTopic[id], rows[r])
			r++
		}
	}
	centroids := map[TopicID][]float32{}
	for _, id := range ids {
		mean, ok := meanVector(vecsByTopic[id])
		if !ok {
			if log != nil {
				log.Warn("topic redistribution centroid failed, keeping original topics", "topic", id.String())
			}
			return topics
		}
		centroids[id] = mean
	}

	// Plan phase: decide every move against the snapshot before mutating.
	type move struct {
		from TopicID
		idx  int
		to   TopicID
	}
	var moves []move
	for _, id := range oversized {
		members := topics[id].Members
		excess := len(members) - maxChunksPerTopic
		if excess >= len(members) {
			excess = len(members) - 1
		}
		if excess <= 0 {
			continue
		}

		// Least-representative members first.
		type scored struct {
			idx int
			sim float64
		}
		sc := make([]scored, len(members))
		for i := range members {
			sc[i] = scored{idx: i, sim: cosineSimilarity(vecsByTopic[id][i], centroids[id])}
		}
		sort.Slice(sc, func(i, j int) bool {
			if sc[i].sim != sc[j].sim {
				return sc[i].sim < sc[j].sim
			}
			return sc[i].idx < sc[j].idx
		})

		for i := 0; i < excess; i++ {
			idx := sc[i].idx
			best := TopicID{}
			bestSim := math.Inf(-1)
			for _, other := range ids {
				if other == id {
					continue
				}
				if s := cosineSimilarity(vecsByTopic[id][idx], centroids[other]); s > bestSim {
					bestSim = s
					best = other
				}
			}
			moves = append(moves, move{from: id, idx: idx, to: best})
		}
	}

	// Apply phase.
	evicted := map[TopicID]map[int]bool{}
	for _, mv := range moves {
		if evicted[mv.from] == nil {
			evicted[mv.from] = map[int]bool{}
		}
		evicted[mv.from][mv.idx] = true
		topics[mv.to].Members = append(topics[mv.to].Members, topics[mv.from].Members[mv.idx])
		if log != nil {
			log.Debug("chunk reassigned from oversized topic",
				"from", mv.from.String(), "to", mv.to.String(),
				"position", topics[mv.from].Members[mv.idx].Position)
		}
	}
	for id, gone := range evicted {
		var kept []Chunk
		for i, c := range topics[id].Members {
			if !gone[i] {
				kept = append(kept, c)
			}
		}
		topics[id].Members = kept
	}
	return topics
}
