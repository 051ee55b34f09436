package steps

import (
	"math"
	"sort"
	"strconv"
)

// representativeMemberCount is how many leading members (assumed
// most-representative, per topic-model ordering) anchor a topic in time.
const representativeMemberCount = 3

// OrderTopicsChronologically sequences topic ids by the earliest original
// position among each topic's first three members. Unparsable positions are
// skipped; a topic with no parsable position sorts last. Ties break by
// ascending TopicID, so the order is deterministic given stable input
// ordering. The topics themselves are never mutated.
func OrderTopicsChronologically(topics map[TopicID]*Topic) []TopicID {
	type anchored struct {
		id  TopicID
		pos float64
	}
	out := make([]anchored, 0, len(topics))
	for _, id := range sortedTopicIDs(topics) {
		t := topics[id]
		earliest := math.Inf(1)
		n := len(t.Members)
		if n > representativeMemberCount {
			n = representativeMemberCount
		}
		for i := 0; i < n; i++ {
			p, err := strconv.Atoi(t.Members[i].Position)
			if err != nil {
				continue
			}
			if float64(p) < earliest {
				earliest = float64(p)
			}
		}
		out = append(out, anchored{id: id, pos: earliest})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].pos < out[j].pos })
	ids := make([]TopicID, len(out))
	for i, a := range out {
		ids[i] = a.id
	}
	return ids
}
