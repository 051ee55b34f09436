package steps

import (
	"fmt"
	"strconv"
	"testing"
)

func topicWithMembers(id TopicID, positions []int, text string) *Topic {
	t := &Topic{ID: id}
	for _, p := range positions {
		t.Members = append(t.Members, Chunk{
			Position: strconv.Itoa(p),
			Text:     fmt.Sprintf("%s item %d detail", text, p),
		})
	}
	return t
}

func totalMembers(topics map[TopicID]*Topic) int {
	n := 0
	for _, t := range topics {
		n += len(t.Members)
	}
	return n
}

func TestRedistributeLargeTopicsCapsOversized(t *testing.T) {
	big := TopicID{Partition: 0, Local: 0}
	small := TopicID{Partition: 0, Local: 1}
	topics := map[TopicID]*Topic{
		big:   topicWithMembers(big, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, "gradient descent optimization"),
		small: topicWithMembers(small, []int{10, 11}, "neuron synapse biology"),
	}
	before := totalMembers(topics)

	out := RedistributeLargeTopics(topics, 0.6, nil)

	// 12 chunks total, cap = floor(12*0.6) = 7.
	if got := len(out[big].Members); got != 7 {
		t.Fatalf("oversized topic has %d members after redistribution, want 7", got)
	}
	if got := len(out[small].Members); got != 5 {
		t.Fatalf("receiving topic has %d members, want 5", got)
	}
	if totalMembers(out) != before {
		t.Fatalf("chunk count changed: %d != %d", totalMembers(out), before)
	}
}

func TestRedistributeLargeTopicsHalfCap(t *testing.T) {
	a := TopicID{Partition: 0, Local: 0}
	b := TopicID{Partition: 0, Local: 1}
	topics := map[TopicID]*Topic{
		a: topicWithMembers(a, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, "fourier transform frequency"),
		b: topicWithMembers(b, []int{10, 11}, "cell membrane transport"),
	}

	out := RedistributeLargeTopics(topics, 0.5, nil)

	// 12 chunks total, cap = floor(12*0.5) = 6; the 4 evictees all land in
	// the only other topic.
	if got := len(out[a].Members); got != 6 {
		t.Fatalf("oversized topic has %d members after redistribution, want 6", got)
	}
	if got := len(out[b].Members); got != 6 {
		t.Fatalf("receiving topic has %d members, want 6", got)
	}
	if totalMembers(out) != 12 {
		t.Fatalf("chunk count changed: %d", totalMembers(out))
	}
}

func TestRedistributeLargeTopicsSingleTopicNoOp(t *testing.T) {
	only := TopicID{Partition: 0, Local: 0}
	topics := map[TopicID]*Topic{
		only: topicWithMembers(only, []int{0, 1, 2}, "calculus limits"),
	}
	out := RedistributeLargeTopics(topics, 0.6, nil)
	if len(out[only].Members) != 3 {
		t.Fatal("single-topic map must not be rebalanced")
	}
}

func TestRedistributeLargeTopicsNeverEmptiesATopic(t *testing.T) {
	a := TopicID{Partition: 0, Local: 0}
	b := TopicID{Partition: 0, Local: 1}
	// Extreme cap: floor(3*0.34) = 1, topic a excess clamps to count-1.
	topics := map[TopicID]*Topic{
		a: topicWithMembers(a, []int{0, 1}, "entropy thermodynamics"),
		b: topicWithMembers(b, []int{2}, "photosynthesis chlorophyll"),
	}
	out := RedistributeLargeTopics(topics, 0.34, nil)
	for id, topic := range out {
		if len(topic.Members) == 0 {
			t.Fatalf("topic %s was emptied", id.String())
		}
	}
	if totalMembers(out) != 3 {
		t.Fatalf("chunk count changed: %d", totalMembers(out))
	}
}

func TestRedistributeLargeTopicsNoOversizedNoChange(t *testing.T) {
	a := TopicID{Partition: 0, Local: 0}
	b := TopicID{Partition: 0, Local: 1}
	topics := map[TopicID]*Topic{
		a: topicWithMembers(a, []int{0, 1, 2}, "matrix algebra"),
		b: topicWithMembers(b, []int{3, 4, 5}, "organic chemistry"),
	}
	out := RedistributeLargeTopics(topics, 0.6, nil)
	if len(out[a].Members) != 3 || len(out[b].Members) != 3 {
		t.Fatal("balanced topics must be left alone")
	}
}
