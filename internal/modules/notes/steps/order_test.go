package steps

import "testing"

func TestOrderTopicsChronologically(t *testing.T) {
	t1 := TopicID{Partition: 0, Local: 0}
	t2 := TopicID{Partition: 0, Local: 1}
	topics := map[TopicID]*Topic{
		t1: topicWithMembers(t1, []int{5, 6, 7}, "late topic"),
		t2: topicWithMembers(t2, []int{0, 1, 2}, "early topic"),
	}
	got := OrderTopicsChronologically(topics)
	if len(got) != 2 {
		t.Fatalf("want 2 ids, got %d", len(got))
	}
	if got[0] != t2 || got[1] != t1 {
		t.Fatalf("want [%s %s], got [%s %s]", t2, t1, got[0], got[1])
	}
}

func TestOrderTopicsChronologicallyOnlyFirstThreeMembersAnchor(t *testing.T) {
	a := TopicID{Partition: 0, Local: 0}
	b := TopicID{Partition: 0, Local: 1}
	topics := map[TopicID]*Topic{
		// Position 0 is beyond the first three members and must not anchor.
		a: topicWithMembers(a, []int{10, 11, 12, 0}, "alpha"),
		b: topicWithMembers(b, []int{5, 6, 7}, "beta"),
	}
	got := OrderTopicsChronologically(topics)
	if got[0] != b {
		t.Fatalf("want %s first, got %s", b, got[0])
	}
}

func TestOrderTopicsChronologicallyUnparsablePositionsSortLast(t *testing.T) {
	a := TopicID{Partition: 0, Local: 0}
	b := TopicID{Partition: 0, Local: 1}
	topics := map[TopicID]*Topic{
		a: {ID: a, Members: []Chunk{{Position: "x", Text: "alpha"}, {Position: "y", Text: "beta"}}},
		b: topicWithMembers(b, []int{3}, "gamma"),
	}
	got := OrderTopicsChronologically(topics)
	if got[0] != b || got[1] != a {
		t.Fatalf("topic without parsable positions must sort last, got [%s %s]", got[0], got[1])
	}
}

func TestOrderTopicsChronologicallyTiesBreakByTopicID(t *testing.T) {
	a := TopicID{Partition: 0, Local: 1}
	b := TopicID{Partition: 0, Local: 0}
	topics := map[TopicID]*Topic{
		a: topicWithMembers(a, []int{4}, "alpha"),
		b: topicWithMembers(b, []int{4}, "beta"),
	}
	got := OrderTopicsChronologically(topics)
	if got[0] != b || got[1] != a {
		t.Fatalf("equal anchors must order by ascending TopicID, got [%s %s]", got[0], got[1])
	}
}
