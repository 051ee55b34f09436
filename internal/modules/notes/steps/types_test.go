package steps

import "testing"

func TestTopicIDString(t *testing.T) {
	id := TopicID{Partition: 1, Local: 4}
	if id.String() != "p1.t4" {
		t.Fatalf("TopicID.String() = %q, want %q", id.String(), "p1.t4")
	}
}

func TestParseTopicIDRoundTrip(t *testing.T) {
	want := TopicID{Partition: 2, Local: 17}
	got, ok := ParseTopicID(want.String())
	if !ok || got != want {
		t.Fatalf("ParseTopicID(%q) = %v, %v", want.String(), got, ok)
	}
}

func TestParseTopicIDRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "p1", "t4", "p1t4", "px.ty", "1.4"} {
		if _, ok := ParseTopicID(s); ok {
			t.Fatalf("ParseTopicID(%q) accepted garbage", s)
		}
	}
}

func TestTopicIDLess(t *testing.T) {
	a := TopicID{Partition: 0, Local: 5}
	b := TopicID{Partition: 1, Local: 0}
	c := TopicID{Partition: 1, Local: 2}
	if !a.Less(b) || !b.Less(c) || c.Less(a) {
		t.Fatal("TopicID ordering broken")
	}
}

func TestWordCount(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{text: "", want: 0},
		{text: "   ", want: 0},
		{text: "one", want: 1},
		{text: "one  two\tthree\nfour", want: 4},
	}
	for _, tc := range cases {
		if got := WordCount(tc.text); got != tc.want {
			t.Fatalf("WordCount(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestComputeTopicStats(t *testing.T) {
	topic := &Topic{
		Members: []Chunk{
			{Position: "0", Text: "one two three"},
			{Position: "1", Text: "one two three four five"},
			{Position: "2", Text: "one"},
		},
	}
	ComputeTopicStats(topic)
	if topic.Stats.ChunkCount != 3 {
		t.Fatalf("ChunkCount = %d, want 3", topic.Stats.ChunkCount)
	}
	if topic.Stats.MinWords != 1 || topic.Stats.MaxWords != 5 {
		t.Fatalf("min/max = %d/%d, want 1/5", topic.Stats.MinWords, topic.Stats.MaxWords)
	}
	if topic.Stats.MeanWords != 3 {
		t.Fatalf("MeanWords = %f, want 3", topic.Stats.MeanWords)
	}
}

func TestComputeTopicStatsEmptyTopic(t *testing.T) {
	topic := &Topic{}
	ComputeTopicStats(topic)
	if topic.Stats.ChunkCount != 0 || topic.Stats.MeanWords != 0 {
		t.Fatalf("empty topic stats should be zero, got %+v", topic.Stats)
	}
	ComputeTopicStats(nil) // must not panic
}

func TestCosineSimilarity(t *testing.T) {
	if got := cosineSimilarity([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Fatalf("orthogonal similarity = %f, want 0", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{1, 0}); got < 0.999 {
		t.Fatalf("identical similarity = %f, want 1", got)
	}
	if got := cosineSimilarity(nil, []float32{1}); got != 0 {
		t.Fatalf("mismatched lengths must score 0, got %f", got)
	}
	if got := cosineSimilarity([]float32{0, 0}, []float32{0, 0}); got != 0 {
		t.Fatalf("zero vectors must score 0, got %f", got)
	}
}
