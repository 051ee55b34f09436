package steps

// ComputeTopicStats fills a topic's descriptive statistics from its current
// members: chunk count and min/mean/max word counts.
func ComputeTopicStats(t *Topic) {
	if t == nil {
		return
	}
	if len(t.Members) == 0 {
		t.Stats = TopicStats{}
		return
	}
	min := WordCount(t.Members[0].Text)
	max := min
	sum := 0
	for _, c := range t.Members {
		w := WordCount(c.Text)
		if w < min {
			min = w
		}
		if w > max {
			max = w
		}
		sum += w
	}
	t.Stats = TopicStats{
		ChunkCount: len(t.Members),
		MinWords:   min,
		MeanWords:  float64(sum) / float64(len(t.Members)),
		MaxWords:   max,
	}
}
