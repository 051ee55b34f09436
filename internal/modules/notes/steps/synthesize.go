package steps

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/studyforge/studyforge-backend/internal/pkg/errors"
	"github.com/studyforge/studyforge-backend/internal/platform/logger"
)

// DefaultMaxTopicPercentage caps a single topic's share of a partition's
// chunks before redistribution kicks in.
const DefaultMaxTopicPercentage = 0.6

// SynthesisResult is the per-partition topic-discovery output.
type SynthesisResult struct {
	Topics map[TopicID]*Topic
	Noise  []Chunk
	Model  TopicModel
}

// SynthesizeTopics runs topic discovery over one partition. The minimum topic
// size scales with the partition (len/5 clamped to [2,10]). The first attempt
// uses a min_df=2 vectorizer; if the corpus is too small for that filter it
// retries once with min_df=1 and minimum topic size 2. Any other failure
// propagates. Unassigned chunks land in the noise set. When more than one
// topic results, oversized topics are rebalanced before returning.
func SynthesizeTopics(ctx context.Context, model TopicModel, chunks []Chunk, partition int, maxTopicPercentage float64, log *logger.Logger) (SynthesisResult, error) {
	res := SynthesisResult{Topics: map[TopicID]*Topic{}, Model: model}
	if len(chunks) == 0 {
		return res, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	minTopicSize := clampInt(len(chunks)/5, 2, 10)
	labels, _, err := model.FitTransform(ctx, texts, TopicModelOptions{MinTopicSize: minTopicSize, MinDF: 2})
	if errors.Is(err, pkgerrors.ErrCorpusTooSmall) {
		if log != nil {
			log.Warn("topic model corpus too small for min_df=2, retrying with looser vectorizer",
				"partition", partition, "chunks", len(chunks))
		}
		labels, _, err = model.FitTransform(ctx, texts, TopicModelOptions{MinTopicSize: 2, MinDF: 1})
	}
	if err != nil {
		return res, fmt.Errorf("topic discovery for partition %d: %w", partition, err)
	}
	if len(labels) != len(chunks) {
		return res, fmt.Errorf("topic discovery for partition %d: %d labels for %d chunks", partition, len(labels), len(chunks))
	}

	for i, c := range chunks {
		if labels[i] == NoiseLabel {
			res.Noise = append(res.Noise, c)
			continue
		}
		id := TopicID{Partition: partition, Local: labels[i]}
		t := res.Topics[id]
		if t == nil {
			t = &Topic{ID: id}
			for _, wt := range model.Topic(labels[i]) {
				t.Keywords = append(t.Keywords, wt.Term)
			}
			res.Topics[id] = t
		}
		t.Members = append(t.Members, c)
	}

	if len(res.Topics) > 1 {
		res.Topics = RedistributeLargeTopics(res.Topics, maxTopicPercentage, log)
	}
	return res, nil
}
