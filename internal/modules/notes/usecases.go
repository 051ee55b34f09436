package notes

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/studyforge/studyforge-backend/internal/modules/notes/steps"
	"github.com/studyforge/studyforge-backend/internal/platform/logger"
)

// UsecasesDeps wires the pipeline's collaborators. TopicModelFactory yields a
// fresh engine per partition so per-partition keyword state never leaks.
type UsecasesDeps struct {
	Log *logger.Logger

	Embedder          steps.Embedder
	TopicModelFactory func() steps.TopicModel
	LLM               steps.TextGenerator

	Config Config
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	if deps.TopicModelFactory == nil {
		deps.TopicModelFactory = steps.NewLexicalTopicModel
	}
	return Usecases{deps: deps}
}

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

// ProcessTranscript runs the full pipeline over raw transcript text:
// semantic segmentation, chunk-size optimization, then Process.
func (u Usecases) ProcessTranscript(ctx context.Context, text string, filename string) (*steps.ResultDocument, error) {
	chunks, err := steps.SemanticSegment(ctx, u.deps.Embedder, text, u.deps.Config.SimilarityThreshold)
	if err != nil {
		return nil, fmt.Errorf("segment transcript: %w", err)
	}
	chunks, err = steps.OptimizeChunkSizes(ctx, u.deps.Embedder, chunks,
		u.deps.Config.MinWords, u.deps.Config.MaxWords, u.deps.Config.TargetSize)
	if err != nil {
		return nil, fmt.Errorf("optimize chunks: %w", err)
	}
	return u.Process(ctx, chunks, filename)
}

// Process turns prepared chunks into the result document: informativeness
// filtering, optional pre-clustering into two partitions, per-partition topic
// synthesis (with rebalancing), global chronological ordering, one LLM
// heading call across all topics, per-topic statistics, and assembly. Every
// input chunk surfaces in the result's segments; chunks assigned to no topic
// are preserved as noise rather than dropped.
func (u Usecases) Process(ctx context.Context, chunks []steps.Chunk, filename string) (*steps.ResultDocument, error) {
	log := u.deps.Log
	if log != nil && filename != "" {
		log = log.With("filename", filename)
	}

	if len(chunks) == 0 {
		return emptyResult(), nil
	}

	var informative []steps.Chunk
	var noise []steps.Chunk
	for _, c := range chunks {
		if steps.IsInformative(c.Text, u.deps.Config.MinInformativeWords, u.deps.Config.MaxStopwordRatio) {
			informative = append(informative, c)
		} else {
			noise = append(noise, c)
		}
	}
	if log != nil {
		log.Info("chunks filtered for informativeness",
			"total", len(chunks), "informative", len(informative), "noise", len(noise))
	}

	topics := map[steps.TopicID]*steps.Topic{}
	if len(informative) > 0 {
		partitions := steps.PreClusterChunks(informative,
			u.deps.Config.MinClusterSize, u.deps.Config.MinWordsPerCluster, log)
		if log != nil {
			log.Info("pre-clustering done", "partitions", len(partitions))
		}

		for pi, partition := range partitions {
			res, err := steps.SynthesizeTopics(ctx, u.deps.TopicModelFactory(), partition, pi,
				u.deps.Config.MaxTopicPercentage, log)
			if err != nil {
				return nil, err
			}
			for id, t := range res.Topics {
				topics[id] = t
			}
			noise = append(noise, res.Noise...)
		}
	}

	ordered := steps.OrderTopicsChronologically(topics)

	tokens := 0
	if len(ordered) > 0 && u.deps.LLM != nil {
		n, err := steps.GenerateTopicHeadings(ctx, u.deps.LLM, ordered, topics, log)
		if err != nil {
			return nil, err
		}
		tokens += n
		if u.deps.Config.ExpandNotes {
			n, err = steps.ExpandTopicNotes(ctx, u.deps.LLM, ordered, topics, log)
			if err != nil {
				return nil, err
			}
			tokens += n
		}
	}

	for _, t := range topics {
		steps.ComputeTopicStats(t)
	}

	doc := buildResultDocument(ordered, topics, noise, tokens)
	if log != nil {
		log.Info("notes pipeline complete",
			"segments", doc.Meta.NumSegments,
			"clusters", doc.Meta.NumClusters,
			"noise", doc.Meta.NumNoise,
			"tokens_used", tokens,
		)
	}
	return doc, nil
}

func emptyResult() *steps.ResultDocument {
	return &steps.ResultDocument{
		Segments: []steps.Chunk{},
		Clusters: []steps.ClusterView{},
		Topics:   map[string]steps.ClusterView{},
	}
}

func buildResultDocument(ordered []steps.TopicID, topics map[steps.TopicID]*steps.Topic, noise []steps.Chunk, tokens int) *steps.ResultDocument {
	var segments []steps.Chunk
	for _, id := range ordered {
		segments = append(segments, topics[id].Members...)
	}
	segments = append(segments, noise...)
	sort.SliceStable(segments, func(i, j int) bool {
		pi, ei := strconv.Atoi(segments[i].Position)
		pj, ej := strconv.Atoi(segments[j].Position)
		if ei != nil || ej != nil {
			return segments[i].Position < segments[j].Position
		}
		return pi < pj
	})

	clusters := make([]steps.ClusterView, 0, len(ordered))
	mirror := make(map[string]steps.ClusterView, len(ordered))
	for _, id := range ordered {
		view := topicView(topics[id])
		clusters = append(clusters, view)
		mirror[id.String()] = view
	}

	return &steps.ResultDocument{
		Segments: segments,
		Clusters: clusters,
		Meta: steps.ResultMeta{
			NumSegments: len(segments),
			NumClusters: len(clusters),
			NumNoise:    len(noise),
			TokensUsed:  tokens,
		},
		NumChunks:       len(segments),
		NumTopics:       len(clusters),
		TotalTokensUsed: tokens,
		Topics:          mirror,
	}
}

func topicView(t *steps.Topic) steps.ClusterView {
	positions := make([]string, 0, len(t.Members))
	for _, c := range t.Members {
		positions = append(positions, c.Position)
	}
	return steps.ClusterView{
		ClusterID:        t.ID.String(),
		Heading:          t.Heading,
		Concepts:         t.Concepts,
		SegmentPositions: positions,
		Keywords:         t.Keywords,
		Examples:         t.Examples,
		Stats:            t.Stats,
		Summary:          t.Summary,
	}
}
