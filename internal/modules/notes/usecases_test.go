package notes

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/studyforge/studyforge-backend/internal/modules/notes/steps"
)

// fakeEmbedder assigns deterministic unit vectors from a rolling byte hash.
type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i, s := range inputs {
		var h uint32 = 2166136261
		for _, b := range []byte(s) {
			h ^= uint32(b)
			h *= 16777619
		}
		out[i] = []float32{
			1 + float32(h%997)/997,
			1 + float32((h/997)%997)/997,
			1 + float32((h/994009)%997)/997,
		}
	}
	return out, nil
}

// fakeLLM answers every heading/expansion prompt with more blocks than any
// test needs; parsers truncate to the requested count.
type fakeLLM struct {
	tokensPerCall int
	calls         int
}

func (f *fakeLLM) GenerateText(_ context.Context, system, user string) (string, int, error) {
	f.calls++
	block := "Concept: sample concept\nHeading: Sample Heading\nSummary: A sample summary.\n- Sample bullet\n  - Sample sub bullet"
	blocks := make([]string, 12)
	for i := range blocks {
		blocks[i] = block
	}
	return strings.Join(blocks, "\n|||\n"), f.tokensPerCall, nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ExpandNotes = false
	return cfg
}

func lectureChunks() []steps.Chunk {
	texts := []string{
		"Derivatives measure the instantaneous rate of change of a function near a point",
		"Integrals accumulate quantities and compute the area under a curve precisely",
		"The fundamental theorem of calculus links derivatives and integrals together",
		"Limits formalize what it means for function values to approach a target",
		"Neurons transmit electrical signals called action potentials along their axons",
		"Synapses release neurotransmitters that carry signals between adjacent neurons",
		"Dendrites receive incoming chemical signals and convert them to voltage changes",
		"Myelin sheaths insulate axons and dramatically speed up signal conduction",
		"um okay so like",
		"and the of to a",
	}
	chunks := make([]steps.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = steps.Chunk{Position: strconv.Itoa(i), Text: text}
	}
	return chunks
}

func TestProcessEmptyInput(t *testing.T) {
	u := New(UsecasesDeps{Embedder: fakeEmbedder{}, LLM: &fakeLLM{}, Config: testConfig()})
	doc, err := u.Process(context.Background(), nil, "empty.txt")
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if doc.NumChunks != 0 || doc.NumTopics != 0 || doc.TotalTokensUsed != 0 {
		t.Fatalf("want zeroed document, got %+v", doc)
	}
	if doc.Segments == nil || doc.Clusters == nil || doc.Topics == nil {
		t.Fatal("empty document must have non-nil collections")
	}
}

func TestProcessPreservesEveryChunk(t *testing.T) {
	chunks := lectureChunks()
	llm := &fakeLLM{tokensPerCall: 50}
	u := New(UsecasesDeps{Embedder: fakeEmbedder{}, LLM: llm, Config: testConfig()})

	doc, err := u.Process(context.Background(), chunks, "lecture.txt")
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if doc.NumChunks != len(chunks) {
		t.Fatalf("NumChunks = %d, want %d", doc.NumChunks, len(chunks))
	}
	seen := map[string]bool{}
	for _, c := range doc.Segments {
		seen[c.Position] = true
	}
	for _, c := range chunks {
		if !seen[c.Position] {
			t.Fatalf("chunk %s missing from segments", c.Position)
		}
	}
}

func TestProcessSegmentsSortedByPosition(t *testing.T) {
	chunks := lectureChunks()
	u := New(UsecasesDeps{Embedder: fakeEmbedder{}, LLM: &fakeLLM{}, Config: testConfig()})

	doc, err := u.Process(context.Background(), chunks, "")
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	for i := 1; i < len(doc.Segments); i++ {
		prev, _ := strconv.Atoi(doc.Segments[i-1].Position)
		cur, _ := strconv.Atoi(doc.Segments[i].Position)
		if prev > cur {
			t.Fatalf("segments out of order at %d: %s > %s", i, doc.Segments[i-1].Position, doc.Segments[i].Position)
		}
	}
}

func TestProcessTopicMirrorsMatch(t *testing.T) {
	chunks := lectureChunks()
	u := New(UsecasesDeps{Embedder: fakeEmbedder{}, LLM: &fakeLLM{tokensPerCall: 9}, Config: testConfig()})

	doc, err := u.Process(context.Background(), chunks, "")
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if doc.NumTopics != len(doc.Clusters) {
		t.Fatalf("NumTopics %d != clusters %d", doc.NumTopics, len(doc.Clusters))
	}
	if len(doc.Topics) != len(doc.Clusters) {
		t.Fatalf("mirror map has %d entries for %d clusters", len(doc.Topics), len(doc.Clusters))
	}
	for _, view := range doc.Clusters {
		mirrored, ok := doc.Topics[view.ClusterID]
		if !ok {
			t.Fatalf("cluster %s missing from mirror map", view.ClusterID)
		}
		if mirrored.Heading != view.Heading {
			t.Fatalf("mirror mismatch for %s", view.ClusterID)
		}
		if _, ok := steps.ParseTopicID(view.ClusterID); !ok {
			t.Fatalf("cluster id %q not parsable", view.ClusterID)
		}
	}
	if doc.Meta.TokensUsed != doc.TotalTokensUsed {
		t.Fatalf("token mirrors disagree: %d vs %d", doc.Meta.TokensUsed, doc.TotalTokensUsed)
	}
}

func TestProcessTopicsGetHeadingsAndStats(t *testing.T) {
	chunks := lectureChunks()
	u := New(UsecasesDeps{Embedder: fakeEmbedder{}, LLM: &fakeLLM{tokensPerCall: 11}, Config: testConfig()})

	doc, err := u.Process(context.Background(), chunks, "")
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if len(doc.Clusters) == 0 {
		t.Fatal("want at least one topic from a two-subject lecture")
	}
	for _, view := range doc.Clusters {
		if view.Heading == "" {
			t.Fatalf("cluster %s has empty heading", view.ClusterID)
		}
		if view.Stats.ChunkCount != len(view.SegmentPositions) {
			t.Fatalf("cluster %s stats count %d != positions %d",
				view.ClusterID, view.Stats.ChunkCount, len(view.SegmentPositions))
		}
		if view.Stats.MinWords > view.Stats.MaxWords {
			t.Fatalf("cluster %s has min %d > max %d", view.ClusterID, view.Stats.MinWords, view.Stats.MaxWords)
		}
	}
	if doc.TotalTokensUsed != 11 {
		t.Fatalf("TotalTokensUsed = %d, want 11 (one heading call)", doc.TotalTokensUsed)
	}
}

func TestProcessExpandNotesAddsTokensAndBullets(t *testing.T) {
	chunks := lectureChunks()
	cfg := testConfig()
	cfg.ExpandNotes = true
	llm := &fakeLLM{tokensPerCall: 10}
	u := New(UsecasesDeps{Embedder: fakeEmbedder{}, LLM: llm, Config: cfg})

	doc, err := u.Process(context.Background(), chunks, "")
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if llm.calls != 2 {
		t.Fatalf("want 2 LLM calls (headings + expansion), got %d", llm.calls)
	}
	if doc.TotalTokensUsed != 20 {
		t.Fatalf("TotalTokensUsed = %d, want 20", doc.TotalTokensUsed)
	}
	for _, view := range doc.Clusters {
		if len(view.Examples) == 0 {
			t.Fatalf("cluster %s missing bullet expansion", view.ClusterID)
		}
	}
}

func TestProcessUninformativeChunksSurviveAsNoise(t *testing.T) {
	chunks := lectureChunks()
	u := New(UsecasesDeps{Embedder: fakeEmbedder{}, LLM: &fakeLLM{}, Config: testConfig()})

	doc, err := u.Process(context.Background(), chunks, "")
	if err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if doc.Meta.NumNoise < 2 {
		t.Fatalf("filler chunks should land in noise, NumNoise = %d", doc.Meta.NumNoise)
	}
	assigned := map[string]bool{}
	for _, view := range doc.Clusters {
		for _, p := range view.SegmentPositions {
			assigned[p] = true
		}
	}
	if assigned["8"] || assigned["9"] {
		t.Fatal("uninformative chunks must not be topic members")
	}
}

func TestProcessTranscriptEndToEnd(t *testing.T) {
	text := "Derivatives measure change. Integrals accumulate area. Neurons fire action potentials. Synapses carry neurotransmitters."
	u := New(UsecasesDeps{Embedder: fakeEmbedder{}, LLM: &fakeLLM{}, Config: testConfig()})

	doc, err := u.ProcessTranscript(context.Background(), text, "short.txt")
	if err != nil {
		t.Fatalf("ProcessTranscript error: %v", err)
	}
	joined := strings.Join(strings.Fields(text), " ")
	var got []string
	for _, c := range doc.Segments {
		got = append(got, c.Text)
	}
	if strings.Join(strings.Fields(strings.Join(got, " ")), " ") != joined {
		t.Fatalf("transcript words not preserved through the pipeline:\nwant %q\ngot  %q", joined, strings.Join(got, " "))
	}
}
