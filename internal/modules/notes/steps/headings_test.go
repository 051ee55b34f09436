package steps

import (
	"context"
	"strings"
	"testing"
)

type scriptedLLM struct {
	text   string
	tokens int
	err    error

	lastSystem string
	lastUser   string
	calls      int
}

func (s *scriptedLLM) GenerateText(_ context.Context, system, user string) (string, int, error) {
	s.calls++
	s.lastSystem = system
	s.lastUser = user
	return s.text, s.tokens, s.err
}

func TestParseTopicTriples(t *testing.T) {
	raw := `Concept: backpropagation, chain rule
Heading: Training Neural Networks
Summary: How gradients flow backward through layers.
|||
Concepts: synapses
Heading: Neural Communication
Summary: Signal transfer between neurons.`

	got := parseTopicTriples(raw, 2)
	if len(got) != 2 {
		t.Fatalf("want 2 triples, got %d", len(got))
	}
	if got[0].heading != "Training Neural Networks" {
		t.Fatalf("bad heading: %q", got[0].heading)
	}
	if len(got[0].concepts) != 2 || got[0].concepts[0] != "backpropagation" {
		t.Fatalf("bad concepts: %v", got[0].concepts)
	}
	if got[1].heading != "Neural Communication" {
		t.Fatalf("plural Concepts: prefix not handled: %+v", got[1])
	}
}

func TestParseTopicTriplesPadsShortOutput(t *testing.T) {
	raw := "Heading: Only One\nSummary: single block"
	got := parseTopicTriples(raw, 3)
	if len(got) != 3 {
		t.Fatalf("want 3 triples, got %d", len(got))
	}
	if got[1].heading != defaultHeading || got[2].heading != defaultHeading {
		t.Fatalf("missing blocks must pad with %q: %+v", defaultHeading, got)
	}
}

func TestParseTopicTriplesConceptsCappedAtThree(t *testing.T) {
	raw := "Concept: a, b, c, d, e\nHeading: H\nSummary: S"
	got := parseTopicTriples(raw, 1)
	if len(got[0].concepts) != 3 {
		t.Fatalf("concepts must cap at 3, got %v", got[0].concepts)
	}
}

func TestGenerateTopicHeadingsSingleCall(t *testing.T) {
	a := TopicID{Partition: 0, Local: 0}
	b := TopicID{Partition: 0, Local: 1}
	topics := map[TopicID]*Topic{
		a: topicWithMembers(a, []int{0, 1}, "derivatives and limits"),
		b: topicWithMembers(b, []int{2, 3}, "neurons and synapses"),
	}
	topics[a].Keywords = []string{"derivative", "limit"}
	llm := &scriptedLLM{
		text: `Concept: calculus
Heading: Rates of Change
Summary: Derivatives and limits.
|||
Concept: neuroscience
Heading: Brain Signaling
Summary: How neurons communicate.`,
		tokens: 42,
	}

	tokens, err := GenerateTopicHeadings(context.Background(), llm, []TopicID{a, b}, topics, nil)
	if err != nil {
		t.Fatalf("GenerateTopicHeadings error: %v", err)
	}
	if llm.calls != 1 {
		t.Fatalf("want exactly one LLM call, got %d", llm.calls)
	}
	if tokens != 42 {
		t.Fatalf("want 42 tokens, got %d", tokens)
	}
	if topics[a].Heading != "Rates of Change" || topics[b].Heading != "Brain Signaling" {
		t.Fatalf("headings not applied: %q / %q", topics[a].Heading, topics[b].Heading)
	}
	if !strings.Contains(llm.lastUser, "Keywords: derivative, limit") {
		t.Fatalf("prompt missing keywords: %q", llm.lastUser)
	}
}

func TestGenerateTopicHeadingsEmptyTopicsNoCall(t *testing.T) {
	llm := &scriptedLLM{}
	tokens, err := GenerateTopicHeadings(context.Background(), llm, nil, map[TopicID]*Topic{}, nil)
	if err != nil || tokens != 0 {
		t.Fatalf("want no-op, got tokens=%d err=%v", tokens, err)
	}
	if llm.calls != 0 {
		t.Fatal("no topics must mean no LLM call")
	}
}

func TestParseBullets(t *testing.T) {
	block := `- Top level one
  - Sub one
  - Sub two
- Top level two
not a bullet line
- Top level three`

	got := parseBullets(block)
	if len(got) != 3 {
		t.Fatalf("want 3 top-level bullets, got %d: %+v", len(got), got)
	}
	if len(got[0].Sub) != 2 {
		t.Fatalf("want 2 sub-bullets under the first, got %d", len(got[0].Sub))
	}
	if got[0].Sub[1].Text != "Sub two" {
		t.Fatalf("bad sub bullet: %q", got[0].Sub[1].Text)
	}
	if len(got[1].Sub) != 0 {
		t.Fatalf("unexpected sub bullets: %+v", got[1].Sub)
	}
}

func TestExpandTopicNotes(t *testing.T) {
	a := TopicID{Partition: 0, Local: 0}
	topics := map[TopicID]*Topic{
		a: topicWithMembers(a, []int{0}, "thermodynamics"),
	}
	llm := &scriptedLLM{text: "- Entropy always increases\n  - In closed systems", tokens: 7}

	tokens, err := ExpandTopicNotes(context.Background(), llm, []TopicID{a}, topics, nil)
	if err != nil {
		t.Fatalf("ExpandTopicNotes error: %v", err)
	}
	if tokens != 7 {
		t.Fatalf("want 7 tokens, got %d", tokens)
	}
	if len(topics[a].Examples) != 1 || len(topics[a].Examples[0].Sub) != 1 {
		t.Fatalf("bullets not applied: %+v", topics[a].Examples)
	}
}

func TestTruncateTextCutsAtWordBoundary(t *testing.T) {
	got := truncateText("alpha beta gamma", 12)
	if got != "alpha beta" {
		t.Fatalf("want cut at word boundary, got %q", got)
	}
}
