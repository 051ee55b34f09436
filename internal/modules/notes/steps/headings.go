package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/studyforge/studyforge-backend/internal/platform/logger"
)

// TextGenerator is the LLM collaborator contract. GenerateText returns the
// generated text plus the total token count the call consumed.
type TextGenerator interface {
	GenerateText(ctx context.Context, system string, user string) (string, int, error)
}

const (
	topicBlockSeparator  = "|||"
	defaultHeading       = "Untitled Topic"
	maxRepresentativeLen = 600
)

const headingsSystemPrompt = `You title study topics from lecture excerpts.
For EACH numbered topic, output exactly three lines:
Concept: one to three key concepts, comma separated
Heading: a short descriptive heading
Summary: a one to three sentence summary
Separate consecutive topics with a line containing only |||. Output nothing else.`

func truncateText(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut
}

func buildHeadingsPrompt(ordered []TopicID, topics map[TopicID]*Topic) string {
	var b strings.Builder
	for n, id := range ordered {
		t := topics[id]
		fmt.Fprintf(&b, "Topic %d:\n", n+1)
		if len(t.Keywords) > 0 {
			fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(t.Keywords, ", "))
		}
		reps := len(t.Members)
		if reps > representativeMemberCount {
			reps = representativeMemberCount
		}
		for i := 0; i < reps; i++ {
			fmt.Fprintf(&b, "- %s\n", truncateText(t.Members[i].Text, maxRepresentativeLen))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// topicTriple is one parsed concept/heading/summary block.
type topicTriple struct {
	concepts []string
	heading  string
	summary  string
}

func parseTopicTriples(raw string, want int) []topicTriple {
	blocks := strings.Split(raw, topicBlockSeparator)
	out := make([]topicTriple, 0, want)
	for _, block := range blocks {
		if len(out) == want {
			break
		}
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		var tr topicTriple
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(line)
			lower := strings.ToLower(line)
			switch {
			case strings.HasPrefix(lower, "concept:"):
				for _, c := range strings.Split(line[len("concept:"):], ",") {
					c = strings.TrimSpace(c)
					if c != "" && len(tr.concepts) < 3 {
						tr.concepts = append(tr.concepts, c)
					}
				}
			case strings.HasPrefix(lower, "concepts:"):
				for _, c := range strings.Split(line[len("concepts:"):], ",") {
					c = strings.TrimSpace(c)
					if c != "" && len(tr.concepts) < 3 {
						tr.concepts = append(tr.concepts, c)
					}
				}
			case strings.HasPrefix(lower, "heading:"):
				tr.heading = strings.TrimSpace(line[len("heading:"):])
			case strings.HasPrefix(lower, "summary:"):
				tr.summary = strings.TrimSpace(line[len("summary:"):])
			}
		}
		out = append(out, tr)
	}
	// Pad short or malformed output with placeholders.
	for len(out) < want {
		out = append(out, topicTriple{})
	}
	for i := range out {
		if strings.TrimSpace(out[i].heading) == "" {
			out[i].heading = defaultHeading
		}
	}
	return out
}

// GenerateTopicHeadings issues one LLM call covering every topic's
// representative chunks and writes the parsed concept/heading/summary triples
// onto the topics. Missing or malformed blocks are padded with placeholder
// metadata rather than failing the document. Returns tokens consumed.
func GenerateTopicHeadings(ctx context.Context, llm TextGenerator, ordered []TopicID, topics map[TopicID]*Topic, log *logger.Logger) (int, error) {
	if len(ordered) == 0 {
		return 0, nil
	}
	raw, tokens, err := llm.GenerateText(ctx, headingsSystemPrompt, buildHeadingsPrompt(ordered, topics))
	if err != nil {
		return 0, fmt.Errorf("generate topic headings: %w", err)
	}
	triples := parseTopicTriples(raw, len(ordered))
	padded := 0
	for i, id := range ordered {
		t := topics[id]
		t.Concepts = triples[i].concepts
		t.Heading = triples[i].heading
		t.Summary = triples[i].summary
		if t.Heading == defaultHeading && t.Summary == "" {
			padded++
		}
	}
	if padded > 0 && log != nil {
		log.Warn("LLM heading output short or malformed, padded with placeholders",
			"topics", len(ordered), "padded", padded)
	}
	return tokens, nil
}

const notesSystemPrompt = `You expand study topics into bullet-point notes from lecture excerpts.
For EACH numbered topic output markdown bullets: top-level bullets start with "- ",
optional sub-bullets are indented two spaces. At most two levels. No prose outside bullets.
Separate consecutive topics with a line containing only |||.`

// parseBullets reads "-" bullets with optional two-space-indented sub
// bullets, capping nesting at depth 2.
func parseBullets(block string) []Bullet {
	var out []Bullet
	for _, line := range strings.Split(block, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "- ") {
			continue
		}
		text := strings.TrimSpace(strings.TrimPrefix(trimmed, "- "))
		if text == "" {
			continue
		}
		indented := strings.HasPrefix(line, "  ") || strings.HasPrefix(line, "\t")
		if indented && len(out) > 0 {
			parent := &out[len(out)-1]
			parent.Sub = append(parent.Sub, Bullet{Text: text})
			continue
		}
		out = append(out, Bullet{Text: text})
	}
	return out
}

// ExpandTopicNotes issues one LLM call producing bullet-point expansions for
// every topic, nested to depth 2. Best-effort: topics whose block is missing
// keep empty examples. Returns tokens consumed.
func ExpandTopicNotes(ctx context.Context, llm TextGenerator, ordered []TopicID, topics map[TopicID]*Topic, log *logger.Logger) (int, error) {
	if len(ordered) == 0 {
		return 0, nil
	}
	raw, tokens, err := llm.GenerateText(ctx, notesSystemPrompt, buildHeadingsPrompt(ordered, topics))
	if err != nil {
		return 0, fmt.Errorf("expand topic notes: %w", err)
	}
	blocks := strings.Split(raw, topicBlockSeparator)
	for i, id := range ordered {
		if i >= len(blocks) {
			break
		}
		topics[id].Examples = parseBullets(blocks[i])
	}
	return tokens, nil
}
