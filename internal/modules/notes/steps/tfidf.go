package steps

import (
	"fmt"
	"math"
	"sort"
	"strings"

	pkgerrors "github.com/studyforge/studyforge-backend/internal/pkg/errors"
)

// TFIDFOptions tunes the lexical vectorizer. Zero values resolve to:
// MaxFeatures 2000, MinDF 1, unigrams+bigrams.
type TFIDFOptions struct {
	MaxFeatures int
	MinDF       int
	NGramMax    int
}

func (o TFIDFOptions) withDefaults() TFIDFOptions {
	if o.MaxFeatures <= 0 {
		o.MaxFeatures = 2000
	}
	if o.MinDF <= 0 {
		o.MinDF = 1
	}
	if o.NGramMax <= 0 {
		o.NGramMax = 2
	}
	return o
}

// tfidfTokens produces stopword-filtered unigrams and, when nGramMax >= 2,
// adjacent bigrams over the surviving unigrams.
func tfidfTokens(text string, nGramMax int) []string {
	var uni []string
	for _, tok := range strings.Fields(text) {
		w := normalizeToken(tok)
		if w == "" || isStopword(w) {
			continue
		}
		uni = append(uni, w)
	}
	if nGramMax < 2 {
		return uni
	}
	out := make([]string, 0, len(uni)*2)
	out = append(out, uni...)
	for i := 0; i+1 < len(uni); i++ {
		out = append(out, uni[i]+" "+uni[i+1])
	}
	return out
}

// FitTFIDF builds a TF-IDF representation of docs: document-frequency
// filtered, vocabulary capped by document frequency (lexicographic
// tie-break), rows L2-normalized. Returns ErrCorpusTooSmall when the
// document-frequency filter leaves no vocabulary.
func FitTFIDF(docs []string, opts TFIDFOptions) ([][]float32, []string, error) {
	opts = opts.withDefaults()
	if len(docs) == 0 {
		return nil, nil, fmt.Errorf("fit tfidf: %w", pkgerrors.ErrCorpusTooSmall)
	}

	docTokens := make([][]string, len(docs))
	df := map[string]int{}
	for i, d := range docs {
		toks := tfidfTokens(d, opts.NGramMax)
		docTokens[i] = toks
		seen := map[string]bool{}
		for _, t := range toks {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	type termDF struct {
		term string
		df   int
	}
	kept := make([]termDF, 0, len(df))
	for t, n := range df {
		if n >= opts.MinDF {
			kept = append(kept, termDF{term: t, df: n})
		}
	}
	if len(kept) == 0 {
		return nil, nil, fmt.Errorf("fit tfidf: min_df=%d leaves empty vocabulary over %d docs: %w",
			opts.MinDF, len(docs), pkgerrors.ErrCorpusTooSmall)
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].df != kept[j].df {
			return kept[i].df > kept[j].df
		}
		return kept[i].term < kept[j].term
	})
	if len(kept) > opts.MaxFeatures {
		kept = kept[:opts.MaxFeatures]
	}

	vocab := make(map[string]int, len(kept))
	terms := make([]string, len(kept))
	idf := make([]float64, len(kept))
	n := float64(len(docs))
	for i, td := range kept {
		vocab[td.term] = i
		terms[i] = td.term
		idf[i] = math.Log((1+n)/(1+float64(td.df))) + 1
	}

	rows := make([][]float32, len(docs))
	for i, toks := range docTokens {
		row := make([]float32, len(kept))
		for _, t := range toks {
			if j, ok := vocab[t]; ok {
				row[j]++
			}
		}
		for j := range row {
			row[j] = float32(float64(row[j]) * idf[j])
		}
		rows[i] = normalizeUnit(row)
	}
	return rows, terms, nil
}
