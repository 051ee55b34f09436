package steps

import (
	"errors"
	"math"
	"testing"

	pkgerrors "github.com/studyforge/studyforge-backend/internal/pkg/errors"
)

func TestFitTFIDFEmptyCorpus(t *testing.T) {
	_, _, err := FitTFIDF(nil, TFIDFOptions{})
	if !errors.Is(err, pkgerrors.ErrCorpusTooSmall) {
		t.Fatalf("want ErrCorpusTooSmall for empty corpus, got %v", err)
	}
}

func TestFitTFIDFMinDFTooStrict(t *testing.T) {
	docs := []string{
		"photosynthesis converts light energy",
		"mitochondria produce cellular fuel",
	}
	// No term appears in both docs, so min_df=2 empties the vocabulary.
	_, _, err := FitTFIDF(docs, TFIDFOptions{MinDF: 2})
	if !errors.Is(err, pkgerrors.ErrCorpusTooSmall) {
		t.Fatalf("want ErrCorpusTooSmall for min_df=2 over disjoint docs, got %v", err)
	}
}

func TestFitTFIDFRowsAreUnitNorm(t *testing.T) {
	docs := []string{
		"gradient descent minimizes loss functions",
		"gradient descent uses learning rates",
		"convolution filters detect image features",
	}
	rows, terms, err := FitTFIDF(docs, TFIDFOptions{})
	if err != nil {
		t.Fatalf("FitTFIDF error: %v", err)
	}
	if len(rows) != len(docs) {
		t.Fatalf("want %d rows, got %d", len(docs), len(rows))
	}
	if len(terms) == 0 {
		t.Fatal("want non-empty vocabulary")
	}
	for i, row := range rows {
		if len(row) != len(terms) {
			t.Fatalf("row %d width %d != vocab %d", i, len(row), len(terms))
		}
		var sum float64
		for _, v := range row {
			sum += float64(v) * float64(v)
		}
		if math.Abs(math.Sqrt(sum)-1) > 1e-4 {
			t.Fatalf("row %d norm %f, want 1", i, math.Sqrt(sum))
		}
	}
}

func TestFitTFIDFStopwordsExcluded(t *testing.T) {
	docs := []string{
		"the gradient of the loss",
		"the gradient and the loss",
	}
	_, terms, err := FitTFIDF(docs, TFIDFOptions{NGramMax: 1})
	if err != nil {
		t.Fatalf("FitTFIDF error: %v", err)
	}
	for _, term := range terms {
		if isStopword(term) {
			t.Fatalf("stopword %q leaked into vocabulary", term)
		}
	}
}

func TestFitTFIDFMaxFeaturesCap(t *testing.T) {
	docs := []string{
		"alpha beta gamma delta epsilon",
		"alpha beta gamma delta epsilon zeta",
	}
	_, terms, err := FitTFIDF(docs, TFIDFOptions{MaxFeatures: 3, NGramMax: 1})
	if err != nil {
		t.Fatalf("FitTFIDF error: %v", err)
	}
	if len(terms) != 3 {
		t.Fatalf("want vocabulary capped at 3, got %d: %v", len(terms), terms)
	}
}

func TestTFIDFTokensBigrams(t *testing.T) {
	toks := tfidfTokens("the neural network trains", 2)
	want := map[string]bool{
		"neural": true, "network": true, "trains": true,
		"neural network": true, "network trains": true,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(toks), toks, len(want))
	}
	for _, tok := range toks {
		if !want[tok] {
			t.Fatalf("unexpected token %q", tok)
		}
	}
}
