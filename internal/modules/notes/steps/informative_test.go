package steps

import "testing"

func TestIsInformative(t *testing.T) {
	cases := []struct {
		name string
		text string
		want bool
	}{
		{name: "all_stopwords", text: "and the of to a", want: false},
		{name: "technical_sentence", text: "Neural networks train via backpropagation efficiently", want: true},
		{name: "empty", text: "", want: false},
		{name: "whitespace_only", text: "   \t\n  ", want: false},
		{name: "punctuation_only", text: "... !!! ???", want: false},
		{name: "too_few_words", text: "gradient descent", want: false},
		{name: "mostly_stopwords", text: "it is the and of a to in on gradient", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsInformative(tc.text, 5, 0.75); got != tc.want {
				t.Fatalf("IsInformative(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestIsInformativeCaseInsensitive(t *testing.T) {
	if IsInformative("AND THE OF TO A", 2, 0.75) {
		t.Fatal("uppercase stopwords should still be filtered")
	}
}
