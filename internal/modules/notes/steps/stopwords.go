package steps

import "strings"

var stopwordList = []string{
	"a", "about", "above", "after", "again", "against", "all", "am", "an",
	"and", "any", "are", "aren't", "as", "at", "be", "because", "been",
	"before", "being", "below", "between", "both", "but", "by", "can",
	"can't", "cannot", "could", "couldn't", "did", "didn't", "do", "does",
	"doesn't", "doing", "don't", "down", "during", "each", "few", "for",
	"from", "further", "had", "hadn't", "has", "hasn't", "have", "haven't",
	"having", "he", "her", "here", "hers", "herself", "him", "himself",
	"his", "how", "i", "if", "in", "into", "is", "isn't", "it", "its",
	"itself", "just", "let's", "me", "more", "most", "my", "myself", "no",
	"nor", "not", "now", "of", "off", "on", "once", "only", "or", "other",
	"ought", "our", "ours", "ourselves", "out", "over", "own", "same",
	"she", "should", "shouldn't", "so", "some", "such", "than", "that",
	"the", "their", "theirs", "them", "themselves", "then", "there",
	"these", "they", "this", "those", "through", "to", "too", "under",
	"until", "up", "very", "was", "wasn't", "we", "were", "weren't",
	"what", "when", "where", "which", "while", "who", "whom", "why",
	"will", "with", "won't", "would", "wouldn't", "you", "your", "yours",
	"yourself", "yourselves",
}

var stopwords = func() map[string]struct{} {
	m := make(map[string]struct{}, len(stopwordList))
	for _, w := range stopwordList {
		m[w] = struct{}{}
	}
	return m
}()

func isStopword(word string) bool {
	_, ok := stopwords[strings.ToLower(word)]
	return ok
}

// normalizeToken lowercases a token and strips leading/trailing punctuation.
// Returns "" for tokens that are punctuation only.
func normalizeToken(tok string) string {
	tok = strings.ToLower(strings.TrimSpace(tok))
	start := 0
	end := len(tok)
	for start < end && !isWordByte(tok[start]) {
		start++
	}
	for end > start && !isWordByte(tok[end-1]) {
		end--
	}
	return tok[start:end]
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || b == '\'' || b >= 0x80
}
