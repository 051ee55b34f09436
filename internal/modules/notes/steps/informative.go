package steps

import "strings"

// IsInformative reports whether a chunk carries enough topical signal to be
// worth modeling: at least minWords real words, and a stopword fraction no
// greater than maxStopwordRatio. Case-insensitive. Empty, whitespace-only,
// and punctuation-only text is never informative.
func IsInformative(text string, minWords int, maxStopwordRatio float64) bool {
	var words []string
	for _, tok := range strings.Fields(text) {
		if w := normalizeToken(tok); w != "" {
			words = append(words, w)
		}
	}
	if len(words) == 0 || len(words) < minWords {
		return false
	}
	stop := 0
	for _, w := range words {
		if isStopword(w) {
			stop++
		}
	}
	return float64(stop)/float64(len(words)) <= maxStopwordRatio
}
