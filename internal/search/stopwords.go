package search

// stopWords is the fixed list of common English function/filler words
// dropped during keyword extraction, reconciled word-for-word against
// original_source/src/parsers/base.py's STOP_WORDS set. Entries shorter
// than the 3-character token floor (a, an, is, in, on, at, ...) are left
// out: Tokenize never produces a token that short in the first place, so
// they would never match isStopWord.
//
// One deliberate deviation: the original's "go" is NOT carried over here,
// because this indexer's whitelistedShort set re-admits "go" as a
// 2-letter domain keyword (the Go programming language) despite the
// length floor; keeping "go" in stopWords would silently undo that
// whitelist and make the language name unsearchable.
var stopWords = buildStopWords()

func buildStopWords() map[string]struct{} {
	words := []string{
		"the", "and", "but", "for", "with", "from", "this", "that", "these", "those",
		"are", "was", "were", "been", "being", "have", "has", "had", "does", "did",
		"will", "would", "could", "should", "may", "might", "can", "shall",
		"his", "her", "its", "their", "our", "your", "she", "they", "you", "him", "them",
		"who", "what", "when", "where", "why", "how", "which", "whom", "whose",
		"all", "any", "each", "few", "more", "most", "other", "some", "such",
		"nor", "not", "only", "own", "same", "too", "very", "just", "now", "get",
		"make", "take", "come", "see", "know", "think", "look", "use", "find",
		"give", "tell", "work", "become", "leave", "feel", "put", "mean", "keep",
		"let", "begin", "seem", "help", "talk", "turn", "start", "show", "hear",
		"play", "run", "move", "like", "live", "believe", "hold", "bring", "happen",
		"write", "provide", "sit", "stand", "lose", "pay", "meet", "include", "continue",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// whitelistedShort are keywords shorter than the length-3 minimum that are
// kept anyway because they carry domain meaning.
var whitelistedShort = map[string]struct{}{
	"c": {}, "r": {}, "go": {}, "js": {}, "ai": {}, "ml": {}, "ui": {}, "ux": {},
}

func isStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

func isWhitelistedShort(w string) bool {
	_, ok := whitelistedShort[w]
	return ok
}
