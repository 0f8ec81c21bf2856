package search

import (
	"regexp"
	"strings"
)

// tokenPattern matches the indexing tokenizer's word shape: ASCII letters
// only, length >= 3 (Tokenize lowercases each match). Short whitelisted
// terms are re-admitted
// separately since this pattern alone would drop them.
var tokenPattern = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)

// shortTokenPattern additionally catches the 1-2 letter whitelisted terms
// (c, r, go, js, ai, ml, ui, ux) that tokenPattern's length floor excludes.
var shortTokenPattern = regexp.MustCompile(`\b[a-zA-Z]{1,2}\b`)

// Token is one occurrence of a keyword at a token position.
type Token struct {
	Keyword  string
	Position int
}

// Tokenize extracts indexable keywords from content: lowercase words of
// length >= 3 (plus whitelisted short terms), stop-words dropped, in
// left-to-right order with stable positions counted across the whole
// match stream (so "c" and "program" interleave with correct relative
// order).
func Tokenize(content string) []Token {
	type rawMatch struct {
		start int
		word  string
	}
	var raw []rawMatch

	for _, loc := range tokenPattern.FindAllStringIndex(content, -1) {
		raw = append(raw, rawMatch{start: loc[0], word: strings.ToLower(content[loc[0]:loc[1]])})
	}
	for _, loc := range shortTokenPattern.FindAllStringIndex(content, -1) {
		word := strings.ToLower(content[loc[0]:loc[1]])
		if isWhitelistedShort(word) {
			raw = append(raw, rawMatch{start: loc[0], word: word})
		}
	}

	// Sort by byte offset so positions reflect reading order regardless of
	// which pattern produced the match.
	for i := 1; i < len(raw); i++ {
		for j := i; j > 0 && raw[j-1].start > raw[j].start; j-- {
			raw[j-1], raw[j] = raw[j], raw[j-1]
		}
	}

	tokens := make([]Token, 0, len(raw))
	position := 0
	for _, m := range raw {
		if !isWhitelistedShort(m.word) && len(m.word) < 3 {
			continue
		}
		if isStopWord(m.word) {
			position++
			continue
		}
		tokens = append(tokens, Token{Keyword: m.word, Position: position})
		position++
	}
	return tokens
}

// NormalizeQuery collapses whitespace, lowercases, splits on whitespace,
// and drops terms shorter than 2 characters unless whitelisted short.
// Returns an empty slice if no term survives.
func NormalizeQuery(query string) []string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= 2 || isWhitelistedShort(f) {
			terms = append(terms, f)
		}
	}
	return terms
}
