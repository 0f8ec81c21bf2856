// Package parser implements the parser interface and registry (C1): turn
// raw file bytes into normalized text, structured metadata, and a keyword
// list, selected by file extension.
package parser

import "time"

// FileInfo carries filesystem-derived facts about the parsed file.
type FileInfo struct {
	Name  string
	Size  int64
	Ext   string
	CTime time.Time
	MTime time.Time
	Hash  string
}

// Result is the single contract every parser implementation returns.
type Result struct {
	Success      bool
	Content      string
	Metadata     map[string]any
	Keywords     []string
	FileInfo     FileInfo
	Stats        map[string]any
	ErrorMessage string
}

// Parser turns one file's bytes into a Result.
type Parser interface {
	// Extensions lists the lowercase, dot-prefixed extensions this parser
	// handles (e.g. ".md").
	Extensions() []string
	Parse(path string) (*Result, error)
}
