package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

func statFile(path string) (FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return FileInfo{
		Name:  info.Name(),
		Size:  info.Size(),
		Ext:   strings.ToLower(filepath.Ext(path)),
		CTime: info.ModTime(), // os.FileInfo has no portable creation time; mtime stands in.
		MTime: info.ModTime(),
	}, nil
}

func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

var keywordPattern = regexp.MustCompile(`\b[a-zA-Z0-9_]+\b`)

const minKeywordLength = 3
const maxKeywords = 50

// extractKeywords does the informational word-frequency pass a parser
// reports in its Result.Keywords — independent of, and coarser than, the
// search engine's own tokenizer that actually builds the inverted index
// from the stored document content.
func extractKeywords(text string) []string {
	counts := make(map[string]int)
	for _, m := range keywordPattern.FindAllString(strings.ToLower(text), -1) {
		if len(m) < minKeywordLength {
			continue
		}
		counts[m]++
	}

	type kv struct {
		word  string
		count int
	}
	all := make([]kv, 0, len(counts))
	for w, c := range counts {
		all = append(all, kv{w, c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].word < all[j].word
	})

	n := len(all)
	if n > maxKeywords {
		n = maxKeywords
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = all[i].word
	}
	return out
}
