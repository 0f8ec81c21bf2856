package search

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// QueryHash computes a deterministic digest over the normalized query plus
// every filter parameter, used as the query-cache key (spec.md §3
// QueryCacheEntry). Term
// order is preserved (not sorted) since NormalizeQuery is itself
// deterministic for a given input string, and term order is part of what
// makes one query distinct from another.
func QueryHash(terms []string, fileType, sortBy string, limit int) string {
	h := sha256.New()
	fmt.Fprintf(h, "terms=%s|file_type=%s|sort=%s|limit=%d",
		strings.Join(terms, " "), fileType, sortBy, limit)
	return hex.EncodeToString(h.Sum(nil))
}
