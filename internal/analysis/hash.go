package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// ContentHash derives the cache key for a repository analysis from the
// repository URL and its last-pushed marker. Both identify the analysed
// state of the repository and are stable across resubmissions; nothing
// derived from "now" may ever go into this hash.
func ContentHash(repoURL string, lastPushed time.Time) string {
	normalized := strings.TrimSuffix(strings.TrimSpace(strings.ToLower(repoURL)), "/")
	sum := sha256.Sum256([]byte(normalized + "|" + lastPushed.UTC().Format(time.RFC3339)))
	return hex.EncodeToString(sum[:])
}
