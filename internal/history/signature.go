package history

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Signature derives a stable identity for a file pair from names and sizes,
// so the same files re-scanned later map onto their saved decisions. Empty
// names contribute nothing; components are sorted so side order can't change
// the result.
func Signature(referenceName string, referenceSize int64, proofName string, proofSize int64) string {
	var components []string
	if referenceName != "" {
		components = append(components, fmt.Sprintf("orig:%s:%d", referenceName, referenceSize))
	}
	if proofName != "" {
		components = append(components, fmt.Sprintf("print:%s:%d", proofName, proofSize))
	}
	sort.Strings(components)

	sum := sha256.Sum256([]byte(strings.Join(components, "|")))
	return hex.EncodeToString(sum[:])[:32]
}
