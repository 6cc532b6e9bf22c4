// Package fingerprint computes the two hashes the ingestion pipeline uses to
// decide whether a fetched item is new, refreshed or substantively changed.
//
// ContentHash covers the raw identity fields byte-for-byte and detects any
// re-fetch difference. NormalizedHash covers a case-folded,
// whitespace-collapsed projection of the text fields and detects substantive
// wording changes only. Both are pure functions of their inputs.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// sep keeps field boundaries unambiguous inside the hashed byte stream, so
// ("ab","c") never collides with ("a","bc").
const sep = "\x1f"

// ContentHash returns a stable hex digest over the raw fetched fields.
func ContentHash(source, sourceItemID, titleRaw, summaryRaw, textRaw string) string {
	return digest(source, sourceItemID, titleRaw, summaryRaw, textRaw)
}

// NormalizedHash returns a stable hex digest over the normalized projection
// of title+summary+text. The effective date is deliberately excluded.
func NormalizedHash(titleRaw, summaryRaw, textRaw string) string {
	return digest(Normalize(titleRaw), Normalize(summaryRaw), Normalize(textRaw))
}

// Normalize lower-cases the input and collapses all runs of whitespace to a
// single space, trimming the ends.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func digest(fields ...string) string {
	h := sha256.New()
	for i, f := range fields {
		if i > 0 {
			h.Write([]byte(sep))
		}
		h.Write([]byte(f))
	}
	return hex.EncodeToString(h.Sum(nil))
}
