package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentHashStable(t *testing.T) {
	a := ContentHash("usfr", "item-1", "Title", "Summary", "Text body")
	b := ContentHash("usfr", "item-1", "Title", "Summary", "Text body")
	require.Equal(t, a, b, "byte-identical raw data must hash identically")
}

func TestContentHashDiscriminatesAnyByte(t *testing.T) {
	base := ContentHash("usfr", "item-1", "Title", "Summary", "Text body")

	assert.NotEqual(t, base, ContentHash("usfr", "item-1", "Title", "Summary", "Text  body"))
	assert.NotEqual(t, base, ContentHash("usfr", "item-1", "title", "Summary", "Text body"))
	assert.NotEqual(t, base, ContentHash("usfr", "item-2", "Title", "Summary", "Text body"))
	assert.NotEqual(t, base, ContentHash("cpdb", "item-1", "Title", "Summary", "Text body"))
}

func TestContentHashFieldBoundaries(t *testing.T) {
	// Concatenation across field boundaries must not collide.
	a := ContentHash("s", "ab", "c", "", "")
	b := ContentHash("s", "a", "bc", "", "")
	assert.NotEqual(t, a, b)
}

func TestNormalizedHashIgnoresCosmeticChanges(t *testing.T) {
	a := NormalizedHash("EU Disclosure Rule", "A summary.", "Companies must report emissions.")
	b := NormalizedHash("  eu   DISCLOSURE rule ", "A  summary.", "Companies\tmust\nreport   emissions.")
	assert.Equal(t, a, b, "whitespace and case differences are cosmetic")
}

func TestNormalizedHashDetectsWordingChanges(t *testing.T) {
	a := NormalizedHash("EU Disclosure Rule", "A summary.", "Companies must report emissions.")
	b := NormalizedHash("EU Disclosure Rule", "A summary.", "Companies may report emissions.")
	assert.NotEqual(t, a, b, "substantive wording change must alter the hash")
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  Hello   World ", "hello world"},
		{"A\tB\nC", "a b c"},
		{"MiXeD Case", "mixed case"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(tc.in))
	}
}
