package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScoreIdentical(t *testing.T) {
	t.Parallel()
	require.Equal(t, 100, Score("Passport Application", "Passport Application"))
	require.Equal(t, 100, Score("passport application", "PASSPORT APPLICATION"))
	require.Equal(t, 100, Score("", ""))
}

func TestScoreSpellingVariant(t *testing.T) {
	t.Parallel()
	// one edit over 25 chars stays well above the 80 threshold
	s := Score("Aadhar Card Registration", "Aadhaar Card Registration")
	require.Greater(t, s, 80)
}

func TestScoreUnrelated(t *testing.T) {
	t.Parallel()
	require.Less(t, Score("zzzzzz", "PAN Card Application"), 50)
}

func TestScoreEmptyAgainstNonEmpty(t *testing.T) {
	t.Parallel()
	require.Equal(t, 0, Score("", "anything"))
}

func TestScoreCountsRunesNotBytes(t *testing.T) {
	t.Parallel()
	// "आधार" and "पैन" share no runes: distance 4 over 4 runes is a
	// flat 0. A byte-length denominator (12 for the three-byte
	// Devanagari runes) would inflate this to 67.
	require.Equal(t, 0, Score("आधार", "पैन"))

	// one edit over 5 runes
	require.Equal(t, 80, Score("आधारx", "आधार"))
}

func TestBestMatch(t *testing.T) {
	t.Parallel()
	candidates := []string{
		"Aadhaar Card Registration",
		"PAN Card Application",
		"Passport Application",
	}

	best, score := BestMatch("passport aplication", candidates)
	require.Equal(t, "Passport Application", best)
	require.Greater(t, score, 80)
}

func TestBestMatchEmptyCandidates(t *testing.T) {
	t.Parallel()
	best, score := BestMatch("anything", nil)
	require.Equal(t, "", best)
	require.Equal(t, 0, score)
}

func TestBestMatchTieKeepsEarlier(t *testing.T) {
	t.Parallel()
	best, score := BestMatch("ab", []string{"ac", "ad"})
	require.Equal(t, "ac", best)
	require.Equal(t, 50, score)
}

func TestBestMatchDeterministic(t *testing.T) {
	t.Parallel()
	candidates := []string{"GST Registration", "Marriage Registration"}
	b1, s1 := BestMatch("registration", candidates)
	b2, s2 := BestMatch("registration", candidates)
	require.Equal(t, b1, b2)
	require.Equal(t, s1, s2)
}
