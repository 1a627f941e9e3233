package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_Deterministic(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog ", 100)
	first := Split(text, 1000, 100)
	second := Split(text, 1000, 100)
	require.Equal(t, first, second)
}

func TestSplit_OverlapAndBoundaries(t *testing.T) {
	text := strings.Repeat("a", 250)
	chunks := Split(text, 100, 20)
	require.Len(t, chunks, 3)
	require.Len(t, chunks[0], 100)
	require.Len(t, chunks[1], 100)
	// step is 80, so the final window starts at 160 and runs out of text
	require.Len(t, chunks[2], 90)

	// consecutive windows share the trailing/leading overlap
	require.Equal(t, chunks[0][80:], chunks[1][:20])
}

func TestSplit_ShortInputSingleChunk(t *testing.T) {
	chunks := Split("short text", 1000, 100)
	require.Equal(t, []string{"short text"}, chunks)
}

func TestSplit_EmptyInput(t *testing.T) {
	require.Nil(t, Split("", 1000, 100))
}

func TestSplit_MultibyteRunesNotCut(t *testing.T) {
	text := strings.Repeat("日本語テキスト", 50)
	chunks := Split(text, 100, 10)
	for _, c := range chunks {
		require.True(t, strings.ContainsRune("日本語テキスト", []rune(c)[0]))
		require.Equal(t, c, string([]rune(c)))
	}
	// windows are rune-sized, not byte-sized
	require.Len(t, []rune(chunks[0]), 100)
}

func TestSplit_InvalidOverlapIgnored(t *testing.T) {
	text := strings.Repeat("x", 30)
	chunks := Split(text, 10, 10)
	require.Len(t, chunks, 3)
	for _, c := range chunks {
		require.Len(t, c, 10)
	}
}

func TestTruncateTokens_OverBudget(t *testing.T) {
	words := make([]string, 9000)
	for i := range words {
		words[i] = "w"
	}
	out := TruncateTokens(strings.Join(words, " "), 7500)
	require.Len(t, strings.Fields(out), 7500)
}

func TestTruncateTokens_UnderBudgetUnchanged(t *testing.T) {
	text := "one two  three"
	require.Equal(t, text, TruncateTokens(text, 7500))
}

func TestTruncateTokens_KeepsLeadingTokens(t *testing.T) {
	out := TruncateTokens("first second third fourth", 2)
	require.Equal(t, "first second", out)
}
