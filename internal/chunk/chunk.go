// Package chunk holds the pure text-windowing helpers shared by the
// ingestion and query pipelines. Both functions are deterministic: the same
// input and parameters always produce the same output, which the stored
// chunk ordering depends on.
package chunk

import "strings"

const (
	DefaultSize    = 1000
	DefaultOverlap = 100
)

// Split cuts text into windows of size runes, each sharing overlap runes
// with its predecessor. The final window may be shorter. Boundaries are
// rune-based so multi-byte text never splits mid-character.
func Split(text string, size, overlap int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	runes := []rune(text)
	step := size - overlap
	chunks := make([]string, 0, (len(runes)+step-1)/step)
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// TruncateTokens keeps the first max whitespace-delimited tokens of text.
// This is an approximation, not a subword tokenizer; the cap exists to keep
// the assembled context inside the completion model's window.
func TruncateTokens(text string, max int) string {
	if max <= 0 {
		return ""
	}
	tokens := strings.Fields(text)
	if len(tokens) <= max {
		return text
	}
	return strings.Join(tokens[:max], " ")
}
