package index

import "strings"

const (
	// DefaultWindow is the chunk length in runes.
	DefaultWindow = 1000
	// DefaultOverlap is how many runes consecutive chunks share.
	DefaultOverlap = 100
)

// SplitText splits text into overlapping windows of at most window runes,
// each sharing overlap runes with its predecessor. Requires overlap < window.
// Whitespace-only input yields no chunks.
//
// Windows are measured in runes, not bytes, so multi-byte text never gets cut
// mid-character.
func SplitText(text string, window, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= window {
		return []string{text}
	}

	step := window - overlap
	chunks := make([]string, 0, (len(runes)+step-1)/step)
	for start := 0; start < len(runes); start += step {
		end := start + window
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
