package retrieval

import "strings"

// Chunk splits text into overlapping windows of size runes. A window that
// would cut mid-text is shortened to end after its last ". " when that
// falls past the window's midpoint. Consecutive windows share at most
// overlap runes and never more than half of the earlier window, so every
// step moves forward. Chunks are whitespace-trimmed and empty chunks are
// dropped.
func Chunk(text string, size, overlap int) []string {
	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(text)
	var chunks []string

	for start := 0; start < len(runes); {
		end := min(start+size, len(runes))
		window := runes[start:end]

		if end < len(runes) {
			if cut := lastSentenceBreak(window); cut > size/2 {
				window = window[:cut+1]
				end = start + cut + 1
			}
		}

		if chunk := strings.TrimSpace(string(window)); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= len(runes) {
			break
		}
		start = end - min(overlap, (end-start)/2)
	}

	return chunks
}

func lastSentenceBreak(window []rune) int {
	for i := len(window) - 2; i >= 0; i-- {
		if window[i] == '.' && window[i+1] == ' ' {
			return i
		}
	}
	return -1
}
