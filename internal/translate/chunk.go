package translate

import "strings"

// SplitIntoChunks splits text into pieces of at most maxSize characters,
// preferring paragraph boundaries so translations stay coherent. A single
// paragraph longer than maxSize becomes its own oversized chunk; the API
// rejects it rather than us corrupting it mid-sentence.
func SplitIntoChunks(text string, maxSize int) []string {
	var chunks []string
	current := ""

	for _, paragraph := range strings.Split(text, "\n\n") {
		if len(current)+len(paragraph)+2 <= maxSize {
			if current != "" {
				current += "\n\n"
			}
			current += paragraph
		} else {
			if current != "" {
				chunks = append(chunks, current)
			}
			current = paragraph
		}
	}

	if current != "" {
		chunks = append(chunks, current)
	}

	return chunks
}
