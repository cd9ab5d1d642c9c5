package extract

import "unicode"

// chunk is a window of the task text with its absolute rune offset.
type chunk struct {
	text   string
	offset int
}

// splitText divides text into chunks of at most maxChars runes.
// Cuts prefer paragraph breaks, then line breaks, then whitespace, and
// only fall back to a hard cut when a window contains none. Boundaries
// in the first half of a window are ignored so pathological inputs
// cannot produce tiny chunks.
func splitText(text string, maxChars int) []chunk {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return []chunk{{text: text, offset: 0}}
	}

	var chunks []chunk
	pos := 0
	for pos < len(runes) {
		remaining := len(runes) - pos
		if remaining <= maxChars {
			chunks = append(chunks, chunk{text: string(runes[pos:]), offset: pos})
			break
		}

		window := runes[pos : pos+maxChars]
		cut := findCut(window)
		chunks = append(chunks, chunk{text: string(window[:cut]), offset: pos})
		pos += cut
	}
	return chunks
}

// findCut returns the rune index to cut a full window at. Preference
// order: paragraph break, line break, sentence end, any whitespace.
func findCut(window []rune) int {
	min := len(window) / 2

	if idx := lastParagraphBreak(window, min); idx > 0 {
		return idx
	}
	for i := len(window) - 1; i > min; i-- {
		if window[i] == '\n' {
			return i + 1
		}
	}
	for i := len(window) - 1; i > min; i-- {
		if isSentenceEnd(window[i]) && i+1 < len(window) && unicode.IsSpace(window[i+1]) {
			return i + 2
		}
	}
	for i := len(window) - 1; i > min; i-- {
		if unicode.IsSpace(window[i]) {
			return i + 1
		}
	}
	return len(window)
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// lastParagraphBreak finds the end of the last "\n\n" pair after min,
// or 0 when the window has none.
func lastParagraphBreak(window []rune, min int) int {
	for i := len(window) - 1; i > min; i-- {
		if window[i] == '\n' && window[i-1] == '\n' {
			return i + 1
		}
	}
	return 0
}
