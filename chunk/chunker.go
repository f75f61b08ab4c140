package chunk

import "strings"

const (
	// DefaultSize is the default chunk window size in characters.
	DefaultSize = 500

	// DefaultOverlap is the default number of characters shared between
	// consecutive chunks.
	DefaultOverlap = 75

	// minKeepLen is the minimum trimmed length for a chunk to be kept.
	// Shorter fragments are usually OCR noise.
	minKeepLen = 50

	// boundaryFraction is how far into the window a sentence boundary must
	// fall to be preferred over a plain space cut.
	boundaryFraction = 0.7
)

// sentence terminators searched for, in no particular priority: the
// right-most match wins.
var sentenceEnds = []string{". ", "? ", "! "}

// Span is one chunk of a page's text with its character offsets into the
// original page text. Offsets are rune-based and refer to the span before
// whitespace trimming.
type Span struct {
	Text      string
	CharStart int
	CharEnd   int
}

// Split cuts text into overlapping spans of roughly size characters,
// preferring to cut at sentence boundaries, then at word boundaries, and
// only mid-word as a last resort. Spans whose trimmed text is 50 characters
// or shorter are dropped. The result is deterministic for identical inputs.
//
// overlap must be non-negative and strictly below size.
func Split(text string, size, overlap int) ([]Span, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if overlap < 0 || overlap >= size {
		return nil, ErrInvalidOverlap
	}

	runes := []rune(text)
	length := len(runes)

	var spans []Span
	start := 0
	for start < length {
		end := start + size

		if end < length {
			if cut := lastSentenceEnd(runes, start, end); cut > start+int(float64(size)*boundaryFraction) {
				// Keep the terminator inside the chunk.
				end = cut + 1
			} else if space := lastIndexRune(runes, start, end, ' '); space > start {
				end = space
			}
		} else {
			end = length
		}

		trimmed := strings.TrimSpace(string(runes[start:end]))
		if len([]rune(trimmed)) > minKeepLen {
			spans = append(spans, Span{Text: trimmed, CharStart: start, CharEnd: end})
		}

		next := end - overlap
		if next <= start {
			// Degenerate boundary cut, advance past the window instead of
			// looping forever.
			next = end
		}
		start = next
	}

	return spans, nil
}

// lastSentenceEnd returns the right-most index in [start, end) where a
// sentence terminator begins, or -1.
func lastSentenceEnd(runes []rune, start, end int) int {
	best := -1
	for _, term := range sentenceEnds {
		if idx := lastIndexSeq(runes, start, end, []rune(term)); idx > best {
			best = idx
		}
	}
	return best
}

// lastIndexSeq returns the right-most index in [start, end) where seq
// begins. The full sequence must fit inside [start, end).
func lastIndexSeq(runes []rune, start, end int, seq []rune) int {
	for i := end - len(seq); i >= start; i-- {
		match := true
		for j, r := range seq {
			if runes[i+j] != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// lastIndexRune returns the right-most index of r in [start, end), or -1.
func lastIndexRune(runes []rune, start, end int, r rune) int {
	for i := end - 1; i >= start; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
