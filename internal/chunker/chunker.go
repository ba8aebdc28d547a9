// Package chunker splits long texts into offset-tracked windows small
// enough for the remote NER backends, which cap their input length.
package chunker

import "unicode/utf8"

// Config controls chunking behavior.
type Config struct {
	MaxRunes int // Upper bound per chunk, in runes.
}

// DefaultConfig returns the default backend input budget.
func DefaultConfig() Config {
	return Config{MaxRunes: 2000}
}

// Chunk is a contiguous window of the source text. Start is the byte
// offset of Text within the source, so entity offsets reported against a
// chunk shift back into document coordinates by adding Start.
type Chunk struct {
	Text  string
	Start int
}

// Split cuts text into chunks of at most cfg.MaxRunes runes, preferring
// newline and sentence boundaries. Chunks are verbatim, contiguous, and
// non-overlapping: concatenating them reproduces the input exactly, and
// text[c.Start:c.Start+len(c.Text)] == c.Text for every chunk.
func Split(text string, cfg Config) []Chunk {
	if cfg.MaxRunes <= 0 {
		cfg.MaxRunes = DefaultConfig().MaxRunes
	}
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) <= cfg.MaxRunes {
		return []Chunk{{Text: text, Start: 0}}
	}

	segs := segment(text)

	var chunks []Chunk
	chunkStart := 0
	chunkRunes := 0
	cursor := 0 // byte offset of the end of the last consumed segment

	flush := func(end int) {
		if end > chunkStart {
			chunks = append(chunks, Chunk{Text: text[chunkStart:end], Start: chunkStart})
		}
		chunkStart = end
		chunkRunes = 0
	}

	for _, s := range segs {
		n := utf8.RuneCountInString(text[s.start:s.end])
		if n > cfg.MaxRunes {
			// A single oversized segment: flush what we have, then
			// hard-split the segment at rune boundaries.
			flush(s.start)
			hardSplit(text, s.start, s.end, cfg.MaxRunes, &chunks)
			chunkStart = s.end
			cursor = s.end
			continue
		}
		if chunkRunes+n > cfg.MaxRunes && chunkRunes > 0 {
			flush(s.start)
		}
		chunkRunes += n
		cursor = s.end
	}
	flush(cursor)

	return chunks
}

type span struct {
	start, end int
}

// segment cuts text after newlines and after sentence-final periods
// followed by a space, returning contiguous byte spans that cover the
// whole input.
func segment(text string) []span {
	var spans []span
	start := 0
	prev := rune(0)
	for i, r := range text {
		if prev == '\n' || (prev == '.' && r == ' ') {
			spans = append(spans, span{start, i})
			start = i
		}
		prev = r
	}
	if start < len(text) {
		spans = append(spans, span{start, len(text)})
	}
	return spans
}

func hardSplit(text string, start, end, maxRunes int, chunks *[]Chunk) {
	from := start
	count := 0
	for i := start; i < end; {
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
		count++
		if count == maxRunes {
			*chunks = append(*chunks, Chunk{Text: text[from:i], Start: from})
			from = i
			count = 0
		}
	}
	if from < end {
		*chunks = append(*chunks, Chunk{Text: text[from:end], Start: from})
	}
}
