package parser

import (
	"bufio"
	"io"

	"github.com/seojindev/minwon/internal/document"
)

// TextParser handles plain text files, typically raw OCR dumps.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) ([]document.PageText, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return paginate(lines), nil
}
