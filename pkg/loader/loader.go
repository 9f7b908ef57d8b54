package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/perbu/faqchat/pkg/faq"
)

// Markers that prefix the lines of a FAQ block
const (
	QuestionMarker = "Q:"
	KeywordMarker  = "K:"
	AnswerMarker   = "A:"
)

// LoadFile reads and parses the FAQ file at path.
// A missing file is not an error, it yields no records.
func LoadFile(path string) ([]faq.Record, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []faq.Record{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(string(content)), nil
}

// LoadFS reads and parses a FAQ file from fsys, with the same missing file
// behaviour as LoadFile
func LoadFS(fsys fs.FS, name string) ([]faq.Record, error) {
	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []faq.Record{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return Parse(string(content)), nil
}

// Parse splits content into blank-line separated blocks and turns each
// block into a record. The first line of a block is the question, the
// second the comma separated keywords and the rest the answer. Blocks with
// fewer lines get empty keywords and answer.
func Parse(content string) []faq.Record {
	blocks := Blocks(content)

	records := make([]faq.Record, 0, len(blocks))
	for _, block := range blocks {
		records = append(records, parseBlock(block))
	}
	return records
}

// Blocks returns the trimmed, non-empty blocks of content in source order
func Blocks(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSpace(content)

	var blocks []string
	for _, b := range strings.Split(content, "\n\n") {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		blocks = append(blocks, b)
	}
	return blocks
}

func parseBlock(block string) faq.Record {
	lines := strings.Split(block, "\n")

	rec := faq.Record{
		Question: strings.TrimSpace(strings.ReplaceAll(lines[0], QuestionMarker, "")),
	}

	if len(lines) > 1 {
		rec.Keywords = ParseKeywords(lines[1])
	}

	if len(lines) > 2 {
		answer := make([]string, 0, len(lines)-2)
		for _, line := range lines[2:] {
			answer = append(answer, strings.TrimSpace(line))
		}
		rec.Answer = strings.TrimSpace(strings.ReplaceAll(strings.Join(answer, "\n"), AnswerMarker, ""))
	}

	return rec
}

// ParseKeywords turns a keyword line into trimmed, lowercase keywords.
// An empty line gives a single empty keyword.
func ParseKeywords(line string) []string {
	line = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(line, KeywordMarker, "")))

	parts := strings.Split(line, ",")
	keywords := make([]string, len(parts))
	for i, p := range parts {
		keywords[i] = strings.TrimSpace(p)
	}
	return keywords
}
