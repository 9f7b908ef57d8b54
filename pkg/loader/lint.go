package loader

import (
	"fmt"
	"strings"
)

// Problem describes a block that Parse accepts but that probably does not
// do what its author intended
type Problem struct {
	Block    int    // 1-based block number
	Question string // Parsed question, for orientation
	Message  string
}

func (p Problem) String() string {
	if p.Question == "" {
		return fmt.Sprintf("block %d: %s", p.Block, p.Message)
	}
	return fmt.Sprintf("block %d (%q): %s", p.Block, p.Question, p.Message)
}

// Lint reports the malformed blocks of content
func Lint(content string) []Problem {
	var problems []Problem

	for i, block := range Blocks(content) {
		lines := strings.Split(block, "\n")
		rec := parseBlock(block)

		report := func(format string, args ...any) {
			problems = append(problems, Problem{
				Block:    i + 1,
				Question: rec.Question,
				Message:  fmt.Sprintf(format, args...),
			})
		}

		if !strings.HasPrefix(strings.TrimSpace(lines[0]), QuestionMarker) {
			report("first line does not start with %s", QuestionMarker)
		}
		if rec.Question == "" {
			report("empty question")
		}

		if len(lines) < 2 {
			report("missing keyword line, record never matches")
			continue
		}
		if !strings.HasPrefix(strings.TrimSpace(lines[1]), KeywordMarker) {
			report("second line does not start with %s", KeywordMarker)
		}
		for _, kw := range rec.Keywords {
			if kw == "" {
				report("empty keyword matches every query")
				break
			}
		}

		if rec.Answer == "" {
			report("missing answer")
		}
	}

	return problems
}
