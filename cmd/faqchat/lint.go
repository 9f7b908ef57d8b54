package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/perbu/faqchat/pkg/loader"
)

// ErrLintProblems is returned when the FAQ file has problems.
var ErrLintProblems = errors.New("FAQ file has problems")

// Run executes the lint command.
func (c *LintCmd) Run(deps *Dependencies) error {
	content, err := os.ReadFile(deps.FAQFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", deps.FAQFile, err)
	}

	problems := loader.Lint(string(content))
	for _, p := range problems {
		fmt.Fprintf(deps.Stdout, "%s: %s\n", deps.FAQFile, p)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %d found", ErrLintProblems, len(problems))
	}

	fmt.Fprintf(deps.Stdout, "%s: %d records, no problems\n", deps.FAQFile, len(loader.Parse(string(content))))
	return nil
}
