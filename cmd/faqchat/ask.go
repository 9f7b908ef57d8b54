package main

import (
	"fmt"
	"strings"

	"github.com/perbu/faqchat/pkg/chat"
	"github.com/perbu/faqchat/pkg/faq"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	query := strings.Join(c.Query, " ")

	if c.Verbose {
		fmt.Fprintf(deps.Stdout, "[DEBUG] Loaded %d FAQ records from %s\n", len(deps.Records), deps.FAQFile)
		if m, ok := deps.Generator.(interface{ ModelInfo() string }); ok {
			fmt.Fprintf(deps.Stdout, "[DEBUG] Completion model: %s\n", m.ModelInfo())
		}
		fmt.Fprintf(deps.Stdout, "[DEBUG] Matching query: %q\n", query)
	}

	results := faq.Match(query, deps.Records)

	if c.Verbose {
		fmt.Fprintf(deps.Stdout, "[DEBUG] Found %d matching records\n\n", len(results))
	}

	if len(results) > 0 {
		listed := faq.Top(results, c.Top)
		fmt.Fprintf(deps.Stdout, "Found %d results:\n\n", len(results))
		for i, result := range listed {
			fmt.Fprintf(deps.Stdout, "Score: %d | %s\n", result.Score, result.Record.Question)
			if c.Full {
				fmt.Fprintf(deps.Stdout, "\n%s\n", result.Record.Answer)
				if i < len(listed)-1 {
					fmt.Fprintln(deps.Stdout, "\n"+strings.Repeat("-", 80)+"\n")
				}
			}
		}
		fmt.Fprintln(deps.Stdout)
	}

	a := deps.Assistant()

	turn, err := a.Respond(deps.Ctx, chat.NewSession("cli"), query)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		return err
	}

	if c.Verbose {
		fmt.Fprintf(deps.Stdout, "[DEBUG] Answer source: %s\n", turn.Source)
	}

	fmt.Fprintln(deps.Stdout, turn.Answer)
	return nil
}
