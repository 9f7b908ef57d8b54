package main

import (
	"fmt"
	"strings"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	if len(deps.Records) == 0 {
		fmt.Fprintf(deps.Stdout, "No FAQ records found in %s.\n", deps.FAQFile)
		return nil
	}

	for i, r := range deps.Records {
		fmt.Fprintf(deps.Stdout, "%d. %s\n", i+1, r.Question)
		fmt.Fprintf(deps.Stdout, "   keywords: %s\n", strings.Join(r.Keywords, ", "))
	}

	return nil
}
