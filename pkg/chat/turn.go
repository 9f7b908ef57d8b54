package chat

import "time"

// Source tells which path produced the answer of a turn
type Source string

const (
	SourceFAQ         Source = "faq"         // A FAQ record matched
	SourceFallback    Source = "fallback"    // The completion service answered
	SourceUnavailable Source = "unavailable" // Nothing matched and no completion service is configured
)

// Turn is one query and its answer
type Turn struct {
	Query    string
	Answer   string
	Source   Source
	Question string // Question of the matched record, empty unless Source is SourceFAQ
	Score    int
	At       time.Time
}
