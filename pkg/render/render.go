// Package render turns FAQ records and conversation turns into display
// values. It holds no business logic.
package render

import (
	"strings"

	"github.com/perbu/faqchat/pkg/chat"
	"github.com/perbu/faqchat/pkg/faq"
)

// Closing is appended to every answer taken from the FAQ
const Closing = "Let me know if you need more help 😊"

// FAQAnswer is the answer shown when r is the best match of a query
func FAQAnswer(r faq.Record) string {
	var sb strings.Builder
	sb.WriteString(r.Question)
	sb.WriteString("\n\n")
	if r.Answer != "" {
		sb.WriteString(r.Answer)
		sb.WriteString("\n\n")
	}
	sb.WriteString(Closing)
	return sb.String()
}

// Exchange is one turn as shown on the page
type Exchange struct {
	You       string
	Assistant string
	Source    chat.Source
}

// Transcript returns the turns newest first
func Transcript(turns []chat.Turn) []Exchange {
	exchanges := make([]Exchange, 0, len(turns))
	for i := len(turns) - 1; i >= 0; i-- {
		exchanges = append(exchanges, Exchange{
			You:       turns[i].Query,
			Assistant: turns[i].Answer,
			Source:    turns[i].Source,
		})
	}
	return exchanges
}

// Entry is one FAQ record as listed on the page
type Entry struct {
	Question string
	Answer   string
}

// Entries lists the records in FAQ order
func Entries(records []faq.Record) []Entry {
	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, Entry{Question: r.Question, Answer: r.Answer})
	}
	return entries
}
