package faq

// Record is one entry of the FAQ resource
type Record struct {
	Question string   // Canonical question shown to the user
	Keywords []string // Lowercase keywords matched as substrings of the query
	Answer   string   // Answer text, may span several lines
}

// Result pairs a record with its keyword match score
type Result struct {
	Score  int
	Record Record
}
