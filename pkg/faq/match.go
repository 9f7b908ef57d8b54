package faq

import (
	"sort"
	"strings"
)

// PointsPerKeyword is added to a record's score for every keyword found in the query
const PointsPerKeyword = 2

// Score counts the record's keywords that occur in the already lowercased query.
// An empty keyword occurs in every query.
func Score(lowerQuery string, r Record) int {
	score := 0
	for _, kw := range r.Keywords {
		if strings.Contains(lowerQuery, kw) {
			score += PointsPerKeyword
		}
	}
	return score
}

// Match scores every record against the query and returns the ones that
// scored above zero, highest first. Records with equal scores keep the
// order they have in records.
func Match(query string, records []Record) []Result {
	lower := strings.ToLower(query)

	results := make([]Result, 0, len(records))
	for _, r := range records {
		score := Score(lower, r)
		if score > 0 {
			results = append(results, Result{
				Score:  score,
				Record: r,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

// Best returns the top ranked result, if any
func Best(results []Result) (Result, bool) {
	if len(results) == 0 {
		return Result{}, false
	}
	return results[0], true
}

// Top returns at most n results. n <= 0 returns all of them.
func Top(results []Result, n int) []Result {
	if n > 0 && n < len(results) {
		return results[:n]
	}
	return results
}
