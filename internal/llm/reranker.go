package llm

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Reranker reorders candidate documents by asking the model for a ranked
// numbered list. It is a best-effort quality pass: a failed call or an
// unparsable response yields no ranking, and the caller keeps the original
// order.
type Reranker struct {
	LLM LLMClient
}

func NewReranker(client LLMClient) *Reranker {
	return &Reranker{LLM: client}
}

var leadingIndexPattern = regexp.MustCompile(`^\s*(\d+)[.)]?\s`)

// Rank returns 0-based indices into docs, most relevant first. The prompt
// numbers candidates from 1 and asks for the same numbering back; lines
// without a leading integer and out-of-range indices are skipped. An empty
// result means the model diverged from the format.
func (r *Reranker) Rank(ctx context.Context, query string, docs []string) ([]int, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	if len(docs) == 1 {
		return []int{0}, nil
	}

	var b strings.Builder
	for i, d := range docs {
		fmt.Fprintf(&b, "%d. %s\n", i+1, truncate(d, 300))
	}

	prompt := fmt.Sprintf(`You are ranking hotel recommendations for relevance.
Given the user query and the numbered candidates below, rank the candidates
from most to least relevant to the query. Consider amenity match, location
relevance, and overall suitability.

User Query: %s

Candidates:
%s
Return the ranked candidates as a numbered list, where each line starts with
the original candidate number. Do not output any other text.`, query, b.String())

	resp, err := r.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return ParseRankedIndices(resp, len(docs)), nil
}

// ParseRankedIndices extracts the leading integer of each line as a 1-based
// index into a list of n candidates, returning the 0-based order. Malformed
// lines, duplicates and out-of-range values are dropped.
func ParseRankedIndices(response string, n int) []int {
	seen := make(map[int]bool)
	var indices []int
	for _, line := range strings.Split(response, "\n") {
		m := leadingIndexPattern.FindStringSubmatch(line + " ")
		if m == nil {
			continue
		}
		v, err := strconv.Atoi(m[1])
		if err != nil || v < 1 || v > n || seen[v] {
			continue
		}
		seen[v] = true
		indices = append(indices, v-1)
	}
	return indices
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
