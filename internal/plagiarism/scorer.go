// Package plagiarism implements a bag-of-words similarity scorer over term
// frequency vectors. It detects verbatim overlap, not paraphrase: no IDF, no
// synonyms, no word order.
package plagiarism

import (
	"math"
	"sort"
	"strings"
	"time"
)

// stopwords excluded from every token stream.
var stopwords = map[string]struct{}{
	"the": {}, "is": {}, "at": {}, "of": {}, "on": {}, "and": {}, "a": {},
	"to": {}, "in": {}, "it": {}, "that": {}, "for": {}, "with": {}, "as": {},
	"was": {}, "were": {}, "be": {}, "by": {}, "or": {}, "an": {}, "are": {},
	"from": {}, "this": {}, "which": {}, "you": {}, "your": {}, "we": {},
	"our": {}, "they": {}, "their": {}, "i": {}, "me": {}, "my": {},
}

// Candidate is one previously published document to compare against.
type Candidate struct {
	ID        uint
	Title     string
	Content   string
	AuthorID  uint
	CreatedAt time.Time
}

// Match is a candidate with nonzero similarity to the query.
type Match struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	AuthorID   uint      `json:"author_id"`
	CreatedAt  time.Time `json:"created_at"`
	Similarity float64   `json:"similarity"`
}

// Report is the result of a similarity check.
type Report struct {
	// Score is round(top similarity * 100), 0-100.
	Score         int     `json:"score"`
	Matches       []Match `json:"matches"`
	TotalCompared int     `json:"total_compared"`
}

// MaxCandidates caps the corpus scan per check. The bound exists to cap cost,
// not for correctness.
const MaxCandidates = 500

// MaxMatches is how many top matches a report carries.
const MaxMatches = 5

// Tokenize lowercases the text, replaces non-alphanumeric runes with spaces,
// splits on whitespace and drops stopwords and empty tokens.
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)
	mapped := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return ' '
	}, lowered)

	fields := strings.Fields(mapped)
	tokens := fields[:0]
	for _, tok := range fields {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// TermFreq maps each token to its count divided by the total token count.
func TermFreq(tokens []string) map[string]float64 {
	tf := make(map[string]float64, len(tokens))
	for _, tok := range tokens {
		tf[tok]++
	}
	n := float64(len(tokens))
	if n == 0 {
		n = 1
	}
	for tok, count := range tf {
		tf[tok] = count / n
	}
	return tf
}

// Cosine computes the cosine similarity of two term-frequency vectors. The
// dot product iterates the smaller map; a zero norm makes the denominator 1,
// so disjoint or empty vectors score 0 rather than dividing by zero.
func Cosine(a, b map[string]float64) float64 {
	var normA, normB float64
	for _, v := range a {
		normA += v * v
	}
	for _, v := range b {
		normB += v * v
	}

	smaller, larger := a, b
	if len(b) < len(a) {
		smaller, larger = b, a
	}
	var dot float64
	for tok, v := range smaller {
		dot += v * larger[tok]
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		denom = 1
	}
	return dot / denom
}

// Check compares the query content against the candidate corpus and returns
// the ranked report. Candidates that tokenize to nothing are skipped but
// still count toward TotalCompared; a candidate with empty content falls
// back to its title.
func Check(content string, candidates []Candidate) *Report {
	query := TermFreq(Tokenize(content))

	matches := make([]Match, 0, len(candidates))
	for _, cand := range candidates {
		text := cand.Content
		if text == "" {
			text = cand.Title
		}
		tokens := Tokenize(text)
		if len(tokens) == 0 {
			continue
		}
		sim := Cosine(query, TermFreq(tokens))
		if sim > 0 {
			matches = append(matches, Match{
				ID:         cand.ID,
				Title:      cand.Title,
				AuthorID:   cand.AuthorID,
				CreatedAt:  cand.CreatedAt,
				Similarity: sim,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > MaxMatches {
		matches = matches[:MaxMatches]
	}

	var top float64
	if len(matches) > 0 {
		top = matches[0].Similarity
	}

	return &Report{
		Score:         int(math.Round(top * 100)),
		Matches:       matches,
		TotalCompared: len(candidates),
	}
}
