// Package search answers free-text questions with sentences taken from
// processed resumes.
package search

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/spigell/resume-ranker/internal/candidates"
)

const (
	DefaultK = 5
	MaxK     = 20

	minQueryLength = 2
	baseScore      = 0.8
	coverageWeight = 0.2
)

var ErrInvalidQuery = errors.New("invalid query")

var snippetSplit = regexp.MustCompile(`[\r\n.!?]+`)

type Result struct {
	ResumeID string  `json:"resume_id"`
	Snippet  string  `json:"snippet"`
	Score    float64 `json:"score"`
}

// Validate checks the query and the result bound.
func Validate(query string, k int) error {
	if utf8.RuneCountInString(query) < minQueryLength {
		return fmt.Errorf("%w: query must be at least %d characters", ErrInvalidQuery, minQueryLength)
	}
	if k < 1 || k > MaxK {
		return fmt.Errorf("%w: k must be 1-%d, got %d", ErrInvalidQuery, MaxK, k)
	}
	return nil
}

// Snippets returns up to k sentences of text containing query, longest first.
func Snippets(text, query string, k int) []string {
	if text == "" || query == "" || k <= 0 {
		return nil
	}

	q := strings.ToLower(query)
	var matched []string
	for _, sentence := range snippetSplit.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence != "" && strings.Contains(strings.ToLower(sentence), q) {
			matched = append(matched, sentence)
		}
	}

	sort.SliceStable(matched, func(a, b int) bool {
		return utf8.RuneCountInString(matched[a]) > utf8.RuneCountInString(matched[b])
	})

	if len(matched) > k {
		matched = matched[:k]
	}
	return matched
}

// Ask searches every processed resume and returns the k best answers. A resume
// scores higher the more of its sentences mention the query.
func Ask(resumes []*candidates.Resume, query string, k int) ([]Result, error) {
	if err := Validate(query, k); err != nil {
		return nil, err
	}

	results := []Result{}
	for _, resume := range resumes {
		if resume.Status != candidates.StatusProcessed {
			continue
		}

		snippets := Snippets(resume.ParsedContent, query, k)
		if len(snippets) == 0 {
			continue
		}

		results = append(results, Result{
			ResumeID: resume.ID,
			Snippet:  snippets[0],
			Score:    baseScore + float64(len(snippets))/float64(k)*coverageWeight,
		})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}
