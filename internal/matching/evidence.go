package matching

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spigell/resume-ranker/internal/candidates"
	"github.com/spigell/resume-ranker/internal/jobs"
	"github.com/spigell/resume-ranker/internal/requirements"
	"github.com/spigell/resume-ranker/internal/utils"
)

const (
	// EvidenceLimit caps sentence evidence before the ellipsis. The limit and
	// the minimum sentence length count runes, so a character outside the
	// Basic Multilingual Plane (an emoji) counts once, not as two UTF-16
	// code units.
	EvidenceLimit = 200
	// sentences of this many runes or fewer never count as evidence.
	minSentenceLength = 10
)

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

type Evidence struct {
	Evidence            map[string]string `json:"evidence"`
	MissingRequirements []string          `json:"missing_requirements"`
}

// Matcher explains which job requirements a resume covers.
type Matcher struct {
	// Now resolves "present" end dates. Defaults to time.Now.
	Now func() time.Time
}

func NewMatcher() *Matcher {
	return &Matcher{Now: time.Now}
}

// Match looks for evidence of every job requirement and declared skill in the
// resume. A requirement is backed by a listed skill first, then by the first
// sentence of the resume text mentioning it. Afterwards, experience
// requirements are checked against the total years of experience and, when
// satisfied, get that as evidence and leave the missing list.
func (m *Matcher) Match(job *jobs.Job, resume *candidates.Resume) Evidence {
	result := Evidence{
		Evidence:            map[string]string{},
		MissingRequirements: []string{},
	}

	text := strings.ToLower(resume.ParsedContent)
	var sentences []string
	if text != "" {
		sentences = sentenceSplit.Split(text, -1)
	}

	for _, req := range job.AllRequirements() {
		if evidence, ok := findEvidence(req, resume.ExtractedData.Skills, sentences); ok {
			result.Evidence[req] = evidence
			continue
		}
		result.MissingRequirements = append(result.MissingRequirements, req)
	}

	total, counted := 0, false
	for _, req := range job.Requirements {
		if !requirements.IsExperience(req) {
			continue
		}
		required, ok := requirements.RequiredYears(req)
		if !ok {
			continue
		}

		if !counted {
			total, counted = TotalExperience(resume.ExtractedData.Experience, m.now()), true
		}
		if total < required {
			continue
		}

		result.Evidence[req] = strconv.Itoa(total) + " years total experience found"
		result.MissingRequirements = removeFirst(result.MissingRequirements, req)
	}

	return result
}

func (m *Matcher) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

func findEvidence(req string, skills, sentences []string) (string, bool) {
	lower := strings.ToLower(req)

	for _, skill := range skills {
		skillLower := strings.ToLower(skill)
		// An empty skill is contained in every requirement; it is not evidence.
		if skillLower == "" {
			continue
		}
		if strings.Contains(skillLower, lower) || strings.Contains(lower, skillLower) {
			return "Skill listed: " + skill, true
		}
	}

	for _, sentence := range sentences {
		if strings.Contains(sentence, lower) && utf8.RuneCountInString(sentence) > minSentenceLength {
			return utils.Truncate(sentence, EvidenceLimit), true
		}
	}
	return "", false
}

func removeFirst(items []string, target string) []string {
	for i, item := range items {
		if item == target {
			return append(items[:i], items[i+1:]...)
		}
	}
	return items
}
