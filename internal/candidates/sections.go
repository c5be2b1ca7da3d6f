package candidates

import (
	"regexp"
	"strings"
)

// sectionEnd marks the line where the next well-known section begins.
var sectionEnd = regexp.MustCompile(`(?i)\n\s*\b(?:experience|education|skills|summary|objective|certifications|languages|projects|awards)\b`)

var (
	skillsSection         = headers("skills", "technical skills", "core competencies", "technologies")
	experienceSection     = headers("experience", "work experience", "employment", "professional experience")
	educationSection      = headers("education", "academic background", "qualifications")
	certificationsSection = headers("certifications", "certificates", "licenses")
	languagesSection      = headers("languages")
	summarySection        = headers("summary", "objective", "profile", "about")
)

// sectionHeaders holds the header patterns of one section, in lookup order.
type sectionHeaders []*regexp.Regexp

func headers(keywords ...string) sectionHeaders {
	patterns := make(sectionHeaders, 0, len(keywords))
	for _, keyword := range keywords {
		patterns = append(patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(keyword)+`\b\s*:?\s*`))
	}
	return patterns
}

// body returns the trimmed text following the first header found, trying
// headers in order. The body runs until the next known section header or the
// end of the text. An empty body counts as no section.
func (h sectionHeaders) body(text string) string {
	for _, header := range h {
		loc := header.FindStringIndex(text)
		if loc == nil {
			continue
		}

		rest := text[loc[1]:]
		if end := sectionEnd.FindStringIndex(rest); end != nil {
			rest = rest[:end[0]]
		}

		if body := strings.TrimSpace(rest); body != "" {
			return body
		}
	}
	return ""
}
