package candidates

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	namePattern    = regexp.MustCompile(`^([A-Z][a-z]+ )+[A-Z][a-z]+$`)
	emailPattern   = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	phonePattern   = regexp.MustCompile(`\b(?:\+?1[-.]?)?\(?([0-9]{3})\)?[-.]?([0-9]{3})[-.]?([0-9]{4})\b`)
	addressPattern = regexp.MustCompile(`(?i)\b\d+\s+[A-Za-z\s]+(?:Street|St|Avenue|Ave|Road|Rd|Lane|Ln|Drive|Dr|Boulevard|Blvd)\b[^\n]*`)
	yearPattern    = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	degreePattern  = regexp.MustCompile(`(?i)\b(Bachelor|Master|PhD|Associate|Certificate)\b`)
)

var knownSkills = []string{
	"JavaScript", "Python", "Java", "React", "Node.js", "Angular", "Vue.js",
	"HTML", "CSS", "TypeScript", "PHP", "Ruby", "C#", "C++", "Go", "Rust",
	"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Git", "SQL", "MongoDB",
	"PostgreSQL", "MySQL", "Redis", "GraphQL", "REST API", "Machine Learning",
	"TensorFlow", "PyTorch", "Pandas", "NumPy", "Scikit-learn", "Linux",
	"DevOps", "CI/CD", "Jenkins", "Terraform", "Ansible", "Microservices",
}

var knownLanguages = []string{
	"English", "Spanish", "French", "German", "Chinese", "Japanese", "Korean",
	"Portuguese", "Italian", "Russian", "Arabic", "Hindi", "Dutch", "Swedish",
}

const (
	// lines shorter than this may name a company or a position.
	shortLine = 50
	// certification lines must be longer than this.
	minCertLine = 5
	// paragraphs longer than this may serve as a summary.
	minSummaryParagraph = 50
)

// ExtractData derives structured fields from plain resume text.
// Every field is optional; nothing here fails.
func ExtractData(text string) ExtractedData {
	return ExtractedData{
		Name:           extractName(text),
		Email:          emailPattern.FindString(text),
		Phone:          phonePattern.FindString(text),
		Address:        strings.TrimSpace(addressPattern.FindString(text)),
		Skills:         containedIn(skillsSection.body(text), knownSkills),
		Experience:     extractExperience(text),
		Education:      extractEducation(text),
		Certifications: extractCertifications(text),
		Languages:      containedIn(languagesSection.body(text), knownLanguages),
		Summary:        extractSummary(text),
	}
}

func extractName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if namePattern.MatchString(line) {
			return line
		}
		return ""
	}
	return ""
}

// containedIn returns the known values mentioned anywhere in body.
func containedIn(body string, known []string) []string {
	found := []string{}
	if body == "" {
		return found
	}

	lower := strings.ToLower(body)
	for _, value := range known {
		if strings.Contains(lower, strings.ToLower(value)) {
			found = append(found, value)
		}
	}
	return found
}

func extractExperience(text string) []Experience {
	experiences := []Experience{}
	body := experienceSection.body(text)
	if body == "" {
		return experiences
	}

	var current *Experience
	for _, line := range nonEmptyLines(body) {
		if year := yearPattern.FindString(line); year != "" {
			if current != nil {
				experiences = append(experiences, *current)
			}
			current = &Experience{StartDate: year, Description: line}
			continue
		}

		if current == nil || utf8.RuneCountInString(line) >= shortLine {
			continue
		}
		switch {
		case current.Company == "":
			current.Company = strings.TrimSpace(line)
		case current.Position == "":
			current.Position = strings.TrimSpace(line)
		}
	}

	if current != nil {
		experiences = append(experiences, *current)
	}
	return experiences
}

func extractEducation(text string) []Education {
	education := []Education{}
	for _, line := range nonEmptyLines(educationSection.body(text)) {
		if degreePattern.MatchString(line) {
			education = append(education, Education{Degree: strings.TrimSpace(line)})
		}
	}
	return education
}

func extractCertifications(text string) []string {
	certs := []string{}
	for _, line := range nonEmptyLines(certificationsSection.body(text)) {
		if utf8.RuneCountInString(line) > minCertLine {
			certs = append(certs, strings.TrimSpace(line))
		}
	}
	return certs
}

func extractSummary(text string) string {
	if body := summarySection.body(text); body != "" {
		first, _, _ := strings.Cut(body, "\n")
		return strings.TrimSpace(first)
	}

	for _, paragraph := range strings.Split(text, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if utf8.RuneCountInString(paragraph) > minSummaryParagraph {
			return paragraph
		}
	}
	return ""
}

// nonEmptyLines keeps the untrimmed lines that hold something besides spaces.
func nonEmptyLines(body string) []string {
	if body == "" {
		return nil
	}

	var lines []string
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
