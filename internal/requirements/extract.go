// Package requirements extracts canonical job requirements (skills, seniority
// levels and years of experience) from free-text job descriptions.
package requirements

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type skillPattern struct {
	re   *regexp.Regexp
	name string
}

// skillPatterns are matched against the lowercased description. Word
// boundaries are ASCII, so "c#" and "c++" only match when followed by a word
// character.
var skillPatterns = []skillPattern{
	{regexp.MustCompile(`\b(javascript|js)\b`), "JavaScript"},
	{regexp.MustCompile(`\b(typescript|ts)\b`), "TypeScript"},
	{regexp.MustCompile(`\breact\b`), "React"},
	{regexp.MustCompile(`\bnode\.?js\b`), "Node.js"},
	{regexp.MustCompile(`\bpython\b`), "Python"},
	{regexp.MustCompile(`\bjava\b`), "Java"},
	{regexp.MustCompile(`\bc#\b`), "C#"},
	{regexp.MustCompile(`\bc\+\+\b`), "C++"},
	{regexp.MustCompile(`\bhtml\b`), "HTML"},
	{regexp.MustCompile(`\bcss\b`), "CSS"},
	{regexp.MustCompile(`\bsql\b`), "SQL"},
	{regexp.MustCompile(`\bmongodb\b`), "MongoDB"},
	{regexp.MustCompile(`\bpostgresql\b`), "PostgreSQL"},
	{regexp.MustCompile(`\bmysql\b`), "MySQL"},
	{regexp.MustCompile(`\baws\b`), "AWS"},
	{regexp.MustCompile(`\bazure\b`), "Azure"},
	{regexp.MustCompile(`\bgcp\b`), "GCP"},
	{regexp.MustCompile(`\bdocker\b`), "Docker"},
	{regexp.MustCompile(`\bkubernetes\b`), "Kubernetes"},
	{regexp.MustCompile(`\bgit\b`), "Git"},
	{regexp.MustCompile(`\blinux\b`), "Linux"},
	{regexp.MustCompile(`\bmachine learning\b`), "Machine Learning"},
	{regexp.MustCompile(`\bdeep learning\b`), "Deep Learning"},
	{regexp.MustCompile(`\bai\b`), "AI"},
	{regexp.MustCompile(`\bdevops\b`), "DevOps"},
	{regexp.MustCompile(`\bci/cd\b`), "CI/CD"},
	{regexp.MustCompile(`\bmicroservices\b`), "Microservices"},
	{regexp.MustCompile(`\bapi\b`), "API"},
	{regexp.MustCompile(`\brest\b`), "REST"},
	{regexp.MustCompile(`\bgraphql\b`), "GraphQL"},
}

var (
	yearsPattern = regexp.MustCompile(`\b(\d+)\+?\s*years?\s*(of\s*)?experience\b`)

	levelPatterns = []skillPattern{
		{regexp.MustCompile(`\bsenior\b`), "Senior"},
		{regexp.MustCompile(`\bjunior\b`), "Junior"},
		{regexp.MustCompile(`\blead\b`), "Lead"},
		{regexp.MustCompile(`\bmanager\b`), "Manager"},
	}

	digitsPattern = regexp.MustCompile(`\d+`)
)

// Extract returns the requirements found in description: known skills in
// pattern order, then the first "<N>+ years experience" phrase, then seniority
// levels. The result holds no duplicates.
func Extract(description string) []string {
	text := strings.ToLower(description)

	found := make([]string, 0, 8)
	for _, p := range skillPatterns {
		if p.re.MatchString(text) {
			found = append(found, p.name)
		}
	}

	if m := yearsPattern.FindStringSubmatch(text); m != nil {
		found = append(found, fmt.Sprintf("%s+ years experience", m[1]))
	}

	for _, p := range levelPatterns {
		if p.re.MatchString(text) {
			found = append(found, p.name)
		}
	}

	return dedupe(found)
}

// IsExperience reports whether req talks about years of experience.
func IsExperience(req string) bool {
	return strings.Contains(req, "years") || strings.Contains(req, "experience")
}

// RequiredYears returns the first number in an experience requirement.
func RequiredYears(req string) (int, bool) {
	m := digitsPattern.FindString(req)
	if m == "" {
		return 0, false
	}

	years, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return years, true
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
