package matching

import (
	"regexp"
	"strings"
	"time"

	"github.com/spigell/resume-ranker/internal/candidates"
)

var descriptionYears = regexp.MustCompile(`\b(\d+)\s*years?\b`)

// TotalExperience sums the years covered by the experience entries.
// Entries with both dates count endYear-startYear, never negative, where an
// end date mentioning "present" means the year of now. A zero or unreadable
// year adds nothing. Entries missing a date fall back to the first
// "<N> years" mention in their description.
func TotalExperience(entries []candidates.Experience, now time.Time) int {
	total := 0
	for _, exp := range entries {
		if exp.StartDate != "" && exp.EndDate != "" {
			start, _ := parseLeadingInt(exp.StartDate)
			end, _ := parseLeadingInt(exp.EndDate)
			if strings.Contains(strings.ToLower(exp.EndDate), "present") {
				end = now.Year()
			}

			if start != 0 && end != 0 {
				total += max(0, end-start)
			}
			continue
		}

		if m := descriptionYears.FindStringSubmatch(exp.Description); m != nil {
			years, _ := parseLeadingInt(m[1])
			total += years
		}
	}
	return total
}

// parseLeadingInt reads the integer at the start of s, after optional
// leading spaces and sign, ignoring whatever follows it.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\r\n")

	sign := 1
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}

	n, digits := 0, 0
	for ; digits < len(s) && s[digits] >= '0' && s[digits] <= '9'; digits++ {
		if n > (1<<31)/10 {
			return 0, false
		}
		n = n*10 + int(s[digits]-'0')
	}
	if digits == 0 {
		return 0, false
	}
	return sign * n, true
}
