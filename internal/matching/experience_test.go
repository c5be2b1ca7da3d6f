package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spigell/resume-ranker/internal/candidates"
)

func TestTotalExperience(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		entries []candidates.Experience
		want    int
	}{
		{name: "no entries", want: 0},
		{
			name:    "year range",
			entries: []candidates.Experience{{StartDate: "2018", EndDate: "2022"}},
			want:    4,
		},
		{
			name:    "month dates use the leading year",
			entries: []candidates.Experience{{StartDate: "2018-01", EndDate: "2020-06"}},
			want:    2,
		},
		{
			name:    "present end date",
			entries: []candidates.Experience{{StartDate: "2020", EndDate: "Present"}},
			want:    4,
		},
		{
			name:    "reversed range counts nothing",
			entries: []candidates.Experience{{StartDate: "2022", EndDate: "2018"}},
			want:    0,
		},
		{
			name: "unreadable year does not fall back to description",
			entries: []candidates.Experience{
				{StartDate: "n/a", EndDate: "2020", Description: "10 years of work"},
			},
			want: 0,
		},
		{
			name: "missing date falls back to description",
			entries: []candidates.Experience{
				{StartDate: "2019", Description: "Spent 5 years on payments"},
				{Description: "about 1 year as intern"},
				{Description: "no numbers here"},
			},
			want: 6,
		},
		{
			name: "entries add up",
			entries: []candidates.Experience{
				{StartDate: "2010", EndDate: "2014"},
				{StartDate: "2014", EndDate: "present"},
			},
			want: 14,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TotalExperience(tc.entries, now))
		})
	}
}

func TestParseLeadingInt(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{in: "2018", want: 2018, wantOK: true},
		{in: "  2018-05", want: 2018, wantOK: true},
		{in: "-3", want: -3, wantOK: true},
		{in: "+7 years", want: 7, wantOK: true},
		{in: "present", wantOK: false},
		{in: "", wantOK: false},
		{in: "99999999999", wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := parseLeadingInt(tc.in)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
