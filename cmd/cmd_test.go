package cmd

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/candidates"
	"github.com/spigell/resume-ranker/internal/filtering"
	"github.com/spigell/resume-ranker/internal/jobs"
	"github.com/spigell/resume-ranker/internal/matching"
)

func TestMergeResumes(t *testing.T) {
	t.Parallel()

	existing := []*candidates.Resume{{ID: "a", ParsedContent: "old a"}, {ID: "b", ParsedContent: "old b"}}
	updates := []*candidates.Resume{{ID: "c", ParsedContent: "new c"}, {ID: "a", ParsedContent: "new a"}}

	merged := mergeResumes(existing, updates)

	var got []string
	for _, r := range merged {
		got = append(got, r.ID+":"+r.ParsedContent)
	}
	want := []string{"a:new a", "b:old b", "c:new c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected merge: %v", got)
	}
}

func TestInputText(t *testing.T) {
	t.Parallel()

	text, err := inputText([]string{"senior", "go", "engineer"}, "")
	if err != nil || text != "senior go engineer" {
		t.Fatalf("unexpected args text %q (%v)", text, err)
	}

	path := filepath.Join(t.TempDir(), "job.txt")
	if err := os.WriteFile(path, []byte("from file"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	text, err = inputText([]string{"ignored"}, path)
	if err != nil || text != "from file" {
		t.Fatalf("unexpected file text %q (%v)", text, err)
	}

	if _, err := inputText(nil, filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestReadPosting(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "job.yaml")
	content := `title: Backend Engineer
company: Acme
description: We need 3+ years of experience with Go and Kubernetes.
skills-required:
  - Go
  - Kubernetes
experience-level: Senior
job-type: Contract
remote: true
salary:
  min: 100
  max: 200
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	posting, err := readPosting(path)
	if err != nil {
		t.Fatalf("read posting: %v", err)
	}

	want := jobs.Posting{
		Title:           "Backend Engineer",
		Company:         "Acme",
		Description:     "We need 3+ years of experience with Go and Kubernetes.",
		SkillsRequired:  []string{"Go", "Kubernetes"},
		ExperienceLevel: "Senior",
		JobType:         "Contract",
		Remote:          true,
		Salary:          &jobs.Salary{Min: 100, Max: 200},
	}
	if !reflect.DeepEqual(posting, want) {
		t.Fatalf("unexpected posting: %+v", posting)
	}
}

func TestPrepareFiltersWithoutIndex(t *testing.T) {
	t.Parallel()

	steps := prepareFilters(&Config{Qdrant: &QdrantConfig{Prefilter: 10}}, nil)
	statuses := filtering.Describe(steps)

	last := statuses[len(statuses)-1]
	if last.Name != "vector_prefilter" || last.Enabled {
		t.Fatalf("expected disabled prefilter, got %+v", last)
	}
	if searcher(nil) != nil {
		t.Fatalf("nil index must give a nil searcher")
	}
}

func TestSessionExclude(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "excluded.json")
	s := &session{
		job:         &jobs.Job{ID: "job-1"},
		matches:     []matching.Result{{ResumeID: "a"}, {ResumeID: "b"}, {ResumeID: "c"}},
		excludeFile: path,
		logger:      zap.NewNop(),
	}

	if err := s.exclude([]matching.Result{{ResumeID: "b"}}, "reviewed"); err != nil {
		t.Fatalf("first exclude: %v", err)
	}
	if err := s.exclude(s.matches, "matched"); err != nil {
		t.Fatalf("second exclude: %v", err)
	}

	if len(s.matches) != 0 {
		t.Fatalf("expected no matches left, got %d", len(s.matches))
	}

	excluded, err := candidates.ReadExcluded(path)
	if err != nil {
		t.Fatalf("read exclude file: %v", err)
	}
	if got := excluded.IDs(); !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
		t.Fatalf("unexpected exclude file ids: %v", got)
	}
	if excluded.Items[0].Reason != "reviewed" || excluded.Items[1].Reason != "matched" {
		t.Fatalf("unexpected reasons: %+v", excluded.Items)
	}
}

func TestReadPostingJSONFieldNames(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "job.json")
	content := `{"title":"Dev","description":"Build React apps for us","skillsRequired":["React","Go"],"experienceLevel":"Senior","jobType":"Contract","salary":{"min":1,"currency":"EUR"}}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	posting, err := readPosting(path)
	if err != nil {
		t.Fatalf("read posting: %v", err)
	}

	if !reflect.DeepEqual(posting.SkillsRequired, []string{"React", "Go"}) {
		t.Fatalf("unexpected skills: %v", posting.SkillsRequired)
	}
	if posting.ExperienceLevel != "Senior" || posting.JobType != "Contract" {
		t.Fatalf("unexpected level/type: %q %q", posting.ExperienceLevel, posting.JobType)
	}
	if posting.Salary == nil || posting.Salary.Currency != "EUR" {
		t.Fatalf("unexpected salary: %+v", posting.Salary)
	}
}

func TestReadPostingRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "job.yaml")
	content := "title: Dev\ndescription: Build React apps for us\nskills: [React]\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := readPosting(path); err == nil {
		t.Fatalf("expected an error for the unknown skills key")
	}
}
