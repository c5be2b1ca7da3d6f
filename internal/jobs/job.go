package jobs

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/spigell/resume-ranker/internal/embedding"
	"github.com/spigell/resume-ranker/internal/requirements"
)

const (
	DefaultExperienceLevel = "Mid"
	DefaultJobType         = "Full-time"
	DefaultCurrency        = "USD"

	minDescriptionLength = 10
)

var (
	ExperienceLevels = []string{"Entry", "Mid", "Senior", "Lead", "Executive"}
	JobTypes         = []string{"Full-time", "Part-time", "Contract", "Internship"}
)

type Salary struct {
	Min      float64 `json:"min,omitempty" mapstructure:"min"`
	Max      float64 `json:"max,omitempty" mapstructure:"max"`
	Currency string  `json:"currency,omitempty" mapstructure:"currency"`
}

// Posting is what a recruiter submits to open a job.
type Posting struct {
	Title           string   `json:"title" mapstructure:"title"`
	Company         string   `json:"company,omitempty" mapstructure:"company"`
	Description     string   `json:"description" mapstructure:"description"`
	SkillsRequired  []string `json:"skillsRequired,omitempty" mapstructure:"skills-required"`
	ExperienceLevel string   `json:"experienceLevel,omitempty" mapstructure:"experience-level"`
	Location        string   `json:"location,omitempty" mapstructure:"location"`
	JobType         string   `json:"jobType,omitempty" mapstructure:"job-type"`
	Remote          bool     `json:"remote" mapstructure:"remote"`
	Salary          *Salary  `json:"salary,omitempty" mapstructure:"salary"`
}

type Job struct {
	ID string `json:"id"`
	Posting
	Requirements []string         `json:"requirements"`
	Embedding    embedding.Vector `json:"embedding"`
	Embedder     string           `json:"embedder"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// Patch lists the fields of an update. Nil fields stay untouched.
type Patch struct {
	Title           *string
	Company         *string
	Description     *string
	SkillsRequired  *[]string
	ExperienceLevel *string
	Location        *string
	JobType         *string
	Remote          *bool
	Salary          *Salary
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the posting and fills in defaults.
func (p *Posting) Validate() error {
	p.Title = strings.TrimSpace(p.Title)
	p.Company = strings.TrimSpace(p.Company)
	p.Location = strings.TrimSpace(p.Location)

	if p.Title == "" {
		return &ValidationError{Field: "title", Message: "Job title is required"}
	}
	if utf8.RuneCountInString(p.Description) < minDescriptionLength {
		return &ValidationError{Field: "description", Message: "Job description must be at least 10 characters"}
	}

	if p.ExperienceLevel == "" {
		p.ExperienceLevel = DefaultExperienceLevel
	}
	if !slices.Contains(ExperienceLevels, p.ExperienceLevel) {
		return &ValidationError{Field: "experienceLevel", Message: "Invalid experience level"}
	}

	if p.JobType == "" {
		p.JobType = DefaultJobType
	}
	if !slices.Contains(JobTypes, p.JobType) {
		return &ValidationError{Field: "jobType", Message: "Invalid job type"}
	}

	if p.Salary != nil && p.Salary.Currency == "" {
		p.Salary.Currency = DefaultCurrency
	}
	if p.SkillsRequired == nil {
		p.SkillsRequired = []string{}
	}
	return nil
}

// New validates the posting, extracts its requirements and embeds it.
func New(ctx context.Context, embedder embedding.Embedder, posting Posting) (*Job, error) {
	if err := posting.Validate(); err != nil {
		return nil, err
	}

	job := &Job{
		ID:      uuid.NewString(),
		Posting: posting,
	}
	if err := job.refresh(ctx, embedder); err != nil {
		return nil, err
	}

	job.CreatedAt = job.UpdatedAt
	return job, nil
}

// Update applies the patch. Changing the description or the skills replaces
// the requirements and the embedding as a whole. On error the job is left as
// it was.
func (j *Job) Update(ctx context.Context, embedder embedding.Embedder, patch Patch) error {
	updated := j.Posting
	updated.SkillsRequired = slices.Clone(j.SkillsRequired)

	apply(&updated.Title, patch.Title)
	apply(&updated.Company, patch.Company)
	apply(&updated.Description, patch.Description)
	apply(&updated.ExperienceLevel, patch.ExperienceLevel)
	apply(&updated.Location, patch.Location)
	apply(&updated.JobType, patch.JobType)
	apply(&updated.Remote, patch.Remote)
	if patch.SkillsRequired != nil {
		updated.SkillsRequired = slices.Clone(*patch.SkillsRequired)
	}
	if patch.Salary != nil {
		salary := *patch.Salary
		updated.Salary = &salary
	}

	if err := updated.Validate(); err != nil {
		return err
	}

	next := *j
	next.Posting = updated
	if patch.Description != nil || patch.SkillsRequired != nil {
		if err := next.refresh(ctx, embedder); err != nil {
			return err
		}
	} else {
		next.UpdatedAt = time.Now().UTC()
	}

	*j = next
	return nil
}

// AllRequirements returns the extracted requirements followed by the
// declared skills. The two lists are not deduplicated against each other.
func (j *Job) AllRequirements() []string {
	all := make([]string, 0, len(j.Requirements)+len(j.SkillsRequired))
	all = append(all, j.Requirements...)
	return append(all, j.SkillsRequired...)
}

// EmbeddingText is the text the job embedding is computed from.
func (p *Posting) EmbeddingText() string {
	return p.Description + " " + strings.Join(p.SkillsRequired, " ")
}

func (j *Job) refresh(ctx context.Context, embedder embedding.Embedder) error {
	vector, err := embedder.Embed(ctx, j.EmbeddingText())
	if err != nil {
		return fmt.Errorf("embedding job %q with %s: %w", j.Title, embedder.Name(), err)
	}

	j.Requirements = requirements.Extract(j.Description)
	j.Embedding = vector
	j.Embedder = embedder.Name()
	j.UpdatedAt = time.Now().UTC()
	return nil
}

func apply[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
