package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-ranker/internal/embedding"
)

type countingEmbedder struct {
	embedding.HashEmbedder
	texts []string
	err   error
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) (embedding.Vector, error) {
	c.texts = append(c.texts, text)
	if c.err != nil {
		return nil, c.err
	}
	return c.HashEmbedder.Embed(ctx, text)
}

func validPosting() Posting {
	return Posting{
		Title:          "  Backend Engineer ",
		Description:    "Looking for a Senior React developer with 5+ years experience",
		SkillsRequired: []string{"Go", "Docker"},
	}
}

func TestNew(t *testing.T) {
	embedder := &countingEmbedder{}

	job, err := New(context.Background(), embedder, validPosting())
	require.NoError(t, err)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "Backend Engineer", job.Title)
	assert.Equal(t, DefaultExperienceLevel, job.ExperienceLevel)
	assert.Equal(t, DefaultJobType, job.JobType)
	assert.Equal(t, []string{"React", "5+ years experience", "Senior"}, job.Requirements)
	assert.Equal(t, []string{"Looking for a Senior React developer with 5+ years experience Go Docker"}, embedder.texts)
	assert.Len(t, job.Embedding, embedding.Dimension)
	assert.Equal(t, embedding.NewHashEmbedder().Generate(embedder.texts[0]), job.Embedding)
	assert.Equal(t, embedding.HashName, job.Embedder)
	assert.Equal(t, job.CreatedAt, job.UpdatedAt)
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Posting)
		field  string
	}{
		{name: "missing title", modify: func(p *Posting) { p.Title = "   " }, field: "title"},
		{name: "short description", modify: func(p *Posting) { p.Description = "too short" }, field: "description"},
		{name: "bad level", modify: func(p *Posting) { p.ExperienceLevel = "Guru" }, field: "experienceLevel"},
		{name: "bad job type", modify: func(p *Posting) { p.JobType = "Gig" }, field: "jobType"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			posting := validPosting()
			tc.modify(&posting)

			embedder := &countingEmbedder{}
			_, err := New(context.Background(), embedder, posting)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.field, validationErr.Field)
			assert.Empty(t, embedder.texts)
		})
	}
}

func TestNewEmbedderError(t *testing.T) {
	_, err := New(context.Background(), &countingEmbedder{err: errors.New("boom")}, validPosting())
	assert.ErrorContains(t, err, "boom")
}

func TestNewSalaryDefaults(t *testing.T) {
	posting := validPosting()
	posting.Salary = &Salary{Min: 100, Max: 200}

	job, err := New(context.Background(), &countingEmbedder{}, posting)
	require.NoError(t, err)
	assert.Equal(t, DefaultCurrency, job.Salary.Currency)
}

func TestUpdateReembedsOnDescriptionChange(t *testing.T) {
	embedder := &countingEmbedder{}
	job, err := New(context.Background(), embedder, validPosting())
	require.NoError(t, err)
	before := job.Embedding

	description := "Junior Python engineer for our data platform"
	require.NoError(t, job.Update(context.Background(), embedder, Patch{Description: &description}))

	assert.Equal(t, []string{"Python", "Junior"}, job.Requirements)
	assert.NotEqual(t, before, job.Embedding)
	assert.Len(t, embedder.texts, 2)
	assert.Equal(t, description+" Go Docker", embedder.texts[1])
}

func TestUpdateReembedsOnSkillsChange(t *testing.T) {
	embedder := &countingEmbedder{}
	job, err := New(context.Background(), embedder, validPosting())
	require.NoError(t, err)

	skills := []string{"Kubernetes"}
	require.NoError(t, job.Update(context.Background(), embedder, Patch{SkillsRequired: &skills}))

	assert.Equal(t, []string{"Kubernetes"}, job.SkillsRequired)
	assert.Equal(t, validPosting().Description+" Kubernetes", embedder.texts[1])
}

func TestUpdateWithoutTextChangeKeepsEmbedding(t *testing.T) {
	embedder := &countingEmbedder{}
	job, err := New(context.Background(), embedder, validPosting())
	require.NoError(t, err)

	remote := true
	location := "Berlin"
	require.NoError(t, job.Update(context.Background(), embedder, Patch{Remote: &remote, Location: &location}))

	assert.True(t, job.Remote)
	assert.Equal(t, "Berlin", job.Location)
	assert.Len(t, embedder.texts, 1)
}

func TestUpdateInvalidLeavesJobUntouched(t *testing.T) {
	embedder := &countingEmbedder{}
	job, err := New(context.Background(), embedder, validPosting())
	require.NoError(t, err)
	snapshot := *job

	short := "short"
	err = job.Update(context.Background(), embedder, Patch{Description: &short})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, snapshot, *job)

	embedder.err = errors.New("boom")
	description := "Another perfectly valid job description"
	require.Error(t, job.Update(context.Background(), embedder, Patch{Description: &description}))
	assert.Equal(t, snapshot, *job)
}

func TestAllRequirementsKeepsDuplicates(t *testing.T) {
	job := &Job{
		Posting:      Posting{SkillsRequired: []string{"React", "Go"}},
		Requirements: []string{"React", "Senior"},
	}

	assert.Equal(t, []string{"React", "Senior", "React", "Go"}, job.AllRequirements())
}
