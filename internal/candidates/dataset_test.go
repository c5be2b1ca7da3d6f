package candidates

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/resume-ranker/internal/embedding"
)

func TestFromMapWeaklyTyped(t *testing.T) {
	resume, err := FromMap(map[string]any{
		"id":            "r1",
		"status":        "processed",
		"parsedContent": "Go developer",
		"processedAt":   "2024-05-01T12:00:00Z",
		"embedding":     []any{0.6, 0.8},
		"extractedData": map[string]any{
			"skills": []any{"Go", "Docker"},
			"experience": []any{
				map[string]any{"company": "Acme", "startDate": 2018, "endDate": 2022.0},
				map[string]any{"company": "Globex", "startDate": "2022", "endDate": nil},
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusProcessed, resume.Status)
	assert.Equal(t, embedding.Vector{0.6, 0.8}, resume.Embedding)
	assert.Equal(t, []string{"Go", "Docker"}, resume.ExtractedData.Skills)
	require.Len(t, resume.ExtractedData.Experience, 2)
	assert.Equal(t, "2018", resume.ExtractedData.Experience[0].StartDate)
	assert.Equal(t, "2022", resume.ExtractedData.Experience[0].EndDate)
	assert.Empty(t, resume.ExtractedData.Experience[1].EndDate)
	require.NotNil(t, resume.ProcessedAt)
	assert.True(t, resume.ProcessedAt.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))
}

func TestFromMapRequiresID(t *testing.T) {
	_, err := FromMap(map[string]any{"status": "processed"})
	assert.ErrorContains(t, err, "no id")
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resumes.json")
	processedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	resumes := []*Resume{
		{
			ID:            "r1",
			Status:        StatusProcessed,
			ParsedContent: "Go developer",
			ExtractedData: ExtractedData{
				Skills:     []string{"Go"},
				Experience: []Experience{{Company: "Acme", StartDate: "2018", EndDate: "present"}},
			},
			Embedding:   embedding.Vector{1, 0},
			ProcessedAt: &processedAt,
		},
		{ID: "r2", Status: StatusFailed, ErrorMessage: "no text extracted"},
	}

	require.NoError(t, Save(path, resumes))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, "r1", loaded[0].ID)
	assert.Equal(t, resumes[0].ExtractedData.Experience, loaded[0].ExtractedData.Experience)
	assert.Equal(t, embedding.Vector{1, 0}, loaded[0].Embedding)
	assert.True(t, loaded[0].ProcessedAt.Equal(processedAt))
	assert.Equal(t, StatusFailed, loaded[1].Status)
	assert.Equal(t, "no text extracted", loaded[1].ErrorMessage)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"id": "not an array"}`), 0o644))
	_, err = Load(broken)
	assert.ErrorContains(t, err, "decoding resumes")
}
