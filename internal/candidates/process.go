package candidates

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spigell/resume-ranker/internal/embedding"
)

var now = func() time.Time { return time.Now().UTC() }

// Upload is a document whose plain text has already been extracted.
type Upload struct {
	ID       string
	Filename string
	Text     string
}

// Process builds a Resume from an upload. The returned resume is never nil:
// on failure it carries StatusFailed and the reason, and the same reason is
// returned as the error so the caller can log it.
func Process(ctx context.Context, embedder embedding.Embedder, upload Upload) (*Resume, error) {
	resume := &Resume{
		ID:               upload.ID,
		OriginalFilename: upload.Filename,
		Status:           StatusProcessing,
	}
	if resume.ID == "" {
		resume.ID = uuid.NewString()
	}

	text := strings.TrimSpace(upload.Text)
	if text == "" {
		return fail(resume, fmt.Errorf("no text extracted from %q", upload.Filename))
	}

	vector, err := embedder.Embed(ctx, text)
	if err != nil {
		return fail(resume, fmt.Errorf("embedding %q with %s: %w", upload.Filename, embedder.Name(), err))
	}

	processedAt := now()
	resume.ParsedContent = text
	resume.ExtractedData = ExtractData(upload.Text)
	resume.Embedding = vector
	resume.Embedder = embedder.Name()
	resume.Status = StatusProcessed
	resume.ProcessedAt = &processedAt

	return resume, nil
}

func fail(resume *Resume, err error) (*Resume, error) {
	resume.Status = StatusFailed
	resume.ErrorMessage = err.Error()
	return resume, err
}
