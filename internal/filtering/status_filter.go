package filtering

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/candidates"
)

type statusFilter struct{}

// NewStatus creates a filter that keeps only processed resumes with text.
func NewStatus() Filter {
	return &statusFilter{}
}

func (f *statusFilter) Name() string { return "status" }

func (f *statusFilter) Disable(string) {}

func (f *statusFilter) IsEnabled() bool { return true }

func (f *statusFilter) Validate(*Config) error { return nil }

func (f *statusFilter) Apply(_ context.Context, deps Deps, pool *candidates.Pool) (*candidates.Pool, Step, error) {
	initial := pool.Len()
	dropped := pool.Keep((*candidates.Resume).Rankable)
	if len(dropped) > 0 {
		deps.Logger.Info("excluding resumes that are not processed",
			zap.Strings("excluded_resumes", dropped),
			zap.Int("resumes_left", pool.Len()),
		)
	}

	return pool, Step{Initial: initial, Dropped: len(dropped), Left: pool.Len()}, nil
}

type embeddingFilter struct{}

// NewEmbedding creates a filter that removes resumes without an embedding and
// resumes embedded by another embedder than the job, whose vectors cannot be
// compared with the job's.
func NewEmbedding() Filter {
	return &embeddingFilter{}
}

func (f *embeddingFilter) Name() string { return "embedding" }

func (f *embeddingFilter) Disable(string) {}

func (f *embeddingFilter) IsEnabled() bool { return true }

func (f *embeddingFilter) Validate(*Config) error { return nil }

func (f *embeddingFilter) Apply(_ context.Context, deps Deps, pool *candidates.Pool) (*candidates.Pool, Step, error) {
	initial := pool.Len()
	dropped := pool.Keep(func(r *candidates.Resume) bool { return len(r.Embedding) > 0 })
	if len(dropped) > 0 {
		deps.Logger.Info("excluding resumes without embedding",
			zap.Strings("excluded_resumes", dropped),
			zap.Int("resumes_left", pool.Len()),
		)
	}

	if deps.Job != nil && deps.Job.Embedder != "" {
		job := deps.Job
		foreign := pool.Keep(func(r *candidates.Resume) bool {
			return r.EmbeddedWith() == job.Embedder && len(r.Embedding) == len(job.Embedding)
		})
		if len(foreign) > 0 {
			deps.Logger.Warn("excluding resumes embedded by another embedder",
				zap.String("job_embedder", job.Embedder),
				zap.Strings("excluded_resumes", foreign),
				zap.Int("resumes_left", pool.Len()),
				zap.String("hint", "re-ingest the resumes with the configured embedder"),
			)
		}
		dropped = append(dropped, foreign...)
	}

	return pool, Step{Initial: initial, Dropped: len(dropped), Left: pool.Len()}, nil
}
