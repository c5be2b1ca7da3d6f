package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/candidates"
)

type vectorPrefilter struct {
	toggle
	limit int
}

// NewVectorPrefilter creates a filter that keeps only the resumes the vector
// index returns as nearest neighbours of the job.
func NewVectorPrefilter() Filter {
	return &vectorPrefilter{}
}

func (f *vectorPrefilter) Name() string { return "vector_prefilter" }

func (f *vectorPrefilter) Validate(cfg *Config) error {
	f.limit = 0
	if cfg != nil {
		f.limit = cfg.Prefilter
	}
	if f.limit <= 0 {
		return fmt.Errorf("prefilter limit must be positive, got %d", f.limit)
	}
	return nil
}

func (f *vectorPrefilter) Apply(ctx context.Context, deps Deps, pool *candidates.Pool) (*candidates.Pool, Step, error) {
	initial := pool.Len()
	if deps.Index == nil {
		return pool, Step{}, fmt.Errorf("vector index is required")
	}
	if deps.Job == nil || len(deps.Job.Embedding) == 0 {
		return pool, Step{}, fmt.Errorf("job embedding is required")
	}

	hits, err := deps.Index.Search(ctx, deps.Job.Embedding, f.limit)
	if err != nil {
		return pool, Step{}, fmt.Errorf("searching vector index: %w", err)
	}

	nearest := make(map[string]struct{}, len(hits))
	for _, hit := range hits {
		nearest[hit.ResumeID] = struct{}{}
	}

	dropped := pool.Keep(func(r *candidates.Resume) bool {
		_, ok := nearest[r.ID]
		return ok
	})
	if len(dropped) > 0 {
		deps.Logger.Info("excluding resumes far from the job in the vector index",
			zap.Int("neighbours", len(hits)),
			zap.Int("excluded", len(dropped)),
			zap.Int("resumes_left", pool.Len()),
		)
	}

	return pool, Step{Initial: initial, Dropped: len(dropped), Left: pool.Len()}, nil
}

func (f *vectorPrefilter) Status() Status {
	details := map[string]string{}
	if f.limit > 0 {
		details["limit"] = strconv.Itoa(f.limit)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
