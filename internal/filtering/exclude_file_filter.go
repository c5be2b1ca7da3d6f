package filtering

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/candidates"
)

type excludeFileFilter struct {
	path string
}

// NewExcludeFile creates a filter that removes resumes listed in the exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(string) {}

func (f *excludeFileFilter) IsEnabled() bool { return true }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, pool *candidates.Pool) (*candidates.Pool, Step, error) {
	initial := pool.Len()
	if f.path == "" {
		return pool, Step{Initial: initial, Dropped: 0, Left: pool.Len()}, nil
	}

	excluded, err := candidates.ReadExcluded(f.path)
	if errors.Is(err, os.ErrNotExist) {
		deps.Logger.Debug("exclude file does not exist yet", zap.String("path", f.path))
		return pool, Step{Initial: initial, Dropped: 0, Left: pool.Len()}, nil
	}
	if err != nil {
		return pool, Step{}, fmt.Errorf("getting excluded candidates from file: %w", err)
	}

	removed := pool.Exclude(excluded.IDs())
	if len(removed) > 0 {
		deps.Logger.Info("excluding resumes based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_resumes", removed),
			zap.Int("resumes_left", pool.Len()),
		)
	}

	return pool, Step{Initial: initial, Dropped: len(removed), Left: pool.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
