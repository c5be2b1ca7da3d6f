package matching

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-ranker/internal/candidates"
	"github.com/spigell/resume-ranker/internal/embedding"
	"github.com/spigell/resume-ranker/internal/jobs"
	"github.com/spigell/resume-ranker/internal/logger"
)

const (
	MaxTopN = 50

	similarityWeight = 0.7
	matchRatioWeight = 0.3
)

var ErrInvalidTopN = errors.New("top_n must be between 1 and 50")

// ValidateTopN checks a caller supplied result bound.
func ValidateTopN(n int) error {
	if n < 1 || n > MaxTopN {
		return fmt.Errorf("%w: got %d", ErrInvalidTopN, n)
	}
	return nil
}

type Result struct {
	ResumeID            string             `json:"resume_id"`
	ResumeName          string             `json:"resume_name,omitempty"`
	CandidateName       string             `json:"candidate_name"`
	Score               float64            `json:"score"`
	Similarity          float64            `json:"similarity"`
	MatchRatio          float64            `json:"match_ratio"`
	Evidence            map[string]string  `json:"evidence"`
	MissingRequirements []string           `json:"missing_requirements"`
	Resume              *candidates.Resume `json:"resume,omitempty"`
}

type Ranker struct {
	matcher   *Matcher
	logger    *zap.Logger
	workers   int
	recruiter bool
}

// NewRanker returns a ranker scoring up to workers candidates at once.
// A non-positive workers value means one per CPU. recruiter selects the
// resume view attached to results.
func NewRanker(matcher *Matcher, log *zap.Logger, workers int, recruiter bool) *Ranker {
	if matcher == nil {
		matcher = NewMatcher()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &Ranker{
		matcher:   matcher,
		logger:    logger.WithFields(log),
		workers:   workers,
		recruiter: recruiter,
	}
}

// Score rates one resume against the job.
func (r *Ranker) Score(job *jobs.Job, resume *candidates.Resume) Result {
	similarity := embedding.Similarity(job.Embedding, resume.Embedding)
	match := r.matcher.Match(job, resume)

	ratio := 0.0
	if total := len(job.Requirements) + len(job.SkillsRequired); total > 0 {
		ratio = float64(len(match.Evidence)) / float64(total)
	}

	safe := resume.Safe(r.recruiter)
	name := safe.ExtractedData.Name
	if name == "" {
		name = candidates.Redacted
	}

	return Result{
		ResumeID:            resume.ID,
		ResumeName:          resume.OriginalFilename,
		CandidateName:       name,
		Score:               similarityWeight*similarity + matchRatioWeight*ratio,
		Similarity:          similarity,
		MatchRatio:          ratio,
		Evidence:            match.Evidence,
		MissingRequirements: match.MissingRequirements,
		Resume:              safe,
	}
}

// Rank scores every resume, sorts by score with ties kept in input order and
// returns the first topN. A non-positive topN returns all results.
func (r *Ranker) Rank(ctx context.Context, job *jobs.Job, resumes []*candidates.Resume, topN int) ([]Result, error) {
	log := r.logger.With(zap.String(logger.FieldJobID, job.ID))

	results := make([]Result, len(resumes))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, resume := range resumes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i] = r.Score(job, resume)
			log.Debug("candidate scored",
				zap.String(logger.FieldResumeID, resume.ID),
				zap.Float64("score", results[i].Score),
				zap.Float64("similarity", results[i].Similarity),
				zap.Float64("match_ratio", results[i].MatchRatio),
				zap.Int("missing", len(results[i].MissingRequirements)),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ranking candidates: %w", err)
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if topN > 0 && topN < len(results) {
		results = results[:topN]
	}

	log.Info("candidates ranked",
		zap.Int("candidates", len(resumes)),
		zap.Int("returned", len(results)),
		zap.Int("workers", r.workers),
	)
	return results, nil
}
