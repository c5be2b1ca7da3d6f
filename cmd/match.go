package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/candidates"
	"github.com/spigell/resume-ranker/internal/embedding"
	"github.com/spigell/resume-ranker/internal/filtering"
	"github.com/spigell/resume-ranker/internal/jobs"
	"github.com/spigell/resume-ranker/internal/logger"
	"github.com/spigell/resume-ranker/internal/matching"
	"github.com/spigell/resume-ranker/internal/utils"
	"github.com/spigell/resume-ranker/internal/vector"
)

const (
	PromptYes                 = "Yes"
	PromptNo                  = "No"
	PromptBack                = "back"
	PromptPrintMatches        = "Print matches"
	PromptInspect             = "Inspect candidates"
	PromptReportFilters       = "Report filter status"
	PromptAppendToExcludeFile = "Append all matches to exclude file"
	PromptMatchesToFile       = "Dump matches to file"
	PromptExit                = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptPrintMatches, PromptInspect, PromptReportFilters, PromptAppendToExcludeFile, PromptMatchesToFile, PromptExit},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank the resumes of the dataset against a job posting",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("job", "J", "", "job posting file (yaml or json)")
	matchCmd.Flags().IntP("top-n", "n", 0, "how many matches to return (default is ranking.top-n)")
	matchCmd.Flags().StringSlice("skills", nil, "replace the skills required by the posting")
	matchCmd.Flags().StringP("exclude-file", "e", "", "special file with resumes to exclude (default is excluded.json)")
	matchCmd.Flags().BoolP("interactive", "i", false, "review the matches in interactive mode")
	matchCmd.Flags().Bool("with-resume", false, "attach the resume record to every match")

	viper.BindPFlag("ranking.top-n", matchCmd.Flags().Lookup("top-n"))
	viper.BindPFlag("exclude-file", matchCmd.Flags().Lookup("exclude-file"))
}

// session is the state reviewed in interactive mode.
type session struct {
	job         *jobs.Job
	matches     []matching.Result
	steps       []filtering.Filter
	excludeFile string
	logger      *zap.Logger
}

type matchOutput struct {
	JobID        string            `json:"job_id"`
	Requirements []string          `json:"requirements"`
	Matches      []matching.Result `json:"matches"`
}

func match(cmd *cobra.Command) {
	ctx := context.Background()
	log, config := setup()

	log.Info("starting the resume-ranker", zap.String("version", version))

	topN := config.Ranking.TopN
	if err := matching.ValidateTopN(topN); err != nil {
		log.Fatal("checking top-n", zap.Error(err))
	}

	jobFile, _ := cmd.Flags().GetString("job")
	if jobFile == "" {
		log.Fatal("job posting file is required", zap.String("hint", "pass it with --job"))
	}

	posting, err := readPosting(jobFile)
	if err != nil {
		log.Fatal("reading the job posting", zap.String("path", jobFile), zap.Error(err))
	}

	embedder, err := newEmbedder(ctx, config.Embedder, log)
	if err != nil {
		log.Fatal("creating an embedder", zap.Error(err))
	}

	job, err := newJob(ctx, cmd, embedder, posting)
	if err != nil {
		log.Fatal("building the job", zap.Error(err))
	}
	log = logger.WithCommonFields(log, embedder.Name(), job.ID)
	log.Info("job built", zap.String("title", job.Title), zap.Strings("requirements", job.AllRequirements()))

	resumes, err := candidates.Load(config.Resumes)
	if err != nil {
		log.Fatal("loading resumes", zap.Error(err))
	}
	log.Info("resumes loaded", zap.String("path", config.Resumes), zap.Int("count", len(resumes)))

	index, err := newIndex(ctx, config.Qdrant, embedder, log)
	if err != nil {
		log.Fatal("connecting to qdrant", zap.Error(err))
	}
	if index != nil {
		defer index.Close()
	}

	steps := prepareFilters(config, index)
	pool, err := filtering.Run(ctx, &filtering.Config{
		ExcludeFile: config.ExcludeFile,
		Prefilter:   config.Qdrant.Prefilter,
	}, filtering.Deps{Logger: log, Job: job, Index: searcher(index)}, steps, candidates.NewPool(resumes))
	if err != nil {
		log.Fatal("filtering failed", zap.Error(err))
	}

	if pool.Len() == 0 {
		log.Info("exiting", zap.String("reason", "no resumes left after filters"))
		return
	}

	ranker := matching.NewRanker(matching.NewMatcher(), log, config.Ranking.Workers, !config.Ranking.Redact)
	matches, err := ranker.Rank(ctx, job, pool.Items, topN)
	if err != nil {
		log.Fatal("ranking failed", zap.Error(err))
	}

	if withResume, _ := cmd.Flags().GetBool("with-resume"); !withResume {
		for i := range matches {
			matches[i].Resume = nil
		}
	}

	if interactive, _ := cmd.Flags().GetBool("interactive"); !interactive {
		if err := printMatches(cmd.OutOrStdout(), job, matches); err != nil {
			log.Fatal("printing matches", zap.Error(err))
		}
		return
	}

	s := &session{
		job:         job,
		matches:     matches,
		steps:       steps,
		excludeFile: config.ExcludeFile,
		logger:      log,
	}

	for {
		log.Info("current list of matches", zap.Int("count", len(s.matches)))

		_, action, err := prompt.Run()
		if err != nil {
			log.Fatal("exiting", zap.Error(err))
		}

		if err := s.handleAction(action, cmd.OutOrStdout()); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			log.Fatal("exiting", zap.Error(err))
		}
	}
}

// postingKey folds the kebab-case, snake_case and camelCase spellings of a
// posting key together.
var postingKey = strings.NewReplacer("-", "", "_", "")

// readPosting decodes a job posting file through viper so yaml, json and toml
// all work. Unknown keys are an error.
func readPosting(path string) (jobs.Posting, error) {
	var posting jobs.Posting

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return posting, err
	}

	if err := v.Unmarshal(&posting, func(c *mapstructure.DecoderConfig) {
		c.ErrorUnused = true
		c.MatchName = func(mapKey, fieldName string) bool {
			return strings.EqualFold(postingKey.Replace(mapKey), postingKey.Replace(fieldName))
		}
	}); err != nil {
		return posting, fmt.Errorf("decoding posting: %w", err)
	}
	return posting, nil
}

func newJob(ctx context.Context, cmd *cobra.Command, embedder embedding.Embedder, posting jobs.Posting) (*jobs.Job, error) {
	job, err := jobs.New(ctx, embedder, posting)
	if err != nil {
		return nil, err
	}

	if !cmd.Flags().Changed("skills") {
		return job, nil
	}

	skills, _ := cmd.Flags().GetStringSlice("skills")
	if err := job.Update(ctx, embedder, jobs.Patch{SkillsRequired: &skills}); err != nil {
		return nil, err
	}
	return job, nil
}

func prepareFilters(config *Config, index *vector.Qdrant) []filtering.Filter {
	steps := filtering.Default()

	switch {
	case index == nil:
		filtering.DisableByName(steps, "vector_prefilter", "qdrant is not enabled")
	case config.Qdrant.Prefilter <= 0:
		filtering.DisableByName(steps, "vector_prefilter", "qdrant.prefilter is not positive")
	}

	return steps
}

// searcher keeps a nil index a nil interface.
func searcher(index *vector.Qdrant) filtering.Searcher {
	if index == nil {
		return nil
	}
	return index
}

func printMatches(w io.Writer, job *jobs.Job, matches []matching.Result) error {
	return printJSON(w, matchOutput{
		JobID:        job.ID,
		Requirements: job.AllRequirements(),
		Matches:      matches,
	})
}

func (s *session) handleAction(action string, out io.Writer) error {
	switch action {
	case PromptPrintMatches:
		return printMatches(out, s.job, s.matches)
	case PromptInspect:
		return s.inspect()
	case PromptReportFilters:
		pretty, _ := json.MarshalIndent(filtering.Describe(s.steps), "", "  ")
		s.logger.Info(string(pretty), zap.Int("filters count", len(s.steps)))
		return nil
	case PromptAppendToExcludeFile:
		return s.exclude(s.matches, "matched to job "+s.job.ID)
	case PromptMatchesToFile:
		filename, err := utils.DumpToTmpFile("matches_*.json", s.matches)
		if err != nil {
			return fmt.Errorf("dump matches to file: %w", err)
		}
		s.logger.Info("dumping matches to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		s.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (s *session) inspect() error {
	for {
		if len(s.matches) == 0 {
			return nil
		}

		items := make([]string, 0, len(s.matches)+1)
		for _, m := range s.matches {
			items = append(items, fmt.Sprintf("%s %s / %.3f / %d missing",
				m.ResumeID, m.CandidateName, m.Score, len(m.MissingRequirements),
			))
		}

		candidatePrompt := promptui.Select{
			Label: "Choose a candidate and press ENTER",
			Items: append(items, PromptBack),
		}

		_, selected, err := candidatePrompt.Run()
		if err != nil {
			return err
		}
		if selected == PromptBack {
			return nil
		}

		id := strings.Split(selected, " ")[0]
		m := s.find(id)
		if m == nil {
			return fmt.Errorf("there is no such resume id %s", id)
		}

		pretty, _ := json.MarshalIndent(map[string]any{
			"evidence":             m.Evidence,
			"missing_requirements": m.MissingRequirements,
		}, "", "  ")
		s.logger.Info(string(pretty), zap.String(logger.FieldResumeID, m.ResumeID), zap.Float64("score", m.Score))

		confirm := promptui.Select{
			Label: "Exclude this candidate from next runs?",
			Items: []string{PromptNo, PromptYes},
		}
		_, answer, err := confirm.Run()
		if err != nil {
			return err
		}
		if answer == PromptYes {
			if err := s.exclude([]matching.Result{*m}, "reviewed for job "+s.job.ID); err != nil {
				return err
			}
		}
	}
}

func (s *session) find(id string) *matching.Result {
	for i := range s.matches {
		if s.matches[i].ResumeID == id {
			return &s.matches[i]
		}
	}
	return nil
}

// exclude appends the matches to the exclude file and drops them from the session.
func (s *session) exclude(matches []matching.Result, reason string) error {
	if s.excludeFile == "" {
		return errors.New("exclude file is not configured")
	}
	if len(matches) == 0 {
		return nil
	}

	excluded, err := candidates.ReadExcluded(s.excludeFile)
	if errors.Is(err, fs.ErrNotExist) {
		excluded, err = &candidates.ExcludedCandidates{}, nil
	}
	if err != nil {
		return err
	}

	reviewed := make([]*candidates.Resume, 0, len(matches))
	for _, m := range matches {
		reviewed = append(reviewed, &candidates.Resume{ID: m.ResumeID})
	}
	excluded.Append(candidates.NewPool(reviewed).ToExcluded(reason))

	if err := excluded.ToFile(s.excludeFile); err != nil {
		return err
	}
	s.logger.Info("appended to exclude file", zap.String("filename", s.excludeFile), zap.Int("count", len(reviewed)))

	ids := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		ids[m.ResumeID] = struct{}{}
	}
	kept := s.matches[:0]
	for _, m := range s.matches {
		if _, found := ids[m.ResumeID]; !found {
			kept = append(kept, m)
		}
	}
	s.matches = kept
	return nil
}
