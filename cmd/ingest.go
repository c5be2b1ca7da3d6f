package cmd

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/candidates"
	"github.com/spigell/resume-ranker/internal/logger"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest file...",
	Short: "Build resume records from plain-text files and store them in the dataset",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ingest(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringP("out", "o", "", "dataset file to write (default is the resumes dataset)")
	ingestCmd.Flags().Bool("index", false, "upsert the embeddings to qdrant")
}

func ingest(cmd *cobra.Command, files []string) {
	ctx := context.Background()
	log, config := setup()

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = config.Resumes
	}

	embedder, err := newEmbedder(ctx, config.Embedder, log)
	if err != nil {
		log.Fatal("creating an embedder", zap.Error(err))
	}
	log = logger.WithFields(log, zap.String(logger.FieldEmbedder, embedder.Name()))

	existing, err := candidates.Load(out)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal("loading the dataset", zap.String("path", out), zap.Error(err))
	}

	// Re-ingesting a file keeps its resume ID.
	ids := make(map[string]string, len(existing))
	for _, resume := range existing {
		if resume.OriginalFilename != "" {
			ids[resume.OriginalFilename] = resume.ID
		}
	}

	ingested := make([]*candidates.Resume, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatal("reading a resume file", zap.String("path", path), zap.Error(err))
		}

		name := filepath.Base(path)
		resume, err := candidates.Process(ctx, embedder, candidates.Upload{
			ID:       ids[name],
			Filename: name,
			Text:     string(data),
		})

		fields := []zap.Field{zap.String(logger.FieldResumeID, resume.ID), zap.String("file", name)}
		if err != nil {
			log.Warn("resume processing failed", append(fields, zap.Error(err))...)
		} else {
			log.Info("resume processed", append(fields, zap.Int("skills", len(resume.ExtractedData.Skills)))...)
		}

		ingested = append(ingested, resume)
	}

	dataset := mergeResumes(existing, ingested)
	if err := candidates.Save(out, dataset); err != nil {
		log.Fatal("saving the dataset", zap.String("path", out), zap.Error(err))
	}
	log.Info("dataset saved", zap.String("path", out), zap.Int("resumes", len(dataset)))

	if withIndex, _ := cmd.Flags().GetBool("index"); withIndex {
		config.Qdrant.Enabled = true
		index, err := newIndex(ctx, config.Qdrant, embedder, log)
		if err != nil {
			log.Fatal("connecting to qdrant", zap.Error(err))
		}
		defer index.Close()

		if err := index.Upsert(ctx, ingested); err != nil {
			log.Fatal("indexing resumes", zap.Error(err))
		}
	}
}

// mergeResumes replaces records of existing with updates sharing their ID and
// appends the rest, keeping the order of both.
func mergeResumes(existing, updates []*candidates.Resume) []*candidates.Resume {
	pos := make(map[string]int, len(existing))
	merged := make([]*candidates.Resume, 0, len(existing)+len(updates))
	for _, resume := range existing {
		pos[resume.ID] = len(merged)
		merged = append(merged, resume)
	}

	for _, resume := range updates {
		if i, ok := pos[resume.ID]; ok {
			merged[i] = resume
			continue
		}
		pos[resume.ID] = len(merged)
		merged = append(merged, resume)
	}
	return merged
}
