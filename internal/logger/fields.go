package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldEmbedder is the structured log field key for the embedder name.
	FieldEmbedder = "embedder"
	// FieldJobID is the structured log field key for the job being matched.
	FieldJobID = "job_id"
	// FieldResumeID is the structured log field key for a candidate resume.
	FieldResumeID = "resume_id"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// If the logger is nil or no fields are supplied, the input logger is returned
// unchanged, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields returns the fields that tie a log entry to a matching run.
// Empty values are ignored to keep log entries compact when information is missing.
func CommonFields(embedder, jobID string) []zap.Field {
	return StringFields(
		StringField{Key: FieldEmbedder, Value: embedder},
		StringField{Key: FieldJobID, Value: jobID},
	)
}

// WithCommonFields attaches the common matching fields to the provided logger.
// If the logger is nil, a no-op logger is created to avoid panics.
func WithCommonFields(logger *zap.Logger, embedder, jobID string) *zap.Logger {
	return WithFields(logger, CommonFields(embedder, jobID)...)
}
