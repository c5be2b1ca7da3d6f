package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/resume-ranker/internal/embedding"
	"github.com/spigell/resume-ranker/internal/utils"
)

const (
	defaultModel      = "gemini-embedding-001"
	defaultMaxRetries = 3
	defaultRetryDelay = 2 * time.Second
	// quota errors asking to wait longer than this are not retried.
	maxQuotaDelay = 30 * time.Second

	taskType = "SEMANTIC_SIMILARITY"
)

var retryAfterPattern = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)

type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Embedder produces embeddings with a Gemini embedding model, reduced to the
// system wide dimension and L2-normalized.
type Embedder struct {
	models     contentEmbedder
	model      string
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger
}

// NewEmbedder creates an Embedder for the Gemini API backend. maxRetries is
// the number of attempts per text.
func NewEmbedder(ctx context.Context, apiKey, model string, maxRetries int, logger *zap.Logger) (*Embedder, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newEmbedder(client.Models, model, maxRetries, logger), nil
}

func newEmbedder(models contentEmbedder, model string, maxRetries int, logger *zap.Logger) *Embedder {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Embedder{
		models:     models,
		model:      model,
		maxRetries: maxRetries,
		retryDelay: defaultRetryDelay,
		logger:     logger,
	}
}

func (e *Embedder) Name() string { return "gemini/" + e.model }

func (e *Embedder) Dimension() int { return embedding.Dimension }

// Embed returns the normalized embedding of text. Blank text yields the zero
// vector without calling the API.
func (e *Embedder) Embed(ctx context.Context, text string) (embedding.Vector, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return make(embedding.Vector, embedding.Dimension), nil
	}

	dimension := int32(embedding.Dimension)
	config := &genai.EmbedContentConfig{
		TaskType:             taskType,
		OutputDimensionality: &dimension,
	}

	var lastErr error
	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		resp, err := e.models.EmbedContent(ctx, e.model, genai.Text(text), config)
		if err == nil {
			return toVector(resp)
		}
		lastErr = err

		delay, retry := e.retryDelayFor(err, attempt)
		if !retry || attempt == e.maxRetries {
			break
		}

		e.logger.Warn("gemini embed content failed, retrying",
			zap.String("model", e.model),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if err := utils.WaitFor(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("embed content: %w", lastErr)
}

func toVector(resp *genai.EmbedContentResponse) (embedding.Vector, error) {
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, errors.New("gemini api returned no embeddings")
	}

	values := resp.Embeddings[0].Values
	if len(values) != embedding.Dimension {
		return nil, fmt.Errorf("gemini api returned %d dimensions, expected %d", len(values), embedding.Dimension)
	}

	v := make(embedding.Vector, len(values))
	for i, x := range values {
		v[i] = float64(x)
	}
	return embedding.Normalize(v), nil
}

// retryDelayFor reports whether err is transient and how long to wait before
// the next attempt.
func (e *Embedder) retryDelayFor(err error, attempt int) (time.Duration, bool) {
	apiErr, ok := asAPIError(err)
	if !ok {
		return 0, false
	}

	delay := time.Duration(attempt) * e.retryDelay
	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		if requested, found := requestedDelay(apiErr.Message); found {
			if requested > maxQuotaDelay {
				return 0, false
			}
			delay = max(delay, requested)
		}
		return delay, true
	case apiErr.Code >= http.StatusInternalServerError:
		return delay, true
	default:
		return 0, false
	}
}

func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}

func requestedDelay(message string) (time.Duration, bool) {
	m := retryAfterPattern.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)), true
}
