package vector

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/candidates"
	"github.com/spigell/resume-ranker/internal/embedding"
	"github.com/spigell/resume-ranker/internal/logger"
)

type qdrantClient interface {
	CollectionExists(ctx context.Context, collectionName string) (bool, error)
	CreateCollection(ctx context.Context, request *qdrant.CreateCollection) error
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	Close() error
}

// Qdrant is a resume index backed by one Qdrant collection.
type Qdrant struct {
	client     qdrantClient
	collection string
	dimension  int
	embedder   string
	logger     *zap.Logger
}

// NewQdrant connects to the Qdrant gRPC endpoint at rawURL. Points are sized
// and tagged after the embedder, and searches only see points of the same
// embedder.
func NewQdrant(rawURL, apiKey, collection string, embedder embedding.Embedder, log *zap.Logger) (*Qdrant, error) {
	ep, err := parseEndpoint(rawURL)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   ep.host,
		Port:   ep.port,
		APIKey: apiKey,
		UseTLS: ep.useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return newQdrant(client, collection, embedder.Dimension(), embedder.Name(), log), nil
}

func newQdrant(client qdrantClient, collection string, dimension int, embedder string, log *zap.Logger) *Qdrant {
	return &Qdrant{
		client:     client,
		collection: collection,
		dimension:  dimension,
		embedder:   embedder,
		logger:     logger.WithFields(log, zap.String("collection", collection)),
	}
}

// EnsureCollection creates the collection with cosine distance unless it exists.
func (q *Qdrant) EnsureCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		q.logger.Debug("collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(q.dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	q.logger.Info("collection created", zap.Int("dimension", q.dimension))
	return nil
}

// Upsert stores the embeddings of the given resumes. Resumes without an
// embedding are skipped; a vector of the wrong size is an error.
func (q *Qdrant) Upsert(ctx context.Context, resumes []*candidates.Resume) error {
	points := make([]*qdrant.PointStruct, 0, len(resumes))
	for _, resume := range resumes {
		if len(resume.Embedding) == 0 {
			continue
		}
		if len(resume.Embedding) != q.dimension {
			return fmt.Errorf("resume %s: embedding has %d dimensions, collection expects %d", resume.ID, len(resume.Embedding), q.dimension)
		}

		points = append(points, &qdrant.PointStruct{
			Id:      &qdrant.PointId{PointIdOptions: &qdrant.PointId_Uuid{Uuid: PointID(resume.ID)}},
			Vectors: qdrant.NewVectors(resume.Embedding.Float32()...),
			Payload: qdrant.NewValueMap(map[string]any{
				ResumeIDKey: resume.ID,
				EmbedderKey: q.embedder,
			}),
		})
	}

	if len(points) == 0 {
		return nil
	}

	if _, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	}); err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	q.logger.Info("resumes indexed", zap.Int("points", len(points)))
	return nil
}

// Search returns up to limit resumes closest to v, best first.
func (q *Qdrant) Search(ctx context.Context, v embedding.Vector, limit int) ([]Hit, error) {
	if len(v) != q.dimension {
		return nil, fmt.Errorf("query has %d dimensions, collection expects %d", len(v), q.dimension)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("search limit must be positive, got %d", limit)
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collection,
		Query:          qdrant.NewQuery(v.Float32()...),
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch(EmbedderKey, q.embedder)},
		},
		Limit:       qdrant.PtrOf(uint64(limit)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	hits := make([]Hit, 0, len(points))
	for _, point := range points {
		id := point.GetPayload()[ResumeIDKey].GetStringValue()
		if id == "" {
			q.logger.Debug("point without resume id", zap.String("point_id", point.GetId().GetUuid()))
			continue
		}
		hits = append(hits, Hit{ResumeID: id, Score: point.GetScore()})
	}

	q.logger.Debug("vector search", zap.Int("limit", limit), zap.Int("hits", len(hits)))
	return hits, nil
}

func (q *Qdrant) Close() error {
	return q.client.Close()
}
