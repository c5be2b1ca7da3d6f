// Package vector keeps resume embeddings in a Qdrant collection so candidate
// pools can be narrowed to the nearest neighbours of a job.
package vector

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

const (
	// ResumeIDKey is the payload key holding the resume ID of a point.
	ResumeIDKey = "resume_id"
	// EmbedderKey is the payload key holding the name of the embedder.
	EmbedderKey = "embedder"

	defaultGRPCPort = 6334
)

var pointNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/spigell/resume-ranker/resumes"))

// Hit is one nearest neighbour returned by a search.
type Hit struct {
	ResumeID string
	Score    float32
}

// PointID maps a resume ID to the stable UUID of its point, so ingesting a
// resume twice overwrites the same point.
func PointID(resumeID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(resumeID)).String()
}

type endpoint struct {
	host   string
	port   int
	useTLS bool
}

// parseEndpoint reads a Qdrant URL. The gRPC port is used when none is given.
func parseEndpoint(raw string) (endpoint, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return endpoint{}, fmt.Errorf("invalid qdrant url: %w", err)
	}
	if parsed.Hostname() == "" {
		return endpoint{}, fmt.Errorf("invalid qdrant url %q: host is required", raw)
	}

	ep := endpoint{
		host:   parsed.Hostname(),
		port:   defaultGRPCPort,
		useTLS: parsed.Scheme == "https",
	}
	if p := parsed.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return endpoint{}, fmt.Errorf("invalid qdrant port %q: %w", p, err)
		}
		ep.port = port
	}
	return ep, nil
}
