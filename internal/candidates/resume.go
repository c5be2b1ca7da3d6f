package candidates

import (
	"time"

	"github.com/spigell/resume-ranker/internal/embedding"
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusProcessed  Status = "processed"
	StatusFailed     Status = "failed"
)

// Redacted replaces personal data in views shown to non-recruiters.
const Redacted = "[REDACTED]"

type Resume struct {
	ID               string           `json:"id" mapstructure:"id"`
	OriginalFilename string           `json:"originalFilename,omitempty" mapstructure:"originalFilename"`
	Status           Status           `json:"status" mapstructure:"status"`
	ParsedContent    string           `json:"parsedContent,omitempty" mapstructure:"parsedContent"`
	ExtractedData    ExtractedData    `json:"extractedData" mapstructure:"extractedData"`
	Embedding        embedding.Vector `json:"embedding" mapstructure:"embedding"`
	Embedder         string           `json:"embedder,omitempty" mapstructure:"embedder"`
	ProcessedAt      *time.Time       `json:"processedAt,omitempty" mapstructure:"processedAt"`
	ErrorMessage     string           `json:"errorMessage,omitempty" mapstructure:"errorMessage"`
}

type ExtractedData struct {
	Name           string       `json:"name,omitempty" mapstructure:"name"`
	Email          string       `json:"email,omitempty" mapstructure:"email"`
	Phone          string       `json:"phone,omitempty" mapstructure:"phone"`
	Address        string       `json:"address,omitempty" mapstructure:"address"`
	Skills         []string     `json:"skills" mapstructure:"skills"`
	Experience     []Experience `json:"experience" mapstructure:"experience"`
	Education      []Education  `json:"education" mapstructure:"education"`
	Certifications []string     `json:"certifications" mapstructure:"certifications"`
	Languages      []string     `json:"languages" mapstructure:"languages"`
	Summary        string       `json:"summary,omitempty" mapstructure:"summary"`
}

type Experience struct {
	Company     string `json:"company" mapstructure:"company"`
	Position    string `json:"position" mapstructure:"position"`
	StartDate   string `json:"startDate" mapstructure:"startDate"`
	EndDate     string `json:"endDate" mapstructure:"endDate"`
	Description string `json:"description" mapstructure:"description"`
	Duration    string `json:"duration,omitempty" mapstructure:"duration"`
}

type Education struct {
	Institution string `json:"institution" mapstructure:"institution"`
	Degree      string `json:"degree" mapstructure:"degree"`
	Field       string `json:"field" mapstructure:"field"`
	StartDate   string `json:"startDate" mapstructure:"startDate"`
	EndDate     string `json:"endDate" mapstructure:"endDate"`
	GPA         string `json:"gpa,omitempty" mapstructure:"gpa"`
}

// Safe returns a copy of the resume suitable for the given audience.
// Recruiters see everything. Everybody else gets contact data and
// experience descriptions replaced with Redacted. r is never modified.
func (r *Resume) Safe(isRecruiter bool) *Resume {
	safe := *r
	if isRecruiter {
		return &safe
	}

	data := &safe.ExtractedData
	for _, field := range []*string{&data.Name, &data.Email, &data.Phone, &data.Address} {
		if *field != "" {
			*field = Redacted
		}
	}

	if r.ExtractedData.Experience != nil {
		data.Experience = make([]Experience, len(r.ExtractedData.Experience))
		for i, exp := range r.ExtractedData.Experience {
			if exp.Description != "" {
				exp.Description = Redacted
			}
			data.Experience[i] = exp
		}
	}

	return &safe
}

// EmbeddedWith returns the name of the embedder behind Embedding.
func (r *Resume) EmbeddedWith() string {
	if r.Embedder == "" {
		return embedding.HashName
	}
	return r.Embedder
}

// Rankable reports whether the resume may enter a ranking pool.
func (r *Resume) Rankable() bool {
	return r.Status == StatusProcessed && r.ParsedContent != ""
}
