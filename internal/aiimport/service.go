package aiimport

import (
	"context"
	"log/slog"
	"strings"

	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

// Service runs extractions, falling back to the keyword parser when the
// model is unconfigured or errors out. The caller cannot tell the paths
// apart except through the Source field.
type Service struct {
	logger   *slog.Logger
	agent    Extractor
	fallback Extractor
}

func NewService(logger *slog.Logger, agent Extractor, fallback Extractor) *Service {
	return &Service{logger: logger, agent: agent, fallback: fallback}
}

// Result wraps an extraction with the path that produced it.
type Result struct {
	Extraction
	Source string `json:"source"`
}

// Extract parses the pasted text. Model failures degrade to the keyword
// path instead of failing the request.
func (s *Service) Extract(ctx context.Context, text string, opts Options) (Result, error) {
	if strings.TrimSpace(text) == "" {
		verr := &shared.ValidationError{}
		verr.Add("Text to import is required")
		return Result{}, verr
	}

	if s.agent != nil {
		extraction, err := s.agent.Extract(ctx, text, opts)
		if err == nil {
			return Result{Extraction: extraction, Source: "ai"}, nil
		}
		s.logger.Warn("ai extraction failed, using keyword fallback", "error", err)
	}

	extraction, err := s.fallback.Extract(ctx, text, opts)
	if err != nil {
		return Result{}, err
	}
	return Result{Extraction: extraction, Source: "keyword"}, nil
}
