package settings

import (
	"context"
	"strings"

	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

// RepositoryPort describes the persistence operations used by the service.
type RepositoryPort interface {
	Get(ctx context.Context) (CompanySettings, error)
	Update(ctx context.Context, s CompanySettings) error
	AllocatePONumber(ctx context.Context) (int64, error)
}

// Service manages company settings.
type Service struct {
	repo RepositoryPort
}

// NewService constructs the settings service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Get returns the current settings.
func (s *Service) Get(ctx context.Context) (CompanySettings, error) {
	return s.repo.Get(ctx)
}

// Update validates and persists the editable settings fields, returning the
// stored value.
func (s *Service) Update(ctx context.Context, in CompanySettings) (CompanySettings, error) {
	verr := &shared.ValidationError{}
	if strings.TrimSpace(in.Name) == "" {
		verr.Add("Company name is required")
	}
	if in.GSTIN != "" && len(in.GSTIN) != 15 {
		verr.Add("GSTIN must be 15 characters")
	}
	if in.GSTIN != "" && in.StateCode != "" && !strings.HasPrefix(in.GSTIN, in.StateCode) {
		verr.Add("State code must match the first two digits of the GSTIN")
	}
	if err := verr.OrNil(); err != nil {
		return CompanySettings{}, err
	}
	if err := s.repo.Update(ctx, in); err != nil {
		return CompanySettings{}, err
	}
	return in, nil
}

// RequireForPO loads settings and fails with a ConfigurationError when the
// buyer GSTIN or state is missing. PO creation surfaces this to the user
// instead of retrying.
func (s *Service) RequireForPO(ctx context.Context) (CompanySettings, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return CompanySettings{}, err
	}
	if cfg.GSTIN == "" {
		return CompanySettings{}, shared.NewConfigurationError("company GSTIN", "")
	}
	if cfg.StateCode == "" {
		return CompanySettings{}, shared.NewConfigurationError("company state code", "")
	}
	return cfg, nil
}

// AllocatePONumber reserves the next PO counter value.
func (s *Service) AllocatePONumber(ctx context.Context) (int64, error) {
	return s.repo.AllocatePONumber(ctx)
}
