package vendors

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

// RepositoryPort describes persistence used by the service.
type RepositoryPort interface {
	Create(ctx context.Context, v Vendor) error
	Get(ctx context.Context, id string) (Vendor, error)
	GetByGSTIN(ctx context.Context, gstin string) (Vendor, error)
	List(ctx context.Context, search string, limit, offset int) ([]Vendor, error)
	Count(ctx context.Context, search string) (int, error)
	Update(ctx context.Context, v Vendor) error
	Delete(ctx context.Context, id string) error
}

// AuditPort records audit trail entries.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service manages the vendor master list.
type Service struct {
	repo     RepositoryPort
	verifier GSTINVerifier
	audit    AuditPort
	now      func() time.Time
}

func NewService(repo RepositoryPort, verifier GSTINVerifier, audit AuditPort) *Service {
	return &Service{repo: repo, verifier: verifier, audit: audit, now: time.Now}
}

// CreateInput describes a new vendor.
type CreateInput struct {
	Name          string
	GSTIN         string
	StateCode     string
	StateName     string
	Address       string
	Email         string
	Phone         string
	ContactPerson string
	Categories    []string
}

// Create validates and stores a vendor. When a GSTIN is given its state
// code prefix wins over a conflicting StateCode field.
func (s *Service) Create(ctx context.Context, input CreateInput, actorID string) (Vendor, error) {
	if err := validateInput(input); err != nil {
		return Vendor{}, err
	}

	stateCode := input.StateCode
	if input.GSTIN != "" {
		stateCode = StateCodeFromGSTIN(input.GSTIN)
	}
	nowAt := s.now().UTC()
	v := Vendor{
		ID:            uuid.NewString(),
		Name:          input.Name,
		GSTIN:         input.GSTIN,
		StateCode:     stateCode,
		StateName:     input.StateName,
		Address:       input.Address,
		Email:         input.Email,
		Phone:         input.Phone,
		ContactPerson: input.ContactPerson,
		Categories:    input.Categories,
		CreatedAt:     nowAt,
		UpdatedAt:     nowAt,
	}
	if v.Categories == nil {
		v.Categories = []string{}
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return Vendor{}, err
	}
	s.recordAudit(ctx, actorID, "VENDOR_CREATE", v.ID, nil)
	return v, nil
}

func (s *Service) Get(ctx context.Context, id string) (Vendor, error) {
	return s.repo.Get(ctx, id)
}

// List returns one page of vendors plus paging metadata.
func (s *Service) List(ctx context.Context, search string, page, perPage int) ([]Vendor, shared.Pagination, error) {
	total, err := s.repo.Count(ctx, search)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	pg := shared.NewPagination(page, perPage, total)
	list, err := s.repo.List(ctx, search, pg.PerPage, (pg.Page-1)*pg.PerPage)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, pg, nil
}

// Update applies edits to an existing vendor. Changing the GSTIN resets the
// verification flag.
func (s *Service) Update(ctx context.Context, id string, input CreateInput, actorID string) (Vendor, error) {
	if err := validateInput(input); err != nil {
		return Vendor{}, err
	}
	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return Vendor{}, err
	}
	if input.GSTIN != v.GSTIN {
		v.GSTVerified = false
		v.GSTVerifiedAt = nil
	}
	v.Name = input.Name
	v.GSTIN = input.GSTIN
	v.StateCode = input.StateCode
	if input.GSTIN != "" {
		v.StateCode = StateCodeFromGSTIN(input.GSTIN)
	}
	v.StateName = input.StateName
	v.Address = input.Address
	v.Email = input.Email
	v.Phone = input.Phone
	v.ContactPerson = input.ContactPerson
	if input.Categories != nil {
		v.Categories = input.Categories
	}
	v.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, v); err != nil {
		return Vendor{}, err
	}
	s.recordAudit(ctx, actorID, "VENDOR_UPDATE", v.ID, nil)
	return v, nil
}

func (s *Service) Delete(ctx context.Context, id, actorID string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "VENDOR_DELETE", id, nil)
	return nil
}

// VerifyGSTIN checks the vendor's GSTIN against the registry and stamps the
// record on success. An inactive registration fails with InvalidStateError.
func (s *Service) VerifyGSTIN(ctx context.Context, id, actorID string) (Vendor, error) {
	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return Vendor{}, err
	}
	if v.GSTIN == "" {
		return Vendor{}, shared.NewInvalidStateError("vendor", "vendor has no GSTIN to verify")
	}
	if s.verifier == nil {
		return Vendor{}, shared.NewConfigurationError("gstin_registry", "GSTIN verification is not configured")
	}

	result, err := s.verifier.Verify(ctx, v.GSTIN)
	if err != nil {
		return Vendor{}, err
	}
	if !result.Active {
		return Vendor{}, shared.NewInvalidStateError("vendor", "GSTIN registration is not active")
	}

	verifiedAt := s.now().UTC()
	v.GSTVerified = true
	v.GSTVerifiedAt = &verifiedAt
	if result.StateCode != "" {
		v.StateCode = result.StateCode
	}
	v.UpdatedAt = verifiedAt
	if err := s.repo.Update(ctx, v); err != nil {
		return Vendor{}, err
	}
	s.recordAudit(ctx, actorID, "VENDOR_GSTIN_VERIFY", v.ID, map[string]any{"legalName": result.LegalName})
	return v, nil
}

func validateInput(input CreateInput) error {
	verr := &shared.ValidationError{}
	if input.Name == "" {
		verr.Add("Vendor name is required")
	}
	if input.GSTIN != "" && !ValidGSTINFormat(input.GSTIN) {
		verr.Add("GSTIN %q is not a valid 15-character GSTIN", input.GSTIN)
	}
	if input.GSTIN != "" && input.StateCode != "" && StateCodeFromGSTIN(input.GSTIN) != input.StateCode {
		verr.Add("State code %s does not match GSTIN prefix %s", input.StateCode, StateCodeFromGSTIN(input.GSTIN))
	}
	return verr.OrNil()
}

func (s *Service) recordAudit(ctx context.Context, actorID, action, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{ActorID: actorID, Action: action, Entity: "vendor", EntityID: entityID, Meta: meta})
}
