package crm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

// RepositoryPort describes persistence used by the service.
type RepositoryPort interface {
	Create(ctx context.Context, lead Lead) error
	Get(ctx context.Context, id string) (Lead, error)
	List(ctx context.Context, stage Stage) ([]Lead, error)
	Update(ctx context.Context, lead Lead) error
}

// AuditPort records audit trail entries.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// NotifierPort publishes collection-change events for live views.
type NotifierPort interface {
	Publish(ctx context.Context, collection, id string)
}

// Service manages the sales pipeline.
type Service struct {
	repo     RepositoryPort
	audit    AuditPort
	notifier NotifierPort
	now      func() time.Time
}

func NewService(repo RepositoryPort, audit AuditPort, notifier NotifierPort) *Service {
	return &Service{repo: repo, audit: audit, notifier: notifier, now: time.Now}
}

// CreateInput describes a new lead.
type CreateInput struct {
	CompanyName   string
	ContactName   string
	Email         string
	Phone         string
	Source        string
	Requirement   string
	ExpectedValue *decimal.Decimal
}

// Create registers a lead at the new stage.
func (s *Service) Create(ctx context.Context, input CreateInput, actorID string) (Lead, error) {
	verr := &shared.ValidationError{}
	if input.CompanyName == "" {
		verr.Add("Company name is required")
	}
	if input.ExpectedValue != nil && input.ExpectedValue.IsNegative() {
		verr.Add("Expected value cannot be negative")
	}
	if err := verr.OrNil(); err != nil {
		return Lead{}, err
	}

	nowAt := s.now().UTC()
	lead := Lead{
		ID:            uuid.NewString(),
		CompanyName:   input.CompanyName,
		ContactName:   input.ContactName,
		Email:         input.Email,
		Phone:         input.Phone,
		Source:        input.Source,
		Requirement:   input.Requirement,
		ExpectedValue: input.ExpectedValue,
		Stage:         StageNew,
		StageHistory:  []StageChange{},
		CreatedAt:     nowAt,
		UpdatedAt:     nowAt,
	}
	if err := s.repo.Create(ctx, lead); err != nil {
		return Lead{}, err
	}
	s.recordAudit(ctx, actorID, "LEAD_CREATE", lead.ID, nil)
	s.publish(ctx, lead.ID)
	return lead, nil
}

func (s *Service) Get(ctx context.Context, id string) (Lead, error) {
	return s.repo.Get(ctx, id)
}

// List returns leads, optionally filtered to one stage.
func (s *Service) List(ctx context.Context, stage Stage) ([]Lead, error) {
	return s.repo.List(ctx, stage)
}

// UpdateInput carries optional field edits; stage moves go through MoveStage.
type UpdateInput struct {
	ContactName   *string
	Email         *string
	Phone         *string
	Requirement   *string
	ExpectedValue *decimal.Decimal
}

// Update edits contact fields on an open lead.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput, actorID string) (Lead, error) {
	lead, err := s.repo.Get(ctx, id)
	if err != nil {
		return Lead{}, err
	}
	if lead.Stage.Terminal() {
		return Lead{}, shared.NewInvalidStateError("lead", fmt.Sprintf("lead is %s and can no longer be edited", lead.Stage))
	}
	if input.ContactName != nil {
		lead.ContactName = *input.ContactName
	}
	if input.Email != nil {
		lead.Email = *input.Email
	}
	if input.Phone != nil {
		lead.Phone = *input.Phone
	}
	if input.Requirement != nil {
		lead.Requirement = *input.Requirement
	}
	if input.ExpectedValue != nil {
		lead.ExpectedValue = input.ExpectedValue
	}
	lead.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, lead); err != nil {
		return Lead{}, err
	}
	s.publish(ctx, lead.ID)
	return lead, nil
}

// MoveStageInput describes one pipeline move.
type MoveStageInput struct {
	To         Stage
	Note       string
	LostReason string
	ProjectID  string
}

// MoveStage advances, rewinds, or closes a lead. Illegal moves fail with
// InvalidStateError; losing a lead requires a reason, winning one may
// attach the project it turned into.
func (s *Service) MoveStage(ctx context.Context, id string, input MoveStageInput, actorID string) (Lead, error) {
	lead, err := s.repo.Get(ctx, id)
	if err != nil {
		return Lead{}, err
	}
	if !CanTransition(lead.Stage, input.To) {
		return Lead{}, shared.NewInvalidStateError("lead",
			fmt.Sprintf("cannot move from %s to %s", lead.Stage, input.To))
	}
	if input.To == StageLost && input.LostReason == "" {
		verr := &shared.ValidationError{}
		verr.Add("A reason is required when marking a lead lost")
		return Lead{}, verr
	}

	nowAt := s.now().UTC()
	lead.StageHistory = append(lead.StageHistory, StageChange{
		From:    lead.Stage,
		To:      input.To,
		Note:    input.Note,
		MovedBy: actorID,
		MovedAt: nowAt,
	})
	lead.Stage = input.To
	lead.UpdatedAt = nowAt
	if input.To == StageLost {
		lead.LostReason = input.LostReason
	}
	if input.To == StageWon && input.ProjectID != "" {
		projectID := input.ProjectID
		lead.ProjectID = &projectID
	}

	if err := s.repo.Update(ctx, lead); err != nil {
		return Lead{}, err
	}
	s.recordAudit(ctx, actorID, "LEAD_STAGE_MOVE", lead.ID, map[string]any{"to": string(input.To)})
	s.publish(ctx, lead.ID)
	return lead, nil
}

// PipelineSummary aggregates open value per stage.
type PipelineSummary struct {
	Counts        map[Stage]int   `json:"counts"`
	ExpectedValue decimal.Decimal `json:"expectedValue"`
}

// Summary totals the pipeline: lead counts per stage and the expected value
// of all open leads.
func (s *Service) Summary(ctx context.Context) (PipelineSummary, error) {
	leads, err := s.repo.List(ctx, "")
	if err != nil {
		return PipelineSummary{}, err
	}
	summary := PipelineSummary{Counts: map[Stage]int{}, ExpectedValue: decimal.Zero}
	for _, lead := range leads {
		summary.Counts[lead.Stage]++
		if !lead.Stage.Terminal() && lead.ExpectedValue != nil {
			summary.ExpectedValue = summary.ExpectedValue.Add(*lead.ExpectedValue)
		}
	}
	return summary, nil
}

func (s *Service) publish(ctx context.Context, id string) {
	if s.notifier != nil {
		s.notifier.Publish(ctx, "leads", id)
	}
}

func (s *Service) recordAudit(ctx context.Context, actorID, action, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{ActorID: actorID, Action: action, Entity: "lead", EntityID: entityID, Meta: meta})
}
