package documents

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/QualitasTechnologies/bom-tracker/internal/bom"
	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

// RepositoryPort describes persistence used by the service.
type RepositoryPort interface {
	Create(ctx context.Context, doc Document) error
	Get(ctx context.Context, id string) (Document, error)
	ListByProject(ctx context.Context, projectID string) ([]Document, error)
	UpdateLinks(ctx context.Context, id string, bomItemIDs []string) error
	Delete(ctx context.Context, id string) error
}

// StoragePort describes the object store used for file content.
type StoragePort interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	Remove(ctx context.Context, key string) error
}

// BOMPort reads project items for the deletion guard.
type BOMPort interface {
	Get(ctx context.Context, projectID string) ([]bom.Category, error)
}

// AuditPort records audit trail entries.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service manages project documents and their BOM linkage.
type Service struct {
	repo    RepositoryPort
	storage StoragePort
	boms    BOMPort
	audit   AuditPort
	now     func() time.Time
}

func NewService(repo RepositoryPort, storage StoragePort, boms BOMPort, audit AuditPort) *Service {
	return &Service{repo: repo, storage: storage, boms: boms, audit: audit, now: time.Now}
}

// UploadInput describes a new file upload.
type UploadInput struct {
	Name        string
	Type        Type
	ContentType string
	Size        int64
	UploadedBy  string
}

// Upload stores the file and registers its document record.
func (s *Service) Upload(ctx context.Context, projectID string, input UploadInput, content io.Reader) (Document, error) {
	verr := &shared.ValidationError{}
	if input.Name == "" {
		verr.Add("Document name is required")
	}
	switch input.Type {
	case TypeVendorQuote, TypeVendorPO, TypeVendorInvoice, TypeCustomerPO, TypeOutgoingPO:
	default:
		verr.Add("Unknown document type %q", input.Type)
	}
	if err := verr.OrNil(); err != nil {
		return Document{}, err
	}

	id := uuid.NewString()
	key := fmt.Sprintf("projects/%s/%s%s", projectID, id, path.Ext(input.Name))
	if err := s.storage.Put(ctx, key, content, input.Size, input.ContentType); err != nil {
		return Document{}, shared.WrapPersistence("documents.upload", err)
	}

	doc := Document{
		ID:             id,
		ProjectID:      projectID,
		Name:           input.Name,
		URL:            key,
		Type:           input.Type,
		LinkedBOMItems: []string{},
		UploadedBy:     input.UploadedBy,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}
	s.recordAudit(ctx, input.UploadedBy, "DOCUMENT_UPLOAD", doc.ID, map[string]any{"type": string(doc.Type)})
	return doc, nil
}

// Get returns one document.
func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	return s.repo.Get(ctx, id)
}

// List returns all documents of a project, newest first.
func (s *Service) List(ctx context.Context, projectID string) ([]Document, error) {
	return s.repo.ListByProject(ctx, projectID)
}

// DownloadURL returns a time-limited link to the file content.
func (s *Service) DownloadURL(ctx context.Context, id string) (string, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return s.storage.PresignedURL(ctx, doc.URL, 15*time.Minute)
}

// CheckDelete runs the deletion guard without deleting anything.
func (s *Service) CheckDelete(ctx context.Context, id string) (DeleteCheck, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return DeleteCheck{}, err
	}
	items, err := s.projectItems(ctx, doc.ProjectID)
	if err != nil {
		return DeleteCheck{}, err
	}
	return CanDelete(doc, items), nil
}

// Delete removes a document after the guard clears it. Blocked deletions
// fail with an InvalidStateError naming the reason.
func (s *Service) Delete(ctx context.Context, id, actorID string) error {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	items, err := s.projectItems(ctx, doc.ProjectID)
	if err != nil {
		return err
	}
	if check := CanDelete(doc, items); !check.CanDelete {
		return shared.NewInvalidStateError("document", check.Reason)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.storage.Remove(ctx, doc.URL); err != nil {
		return shared.WrapPersistence("documents.remove_object", err)
	}
	s.recordAudit(ctx, actorID, "DOCUMENT_DELETE", id, nil)
	return nil
}

// SyncItemLink moves a BOM item's document link to newDocID, updating both
// the new and previous documents' link lists.
func (s *Service) SyncItemLink(ctx context.Context, projectID, itemID, newDocID, prevDocID string) error {
	docs, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}
	_, err = SyncItemLink(ctx, itemID, newDocID, prevDocID, docs, s.repo.UpdateLinks)
	return err
}

// UnlinkItem drops the item from every document link list in the project.
// Used when an item is deleted or reverted to not-ordered.
func (s *Service) UnlinkItem(ctx context.Context, projectID, itemID string) error {
	docs, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}
	for _, doc := range docs {
		linked := removeID(doc.LinkedBOMItems, itemID)
		if len(linked) == len(doc.LinkedBOMItems) {
			continue
		}
		if err := s.repo.UpdateLinks(ctx, doc.ID, linked); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) projectItems(ctx context.Context, projectID string) ([]bom.Item, error) {
	categories, err := s.boms.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var items []bom.Item
	for _, cat := range categories {
		items = append(items, cat.Items...)
	}
	return items, nil
}

func (s *Service) recordAudit(ctx context.Context, actorID, action, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{ActorID: actorID, Action: action, Entity: "document", EntityID: entityID, Meta: meta})
}
