package documents

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/QualitasTechnologies/bom-tracker/internal/bom"
	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

type memoryDocRepo struct {
	docs map[string]Document
}

func newMemoryDocRepo() *memoryDocRepo {
	return &memoryDocRepo{docs: map[string]Document{}}
}

func (m *memoryDocRepo) Create(_ context.Context, doc Document) error {
	m.docs[doc.ID] = doc
	return nil
}

func (m *memoryDocRepo) Get(_ context.Context, id string) (Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return Document{}, shared.ErrNotFound
	}
	return doc, nil
}

func (m *memoryDocRepo) ListByProject(_ context.Context, projectID string) ([]Document, error) {
	out := []Document{}
	for _, doc := range m.docs {
		if doc.ProjectID == projectID {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (m *memoryDocRepo) UpdateLinks(_ context.Context, id string, bomItemIDs []string) error {
	doc, ok := m.docs[id]
	if !ok {
		return shared.ErrNotFound
	}
	doc.LinkedBOMItems = bomItemIDs
	m.docs[id] = doc
	return nil
}

func (m *memoryDocRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.docs[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

type memoryStorage struct {
	objects map[string][]byte
	removed []string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

func (m *memoryStorage) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memoryStorage) PresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://files.local/" + key, nil
}

func (m *memoryStorage) Remove(_ context.Context, key string) error {
	m.removed = append(m.removed, key)
	delete(m.objects, key)
	return nil
}

type stubBOM struct {
	categories []bom.Category
}

func (s *stubBOM) Get(_ context.Context, _ string) ([]bom.Category, error) {
	return s.categories, nil
}

func newDocService(repo *memoryDocRepo, storage *memoryStorage, boms *stubBOM) *Service {
	svc := NewService(repo, storage, boms, nil)
	svc.now = func() time.Time { return time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestUploadStoresFileAndRecord(t *testing.T) {
	repo := newMemoryDocRepo()
	storage := newMemoryStorage()
	svc := newDocService(repo, storage, &stubBOM{})

	doc, err := svc.Upload(context.Background(), "p1", UploadInput{
		Name:        "servo-quote.pdf",
		Type:        TypeVendorQuote,
		ContentType: "application/pdf",
		Size:        4,
		UploadedBy:  "user-1",
	}, bytes.NewReader([]byte("%PDF")))
	require.NoError(t, err)
	require.NotEmpty(t, doc.ID)
	require.Equal(t, TypeVendorQuote, doc.Type)
	require.Empty(t, doc.LinkedBOMItems)

	require.Contains(t, storage.objects, doc.URL)
	stored, err := repo.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Equal(t, doc, stored)
}

func TestUploadRejectsUnknownType(t *testing.T) {
	svc := newDocService(newMemoryDocRepo(), newMemoryStorage(), &stubBOM{})

	_, err := svc.Upload(context.Background(), "p1", UploadInput{
		Name: "notes.txt",
		Type: Type("scratchpad"),
	}, bytes.NewReader(nil))
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestDeleteBlockedWhileItemOrdered(t *testing.T) {
	repo := newMemoryDocRepo()
	storage := newMemoryStorage()
	docID := "doc-po"
	boms := &stubBOM{categories: []bom.Category{
		{Name: "Motion", Items: []bom.Item{
			{ID: "i1", Status: bom.StatusOrdered, LinkedPODocumentID: &docID},
		}},
	}}
	svc := newDocService(repo, storage, boms)
	repo.docs[docID] = Document{ID: docID, ProjectID: "p1", Type: TypeVendorPO, URL: "projects/p1/doc-po.pdf"}

	err := svc.Delete(context.Background(), docID, "user-1")
	var stateErr *shared.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	require.Contains(t, repo.docs, docID)
	require.Empty(t, storage.removed)

	check, err := svc.CheckDelete(context.Background(), docID)
	require.NoError(t, err)
	require.False(t, check.CanDelete)
	require.Len(t, check.BlockedByItems, 1)
}

func TestDeleteRemovesRecordAndObject(t *testing.T) {
	repo := newMemoryDocRepo()
	storage := newMemoryStorage()
	svc := newDocService(repo, storage, &stubBOM{})
	repo.docs["doc-1"] = Document{ID: "doc-1", ProjectID: "p1", Type: TypeVendorQuote, URL: "projects/p1/doc-1.pdf"}
	storage.objects["projects/p1/doc-1.pdf"] = []byte("%PDF")

	require.NoError(t, svc.Delete(context.Background(), "doc-1", "user-1"))
	require.NotContains(t, repo.docs, "doc-1")
	require.Equal(t, []string{"projects/p1/doc-1.pdf"}, storage.removed)
}

func TestServiceSyncItemLinkMovesMembership(t *testing.T) {
	repo := newMemoryDocRepo()
	svc := newDocService(repo, newMemoryStorage(), &stubBOM{})
	repo.docs["doc-a"] = Document{ID: "doc-a", ProjectID: "p1", Type: TypeVendorPO, LinkedBOMItems: []string{"i1", "i2"}}
	repo.docs["doc-b"] = Document{ID: "doc-b", ProjectID: "p1", Type: TypeVendorPO, LinkedBOMItems: []string{}}

	require.NoError(t, svc.SyncItemLink(context.Background(), "p1", "i1", "doc-b", "doc-a"))
	require.Equal(t, []string{"i2"}, repo.docs["doc-a"].LinkedBOMItems)
	require.Equal(t, []string{"i1"}, repo.docs["doc-b"].LinkedBOMItems)
}

func TestUnlinkItemClearsEveryDocument(t *testing.T) {
	repo := newMemoryDocRepo()
	svc := newDocService(repo, newMemoryStorage(), &stubBOM{})
	repo.docs["doc-a"] = Document{ID: "doc-a", ProjectID: "p1", Type: TypeVendorPO, LinkedBOMItems: []string{"i1"}}
	repo.docs["doc-b"] = Document{ID: "doc-b", ProjectID: "p1", Type: TypeVendorInvoice, LinkedBOMItems: []string{"i1", "i2"}}
	repo.docs["doc-c"] = Document{ID: "doc-c", ProjectID: "p2", Type: TypeVendorPO, LinkedBOMItems: []string{"i1"}}

	require.NoError(t, svc.UnlinkItem(context.Background(), "p1", "i1"))
	require.Empty(t, repo.docs["doc-a"].LinkedBOMItems)
	require.Equal(t, []string{"i2"}, repo.docs["doc-b"].LinkedBOMItems)
	// other project untouched
	require.Equal(t, []string{"i1"}, repo.docs["doc-c"].LinkedBOMItems)
}
