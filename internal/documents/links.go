package documents

import "context"

// LinkFunc persists the full linkedBOMItems list of one document.
type LinkFunc func(ctx context.Context, documentID string, bomItemIDs []string) error

// SyncItemLink moves a BOM item's link to newDocID. The item id is added to
// the new document's linkedBOMItems as a de-duplicated union, and removed
// from prevDocID when one is supplied and differs, so an item is linked to
// at most one PO document at a time. Each changed document is persisted via
// persist; the returned list carries the updated local copies so callers can
// refresh without a re-fetch.
//
// Calling again with the same target is a no-op on the membership: the union
// never introduces duplicates.
func SyncItemLink(ctx context.Context, itemID, newDocID, prevDocID string, docs []Document, persist LinkFunc) ([]Document, error) {
	out := make([]Document, len(docs))
	copy(out, docs)

	for i, doc := range out {
		if doc.ID != newDocID {
			continue
		}
		linked := appendUnique(doc.LinkedBOMItems, itemID)
		if err := persist(ctx, doc.ID, linked); err != nil {
			return nil, err
		}
		doc.LinkedBOMItems = linked
		out[i] = doc
	}

	if prevDocID != "" && prevDocID != newDocID {
		for i, doc := range out {
			if doc.ID != prevDocID {
				continue
			}
			linked := removeID(doc.LinkedBOMItems, itemID)
			if err := persist(ctx, doc.ID, linked); err != nil {
				return nil, err
			}
			doc.LinkedBOMItems = linked
			out[i] = doc
		}
	}

	return out, nil
}

func appendUnique(ids []string, id string) []string {
	out := make([]string, 0, len(ids)+1)
	seen := make(map[string]struct{}, len(ids)+1)
	for _, existing := range append(ids, id) {
		if _, ok := seen[existing]; ok {
			continue
		}
		seen[existing] = struct{}{}
		out = append(out, existing)
	}
	return out
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
