package bom

// BatchUpdateStatus returns a new category list in which every item whose id
// is in itemIDs carries the target status, all other fields preserved. Items
// outside the set are untouched and the inputs are never mutated, so the
// whole transition lands as one logical write; concurrent readers never see
// a half-updated set.
//
// Unknown ids are ignored. An empty id set returns an unchanged copy.
func BatchUpdateStatus(categories []Category, itemIDs []string, target ItemStatus) []Category {
	targets := make(map[string]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		targets[id] = struct{}{}
	}
	out := CloneCategories(categories)
	for i := range out {
		for j := range out[i].Items {
			if _, ok := targets[out[i].Items[j].ID]; ok {
				out[i].Items[j].Status = target
			}
		}
	}
	return out
}
