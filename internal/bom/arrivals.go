package bom

// OverdueItem pairs an ordered item with its project for inward reporting.
type OverdueItem struct {
	ProjectID string `json:"projectId"`
	Item      Item   `json:"item"`
}

// OverdueItems returns every ordered item whose expected arrival date is on
// or before asOf (ISO yyyy-mm-dd) and that has not been received. ISO dates
// compare correctly as strings. Items without an expected date are skipped.
func OverdueItems(projectID string, categories []Category, asOf string) []OverdueItem {
	var out []OverdueItem
	for _, cat := range categories {
		for _, item := range cat.Items {
			if item.Status != StatusOrdered || item.ExpectedArrival == nil {
				continue
			}
			if *item.ExpectedArrival <= asOf {
				out = append(out, OverdueItem{ProjectID: projectID, Item: item})
			}
		}
	}
	return out
}
