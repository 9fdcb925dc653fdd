// Package aiimport turns pasted BOM text (spreadsheet dumps, quote emails,
// part lists) into structured items ready for review before they join the
// project BOM.
package aiimport

// Options carries project context that sharpens the extraction: the
// categories already on the BOM and the vendor makes the team buys from.
type Options struct {
	KnownCategories []string `json:"knownCategories,omitempty"`
	KnownMakes      []string `json:"knownMakes,omitempty"`
}

// ExtractedItem is one line recognized in the pasted text.
type ExtractedItem struct {
	Name        string  `json:"name"`
	Make        string  `json:"make,omitempty"`
	Description string  `json:"description,omitempty"`
	SKU         string  `json:"sku,omitempty"`
	Quantity    float64 `json:"quantity"`
	Category    string  `json:"category,omitempty"`
	Unit        string  `json:"unit,omitempty"`
}

// Extraction is the full result for one pasted blob.
type Extraction struct {
	Items      []ExtractedItem `json:"items"`
	TotalItems int             `json:"totalItems"`
}
