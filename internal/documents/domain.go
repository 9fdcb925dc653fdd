package documents

import "time"

// Type classifies an uploaded project artifact.
type Type string

const (
	TypeVendorQuote   Type = "vendor-quote"
	TypeVendorPO      Type = "vendor-po"
	TypeVendorInvoice Type = "vendor-invoice"
	TypeCustomerPO    Type = "customer-po"
	TypeOutgoingPO    Type = "outgoing-po"
)

// Document is an uploaded artifact tied to a project. LinkedBOMItems is the
// authoritative document-to-items side of the bidirectional link; items
// carry the reverse pointers.
type Document struct {
	ID             string    `json:"id"`
	ProjectID      string    `json:"projectId"`
	Name           string    `json:"name"`
	URL            string    `json:"url"`
	Type           Type      `json:"type"`
	LinkedBOMItems []string  `json:"linkedBOMItems"`
	UploadedBy     string    `json:"uploadedBy,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
