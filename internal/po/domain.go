package po

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the purchase order lifecycle.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// TaxType selects the GST split applied to a purchase order.
type TaxType string

const (
	// TaxIGST applies to interstate supply: buyer and seller registered in
	// different states.
	TaxIGST TaxType = "igst"
	// TaxCGSTSGST applies to intrastate supply and splits the tax evenly.
	TaxCGSTSGST TaxType = "cgst-sgst"
)

// Party is a vendor, invoice-to, or ship-to block printed on the PO.
type Party struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	GSTIN     string `json:"gstin,omitempty"`
	StateCode string `json:"stateCode"`
	StateName string `json:"stateName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Item is one line of a purchase order. SlNo is assigned densely from 1 in
// input order; Amount is always recomputed from Quantity and Rate.
type Item struct {
	SlNo        int             `json:"slNo"`
	Description string          `json:"description"`
	HSN         string          `json:"hsn,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UOM         string          `json:"uom"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
	// BOMItemID links the line back to the project BOM entry it procures.
	BOMItemID string `json:"bomItemId,omitempty"`
}

// Totals carries the computed financial fields of a purchase order. They
// are a pure function of the items, tax type, and tax percentage, never
// hand-edited.
type Totals struct {
	Subtotal      decimal.Decimal  `json:"subtotal"`
	TaxType       TaxType          `json:"taxType"`
	TaxPercentage decimal.Decimal  `json:"taxPercentage"`
	IGSTAmount    *decimal.Decimal `json:"igstAmount,omitempty"`
	CGSTAmount    *decimal.Decimal `json:"cgstAmount,omitempty"`
	SGSTAmount    *decimal.Decimal `json:"sgstAmount,omitempty"`
	TotalAmount   decimal.Decimal  `json:"totalAmount"`
	AmountInWords string           `json:"amountInWords"`
}

// HalfTaxPercentage is the per-component rate printed against the CGST and
// SGST lines.
func (t Totals) HalfTaxPercentage() decimal.Decimal {
	return t.TaxPercentage.Div(decimal.NewFromInt(2))
}

// PurchaseOrder is the full procurement instrument. Items are immutable
// after creation; while draft, only terms, dates, and the ship-to block may
// change.
type PurchaseOrder struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`
	PONumber  string `json:"poNumber"`

	Vendor    Party `json:"vendor"`
	InvoiceTo Party `json:"invoiceTo"`
	ShipTo    Party `json:"shipTo"`

	Items []Item `json:"items"`
	Totals

	Terms        string `json:"terms,omitempty"`
	DeliveryNote string `json:"deliveryNote,omitempty"`

	Status   Status   `json:"status"`
	Warnings []string `json:"warnings"`

	PODate    string     `json:"poDate"`
	CreatedBy string     `json:"createdBy"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	SentAt    *time.Time `json:"sentAt,omitempty"`
	ClosedAt  *time.Time `json:"closedAt,omitempty"`

	// PDFURL is set once the rendered document has been stored.
	PDFURL string `json:"pdfUrl,omitempty"`
}

// Editable reports whether the order still accepts edits.
func (p *PurchaseOrder) Editable() bool {
	return p.Status == StatusDraft
}
