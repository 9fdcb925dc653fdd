package settings

// CompanySettings is the single-row configuration record for the company
// issuing purchase orders: identity and tax registration of the buyer plus
// the PO numbering scheme.
type CompanySettings struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	GSTIN     string `json:"gstin"`
	StateCode string `json:"stateCode"`
	StateName string `json:"stateName"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	LogoURL   string `json:"logoUrl,omitempty"`

	PONumberPrefix string `json:"poNumberPrefix"`
	PONumberFormat string `json:"poNumberFormat"`
	NextPONumber   int64  `json:"nextPoNumber"`
}

// Configured reports whether the fields required for PO generation are set.
func (s CompanySettings) Configured() bool {
	return s.GSTIN != "" && s.StateCode != ""
}
