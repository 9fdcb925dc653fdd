package vendors

import (
	"regexp"
	"time"
)

// Vendor is a supplier record in the master list.
type Vendor struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	GSTIN         string     `json:"gstin,omitempty"`
	StateCode     string     `json:"stateCode,omitempty"`
	StateName     string     `json:"stateName,omitempty"`
	Address       string     `json:"address,omitempty"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	ContactPerson string     `json:"contactPerson,omitempty"`
	Categories    []string   `json:"categories"`
	GSTVerified   bool       `json:"gstVerified"`
	GSTVerifiedAt *time.Time `json:"gstVerifiedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// gstinPattern matches the 15-character GSTIN layout: state code, PAN,
// entity number, the literal Z, and a check character.
var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// ValidGSTINFormat reports whether the value has the GSTIN shape. It does
// not verify the check digit or registry status.
func ValidGSTINFormat(gstin string) bool {
	return gstinPattern.MatchString(gstin)
}

// StateCodeFromGSTIN returns the two-digit state code prefix.
func StateCodeFromGSTIN(gstin string) string {
	if len(gstin) < 2 {
		return ""
	}
	return gstin[:2]
}
