package vendors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// VerificationResult is the registry's answer for one GSTIN.
type VerificationResult struct {
	GSTIN     string `json:"gstin"`
	LegalName string `json:"legalName"`
	StateCode string `json:"stateCode"`
	Active    bool   `json:"active"`
}

// GSTINVerifier checks a GSTIN against a registry service.
type GSTINVerifier interface {
	Verify(ctx context.Context, gstin string) (VerificationResult, error)
}

// RegistryClient calls an external GSTIN lookup API.
type RegistryClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewRegistryClient(baseURL, apiKey string) *RegistryClient {
	return &RegistryClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *RegistryClient) Verify(ctx context.Context, gstin string) (VerificationResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/gstin/"+url.PathEscape(gstin), nil)
	if err != nil {
		return VerificationResult{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return VerificationResult{}, fmt.Errorf("gstin registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return VerificationResult{}, fmt.Errorf("gstin registry: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		GSTIN     string `json:"gstin"`
		LegalName string `json:"lgnm"`
		StateCode string `json:"stcd"`
		Status    string `json:"sts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return VerificationResult{}, fmt.Errorf("gstin registry: decode: %w", err)
	}
	return VerificationResult{
		GSTIN:     body.GSTIN,
		LegalName: body.LegalName,
		StateCode: body.StateCode,
		Active:    body.Status == "Active",
	}, nil
}
