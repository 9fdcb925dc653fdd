package vendors

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

type memoryVendorRepo struct {
	vendors map[string]Vendor
}

func newMemoryVendorRepo() *memoryVendorRepo {
	return &memoryVendorRepo{vendors: map[string]Vendor{}}
}

func (m *memoryVendorRepo) Create(_ context.Context, v Vendor) error {
	if v.GSTIN != "" {
		for _, existing := range m.vendors {
			if existing.GSTIN == v.GSTIN {
				return ErrDuplicateGSTIN
			}
		}
	}
	m.vendors[v.ID] = v
	return nil
}

func (m *memoryVendorRepo) Get(_ context.Context, id string) (Vendor, error) {
	v, ok := m.vendors[id]
	if !ok {
		return Vendor{}, shared.ErrNotFound
	}
	return v, nil
}

func (m *memoryVendorRepo) GetByGSTIN(_ context.Context, gstin string) (Vendor, error) {
	for _, v := range m.vendors {
		if v.GSTIN == gstin {
			return v, nil
		}
	}
	return Vendor{}, shared.ErrNotFound
}

func (m *memoryVendorRepo) List(_ context.Context, search string, limit, offset int) ([]Vendor, error) {
	out := []Vendor{}
	for _, v := range m.vendors {
		if search == "" || strings.Contains(strings.ToLower(v.Name), strings.ToLower(search)) {
			out = append(out, v)
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryVendorRepo) Count(_ context.Context, search string) (int, error) {
	n := 0
	for _, v := range m.vendors {
		if search == "" || strings.Contains(strings.ToLower(v.Name), strings.ToLower(search)) {
			n++
		}
	}
	return n, nil
}

func (m *memoryVendorRepo) Update(_ context.Context, v Vendor) error {
	if _, ok := m.vendors[v.ID]; !ok {
		return shared.ErrNotFound
	}
	m.vendors[v.ID] = v
	return nil
}

func (m *memoryVendorRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.vendors[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.vendors, id)
	return nil
}

type stubVerifier struct {
	result VerificationResult
	err    error
	calls  []string
}

func (s *stubVerifier) Verify(_ context.Context, gstin string) (VerificationResult, error) {
	s.calls = append(s.calls, gstin)
	return s.result, s.err
}

const validGSTIN = "27AABCQ1234F1Z5"

func newVendorService(repo *memoryVendorRepo, verifier GSTINVerifier) *Service {
	svc := NewService(repo, verifier, nil)
	svc.now = func() time.Time { return time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreateDerivesStateCodeFromGSTIN(t *testing.T) {
	repo := newMemoryVendorRepo()
	svc := newVendorService(repo, nil)

	v, err := svc.Create(context.Background(), CreateInput{
		Name:  "Precision Motors",
		GSTIN: validGSTIN,
	}, "user-1")
	require.NoError(t, err)
	require.Equal(t, "27", v.StateCode)
	require.False(t, v.GSTVerified)
}

func TestCreateValidation(t *testing.T) {
	svc := newVendorService(newMemoryVendorRepo(), nil)

	_, err := svc.Create(context.Background(), CreateInput{
		GSTIN:     "NOT-A-GSTIN",
		StateCode: "29",
	}, "user-1")
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Messages, 2) // missing name, bad GSTIN format

	_, err = svc.Create(context.Background(), CreateInput{
		Name:      "Precision Motors",
		GSTIN:     validGSTIN,
		StateCode: "29",
	}, "user-1")
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Messages[0], "does not match GSTIN prefix")
}

func TestCreateDuplicateGSTIN(t *testing.T) {
	repo := newMemoryVendorRepo()
	svc := newVendorService(repo, nil)

	_, err := svc.Create(context.Background(), CreateInput{Name: "A", GSTIN: validGSTIN}, "user-1")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInput{Name: "B", GSTIN: validGSTIN}, "user-1")
	require.ErrorIs(t, err, ErrDuplicateGSTIN)
}

func TestVerifyGSTINStampsVendor(t *testing.T) {
	repo := newMemoryVendorRepo()
	verifier := &stubVerifier{result: VerificationResult{GSTIN: validGSTIN, LegalName: "Precision Motors Pvt Ltd", StateCode: "27", Active: true}}
	svc := newVendorService(repo, verifier)

	created, err := svc.Create(context.Background(), CreateInput{Name: "Precision Motors", GSTIN: validGSTIN}, "user-1")
	require.NoError(t, err)

	v, err := svc.VerifyGSTIN(context.Background(), created.ID, "user-1")
	require.NoError(t, err)
	require.True(t, v.GSTVerified)
	require.NotNil(t, v.GSTVerifiedAt)
	require.Equal(t, []string{validGSTIN}, verifier.calls)
}

func TestVerifyGSTINInactiveRegistration(t *testing.T) {
	repo := newMemoryVendorRepo()
	verifier := &stubVerifier{result: VerificationResult{GSTIN: validGSTIN, Active: false}}
	svc := newVendorService(repo, verifier)

	created, err := svc.Create(context.Background(), CreateInput{Name: "Precision Motors", GSTIN: validGSTIN}, "user-1")
	require.NoError(t, err)

	_, err = svc.VerifyGSTIN(context.Background(), created.ID, "user-1")
	var stateErr *shared.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
}

func TestVerifyGSTINWithoutGSTIN(t *testing.T) {
	repo := newMemoryVendorRepo()
	svc := newVendorService(repo, &stubVerifier{})

	created, err := svc.Create(context.Background(), CreateInput{Name: "Local Fabricator"}, "user-1")
	require.NoError(t, err)

	_, err = svc.VerifyGSTIN(context.Background(), created.ID, "user-1")
	var stateErr *shared.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
}

func TestUpdateGSTINResetsVerification(t *testing.T) {
	repo := newMemoryVendorRepo()
	verifier := &stubVerifier{result: VerificationResult{Active: true, StateCode: "27"}}
	svc := newVendorService(repo, verifier)

	created, err := svc.Create(context.Background(), CreateInput{Name: "Precision Motors", GSTIN: validGSTIN}, "user-1")
	require.NoError(t, err)
	_, err = svc.VerifyGSTIN(context.Background(), created.ID, "user-1")
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, CreateInput{
		Name:  "Precision Motors",
		GSTIN: "29AABCQ1234F1Z5",
	}, "user-1")
	require.NoError(t, err)
	require.False(t, updated.GSTVerified)
	require.Nil(t, updated.GSTVerifiedAt)
	require.Equal(t, "29", updated.StateCode)
}

func TestImportCSVAggregatesLineErrors(t *testing.T) {
	repo := newMemoryVendorRepo()
	svc := newVendorService(repo, nil)

	csv := strings.Join([]string{
		"name,gstin,state_name,categories",
		"Precision Motors," + validGSTIN + ",Maharashtra,Motion;Drives",
		",29AABCQ1234F1Z5,Karnataka,",
		"Bad GSTIN Co,INVALID,Karnataka,",
		"Local Fabricator,,Karnataka,Fabrication",
	}, "\n")

	report, err := svc.ImportCSV(context.Background(), strings.NewReader(csv), "user-1")
	require.NoError(t, err)
	require.Equal(t, 2, report.Imported)
	require.Equal(t, 2, report.Skipped)
	require.Len(t, report.Errors, 2)
	require.Contains(t, report.Errors[0], "Line 3:")
	require.Contains(t, report.Errors[1], "Line 4:")

	list, pg, err := svc.List(context.Background(), "", 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, 2, pg.Total)
	require.Equal(t, 1, pg.TotalPages)
}

func TestImportCSVRequiresNameColumn(t *testing.T) {
	svc := newVendorService(newMemoryVendorRepo(), nil)

	_, err := svc.ImportCSV(context.Background(), strings.NewReader("gstin\n27AABCQ1234F1Z5\n"), "user-1")
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestValidGSTINFormat(t *testing.T) {
	require.True(t, ValidGSTINFormat(validGSTIN))
	require.False(t, ValidGSTINFormat("27aabcq1234f1z5"))
	require.False(t, ValidGSTINFormat("27AABCQ1234F15"))
	require.False(t, ValidGSTINFormat(""))
}
