package po

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/QualitasTechnologies/bom-tracker/internal/settings"
	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

type memoryPORepo struct {
	orders map[string]PurchaseOrder
}

func newMemoryPORepo() *memoryPORepo {
	return &memoryPORepo{orders: make(map[string]PurchaseOrder)}
}

func (r *memoryPORepo) Create(ctx context.Context, order PurchaseOrder) error {
	r.orders[order.ID] = order
	return nil
}

func (r *memoryPORepo) Get(ctx context.Context, id string) (PurchaseOrder, error) {
	order, ok := r.orders[id]
	if !ok {
		return PurchaseOrder{}, shared.ErrNotFound
	}
	return order, nil
}

func (r *memoryPORepo) Update(ctx context.Context, order PurchaseOrder) error {
	if _, ok := r.orders[order.ID]; !ok {
		return shared.ErrNotFound
	}
	r.orders[order.ID] = order
	return nil
}

func (r *memoryPORepo) List(ctx context.Context, projectID string, status Status) ([]PurchaseOrder, error) {
	var out []PurchaseOrder
	for _, order := range r.orders {
		if order.ProjectID != projectID {
			continue
		}
		if status != "" && order.Status != status {
			continue
		}
		out = append(out, order)
	}
	return out, nil
}

type stubSettings struct {
	cfg     settings.CompanySettings
	counter int64
	fail    error
}

func (s *stubSettings) RequireForPO(ctx context.Context) (settings.CompanySettings, error) {
	if s.fail != nil {
		return settings.CompanySettings{}, s.fail
	}
	return s.cfg, nil
}

func (s *stubSettings) AllocatePONumber(ctx context.Context) (int64, error) {
	n := s.counter
	s.counter++
	return n, nil
}

type stubBOM struct {
	calls []markCall
}

type markCall struct {
	projectID string
	itemIDs   []string
	poNumber  string
	orderDate string
}

func (b *stubBOM) MarkItemsOrdered(ctx context.Context, projectID string, itemIDs []string, poNumber, orderDate string) error {
	b.calls = append(b.calls, markCall{projectID: projectID, itemIDs: itemIDs, poNumber: poNumber, orderDate: orderDate})
	return nil
}

func testSettings() *stubSettings {
	return &stubSettings{
		cfg: settings.CompanySettings{
			Name:           "Qualitas Technologies",
			Address:        "Pune, Maharashtra",
			GSTIN:          "27AABCQ1234F1Z5",
			StateCode:      "27",
			StateName:      "Maharashtra",
			PONumberPrefix: "QT",
			PONumberFormat: "{prefix}/{seq:4}",
		},
		counter: 101,
	}
}

func newTestService() (*Service, *memoryPORepo, *stubSettings, *stubBOM) {
	repo := newMemoryPORepo()
	cfg := testSettings()
	bomPort := &stubBOM{}
	svc := NewService(repo, cfg, bomPort, nil)
	svc.now = func() time.Time { return time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo, cfg, bomPort
}

func intrastateInput() CreateInput {
	return CreateInput{
		ProjectID: "proj-1",
		Vendor:    Party{Name: "Pune Automation Pvt Ltd", Address: "Pune", GSTIN: "27AAAPA1111A1Z0", StateCode: "27", StateName: "Maharashtra"},
		Items: []ItemInput{
			{Description: "Servo drive", Quantity: dec("2"), UOM: "Nos", Rate: dec("1000"), BOMItemID: "i1"},
			{Description: "Encoder cable", Quantity: dec("1"), UOM: "Nos", Rate: dec("500"), BOMItemID: "i2"},
		},
		TaxPercentage: dec("18"),
		CreatedBy:     "user-7",
	}
}

func TestCreateIntrastatePO(t *testing.T) {
	svc, _, _, _ := newTestService()

	order, err := svc.Create(context.Background(), intrastateInput())
	require.NoError(t, err)

	require.Equal(t, "QT/0101", order.PONumber)
	require.Equal(t, StatusDraft, order.Status)
	require.Equal(t, TaxCGSTSGST, order.TaxType)
	require.Equal(t, "2500", order.Subtotal.String())
	require.Equal(t, "225", order.CGSTAmount.String())
	require.Equal(t, "225", order.SGSTAmount.String())
	require.Nil(t, order.IGSTAmount)
	require.Equal(t, "2950", order.TotalAmount.String())
	require.Equal(t, "Rupees Two Thousand Nine Hundred Fifty Only", order.AmountInWords)
	require.Equal(t, []int{1, 2}, []int{order.Items[0].SlNo, order.Items[1].SlNo})
	// Invoice-to comes from company settings; ship-to defaults to it.
	require.Equal(t, "Qualitas Technologies", order.InvoiceTo.Name)
	require.Equal(t, order.InvoiceTo, order.ShipTo)
	require.NotNil(t, order.Warnings)
}

func TestCreateInterstatePOSameTotal(t *testing.T) {
	svc, _, _, _ := newTestService()

	input := intrastateInput()
	input.Vendor.StateCode = "29"
	input.Vendor.StateName = "Karnataka"

	order, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	require.Equal(t, TaxIGST, order.TaxType)
	require.Equal(t, "450", order.IGSTAmount.String())
	require.Nil(t, order.CGSTAmount)
	require.Equal(t, "2950", order.TotalAmount.String())
}

func TestCreateCounterAdvancesByOne(t *testing.T) {
	svc, _, cfg, _ := newTestService()

	first, err := svc.Create(context.Background(), intrastateInput())
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), intrastateInput())
	require.NoError(t, err)

	require.Equal(t, "QT/0101", first.PONumber)
	require.Equal(t, "QT/0102", second.PONumber)
	require.Equal(t, int64(103), cfg.counter)
}

func TestCreateRequiresConfiguration(t *testing.T) {
	svc, _, cfg, _ := newTestService()
	cfg.fail = shared.NewConfigurationError("company GSTIN", "")

	_, err := svc.Create(context.Background(), intrastateInput())
	var cfgErr *shared.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestCreateCollectsValidationErrors(t *testing.T) {
	svc, _, _, _ := newTestService()

	input := intrastateInput()
	input.Vendor.Name = ""
	input.Items[0].Quantity = dec("0")
	input.Items[1].Description = " "

	_, err := svc.Create(context.Background(), input)
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Messages, 3)
}

func TestSendMarksItemsOrderedInOneBatch(t *testing.T) {
	svc, _, _, bomPort := newTestService()

	order, err := svc.Create(context.Background(), intrastateInput())
	require.NoError(t, err)

	sent, err := svc.Send(context.Background(), order.ID, "user-7")
	require.NoError(t, err)
	require.Equal(t, StatusSent, sent.Status)
	require.NotNil(t, sent.SentAt)

	require.Len(t, bomPort.calls, 1)
	call := bomPort.calls[0]
	require.Equal(t, "proj-1", call.projectID)
	require.ElementsMatch(t, []string{"i1", "i2"}, call.itemIDs)
	require.Equal(t, sent.PONumber, call.poNumber)
	require.Equal(t, "2026-06-01", call.orderDate)
}

func TestSendTwiceFails(t *testing.T) {
	svc, _, _, _ := newTestService()

	order, err := svc.Create(context.Background(), intrastateInput())
	require.NoError(t, err)

	_, err = svc.Send(context.Background(), order.ID, "user-7")
	require.NoError(t, err)

	_, err = svc.Send(context.Background(), order.ID, "user-7")
	var stateErr *shared.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
}

func TestUpdateDraftOnlyWhileDraft(t *testing.T) {
	svc, _, _, _ := newTestService()

	order, err := svc.Create(context.Background(), intrastateInput())
	require.NoError(t, err)

	terms := "Net 30"
	shipTo := Party{Name: "Site Office", Address: "Nashik", StateCode: "27"}
	updated, err := svc.UpdateDraft(context.Background(), order.ID, UpdateDraftInput{Terms: &terms, ShipTo: &shipTo}, "user-7")
	require.NoError(t, err)
	require.Equal(t, "Net 30", updated.Terms)
	require.Equal(t, "Site Office", updated.ShipTo.Name)
	// Totals untouched by draft edits.
	require.Equal(t, "2950", updated.TotalAmount.String())

	_, err = svc.Send(context.Background(), order.ID, "user-7")
	require.NoError(t, err)

	_, err = svc.UpdateDraft(context.Background(), order.ID, UpdateDraftInput{Terms: &terms}, "user-7")
	var stateErr *shared.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
}

func TestCloseLifecycle(t *testing.T) {
	svc, _, _, _ := newTestService()

	order, err := svc.Create(context.Background(), intrastateInput())
	require.NoError(t, err)

	// Draft orders cannot be closed.
	_, err = svc.Close(context.Background(), order.ID, StatusCompleted, "user-7")
	var stateErr *shared.InvalidStateError
	require.ErrorAs(t, err, &stateErr)

	_, err = svc.Send(context.Background(), order.ID, "user-7")
	require.NoError(t, err)

	closed, err := svc.Close(context.Background(), order.ID, StatusCompleted, "user-7")
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, closed.Status)
	require.NotNil(t, closed.ClosedAt)
}
