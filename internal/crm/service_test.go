package crm

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

type memoryLeadRepo struct {
	leads map[string]Lead
}

func newMemoryLeadRepo() *memoryLeadRepo {
	return &memoryLeadRepo{leads: map[string]Lead{}}
}

func (m *memoryLeadRepo) Create(_ context.Context, lead Lead) error {
	m.leads[lead.ID] = lead
	return nil
}

func (m *memoryLeadRepo) Get(_ context.Context, id string) (Lead, error) {
	lead, ok := m.leads[id]
	if !ok {
		return Lead{}, shared.ErrNotFound
	}
	return lead, nil
}

func (m *memoryLeadRepo) List(_ context.Context, stage Stage) ([]Lead, error) {
	out := []Lead{}
	for _, lead := range m.leads {
		if stage == "" || lead.Stage == stage {
			out = append(out, lead)
		}
	}
	return out, nil
}

func (m *memoryLeadRepo) Update(_ context.Context, lead Lead) error {
	if _, ok := m.leads[lead.ID]; !ok {
		return shared.ErrNotFound
	}
	m.leads[lead.ID] = lead
	return nil
}

func newLeadService(repo *memoryLeadRepo) *Service {
	svc := NewService(repo, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCreateStartsAtNew(t *testing.T) {
	svc := newLeadService(newMemoryLeadRepo())

	value := dec("1500000")
	lead, err := svc.Create(context.Background(), CreateInput{
		CompanyName:   "Apex Packaging",
		ExpectedValue: &value,
	}, "user-1")
	require.NoError(t, err)
	require.Equal(t, StageNew, lead.Stage)
	require.Empty(t, lead.StageHistory)

	_, err = svc.Create(context.Background(), CreateInput{}, "user-1")
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestMoveStageHappyPath(t *testing.T) {
	repo := newMemoryLeadRepo()
	svc := newLeadService(repo)
	lead, err := svc.Create(context.Background(), CreateInput{CompanyName: "Apex Packaging"}, "user-1")
	require.NoError(t, err)

	for _, to := range []Stage{StageContacted, StageQuoted} {
		lead, err = svc.MoveStage(context.Background(), lead.ID, MoveStageInput{To: to}, "user-1")
		require.NoError(t, err)
		require.Equal(t, to, lead.Stage)
	}

	lead, err = svc.MoveStage(context.Background(), lead.ID, MoveStageInput{To: StageWon, ProjectID: "proj-1"}, "user-1")
	require.NoError(t, err)
	require.Equal(t, StageWon, lead.Stage)
	require.Equal(t, "proj-1", *lead.ProjectID)
	require.Len(t, lead.StageHistory, 3)
	require.Equal(t, StageQuoted, lead.StageHistory[2].From)
}

func TestMoveStageRejectsSkipsAndSelfMoves(t *testing.T) {
	svc := newLeadService(newMemoryLeadRepo())
	lead, err := svc.Create(context.Background(), CreateInput{CompanyName: "Apex Packaging"}, "user-1")
	require.NoError(t, err)

	// Winning straight from new skips the quote.
	_, err = svc.MoveStage(context.Background(), lead.ID, MoveStageInput{To: StageWon}, "user-1")
	var stateErr *shared.InvalidStateError
	require.ErrorAs(t, err, &stateErr)

	// A stage never moves to itself.
	_, err = svc.MoveStage(context.Background(), lead.ID, MoveStageInput{To: StageNew}, "user-1")
	require.ErrorAs(t, err, &stateErr)
}

func TestMoveStageAllowsRewindOfOpenStages(t *testing.T) {
	svc := newLeadService(newMemoryLeadRepo())
	lead, err := svc.Create(context.Background(), CreateInput{CompanyName: "Apex Packaging"}, "user-1")
	require.NoError(t, err)

	for _, to := range []Stage{StageContacted, StageQuoted} {
		lead, err = svc.MoveStage(context.Background(), lead.ID, MoveStageInput{To: to}, "user-1")
		require.NoError(t, err)
	}

	// A stalled quote goes back to contacted, then all the way to new.
	lead, err = svc.MoveStage(context.Background(), lead.ID, MoveStageInput{To: StageContacted}, "user-1")
	require.NoError(t, err)
	require.Equal(t, StageContacted, lead.Stage)

	lead, err = svc.MoveStage(context.Background(), lead.ID, MoveStageInput{To: StageNew}, "user-1")
	require.NoError(t, err)
	require.Equal(t, StageNew, lead.Stage)
	require.Len(t, lead.StageHistory, 4)
	require.Equal(t, StageContacted, lead.StageHistory[3].From)

	// Rewinding still cannot shortcut into won.
	_, err = svc.MoveStage(context.Background(), lead.ID, MoveStageInput{To: StageWon}, "user-1")
	var stateErr *shared.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
}

func TestCanTransitionTable(t *testing.T) {
	require.True(t, CanTransition(StageQuoted, StageContacted))
	require.True(t, CanTransition(StageContacted, StageNew))
	require.True(t, CanTransition(StageQuoted, StageNew))
	require.False(t, CanTransition(StageNew, StageQuoted))
	require.False(t, CanTransition(StageWon, StageContacted))
	require.False(t, CanTransition(StageLost, StageNew))
	require.False(t, CanTransition(StageWon, StageLost))
}

func TestMoveStageLostRequiresReason(t *testing.T) {
	svc := newLeadService(newMemoryLeadRepo())
	lead, err := svc.Create(context.Background(), CreateInput{CompanyName: "Apex Packaging"}, "user-1")
	require.NoError(t, err)

	_, err = svc.MoveStage(context.Background(), lead.ID, MoveStageInput{To: StageLost}, "user-1")
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)

	lead, err = svc.MoveStage(context.Background(), lead.ID, MoveStageInput{To: StageLost, LostReason: "budget dropped"}, "user-1")
	require.NoError(t, err)
	require.Equal(t, "budget dropped", lead.LostReason)

	// terminal leads reject further edits and moves
	_, err = svc.Update(context.Background(), lead.ID, UpdateInput{}, "user-1")
	var stateErr *shared.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	_, err = svc.MoveStage(context.Background(), lead.ID, MoveStageInput{To: StageContacted}, "user-1")
	require.ErrorAs(t, err, &stateErr)
}

func TestSummaryCountsOpenValueOnly(t *testing.T) {
	repo := newMemoryLeadRepo()
	svc := newLeadService(repo)

	open := dec("1000000")
	quoted := dec("500000")
	wonValue := dec("2000000")
	_, err := svc.Create(context.Background(), CreateInput{CompanyName: "A", ExpectedValue: &open}, "user-1")
	require.NoError(t, err)
	leadB, err := svc.Create(context.Background(), CreateInput{CompanyName: "B", ExpectedValue: &quoted}, "user-1")
	require.NoError(t, err)
	leadC, err := svc.Create(context.Background(), CreateInput{CompanyName: "C", ExpectedValue: &wonValue}, "user-1")
	require.NoError(t, err)

	_, err = svc.MoveStage(context.Background(), leadB.ID, MoveStageInput{To: StageContacted}, "user-1")
	require.NoError(t, err)
	for _, to := range []Stage{StageContacted, StageQuoted, StageWon} {
		_, err = svc.MoveStage(context.Background(), leadC.ID, MoveStageInput{To: to}, "user-1")
		require.NoError(t, err)
	}

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, summary.Counts[StageNew])
	require.Equal(t, 1, summary.Counts[StageContacted])
	require.Equal(t, 1, summary.Counts[StageWon])
	require.True(t, summary.ExpectedValue.Equal(dec("1500000")), "got %s", summary.ExpectedValue)
}
