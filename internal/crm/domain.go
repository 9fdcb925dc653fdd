package crm

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stage is a lead's position in the sales pipeline.
type Stage string

const (
	StageNew       Stage = "new"
	StageContacted Stage = "contacted"
	StageQuoted    Stage = "quoted"
	StageWon       Stage = "won"
	StageLost      Stage = "lost"
)

// openStages orders the working pipeline. Leads move freely backward among
// these and advance one stage at a time; won and lost are terminal.
var openStages = []Stage{StageNew, StageContacted, StageQuoted}

func stageIndex(s Stage) int {
	for i, stage := range openStages {
		if stage == s {
			return i
		}
	}
	return -1
}

// CanTransition reports whether a move between stages is allowed. A lead can
// be lost from any open stage and won only after a quote went out. Moving
// back to an earlier open stage is always allowed; terminal stages permit
// nothing.
func CanTransition(from, to Stage) bool {
	if from.Terminal() || from == to {
		return false
	}
	fromIdx := stageIndex(from)
	if fromIdx < 0 {
		return false
	}
	switch to {
	case StageLost:
		return true
	case StageWon:
		return from == StageQuoted
	}
	toIdx := stageIndex(to)
	if toIdx < 0 {
		return false
	}
	return toIdx == fromIdx+1 || toIdx < fromIdx
}

// Terminal reports whether a stage ends the pipeline.
func (s Stage) Terminal() bool {
	return s == StageWon || s == StageLost
}

// StageChange records one pipeline move for the lead's history.
type StageChange struct {
	From    Stage     `json:"from"`
	To      Stage     `json:"to"`
	Note    string    `json:"note,omitempty"`
	MovedBy string    `json:"movedBy,omitempty"`
	MovedAt time.Time `json:"movedAt"`
}

// Lead is one sales opportunity.
type Lead struct {
	ID            string           `json:"id"`
	CompanyName   string           `json:"companyName"`
	ContactName   string           `json:"contactName,omitempty"`
	Email         string           `json:"email,omitempty"`
	Phone         string           `json:"phone,omitempty"`
	Source        string           `json:"source,omitempty"`
	Requirement   string           `json:"requirement,omitempty"`
	ExpectedValue *decimal.Decimal `json:"expectedValue,omitempty"`
	Stage         Stage            `json:"stage"`
	LostReason    string           `json:"lostReason,omitempty"`
	ProjectID     *string          `json:"projectId,omitempty"`
	StageHistory  []StageChange    `json:"stageHistory"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}
