package vendors

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/QualitasTechnologies/bom-tracker/internal/shared"
)

// ImportReport summarizes one CSV import run.
type ImportReport struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

var importColumns = []string{"name", "gstin", "state_code", "state_name", "address", "email", "phone", "contact_person", "categories"}

// ImportCSV reads vendors from a CSV with a header row. Rows that fail
// validation are skipped and reported with their line number; a bad row
// never aborts the rest of the file. Duplicate GSTINs count as skips.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader, actorID string) (ImportReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		verr := &shared.ValidationError{}
		verr.Add("CSV is empty or unreadable")
		return ImportReport{}, verr
	}
	index := map[string]int{}
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	if _, ok := index["name"]; !ok {
		verr := &shared.ValidationError{}
		verr.Add("CSV must have a name column; recognized columns are %s", strings.Join(importColumns, ", "))
		return ImportReport{}, verr
	}

	report := ImportReport{}
	line := 1
	for {
		line++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("Line %d: %v", line, err))
			continue
		}

		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		input := CreateInput{
			Name:          field("name"),
			GSTIN:         strings.ToUpper(field("gstin")),
			StateCode:     field("state_code"),
			StateName:     field("state_name"),
			Address:       field("address"),
			Email:         field("email"),
			Phone:         field("phone"),
			ContactPerson: field("contact_person"),
		}
		if cats := field("categories"); cats != "" {
			for _, c := range strings.Split(cats, ";") {
				if c = strings.TrimSpace(c); c != "" {
					input.Categories = append(input.Categories, c)
				}
			}
		}

		if _, err := s.Create(ctx, input, actorID); err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("Line %d: %s", line, shared.UserSafeMessage(err)))
			continue
		}
		report.Imported++
	}
	return report, nil
}
