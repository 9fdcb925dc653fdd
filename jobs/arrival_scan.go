package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/QualitasTechnologies/bom-tracker/internal/bom"
	jobmetrics "github.com/QualitasTechnologies/bom-tracker/internal/jobs"
)

// BOMSource exposes the BOM documents the scan sweeps over.
type BOMSource interface {
	ListProjectIDs(ctx context.Context) ([]string, error)
	Get(ctx context.Context, projectID string) ([]bom.Category, error)
}

// ArrivalScanner finds ordered items past their expected arrival date and
// reports them. It runs nightly via the scheduler.
type ArrivalScanner struct {
	logger  *slog.Logger
	boms    BOMSource
	mailer  Mailer
	notify  string
	metrics *jobmetrics.Metrics
	now     func() time.Time
}

func NewArrivalScanner(logger *slog.Logger, boms BOMSource, mailer Mailer, notifyAddress string, metrics *jobmetrics.Metrics) *ArrivalScanner {
	return &ArrivalScanner{
		logger:  logger,
		boms:    boms,
		mailer:  mailer,
		notify:  notifyAddress,
		metrics: metrics,
		now:     time.Now,
	}
}

// Handle processes TaskTypeArrivalScan tasks.
func (s *ArrivalScanner) Handle(ctx context.Context, _ *asynq.Task) error {
	tracker := s.metrics.Track("arrival_scan")
	return tracker.End(s.scan(ctx))
}

func (s *ArrivalScanner) scan(ctx context.Context) error {
	projectIDs, err := s.boms.ListProjectIDs(ctx)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}

	today := s.now().UTC().Format("2006-01-02")
	var overdue []bom.OverdueItem
	for _, projectID := range projectIDs {
		categories, err := s.boms.Get(ctx, projectID)
		if err != nil {
			s.logger.Error("arrival scan: load bom failed", "project_id", projectID, "error", err)
			continue
		}
		overdue = append(overdue, bom.OverdueItems(projectID, categories, today)...)
	}

	s.metrics.SetOverdueItems(len(overdue))
	s.logger.Info("arrival scan complete", "projects", len(projectIDs), "overdue", len(overdue))

	if len(overdue) == 0 || s.mailer == nil || s.notify == "" {
		return nil
	}
	subject := fmt.Sprintf("%d overdue shipments as of %s", len(overdue), today)
	if err := s.mailer.Send(ctx, s.notify, subject, overdueSummary(overdue, today), nil, ""); err != nil {
		// the scan itself succeeded; log and let the next run remail
		s.logger.Error("arrival scan: summary mail failed", "error", err)
	}
	return nil
}

func overdueSummary(items []bom.OverdueItem, today string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ordered items past their expected arrival date as of %s:\n\n", today)
	for _, it := range items {
		vendor := "-"
		if it.Item.FinalizedVendor != nil && it.Item.FinalizedVendor.Name != "" {
			vendor = it.Item.FinalizedVendor.Name
		}
		fmt.Fprintf(&b, "- [%s] %s (PO %s, vendor %s, expected %s)\n",
			it.ProjectID, it.Item.Name, deref(it.Item.PONumber), vendor, deref(it.Item.ExpectedArrival))
	}
	b.WriteString("\nFollow up with the vendors or update the expected dates in the tracker.\n")
	return b.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
