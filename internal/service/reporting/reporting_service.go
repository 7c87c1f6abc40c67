package reporting

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/buffalo/internal/domain/derivation"
	"github.com/mamadbah2/buffalo/internal/domain/models"
)

const (
	// SummaryRange receives one fleet summary row per report.
	SummaryRange = "Summary!A:M"

	snapshotPrefix = "snapshots/"
	dateLayout     = "2006-01-02"
)

// Lister is the read side of the record store needed for reports.
type Lister interface {
	ListAll(ctx context.Context) ([]models.BuffaloRecord, error)
}

// Report is a point-in-time view of the whole collection.
type Report struct {
	GeneratedAt time.Time               `json:"generatedAt"`
	Summary     derivation.FleetSummary `json:"summary"`
	Buffalos    []models.BuffaloRecord  `json:"buffalos"`
}

// Service builds fleet reports from the record store.
type Service struct {
	store  Lister
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewService wires a new reporting service instance. Report timestamps are
// rendered in loc (UTC when nil).
func NewService(store Lister, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, loc: loc, now: time.Now, logger: logger}
}

// FleetReport scans the collection and aggregates it.
func (s *Service) FleetReport(ctx context.Context) (Report, error) {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load buffalos for report: %w", err)
	}

	report := Report{
		GeneratedAt: s.now().In(s.loc),
		Summary:     derivation.ComputeFleetSummary(records),
		Buffalos:    records,
	}
	s.logger.Debug("fleet report built", zap.Int("buffalos", len(records)))
	return report, nil
}

// Text renders the report as a chat message.
func (r Report) Text() string {
	f := r.Summary
	var b strings.Builder

	fmt.Fprintf(&b, "Buffalo report (%s)\n", r.GeneratedAt.Format(dateLayout))
	if f.BuffaloCount == 0 {
		b.WriteString("No buffalos registered yet.")
		return b.String()
	}

	fmt.Fprintf(&b, "Buffalos: %d (%d weighed)\n", f.BuffaloCount, f.WeighedCount)
	fmt.Fprintf(&b, "Total expenses: %s\n", money(f.TotalExpenses))
	fmt.Fprintf(&b, "  purchase %s, labour %s, other %s\n", money(f.PurchasePrice), money(f.LabourExpenses), money(f.OtherExpenses))
	fmt.Fprintf(&b, "Received from shareholders: %s\n", money(f.ReceivedFromShareholders))
	fmt.Fprintf(&b, "Remaining: %s\n", money(f.RemainingAmount))
	fmt.Fprintf(&b, "To receive: %s | To give: %s\n", money(f.BalanceToReceive), money(f.BalanceToGive))
	if f.WeighedCount > 0 {
		fmt.Fprintf(&b, "Weight: %s kg (shareholders %s kg, distribution %s kg)\n",
			kg(f.TotalWeight), kg(f.ForShareholders), kg(f.ForDistribution))
	}

	owing := make([]derivation.HolderPosition, 0, len(f.Holders))
	for _, h := range f.Holders {
		if h.BalanceToReceive > 0 {
			owing = append(owing, h)
		}
	}
	if len(owing) > 0 {
		sort.SliceStable(owing, func(i, j int) bool {
			return owing[i].BalanceToReceive > owing[j].BalanceToReceive
		})
		b.WriteString("Pending from:\n")
		for _, h := range owing {
			fmt.Fprintf(&b, "  %s %s\n", h.Name, money(h.BalanceToReceive))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// SummaryRow is the fleet summary laid out for SummaryRange.
func (r Report) SummaryRow() []interface{} {
	f := r.Summary
	return []interface{}{
		r.GeneratedAt.Format(time.RFC3339),
		f.BuffaloCount,
		f.PurchasePrice,
		f.LabourExpenses,
		f.OtherExpenses,
		f.TotalExpenses,
		f.ReceivedFromShareholders,
		f.RemainingAmount,
		f.BalanceToReceive,
		f.BalanceToGive,
		f.TotalWeight,
		f.ForShareholders,
		f.ForDistribution,
	}
}

// SnapshotKey is the object key of the report's archive.
func (r Report) SnapshotKey() string {
	return snapshotPrefix + r.GeneratedAt.UTC().Format(time.RFC3339) + ".json"
}

// Snapshot encodes the full collection with its summary.
func (r Report) Snapshot() ([]byte, error) {
	body, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return body, nil
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func kg(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
