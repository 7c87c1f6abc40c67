package buffalos

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/buffalo/internal/domain/derivation"
	"github.com/mamadbah2/buffalo/internal/domain/models"
	"github.com/mamadbah2/buffalo/internal/repository"
	"github.com/mamadbah2/buffalo/internal/service/forms"
)

// Service runs the create, edit, delete and read flows against the record store.
// Store failures are returned wrapped and never retried.
type Service struct {
	store  repository.Store
	ids    *IDGenerator
	logger *zap.Logger
	now    func() time.Time

	expenseDrafts     *DraftFlow[models.Expense]
	shareholderDrafts *DraftFlow[forms.ShareholderRow]
}

// NewService wires a buffalo service. A nil generator gets a random one.
func NewService(store repository.Store, ids *IDGenerator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ids == nil {
		ids = NewIDGenerator(nil)
	}
	s := &Service{
		store:  store,
		ids:    ids,
		logger: logger,
		now:    time.Now,
	}
	s.expenseDrafts = &DraftFlow[models.Expense]{
		svc:    s,
		drafts: forms.NewDrafts[models.Expense](),
		load: func(r models.BuffaloRecord) []models.Expense {
			return r.OtherExpenses
		},
		save: func(ctx context.Context, id string, rows []models.Expense) (models.BuffaloRecord, error) {
			return s.UpdateExpenses(ctx, id, forms.ExpenseForm{OtherExpenses: rows})
		},
	}
	s.shareholderDrafts = &DraftFlow[forms.ShareholderRow]{
		svc:    s,
		drafts: forms.NewDrafts[forms.ShareholderRow](),
		load: func(r models.BuffaloRecord) []forms.ShareholderRow {
			return forms.ShareholderRows(r.Shareholders)
		},
		save: func(ctx context.Context, id string, rows []forms.ShareholderRow) (models.BuffaloRecord, error) {
			return s.UpdateShareholders(ctx, id, forms.ShareholderForm{Shareholders: rows})
		},
	}
	return s
}

// ExpenseDrafts is the draft form for other expenses.
func (s *Service) ExpenseDrafts() *DraftFlow[models.Expense] { return s.expenseDrafts }

// ShareholderDrafts is the draft form for shareholders.
func (s *Service) ShareholderDrafts() *DraftFlow[forms.ShareholderRow] { return s.shareholderDrafts }

// Create validates the form, draws an unused id and stores the new record.
// The id check and the write are not atomic.
func (s *Service) Create(ctx context.Context, form forms.BuffaloForm) (models.BuffaloRecord, error) {
	if err := form.Validate(); err != nil {
		return models.BuffaloRecord{}, err
	}

	used, err := s.store.ListIDs(ctx)
	if err != nil {
		return models.BuffaloRecord{}, fmt.Errorf("load used ids: %w", err)
	}

	id, err := s.ids.Generate(used)
	if err != nil {
		return models.BuffaloRecord{}, err
	}

	record, err := form.NewRecord(id, s.now())
	if err != nil {
		return models.BuffaloRecord{}, err
	}

	if err := s.store.Set(ctx, record); err != nil {
		return models.BuffaloRecord{}, fmt.Errorf("save buffalo: %w", err)
	}

	s.logger.Info("buffalo created", zap.String("id", id), zap.String("name", record.Name))
	return record, nil
}

// Get returns the stored record.
func (s *Service) Get(ctx context.Context, id string) (models.BuffaloRecord, error) {
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return models.BuffaloRecord{}, fmt.Errorf("load buffalo %s: %w", id, err)
	}
	return record, nil
}

// Detail renders the record with its derived totals.
func (s *Service) Detail(ctx context.Context, id string) (Detail, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	return newDetail(record), nil
}

// Breakdown renders the per-shareholder view of a record.
func (s *Service) Breakdown(ctx context.Context, id string) (Breakdown, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return Breakdown{}, err
	}
	return newBreakdown(record), nil
}

// List scans the collection and derives one row per record plus the fleet summary.
func (s *Service) List(ctx context.Context) (Listing, error) {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return Listing{}, fmt.Errorf("list buffalos: %w", err)
	}

	rows := make([]ListingRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, newListingRow(record))
	}

	return Listing{
		Buffalos: rows,
		Summary:  derivation.ComputeFleetSummary(records),
	}, nil
}

// Dashboard aggregates every record into the fleet summary and chart series.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list buffalos: %w", err)
	}
	return newDashboard(records), nil
}

// UpdateInfo is the edit-buffalo flow.
func (s *Service) UpdateInfo(ctx context.Context, id string, form forms.BuffaloForm) (models.BuffaloRecord, error) {
	patch, err := form.InfoPatch()
	if err != nil {
		return models.BuffaloRecord{}, err
	}
	return s.apply(ctx, id, "info", patch)
}

// UpdateExpenses is the edit-expenses flow.
func (s *Service) UpdateExpenses(ctx context.Context, id string, form forms.ExpenseForm) (models.BuffaloRecord, error) {
	patch, err := form.Patch()
	if err != nil {
		return models.BuffaloRecord{}, err
	}
	return s.apply(ctx, id, "expenses", patch)
}

// UpdateShareholders is the edit-shareholders flow.
func (s *Service) UpdateShareholders(ctx context.Context, id string, form forms.ShareholderForm) (models.BuffaloRecord, error) {
	patch, err := form.Patch()
	if err != nil {
		return models.BuffaloRecord{}, err
	}
	return s.apply(ctx, id, "shareholders", patch)
}

// UpdateWeight is the add/edit-weight flow.
func (s *Service) UpdateWeight(ctx context.Context, id string, form forms.WeightForm) (models.BuffaloRecord, error) {
	patch, err := form.Patch(s.now())
	if err != nil {
		return models.BuffaloRecord{}, err
	}
	return s.apply(ctx, id, "weight", patch)
}

// Delete removes the record permanently together with any open drafts.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete buffalo %s: %w", id, err)
	}
	s.expenseDrafts.drafts.Forget(id)
	s.shareholderDrafts.drafts.Forget(id)

	s.logger.Info("buffalo deleted", zap.String("id", id))
	return nil
}

func (s *Service) apply(ctx context.Context, id, flow string, patch models.BuffaloPatch) (models.BuffaloRecord, error) {
	if err := s.store.Update(ctx, id, patch); err != nil {
		return models.BuffaloRecord{}, fmt.Errorf("update buffalo %s (%s): %w", id, flow, err)
	}
	s.logger.Debug("buffalo updated", zap.String("id", id), zap.String("flow", flow))
	return s.Get(ctx, id)
}
