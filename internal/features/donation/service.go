package donation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	common_models "chums-admin/internal/common/models"
	"chums-admin/internal/features/audit"
	"chums-admin/internal/features/report"
	"chums-admin/internal/middleware"
	"chums-admin/pkg/editpanel"
	"chums-admin/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const deleteBatchPrompt = "Are you sure you wish to permanently delete this batch?"

type DonationService interface {
	Page(ctx context.Context) (*DonationsPage, error)
	Batches(ctx context.Context) ([]BatchRow, error)
	Funds(ctx context.Context) ([]Fund, error)
	NewBatch(ctx context.Context) editpanel.View[DonationBatch]
	EditBatch(ctx context.Context, id string) (editpanel.View[DonationBatch], error)
	SaveBatch(ctx context.Context, batch DonationBatch) (editpanel.View[DonationBatch], []BatchRow, error)
	DeleteBatch(ctx context.Context, id string, confirmed bool) ([]BatchRow, error)
	ExportBatches(ctx context.Context, format string) (*report.ExportFile, error)
}

type DonationServiceImpl struct {
	Repo         DonationRepository
	Summary      *SummaryReport
	AuditService audit.AuditService
	logger       *zap.Logger
	now          func() time.Time
}

func NewDonationService(repo DonationRepository, summary *SummaryReport, auditService audit.AuditService, logger *zap.Logger) DonationService {
	return &DonationServiceImpl{
		Repo:         repo,
		Summary:      summary,
		AuditService: auditService,
		logger:       logger,
		now:          time.Now,
	}
}

// Page loads the summary report with its default filter, the batches and the
// funds concurrently. Any failure fails the page.
func (s *DonationServiceImpl) Page(ctx context.Context) (*DonationsPage, error) {
	page := &DonationsPage{
		Filter:  s.Summary.DefaultFilter(s.now()),
		CanEdit: utils.ClaimsFromContext(ctx).HasPermission(middleware.PermDonationsEdit),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.Summary.FetchReport(gctx, page.Filter)
		page.Report = r
		return err
	})
	g.Go(func() error {
		rows, err := s.Batches(gctx)
		page.Batches = rows
		return err
	})
	g.Go(func() error {
		funds, err := s.Funds(gctx)
		page.Funds = funds
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *DonationServiceImpl) Batches(ctx context.Context) ([]BatchRow, error) {
	batches, err := s.Repo.ListBatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("load batches: %w", err)
	}

	claims := utils.ClaimsFromContext(ctx)
	canEdit := claims.HasPermission(middleware.PermDonationsEdit)
	canView := claims.HasPermission(middleware.PermDonationsView)

	rows := make([]BatchRow, 0, len(batches))
	for _, b := range batches {
		rows = append(rows, BatchRow{
			ID:            b.ID,
			Name:          b.Name,
			Date:          prettyDate(b.BatchDate),
			DonationCount: b.DonationCount,
			Total:         utils.FormatCurrency(b.TotalAmount),
			TotalAmount:   b.TotalAmount,
			CanEdit:       canEdit,
			CanView:       canView,
		})
	}
	return rows, nil
}

func (s *DonationServiceImpl) Funds(ctx context.Context) ([]Fund, error) {
	funds, err := s.Repo.ListFunds(ctx)
	if err != nil {
		return nil, fmt.Errorf("load funds: %w", err)
	}
	if funds == nil {
		funds = []Fund{}
	}
	return funds, nil
}

func (s *DonationServiceImpl) NewBatch(ctx context.Context) editpanel.View[DonationBatch] {
	p := s.panel()
	_ = p.Open(ctx, editpanel.Creating())
	return p.View()
}

func (s *DonationServiceImpl) EditBatch(ctx context.Context, id string) (editpanel.View[DonationBatch], error) {
	p := s.panel()
	if err := p.Open(ctx, editpanel.Editing(id)); err != nil {
		return p.View(), err
	}
	return p.View(), nil
}

// SaveBatch submits batch and returns the reloaded batch list. Validation
// failures return editpanel.ErrValidation with the panel view.
func (s *DonationServiceImpl) SaveBatch(ctx context.Context, batch DonationBatch) (editpanel.View[DonationBatch], []BatchRow, error) {
	p := s.panel()
	target := editpanel.TargetFor(batch.ID, utils.IsMissingID)
	p.Resume(target, batch)

	if _, err := p.Save(ctx); err != nil {
		view := p.View()
		if !errors.Is(err, editpanel.ErrValidation) {
			s.AuditService.LogFailure(ctx, audit.ModuleDonationBatches, batch.ID, err)
		}
		return view, nil, err
	}

	action := common_models.AuditActionUpdate
	if target.Mode == editpanel.ModeCreating {
		action = common_models.AuditActionCreate
	}
	if err := s.AuditService.LogChange(ctx, action, audit.ModuleDonationBatches, batch.ID, map[string]common_models.Change{
		"batch": {New: normalized(batch)},
	}); err != nil {
		s.logger.Warn("audit log failed", zap.String("module", audit.ModuleDonationBatches), zap.Error(err))
	}

	rows, err := s.Batches(ctx)
	return p.View(), rows, err
}

func (s *DonationServiceImpl) DeleteBatch(ctx context.Context, id string, confirmed bool) ([]BatchRow, error) {
	p := s.panel()
	p.Resume(editpanel.Editing(id), DonationBatch{ID: id})

	if _, err := p.Delete(ctx, editpanel.Confirmed(confirmed)); err != nil {
		if !errors.Is(err, editpanel.ErrNotConfirmed) {
			s.AuditService.LogFailure(ctx, audit.ModuleDonationBatches, id, err)
		}
		return nil, err
	}

	if err := s.AuditService.LogChange(ctx, common_models.AuditActionDelete, audit.ModuleDonationBatches, id, nil); err != nil {
		s.logger.Warn("audit log failed", zap.String("module", audit.ModuleDonationBatches), zap.Error(err))
	}
	return s.Batches(ctx)
}

func (s *DonationServiceImpl) ExportBatches(ctx context.Context, format string) (*report.ExportFile, error) {
	rows, err := s.Batches(ctx)
	if err != nil {
		return nil, err
	}

	table := report.Table{
		Title: "Donation Batches",
		Columns: []report.Heading{
			{Name: "Id", Field: "id"},
			{Name: "Name", Field: "name"},
			{Name: "Date", Field: "date"},
			{Name: "Donations", Field: "donationCount"},
			{Name: "Total", Field: "totalAmount"},
		},
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, report.Row{
			"id":            r.ID,
			"name":          r.Name,
			"date":          r.Date,
			"donationCount": r.DonationCount,
			"totalAmount":   r.TotalAmount,
		})
	}
	return report.Export(table, format)
}

func (s *DonationServiceImpl) panel() *editpanel.Panel[DonationBatch] {
	return editpanel.New[DonationBatch](batchStore{repo: s.Repo}, editpanel.Behavior[DonationBatch]{
		New: func() DonationBatch {
			return DonationBatch{BatchDate: utils.FormatHtml5Date(s.now())}
		},
		Validate:  validateBatch,
		Normalize: normalizeBatch,
	}, deleteBatchPrompt)
}

func validateBatch(b *DonationBatch) []string {
	if _, err := utils.ParseDate(b.BatchDate); err != nil {
		b.BatchDate = ""
		return []string{"Please enter a valid batch date"}
	}
	return nil
}

func normalizeBatch(b *DonationBatch) {
	b.Name = strings.TrimSpace(b.Name)
	if t, err := utils.ParseDate(b.BatchDate); err == nil {
		b.BatchDate = utils.FormatHtml5Date(t)
	}
}

func normalized(b DonationBatch) DonationBatch {
	normalizeBatch(&b)
	return b
}

func prettyDate(s string) string {
	t, err := utils.ParseDate(s)
	if err != nil {
		return s
	}
	return utils.PrettyDate(t)
}

// batchStore submits saves as a one-element batch.
type batchStore struct {
	repo DonationRepository
}

func (b batchStore) Load(ctx context.Context, id string) (DonationBatch, error) {
	return b.repo.GetBatch(ctx, id)
}

func (b batchStore) Save(ctx context.Context, batch DonationBatch) error {
	_, err := b.repo.SaveBatches(ctx, []DonationBatch{batch})
	return err
}

func (b batchStore) Delete(ctx context.Context, id string) error {
	return b.repo.DeleteBatch(ctx, id)
}
