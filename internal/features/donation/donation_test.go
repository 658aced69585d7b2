package donation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"chums-admin/internal/apiclient"
	common_models "chums-admin/internal/common/models"
	"chums-admin/internal/config"
	"chums-admin/internal/features/report"
	"chums-admin/internal/middleware"
	"chums-admin/pkg/editpanel"
	"chums-admin/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryRepo struct {
	mu sync.Mutex

	summary    []DonationSummary
	batches    []DonationBatch
	funds      []Fund
	summaryErr error
	saveErr    error

	summaryCalls int
	start, end   time.Time
	saved        [][]DonationBatch
	deleted      []string
}

func (r *memoryRepo) Summary(ctx context.Context, startDate, endDate time.Time) ([]DonationSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaryCalls++
	r.start, r.end = startDate, endDate
	return r.summary, r.summaryErr
}

func (r *memoryRepo) ListBatches(ctx context.Context) ([]DonationBatch, error) {
	return r.batches, nil
}

func (r *memoryRepo) GetBatch(ctx context.Context, id string) (DonationBatch, error) {
	for _, b := range r.batches {
		if b.ID == id {
			return b, nil
		}
	}
	return DonationBatch{}, &apiclient.APIError{StatusCode: 404}
}

func (r *memoryRepo) SaveBatches(ctx context.Context, batches []DonationBatch) ([]DonationBatch, error) {
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	r.saved = append(r.saved, batches)
	return batches, nil
}

func (r *memoryRepo) DeleteBatch(ctx context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *memoryRepo) ListFunds(ctx context.Context) ([]Fund, error) {
	return r.funds, nil
}

type recordingAudit struct {
	changes  []common_models.AuditAction
	failures []string
}

func (a *recordingAudit) LogChange(ctx context.Context, action common_models.AuditAction, module string, recordID string, changes map[string]common_models.Change) error {
	a.changes = append(a.changes, action)
	return nil
}

func (a *recordingAudit) LogFailure(ctx context.Context, module string, recordID string, cause error) {
	a.failures = append(a.failures, recordID)
}

func (a *recordingAudit) ListLogs(ctx context.Context, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	return nil, nil
}

func janFilter() *report.ReportFilter {
	f := NewSummaryReport(nil).DefaultFilter(time.Now())
	_ = f.Set("startDate", "2024-01-01")
	_ = f.Set("endDate", "2024-01-31")
	return f
}

func TestSummaryReportScenario(t *testing.T) {
	repo := &memoryRepo{summary: []DonationSummary{
		{Week: "2024-01-07", Donations: []SummaryDonation{{Fund: &Fund{Name: "General"}, TotalAmount: 100}}},
	}}

	r, err := NewSummaryReport(repo).FetchReport(context.Background(), janFilter())

	require.NoError(t, err)
	assert.Equal(t, []report.Row{{"week": "Jan 7, 2024", "fundName": "General", "totalAmount": 100.0}}, r.Data)
	assert.Equal(t, "2024-01-01", utils.FormatHtml5Date(repo.start))
	assert.Equal(t, "2024-01-31", utils.FormatHtml5Date(repo.end))
	assert.Equal(t, "Donation Summary", r.Title)
	assert.Equal(t, "donationSummary", r.KeyName)
	assert.Equal(t, "Bar Chart", r.ReportType)
	assert.Equal(t, []string{"week", "fundName"}, r.Groupings)
	assert.NoError(t, r.Validate())
}

func TestSummaryReportFlattening(t *testing.T) {
	repo := &memoryRepo{summary: []DonationSummary{
		{Week: "2024-01-14T00:00:00.000Z", Donations: []SummaryDonation{
			{Fund: &Fund{Name: "Missions"}, TotalAmount: 20},
			{TotalAmount: 5},
		}},
		{Week: "2024-01-07", Donations: nil},
		{Week: "2024-01-21", Donations: []SummaryDonation{
			{Fund: &Fund{Name: "General"}, TotalAmount: 1},
			{Fund: &Fund{Name: "Building"}, TotalAmount: 2},
			{TotalAmount: 3},
		}},
	}}

	r, err := NewSummaryReport(repo).FetchReport(context.Background(), janFilter())
	require.NoError(t, err)

	want := 0
	for _, s := range repo.summary {
		want += len(s.Donations)
	}
	require.Len(t, r.Data, want)

	var funds, weeks []string
	for _, row := range r.Data {
		funds = append(funds, row["fundName"].(string))
		weeks = append(weeks, row["week"].(string))
	}
	assert.Equal(t, []string{"Missions", NoFund, "General", "Building", NoFund}, funds)
	assert.Equal(t, []string{"Jan 14, 2024", "Jan 14, 2024", "Jan 21, 2024", "Jan 21, 2024", "Jan 21, 2024"}, weeks)
}

func TestSummaryReportInputs(t *testing.T) {
	t.Run("nil filter", func(t *testing.T) {
		repo := &memoryRepo{}
		r, err := NewSummaryReport(repo).FetchReport(context.Background(), nil)
		assert.NoError(t, err)
		assert.Nil(t, r)
		assert.Zero(t, repo.summaryCalls)
	})

	t.Run("missing end date", func(t *testing.T) {
		repo := &memoryRepo{}
		f := janFilter()
		f.Fields = f.Fields[:1]
		_, err := NewSummaryReport(repo).FetchReport(context.Background(), f)
		assert.ErrorIs(t, err, report.ErrInvalidFilter)
		assert.Zero(t, repo.summaryCalls)
	})

	t.Run("remote failure", func(t *testing.T) {
		remote := &apiclient.APIError{Api: config.GivingApi, StatusCode: 503}
		repo := &memoryRepo{summaryErr: remote}
		_, err := NewSummaryReport(repo).FetchReport(context.Background(), janFilter())
		assert.ErrorIs(t, err, remote)
		assert.Equal(t, 1, repo.summaryCalls)
	})
}

func TestDefaultFilterCoversLastYear(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	f := NewSummaryReport(nil).DefaultFilter(now)

	assert.Equal(t, SummaryFilterKey, f.KeyName)
	require.NoError(t, f.Validate())
	start, _ := f.DateValue("startDate")
	end, _ := f.DateValue("endDate")
	assert.Equal(t, now.AddDate(0, 0, -365), start)
	assert.Equal(t, now, end)
}

func newService(repo *memoryRepo) (*DonationServiceImpl, *recordingAudit) {
	a := &recordingAudit{}
	svc := NewDonationService(repo, NewSummaryReport(repo), a, zap.NewNop()).(*DonationServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 2, 4, 9, 0, 0, 0, time.UTC) }
	return svc, a
}

func withPerms(perms ...string) context.Context {
	return utils.WithClaims(context.Background(), &utils.UserClaims{UserID: "u1", Permissions: perms})
}

func TestBatchRows(t *testing.T) {
	repo := &memoryRepo{batches: []DonationBatch{
		{ID: "7", Name: "Sunday", BatchDate: "2024-01-07T00:00:00.000Z", DonationCount: 12, TotalAmount: 1234.5},
	}}
	svc, _ := newService(repo)

	rows, err := svc.Batches(withPerms(middleware.PermDonationsView))
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, BatchRow{
		ID: "7", Name: "Sunday", Date: "Jan 7, 2024", DonationCount: 12,
		Total: "$1,234.50", TotalAmount: 1234.5, CanEdit: false, CanView: true,
	}, rows[0])
}

func TestPageLoadsEverything(t *testing.T) {
	repo := &memoryRepo{
		summary: []DonationSummary{{Week: "2024-01-07", Donations: []SummaryDonation{{TotalAmount: 10}}}},
		batches: []DonationBatch{{ID: "1", Name: "A"}},
		funds:   []Fund{{ID: "f1", Name: "General"}},
	}
	svc, _ := newService(repo)

	page, err := svc.Page(withPerms(middleware.PermDonationsViewSummary, middleware.PermDonationsEdit))
	require.NoError(t, err)

	assert.True(t, page.CanEdit)
	assert.Len(t, page.Report.Data, 1)
	assert.Len(t, page.Batches, 1)
	assert.Equal(t, []Fund{{ID: "f1", Name: "General"}}, page.Funds)
	assert.Equal(t, "2023-02-04", utils.FormatHtml5Date(repo.start))
}

func TestPageFailsWhenAnyLoadFails(t *testing.T) {
	repo := &memoryRepo{summaryErr: errors.New("down")}
	svc, _ := newService(repo)

	_, err := svc.Page(withPerms(middleware.PermDonationsViewSummary))
	assert.Error(t, err)
}

func TestNewBatchDefaults(t *testing.T) {
	svc, _ := newService(&memoryRepo{})

	view := svc.NewBatch(context.Background())

	assert.Equal(t, editpanel.ModeCreating, view.Mode)
	assert.Equal(t, editpanel.StateDraft, view.State)
	assert.Equal(t, DonationBatch{BatchDate: "2024-02-04"}, view.Entity)
}

func TestSaveBatch(t *testing.T) {
	t.Run("invalid date never reaches the api", func(t *testing.T) {
		repo := &memoryRepo{}
		svc, a := newService(repo)

		view, _, err := svc.SaveBatch(context.Background(), DonationBatch{Name: "x", BatchDate: "someday"})

		assert.ErrorIs(t, err, editpanel.ErrValidation)
		assert.NotEmpty(t, view.Errors)
		assert.Empty(t, view.Entity.BatchDate)
		assert.Empty(t, repo.saved)
		assert.Empty(t, a.failures)
	})

	t.Run("create trims and reloads", func(t *testing.T) {
		repo := &memoryRepo{batches: []DonationBatch{{ID: "1"}}}
		svc, a := newService(repo)

		_, rows, err := svc.SaveBatch(context.Background(), DonationBatch{Name: "  Sunday ", BatchDate: "2024-01-07T00:00:00Z"})

		require.NoError(t, err)
		require.Len(t, repo.saved, 1)
		assert.Equal(t, []DonationBatch{{Name: "Sunday", BatchDate: "2024-01-07"}}, repo.saved[0])
		assert.Equal(t, []common_models.AuditAction{common_models.AuditActionCreate}, a.changes)
		assert.Len(t, rows, 1)
	})

	t.Run("remote failure is audited and returned", func(t *testing.T) {
		repo := &memoryRepo{saveErr: errors.New("boom")}
		svc, a := newService(repo)

		view, _, err := svc.SaveBatch(context.Background(), DonationBatch{ID: "9", BatchDate: "2024-01-07"})

		assert.Error(t, err)
		assert.Equal(t, editpanel.StateLoaded, view.State)
		assert.Equal(t, []string{"9"}, a.failures)
	})
}

func TestDeleteBatch(t *testing.T) {
	repo := &memoryRepo{}
	svc, a := newService(repo)

	_, err := svc.DeleteBatch(context.Background(), "5", false)
	assert.ErrorIs(t, err, editpanel.ErrNotConfirmed)
	assert.Empty(t, repo.deleted)

	_, err = svc.DeleteBatch(context.Background(), "5", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"5"}, repo.deleted)
	assert.Equal(t, []common_models.AuditAction{common_models.AuditActionDelete}, a.changes)
}

func TestExportBatches(t *testing.T) {
	repo := &memoryRepo{batches: []DonationBatch{{ID: "1", Name: "A", BatchDate: "2024-01-07", DonationCount: 2, TotalAmount: 30}}}
	svc, _ := newService(repo)

	file, err := svc.ExportBatches(context.Background(), "csv")
	require.NoError(t, err)

	assert.Equal(t, "donation-batches.csv", file.Filename)
	assert.Equal(t, "Id,Name,Date,Donations,Total\n1,A,\"Jan 7, 2024\",2,30\n", string(file.Data))
}
