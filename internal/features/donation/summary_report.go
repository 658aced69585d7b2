package donation

import (
	"context"
	"fmt"
	"time"

	"chums-admin/internal/features/report"
	"chums-admin/internal/middleware"
	"chums-admin/pkg/utils"
)

const (
	SummaryReportKey = "donationSummary"
	SummaryFilterKey = "donationSummaryFilter"

	// NoFund names donations that carry no fund.
	NoFund = "none"
)

// SummaryReport is the weekly giving-by-fund report.
type SummaryReport struct {
	repo DonationRepository
}

func NewSummaryReport(repo DonationRepository) *SummaryReport {
	return &SummaryReport{repo: repo}
}

func (s *SummaryReport) KeyName() string { return SummaryReportKey }

func (s *SummaryReport) Permission() string { return middleware.PermDonationsViewSummary }

// DefaultFilter covers the last year up to now.
func (s *SummaryReport) DefaultFilter(now time.Time) *report.ReportFilter {
	return &report.ReportFilter{
		KeyName: SummaryFilterKey,
		Fields: []report.FilterField{
			{KeyName: "startDate", DisplayName: "Start Date", DataType: report.DataTypeDate, Value: now.AddDate(0, 0, -365)},
			{KeyName: "endDate", DisplayName: "End Date", DataType: report.DataTypeDate, Value: now},
		},
	}
}

func (s *SummaryReport) FetchReport(ctx context.Context, filter *report.ReportFilter) (*report.Report, error) {
	if filter == nil {
		return nil, nil
	}

	startDate, err := filter.DateValue("startDate")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrInvalidFilter, err)
	}
	endDate, err := filter.DateValue("endDate")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrInvalidFilter, err)
	}

	summary, err := s.repo.Summary(ctx, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("load donation summary: %w", err)
	}

	data, err := flattenSummary(summary)
	if err != nil {
		return nil, err
	}

	return &report.Report{
		Headings: []report.Heading{
			{Name: "Week", Field: "week"},
			{Name: "Fund", Field: "fundName"},
			{Name: "Amount", Field: "totalAmount"},
		},
		Groupings:  []string{"week", "fundName"},
		Data:       data,
		Title:      "Donation Summary",
		KeyName:    SummaryReportKey,
		ReportType: "Bar Chart",
	}, nil
}

// flattenSummary emits one row per donation, weeks then donations in source order.
func flattenSummary(summary []DonationSummary) ([]report.Row, error) {
	data := make([]report.Row, 0)
	for _, s := range summary {
		week, err := utils.ParseDate(s.Week)
		if err != nil {
			return nil, fmt.Errorf("donation summary week: %w", err)
		}
		pretty := utils.PrettyDate(week)

		for _, d := range s.Donations {
			fundName := NoFund
			if d.Fund != nil {
				fundName = d.Fund.Name
			}
			data = append(data, report.Row{
				"week":        pretty,
				"fundName":    fundName,
				"totalAmount": d.TotalAmount,
			})
		}
	}
	return data, nil
}
