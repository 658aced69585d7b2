package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chums-admin/pkg/utils"

	"go.uber.org/zap"
)

// ErrNoAccess means the caller may not view the report; pages render nothing.
var ErrNoAccess = errors.New("report not permitted")

type ReportService interface {
	Keys() []string
	DefaultFilter(ctx context.Context, keyName string) (*ReportFilter, error)
	RunReport(ctx context.Context, keyName string, filter *ReportFilter) (*Report, error)
	RunSummary(ctx context.Context, keyName string, filter *ReportFilter) (*Summary, error)
	ExportReport(ctx context.Context, keyName string, filter *ReportFilter, format string) (*ExportFile, error)
}

type ReportServiceImpl struct {
	Registry *Registry
	logger   *zap.Logger
	now      func() time.Time
}

func NewReportService(registry *Registry, logger *zap.Logger) ReportService {
	return &ReportServiceImpl{
		Registry: registry,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *ReportServiceImpl) Keys() []string {
	return s.Registry.Keys()
}

func (s *ReportServiceImpl) DefaultFilter(ctx context.Context, keyName string) (*ReportFilter, error) {
	def, err := s.definition(ctx, keyName)
	if err != nil {
		return nil, err
	}
	return def.DefaultFilter(s.now()), nil
}

func (s *ReportServiceImpl) RunReport(ctx context.Context, keyName string, filter *ReportFilter) (*Report, error) {
	def, err := s.definition(ctx, keyName)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return nil, nil
	}
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}

	report, err := def.FetchReport(ctx, filter)
	if err != nil {
		s.logger.Warn("report fetch failed", zap.String("report", keyName), zap.Error(err))
		return nil, fmt.Errorf("run report %s: %w", keyName, err)
	}
	return report, nil
}

func (s *ReportServiceImpl) RunSummary(ctx context.Context, keyName string, filter *ReportFilter) (*Summary, error) {
	report, err := s.RunReport(ctx, keyName, filter)
	if err != nil || report == nil {
		return nil, err
	}
	return Summarize(report)
}

func (s *ReportServiceImpl) ExportReport(ctx context.Context, keyName string, filter *ReportFilter, format string) (*ExportFile, error) {
	report, err := s.RunReport(ctx, keyName, filter)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("export report %s: filter is required", keyName)
	}
	return Export(TableOf(report), format)
}

func (s *ReportServiceImpl) definition(ctx context.Context, keyName string) (Definition, error) {
	def, err := s.Registry.Lookup(keyName)
	if err != nil {
		return nil, err
	}
	if !utils.ClaimsFromContext(ctx).HasPermission(def.Permission()) {
		return nil, ErrNoAccess
	}
	return def, nil
}
