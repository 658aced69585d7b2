package attendance

import (
	"context"
	"fmt"

	common_api "chums-admin/internal/common/api"
	"chums-admin/internal/features/group"
	"chums-admin/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type AttendanceService interface {
	PersonAttendance(ctx context.Context, personID string) (*PersonAttendance, error)
}

type AttendanceServiceImpl struct {
	Repo   AttendanceRepository
	Groups group.GroupRepository
	logger *zap.Logger
}

func NewAttendanceService(repo AttendanceRepository, groups group.GroupRepository, logger *zap.Logger) AttendanceService {
	return &AttendanceServiceImpl{
		Repo:   repo,
		Groups: groups,
		logger: logger,
	}
}

// PersonAttendance loads the person's records and the groups concurrently and
// joins them. Nothing is loaded for a missing person id.
func (s *AttendanceServiceImpl) PersonAttendance(ctx context.Context, personID string) (*PersonAttendance, error) {
	if utils.IsMissingID(personID) {
		return nil, fmt.Errorf("%w: person id is required", common_api.ErrBadInput)
	}

	var (
		records []AttendanceRecord
		groups  []group.Group
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.Repo.ListRecords(gctx, personID)
		if err != nil {
			return fmt.Errorf("load attendance for person %s: %w", personID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		groups, err = s.Groups.ListGroups(gctx)
		if err != nil {
			return fmt.Errorf("load groups: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &PersonAttendance{PersonID: personID, Rows: Rows(records, groups)}
	if len(view.Rows) == 0 {
		view.Placeholder = EmptyAttendanceMessage
	}
	return view, nil
}

// Rows joins records with their groups and blanks repeated leading columns.
func Rows(records []AttendanceRecord, groups []group.Group) []AttendanceRow {
	names := make(map[string]string, len(groups))
	for _, g := range groups {
		names[g.ID] = g.Name
	}

	rows := make([]AttendanceRow, 0, len(records))
	lastDate, lastCampus, lastService := "", "", ""
	first := true
	for _, r := range records {
		row := AttendanceRow{GroupID: r.GroupID, GroupName: names[r.GroupID]}
		if r.ServiceTime != nil {
			row.ServiceTime = r.ServiceTime.Name
		}

		date := visitDate(r.VisitDate)
		campus, service := refID(r.Campus), refID(r.Service)
		show := first || date != lastDate
		if show {
			row.VisitDate = date
		}
		show = show || campus != lastCampus
		if show {
			row.Campus = refName(r.Campus)
		}
		show = show || service != lastService
		if show {
			row.Service = refName(r.Service)
		}

		lastDate, lastCampus, lastService = date, campus, service
		first = false
		rows = append(rows, row)
	}
	return rows
}

func visitDate(s string) string {
	t, err := utils.ParseDate(s)
	if err != nil {
		return s
	}
	return utils.FormatHtml5Date(t)
}

func refID(r *Ref) string {
	if r == nil {
		return ""
	}
	return r.ID
}

func refName(r *Ref) string {
	if r == nil {
		return ""
	}
	return r.Name
}
