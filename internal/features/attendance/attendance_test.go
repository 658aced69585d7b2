package attendance

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	common_api "chums-admin/internal/common/api"
	"chums-admin/internal/features/group"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRecords struct {
	records []AttendanceRecord
	err     error
	calls   atomic.Int32
	person  string
}

func (s *stubRecords) ListRecords(ctx context.Context, personID string) ([]AttendanceRecord, error) {
	s.calls.Add(1)
	s.person = personID
	return s.records, s.err
}

type stubGroups struct {
	group.GroupRepository
	groups []group.Group
	err    error
	calls  atomic.Int32
}

func (s *stubGroups) ListGroups(ctx context.Context) ([]group.Group, error) {
	s.calls.Add(1)
	return s.groups, s.err
}

var (
	mainCampus = &Ref{ID: "c1", Name: "Main Campus"}
	north      = &Ref{ID: "c2", Name: "North"}
	sunday     = &Ref{ID: "s1", Name: "Sunday"}
	evening    = &Ref{ID: "s2", Name: "Evening"}
	nine       = &Ref{ID: "t1", Name: "9:00"}
)

func TestRowsBlankRepeatedColumns(t *testing.T) {
	records := []AttendanceRecord{
		{VisitDate: "2024-01-07T00:00:00.000Z", Campus: mainCampus, Service: sunday, ServiceTime: nine, GroupID: "g1"},
		{VisitDate: "2024-01-07T00:00:00.000Z", Campus: mainCampus, Service: sunday, GroupID: "g2"},
		{VisitDate: "2024-01-07T00:00:00.000Z", Campus: mainCampus, Service: evening, GroupID: "g1"},
		{VisitDate: "2024-01-07T00:00:00.000Z", Campus: north, Service: evening, GroupID: "missing"},
		{VisitDate: "2024-01-14T00:00:00.000Z", Campus: north, Service: evening, GroupID: "g1"},
	}
	groups := []group.Group{{ID: "g1", Name: "Choir"}, {ID: "g2", Name: "Youth"}}

	rows := Rows(records, groups)

	assert.Equal(t, []AttendanceRow{
		{VisitDate: "2024-01-07", Campus: "Main Campus", Service: "Sunday", ServiceTime: "9:00", GroupID: "g1", GroupName: "Choir"},
		{GroupID: "g2", GroupName: "Youth"},
		{Service: "Evening", GroupID: "g1", GroupName: "Choir"},
		{Campus: "North", Service: "Evening", GroupID: "missing"},
		{VisitDate: "2024-01-14", Campus: "North", Service: "Evening", GroupID: "g1", GroupName: "Choir"},
	}, rows)
}

func TestRowsToleratesMissingRefs(t *testing.T) {
	rows := Rows([]AttendanceRecord{{VisitDate: "not a date"}}, nil)

	assert.Equal(t, []AttendanceRow{{VisitDate: "not a date"}}, rows)
}

func TestPersonAttendance(t *testing.T) {
	records := &stubRecords{records: []AttendanceRecord{{VisitDate: "2024-01-07", Campus: mainCampus, Service: sunday, GroupID: "g1"}}}
	groups := &stubGroups{groups: []group.Group{{ID: "g1", Name: "Choir"}}}
	svc := NewAttendanceService(records, groups, zap.NewNop())

	view, err := svc.PersonAttendance(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, "p1", records.person)
	assert.Equal(t, "p1", view.PersonID)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "Choir", view.Rows[0].GroupName)
	assert.Empty(t, view.Placeholder)
}

func TestPersonAttendanceEmpty(t *testing.T) {
	svc := NewAttendanceService(&stubRecords{}, &stubGroups{}, zap.NewNop())

	view, err := svc.PersonAttendance(context.Background(), "p1")
	require.NoError(t, err)

	assert.Empty(t, view.Rows)
	assert.Equal(t, EmptyAttendanceMessage, view.Placeholder)
}

func TestPersonAttendanceMissingIDLoadsNothing(t *testing.T) {
	records, groups := &stubRecords{}, &stubGroups{}
	svc := NewAttendanceService(records, groups, zap.NewNop())

	_, err := svc.PersonAttendance(context.Background(), " ")

	assert.ErrorIs(t, err, common_api.ErrBadInput)
	assert.Zero(t, records.calls.Load())
	assert.Zero(t, groups.calls.Load())
}

func TestPersonAttendanceFailsWhenEitherLoadFails(t *testing.T) {
	tests := []struct {
		name    string
		records *stubRecords
		groups  *stubGroups
	}{
		{"records", &stubRecords{err: errors.New("down")}, &stubGroups{}},
		{"groups", &stubRecords{}, &stubGroups{err: errors.New("down")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAttendanceService(tt.records, tt.groups, zap.NewNop())
			_, err := svc.PersonAttendance(context.Background(), "p1")
			assert.Error(t, err)
		})
	}
}

func TestControllerReturnsPlaceholder(t *testing.T) {
	svc := NewAttendanceService(&stubRecords{}, &stubGroups{}, zap.NewNop())
	app := fiber.New()
	app.Get("/api/people/:id/attendance", NewAttendanceController(svc).GetPersonAttendance)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/people/p1/attendance", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
