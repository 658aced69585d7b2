package middleware

// Permission strings have the form "Api.ContentType.Action" and are granted
// per user at login.
const (
	PermDonationsEdit        = "GivingApi.Donations.Edit"
	PermDonationsView        = "GivingApi.Donations.View"
	PermDonationsViewSummary = "GivingApi.Donations.ViewSummary"
	PermFormsEdit            = "MembershipApi.Forms.Edit"
	PermGroupsEdit           = "MembershipApi.Groups.Edit"
	PermGroupsView           = "MembershipApi.Groups.View"
	PermPeopleView           = "MembershipApi.People.View"
	PermAttendanceView       = "AttendanceApi.Attendance.View"
	PermAuditView            = "AccessApi.AuditLogs.View"
)

// AllPermissions is granted to the development identity when auth is skipped.
var AllPermissions = []string{
	PermDonationsEdit,
	PermDonationsView,
	PermDonationsViewSummary,
	PermFormsEdit,
	PermGroupsEdit,
	PermGroupsView,
	PermPeopleView,
	PermAttendanceView,
	PermAuditView,
}
