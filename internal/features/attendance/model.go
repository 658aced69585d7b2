package attendance

// Ref is a campus, service or service time as embedded in a record.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AttendanceRecord struct {
	VisitDate   string `json:"visitDate"`
	Campus      *Ref   `json:"campus,omitempty"`
	Service     *Ref   `json:"service,omitempty"`
	ServiceTime *Ref   `json:"serviceTime,omitempty"`
	GroupID     string `json:"groupId"`
}

// AttendanceRow is one record as shown on a person's page. VisitDate, Campus
// and Service are blank when they repeat the previous row; once one of them is
// shown, the ones after it are shown too.
type AttendanceRow struct {
	VisitDate   string `json:"visitDate"`
	Campus      string `json:"campus"`
	Service     string `json:"service"`
	ServiceTime string `json:"serviceTime"`
	GroupID     string `json:"groupId,omitempty"`
	GroupName   string `json:"groupName,omitempty"`
}

type PersonAttendance struct {
	PersonID    string          `json:"personId"`
	Rows        []AttendanceRow `json:"rows"`
	Placeholder string          `json:"placeholder,omitempty"`
}

const EmptyAttendanceMessage = "No attendance records. Attendance will appear once attendance has been tracked for a group session."
