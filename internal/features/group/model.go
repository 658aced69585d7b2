package group

import (
	"strconv"

	"chums-admin/pkg/editpanel"
)

// Group is owned by MembershipApi. Groups arrive sorted by category.
type Group struct {
	ID              string `json:"id,omitempty"`
	CategoryName    string `json:"categoryName"`
	Name            string `json:"name"`
	MemberCount     int    `json:"memberCount"`
	TrackAttendance bool   `json:"trackAttendance"`
}

// GroupRow is a group as listed on the groups page. Category is empty when it
// matches the previous row's category.
type GroupRow struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Name        string `json:"name"`
	MemberCount int    `json:"memberCount"`
	Members     string `json:"members"`
}

type GroupsPage struct {
	Rows    []GroupRow `json:"rows"`
	CanEdit bool       `json:"canEdit"`
}

// GroupEditor is the add/edit panel for a group.
type GroupEditor = editpanel.View[Group]

// MemberLabel renders a member count as "1 person" or "N people".
func MemberLabel(count int) string {
	if count == 1 {
		return "1 person"
	}
	return strconv.Itoa(count) + " people"
}

// Rows folds repeated categories so each category is shown once per run.
func Rows(groups []Group) []GroupRow {
	rows := make([]GroupRow, 0, len(groups))
	lastCategory := ""
	for _, g := range groups {
		row := GroupRow{
			ID:          g.ID,
			Name:        g.Name,
			MemberCount: g.MemberCount,
			Members:     MemberLabel(g.MemberCount),
		}
		if g.CategoryName != lastCategory {
			row.Category = g.CategoryName
		}
		lastCategory = g.CategoryName
		rows = append(rows, row)
	}
	return rows
}
