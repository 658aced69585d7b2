package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weeklyReport() *Report {
	return &Report{
		KeyName: "donationSummary",
		Headings: []Heading{
			{Name: "Week", Field: "week"},
			{Name: "Fund", Field: "fundName"},
			{Name: "Amount", Field: "totalAmount"},
		},
		Groupings: []string{"week", "fundName"},
		Data: []Row{
			{"week": "Jan 14, 2024", "fundName": "General", "totalAmount": 50.0},
			{"week": "Jan 7, 2024", "fundName": "Missions", "totalAmount": 20.0},
			{"week": "Jan 7, 2024", "fundName": "General", "totalAmount": 100.0},
			{"week": "Jan 14, 2024", "fundName": "General", "totalAmount": 25.0},
			{"week": "Jan 14, 2024", "fundName": "none", "totalAmount": 5.0},
		},
	}
}

func TestSummarizeKeepsFirstSeenOrder(t *testing.T) {
	s, err := Summarize(weeklyReport())
	require.NoError(t, err)

	assert.Equal(t, "week", s.RowField)
	assert.Equal(t, "fundName", s.ColumnField)
	assert.Equal(t, "totalAmount", s.ValueField)
	assert.Equal(t, []string{"Jan 14, 2024", "Jan 7, 2024"}, s.Rows)
	assert.Equal(t, []string{"General", "Missions", "none"}, s.Columns)
	assert.Equal(t, [][]float64{{75, 0, 5}, {100, 20, 0}}, s.Values)
	assert.Equal(t, []float64{80, 120}, s.RowTotals)
	assert.Equal(t, []float64{175, 20, 5}, s.ColumnTotals)
	assert.Equal(t, 200.0, s.Total)
}

func TestSummarizeSingleGrouping(t *testing.T) {
	r := weeklyReport()
	r.Groupings = []string{"fundName"}

	s, err := Summarize(r)
	require.NoError(t, err)

	assert.Equal(t, []string{"General", "Missions", "none"}, s.Rows)
	assert.Equal(t, []string{"totalAmount"}, s.Columns)
	assert.Equal(t, []float64{175, 20, 5}, s.RowTotals)
}

func TestSummarizeErrors(t *testing.T) {
	s, err := Summarize(nil)
	assert.NoError(t, err)
	assert.Nil(t, s)

	r := weeklyReport()
	r.Groupings = nil
	_, err = Summarize(r)
	assert.Error(t, err)

	r = weeklyReport()
	r.Data[0]["totalAmount"] = []int{1}
	_, err = Summarize(r)
	assert.Error(t, err)
}

func TestSummarizeEmptyReport(t *testing.T) {
	r := weeklyReport()
	r.Data = nil

	s, err := Summarize(r)
	require.NoError(t, err)
	assert.Empty(t, s.Rows)
	assert.Zero(t, s.Total)
}
