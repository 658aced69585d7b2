package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dateFilter() *ReportFilter {
	return &ReportFilter{
		KeyName: "donationSummaryFilter",
		Fields: []FilterField{
			{KeyName: "startDate", DisplayName: "Start Date", DataType: DataTypeDate, Value: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
			{KeyName: "endDate", DisplayName: "End Date", DataType: DataTypeDate, Value: "2024-01-31"},
			{KeyName: "minimum", DisplayName: "Minimum", DataType: DataTypeNumber, Value: 10.0},
			{KeyName: "note", DisplayName: "Note", DataType: DataTypeText, Value: ""},
		},
	}
}

func TestFilterDateValue(t *testing.T) {
	f := dateFilter()

	start, err := f.DateValue("startDate")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)

	end, err := f.DateValue("endDate")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-31", end.Format("2006-01-02"))

	_, err = f.DateValue("missing")
	assert.Error(t, err)

	_, err = f.DateValue("minimum")
	assert.Error(t, err)
}

func TestFilterSet(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		raw     string
		want    any
		wantErr bool
	}{
		{"date", "startDate", "2023-06-15", time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), false},
		{"bad date", "startDate", "June", nil, true},
		{"number", "minimum", " 25.5 ", 25.5, false},
		{"bad number", "minimum", "lots", nil, true},
		{"text", "note", "hello", "hello", false},
		{"unknown field", "nope", "x", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := dateFilter()
			err := f.Set(tt.key, tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			field, _ := f.Field(tt.key)
			assert.Equal(t, tt.want, field.Value)
		})
	}
}

func TestFilterValidate(t *testing.T) {
	f := dateFilter()
	require.NoError(t, f.Validate())

	assert.Error(t, f.Add(FilterField{KeyName: "startDate", DataType: DataTypeDate}))
	require.NoError(t, f.Add(FilterField{KeyName: "campus", DataType: DataTypeText}))

	f.Fields = append(f.Fields, FilterField{KeyName: "campus", DataType: DataTypeText})
	assert.Error(t, f.Validate())

	bad := &ReportFilter{KeyName: "x", Fields: []FilterField{{KeyName: "a", DataType: "color"}}}
	assert.Error(t, bad.Validate())
}

func TestNilFilterLookups(t *testing.T) {
	var f *ReportFilter
	_, ok := f.Field("startDate")
	assert.False(t, ok)
}

func TestReportValidate(t *testing.T) {
	r := &Report{
		KeyName:   "donationSummary",
		Headings:  []Heading{{Name: "Week", Field: "week"}, {Name: "Amount", Field: "totalAmount"}},
		Groupings: []string{"week", "fundName"},
		Data: []Row{
			{"week": "Jan 7, 2024", "fundName": "General", "totalAmount": 100.0},
		},
	}
	require.NoError(t, r.Validate())

	r.Data = append(r.Data, Row{"week": "Jan 14, 2024", "totalAmount": 5.0})
	err := r.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fundName")
}
