package report

import (
	"bytes"
	"testing"

	common_api "chums-admin/internal/common/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportCSV(t *testing.T) {
	r := weeklyReport()
	r.Title = "Donation Summary"
	r.Data = r.Data[:2]

	file, err := Export(TableOf(r), "csv")
	require.NoError(t, err)

	assert.Equal(t, "donation-summary.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, "Week,Fund,Amount\n\"Jan 14, 2024\",General,50\n\"Jan 7, 2024\",Missions,20\n", string(file.Data))
}

func TestExportXLSX(t *testing.T) {
	r := weeklyReport()
	r.Title = "Donation Summary"

	file, err := Export(TableOf(r), "XLSX")
	require.NoError(t, err)
	assert.Equal(t, "donation-summary.xlsx", file.Filename)

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Report")
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"Week", "Fund", "Amount"}, rows[0])
	assert.Equal(t, []string{"Jan 7, 2024", "General", "100"}, rows[3])
}

func TestExportUnsupportedFormat(t *testing.T) {
	_, err := Export(Table{Title: "x"}, "pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.ErrorIs(t, err, common_api.ErrBadInput)
}
