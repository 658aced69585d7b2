package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	common_api "chums-admin/internal/common/api"
	"chums-admin/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var ErrUnsupportedFormat = fmt.Errorf("%w: unsupported format", common_api.ErrBadInput)

const (
	contentTypeCSV  = "text/csv"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Table is any list view flattened for download.
type Table struct {
	Title   string
	Columns []Heading
	Rows    []Row
}

// TableOf exposes a report's headings and rows as a table.
func TableOf(r *Report) Table {
	return Table{Title: r.Title, Columns: r.Headings, Rows: r.Data}
}

// ExportFile is an encoded table ready to send.
type ExportFile struct {
	Data        []byte
	Filename    string
	ContentType string
}

func Export(table Table, format string) (*ExportFile, error) {
	switch strings.ToLower(format) {
	case "", FormatCSV:
		data, err := exportCSV(table)
		if err != nil {
			return nil, err
		}
		return &ExportFile{Data: data, Filename: utils.FileName(table.Title, FormatCSV), ContentType: contentTypeCSV}, nil
	case FormatXLSX:
		data, err := exportExcel(table)
		if err != nil {
			return nil, err
		}
		return &ExportFile{Data: data, Filename: utils.FileName(table.Title, FormatXLSX), ContentType: contentTypeXLSX}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Send writes the file as an attachment.
func (f *ExportFile) Send(ctx *fiber.Ctx) error {
	ctx.Set("Content-Type", f.ContentType)
	ctx.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", f.Filename))
	return ctx.Send(f.Data)
}

func exportCSV(table Table) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		headers[i] = col.Name
	}
	if err := writer.Write(headers); err != nil {
		return nil, err
	}

	for _, rec := range table.Rows {
		row := make([]string, len(table.Columns))
		for i, col := range table.Columns {
			row[i] = cellText(rec[col.Field])
		}
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportExcel(table Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Report"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range table.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col.Name)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, record := range table.Rows {
		for colIdx, col := range table.Columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			switch v := record[col.Field].(type) {
			case time.Time:
				f.SetCellValue(sheetName, cell, utils.FormatHtml5Date(v))
			case nil:
				f.SetCellValue(sheetName, cell, "")
			default:
				f.SetCellValue(sheetName, cell, v)
			}
		}
	}

	for i := range table.Columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 15)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func cellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case time.Time:
		return utils.FormatHtml5Date(val)
	case float64:
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
