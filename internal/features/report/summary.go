package report

import (
	"fmt"
	"strconv"
)

// Summary is a pivot of a report: the first grouping becomes rows, the second
// (if any) becomes columns, and the last non-grouping heading is summed.
// Rows and columns keep the order in which their values first appear.
type Summary struct {
	RowField     string      `json:"rowField"`
	ColumnField  string      `json:"columnField,omitempty"`
	ValueField   string      `json:"valueField"`
	Rows         []string    `json:"rows"`
	Columns      []string    `json:"columns"`
	Values       [][]float64 `json:"values"`
	RowTotals    []float64   `json:"rowTotals"`
	ColumnTotals []float64   `json:"columnTotals"`
	Total        float64     `json:"total"`
}

func Summarize(r *Report) (*Summary, error) {
	if r == nil {
		return nil, nil
	}
	if len(r.Groupings) == 0 {
		return nil, fmt.Errorf("report %s has no groupings", r.KeyName)
	}

	s := &Summary{RowField: r.Groupings[0]}
	if len(r.Groupings) > 1 {
		s.ColumnField = r.Groupings[1]
	}

	grouped := make(map[string]bool, len(r.Groupings))
	for _, g := range r.Groupings {
		grouped[g] = true
	}
	for i := len(r.Headings) - 1; i >= 0; i-- {
		if !grouped[r.Headings[i].Field] {
			s.ValueField = r.Headings[i].Field
			break
		}
	}
	if s.ValueField == "" {
		return nil, fmt.Errorf("report %s has no value heading", r.KeyName)
	}

	rowIndex := map[string]int{}
	colIndex := map[string]int{}
	type cell struct{ row, col int }
	sums := map[cell]float64{}

	for i, row := range r.Data {
		rowKey := buildKey(row, s.RowField)
		colKey := s.ValueField
		if s.ColumnField != "" {
			colKey = buildKey(row, s.ColumnField)
		}
		value, err := toFloat(row[s.ValueField])
		if err != nil {
			return nil, fmt.Errorf("report %s row %d: %w", r.KeyName, i, err)
		}

		ri, ok := rowIndex[rowKey]
		if !ok {
			ri = len(s.Rows)
			rowIndex[rowKey] = ri
			s.Rows = append(s.Rows, rowKey)
		}
		ci, ok := colIndex[colKey]
		if !ok {
			ci = len(s.Columns)
			colIndex[colKey] = ci
			s.Columns = append(s.Columns, colKey)
		}
		sums[cell{ri, ci}] += value
	}

	s.Values = make([][]float64, len(s.Rows))
	s.RowTotals = make([]float64, len(s.Rows))
	s.ColumnTotals = make([]float64, len(s.Columns))
	for ri := range s.Rows {
		s.Values[ri] = make([]float64, len(s.Columns))
		for ci := range s.Columns {
			v := sums[cell{ri, ci}]
			s.Values[ri][ci] = v
			s.RowTotals[ri] += v
			s.ColumnTotals[ci] += v
			s.Total += v
		}
	}
	return s, nil
}

func buildKey(row Row, field string) string {
	if val, ok := row[field]; ok && val != nil {
		return fmt.Sprintf("%v", val)
	}
	return "null"
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(n, 64)
	default:
		return 0, fmt.Errorf("%T is not numeric", v)
	}
}
