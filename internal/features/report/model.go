package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"chums-admin/pkg/utils"
)

// ErrInvalidFilter marks filters that are malformed or missing a required field.
var ErrInvalidFilter = errors.New("invalid filter")

type DataType string

const (
	DataTypeDate   DataType = "date"
	DataTypeText   DataType = "text"
	DataTypeNumber DataType = "number"
)

// FilterField is one input of a report filter. Value holds a time.Time for
// dates, a float64 for numbers and a string for text; values decoded from
// JSON arrive as strings or float64 and are read through the typed accessors.
type FilterField struct {
	KeyName     string   `json:"keyName"`
	DisplayName string   `json:"displayName"`
	DataType    DataType `json:"dataType"`
	Value       any      `json:"value"`
}

// DateValue returns the field value as a time.
func (f *FilterField) DateValue() (time.Time, error) {
	switch v := f.Value.(type) {
	case time.Time:
		return v, nil
	case string:
		return utils.ParseDate(v)
	default:
		return time.Time{}, fmt.Errorf("field %s: %T is not a date", f.KeyName, f.Value)
	}
}

// NumberValue returns the field value as a number.
func (f *FilterField) NumberValue() (float64, error) {
	switch v := f.Value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("field %s: %T is not a number", f.KeyName, f.Value)
	}
}

// ReportFilter describes the inputs of a report. KeyName identifies the
// filter's purpose; field key names are unique within it.
type ReportFilter struct {
	KeyName string        `json:"keyName"`
	Fields  []FilterField `json:"fields"`
}

// Field looks up a field by key name.
func (f *ReportFilter) Field(keyName string) (*FilterField, bool) {
	if f == nil {
		return nil, false
	}
	for i := range f.Fields {
		if f.Fields[i].KeyName == keyName {
			return &f.Fields[i], true
		}
	}
	return nil, false
}

// DateValue returns the date held by the named field.
func (f *ReportFilter) DateValue(keyName string) (time.Time, error) {
	field, ok := f.Field(keyName)
	if !ok {
		return time.Time{}, fmt.Errorf("filter %s has no field %s", f.keyName(), keyName)
	}
	if field.DataType != DataTypeDate {
		return time.Time{}, fmt.Errorf("filter %s: field %s is %s, not date", f.keyName(), keyName, field.DataType)
	}
	return field.DateValue()
}

// Set parses raw according to the field's data type and stores it.
func (f *ReportFilter) Set(keyName, raw string) error {
	field, ok := f.Field(keyName)
	if !ok {
		return fmt.Errorf("filter %s has no field %s", f.keyName(), keyName)
	}

	switch field.DataType {
	case DataTypeDate:
		t, err := utils.ParseDate(raw)
		if err != nil {
			return fmt.Errorf("field %s: %w", keyName, err)
		}
		field.Value = t
	case DataTypeNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("field %s: %w", keyName, err)
		}
		field.Value = n
	default:
		field.Value = raw
	}
	return nil
}

// Add appends a field; key names must stay unique.
func (f *ReportFilter) Add(field FilterField) error {
	if _, exists := f.Field(field.KeyName); exists {
		return fmt.Errorf("filter %s already has field %s", f.keyName(), field.KeyName)
	}
	f.Fields = append(f.Fields, field)
	return nil
}

func (f *ReportFilter) Validate() error {
	seen := make(map[string]bool, len(f.Fields))
	for _, field := range f.Fields {
		if field.KeyName == "" {
			return fmt.Errorf("filter %s has a field without a key name", f.keyName())
		}
		if seen[field.KeyName] {
			return fmt.Errorf("filter %s: duplicate field %s", f.keyName(), field.KeyName)
		}
		seen[field.KeyName] = true
		switch field.DataType {
		case DataTypeDate, DataTypeText, DataTypeNumber:
		default:
			return fmt.Errorf("filter %s: field %s has unknown data type %q", f.keyName(), field.KeyName, field.DataType)
		}
	}
	return nil
}

func (f *ReportFilter) keyName() string {
	if f == nil {
		return ""
	}
	return f.KeyName
}

type Heading struct {
	Name  string `json:"name"`
	Field string `json:"field"`
}

// Row maps a field name to its value.
type Row map[string]any

// Report is the normalized tabular result handed to chart and table renderers.
type Report struct {
	Headings   []Heading `json:"headings"`
	Groupings  []string  `json:"groupings"`
	Data       []Row     `json:"data"`
	Title      string    `json:"title"`
	KeyName    string    `json:"keyName"`
	ReportType string    `json:"reportType"`
}

// Validate checks that every heading and grouping field exists in every row.
func (r *Report) Validate() error {
	fields := make([]string, 0, len(r.Headings)+len(r.Groupings))
	for _, h := range r.Headings {
		fields = append(fields, h.Field)
	}
	fields = append(fields, r.Groupings...)

	for i, row := range r.Data {
		for _, field := range fields {
			if _, ok := row[field]; !ok {
				return fmt.Errorf("report %s: row %d is missing field %s", r.KeyName, i, field)
			}
		}
	}
	return nil
}
