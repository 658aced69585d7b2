package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

var ErrUnknownReport = errors.New("unknown report")

// Fetcher turns a filter into a report. A nil filter yields no report and no
// error, and must not touch the remote API.
type Fetcher interface {
	FetchReport(ctx context.Context, filter *ReportFilter) (*Report, error)
}

// Definition is a report the admin pages can request by key. Feature slices
// contribute definitions to the "reports" fx group.
type Definition interface {
	Fetcher
	KeyName() string
	// Permission is required to view the report.
	Permission() string
	// DefaultFilter builds a fresh filter with defaults relative to now.
	DefaultFilter(now time.Time) *ReportFilter
}

type Registry struct {
	definitions map[string]Definition
}

func NewRegistry(definitions []Definition) (*Registry, error) {
	r := &Registry{definitions: make(map[string]Definition, len(definitions))}
	for _, d := range definitions {
		if d == nil {
			continue
		}
		if _, exists := r.definitions[d.KeyName()]; exists {
			return nil, fmt.Errorf("report %s registered twice", d.KeyName())
		}
		r.definitions[d.KeyName()] = d
	}
	return r, nil
}

func (r *Registry) Lookup(keyName string) (Definition, error) {
	d, ok := r.definitions[keyName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownReport, keyName)
	}
	return d, nil
}

// Keys lists registered report keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.definitions))
	for k := range r.definitions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
