package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// PrettyDateLayout is the display format for dates shown to people.
	PrettyDateLayout = "Jan 2, 2006"
	// Html5DateLayout is the unambiguous machine format used in remote queries.
	Html5DateLayout = "2006-01-02"
)

var currencyPrinter = message.NewPrinter(language.AmericanEnglish)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	Html5DateLayout,
}

// ParseDate accepts the date shapes the remote APIs emit: full ISO timestamps
// and bare calendar dates.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// PrettyDate renders the UTC calendar day of t, e.g. "Jan 7, 2024".
func PrettyDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(PrettyDateLayout)
}

// FormatHtml5Date renders t as YYYY-MM-DD.
func FormatHtml5Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(Html5DateLayout)
}

// FormatCurrency renders amount as US dollars with grouping, e.g. "$1,234.50".
func FormatCurrency(amount float64) string {
	if amount < 0 {
		return "-" + currencyPrinter.Sprintf("$%.2f", -amount)
	}
	return currencyPrinter.Sprintf("$%.2f", amount)
}

// IsMissingID reports whether id is unset.
func IsMissingID(id string) bool {
	return strings.TrimSpace(id) == ""
}

var nonSlug = regexp.MustCompile("[^a-z0-9]+")

// FileName builds a download file name from a human title, e.g.
// FileName("Donation Summary", "xlsx") == "donation-summary.xlsx".
func FileName(title, ext string) string {
	s := strings.ToLower(title)
	s = nonSlug.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "export"
	}
	return s + "." + strings.TrimPrefix(ext, ".")
}
