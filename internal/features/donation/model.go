package donation

import "chums-admin/internal/features/report"

type Fund struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// SummaryDonation is one fund's total within a week. Fund is absent for
// donations that were never designated.
type SummaryDonation struct {
	Fund        *Fund   `json:"fund,omitempty"`
	TotalAmount float64 `json:"totalAmount"`
}

// DonationSummary is one week of the remote summary.
type DonationSummary struct {
	Week      string            `json:"week"`
	Donations []SummaryDonation `json:"donations"`
}

type DonationBatch struct {
	ID            string  `json:"id,omitempty"`
	Name          string  `json:"name"`
	BatchDate     string  `json:"batchDate,omitempty"`
	DonationCount int     `json:"donationCount"`
	TotalAmount   float64 `json:"totalAmount"`
}

// BatchRow is a batch as listed on the donations page.
type BatchRow struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Date          string  `json:"date"`
	DonationCount int     `json:"donationCount"`
	Total         string  `json:"total"`
	TotalAmount   float64 `json:"totalAmount"`
	CanEdit       bool    `json:"canEdit"`
	CanView       bool    `json:"canView"`
}

// DonationsPage is everything the donations page shows on load.
type DonationsPage struct {
	Filter  *report.ReportFilter `json:"filter"`
	Report  *report.Report       `json:"report"`
	Batches []BatchRow           `json:"batches"`
	Funds   []Fund               `json:"funds"`
	CanEdit bool                 `json:"canEdit"`
}
