package models

import "time"

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// SummaryFilter scopes summary list queries.
type SummaryFilter struct {
	ChildID  string
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int
}
