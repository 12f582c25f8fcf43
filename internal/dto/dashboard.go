package dto

import (
	"github.com/GregMSThompson/insideoutbound-backend/internal/grid"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
)

// Activity period presets accepted by the prospecting API.
const (
	PeriodAll         = "All"
	PeriodToday       = "Today"
	PeriodYesterday   = "Yesterday"
	PeriodThisWeek    = "This Week"
	PeriodLastWeek    = "Last Week"
	PeriodThisMonth   = "This Month"
	PeriodLastMonth   = "Last Month"
	PeriodThisQuarter = "This Quarter"
	PeriodLastQuarter = "Last Quarter"
)

var ValidPeriods = map[string]bool{
	PeriodAll:         true,
	PeriodToday:       true,
	PeriodYesterday:   true,
	PeriodThisWeek:    true,
	PeriodLastWeek:    true,
	PeriodThisMonth:   true,
	PeriodLastMonth:   true,
	PeriodThisQuarter: true,
	PeriodLastQuarter: true,
}

// MetricCard is one headline number on the summary page.
type MetricCard struct {
	Key       string  `json:"key"`
	Label     string  `json:"label"`
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
}

// DashboardSummary backs the summary page. StatusCounts feeds the status
// breakdown chart.
type DashboardSummary struct {
	Period       string                          `json:"period"`
	Summary      models.ActivitySummary          `json:"summary"`
	Cards        []MetricCard                    `json:"cards"`
	Team         []models.SalesforceUser         `json:"team"`
	StatusCounts map[models.ActivationStatus]int `json:"statusCounts"`
}

type ActivationsRequest struct {
	Period      string
	UserIDs     []string
	Status      string
	SelectedIDs []string
	Query       grid.Query
}

// ActivationsPage is a server-side grid page over activation rows. View
// carries the formatted cells for the visible columns.
type ActivationsPage struct {
	Columns          []grid.Column `json:"columns"`
	AvailableColumns []grid.Column `json:"availableColumns"`
	Rows             []grid.Row    `json:"rows"`
	View             grid.View     `json:"view"`
	TotalItems       int           `json:"totalItems"`
	Page             int           `json:"page"`
	RowsPerPage      int           `json:"rowsPerPage"`
}
