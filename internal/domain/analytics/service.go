package analytics

import (
	"context"
	"io"
)

type AnalyticsService interface {
	// GetAnalytics dispatches on the filter: employee, department or facility-wide stats
	GetAnalytics(ctx context.Context, filter StatsFilter) (AnalyticsResponse, error)

	GetEmployeeStats(ctx context.Context, filter StatsFilter) (EmployeeStatsResponse, error)
	GetDepartmentStats(ctx context.Context, filter StatsFilter) (DepartmentStatsResponse, error)
	GetOverallStats(ctx context.Context, filter StatsFilter) (OverallStatsResponse, error)

	// ExportTimesheets writes an XLSX workbook with one row per completed shift
	ExportTimesheets(ctx context.Context, filter StatsFilter, w io.Writer) error
}
