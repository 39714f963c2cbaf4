package analytics

import "errors"

var (
	ErrDepartmentNotFound = errors.New("department has no employees")
	ErrExportFailed       = errors.New("failed to build timesheet export")
)
