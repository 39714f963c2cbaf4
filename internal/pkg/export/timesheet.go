package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	SheetShifts    = "Shifts"
	SheetSummary   = "Summary"
	SheetAnomalies = "Anomalies"
)

type ShiftRow struct {
	EmployeeCode string
	Name         string
	Department   string
	ClockIn      time.Time
	ClockOut     time.Time
	Hours        float64
}

type SummaryRow struct {
	EmployeeCode       string
	Name               string
	Department         string
	TotalHours         float64
	DaysWorked         int
	AverageHoursPerDay float64
	Anomalies          int
}

type AnomalyRow struct {
	EmployeeCode string
	Kind         string
	EntryType    string
	Timestamp    time.Time
	Reason       string
}

// Timesheet is the content of one exported workbook. Times are written in Location.
type Timesheet struct {
	Location  *time.Location
	Shifts    []ShiftRow
	Summary   []SummaryRow
	Anomalies []AnomalyRow
}

var (
	shiftHeader   = []any{"Employee Code", "Name", "Department", "Date", "Clock In", "Clock Out", "Hours"}
	summaryHeader = []any{"Employee Code", "Name", "Department", "Total Hours", "Days Worked", "Average Hours/Day", "Anomalies"}
	anomalyHeader = []any{"Employee Code", "Kind", "Entry Type", "Timestamp", "Reason"}
)

// WriteTimesheetXLSX renders ts as an XLSX workbook with shifts, summary and anomaly sheets.
func WriteTimesheetXLSX(w io.Writer, ts Timesheet) error {
	loc := ts.Location
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetShifts); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetSummary, SheetAnomalies} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	shiftRows := make([][]any, 0, len(ts.Shifts))
	for _, s := range ts.Shifts {
		in := s.ClockIn.In(loc)
		shiftRows = append(shiftRows, []any{
			s.EmployeeCode, s.Name, s.Department,
			in.Format("2006-01-02"),
			in.Format("15:04:05"),
			s.ClockOut.In(loc).Format("2006-01-02 15:04:05"),
			round2(s.Hours),
		})
	}

	summaryRows := make([][]any, 0, len(ts.Summary))
	for _, s := range ts.Summary {
		summaryRows = append(summaryRows, []any{
			s.EmployeeCode, s.Name, s.Department,
			round2(s.TotalHours), s.DaysWorked, round2(s.AverageHoursPerDay), s.Anomalies,
		})
	}

	anomalyRows := make([][]any, 0, len(ts.Anomalies))
	for _, a := range ts.Anomalies {
		ts := ""
		if !a.Timestamp.IsZero() {
			ts = a.Timestamp.In(loc).Format("2006-01-02 15:04:05")
		}
		anomalyRows = append(anomalyRows, []any{a.EmployeeCode, a.Kind, a.EntryType, ts, a.Reason})
	}

	sheets := []struct {
		name   string
		header []any
		rows   [][]any
	}{
		{SheetShifts, shiftHeader, shiftRows},
		{SheetSummary, summaryHeader, summaryRows},
		{SheetAnomalies, anomalyHeader, anomalyRows},
	}
	for _, sh := range sheets {
		if err := writeSheet(f, sh.name, sh.header, sh.rows, headerStyle); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}

	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("%s header style: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}

	lastCol, _, err := excelize.SplitCellName(last)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 18)
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
