// Package report projects day summaries into ordered rows for external
// formatters. The row order, field order and 2-decimal rounding are fixed so
// projecting the same input twice is byte-identical; CSV, JSON and HTML
// consumers rely on that contract and add no computation of their own.
package report

import (
	"sort"
	"strconv"

	"timecard/ledger"
	"timecard/models"
)

// GrandTotalLabel fills the date column of the trailing totals row.
const GrandTotalLabel = "TOTAL"

type Row struct {
	Date            string `json:"date"`
	WorkerID        uint   `json:"worker_id"`
	Worker          string `json:"worker"`
	TotalHours      string `json:"total_hours"`
	RegularHours    string `json:"regular_hours"`
	OvertimeHours   string `json:"overtime_hours"`
	DoubleTimeHours string `json:"double_time_hours"`
	EntryCount      int    `json:"entry_count"`
	Status          string `json:"status"`
}

// Options carries the per-group context joined onto the rows.
type Options struct {
	// Statuses maps worker-days to their approval status. Days without an
	// entry project as draft.
	Statuses map[ledger.DayKey]models.Status
	// WorkerNames maps worker IDs to display names, optional.
	WorkerNames map[uint]string
}

// Header returns the column names in row field order.
func Header() []string {
	return []string{
		"Date", "Worker ID", "Worker",
		"Total Hours", "Regular Hours", "Overtime Hours", "Double Time Hours",
		"Entries", "Status",
	}
}

// Record returns the row's fields in header order, for encoding/csv.
func (r Row) Record() []string {
	return []string{
		r.Date,
		strconv.FormatUint(uint64(r.WorkerID), 10),
		r.Worker,
		r.TotalHours,
		r.RegularHours,
		r.OvertimeHours,
		r.DoubleTimeHours,
		strconv.Itoa(r.EntryCount),
		r.Status,
	}
}

// Project renders summaries as rows sorted by date then worker, followed by
// one grand-total row.
func Project(days []ledger.DaySummary, opts Options) []Row {
	sorted := make([]ledger.DaySummary, len(days))
	copy(sorted, days)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].WorkerID < sorted[j].WorkerID
	})

	rows := make([]Row, 0, len(sorted)+1)
	var total ledger.DaySummary
	for _, d := range sorted {
		status := models.StatusDraft
		if s, ok := opts.Statuses[ledger.DayKey{WorkerID: d.WorkerID, Date: d.Date}]; ok {
			status = s
		}
		rows = append(rows, Row{
			Date:            d.Date,
			WorkerID:        d.WorkerID,
			Worker:          opts.WorkerNames[d.WorkerID],
			TotalHours:      formatHours(d.TotalHours),
			RegularHours:    formatHours(d.RegularHours),
			OvertimeHours:   formatHours(d.OvertimeHours),
			DoubleTimeHours: formatHours(d.DoubleTimeHours),
			EntryCount:      d.EntryCount,
			Status:          string(status),
		})
		total.TotalHours += d.TotalHours
		total.RegularHours += d.RegularHours
		total.OvertimeHours += d.OvertimeHours
		total.DoubleTimeHours += d.DoubleTimeHours
		total.EntryCount += d.EntryCount
	}

	rows = append(rows, Row{
		Date:            GrandTotalLabel,
		TotalHours:      formatHours(total.TotalHours),
		RegularHours:    formatHours(total.RegularHours),
		OvertimeHours:   formatHours(total.OvertimeHours),
		DoubleTimeHours: formatHours(total.DoubleTimeHours),
		EntryCount:      total.EntryCount,
	})
	return rows
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', 2, 64)
}
