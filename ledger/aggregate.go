package ledger

import (
	"fmt"
	"time"

	"timecard/models"
)

// DayKey identifies a worker-day. A composite key, not a delimited string,
// so identifiers containing delimiter characters cannot collide.
type DayKey struct {
	WorkerID uint
	Date     string
}

// DaySummary is derived from the event log and always recomputable; it is
// never stored as ground truth.
type DaySummary struct {
	WorkerID        uint          `json:"worker_id"`
	Date            string        `json:"date"`
	TotalHours      float64       `json:"total_hours"`
	RegularHours    float64       `json:"regular_hours"`
	OvertimeHours   float64       `json:"overtime_hours"`
	DoubleTimeHours float64       `json:"double_time_hours"`
	EntryCount      int           `json:"entry_count"`
	Anomalies       []AnomalyFlag `json:"anomalies,omitempty"`
}

type WeekSummary struct {
	WorkerID        uint    `json:"worker_id"`
	WeekStart       string  `json:"week_start"`
	TotalHours      float64 `json:"total_hours"`
	RegularHours    float64 `json:"regular_hours"`
	OvertimeHours   float64 `json:"overtime_hours"`
	DoubleTimeHours float64 `json:"double_time_hours"`
	Days            int     `json:"days"`
}

// MalformedEventError reports an event excluded from aggregation. The batch
// continues without it.
type MalformedEventError struct {
	EventID string
	Reason  string
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("ledger: event %s excluded: %s", e.EventID, e.Reason)
}

// SummarizeDay reduces one worker-day and splits the total into the three
// pay buckets: the first 8 hours are regular, hours 8 through 12 are
// overtime, anything past 12 is double time.
func SummarizeDay(workerID uint, date string, events []models.TimeEvent) DaySummary {
	r := ReduceDay(events)
	regular, overtime, double := SplitHours(r.Hours)
	return DaySummary{
		WorkerID:        workerID,
		Date:            date,
		TotalHours:      r.Hours,
		RegularHours:    regular,
		OvertimeHours:   overtime,
		DoubleTimeHours: double,
		EntryCount:      len(events),
		Anomalies:       r.Anomalies,
	}
}

// SplitHours buckets a daily total at the 8 and 12 hour thresholds.
func SplitHours(total float64) (regular, overtime, double float64) {
	regular = total
	if regular > 8 {
		regular = 8
	}
	overtime = total - 8
	if overtime < 0 {
		overtime = 0
	} else if overtime > 4 {
		overtime = 4
	}
	double = total - 12
	if double < 0 {
		double = 0
	}
	return regular, overtime, double
}

// WeekStartDate returns the date key of the first day of the week containing
// date, for the given week start day.
func WeekStartDate(date string, weekStart time.Weekday) (string, error) {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return "", err
	}
	back := (int(t.Weekday()) - int(weekStart) + 7) % 7
	return t.AddDate(0, 0, -back).Format(models.DateLayout), nil
}

// SummarizeWeek sums each bucket across the days of the week containing
// date. Days outside that week, or belonging to other workers, are skipped.
func SummarizeWeek(workerID uint, date string, days []DaySummary, weekStart time.Weekday) (WeekSummary, error) {
	start, err := WeekStartDate(date, weekStart)
	if err != nil {
		return WeekSummary{}, err
	}

	w := WeekSummary{WorkerID: workerID, WeekStart: start}
	for _, d := range days {
		if d.WorkerID != workerID {
			continue
		}
		ds, err := WeekStartDate(d.Date, weekStart)
		if err != nil || ds != start {
			continue
		}
		w.TotalHours += d.TotalHours
		w.RegularHours += d.RegularHours
		w.OvertimeHours += d.OvertimeHours
		w.DoubleTimeHours += d.DoubleTimeHours
		w.Days++
	}
	return w, nil
}

// GroupByWorkerAndDate buckets raw events by worker-day. Events with a
// missing or unparseable date key, or a zero timestamp, are excluded and
// reported; one bad event never aborts the batch.
func GroupByWorkerAndDate(events []models.TimeEvent) (map[DayKey][]models.TimeEvent, []*MalformedEventError) {
	groups := make(map[DayKey][]models.TimeEvent)
	var malformed []*MalformedEventError

	for _, ev := range events {
		if ev.Timestamp.IsZero() {
			malformed = append(malformed, &MalformedEventError{EventID: ev.ID, Reason: "zero timestamp"})
			continue
		}
		if ev.Date == "" {
			malformed = append(malformed, &MalformedEventError{EventID: ev.ID, Reason: "missing date key"})
			continue
		}
		if _, err := time.Parse(models.DateLayout, ev.Date); err != nil {
			malformed = append(malformed, &MalformedEventError{EventID: ev.ID, Reason: "unparseable date key " + ev.Date})
			continue
		}
		key := DayKey{WorkerID: ev.UserID, Date: ev.Date}
		groups[key] = append(groups[key], ev)
	}
	return groups, malformed
}

// SummarizeAll runs SummarizeDay over every group, returning summaries plus
// the malformed events that were dropped.
func SummarizeAll(events []models.TimeEvent) ([]DaySummary, []*MalformedEventError) {
	groups, malformed := GroupByWorkerAndDate(events)
	summaries := make([]DaySummary, 0, len(groups))
	for key, evs := range groups {
		summaries = append(summaries, SummarizeDay(key.WorkerID, key.Date, evs))
	}
	return summaries, malformed
}
