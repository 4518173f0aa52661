package ledger

import (
	"math"
	"testing"
	"time"

	"timecard/models"
)

const testDate = "2025-06-02"

func at(t *testing.T, clock string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", testDate+" "+clock)
	if err != nil {
		t.Fatalf("parse %q: %v", clock, err)
	}
	return ts
}

func event(t *testing.T, id string, kind models.EventKind, clock string) models.TimeEvent {
	t.Helper()
	return models.TimeEvent{
		ID:        id,
		UserID:    1,
		Kind:      kind,
		Timestamp: at(t, clock),
		Date:      testDate,
	}
}

func TestReduceDayFullShiftWithLunch(t *testing.T) {
	// ClockIn 08:00, LunchOut 12:00, LunchIn 13:00, ClockOut 17:30 -> 8.5h.
	events := []models.TimeEvent{
		event(t, "e1", models.EventClockIn, "08:00"),
		event(t, "e2", models.EventLunchOut, "12:00"),
		event(t, "e3", models.EventLunchIn, "13:00"),
		event(t, "e4", models.EventClockOut, "17:30"),
	}

	r := ReduceDay(events)
	if math.Abs(r.Hours-8.5) > 1e-9 {
		t.Fatalf("hours = %v, want 8.5", r.Hours)
	}
	if len(r.Anomalies) != 0 {
		t.Fatalf("anomalies = %v, want none", r.Anomalies)
	}
	if r.ClockedIn() {
		t.Fatal("day should be closed")
	}
}

func TestReduceDayLongShiftNoLunch(t *testing.T) {
	events := []models.TimeEvent{
		event(t, "e1", models.EventClockIn, "07:00"),
		event(t, "e2", models.EventClockOut, "20:00"),
	}

	r := ReduceDay(events)
	if math.Abs(r.Hours-13) > 1e-9 {
		t.Fatalf("hours = %v, want 13", r.Hours)
	}
}

func TestReduceDaySortsByTimestamp(t *testing.T) {
	events := []models.TimeEvent{
		event(t, "e4", models.EventClockOut, "17:30"),
		event(t, "e2", models.EventLunchOut, "12:00"),
		event(t, "e1", models.EventClockIn, "08:00"),
		event(t, "e3", models.EventLunchIn, "13:00"),
	}

	r := ReduceDay(events)
	if math.Abs(r.Hours-8.5) > 1e-9 {
		t.Fatalf("hours = %v, want 8.5", r.Hours)
	}
	if len(r.Anomalies) != 0 {
		t.Fatalf("anomalies = %v, want none", r.Anomalies)
	}
}

func TestReduceDayDuplicateClockInOverwritesAndFlags(t *testing.T) {
	events := []models.TimeEvent{
		event(t, "e1", models.EventClockIn, "08:00"),
		event(t, "e2", models.EventClockIn, "09:00"),
		event(t, "e3", models.EventClockOut, "17:00"),
	}

	r := ReduceDay(events)
	// Later marker wins: 09:00 -> 17:00.
	if math.Abs(r.Hours-8) > 1e-9 {
		t.Fatalf("hours = %v, want 8", r.Hours)
	}
	if len(r.Anomalies) != 1 {
		t.Fatalf("anomalies = %v, want exactly one", r.Anomalies)
	}
	if r.Anomalies[0].EventID != "e2" || r.Anomalies[0].Kind != AnomalyUnexpectedTransition {
		t.Fatalf("anomaly = %+v, want unexpected-transition on e2", r.Anomalies[0])
	}
}

func TestReduceDayLunchInWhileIdleFlagged(t *testing.T) {
	events := []models.TimeEvent{
		event(t, "e1", models.EventLunchIn, "12:30"),
	}

	r := ReduceDay(events)
	if r.Hours != 0 {
		t.Fatalf("hours = %v, want 0", r.Hours)
	}
	if len(r.Anomalies) != 1 || r.Anomalies[0].Kind != AnomalyUnexpectedTransition {
		t.Fatalf("anomalies = %v, want one unexpected-transition", r.Anomalies)
	}
	if r.ClockedIn() {
		t.Fatal("lunch-in without a shift must not open an interval")
	}
}

func TestReduceDayNegativeTotalClampsToZero(t *testing.T) {
	events := []models.TimeEvent{
		event(t, "e1", models.EventClockIn, "08:00"),
		event(t, "e2", models.EventClockOut, "09:00"),
		event(t, "e3", models.EventLunchOut, "09:00"),
		event(t, "e4", models.EventLunchIn, "12:00"),
	}

	r := ReduceDay(events)
	if r.Hours != 0 {
		t.Fatalf("hours = %v, want clamp to 0", r.Hours)
	}
	if len(r.Anomalies) == 0 {
		t.Fatal("expected anomalies for lunch markers outside a shift")
	}
}

func TestReduceDayOpenIntervalExcludedAndFlagged(t *testing.T) {
	events := []models.TimeEvent{
		event(t, "e1", models.EventClockIn, "08:00"),
	}

	r := ReduceDay(events)
	if r.Hours != 0 {
		t.Fatalf("hours = %v, want 0 for an unterminated day", r.Hours)
	}
	if !r.ClockedIn() {
		t.Fatal("expected open interval")
	}

	found := false
	for _, a := range r.Anomalies {
		if a.Kind == AnomalyOpenInterval && a.EventID == "e1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("anomalies = %v, want open-interval on e1", r.Anomalies)
	}
}

func TestProjectedHoursExtrapolatesOpenInterval(t *testing.T) {
	events := []models.TimeEvent{
		event(t, "e1", models.EventClockIn, "08:00"),
	}
	r := ReduceDay(events)

	if got := r.ProjectedHours(at(t, "12:00")); math.Abs(got-4) > 1e-9 {
		t.Fatalf("projected = %v, want 4", got)
	}
}

func TestProjectedHoursWhileOnLunch(t *testing.T) {
	events := []models.TimeEvent{
		event(t, "e1", models.EventClockIn, "08:00"),
		event(t, "e2", models.EventLunchOut, "12:00"),
	}
	r := ReduceDay(events)

	if !r.OnLunch() {
		t.Fatal("expected day to end on lunch")
	}
	// Lunch time does not count: 08:00-12:00 worked, 12:00-13:00 on break.
	if got := r.ProjectedHours(at(t, "13:00")); math.Abs(got-4) > 1e-9 {
		t.Fatalf("projected = %v, want 4", got)
	}
}

func TestReduceDayMultipleShifts(t *testing.T) {
	events := []models.TimeEvent{
		event(t, "e1", models.EventClockIn, "06:00"),
		event(t, "e2", models.EventClockOut, "10:00"),
		event(t, "e3", models.EventClockIn, "14:00"),
		event(t, "e4", models.EventClockOut, "18:30"),
	}

	r := ReduceDay(events)
	if math.Abs(r.Hours-8.5) > 1e-9 {
		t.Fatalf("hours = %v, want 8.5", r.Hours)
	}
	if len(r.Anomalies) != 0 {
		t.Fatalf("anomalies = %v, want none for split shifts", r.Anomalies)
	}
}
