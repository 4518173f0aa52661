package ledger

import (
	"sort"
	"time"

	"timecard/models"
)

// Anomaly kinds attached to a day by the reducer.
const (
	AnomalyUnexpectedTransition = "unexpected-transition"
	AnomalyOpenInterval         = "open-interval"
)

// AnomalyFlag marks a data-quality problem on a worker-day. Anomalies are
// surfaced as data for review, never as errors, and never block aggregation.
type AnomalyFlag struct {
	EventID string `json:"event_id"`
	Kind    string `json:"kind"`
}

type dayState int

const (
	stateIdle dayState = iota
	stateWorking
	stateOnLunch
)

// DayResult is the fold of one worker-day's events. Hours covers closed
// work intervals only; an interval still open at the end of the sequence is
// reported as an open-interval anomaly and excluded, because extrapolating
// a historical day against wall-clock "now" double-counts on re-aggregation.
// Live callers use ProjectedHours for the in-progress day instead.
type DayResult struct {
	Hours     float64
	Anomalies []AnomalyFlag

	state           dayState
	accumulated     time.Duration
	clockInAt       time.Time
	lunchOutAt      time.Time
	clockInEventID  string
	lunchOutEventID string
}

// ClockedIn reports whether the day ended with an open work interval.
func (r *DayResult) ClockedIn() bool {
	return r.state == stateWorking || r.state == stateOnLunch
}

// OnLunch reports whether the day ended mid lunch break.
func (r *DayResult) OnLunch() bool {
	return r.state == stateOnLunch
}

// LastClockIn returns the open interval's start, zero when the day is closed.
func (r *DayResult) LastClockIn() time.Time {
	return r.clockInAt
}

// ProjectedHours extrapolates any open interval to asOf. Meaningful only
// while asOf falls within the day being reduced; finalized days read Hours.
func (r *DayResult) ProjectedHours(asOf time.Time) float64 {
	total := r.accumulated
	if !r.clockInAt.IsZero() && asOf.After(r.clockInAt) {
		total += asOf.Sub(r.clockInAt)
	}
	if !r.lunchOutAt.IsZero() && asOf.After(r.lunchOutAt) {
		total -= asOf.Sub(r.lunchOutAt)
	}
	return clampHours(total)
}

// ReduceDay folds one worker-day of events, in timestamp order, through the
// Idle/Working/OnLunch machine. Out-of-order and duplicate events are not
// rejected: the relevant marker is overwritten and the event flagged, which
// mirrors permissive field data entry while keeping an audit trail.
func ReduceDay(events []models.TimeEvent) *DayResult {
	sorted := make([]models.TimeEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	r := &DayResult{}
	for i := range sorted {
		r.apply(&sorted[i])
	}

	if r.ClockedIn() {
		id := r.clockInEventID
		if r.state == stateOnLunch && r.lunchOutEventID != "" {
			id = r.lunchOutEventID
		}
		r.Anomalies = append(r.Anomalies, AnomalyFlag{EventID: id, Kind: AnomalyOpenInterval})
	}
	r.Hours = clampHours(r.accumulated)
	return r
}

func (r *DayResult) apply(ev *models.TimeEvent) {
	switch ev.Kind {
	case models.EventClockIn:
		if r.state != stateIdle {
			r.flag(ev)
		}
		r.clockInAt = ev.Timestamp
		r.clockInEventID = ev.ID
		r.lunchOutAt = time.Time{}
		r.lunchOutEventID = ""
		r.state = stateWorking

	case models.EventClockOut:
		if r.state != stateWorking {
			r.flag(ev)
		}
		if !r.clockInAt.IsZero() {
			r.accumulated += ev.Timestamp.Sub(r.clockInAt)
			r.clockInAt = time.Time{}
			r.clockInEventID = ""
		}
		// A lunch never clocked back in ends with the shift.
		r.lunchOutAt = time.Time{}
		r.lunchOutEventID = ""
		r.state = stateIdle

	case models.EventLunchOut:
		if r.state != stateWorking {
			r.flag(ev)
		}
		r.lunchOutAt = ev.Timestamp
		r.lunchOutEventID = ev.ID
		r.state = stateOnLunch

	case models.EventLunchIn:
		if r.state != stateOnLunch {
			r.flag(ev)
		}
		if !r.lunchOutAt.IsZero() {
			r.accumulated -= ev.Timestamp.Sub(r.lunchOutAt)
			r.lunchOutAt = time.Time{}
			r.lunchOutEventID = ""
		}
		if !r.clockInAt.IsZero() {
			r.state = stateWorking
		} else {
			r.state = stateIdle
		}

	default:
		r.flag(ev)
	}
}

func (r *DayResult) flag(ev *models.TimeEvent) {
	r.Anomalies = append(r.Anomalies, AnomalyFlag{EventID: ev.ID, Kind: AnomalyUnexpectedTransition})
}

// clampHours converts to hours and floors at zero so a lunch overrun can
// never drive a day's total negative.
func clampHours(d time.Duration) float64 {
	h := d.Hours()
	if h < 0 {
		return 0
	}
	return h
}
