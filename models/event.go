package models

import (
	"time"

	"github.com/google/uuid"

	"timecard/geo"
)

// DateLayout is the calendar-date key format shared by events, approvals
// and summaries.
const DateLayout = "2006-01-02"

type EventKind string

const (
	EventClockIn  EventKind = "clock_in"
	EventClockOut EventKind = "clock_out"
	EventLunchOut EventKind = "lunch_out"
	EventLunchIn  EventKind = "lunch_in"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusArchived  Status = "archived"
)

// TimeEvent is one atomic worker action. Events are append-only: everything
// except Status and the approval stamps is immutable after creation, and
// those are touched only by the approval state machine.
type TimeEvent struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	UserID         uint       `gorm:"not null;index:idx_events_user_date" json:"user_id"`
	User           *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Kind           EventKind  `gorm:"not null;size:20" json:"kind"`
	Timestamp      time.Time  `gorm:"not null" json:"timestamp"`
	Date           string     `gorm:"not null;size:10;index:idx_events_user_date" json:"date"`
	JobSiteID      *uint      `gorm:"index" json:"job_site_id"`
	JobSite        *JobSite   `gorm:"foreignKey:JobSiteID" json:"job_site,omitempty"`
	TaskID         *uint      `json:"task_id"`
	Task           *Task      `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Latitude       *float64   `json:"latitude"`
	Longitude      *float64   `json:"longitude"`
	AccuracyMeters *float64   `json:"accuracy_meters"`
	PhotoRef       string     `gorm:"size:255" json:"photo_ref"`
	Status         Status     `gorm:"not null;size:20;default:draft" json:"status"`
	ApprovedBy     *uint      `json:"approved_by"`
	ApprovedAt     *time.Time `json:"approved_at"`
	RejectedBy     *uint      `json:"rejected_by"`
	RejectedAt     *time.Time `json:"rejected_at"`
}

func NewEventID() string {
	return uuid.NewString()
}

// DateKey returns the worker-local calendar day an instant belongs to.
// Assigned once at event creation so a shift that crosses midnight UTC
// still lands on the day the worker saw.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateLayout)
}

// Coordinate returns the event's geocoordinate, or nil when the capture
// flow recorded none.
func (e *TimeEvent) Coordinate() *geo.Coordinate {
	if e.Latitude == nil || e.Longitude == nil {
		return nil
	}
	return &geo.Coordinate{Latitude: *e.Latitude, Longitude: *e.Longitude}
}
