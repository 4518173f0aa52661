package models

import (
	"time"
)

// ApprovalRecord is the single source of truth for a timecard group's
// lifecycle, one row per (worker, date). It is created the first time a day
// is submitted and mutated only through the approval state machine. Version
// backs the compare-and-write that serializes concurrent transitions.
type ApprovalRecord struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_approvals_user_date" json:"user_id"`
	User        *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Date        string     `gorm:"not null;size:10;uniqueIndex:idx_approvals_user_date" json:"date"`
	Status      Status     `gorm:"not null;size:20" json:"status"`
	SubmittedAt *time.Time `json:"submitted_at"`
	ApproverID  *uint      `json:"approver_id"`
	Approver    *User      `gorm:"foreignKey:ApproverID" json:"approver,omitempty"`
	DecidedAt   *time.Time `json:"decided_at"`
	Version     uint       `gorm:"not null;default:0" json:"-"`
}
