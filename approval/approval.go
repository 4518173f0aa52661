// Package approval drives the lifecycle of a timecard group: the full event
// set for one worker-day plus its single ApprovalRecord.
//
// Draft -> Submitted -> {Approved, Rejected} -> Archived, with
// Rejected -> Submitted on resubmission. Approved is terminal except for
// archival. Concurrent transitions on the same group are serialized by a
// compare-and-write against the record's version; the loser of a race gets
// ErrConcurrentModification and should retry.
package approval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"timecard/models"
)

// ErrConcurrentModification is returned when a compare-and-write loses a
// race with another transition on the same group.
var ErrConcurrentModification = errors.New("approval: concurrent modification, retry")

// ErrNoEvents is returned when a day with no recorded events is submitted.
var ErrNoEvents = errors.New("approval: no events recorded for that day")

// InvalidTransitionError reports an illegal state change. Nothing is
// mutated when it is returned.
type InvalidTransitionError struct {
	From models.Status
	To   models.Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("approval: invalid transition %s -> %s", e.From, e.To)
}

// Repository is the narrow persistence surface the state machine needs.
// SaveApproval must have compare-and-write semantics: create fails if a
// record for the key already exists, update fails unless the stored version
// matches the one on the record, and both failures surface as
// ErrConcurrentModification.
type Repository interface {
	LoadEvents(ctx context.Context, workerID uint, fromDate, toDate string) ([]models.TimeEvent, error)
	AppendEvent(ctx context.Context, ev *models.TimeEvent) error
	LoadJobSites(ctx context.Context) ([]models.JobSite, error)
	LoadApproval(ctx context.Context, workerID uint, date string) (*models.ApprovalRecord, error)
	SaveApproval(ctx context.Context, rec *models.ApprovalRecord) error
	ListApprovals(ctx context.Context, statuses ...models.Status) ([]models.ApprovalRecord, error)
	SetGroupStatus(ctx context.Context, workerID uint, date string, status models.Status, actorID *uint, at time.Time) error
}

// Machine applies approval transitions through a Repository.
type Machine struct {
	repo Repository
	now  func() time.Time
}

func NewMachine(repo Repository) *Machine {
	return &Machine{repo: repo, now: time.Now}
}

// WithClock overrides the machine's clock, for tests.
func (m *Machine) WithClock(now func() time.Time) *Machine {
	m.now = now
	return m
}

// Submit moves a worker-day into Submitted. The group must have at least
// one event and currently be Draft (no record yet counts as Draft) or
// Rejected. The ApprovalRecord is created implicitly on first submission.
func (m *Machine) Submit(ctx context.Context, workerID uint, date string) (*models.ApprovalRecord, error) {
	events, err := m.repo.LoadEvents(ctx, workerID, date, date)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrNoEvents
	}

	rec, err := m.repo.LoadApproval(ctx, workerID, date)
	if err != nil {
		return nil, err
	}
	now := m.now()
	if rec == nil {
		rec = &models.ApprovalRecord{
			UserID: workerID,
			Date:   date,
			Status: models.StatusSubmitted,
		}
	} else {
		if rec.Status != models.StatusDraft && rec.Status != models.StatusRejected {
			return nil, &InvalidTransitionError{From: rec.Status, To: models.StatusSubmitted}
		}
		rec.Status = models.StatusSubmitted
		rec.ApproverID = nil
		rec.DecidedAt = nil
	}
	rec.SubmittedAt = &now

	if err := m.repo.SaveApproval(ctx, rec); err != nil {
		return nil, err
	}
	if err := m.repo.SetGroupStatus(ctx, workerID, date, models.StatusSubmitted, nil, now); err != nil {
		return nil, err
	}
	return rec, nil
}

// Approve moves a Submitted group to Approved and propagates the status,
// approver and decision time onto every event in the group so event-level
// and group-level status never diverge.
func (m *Machine) Approve(ctx context.Context, approverID, workerID uint, date string) (*models.ApprovalRecord, error) {
	return m.decide(ctx, approverID, workerID, date, models.StatusApproved)
}

// Reject moves a Submitted group to Rejected. Events are kept; the worker
// fixes the day and resubmits.
func (m *Machine) Reject(ctx context.Context, approverID, workerID uint, date string) (*models.ApprovalRecord, error) {
	return m.decide(ctx, approverID, workerID, date, models.StatusRejected)
}

func (m *Machine) decide(ctx context.Context, approverID, workerID uint, date string, to models.Status) (*models.ApprovalRecord, error) {
	rec, err := m.repo.LoadApproval(ctx, workerID, date)
	if err != nil {
		return nil, err
	}
	from := models.StatusDraft
	if rec != nil {
		from = rec.Status
	}
	if from != models.StatusSubmitted {
		return nil, &InvalidTransitionError{From: from, To: to}
	}

	now := m.now()
	rec.Status = to
	rec.ApproverID = &approverID
	rec.DecidedAt = &now

	if err := m.repo.SaveApproval(ctx, rec); err != nil {
		return nil, err
	}
	if err := m.repo.SetGroupStatus(ctx, workerID, date, to, &approverID, now); err != nil {
		return nil, err
	}
	return rec, nil
}

// Archive moves every Approved or Rejected group dated before the retention
// cutoff to Archived and returns how many moved. Archived groups drop off
// active dashboards but stay available for export; nothing is deleted.
func (m *Machine) Archive(ctx context.Context, retention time.Duration) (int, error) {
	cutoff := m.now().Add(-retention).Format(models.DateLayout)

	records, err := m.repo.ListApprovals(ctx, models.StatusApproved, models.StatusRejected)
	if err != nil {
		return 0, err
	}

	archived := 0
	for i := range records {
		rec := records[i]
		if rec.Date >= cutoff {
			continue
		}
		rec.Status = models.StatusArchived
		if err := m.repo.SaveApproval(ctx, &rec); err != nil {
			if errors.Is(err, ErrConcurrentModification) {
				continue
			}
			return archived, err
		}
		if err := m.repo.SetGroupStatus(ctx, rec.UserID, rec.Date, models.StatusArchived, nil, m.now()); err != nil {
			return archived, err
		}
		archived++
	}
	return archived, nil
}
