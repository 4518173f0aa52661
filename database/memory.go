package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"timecard/approval"
	"timecard/models"
)

type approvalKey struct {
	workerID uint
	date     string
}

// MemoryRepository is an in-memory approval.Repository used by tests and
// kept behaviorally aligned with Repository, version checks included.
type MemoryRepository struct {
	mu        sync.Mutex
	nextID    uint
	events    []models.TimeEvent
	sites     []models.JobSite
	approvals map[approvalKey]models.ApprovalRecord
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{approvals: make(map[approvalKey]models.ApprovalRecord)}
}

func (r *MemoryRepository) LoadEvents(_ context.Context, workerID uint, fromDate, toDate string) ([]models.TimeEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TimeEvent
	for _, ev := range r.events {
		if ev.UserID == workerID && ev.Date >= fromDate && ev.Date <= toDate {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *MemoryRepository) AppendEvent(_ context.Context, ev *models.TimeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *ev)
	return nil
}

func (r *MemoryRepository) AddJobSite(site models.JobSite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sites = append(r.sites, site)
}

func (r *MemoryRepository) LoadJobSites(_ context.Context) ([]models.JobSite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.JobSite, len(r.sites))
	copy(out, r.sites)
	return out, nil
}

func (r *MemoryRepository) LoadApproval(_ context.Context, workerID uint, date string) (*models.ApprovalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.approvals[approvalKey{workerID, date}]
	if !ok {
		return nil, nil
	}
	copied := rec
	return &copied, nil
}

func (r *MemoryRepository) SaveApproval(_ context.Context, rec *models.ApprovalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := approvalKey{rec.UserID, rec.Date}

	if rec.ID == 0 {
		if _, exists := r.approvals[key]; exists {
			return approval.ErrConcurrentModification
		}
		r.nextID++
		rec.ID = r.nextID
		rec.Version = 1
		r.approvals[key] = *rec
		return nil
	}

	stored, ok := r.approvals[key]
	if !ok || stored.Version != rec.Version {
		return approval.ErrConcurrentModification
	}
	rec.Version++
	r.approvals[key] = *rec
	return nil
}

func (r *MemoryRepository) ListApprovals(_ context.Context, statuses ...models.Status) ([]models.ApprovalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ApprovalRecord
	for _, rec := range r.approvals {
		for _, s := range statuses {
			if rec.Status == s {
				out = append(out, rec)
				break
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

func (r *MemoryRepository) SetGroupStatus(_ context.Context, workerID uint, date string, status models.Status, actorID *uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.events {
		ev := &r.events[i]
		if ev.UserID != workerID || ev.Date != date {
			continue
		}
		ev.Status = status
		switch status {
		case models.StatusApproved:
			ev.ApprovedBy = actorID
			t := at
			ev.ApprovedAt = &t
		case models.StatusRejected:
			ev.RejectedBy = actorID
			t := at
			ev.RejectedAt = &t
		}
	}
	return nil
}
