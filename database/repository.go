package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"timecard/approval"
	"timecard/models"
)

// Repository implements approval.Repository on GORM. SaveApproval is an
// optimistic compare-and-write: updates match on the stored version and a
// miss means another transition won the race.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) LoadEvents(ctx context.Context, workerID uint, fromDate, toDate string) ([]models.TimeEvent, error) {
	var events []models.TimeEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", workerID, fromDate, toDate).
		Order("timestamp asc").
		Find(&events).Error
	return events, err
}

func (r *Repository) AppendEvent(ctx context.Context, ev *models.TimeEvent) error {
	return r.db.WithContext(ctx).Create(ev).Error
}

func (r *Repository) LoadJobSites(ctx context.Context) ([]models.JobSite, error) {
	var sites []models.JobSite
	err := r.db.WithContext(ctx).Preload("Tasks").Order("id asc").Find(&sites).Error
	return sites, err
}

func (r *Repository) LoadApproval(ctx context.Context, workerID uint, date string) (*models.ApprovalRecord, error) {
	var rec models.ApprovalRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", workerID, date).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Repository) SaveApproval(ctx context.Context, rec *models.ApprovalRecord) error {
	if rec.ID == 0 {
		rec.Version = 1
		err := r.db.WithContext(ctx).Create(rec).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return approval.ErrConcurrentModification
		}
		return err
	}

	res := r.db.WithContext(ctx).Model(&models.ApprovalRecord{}).
		Where("id = ? AND version = ?", rec.ID, rec.Version).
		Updates(map[string]interface{}{
			"status":       rec.Status,
			"submitted_at": rec.SubmittedAt,
			"approver_id":  rec.ApproverID,
			"decided_at":   rec.DecidedAt,
			"version":      rec.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return approval.ErrConcurrentModification
	}
	rec.Version++
	return nil
}

func (r *Repository) ListApprovals(ctx context.Context, statuses ...models.Status) ([]models.ApprovalRecord, error) {
	var records []models.ApprovalRecord
	err := r.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("date asc, user_id asc").
		Find(&records).Error
	return records, err
}

func (r *Repository) SetGroupStatus(ctx context.Context, workerID uint, date string, status models.Status, actorID *uint, at time.Time) error {
	updates := map[string]interface{}{"status": status}
	switch status {
	case models.StatusApproved:
		updates["approved_by"] = actorID
		updates["approved_at"] = at
	case models.StatusRejected:
		updates["rejected_by"] = actorID
		updates["rejected_at"] = at
	}
	return r.db.WithContext(ctx).Model(&models.TimeEvent{}).
		Where("user_id = ? AND date = ?", workerID, date).
		Updates(updates).Error
}
