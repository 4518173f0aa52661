package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"timecard/config"
	"timecard/database"
	"timecard/ledger"
	"timecard/middleware"
	"timecard/models"
	"timecard/report"
)

type ReportHandler struct {
	config *config.Config
}

func NewReportHandler(cfg *config.Config) *ReportHandler {
	return &ReportHandler{config: cfg}
}

// buildRows loads the requested range, recomputes day summaries and joins
// approval statuses. Rows come back in the projection's deterministic order.
func (h *ReportHandler) buildRows(r *http.Request) ([]report.Row, string, string, error) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if to == "" {
		to = models.DateKey(time.Now(), time.Local)
	}
	if from == "" {
		t, err := time.Parse(models.DateLayout, to)
		if err != nil {
			return nil, "", "", fmt.Errorf("invalid to date")
		}
		from = t.AddDate(0, -1, 0).Format(models.DateLayout)
	}
	if _, err := time.Parse(models.DateLayout, from); err != nil {
		return nil, "", "", fmt.Errorf("invalid from date")
	}

	db := database.GetDB()
	query := db.Where("date >= ? AND date <= ?", from, to)
	if workerIDStr := r.URL.Query().Get("worker_id"); workerIDStr != "" {
		workerID, err := strconv.ParseUint(workerIDStr, 10, 32)
		if err != nil {
			return nil, "", "", fmt.Errorf("invalid worker_id")
		}
		query = query.Where("user_id = ?", uint(workerID))
	}

	var events []models.TimeEvent
	if err := query.Order("timestamp asc").Find(&events).Error; err != nil {
		return nil, "", "", err
	}

	summaries, _ := ledger.SummarizeAll(events)

	var approvals []models.ApprovalRecord
	if err := db.Where("date >= ? AND date <= ?", from, to).Find(&approvals).Error; err != nil {
		return nil, "", "", err
	}
	statuses := make(map[ledger.DayKey]models.Status, len(approvals))
	for _, rec := range approvals {
		statuses[ledger.DayKey{WorkerID: rec.UserID, Date: rec.Date}] = rec.Status
	}

	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return nil, "", "", err
	}
	names := make(map[uint]string, len(users))
	for i := range users {
		names[users[i].ID] = users[i].DisplayName()
	}

	rows := report.Project(summaries, report.Options{Statuses: statuses, WorkerNames: names})
	return rows, from, to, nil
}

func (h *ReportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if !user.CanExport() {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	rows, from, to, err := h.buildRows(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	filename := fmt.Sprintf("timecards_%s_%s.csv", from, to)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write(report.Header())
	for _, row := range rows {
		writer.Write(row.Record())
	}
}

func (h *ReportHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if !user.CanExport() {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	rows, from, to, err := h.buildRows(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"from": from,
		"to":   to,
		"rows": rows,
	})
}
