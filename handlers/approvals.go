package handlers

import (
	"errors"
	"net/http"
	"time"

	"timecard/approval"
	"timecard/config"
	"timecard/database"
	"timecard/ledger"
	"timecard/middleware"
	"timecard/models"
)

type ApprovalHandler struct {
	config  *config.Config
	repo    approval.Repository
	machine *approval.Machine
}

func NewApprovalHandler(cfg *config.Config, repo approval.Repository, machine *approval.Machine) *ApprovalHandler {
	return &ApprovalHandler{config: cfg, repo: repo, machine: machine}
}

func respondApprovalError(w http.ResponseWriter, err error) {
	var invalid *approval.InvalidTransitionError
	switch {
	case errors.As(err, &invalid):
		respondJSON(w, http.StatusConflict, map[string]string{
			"error": "invalid transition",
			"from":  string(invalid.From),
			"to":    string(invalid.To),
		})
	case errors.Is(err, approval.ErrConcurrentModification):
		respondError(w, http.StatusConflict, "timecard was modified concurrently, retry")
	case errors.Is(err, approval.ErrNoEvents):
		respondError(w, http.StatusBadRequest, "no events recorded for that day")
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// Pending lists submitted timecard groups awaiting a decision, each with its
// recomputed day summary. Supervisors see only workers in their assigned
// crews; admins see everything.
func (h *ApprovalHandler) Pending(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	records, err := h.repo.ListApprovals(r.Context(), models.StatusSubmitted)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load approvals")
		return
	}

	if user.IsSupervisor() {
		records, err = filterByCrews(user.ID, records)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to resolve crew assignments")
			return
		}
	}

	type pendingGroup struct {
		Record  models.ApprovalRecord `json:"record"`
		Summary ledger.DaySummary     `json:"summary"`
	}
	out := make([]pendingGroup, 0, len(records))
	for _, rec := range records {
		events, err := h.repo.LoadEvents(r.Context(), rec.UserID, rec.Date, rec.Date)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to load events")
			return
		}
		out = append(out, pendingGroup{
			Record:  rec,
			Summary: ledger.SummarizeDay(rec.UserID, rec.Date, events),
		})
	}

	respondJSON(w, http.StatusOK, out)
}

func filterByCrews(supervisorID uint, records []models.ApprovalRecord) ([]models.ApprovalRecord, error) {
	var assignments []models.CrewSupervisor
	if err := database.GetDB().Where("user_id = ?", supervisorID).Find(&assignments).Error; err != nil {
		return nil, err
	}
	crewIDs := make([]uint, 0, len(assignments))
	for _, a := range assignments {
		crewIDs = append(crewIDs, a.CrewID)
	}
	if len(crewIDs) == 0 {
		return nil, nil
	}

	var workers []models.User
	if err := database.GetDB().Where("crew_id IN ?", crewIDs).Find(&workers).Error; err != nil {
		return nil, err
	}
	allowed := make(map[uint]bool, len(workers))
	for _, wk := range workers {
		allowed[wk.ID] = true
	}

	filtered := records[:0]
	for _, rec := range records {
		if allowed[rec.UserID] {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

type decisionRequest struct {
	WorkerID uint   `json:"worker_id"`
	Date     string `json:"date"`
}

func (h *ApprovalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

func (h *ApprovalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

func (h *ApprovalHandler) decide(w http.ResponseWriter, r *http.Request, approve bool) {
	user := middleware.GetUserFromContext(r.Context())

	var req decisionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.WorkerID == 0 || req.Date == "" {
		respondError(w, http.StatusBadRequest, "worker_id and date required")
		return
	}
	if _, err := time.Parse(models.DateLayout, req.Date); err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}

	var rec *models.ApprovalRecord
	var err error
	if approve {
		rec, err = h.machine.Approve(r.Context(), user.ID, req.WorkerID, req.Date)
	} else {
		rec, err = h.machine.Reject(r.Context(), user.ID, req.WorkerID, req.Date)
	}
	if err != nil {
		respondApprovalError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// Archive sweeps decided groups older than the retention window into the
// archive. Archived groups stay exportable; nothing is deleted.
func (h *ApprovalHandler) Archive(w http.ResponseWriter, r *http.Request) {
	retention := time.Duration(h.config.RetentionDays) * 24 * time.Hour
	archived, err := h.machine.Archive(r.Context(), retention)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"archived": archived})
}
