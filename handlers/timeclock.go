package handlers

import (
	"errors"
	"net/http"
	"time"

	"timecard/approval"
	"timecard/config"
	"timecard/geo"
	"timecard/ledger"
	"timecard/middleware"
	"timecard/models"
)

type TimeclockHandler struct {
	config  *config.Config
	repo    approval.Repository
	machine *approval.Machine
}

func NewTimeclockHandler(cfg *config.Config, repo approval.Repository, machine *approval.Machine) *TimeclockHandler {
	return &TimeclockHandler{config: cfg, repo: repo, machine: machine}
}

type clockRequest struct {
	JobSiteID      *uint    `json:"job_site_id"`
	TaskID         *uint    `json:"task_id"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	AccuracyMeters *float64 `json:"accuracy_meters"`
	PhotoRef       string   `json:"photo_ref"`
}

func (h *TimeclockHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	h.recordEvent(w, r, models.EventClockIn)
}

func (h *TimeclockHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	h.recordEvent(w, r, models.EventClockOut)
}

func (h *TimeclockHandler) LunchOut(w http.ResponseWriter, r *http.Request) {
	h.recordEvent(w, r, models.EventLunchOut)
}

func (h *TimeclockHandler) LunchIn(w http.ResponseWriter, r *http.Request) {
	h.recordEvent(w, r, models.EventLunchIn)
}

// recordEvent appends one clock event. Clock-in is geofence gated: the
// worker must be inside the chosen site's radius, or, when no site is named,
// inside some site's radius (first match in catalog order wins). The other
// kinds record location without gating, matching field reality where a
// worker may clock out from the truck.
func (h *TimeclockHandler) recordEvent(w http.ResponseWriter, r *http.Request, kind models.EventKind) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req clockRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	jobSiteID := req.JobSiteID
	if kind == models.EventClockIn {
		if req.Latitude == nil || req.Longitude == nil {
			respondError(w, http.StatusBadRequest, "location required to clock in")
			return
		}
		point := geo.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}

		sites, err := h.repo.LoadJobSites(r.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to load job sites")
			return
		}

		if jobSiteID != nil {
			site, ok := findSite(sites, *jobSiteID)
			if !ok {
				respondError(w, http.StatusNotFound, "job site not found")
				return
			}
			if err := geo.AssertWithinSite(point, site.Fence()); err != nil {
				var oor *geo.OutOfRangeError
				if errors.As(err, &oor) {
					respondJSON(w, http.StatusForbidden, map[string]interface{}{
						"error":           "out of range",
						"site":            oor.SiteName,
						"distance_meters": oor.DistanceMeters,
						"radius_meters":   oor.RadiusMeters,
					})
					return
				}
				respondError(w, http.StatusInternalServerError, "geofence check failed")
				return
			}
		} else {
			fence, ok := geo.FindNearestSite(point, models.Fences(sites))
			if !ok {
				respondError(w, http.StatusForbidden, "not within range of any job site")
				return
			}
			id := fence.ID
			jobSiteID = &id
		}
	}

	now := time.Now().UTC()
	ev := models.TimeEvent{
		ID:             models.NewEventID(),
		UserID:         user.ID,
		Kind:           kind,
		Timestamp:      now,
		Date:           models.DateKey(now, time.Local),
		JobSiteID:      jobSiteID,
		TaskID:         req.TaskID,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		AccuracyMeters: req.AccuracyMeters,
		PhotoRef:       req.PhotoRef,
		Status:         models.StatusDraft,
	}

	if err := h.repo.AppendEvent(r.Context(), &ev); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to record event")
		return
	}

	respondJSON(w, http.StatusCreated, ev)
}

func findSite(sites []models.JobSite, id uint) (models.JobSite, bool) {
	for _, s := range sites {
		if s.ID == id {
			return s, true
		}
	}
	return models.JobSite{}, false
}

// Status reports the live picture for the calling worker: clocked-in flag,
// projected hours for the in-progress day, week-to-date hours and the
// labor-rule tier those add up to.
func (h *TimeclockHandler) Status(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	now := time.Now()
	today := models.DateKey(now, time.Local)
	weekStart, err := ledger.WeekStartDate(today, h.config.WeekStart)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute week start")
		return
	}

	events, err := h.repo.LoadEvents(r.Context(), user.ID, weekStart, today)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load events")
		return
	}

	var todayEvents []models.TimeEvent
	var weekBefore float64
	groups, _ := ledger.GroupByWorkerAndDate(events)
	for key, evs := range groups {
		if key.Date == today {
			todayEvents = evs
			continue
		}
		weekBefore += ledger.ReduceDay(evs).Hours
	}

	day := ledger.ReduceDay(todayEvents)
	projected := day.ProjectedHours(now)

	var lastClock *time.Time
	if t := day.LastClockIn(); !t.IsZero() {
		lastClock = &t
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"clocked_in":     day.ClockedIn(),
		"on_lunch":       day.OnLunch(),
		"last_clock_in":  lastClock,
		"today_hours":    projected,
		"week_hours":     weekBefore + projected,
		"classification": ledger.Classify(projected, weekBefore),
		"anomalies":      day.Anomalies,
	})
}

// Timecards returns the worker's events and day summaries for a date range,
// defaulting to the last two weeks. Malformed events are reported alongside
// the data instead of failing the request.
func (h *TimeclockHandler) Timecards(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	to := r.URL.Query().Get("to")
	from := r.URL.Query().Get("from")
	if to == "" {
		to = models.DateKey(time.Now(), time.Local)
	}
	if from == "" {
		t, err := time.Parse(models.DateLayout, to)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid to date")
			return
		}
		from = t.AddDate(0, 0, -13).Format(models.DateLayout)
	}

	events, err := h.repo.LoadEvents(r.Context(), user.ID, from, to)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load events")
		return
	}

	summaries, malformed := ledger.SummarizeAll(events)
	excluded := make([]string, 0, len(malformed))
	for _, m := range malformed {
		excluded = append(excluded, m.Error())
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"events":    events,
		"summaries": summaries,
		"excluded":  excluded,
	})
}

// SubmitDay sends one of the worker's days to their supervisor.
func (h *TimeclockHandler) SubmitDay(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		Date string `json:"date"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := time.Parse(models.DateLayout, req.Date); err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}

	rec, err := h.machine.Submit(r.Context(), user.ID, req.Date)
	if err != nil {
		respondApprovalError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rec)
}
