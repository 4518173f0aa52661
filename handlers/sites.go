package handlers

import (
	"net/http"

	"timecard/config"
	"timecard/database"
	"timecard/models"
)

type SiteHandler struct {
	config *config.Config
}

func NewSiteHandler(cfg *config.Config) *SiteHandler {
	return &SiteHandler{config: cfg}
}

func (h *SiteHandler) ListSites(w http.ResponseWriter, r *http.Request) {
	var sites []models.JobSite
	if err := database.GetDB().Preload("Tasks").Order("id asc").Find(&sites).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load job sites")
		return
	}
	respondJSON(w, http.StatusOK, sites)
}

func (h *SiteHandler) CreateSite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                  string   `json:"name"`
		Address               string   `json:"address"`
		Latitude              float64  `json:"latitude"`
		Longitude             float64  `json:"longitude"`
		ProximityRadiusMeters float64  `json:"proximity_radius_meters"`
		Tasks                 []string `json:"tasks"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name required")
		return
	}
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		respondError(w, http.StatusBadRequest, "invalid coordinate")
		return
	}
	if req.ProximityRadiusMeters <= 0 {
		req.ProximityRadiusMeters = h.config.DefaultSiteRadiusM
	}

	site := models.JobSite{
		Name:                  req.Name,
		Address:               req.Address,
		Latitude:              req.Latitude,
		Longitude:             req.Longitude,
		ProximityRadiusMeters: req.ProximityRadiusMeters,
	}
	for _, name := range req.Tasks {
		site.Tasks = append(site.Tasks, models.Task{Name: name})
	}

	if err := database.GetDB().Create(&site).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create job site")
		return
	}
	respondJSON(w, http.StatusCreated, site)
}

func (h *SiteHandler) ListCrews(w http.ResponseWriter, r *http.Request) {
	var crews []models.Crew
	if err := database.GetDB().Preload("Users").Order("id asc").Find(&crews).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load crews")
		return
	}
	respondJSON(w, http.StatusOK, crews)
}

func (h *SiteHandler) CreateCrew(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		respondError(w, http.StatusBadRequest, "name required")
		return
	}

	crew := models.Crew{Name: req.Name}
	if err := database.GetDB().Create(&crew).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create crew")
		return
	}
	respondJSON(w, http.StatusCreated, crew)
}

// AssignSupervisor gives a supervisor visibility into a crew's submitted
// timecards.
func (h *SiteHandler) AssignSupervisor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID uint `json:"user_id"`
		CrewID uint `json:"crew_id"`
	}
	if err := decodeJSON(r, &req); err != nil || req.UserID == 0 || req.CrewID == 0 {
		respondError(w, http.StatusBadRequest, "user_id and crew_id required")
		return
	}

	var supervisor models.User
	if err := database.GetDB().First(&supervisor, req.UserID).Error; err != nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	if !supervisor.IsSupervisor() {
		respondError(w, http.StatusBadRequest, "user is not a supervisor")
		return
	}

	var existingCount int64
	database.GetDB().Model(&models.CrewSupervisor{}).
		Where("user_id = ? AND crew_id = ?", req.UserID, req.CrewID).
		Count(&existingCount)
	if existingCount > 0 {
		respondError(w, http.StatusConflict, "assignment already exists")
		return
	}

	assignment := models.CrewSupervisor{UserID: req.UserID, CrewID: req.CrewID}
	if err := database.GetDB().Create(&assignment).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create assignment")
		return
	}
	respondJSON(w, http.StatusCreated, assignment)
}
