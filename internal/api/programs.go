package api

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"

	"forgefit/internal/db"
	"forgefit/internal/models"
)

type ProgramHandler struct {
	programs ProgramStore
	progress ProgressStore
}

func NewProgramHandler(programs ProgramStore, progress ProgressStore) *ProgramHandler {
	return &ProgramHandler{programs: programs, progress: progress}
}

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type CreateProgramRequest struct {
	ProgramID   string         `json:"programId" validate:"required,max=64"`
	Name        string         `json:"name" validate:"required,max=120"`
	Description string         `json:"description,omitempty"`
	Duration    string         `json:"duration,omitempty"`
	DaysPerWeek int            `json:"daysPerWeek,omitempty" validate:"omitempty,min=1,max=7"`
	Goal        string         `json:"goal,omitempty"`
	Level       string         `json:"level,omitempty"`
	Equipment   []string       `json:"equipment,omitempty"`
	Phases      []models.Phase `json:"phases,omitempty"`
}

type ProgramListResponse struct {
	Programs []*models.Program `json:"programs"`
}

// GET /api/programs
func (h *ProgramHandler) List(w http.ResponseWriter, r *http.Request) {
	programs, err := h.programs.FindAll(r.Context())
	if err != nil {
		slog.Error("error listing programs", "error", err)
		internalError(w)
		return
	}
	if programs == nil {
		programs = []*models.Program{}
	}

	writeJSON(w, http.StatusOK, ProgramListResponse{Programs: programs})
}

// POST /api/programs
func (h *ProgramHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProgramRequest
	if err := decodeAndValidate(r.Body, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	if !slugRegex.MatchString(req.ProgramID) {
		badRequest(w, "programId must be a lowercase slug")
		return
	}

	program := &models.Program{
		ProgramID:   req.ProgramID,
		Name:        req.Name,
		Description: req.Description,
		Duration:    req.Duration,
		DaysPerWeek: req.DaysPerWeek,
		Goal:        req.Goal,
		Level:       req.Level,
		Equipment:   req.Equipment,
		Phases:      req.Phases,
	}
	if program.Phases == nil {
		program.Phases = []models.Phase{}
	}

	created, err := h.programs.Create(r.Context(), program)
	if errors.Is(err, db.ErrDuplicate) {
		conflict(w, "A program with this programId already exists")
		return
	}
	if err != nil {
		slog.Error("error creating program", "error", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// GET /api/programs/{programId}
func (h *ProgramHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "programId")

	program, err := h.programs.FindBySlug(r.Context(), slug)
	if errors.Is(err, db.ErrNotFound) {
		notFound(w, "Program not found")
		return
	}
	if err != nil {
		slog.Error("error finding program", "error", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, program)
}

type UpdateProgramRequest struct {
	Name        *string         `json:"name,omitempty" validate:"omitempty,max=120"`
	Description *string         `json:"description,omitempty"`
	Duration    *string         `json:"duration,omitempty"`
	DaysPerWeek *int            `json:"daysPerWeek,omitempty" validate:"omitempty,min=1,max=7"`
	Goal        *string         `json:"goal,omitempty"`
	Level       *string         `json:"level,omitempty"`
	Equipment   *[]string       `json:"equipment,omitempty"`
	Phases      *[]models.Phase `json:"phases,omitempty"`
}

// PUT /api/programs/{programId}
func (h *ProgramHandler) Update(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "programId")

	var req UpdateProgramRequest
	if err := decodeAndValidate(r.Body, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	program, err := h.programs.UpdateBySlug(r.Context(), slug, db.ProgramUpdate{
		Name:        req.Name,
		Description: req.Description,
		Duration:    req.Duration,
		DaysPerWeek: req.DaysPerWeek,
		Goal:        req.Goal,
		Level:       req.Level,
		Equipment:   req.Equipment,
		Phases:      req.Phases,
	})
	if errors.Is(err, db.ErrNotFound) {
		notFound(w, "Program not found")
		return
	}
	if err != nil {
		slog.Error("error updating program", "error", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, program)
}

// DELETE /api/programs/{programId}
func (h *ProgramHandler) Delete(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "programId")

	err := h.programs.DeleteBySlug(r.Context(), slug)
	if errors.Is(err, db.ErrNotFound) {
		notFound(w, "Program not found")
		return
	}
	if err != nil {
		slog.Error("error deleting program", "error", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type EnrollRequest struct {
	ProgramID string `json:"programId" validate:"required"`
}

type EnrollResponse struct {
	AlreadyEnrolled bool               `json:"alreadyEnrolled"`
	Enrollment      *models.Enrollment `json:"enrollment,omitempty"`
}

// POST /api/programs/enroll
func (h *ProgramHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r)
	if userID == "" {
		unauthorized(w, "User not found in context")
		return
	}

	var req EnrollRequest
	if err := decodeAndValidate(r.Body, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	program, err := h.programs.FindBySlug(r.Context(), req.ProgramID)
	if errors.Is(err, db.ErrNotFound) {
		notFound(w, "Program not found")
		return
	}
	if err != nil {
		slog.Error("error finding program", "error", err)
		internalError(w)
		return
	}

	enrollment := models.Enrollment{
		ProgramID:         program.ProgramID,
		ProgramName:       program.Name,
		StartDate:         time.Now().UTC(),
		CurrentPhase:      1,
		CurrentDay:        1,
		CompletedWorkouts: 0,
		TotalWorkouts:     program.TotalWorkouts(),
		Status:            models.EnrollmentInProgress,
	}

	enrolled, err := h.progress.Enroll(r.Context(), userID, enrollment)
	if err != nil {
		slog.Error("error enrolling in program", "error", err, "user_id", userID)
		internalError(w)
		return
	}
	if !enrolled {
		writeJSON(w, http.StatusOK, EnrollResponse{AlreadyEnrolled: true})
		return
	}

	writeJSON(w, http.StatusOK, EnrollResponse{
		AlreadyEnrolled: false,
		Enrollment:      &enrollment,
	})
}

type ActiveProgramsResponse struct {
	ActivePrograms []models.Enrollment `json:"activePrograms"`
}

// GET /api/programs/active
func (h *ProgramHandler) Active(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r)
	if userID == "" {
		unauthorized(w, "User not found in context")
		return
	}

	active, err := h.progress.ActivePrograms(r.Context(), userID)
	if err != nil {
		slog.Error("error listing active programs", "error", err, "user_id", userID)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, ActiveProgramsResponse{ActivePrograms: active})
}

type AbandonRequest struct {
	ProgramID string `json:"programId" validate:"required"`
}

// POST /api/programs/abandon
func (h *ProgramHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r)
	if userID == "" {
		unauthorized(w, "User not found in context")
		return
	}

	var req AbandonRequest
	if err := decodeAndValidate(r.Body, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	err := h.progress.Abandon(r.Context(), userID, req.ProgramID)
	if errors.Is(err, db.ErrNotFound) {
		notFound(w, "Not enrolled in this program")
		return
	}
	if err != nil {
		slog.Error("error abandoning program", "error", err, "user_id", userID)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
