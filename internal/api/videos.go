package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"forgefit/internal/db"
	"forgefit/internal/models"
)

type VideoHandler struct {
	videos VideoStore
}

func NewVideoHandler(videos VideoStore) *VideoHandler {
	return &VideoHandler{videos: videos}
}

type VideoListResponse struct {
	Videos []*models.ExerciseVideo `json:"videos"`
}

// GET /api/exercise-videos
//
// With a name query parameter, returns the matching video (exact name first,
// case-insensitive as a fallback). Without one, returns the full list.
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		videos, err := h.videos.FindAll(r.Context())
		if err != nil {
			slog.Error("error listing exercise videos", "error", err)
			internalError(w)
			return
		}
		if videos == nil {
			videos = []*models.ExerciseVideo{}
		}
		writeJSON(w, http.StatusOK, VideoListResponse{Videos: videos})
		return
	}

	video, err := h.videos.FindByName(r.Context(), name)
	if errors.Is(err, db.ErrNotFound) {
		notFound(w, "No video for this exercise")
		return
	}
	if err != nil {
		slog.Error("error finding exercise video", "error", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, video)
}

type UpsertVideoRequest struct {
	ExerciseName  string `json:"exerciseName" validate:"required,max=120"`
	VideoURL      string `json:"videoUrl" validate:"required,url"`
	ThumbnailURL  string `json:"thumbnailUrl,omitempty" validate:"omitempty,url"`
	IsPlaceholder bool   `json:"isPlaceholder,omitempty"`
}

// POST /api/exercise-videos
func (h *VideoHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req UpsertVideoRequest
	if err := decodeAndValidate(r.Body, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	video, err := h.videos.Upsert(r.Context(), &models.ExerciseVideo{
		ExerciseName:  strings.TrimSpace(req.ExerciseName),
		VideoURL:      req.VideoURL,
		ThumbnailURL:  req.ThumbnailURL,
		IsPlaceholder: req.IsPlaceholder,
	})
	if err != nil {
		slog.Error("error upserting exercise video", "error", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, video)
}
