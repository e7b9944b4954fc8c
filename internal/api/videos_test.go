package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"forgefit/internal/models"
)

func TestGetVideoByName(t *testing.T) {
	videos := &fakeVideoStore{}
	handler := NewVideoHandler(videos)

	if _, err := videos.Upsert(context.Background(), &models.ExerciseVideo{
		ExerciseName: "Barbell Squat",
		VideoURL:     "https://videos.example.com/barbell-squat.mp4",
	}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	tests := []struct {
		name  string
		query string
	}{
		{"exact match", "Barbell Squat"},
		{"case-insensitive fallback", "barbell squat"},
		{"uppercase fallback", "BARBELL SQUAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/exercise-videos?name="+url.QueryEscape(tt.query), nil)
			rr := httptest.NewRecorder()
			handler.Get(rr, req)

			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d, body=%q", rr.Code, http.StatusOK, rr.Body.String())
			}
			var got models.ExerciseVideo
			if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
				t.Fatalf("json.Unmarshal() error = %v", err)
			}
			if got.ExerciseName != "Barbell Squat" {
				t.Fatalf("exerciseName = %q, want %q", got.ExerciseName, "Barbell Squat")
			}
		})
	}
}

func TestGetVideoUnknownExercise(t *testing.T) {
	handler := NewVideoHandler(&fakeVideoStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/exercise-videos?name=Unknown", nil)
	rr := httptest.NewRecorder()
	handler.Get(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestListVideosEmpty(t *testing.T) {
	handler := NewVideoHandler(&fakeVideoStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/exercise-videos", nil)
	rr := httptest.NewRecorder()
	handler.Get(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var got VideoListResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if got.Videos == nil || len(got.Videos) != 0 {
		t.Fatalf("videos = %v, want empty slice", got.Videos)
	}
}

func TestUpsertVideoCreatesThenUpdates(t *testing.T) {
	videos := &fakeVideoStore{}
	handler := NewVideoHandler(videos)

	rr := postJSON(t, handler.Upsert, "/api/exercise-videos",
		`{"exerciseName":"Deadlift","videoUrl":"https://videos.example.com/deadlift-v1.mp4"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("create status = %d, want %d, body=%q", rr.Code, http.StatusOK, rr.Body.String())
	}
	var created models.ExerciseVideo
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if created.ExerciseName != "Deadlift" {
		t.Fatalf("exerciseName = %q, want %q", created.ExerciseName, "Deadlift")
	}

	rr = postJSON(t, handler.Upsert, "/api/exercise-videos",
		`{"exerciseName":"Deadlift","videoUrl":"https://videos.example.com/deadlift-v2.mp4","isPlaceholder":true}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("update status = %d, want %d, body=%q", rr.Code, http.StatusOK, rr.Body.String())
	}
	var updated models.ExerciseVideo
	if err := json.Unmarshal(rr.Body.Bytes(), &updated); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if updated.VideoURL != "https://videos.example.com/deadlift-v2.mp4" {
		t.Fatalf("videoUrl = %q, want updated url", updated.VideoURL)
	}
	if !updated.IsPlaceholder {
		t.Fatal("isPlaceholder = false, want true after update")
	}

	if len(videos.videos) != 1 {
		t.Fatalf("stored videos = %d, want 1", len(videos.videos))
	}
}

func TestUpsertVideoValidation(t *testing.T) {
	handler := NewVideoHandler(&fakeVideoStore{})

	tests := []struct {
		name string
		body string
	}{
		{"missing exerciseName", `{"videoUrl":"https://videos.example.com/x.mp4"}`},
		{"missing videoUrl", `{"exerciseName":"Squat"}`},
		{"invalid videoUrl", `{"exerciseName":"Squat","videoUrl":"not-a-url"}`},
		{"invalid thumbnailUrl", `{"exerciseName":"Squat","videoUrl":"https://videos.example.com/x.mp4","thumbnailUrl":"nope"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postJSON(t, handler.Upsert, "/api/exercise-videos", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
			}
		})
	}
}
