package models

import "time"

// ExerciseVideo maps an exercise name to a demonstration video.
// ExerciseName is the primary lookup key; matching is exact first,
// case-insensitive as a fallback.
type ExerciseVideo struct {
	ID            string    `bson:"_id" json:"-"`
	ExerciseName  string    `bson:"exerciseName" json:"exerciseName"`
	VideoURL      string    `bson:"videoUrl" json:"videoUrl"`
	ThumbnailURL  string    `bson:"thumbnailUrl,omitempty" json:"thumbnailUrl,omitempty"`
	IsPlaceholder bool      `bson:"isPlaceholder" json:"isPlaceholder"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}
