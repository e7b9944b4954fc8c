package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"forgefit/internal/models"
)

type VideoRepository struct {
	col *mongo.Collection
}

func NewVideoRepository(d *DB) *VideoRepository {
	return &VideoRepository{col: d.collection(videosCollection)}
}

func (r *VideoRepository) FindAll(ctx context.Context) ([]*models.ExerciseVideo, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "exerciseName", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("querying exercise videos: %w", err)
	}
	defer cursor.Close(ctx)

	var videos []*models.ExerciseVideo
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, fmt.Errorf("decoding exercise videos: %w", err)
	}

	return videos, nil
}

// FindByName looks up a video by exact exercise name first, then retries
// case-insensitively.
func (r *VideoRepository) FindByName(ctx context.Context, name string) (*models.ExerciseVideo, error) {
	var video models.ExerciseVideo
	err := r.col.FindOne(ctx, bson.M{"exerciseName": name}).Decode(&video)
	if err == nil {
		return &video, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("querying exercise video: %w", err)
	}

	err = r.col.FindOne(ctx,
		bson.M{"exerciseName": name},
		options.FindOne().SetCollation(&options.Collation{Locale: "en", Strength: 2}),
	).Decode(&video)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying exercise video: %w", err)
	}

	return &video, nil
}

// Upsert creates or replaces the video for the exercise name.
func (r *VideoRepository) Upsert(ctx context.Context, video *models.ExerciseVideo) (*models.ExerciseVideo, error) {
	now := time.Now().UTC()

	id, err := GenerateID("vid")
	if err != nil {
		return nil, fmt.Errorf("generating video ID: %w", err)
	}

	var stored models.ExerciseVideo
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"exerciseName": video.ExerciseName},
		bson.M{
			"$set": bson.M{
				"videoUrl":      video.VideoURL,
				"thumbnailUrl":  video.ThumbnailURL,
				"isPlaceholder": video.IsPlaceholder,
				"updatedAt":     now,
			},
			"$setOnInsert": bson.M{
				"_id":          id,
				"exerciseName": video.ExerciseName,
				"createdAt":    now,
			},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&stored)
	if err != nil {
		return nil, fmt.Errorf("upserting exercise video: %w", err)
	}

	return &stored, nil
}
