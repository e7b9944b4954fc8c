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

type ProgressRepository struct {
	col *mongo.Collection
}

func NewProgressRepository(d *DB) *ProgressRepository {
	return &ProgressRepository{col: d.collection(progressCollection)}
}

func (r *ProgressRepository) FindByUserID(ctx context.Context, userID string) (*models.UserProgress, error) {
	var progress models.UserProgress
	err := r.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&progress)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user progress: %w", err)
	}
	return &progress, nil
}

// ActivePrograms returns the user's enrollments, empty if the user has no
// progress document yet.
func (r *ProgressRepository) ActivePrograms(ctx context.Context, userID string) ([]models.Enrollment, error) {
	progress, err := r.FindByUserID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return []models.Enrollment{}, nil
	}
	if err != nil {
		return nil, err
	}
	if progress.ActivePrograms == nil {
		return []models.Enrollment{}, nil
	}
	return progress.ActivePrograms, nil
}

// Enroll appends the enrollment unless one for the same program already
// exists. The guarded $push keeps the append atomic, so two concurrent
// enrollments in the same program cannot both land. Returns false when the
// user was already enrolled; the existing entry is left unchanged.
func (r *ProgressRepository) Enroll(ctx context.Context, userID string, enrollment models.Enrollment) (bool, error) {
	now := time.Now().UTC()

	id, err := GenerateID("upr")
	if err != nil {
		return false, fmt.Errorf("generating progress ID: %w", err)
	}

	_, err = r.col.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$setOnInsert": bson.M{
			"_id":            id,
			"userId":         userID,
			"activePrograms": []models.Enrollment{},
			"updatedAt":      now,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, fmt.Errorf("initializing user progress: %w", err)
	}

	result, err := r.col.UpdateOne(ctx,
		bson.M{
			"userId":                   userID,
			"activePrograms.programId": bson.M{"$ne": enrollment.ProgramID},
		},
		bson.M{
			"$push": bson.M{"activePrograms": enrollment},
			"$set":  bson.M{"updatedAt": now},
		},
	)
	if err != nil {
		return false, fmt.Errorf("enrolling in program: %w", err)
	}

	return result.ModifiedCount > 0, nil
}

// Abandon removes the enrollment for programID. ErrNotFound when the user
// is not enrolled; the rest of the list is untouched.
func (r *ProgressRepository) Abandon(ctx context.Context, userID, programID string) error {
	result, err := r.col.UpdateOne(ctx,
		bson.M{
			"userId":                   userID,
			"activePrograms.programId": programID,
		},
		bson.M{
			"$pull": bson.M{"activePrograms": bson.M{"programId": programID}},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("abandoning program: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
