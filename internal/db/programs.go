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

type ProgramRepository struct {
	col *mongo.Collection
}

func NewProgramRepository(d *DB) *ProgramRepository {
	return &ProgramRepository{col: d.collection(programsCollection)}
}

func (r *ProgramRepository) Create(ctx context.Context, program *models.Program) (*models.Program, error) {
	id, err := GenerateID("prg")
	if err != nil {
		return nil, fmt.Errorf("generating program ID: %w", err)
	}
	now := time.Now().UTC()

	program.ID = id
	program.CreatedAt = now
	program.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, program); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("creating program: %w", err)
	}

	return program, nil
}

func (r *ProgramRepository) FindAll(ctx context.Context) ([]*models.Program, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("querying programs: %w", err)
	}
	defer cursor.Close(ctx)

	var programs []*models.Program
	if err := cursor.All(ctx, &programs); err != nil {
		return nil, fmt.Errorf("decoding programs: %w", err)
	}

	return programs, nil
}

func (r *ProgramRepository) FindBySlug(ctx context.Context, slug string) (*models.Program, error) {
	var program models.Program
	err := r.col.FindOne(ctx, bson.M{"programId": slug}).Decode(&program)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying program: %w", err)
	}
	return &program, nil
}

// ProgramUpdate carries the optional fields of a partial program update.
// Nil fields are left untouched.
type ProgramUpdate struct {
	Name        *string
	Description *string
	Duration    *string
	DaysPerWeek *int
	Goal        *string
	Level       *string
	Equipment   *[]string
	Phases      *[]models.Phase
}

func (r *ProgramRepository) UpdateBySlug(ctx context.Context, slug string, upd ProgramUpdate) (*models.Program, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Duration != nil {
		set["duration"] = *upd.Duration
	}
	if upd.DaysPerWeek != nil {
		set["daysPerWeek"] = *upd.DaysPerWeek
	}
	if upd.Goal != nil {
		set["goal"] = *upd.Goal
	}
	if upd.Level != nil {
		set["level"] = *upd.Level
	}
	if upd.Equipment != nil {
		set["equipment"] = *upd.Equipment
	}
	if upd.Phases != nil {
		set["phases"] = *upd.Phases
	}

	var program models.Program
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"programId": slug},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&program)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating program: %w", err)
	}

	return &program, nil
}

func (r *ProgramRepository) DeleteBySlug(ctx context.Context, slug string) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"programId": slug})
	if err != nil {
		return fmt.Errorf("deleting program: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
