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

type MagicLinkRepository struct {
	col *mongo.Collection
}

func NewMagicLinkRepository(d *DB) *MagicLinkRepository {
	return &MagicLinkRepository{col: d.collection(magicLinksCollection)}
}

func (r *MagicLinkRepository) Create(ctx context.Context, token, sessionID, email, mode, name string, expiresAt time.Time) (*models.MagicLink, error) {
	id, err := GenerateID("ml")
	if err != nil {
		return nil, fmt.Errorf("generating magic link ID: %w", err)
	}

	link := &models.MagicLink{
		ID:        id,
		Token:     token,
		SessionID: sessionID,
		Email:     email,
		Mode:      mode,
		Name:      name,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt.UTC(),
		Consumed:  false,
	}

	if _, err := r.col.InsertOne(ctx, link); err != nil {
		return nil, fmt.Errorf("creating magic link: %w", err)
	}

	return link, nil
}

// Consume atomically marks the link matching token as consumed, provided it
// exists, is unconsumed, and is not past its expiry. The single conditional
// update closes the window where two concurrent verifications could both
// pass a read-then-write check. Any miss is reported as ErrNotFound; callers
// must not distinguish unknown, expired, and already-consumed tokens.
func (r *MagicLinkRepository) Consume(ctx context.Context, token string) (*models.MagicLink, error) {
	filter := bson.M{
		"token":     token,
		"consumed":  false,
		"expiresAt": bson.M{"$gt": time.Now().UTC()},
	}
	update := bson.M{"$set": bson.M{"consumed": true}}

	var link models.MagicLink
	err := r.col.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&link)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("consuming magic link: %w", err)
	}

	return &link, nil
}

// SetIssuedAuthToken records the session token issued at verification so
// polls by session id can retrieve it.
func (r *MagicLinkRepository) SetIssuedAuthToken(ctx context.Context, id, authToken string) error {
	result, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"issuedAuthToken": authToken}},
	)
	if err != nil {
		return fmt.Errorf("storing issued auth token: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MagicLinkRepository) FindBySessionID(ctx context.Context, sessionID string) (*models.MagicLink, error) {
	var link models.MagicLink
	err := r.col.FindOne(ctx, bson.M{"sessionId": sessionID}).Decode(&link)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying magic link: %w", err)
	}
	return &link, nil
}
