package api

import (
	"context"
	"time"

	"forgefit/internal/db"
	"forgefit/internal/models"
)

// Store interfaces consumed by the handlers. The concrete implementations
// live in internal/db; tests substitute in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, name, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type MagicLinkStore interface {
	Create(ctx context.Context, token, sessionID, email, mode, name string, expiresAt time.Time) (*models.MagicLink, error)
	Consume(ctx context.Context, token string) (*models.MagicLink, error)
	SetIssuedAuthToken(ctx context.Context, id, authToken string) error
	FindBySessionID(ctx context.Context, sessionID string) (*models.MagicLink, error)
}

type ProgramStore interface {
	Create(ctx context.Context, program *models.Program) (*models.Program, error)
	FindAll(ctx context.Context) ([]*models.Program, error)
	FindBySlug(ctx context.Context, slug string) (*models.Program, error)
	UpdateBySlug(ctx context.Context, slug string, upd db.ProgramUpdate) (*models.Program, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type ProgressStore interface {
	ActivePrograms(ctx context.Context, userID string) ([]models.Enrollment, error)
	Enroll(ctx context.Context, userID string, enrollment models.Enrollment) (bool, error)
	Abandon(ctx context.Context, userID, programID string) error
}

type VideoStore interface {
	FindAll(ctx context.Context) ([]*models.ExerciseVideo, error)
	FindByName(ctx context.Context, name string) (*models.ExerciseVideo, error)
	Upsert(ctx context.Context, video *models.ExerciseVideo) (*models.ExerciseVideo, error)
}

// LinkMailer dispatches magic-link emails.
type LinkMailer interface {
	SendMagicLink(to, link string, ttl time.Duration) error
}

var (
	_ UserStore      = (*db.UserRepository)(nil)
	_ MagicLinkStore = (*db.MagicLinkRepository)(nil)
	_ ProgramStore   = (*db.ProgramRepository)(nil)
	_ ProgressStore  = (*db.ProgressRepository)(nil)
	_ VideoStore     = (*db.VideoRepository)(nil)
)
