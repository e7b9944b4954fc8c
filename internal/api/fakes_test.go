package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"forgefit/internal/db"
	"forgefit/internal/models"
)

// In-memory store fakes standing in for the mongo repositories.

type fakeUserStore struct {
	users  []*models.User
	nextID int
}

func (s *fakeUserStore) Create(_ context.Context, name, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return nil, db.ErrDuplicate
		}
	}
	s.nextID++
	now := time.Now().UTC()
	user := &models.User{
		ID:        fmt.Sprintf("usr_%d", s.nextID),
		Name:      name,
		Email:     email,
		Password:  models.PasswordPlaceholder,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.users = append(s.users, user)
	return user, nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, db.ErrNotFound
}

type fakeLinkStore struct {
	links  []*models.MagicLink
	nextID int
}

func (s *fakeLinkStore) Create(_ context.Context, token, sessionID, email, mode, name string, expiresAt time.Time) (*models.MagicLink, error) {
	s.nextID++
	link := &models.MagicLink{
		ID:        fmt.Sprintf("ml_%d", s.nextID),
		Token:     token,
		SessionID: sessionID,
		Email:     email,
		Mode:      mode,
		Name:      name,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt,
	}
	s.links = append(s.links, link)
	return link, nil
}

func (s *fakeLinkStore) Consume(_ context.Context, token string) (*models.MagicLink, error) {
	for _, l := range s.links {
		if l.Token == token && !l.Consumed && !l.Expired() {
			l.Consumed = true
			return l, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *fakeLinkStore) SetIssuedAuthToken(_ context.Context, id, authToken string) error {
	for _, l := range s.links {
		if l.ID == id {
			l.IssuedAuthToken = authToken
			return nil
		}
	}
	return db.ErrNotFound
}

func (s *fakeLinkStore) FindBySessionID(_ context.Context, sessionID string) (*models.MagicLink, error) {
	for _, l := range s.links {
		if l.SessionID == sessionID {
			return l, nil
		}
	}
	return nil, db.ErrNotFound
}

type fakeProgramStore struct {
	programs []*models.Program
	nextID   int
}

func (s *fakeProgramStore) Create(_ context.Context, program *models.Program) (*models.Program, error) {
	for _, p := range s.programs {
		if p.ProgramID == program.ProgramID {
			return nil, db.ErrDuplicate
		}
	}
	s.nextID++
	now := time.Now().UTC()
	program.ID = fmt.Sprintf("prg_%d", s.nextID)
	program.CreatedAt = now
	program.UpdatedAt = now
	s.programs = append(s.programs, program)
	return program, nil
}

func (s *fakeProgramStore) FindAll(_ context.Context) ([]*models.Program, error) {
	return s.programs, nil
}

func (s *fakeProgramStore) FindBySlug(_ context.Context, slug string) (*models.Program, error) {
	for _, p := range s.programs {
		if p.ProgramID == slug {
			return p, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *fakeProgramStore) UpdateBySlug(_ context.Context, slug string, upd db.ProgramUpdate) (*models.Program, error) {
	for _, p := range s.programs {
		if p.ProgramID != slug {
			continue
		}
		if upd.Name != nil {
			p.Name = *upd.Name
		}
		if upd.Description != nil {
			p.Description = *upd.Description
		}
		if upd.Duration != nil {
			p.Duration = *upd.Duration
		}
		if upd.DaysPerWeek != nil {
			p.DaysPerWeek = *upd.DaysPerWeek
		}
		if upd.Goal != nil {
			p.Goal = *upd.Goal
		}
		if upd.Level != nil {
			p.Level = *upd.Level
		}
		if upd.Equipment != nil {
			p.Equipment = *upd.Equipment
		}
		if upd.Phases != nil {
			p.Phases = *upd.Phases
		}
		p.UpdatedAt = time.Now().UTC()
		return p, nil
	}
	return nil, db.ErrNotFound
}

func (s *fakeProgramStore) DeleteBySlug(_ context.Context, slug string) error {
	for i, p := range s.programs {
		if p.ProgramID == slug {
			s.programs = append(s.programs[:i], s.programs[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

type fakeProgressStore struct {
	byUser map[string][]models.Enrollment
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{byUser: make(map[string][]models.Enrollment)}
}

func (s *fakeProgressStore) ActivePrograms(_ context.Context, userID string) ([]models.Enrollment, error) {
	if enrollments, ok := s.byUser[userID]; ok {
		return enrollments, nil
	}
	return []models.Enrollment{}, nil
}

func (s *fakeProgressStore) Enroll(_ context.Context, userID string, enrollment models.Enrollment) (bool, error) {
	progress := models.UserProgress{UserID: userID, ActivePrograms: s.byUser[userID]}
	if progress.Enrollment(enrollment.ProgramID) != nil {
		return false, nil
	}
	s.byUser[userID] = append(s.byUser[userID], enrollment)
	return true, nil
}

func (s *fakeProgressStore) Abandon(_ context.Context, userID, programID string) error {
	enrollments := s.byUser[userID]
	for i, e := range enrollments {
		if e.ProgramID == programID {
			s.byUser[userID] = append(enrollments[:i], enrollments[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

type sentEmail struct {
	to   string
	link string
	ttl  time.Duration
}

type fakeMailer struct {
	sent []sentEmail
	err  error
}

func (m *fakeMailer) SendMagicLink(to, link string, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{to: to, link: link, ttl: ttl})
	return nil
}

type fakeVideoStore struct {
	videos []*models.ExerciseVideo
	nextID int
}

func (s *fakeVideoStore) FindAll(_ context.Context) ([]*models.ExerciseVideo, error) {
	return s.videos, nil
}

func (s *fakeVideoStore) FindByName(_ context.Context, name string) (*models.ExerciseVideo, error) {
	for _, v := range s.videos {
		if v.ExerciseName == name {
			return v, nil
		}
	}
	for _, v := range s.videos {
		if strings.EqualFold(v.ExerciseName, name) {
			return v, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *fakeVideoStore) Upsert(_ context.Context, video *models.ExerciseVideo) (*models.ExerciseVideo, error) {
	for _, v := range s.videos {
		if v.ExerciseName == video.ExerciseName {
			v.VideoURL = video.VideoURL
			v.ThumbnailURL = video.ThumbnailURL
			v.IsPlaceholder = video.IsPlaceholder
			v.UpdatedAt = time.Now().UTC()
			return v, nil
		}
	}
	s.nextID++
	now := time.Now().UTC()
	stored := &models.ExerciseVideo{
		ID:            fmt.Sprintf("vid_%d", s.nextID),
		ExerciseName:  video.ExerciseName,
		VideoURL:      video.VideoURL,
		ThumbnailURL:  video.ThumbnailURL,
		IsPlaceholder: video.IsPlaceholder,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.videos = append(s.videos, stored)
	return stored, nil
}
