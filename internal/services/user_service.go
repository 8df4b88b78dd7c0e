package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mirzamitdinovs/vocab-master/internal/apperr"
	"github.com/mirzamitdinovs/vocab-master/internal/logger"
	"github.com/mirzamitdinovs/vocab-master/internal/models"
	"github.com/mirzamitdinovs/vocab-master/internal/repository"
)

// UserService handles accounts and per-user learning settings.
type UserService interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	// Upsert creates or refreshes the account for a phone number. It is the
	// login path: clients identify by phone, and the admin flag is derived
	// from the configured admin phone on every call.
	Upsert(ctx context.Context, name, phone string) (*models.User, error)
	Update(ctx context.Context, id int64, name, phone string) (*models.User, error)
	Delete(ctx context.Context, actorID, id int64) error

	Settings(ctx context.Context, userID int64) (*models.LearningSettings, error)
	UpdateSettings(ctx context.Context, userID int64, patch models.LearningSettingsPatch) (*models.LearningSettings, error)
}

type userService struct {
	users      repository.UserRepository
	progress   repository.ProgressRepository
	adminPhone string
}

// NewUserService creates a new UserService. adminPhone is the phone number
// that grants the admin role.
func NewUserService(users repository.UserRepository, progress repository.ProgressRepository, adminPhone string) UserService {
	return &userService{users: users, progress: progress, adminPhone: adminPhone}
}

func (s *userService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.Get(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user", id)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return user, nil
}

func (s *userService) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	user, err := s.users.GetByPhone(ctx, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user", phone)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return user, nil
}

func (s *userService) Upsert(ctx context.Context, name, phone string) (*models.User, error) {
	log := logger.FromContext(ctx)

	if phone == "" {
		return nil, apperr.Validation("phone", "must not be empty")
	}
	if name == "" {
		return nil, apperr.Validation("name", "must not be empty")
	}
	isAdmin := phone == s.adminPhone

	existing, err := s.users.GetByPhone(ctx, phone)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		existing.Name = name
		existing.IsAdmin = isAdmin
		if err := s.users.Update(ctx, *existing); err != nil {
			log.Error("failed to update user on upsert: %v", err)
			return nil, apperr.Internal(err)
		}
		return s.Get(ctx, existing.ID)
	}

	id, err := s.users.Insert(ctx, models.User{Name: name, Phone: phone, IsAdmin: isAdmin})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperr.Conflict("a user with this phone already exists")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	log.Info("user created: id=%d admin=%t", id, isAdmin)

	if err := s.progress.EnsureUserStat(ctx, id); err != nil {
		return nil, apperr.Internal(err)
	}
	if err := s.users.UpsertSettings(ctx, models.DefaultLearningSettings(id)); err != nil {
		return nil, apperr.Internal(err)
	}
	return s.Get(ctx, id)
}

func (s *userService) Update(ctx context.Context, id int64, name, phone string) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		user.Name = name
	}
	if phone != "" {
		user.Phone = phone
		user.IsAdmin = phone == s.adminPhone
	}

	err = s.users.Update(ctx, *user)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperr.Conflict("a user with this phone already exists")
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("user", id)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return s.Get(ctx, id)
}

func (s *userService) Delete(ctx context.Context, actorID, id int64) error {
	if err := requireAdmin(ctx, s.users, actorID); err != nil {
		return err
	}

	err := s.users.Delete(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("user", id)
	}
	if err != nil {
		return apperr.Internal(err)
	}
	logger.FromContext(ctx).Info("user deleted: id=%d", id)
	return nil
}

func (s *userService) Settings(ctx context.Context, userID int64) (*models.LearningSettings, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}

	settings, err := s.users.Settings(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		// Accounts from before settings existed get a defaults row lazily.
		defaults := models.DefaultLearningSettings(userID)
		if err := s.users.UpsertSettings(ctx, defaults); err != nil {
			return nil, apperr.Internal(err)
		}
		return &defaults, nil
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return settings, nil
}

func (s *userService) UpdateSettings(ctx context.Context, userID int64, patch models.LearningSettingsPatch) (*models.LearningSettings, error) {
	settings, err := s.Settings(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.LearnSessionSize != nil {
		settings.LearnSessionSize = *patch.LearnSessionSize
	}
	if patch.ReviewSessionSize != nil {
		settings.ReviewSessionSize = *patch.ReviewSessionSize
	}
	if patch.SpeedReviewSessionSize != nil {
		settings.SpeedReviewSessionSize = *patch.SpeedReviewSessionSize
	}
	if patch.EnableTyping != nil {
		settings.EnableTyping = *patch.EnableTyping
	}
	if patch.EnableTapping != nil {
		settings.EnableTapping = *patch.EnableTapping
	}
	if patch.EnableListening != nil {
		settings.EnableListening = *patch.EnableListening
	}

	if settings.LearnSessionSize < 1 {
		return nil, apperr.Validation("learn_session_size", "must be at least 1")
	}
	if settings.ReviewSessionSize < 1 {
		return nil, apperr.Validation("review_session_size", "must be at least 1")
	}
	if settings.SpeedReviewSessionSize < 1 {
		return nil, apperr.Validation("speed_review_session_size", "must be at least 1")
	}

	if err := s.users.UpsertSettings(ctx, *settings); err != nil {
		return nil, apperr.Internal(err)
	}
	return settings, nil
}
