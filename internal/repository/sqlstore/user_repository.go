package sqlstore

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/mirzamitdinovs/vocab-master/internal/logger"
	"github.com/mirzamitdinovs/vocab-master/internal/models"
	"github.com/mirzamitdinovs/vocab-master/internal/repository"
)

type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a UserRepository backed by the SQL store.
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userCols = `id, name, phone, is_admin, created_at`

func (r *userRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind(`SELECT `+userCols+` FROM users WHERE id = ?`), id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, r.db.Rebind(`SELECT `+userCols+` FROM users WHERE phone = ?`), phone)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Insert(ctx context.Context, user models.User) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("inserting user: phone=%s admin=%t", user.Phone, user.IsAdmin)

	id, err := insertReturningID(ctx, r.db, `
INSERT INTO users (name, phone, is_admin) VALUES (?, ?, ?)`,
		user.Name, user.Phone, user.IsAdmin)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicate
		}
		log.Error("failed to insert user: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *userRepository) Update(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("updating user: id=%d", user.ID)

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
UPDATE users SET name = ?, phone = ?, is_admin = ? WHERE id = ?
`), user.Name, user.Phone, user.IsAdmin, user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		log.Error("failed to update user: %v", err)
		return err
	}
	return requireRowAffected(res)
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("deleting user: id=%d", id)

	// Progress, stats, and settings rows go with the account via FK cascade.
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		log.Error("failed to delete user: %v", err)
		return err
	}
	return requireRowAffected(res)
}

func (r *userRepository) Settings(ctx context.Context, userID int64) (*models.LearningSettings, error) {
	var s models.LearningSettings
	err := r.db.GetContext(ctx, &s, r.db.Rebind(`
SELECT user_id, learn_session_size, review_session_size, speed_review_session_size,
       enable_typing, enable_tapping, enable_listening
FROM learning_settings WHERE user_id = ?
`), userID)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *userRepository) UpsertSettings(ctx context.Context, s models.LearningSettings) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("upserting settings: user_id=%d", s.UserID)

	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
INSERT INTO learning_settings (user_id, learn_session_size, review_session_size,
    speed_review_session_size, enable_typing, enable_tapping, enable_listening)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET
    learn_session_size = excluded.learn_session_size,
    review_session_size = excluded.review_session_size,
    speed_review_session_size = excluded.speed_review_session_size,
    enable_typing = excluded.enable_typing,
    enable_tapping = excluded.enable_tapping,
    enable_listening = excluded.enable_listening
`), s.UserID, s.LearnSessionSize, s.ReviewSessionSize, s.SpeedReviewSessionSize,
		s.EnableTyping, s.EnableTapping, s.EnableListening)
	if err != nil {
		log.Error("failed to upsert settings: %v", err)
	}
	return err
}
