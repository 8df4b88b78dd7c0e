package models

import "time"

type User struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	IsAdmin   bool      `db:"is_admin" json:"is_admin"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// LearningSettings are per-user study preferences. Rows are created with
// defaults when the user is created and patched field by field afterwards.
type LearningSettings struct {
	UserID                 int64 `db:"user_id" json:"user_id"`
	LearnSessionSize       int   `db:"learn_session_size" json:"learn_session_size"`
	ReviewSessionSize      int   `db:"review_session_size" json:"review_session_size"`
	SpeedReviewSessionSize int   `db:"speed_review_session_size" json:"speed_review_session_size"`
	EnableTyping           bool  `db:"enable_typing" json:"enable_typing"`
	EnableTapping          bool  `db:"enable_tapping" json:"enable_tapping"`
	EnableListening        bool  `db:"enable_listening" json:"enable_listening"`
}

// DefaultLearningSettings returns the settings a fresh user starts with.
func DefaultLearningSettings(userID int64) LearningSettings {
	return LearningSettings{
		UserID:                 userID,
		LearnSessionSize:       10,
		ReviewSessionSize:      10,
		SpeedReviewSessionSize: 15,
		EnableTyping:           true,
		EnableTapping:          true,
		EnableListening:        true,
	}
}

// LearningSettingsPatch carries a partial settings update; nil fields are
// left unchanged.
type LearningSettingsPatch struct {
	LearnSessionSize       *int  `json:"learn_session_size"`
	ReviewSessionSize      *int  `json:"review_session_size"`
	SpeedReviewSessionSize *int  `json:"speed_review_session_size"`
	EnableTyping           *bool `json:"enable_typing"`
	EnableTapping          *bool `json:"enable_tapping"`
	EnableListening        *bool `json:"enable_listening"`
}
