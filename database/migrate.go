package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"quizmaster/internal/model"
)

// Migrate creates the schema and the partial unique index guarding the
// single-open-attempt invariant. Also used by tests against SQLite; the
// index syntax is valid on both engines.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Class{},
		&model.User{},
		&model.Subject{},
		&model.Chapter{},
		&model.Question{},
		&model.Quiz{},
		&model.QuizAssignment{},
		&model.QuizAttempt{},
		&model.StudentAnswer{},
		&model.Session{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return fmt.Errorf("database migration failed: %w", err)
	}

	// At most one open attempt per (student, quiz). Concurrent starts race
	// on this index; the loser resumes the winner's row.
	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_quiz_attempts_single_open
		ON quiz_attempts (student_id, quiz_id)
		WHERE completed_at IS NULL AND deleted_at IS NULL`).Error
	if err != nil {
		log.Error().Err(err).Msg("Failed to create open-attempt index")
		return fmt.Errorf("failed to create open-attempt index: %w", err)
	}

	log.Info().Msg("Database migration completed")
	return nil
}
