package repository

import (
	"errors"
	"time"

	"quizmaster/internal/model"

	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(session *model.Session) error
	// FindByToken returns nil when the token is unknown.
	FindByToken(token string) (*model.Session, error)
	Delete(token string) error
	DeleteExpired(now time.Time) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *model.Session) error {
	return r.db.Create(session).Error
}

func (r *sessionRepository) FindByToken(token string) (*model.Session, error) {
	var session model.Session
	err := r.db.Where("token = ?", token).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Delete(token string) error {
	return r.db.Delete(&model.Session{}, "token = ?", token).Error
}

func (r *sessionRepository) DeleteExpired(now time.Time) error {
	return r.db.Delete(&model.Session{}, "expires_at < ?", now).Error
}
