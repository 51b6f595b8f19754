package repository

import (
	"quizmaster/internal/model"

	"gorm.io/gorm"
)

type SubjectRepository interface {
	Create(subject *model.Subject) error
	FindByID(id uint) (*model.Subject, error)
	FindByIDWithChapters(id uint) (*model.Subject, error)
	FindAllWithChapterCount() ([]struct {
		model.Subject
		ChapterCount int
	}, error)
	Update(subject *model.Subject) error
}

type subjectRepository struct {
	db *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) Create(subject *model.Subject) error {
	return r.db.Create(subject).Error
}

func (r *subjectRepository) FindByID(id uint) (*model.Subject, error) {
	var subject model.Subject
	if err := r.db.First(&subject, id).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepository) FindByIDWithChapters(id uint) (*model.Subject, error) {
	var subject model.Subject
	err := r.db.Preload("Chapters", func(db *gorm.DB) *gorm.DB {
		return db.Order("chapters.id ASC")
	}).First(&subject, id).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepository) FindAllWithChapterCount() ([]struct {
	model.Subject
	ChapterCount int
}, error) {
	var results []struct {
		model.Subject
		ChapterCount int
	}
	err := r.db.Model(&model.Subject{}).
		Select("subjects.*, (SELECT COUNT(*) FROM chapters WHERE chapters.subject_id = subjects.id AND chapters.deleted_at IS NULL) as chapter_count").
		Where("subjects.deleted_at IS NULL").
		Order("subjects.name ASC").
		Scan(&results).Error
	return results, err
}

func (r *subjectRepository) Update(subject *model.Subject) error {
	return r.db.Save(subject).Error
}
