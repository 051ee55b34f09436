package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyforge/studyforge-backend/internal/platform/logger"
	"github.com/studyforge/studyforge-backend/internal/types"
)

type LectureRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lecture *types.Lecture) (*types.Lecture, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Lecture, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Lecture, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type lectureRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLectureRepo(db *gorm.DB, baseLog *logger.Logger) LectureRepo {
	return &lectureRepo{db: db, log: baseLog.With("repo", "LectureRepo")}
}

func (r *lectureRepo) Create(ctx context.Context, tx *gorm.DB, lecture *types.Lecture) (*types.Lecture, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(lecture).Error; err != nil {
		return nil, err
	}
	return lecture, nil
}

func (r *lectureRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Lecture, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Lecture
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *lectureRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Lecture, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Lecture
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lectureRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Lecture{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *lectureRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Lecture{}).Error
}
