package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyforge/studyforge-backend/internal/platform/logger"
	"github.com/studyforge/studyforge-backend/internal/types"
)

type NoteRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *types.NoteRun) (*types.NoteRun, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.NoteRun, error)
	GetLatestByLectureID(ctx context.Context, tx *gorm.DB, lectureID uuid.UUID) (*types.NoteRun, error)
	ListByLectureID(ctx context.Context, tx *gorm.DB, lectureID uuid.UUID) ([]*types.NoteRun, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error
}

type noteRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNoteRunRepo(db *gorm.DB, baseLog *logger.Logger) NoteRunRepo {
	return &noteRunRepo{db: db, log: baseLog.With("repo", "NoteRunRepo")}
}

func (r *noteRunRepo) Create(ctx context.Context, tx *gorm.DB, run *types.NoteRun) (*types.NoteRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (r *noteRunRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.NoteRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.NoteRun
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *noteRunRepo) GetLatestByLectureID(ctx context.Context, tx *gorm.DB, lectureID uuid.UUID) (*types.NoteRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.NoteRun
	if err := transaction.WithContext(ctx).
		Where("lecture_id = ?", lectureID).
		Order("created_at DESC").
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *noteRunRepo) ListByLectureID(ctx context.Context, tx *gorm.DB, lectureID uuid.UUID) ([]*types.NoteRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.NoteRun
	if err := transaction.WithContext(ctx).
		Where("lecture_id = ?", lectureID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *noteRunRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.NoteRun{}).
		Where("id = ?", id).
		Updates(fields).Error
}
