package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scholarmate/scholarmate-backend/internal/logger"
	"github.com/scholarmate/scholarmate-backend/internal/types"
)

type DocumentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, docs []*types.Document) ([]*types.Document, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, docIDs []uuid.UUID) ([]*types.Document, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Document, error)
	SetExtraction(ctx context.Context, tx *gorm.DB, docID uuid.UUID, text string, pageCount int) error
	SetStatus(ctx context.Context, tx *gorm.DB, docID uuid.UUID, status string) error
	TouchLastAccessed(ctx context.Context, tx *gorm.DB, docID uuid.UUID, at time.Time) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, docIDs []uuid.UUID) error
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	repoLog := baseLog.With("repo", "DocumentRepo")
	return &documentRepo{db: db, log: repoLog}
}

func (r *documentRepo) Create(ctx context.Context, tx *gorm.DB, docs []*types.Document) ([]*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(docs) == 0 {
		return []*types.Document{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *documentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, docIDs []uuid.UUID) ([]*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Document
	if len(docIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", docIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *documentRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Document, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Document
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *documentRepo) SetExtraction(ctx context.Context, tx *gorm.DB, docID uuid.UUID, text string, pageCount int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Document{}).
		Where("id = ?", docID).
		Updates(map[string]any{
			"extracted_text": text,
			"page_count":     pageCount,
		}).Error; err != nil {
		return err
	}
	return nil
}

func (r *documentRepo) SetStatus(ctx context.Context, tx *gorm.DB, docID uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Document{}).
		Where("id = ?", docID).
		Update("status", status).Error; err != nil {
		return err
	}
	return nil
}

func (r *documentRepo) TouchLastAccessed(ctx context.Context, tx *gorm.DB, docID uuid.UUID, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Document{}).
		Where("id = ?", docID).
		Update("last_accessed_at", at).Error; err != nil {
		return err
	}
	return nil
}

func (r *documentRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, docIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(docIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", docIDs).
		Delete(&types.Document{}).Error; err != nil {
		return err
	}
	return nil
}
