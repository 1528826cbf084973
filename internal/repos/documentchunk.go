package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scholarmate/scholarmate-backend/internal/logger"
	"github.com/scholarmate/scholarmate-backend/internal/types"
)

type DocumentChunkRepo interface {
	Create(ctx context.Context, tx *gorm.DB, chunks []*types.DocumentChunk) ([]*types.DocumentChunk, error)
	GetByDocumentIDs(ctx context.Context, tx *gorm.DB, docIDs []uuid.UUID) ([]*types.DocumentChunk, error)
	GetTopByDocumentID(ctx context.Context, tx *gorm.DB, docID uuid.UUID, limit int) ([]*types.DocumentChunk, error)
	FullDeleteByDocumentIDs(ctx context.Context, tx *gorm.DB, docIDs []uuid.UUID) error
}

type documentChunkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentChunkRepo(db *gorm.DB, baseLog *logger.Logger) DocumentChunkRepo {
	repoLog := baseLog.With("repo", "DocumentChunkRepo")
	return &documentChunkRepo{db: db, log: repoLog}
}

func (r *documentChunkRepo) Create(ctx context.Context, tx *gorm.DB, chunks []*types.DocumentChunk) ([]*types.DocumentChunk, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(chunks) == 0 {
		return []*types.DocumentChunk{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&chunks).Error; err != nil {
		return nil, err
	}
	return chunks, nil
}

func (r *documentChunkRepo) GetByDocumentIDs(ctx context.Context, tx *gorm.DB, docIDs []uuid.UUID) ([]*types.DocumentChunk, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.DocumentChunk
	if len(docIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("document_id IN ?", docIDs).
		Order("document_id, chunk_index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *documentChunkRepo) GetTopByDocumentID(ctx context.Context, tx *gorm.DB, docID uuid.UUID, limit int) ([]*types.DocumentChunk, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.DocumentChunk
	if err := transaction.WithContext(ctx).
		Where("document_id = ?", docID).
		Order("chunk_index ASC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *documentChunkRepo) FullDeleteByDocumentIDs(ctx context.Context, tx *gorm.DB, docIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(docIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Unscoped().
		Where("document_id IN ?", docIDs).
		Delete(&types.DocumentChunk{}).Error; err != nil {
		return err
	}
	return nil
}
