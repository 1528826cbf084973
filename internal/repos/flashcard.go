package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scholarmate/scholarmate-backend/internal/logger"
	"github.com/scholarmate/scholarmate-backend/internal/types"
)

type FlashcardRepo interface {
	CreateSets(ctx context.Context, tx *gorm.DB, sets []*types.FlashcardSet) ([]*types.FlashcardSet, error)
	CreateCards(ctx context.Context, tx *gorm.DB, cards []*types.Flashcard) ([]*types.Flashcard, error)
	GetSetsByIDs(ctx context.Context, tx *gorm.DB, setIDs []uuid.UUID) ([]*types.FlashcardSet, error)
	ListSetsByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.FlashcardSet, error)
	ListSetsByDocumentID(ctx context.Context, tx *gorm.DB, userID, docID uuid.UUID) ([]*types.FlashcardSet, error)
	GetCardsBySetIDs(ctx context.Context, tx *gorm.DB, setIDs []uuid.UUID) ([]*types.Flashcard, error)
	GetCardsByIDs(ctx context.Context, tx *gorm.DB, cardIDs []uuid.UUID) ([]*types.Flashcard, error)
	RecordReview(ctx context.Context, tx *gorm.DB, cardID uuid.UUID, correct bool, at time.Time) error
	SetStarred(ctx context.Context, tx *gorm.DB, cardID uuid.UUID, starred bool) error
	SoftDeleteSetsByIDs(ctx context.Context, tx *gorm.DB, setIDs []uuid.UUID) error
	FullDeleteCardsBySetIDs(ctx context.Context, tx *gorm.DB, setIDs []uuid.UUID) error
}

type flashcardRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFlashcardRepo(db *gorm.DB, baseLog *logger.Logger) FlashcardRepo {
	repoLog := baseLog.With("repo", "FlashcardRepo")
	return &flashcardRepo{db: db, log: repoLog}
}

func (r *flashcardRepo) CreateSets(ctx context.Context, tx *gorm.DB, sets []*types.FlashcardSet) ([]*types.FlashcardSet, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(sets) == 0 {
		return []*types.FlashcardSet{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&sets).Error; err != nil {
		return nil, err
	}
	return sets, nil
}

func (r *flashcardRepo) CreateCards(ctx context.Context, tx *gorm.DB, cards []*types.Flashcard) ([]*types.Flashcard, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(cards) == 0 {
		return []*types.Flashcard{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *flashcardRepo) GetSetsByIDs(ctx context.Context, tx *gorm.DB, setIDs []uuid.UUID) ([]*types.FlashcardSet, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.FlashcardSet
	if len(setIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", setIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *flashcardRepo) ListSetsByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.FlashcardSet, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.FlashcardSet
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *flashcardRepo) ListSetsByDocumentID(ctx context.Context, tx *gorm.DB, userID, docID uuid.UUID) ([]*types.FlashcardSet, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.FlashcardSet
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND document_id = ?", userID, docID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *flashcardRepo) GetCardsBySetIDs(ctx context.Context, tx *gorm.DB, setIDs []uuid.UUID) ([]*types.Flashcard, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Flashcard
	if len(setIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("set_id IN ?", setIDs).
		Order("set_id, index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *flashcardRepo) GetCardsByIDs(ctx context.Context, tx *gorm.DB, cardIDs []uuid.UUID) ([]*types.Flashcard, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Flashcard
	if len(cardIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", cardIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *flashcardRepo) RecordReview(ctx context.Context, tx *gorm.DB, cardID uuid.UUID, correct bool, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	updates := map[string]any{
		"review_count":     gorm.Expr("review_count + 1"),
		"last_reviewed_at": at,
	}
	if correct {
		updates["correct_count"] = gorm.Expr("correct_count + 1")
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Flashcard{}).
		Where("id = ?", cardID).
		Updates(updates).Error; err != nil {
		return err
	}
	return nil
}

func (r *flashcardRepo) SetStarred(ctx context.Context, tx *gorm.DB, cardID uuid.UUID, starred bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.Flashcard{}).
		Where("id = ?", cardID).
		Update("starred", starred).Error; err != nil {
		return err
	}
	return nil
}

func (r *flashcardRepo) SoftDeleteSetsByIDs(ctx context.Context, tx *gorm.DB, setIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(setIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", setIDs).
		Delete(&types.FlashcardSet{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *flashcardRepo) FullDeleteCardsBySetIDs(ctx context.Context, tx *gorm.DB, setIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(setIDs) == 0 {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Unscoped().
		Where("set_id IN ?", setIDs).
		Delete(&types.Flashcard{}).Error; err != nil {
		return err
	}
	return nil
}
