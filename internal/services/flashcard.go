package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scholarmate/scholarmate-backend/internal/apperrors"
	"github.com/scholarmate/scholarmate-backend/internal/logger"
	"github.com/scholarmate/scholarmate-backend/internal/repos"
	"github.com/scholarmate/scholarmate-backend/internal/types"
)

type FlashcardSetView struct {
	Set   *types.FlashcardSet `json:"set"`
	Cards []*types.Flashcard  `json:"cards"`
}

type FlashcardService interface {
	ListSets(ctx context.Context, userID uuid.UUID) ([]*types.FlashcardSet, error)
	ListSetsByDocument(ctx context.Context, userID, docID uuid.UUID) ([]*FlashcardSetView, error)
	Review(ctx context.Context, userID, cardID uuid.UUID, correct bool) (*types.Flashcard, error)
	ToggleStar(ctx context.Context, userID, cardID uuid.UUID) (*types.Flashcard, error)
	DeleteSet(ctx context.Context, userID, setID uuid.UUID) error
}

type flashcardService struct {
	db            *gorm.DB
	log           *logger.Logger
	flashcardRepo repos.FlashcardRepo
}

func NewFlashcardService(db *gorm.DB, log *logger.Logger, flashcardRepo repos.FlashcardRepo) FlashcardService {
	return &flashcardService{
		db:            db,
		log:           log.With("service", "FlashcardService"),
		flashcardRepo: flashcardRepo,
	}
}

func (fs *flashcardService) ListSets(ctx context.Context, userID uuid.UUID) ([]*types.FlashcardSet, error) {
	return fs.flashcardRepo.ListSetsByUserID(ctx, nil, userID)
}

func (fs *flashcardService) ListSetsByDocument(ctx context.Context, userID, docID uuid.UUID) ([]*FlashcardSetView, error) {
	sets, err := fs.flashcardRepo.ListSetsByDocumentID(ctx, nil, userID, docID)
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return []*FlashcardSetView{}, nil
	}
	setIDs := make([]uuid.UUID, 0, len(sets))
	for _, s := range sets {
		setIDs = append(setIDs, s.ID)
	}
	cards, cErr := fs.flashcardRepo.GetCardsBySetIDs(ctx, nil, setIDs)
	if cErr != nil {
		return nil, cErr
	}
	bySet := make(map[uuid.UUID][]*types.Flashcard, len(sets))
	for _, c := range cards {
		bySet[c.SetID] = append(bySet[c.SetID], c)
	}
	views := make([]*FlashcardSetView, 0, len(sets))
	for _, s := range sets {
		views = append(views, &FlashcardSetView{Set: s, Cards: bySet[s.ID]})
	}
	return views, nil
}

func (fs *flashcardService) Review(ctx context.Context, userID, cardID uuid.UUID, correct bool) (*types.Flashcard, error) {
	card, err := fs.getOwnedCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	if rErr := fs.flashcardRepo.RecordReview(ctx, nil, card.ID, correct, time.Now()); rErr != nil {
		return nil, fmt.Errorf("Failed to record review: %w", rErr)
	}
	return fs.getOwnedCard(ctx, userID, cardID)
}

func (fs *flashcardService) ToggleStar(ctx context.Context, userID, cardID uuid.UUID) (*types.Flashcard, error) {
	card, err := fs.getOwnedCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	if sErr := fs.flashcardRepo.SetStarred(ctx, nil, card.ID, !card.Starred); sErr != nil {
		return nil, fmt.Errorf("Failed to toggle star: %w", sErr)
	}
	card.Starred = !card.Starred
	return card, nil
}

func (fs *flashcardService) DeleteSet(ctx context.Context, userID, setID uuid.UUID) error {
	sets, err := fs.flashcardRepo.GetSetsByIDs(ctx, nil, []uuid.UUID{setID})
	if err != nil {
		return fmt.Errorf("Failed to fetch flashcard set: %w", err)
	}
	if len(sets) == 0 {
		return fmt.Errorf("%w: flashcard set not found", apperrors.ErrNotFound)
	}
	if sets[0].UserID != userID {
		return fmt.Errorf("%w: flashcard set belongs to another user", apperrors.ErrUnauthorized)
	}
	return fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if cErr := fs.flashcardRepo.FullDeleteCardsBySetIDs(ctx, tx, []uuid.UUID{setID}); cErr != nil {
			return fmt.Errorf("Failed to delete flashcards: %w", cErr)
		}
		if sErr := fs.flashcardRepo.SoftDeleteSetsByIDs(ctx, tx, []uuid.UUID{setID}); sErr != nil {
			return fmt.Errorf("Failed to delete flashcard set: %w", sErr)
		}
		return nil
	})
}

func (fs *flashcardService) getOwnedCard(ctx context.Context, userID, cardID uuid.UUID) (*types.Flashcard, error) {
	cards, err := fs.flashcardRepo.GetCardsByIDs(ctx, nil, []uuid.UUID{cardID})
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch flashcard: %w", err)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: flashcard not found", apperrors.ErrNotFound)
	}
	card := cards[0]
	sets, sErr := fs.flashcardRepo.GetSetsByIDs(ctx, nil, []uuid.UUID{card.SetID})
	if sErr != nil {
		return nil, fmt.Errorf("Failed to fetch flashcard set: %w", sErr)
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("%w: flashcard set not found", apperrors.ErrNotFound)
	}
	if sets[0].UserID != userID {
		return nil, fmt.Errorf("%w: flashcard belongs to another user", apperrors.ErrUnauthorized)
	}
	return card, nil
}
