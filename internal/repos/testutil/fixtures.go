package testutil

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/scholarmate/scholarmate-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedDocument(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, status string) *types.Document {
	tb.Helper()
	d := &types.Document{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         "doc",
		OriginalName:  "doc.pdf",
		MimeType:      "application/pdf",
		StorageKey:    "documents/" + userID.String() + "/" + uuid.NewString() + ".pdf",
		ExtractedText: "extracted text for testing",
		PageCount:     1,
		Status:        status,
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed document: %v", err)
	}
	return d
}

func SeedChunk(tb testing.TB, ctx context.Context, tx *gorm.DB, docID uuid.UUID, index int, content string) *types.DocumentChunk {
	tb.Helper()
	c := &types.DocumentChunk{
		ID:         uuid.New(),
		DocumentID: docID,
		ChunkIndex: index,
		PageNumber: 1,
		Content:    content,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed chunk: %v", err)
	}
	return c
}

// SeedQuiz creates a quiz with the given correct answers, one four-option
// question per answer.
func SeedQuiz(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, docID uuid.UUID, correctAnswers []string) *types.Quiz {
	tb.Helper()
	q := &types.Quiz{
		ID:             uuid.New(),
		UserID:         userID,
		DocumentID:     docID,
		Title:          "quiz",
		TotalQuestions: len(correctAnswers),
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed quiz: %v", err)
	}
	for i, correct := range correctAnswers {
		options := []string{correct, "wrong 1", "wrong 2", "wrong 3"}
		raw, err := json.Marshal(options)
		if err != nil {
			tb.Fatalf("seed quiz question options: %v", err)
		}
		qq := &types.QuizQuestion{
			ID:            uuid.New(),
			QuizID:        q.ID,
			Index:         i,
			Question:      "question",
			Options:       datatypes.JSON(raw),
			CorrectAnswer: correct,
		}
		if err := tx.WithContext(ctx).Create(qq).Error; err != nil {
			tb.Fatalf("seed quiz question: %v", err)
		}
		q.Questions = append(q.Questions, *qq)
	}
	return q
}

func SeedFlashcardSet(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, docID uuid.UUID, cardCount int) (*types.FlashcardSet, []*types.Flashcard) {
	tb.Helper()
	s := &types.FlashcardSet{
		ID:         uuid.New(),
		UserID:     userID,
		DocumentID: docID,
		Title:      "cards",
		CardCount:  cardCount,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed flashcard set: %v", err)
	}
	cards := make([]*types.Flashcard, 0, cardCount)
	for i := 0; i < cardCount; i++ {
		c := &types.Flashcard{
			ID:         uuid.New(),
			SetID:      s.ID,
			Index:      i,
			Question:   "q",
			Answer:     "a",
			Difficulty: types.DifficultyMedium,
		}
		if err := tx.WithContext(ctx).Create(c).Error; err != nil {
			tb.Fatalf("seed flashcard: %v", err)
		}
		cards = append(cards, c)
	}
	return s, cards
}
