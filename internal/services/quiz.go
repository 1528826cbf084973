package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/scholarmate/scholarmate-backend/internal/apperrors"
	"github.com/scholarmate/scholarmate-backend/internal/logger"
	"github.com/scholarmate/scholarmate-backend/internal/repos"
	"github.com/scholarmate/scholarmate-backend/internal/types"
)

type SubmittedAnswer struct {
	QuestionIndex  int    `json:"questionIndex"`
	SelectedAnswer string `json:"selectedAnswer"`
}

// SubmitResult is the grading outcome. AnsweredCount and Incomplete make
// partial submissions visible: the score still divides by TotalQuestions,
// so unanswered questions count against it.
type SubmitResult struct {
	QuizID         uuid.UUID          `json:"quizId"`
	Score          int                `json:"score"`
	CorrectCount   int                `json:"correctCount"`
	TotalQuestions int                `json:"totalQuestions"`
	AnsweredCount  int                `json:"answeredCount"`
	Incomplete     bool               `json:"incomplete"`
	UserAnswers    []types.UserAnswer `json:"userAnswers"`
}

type QuestionResult struct {
	QuestionIndex  int      `json:"questionIndex"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
	CorrectAnswer  string   `json:"correctAnswer"`
	SelectedAnswer *string  `json:"selectedAnswer"`
	IsCorrect      bool     `json:"isCorrect"`
	Explanation    string   `json:"explanation,omitempty"`
}

type QuizResults struct {
	Quiz    *types.Quiz      `json:"quiz"`
	Results []QuestionResult `json:"results"`
}

type QuizService interface {
	ListByDocument(ctx context.Context, userID, docID uuid.UUID) ([]*types.Quiz, error)
	Get(ctx context.Context, userID, quizID uuid.UUID) (*types.Quiz, error)
	Submit(ctx context.Context, userID, quizID uuid.UUID, answers []SubmittedAnswer) (*SubmitResult, error)
	Results(ctx context.Context, userID, quizID uuid.UUID) (*QuizResults, error)
	Delete(ctx context.Context, userID, quizID uuid.UUID) error
}

type quizService struct {
	db           *gorm.DB
	log          *logger.Logger
	quizRepo     repos.QuizRepo
	questionRepo repos.QuizQuestionRepo
}

func NewQuizService(db *gorm.DB, log *logger.Logger, quizRepo repos.QuizRepo, questionRepo repos.QuizQuestionRepo) QuizService {
	return &quizService{
		db:           db,
		log:          log.With("service", "QuizService"),
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
	}
}

func (qs *quizService) ListByDocument(ctx context.Context, userID, docID uuid.UUID) ([]*types.Quiz, error) {
	return qs.quizRepo.ListByDocumentID(ctx, nil, userID, docID)
}

func (qs *quizService) Get(ctx context.Context, userID, quizID uuid.UUID) (*types.Quiz, error) {
	return qs.getOwned(ctx, nil, userID, quizID)
}

func (qs *quizService) Submit(ctx context.Context, userID, quizID uuid.UUID, answers []SubmittedAnswer) (*SubmitResult, error) {
	if answers == nil {
		return nil, fmt.Errorf("%w: please provide answers array", apperrors.ErrInvalidArgument)
	}
	quiz, err := qs.getOwned(ctx, nil, userID, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.CompletedAt != nil {
		return nil, fmt.Errorf("%w: quiz already completed", apperrors.ErrConflict)
	}

	correctCount := 0
	userAnswers := make([]types.UserAnswer, 0, len(answers))
	now := time.Now()
	for _, a := range answers {
		// Out-of-range indexes are skipped, not rejected.
		if a.QuestionIndex < 0 || a.QuestionIndex >= len(quiz.Questions) {
			continue
		}
		question := quiz.Questions[a.QuestionIndex]
		isCorrect := a.SelectedAnswer == question.CorrectAnswer
		if isCorrect {
			correctCount++
		}
		userAnswers = append(userAnswers, types.UserAnswer{
			QuestionIndex:  a.QuestionIndex,
			SelectedAnswer: a.SelectedAnswer,
			IsCorrect:      isCorrect,
			AnsweredAt:     now,
		})
	}

	score := 0
	if quiz.TotalQuestions > 0 {
		score = int(math.Round(float64(correctCount) / float64(quiz.TotalQuestions) * 100))
	}

	answersJSON, mErr := json.Marshal(userAnswers)
	if mErr != nil {
		return nil, fmt.Errorf("Failed to encode user answers: %w", mErr)
	}

	// Conditional update so two concurrent submits cannot both win.
	completed, cErr := qs.quizRepo.Complete(ctx, nil, quiz.ID, datatypes.JSON(answersJSON), score, now)
	if cErr != nil {
		return nil, fmt.Errorf("Failed to complete quiz: %w", cErr)
	}
	if !completed {
		return nil, fmt.Errorf("%w: quiz already completed", apperrors.ErrConflict)
	}

	return &SubmitResult{
		QuizID:         quiz.ID,
		Score:          score,
		CorrectCount:   correctCount,
		TotalQuestions: quiz.TotalQuestions,
		AnsweredCount:  len(userAnswers),
		Incomplete:     len(userAnswers) < quiz.TotalQuestions,
		UserAnswers:    userAnswers,
	}, nil
}

func (qs *quizService) Results(ctx context.Context, userID, quizID uuid.UUID) (*QuizResults, error) {
	quiz, err := qs.getOwned(ctx, nil, userID, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.CompletedAt == nil {
		return nil, fmt.Errorf("%w: quiz not completed yet", apperrors.ErrConflict)
	}

	var userAnswers []types.UserAnswer
	if len(quiz.UserAnswers) > 0 {
		if uErr := json.Unmarshal(quiz.UserAnswers, &userAnswers); uErr != nil {
			return nil, fmt.Errorf("Failed to decode stored answers: %w", uErr)
		}
	}
	byIndex := make(map[int]types.UserAnswer, len(userAnswers))
	for _, a := range userAnswers {
		byIndex[a.QuestionIndex] = a
	}

	results := make([]QuestionResult, 0, len(quiz.Questions))
	for i, q := range quiz.Questions {
		var options []string
		if len(q.Options) > 0 {
			if oErr := json.Unmarshal(q.Options, &options); oErr != nil {
				return nil, fmt.Errorf("Failed to decode question options: %w", oErr)
			}
		}
		r := QuestionResult{
			QuestionIndex: i,
			Question:      q.Question,
			Options:       options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		}
		if a, ok := byIndex[i]; ok {
			selected := a.SelectedAnswer
			r.SelectedAnswer = &selected
			r.IsCorrect = a.IsCorrect
		}
		results = append(results, r)
	}

	return &QuizResults{Quiz: quiz, Results: results}, nil
}

func (qs *quizService) Delete(ctx context.Context, userID, quizID uuid.UUID) error {
	quiz, err := qs.getOwned(ctx, nil, userID, quizID)
	if err != nil {
		return err
	}
	return qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if qErr := qs.questionRepo.FullDeleteByQuizIDs(ctx, tx, []uuid.UUID{quiz.ID}); qErr != nil {
			return fmt.Errorf("Failed to delete quiz questions: %w", qErr)
		}
		if dErr := qs.quizRepo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{quiz.ID}); dErr != nil {
			return fmt.Errorf("Failed to delete quiz: %w", dErr)
		}
		return nil
	})
}

func (qs *quizService) getOwned(ctx context.Context, tx *gorm.DB, userID, quizID uuid.UUID) (*types.Quiz, error) {
	quizzes, err := qs.quizRepo.GetByIDs(ctx, tx, []uuid.UUID{quizID})
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch quiz: %w", err)
	}
	if len(quizzes) == 0 {
		return nil, fmt.Errorf("%w: quiz not found", apperrors.ErrNotFound)
	}
	quiz := quizzes[0]
	if quiz.UserID != userID {
		return nil, fmt.Errorf("%w: quiz belongs to another user", apperrors.ErrUnauthorized)
	}
	return quiz, nil
}
