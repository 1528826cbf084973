package services

import (
	"context"
	"errors"
	"testing"

	"github.com/scholarmate/scholarmate-backend/internal/apperrors"
	"github.com/scholarmate/scholarmate-backend/internal/repos"
	"github.com/scholarmate/scholarmate-backend/internal/repos/testutil"
	"github.com/scholarmate/scholarmate-backend/internal/types"
)

func TestQuizSubmitAllCorrect(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	svc := NewQuizService(tx, log, repos.NewQuizRepo(tx, log), repos.NewQuizQuestionRepo(tx, log))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "submit-allcorrect@example.com")
	doc := testutil.SeedDocument(t, ctx, tx, user.ID, types.DocumentStatusReady)
	quiz := testutil.SeedQuiz(t, ctx, tx, user.ID, doc.ID, []string{"a", "b", "c", "d", "e"})

	answers := []SubmittedAnswer{
		{QuestionIndex: 0, SelectedAnswer: "a"},
		{QuestionIndex: 1, SelectedAnswer: "b"},
		{QuestionIndex: 2, SelectedAnswer: "c"},
		{QuestionIndex: 3, SelectedAnswer: "d"},
		{QuestionIndex: 4, SelectedAnswer: "e"},
	}
	res, err := svc.Submit(ctx, user.ID, quiz.ID, answers)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Score != 100 || res.CorrectCount != 5 {
		t.Fatalf("Submit: expected score 100 with 5 correct, got score=%d correct=%d", res.Score, res.CorrectCount)
	}
	if res.Incomplete || res.AnsweredCount != 5 {
		t.Fatalf("Submit: expected complete submission, got answered=%d incomplete=%v", res.AnsweredCount, res.Incomplete)
	}
}

func TestQuizSubmitPartialScore(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	svc := NewQuizService(tx, log, repos.NewQuizRepo(tx, log), repos.NewQuizQuestionRepo(tx, log))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "submit-partial@example.com")
	doc := testutil.SeedDocument(t, ctx, tx, user.ID, types.DocumentStatusReady)
	quiz := testutil.SeedQuiz(t, ctx, tx, user.ID, doc.ID, []string{"a", "b", "c", "d", "e"})

	// 3 of 5 correct, case matters on the last one.
	answers := []SubmittedAnswer{
		{QuestionIndex: 0, SelectedAnswer: "a"},
		{QuestionIndex: 1, SelectedAnswer: "b"},
		{QuestionIndex: 2, SelectedAnswer: "c"},
		{QuestionIndex: 3, SelectedAnswer: "wrong"},
		{QuestionIndex: 4, SelectedAnswer: "E"},
	}
	res, err := svc.Submit(ctx, user.ID, quiz.ID, answers)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Score != 60 || res.CorrectCount != 3 {
		t.Fatalf("Submit: expected score 60 with 3 correct, got score=%d correct=%d", res.Score, res.CorrectCount)
	}
}

func TestQuizSubmitOutOfRangeSkipped(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	svc := NewQuizService(tx, log, repos.NewQuizRepo(tx, log), repos.NewQuizQuestionRepo(tx, log))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "submit-range@example.com")
	doc := testutil.SeedDocument(t, ctx, tx, user.ID, types.DocumentStatusReady)
	quiz := testutil.SeedQuiz(t, ctx, tx, user.ID, doc.ID, []string{"a", "b"})

	answers := []SubmittedAnswer{
		{QuestionIndex: 0, SelectedAnswer: "a"},
		{QuestionIndex: 7, SelectedAnswer: "b"},
		{QuestionIndex: -1, SelectedAnswer: "a"},
	}
	res, err := svc.Submit(ctx, user.ID, quiz.ID, answers)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.AnsweredCount != 1 {
		t.Fatalf("Submit: expected out-of-range answers to be skipped, answered=%d", res.AnsweredCount)
	}
	if res.Score != 50 || res.CorrectCount != 1 {
		t.Fatalf("Submit: expected score 50 with 1 correct, got score=%d correct=%d", res.Score, res.CorrectCount)
	}
	if !res.Incomplete {
		t.Fatalf("Submit: expected submission to be flagged incomplete")
	}
}

func TestQuizSubmitTwiceRejected(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	svc := NewQuizService(tx, log, repos.NewQuizRepo(tx, log), repos.NewQuizQuestionRepo(tx, log))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "submit-twice@example.com")
	doc := testutil.SeedDocument(t, ctx, tx, user.ID, types.DocumentStatusReady)
	quiz := testutil.SeedQuiz(t, ctx, tx, user.ID, doc.ID, []string{"a", "b"})

	first, err := svc.Submit(ctx, user.ID, quiz.ID, []SubmittedAnswer{
		{QuestionIndex: 0, SelectedAnswer: "a"},
		{QuestionIndex: 1, SelectedAnswer: "b"},
	})
	if err != nil {
		t.Fatalf("Submit (first): %v", err)
	}
	if first.Score != 100 {
		t.Fatalf("Submit (first): expected score 100, got %d", first.Score)
	}

	_, err = svc.Submit(ctx, user.ID, quiz.ID, []SubmittedAnswer{
		{QuestionIndex: 0, SelectedAnswer: "wrong"},
	})
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("Submit (second): expected conflict, got %v", err)
	}

	// First submission state must survive.
	got, err := svc.Get(ctx, user.ID, quiz.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Score == nil || *got.Score != 100 {
		t.Fatalf("Get: first submission score not preserved: %+v", got.Score)
	}
}

func TestQuizOwnershipEnforced(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	svc := NewQuizService(tx, log, repos.NewQuizRepo(tx, log), repos.NewQuizQuestionRepo(tx, log))
	ctx := context.Background()

	owner := testutil.SeedUser(t, ctx, tx, "quiz-owner@example.com")
	intruder := testutil.SeedUser(t, ctx, tx, "quiz-intruder@example.com")
	doc := testutil.SeedDocument(t, ctx, tx, owner.ID, types.DocumentStatusReady)
	quiz := testutil.SeedQuiz(t, ctx, tx, owner.ID, doc.ID, []string{"a"})

	if _, err := svc.Get(ctx, intruder.ID, quiz.ID); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("Get: expected unauthorized, got %v", err)
	}
	if _, err := svc.Submit(ctx, intruder.ID, quiz.ID, []SubmittedAnswer{{QuestionIndex: 0, SelectedAnswer: "a"}}); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("Submit: expected unauthorized, got %v", err)
	}
	if _, err := svc.Results(ctx, intruder.ID, quiz.ID); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("Results: expected unauthorized, got %v", err)
	}
	if err := svc.Delete(ctx, intruder.ID, quiz.ID); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("Delete: expected unauthorized, got %v", err)
	}
}

func TestQuizResults(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	svc := NewQuizService(tx, log, repos.NewQuizRepo(tx, log), repos.NewQuizQuestionRepo(tx, log))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "quiz-results@example.com")
	doc := testutil.SeedDocument(t, ctx, tx, user.ID, types.DocumentStatusReady)
	quiz := testutil.SeedQuiz(t, ctx, tx, user.ID, doc.ID, []string{"a", "b"})

	if _, err := svc.Results(ctx, user.ID, quiz.ID); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("Results before submit: expected conflict, got %v", err)
	}

	if _, err := svc.Submit(ctx, user.ID, quiz.ID, []SubmittedAnswer{
		{QuestionIndex: 0, SelectedAnswer: "a"},
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	res, err := svc.Results(ctx, user.ID, quiz.ID)
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if len(res.Results) != 2 {
		t.Fatalf("Results: expected 2 question results, got %d", len(res.Results))
	}
	if res.Results[0].SelectedAnswer == nil || *res.Results[0].SelectedAnswer != "a" || !res.Results[0].IsCorrect {
		t.Fatalf("Results: first question result wrong: %+v", res.Results[0])
	}
	if res.Results[1].SelectedAnswer != nil || res.Results[1].IsCorrect {
		t.Fatalf("Results: unanswered question should have nil answer: %+v", res.Results[1])
	}
}
