package repos_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/scholarmate/scholarmate-backend/internal/repos"
	"github.com/scholarmate/scholarmate-backend/internal/repos/testutil"
	"github.com/scholarmate/scholarmate-backend/internal/types"
)

func TestQuizRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := repos.NewQuizRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "quizrepo@example.com")
	doc := testutil.SeedDocument(t, ctx, tx, user.ID, types.DocumentStatusReady)
	quiz := testutil.SeedQuiz(t, ctx, tx, user.ID, doc.ID, []string{"a", "b", "c"})

	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{quiz.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("GetByIDs: expected 1 quiz, got %d", len(got))
	}
	if len(got[0].Questions) != 3 {
		t.Fatalf("GetByIDs: expected 3 preloaded questions, got %d", len(got[0].Questions))
	}
	for i, q := range got[0].Questions {
		if q.Index != i {
			t.Fatalf("GetByIDs: questions out of order at %d: %+v", i, q)
		}
	}

	listed, err := repo.ListByDocumentID(ctx, tx, user.ID, doc.ID)
	if err != nil {
		t.Fatalf("ListByDocumentID: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != quiz.ID {
		t.Fatalf("ListByDocumentID: unexpected result: %+v", listed)
	}

	other := testutil.SeedUser(t, ctx, tx, "quizrepo-other@example.com")
	listed, err = repo.ListByDocumentID(ctx, tx, other.ID, doc.ID)
	if err != nil {
		t.Fatalf("ListByDocumentID (other user): %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("ListByDocumentID (other user): expected no quizzes, got %d", len(listed))
	}
}

func TestQuizRepoCompleteOnce(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := repos.NewQuizRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "quizcomplete@example.com")
	doc := testutil.SeedDocument(t, ctx, tx, user.ID, types.DocumentStatusReady)
	quiz := testutil.SeedQuiz(t, ctx, tx, user.ID, doc.ID, []string{"a", "b"})

	answers := datatypes.JSON([]byte(`[{"questionIndex":0,"selectedAnswer":"a","isCorrect":true,"answeredAt":"2026-01-01T00:00:00Z"}]`))

	won, err := repo.Complete(ctx, tx, quiz.ID, answers, 50, time.Now())
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !won {
		t.Fatalf("Complete: expected first completion to win")
	}

	// Second completion must lose the conditional update.
	won, err = repo.Complete(ctx, tx, quiz.ID, datatypes.JSON([]byte(`[]`)), 0, time.Now())
	if err != nil {
		t.Fatalf("Complete (second): %v", err)
	}
	if won {
		t.Fatalf("Complete (second): expected already-completed quiz to reject")
	}

	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{quiz.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 1 || got[0].Score == nil || *got[0].Score != 50 {
		t.Fatalf("GetByIDs: first submission state not preserved: %+v", got)
	}
	if got[0].CompletedAt == nil {
		t.Fatalf("GetByIDs: expected completed_at to be set")
	}
}

func TestQuizRepoSoftDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := repos.NewQuizRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "quizdelete@example.com")
	doc := testutil.SeedDocument(t, ctx, tx, user.ID, types.DocumentStatusReady)
	quiz := testutil.SeedQuiz(t, ctx, tx, user.ID, doc.ID, []string{"a"})

	if err := repo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{quiz.ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}
	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{quiz.ID})
	if err != nil {
		t.Fatalf("GetByIDs after delete: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("GetByIDs after delete: expected no quizzes, got %d", len(got))
	}
}
