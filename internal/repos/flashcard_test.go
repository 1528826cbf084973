package repos_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/scholarmate/scholarmate-backend/internal/repos"
	"github.com/scholarmate/scholarmate-backend/internal/repos/testutil"
	"github.com/scholarmate/scholarmate-backend/internal/types"
)

func TestFlashcardRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := repos.NewFlashcardRepo(db, testutil.Logger(t))
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "flashcardrepo@example.com")
	doc := testutil.SeedDocument(t, ctx, tx, user.ID, types.DocumentStatusReady)
	set, cards := testutil.SeedFlashcardSet(t, ctx, tx, user.ID, doc.ID, 3)

	sets, err := repo.ListSetsByUserID(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("ListSetsByUserID: %v", err)
	}
	if len(sets) != 1 || sets[0].ID != set.ID {
		t.Fatalf("ListSetsByUserID: unexpected result: %+v", sets)
	}

	byDoc, err := repo.ListSetsByDocumentID(ctx, tx, user.ID, doc.ID)
	if err != nil {
		t.Fatalf("ListSetsByDocumentID: %v", err)
	}
	if len(byDoc) != 1 {
		t.Fatalf("ListSetsByDocumentID: expected 1 set, got %d", len(byDoc))
	}

	gotCards, err := repo.GetCardsBySetIDs(ctx, tx, []uuid.UUID{set.ID})
	if err != nil {
		t.Fatalf("GetCardsBySetIDs: %v", err)
	}
	if len(gotCards) != 3 {
		t.Fatalf("GetCardsBySetIDs: expected 3 cards, got %d", len(gotCards))
	}
	for i, c := range gotCards {
		if c.Index != i {
			t.Fatalf("GetCardsBySetIDs: cards out of order at %d: %+v", i, c)
		}
	}

	if err := repo.RecordReview(ctx, tx, cards[0].ID, true, time.Now()); err != nil {
		t.Fatalf("RecordReview (correct): %v", err)
	}
	if err := repo.RecordReview(ctx, tx, cards[0].ID, false, time.Now()); err != nil {
		t.Fatalf("RecordReview (incorrect): %v", err)
	}
	reviewed, err := repo.GetCardsByIDs(ctx, tx, []uuid.UUID{cards[0].ID})
	if err != nil {
		t.Fatalf("GetCardsByIDs: %v", err)
	}
	if len(reviewed) != 1 {
		t.Fatalf("GetCardsByIDs: expected 1 card, got %d", len(reviewed))
	}
	if reviewed[0].ReviewCount != 2 || reviewed[0].CorrectCount != 1 {
		t.Fatalf("RecordReview: counters wrong: review=%d correct=%d", reviewed[0].ReviewCount, reviewed[0].CorrectCount)
	}
	if reviewed[0].LastReviewedAt == nil {
		t.Fatalf("RecordReview: expected last_reviewed_at to be set")
	}

	if err := repo.SetStarred(ctx, tx, cards[1].ID, true); err != nil {
		t.Fatalf("SetStarred: %v", err)
	}
	starred, err := repo.GetCardsByIDs(ctx, tx, []uuid.UUID{cards[1].ID})
	if err != nil {
		t.Fatalf("GetCardsByIDs (starred): %v", err)
	}
	if len(starred) != 1 || !starred[0].Starred {
		t.Fatalf("SetStarred: expected card to be starred: %+v", starred)
	}

	if err := repo.FullDeleteCardsBySetIDs(ctx, tx, []uuid.UUID{set.ID}); err != nil {
		t.Fatalf("FullDeleteCardsBySetIDs: %v", err)
	}
	if err := repo.SoftDeleteSetsByIDs(ctx, tx, []uuid.UUID{set.ID}); err != nil {
		t.Fatalf("SoftDeleteSetsByIDs: %v", err)
	}
	sets, err = repo.ListSetsByUserID(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("ListSetsByUserID after delete: %v", err)
	}
	if len(sets) != 0 {
		t.Fatalf("ListSetsByUserID after delete: expected no sets, got %d", len(sets))
	}
}
