package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/studyforge/studyforge-backend/internal/repos/testutil"
	"github.com/studyforge/studyforge-backend/internal/types"
)

func TestLectureRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewLectureRepo(db, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "lecturer@example.com")
	other := testutil.SeedUser(t, ctx, tx, "other-lecturer@example.com")

	l1 := &types.Lecture{
		ID:       uuid.New(),
		UserID:   user.ID,
		Title:    "Calculus I",
		Filename: "calc.mp3",
		MimeType: "audio/mpeg",
		Status:   types.LectureStatusUploaded,
	}
	if _, err := repo.Create(ctx, tx, l1); err != nil {
		t.Fatalf("Create: %v", err)
	}
	testutil.SeedLecture(t, ctx, tx, user.ID, "Calculus II")
	testutil.SeedLecture(t, ctx, tx, other.ID, "Biology")

	if got, err := repo.GetByID(ctx, tx, l1.ID); err != nil || got == nil || got.Title != "Calculus I" {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if _, err := repo.GetByID(ctx, tx, uuid.New()); err == nil {
		t.Fatal("GetByID on missing lecture must error")
	}
	if got, err := repo.ListByUserID(ctx, tx, user.ID); err != nil || len(got) != 2 {
		t.Fatalf("ListByUserID: len=%d err=%v", len(got), err)
	}

	fields := map[string]any{
		"status":     types.LectureStatusTranscribed,
		"transcript": "today we cover derivatives",
	}
	if err := repo.UpdateFields(ctx, tx, l1.ID, fields); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err := repo.GetByID(ctx, tx, l1.ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if got.Status != types.LectureStatusTranscribed || got.Transcript == "" {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := repo.DeleteByID(ctx, tx, l1.ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if _, err := repo.GetByID(ctx, tx, l1.ID); err == nil {
		t.Fatal("deleted lecture still readable")
	}
	if got, err := repo.ListByUserID(ctx, tx, user.ID); err != nil || len(got) != 1 {
		t.Fatalf("ListByUserID after delete: len=%d err=%v", len(got), err)
	}
}
