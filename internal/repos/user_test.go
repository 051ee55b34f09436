package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/studyforge/studyforge-backend/internal/repos/testutil"
	"github.com/studyforge/studyforge-backend/internal/types"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewUserRepo(db, testutil.Logger(t))

	u1 := &types.User{ID: uuid.New(), Email: "ada@example.com", PasswordHash: "h1", FirstName: "Ada"}
	u2 := &types.User{ID: uuid.New(), Email: "alan@example.com", PasswordHash: "h2", FirstName: "Alan"}

	if _, err := repo.Create(ctx, tx, []*types.User{u1, u2}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{u1.ID, u2.ID}); err != nil || len(got) != 2 {
		t.Fatalf("GetByIDs: len=%d err=%v", len(got), err)
	}
	if got, err := repo.GetByIDs(ctx, tx, nil); err != nil || len(got) != 0 {
		t.Fatalf("GetByIDs empty input: len=%d err=%v", len(got), err)
	}
	if got, err := repo.GetByEmail(ctx, tx, u1.Email); err != nil || got == nil || got.ID != u1.ID {
		t.Fatalf("GetByEmail: got=%v err=%v", got, err)
	}
	if _, err := repo.GetByEmail(ctx, tx, "nobody@example.com"); err == nil {
		t.Fatal("GetByEmail on missing user must error")
	}
	if exists, err := repo.EmailExists(ctx, tx, u2.Email); err != nil || !exists {
		t.Fatalf("EmailExists: exists=%v err=%v", exists, err)
	}
	if exists, err := repo.EmailExists(ctx, tx, "nobody@example.com"); err != nil || exists {
		t.Fatalf("EmailExists on missing user: exists=%v err=%v", exists, err)
	}
}
