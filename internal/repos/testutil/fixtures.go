package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/studyforge/studyforge-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "A",
		LastName:     "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedUserToken(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, expiresAt time.Time, revoked bool) *types.UserToken {
	tb.Helper()
	t := &types.UserToken{
		ID:               uuid.New(),
		UserID:           userID,
		RefreshTokenHash: "hash",
		ExpiresAt:        expiresAt,
		Revoked:          revoked,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed user token: %v", err)
	}
	return t
}

func SeedLecture(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, title string) *types.Lecture {
	tb.Helper()
	l := &types.Lecture{
		ID:       uuid.New(),
		UserID:   userID,
		Title:    title,
		Filename: "lecture.mp3",
		AudioKey: "audio/" + title,
		MimeType: "audio/mpeg",
		Status:   types.LectureStatusUploaded,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lecture: %v", err)
	}
	return l
}

func SeedNoteRun(tb testing.TB, ctx context.Context, tx *gorm.DB, lectureID uuid.UUID, status string) *types.NoteRun {
	tb.Helper()
	r := &types.NoteRun{
		ID:        uuid.New(),
		LectureID: lectureID,
		Status:    status,
		Result:    datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed note run: %v", err)
	}
	return r
}
