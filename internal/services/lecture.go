package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studyforge/studyforge-backend/internal/clients/gcp"
	"github.com/studyforge/studyforge-backend/internal/pkg/errors"
	"github.com/studyforge/studyforge-backend/internal/platform/logger"
	"github.com/studyforge/studyforge-backend/internal/repos"
	"github.com/studyforge/studyforge-backend/internal/types"
)

type LectureService interface {
	UploadLecture(ctx context.Context, userID uuid.UUID, title, filename, mimeType string, audio io.Reader) (*types.Lecture, error)
	TranscribeLecture(ctx context.Context, userID, lectureID uuid.UUID) (*types.Lecture, error)
	SubmitTranscript(ctx context.Context, userID, lectureID uuid.UUID, transcript string) (*types.Lecture, error)
	GetLecture(ctx context.Context, userID, lectureID uuid.UUID) (*types.Lecture, error)
	ListLectures(ctx context.Context, userID uuid.UUID) ([]*types.Lecture, error)
	DeleteLecture(ctx context.Context, userID, lectureID uuid.UUID) error
}

type lectureService struct {
	db          *gorm.DB
	log         *logger.Logger
	lectureRepo repos.LectureRepo
	bucket      gcp.BucketService
	speech      gcp.Speech
}

func NewLectureService(
	db *gorm.DB,
	log *logger.Logger,
	lectureRepo repos.LectureRepo,
	bucket gcp.BucketService,
	speech gcp.Speech,
) LectureService {
	return &lectureService{
		db:          db,
		log:         log.With("service", "LectureService"),
		lectureRepo: lectureRepo,
		bucket:      bucket,
		speech:      speech,
	}
}

func audioKeyFor(lectureID uuid.UUID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("audio/%s/original%s", lectureID, ext)
}

func (ls *lectureService) UploadLecture(ctx context.Context, userID uuid.UUID, title, filename, mimeType string, audio io.Reader) (*types.Lecture, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	if title == "" {
		return nil, fmt.Errorf("%w: title or filename required", errors.ErrInvalidArgument)
	}

	lecture := &types.Lecture{
		ID:       uuid.New(),
		UserID:   userID,
		Title:    title,
		Filename: filename,
		MimeType: mimeType,
		Status:   types.LectureStatusUploaded,
	}
	lecture.AudioKey = audioKeyFor(lecture.ID, filename)

	if err := ls.bucket.UploadObject(ctx, lecture.AudioKey, mimeType, audio); err != nil {
		return nil, fmt.Errorf("failed to upload lecture audio: %w", err)
	}

	if _, err := ls.lectureRepo.Create(ctx, nil, lecture); err != nil {
		// best effort: don't leave an orphaned object behind
		if dErr := ls.bucket.DeleteObject(ctx, lecture.AudioKey); dErr != nil {
			ls.log.Warn("Failed to clean up orphaned audio object", "key", lecture.AudioKey, "error", dErr)
		}
		return nil, fmt.Errorf("failed to create lecture: %w", err)
	}
	return lecture, nil
}

func (ls *lectureService) TranscribeLecture(ctx context.Context, userID, lectureID uuid.UUID) (*types.Lecture, error) {
	lecture, err := ls.getOwned(ctx, userID, lectureID)
	if err != nil {
		return nil, err
	}
	if lecture.AudioKey == "" {
		return nil, fmt.Errorf("%w: lecture has no audio", errors.ErrInvalidArgument)
	}

	text, err := ls.speech.TranscribeAudioGCS(ctx, ls.bucket.ObjectURI(lecture.AudioKey), gcp.SpeechConfig{
		MimeType:                   lecture.MimeType,
		EnableAutomaticPunctuation: true,
	})
	if err != nil {
		_ = ls.lectureRepo.UpdateFields(ctx, nil, lectureID, map[string]any{"status": types.LectureStatusFailed})
		return nil, fmt.Errorf("failed to transcribe lecture: %w", err)
	}

	if err := ls.lectureRepo.UpdateFields(ctx, nil, lectureID, map[string]any{
		"transcript": text,
		"status":     types.LectureStatusTranscribed,
	}); err != nil {
		return nil, fmt.Errorf("failed to save transcript: %w", err)
	}
	lecture.Transcript = text
	lecture.Status = types.LectureStatusTranscribed
	return lecture, nil
}

func (ls *lectureService) SubmitTranscript(ctx context.Context, userID, lectureID uuid.UUID, transcript string) (*types.Lecture, error) {
	lecture, err := ls.getOwned(ctx, userID, lectureID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("%w: transcript is empty", errors.ErrInvalidArgument)
	}

	if err := ls.lectureRepo.UpdateFields(ctx, nil, lectureID, map[string]any{
		"transcript": transcript,
		"status":     types.LectureStatusTranscribed,
	}); err != nil {
		return nil, fmt.Errorf("failed to save transcript: %w", err)
	}
	lecture.Transcript = transcript
	lecture.Status = types.LectureStatusTranscribed
	return lecture, nil
}

func (ls *lectureService) GetLecture(ctx context.Context, userID, lectureID uuid.UUID) (*types.Lecture, error) {
	return ls.getOwned(ctx, userID, lectureID)
}

func (ls *lectureService) ListLectures(ctx context.Context, userID uuid.UUID) ([]*types.Lecture, error) {
	return ls.lectureRepo.ListByUserID(ctx, nil, userID)
}

func (ls *lectureService) DeleteLecture(ctx context.Context, userID, lectureID uuid.UUID) error {
	if _, err := ls.getOwned(ctx, userID, lectureID); err != nil {
		return err
	}
	if err := ls.lectureRepo.DeleteByID(ctx, nil, lectureID); err != nil {
		return fmt.Errorf("failed to delete lecture: %w", err)
	}
	// Stored objects go best-effort; the row is already gone.
	for _, prefix := range []string{
		fmt.Sprintf("audio/%s/", lectureID),
		fmt.Sprintf("notes/%s/", lectureID),
	} {
		if err := ls.bucket.DeletePrefix(ctx, prefix); err != nil {
			ls.log.Warn("Failed to delete lecture objects", "prefix", prefix, "error", err)
		}
	}
	return nil
}

func (ls *lectureService) getOwned(ctx context.Context, userID, lectureID uuid.UUID) (*types.Lecture, error) {
	lecture, err := ls.lectureRepo.GetByID(ctx, nil, lectureID)
	if err != nil {
		return nil, errors.ErrNotFound
	}
	if lecture.UserID != userID {
		return nil, errors.ErrNotFound
	}
	return lecture, nil
}
