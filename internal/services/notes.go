package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/studyforge/studyforge-backend/internal/clients/gcp"
	"github.com/studyforge/studyforge-backend/internal/clients/redis"
	"github.com/studyforge/studyforge-backend/internal/modules/notes"
	"github.com/studyforge/studyforge-backend/internal/modules/notes/steps"
	"github.com/studyforge/studyforge-backend/internal/pkg/errors"
	"github.com/studyforge/studyforge-backend/internal/platform/logger"
	"github.com/studyforge/studyforge-backend/internal/repos"
	"github.com/studyforge/studyforge-backend/internal/types"
)

type NotesService interface {
	GenerateNotes(ctx context.Context, userID, lectureID uuid.UUID) (*types.NoteRun, *steps.ResultDocument, error)
	GetLatestNotes(ctx context.Context, userID, lectureID uuid.UUID) (*steps.ResultDocument, error)
	ListRuns(ctx context.Context, userID, lectureID uuid.UUID) ([]*types.NoteRun, error)
}

type notesService struct {
	db          *gorm.DB
	log         *logger.Logger
	lectureRepo repos.LectureRepo
	noteRunRepo repos.NoteRunRepo
	bucket      gcp.BucketService
	cache       redis.NotesCache
	usecases    notes.Usecases
}

func NewNotesService(
	db *gorm.DB,
	log *logger.Logger,
	lectureRepo repos.LectureRepo,
	noteRunRepo repos.NoteRunRepo,
	bucket gcp.BucketService,
	cache redis.NotesCache,
	usecases notes.Usecases,
) NotesService {
	return &notesService{
		db:          db,
		log:         log.With("service", "NotesService"),
		lectureRepo: lectureRepo,
		noteRunRepo: noteRunRepo,
		bucket:      bucket,
		cache:       cache,
		usecases:    usecases,
	}
}

func artifactPrefix(lectureID uuid.UUID) string {
	return fmt.Sprintf("notes/%s/", lectureID)
}

func artifactKey(lectureID, runID uuid.UUID) string {
	return fmt.Sprintf("notes/%s/%s.json", lectureID, runID)
}

func (ns *notesService) GenerateNotes(ctx context.Context, userID, lectureID uuid.UUID) (*types.NoteRun, *steps.ResultDocument, error) {
	lecture, err := ns.lectureRepo.GetByID(ctx, nil, lectureID)
	if err != nil || lecture.UserID != userID {
		return nil, nil, errors.ErrNotFound
	}
	if lecture.Transcript == "" {
		return nil, nil, fmt.Errorf("%w: lecture has no transcript", errors.ErrInvalidArgument)
	}

	run := &types.NoteRun{
		ID:        uuid.New(),
		LectureID: lectureID,
		Status:    types.NoteRunStatusRunning,
	}
	if _, err := ns.noteRunRepo.Create(ctx, nil, run); err != nil {
		return nil, nil, fmt.Errorf("failed to create note run: %w", err)
	}
	ns.publishProgress(ctx, lectureID, run.ID, "started", "")

	if err := ns.cache.InvalidateResult(ctx, lectureID); err != nil {
		ns.log.Warn("Failed to invalidate cached result", "lecture_id", lectureID, "error", err)
	}

	doc, err := ns.usecases.ProcessTranscript(ctx, lecture.Transcript, lecture.Filename)
	if err != nil {
		ns.failRun(ctx, run.ID, err)
		ns.publishProgress(ctx, lectureID, run.ID, "failed", err.Error())
		return nil, nil, fmt.Errorf("notes pipeline failed: %w", err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		ns.failRun(ctx, run.ID, err)
		return nil, nil, fmt.Errorf("failed to encode result document: %w", err)
	}

	key := artifactKey(lectureID, run.ID)
	if err := ns.bucket.UploadObject(ctx, key, "application/json", bytes.NewReader(raw)); err != nil {
		ns.failRun(ctx, run.ID, err)
		return nil, nil, fmt.Errorf("failed to persist result artifact: %w", err)
	}
	ns.deleteSupersededArtifacts(ctx, lectureID, key)

	if err := ns.noteRunRepo.UpdateFields(ctx, nil, run.ID, map[string]any{
		"status":       types.NoteRunStatusCompleted,
		"artifact_key": key,
		"num_chunks":   doc.NumChunks,
		"num_topics":   doc.NumTopics,
		"tokens_used":  doc.TotalTokensUsed,
		"result":       datatypes.JSON(raw),
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to finalize note run: %w", err)
	}
	if err := ns.lectureRepo.UpdateFields(ctx, nil, lectureID, map[string]any{
		"status": types.LectureStatusProcessed,
	}); err != nil {
		ns.log.Warn("Failed to mark lecture processed", "lecture_id", lectureID, "error", err)
	}

	if err := ns.cache.SetResult(ctx, lectureID, doc); err != nil {
		ns.log.Warn("Failed to cache result document", "lecture_id", lectureID, "error", err)
	}
	ns.publishProgress(ctx, lectureID, run.ID, "completed", "")

	run.Status = types.NoteRunStatusCompleted
	run.ArtifactKey = key
	run.NumChunks = doc.NumChunks
	run.NumTopics = doc.NumTopics
	run.TokensUsed = doc.TotalTokensUsed
	run.Result = datatypes.JSON(raw)
	return run, doc, nil
}

func (ns *notesService) GetLatestNotes(ctx context.Context, userID, lectureID uuid.UUID) (*steps.ResultDocument, error) {
	lecture, err := ns.lectureRepo.GetByID(ctx, nil, lectureID)
	if err != nil || lecture.UserID != userID {
		return nil, errors.ErrNotFound
	}

	if doc, err := ns.cache.GetResult(ctx, lectureID); err == nil {
		return doc, nil
	}

	run, err := ns.noteRunRepo.GetLatestByLectureID(ctx, nil, lectureID)
	if err != nil || run.Status != types.NoteRunStatusCompleted {
		return nil, errors.ErrNotFound
	}

	raw := []byte(run.Result)
	if len(raw) == 0 && run.ArtifactKey != "" {
		r, dErr := ns.bucket.DownloadObject(ctx, run.ArtifactKey)
		if dErr != nil {
			return nil, fmt.Errorf("failed to load result artifact: %w", dErr)
		}
		defer r.Close()
		raw, dErr = io.ReadAll(r)
		if dErr != nil {
			return nil, fmt.Errorf("failed to read result artifact: %w", dErr)
		}
	}
	if len(raw) == 0 {
		return nil, errors.ErrNotFound
	}

	var doc steps.ResultDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("bad stored result document: %w", err)
	}

	if err := ns.cache.SetResult(ctx, lectureID, &doc); err != nil {
		ns.log.Warn("Failed to cache result document", "lecture_id", lectureID, "error", err)
	}
	return &doc, nil
}

func (ns *notesService) ListRuns(ctx context.Context, userID, lectureID uuid.UUID) ([]*types.NoteRun, error) {
	lecture, err := ns.lectureRepo.GetByID(ctx, nil, lectureID)
	if err != nil || lecture.UserID != userID {
		return nil, errors.ErrNotFound
	}
	return ns.noteRunRepo.ListByLectureID(ctx, nil, lectureID)
}

func (ns *notesService) failRun(ctx context.Context, runID uuid.UUID, cause error) {
	if err := ns.noteRunRepo.UpdateFields(ctx, nil, runID, map[string]any{
		"status": types.NoteRunStatusFailed,
		"error":  cause.Error(),
	}); err != nil {
		ns.log.Warn("Failed to mark note run failed", "run_id", runID, "error", err)
	}
}

func (ns *notesService) deleteSupersededArtifacts(ctx context.Context, lectureID uuid.UUID, keep string) {
	keys, err := ns.bucket.ListPrefix(ctx, artifactPrefix(lectureID))
	if err != nil {
		ns.log.Warn("Failed to list note artifacts", "lecture_id", lectureID, "error", err)
		return
	}
	for _, key := range keys {
		if key == keep {
			continue
		}
		if err := ns.bucket.DeleteObject(ctx, key); err != nil {
			ns.log.Warn("Failed to delete superseded artifact", "key", key, "error", err)
		}
	}
}

func (ns *notesService) publishProgress(ctx context.Context, lectureID, runID uuid.UUID, stage, message string) {
	ev := redis.ProgressEvent{
		LectureID: lectureID.String(),
		RunID:     runID.String(),
		Stage:     stage,
		Message:   message,
	}
	if err := ns.cache.PublishProgress(ctx, ev); err != nil {
		ns.log.Warn("Failed to publish progress event", "stage", stage, "error", err)
	}
}
