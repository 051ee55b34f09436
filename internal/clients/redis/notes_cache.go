package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/studyforge/studyforge-backend/internal/modules/notes/steps"
	pkgerrors "github.com/studyforge/studyforge-backend/internal/pkg/errors"
	"github.com/studyforge/studyforge-backend/internal/platform/logger"
	"github.com/studyforge/studyforge-backend/internal/utils"
)

// NotesCache keeps the latest result document per lecture and broadcasts
// run progress on a pub/sub channel.
type NotesCache interface {
	SetResult(ctx context.Context, lectureID uuid.UUID, doc *steps.ResultDocument) error
	GetResult(ctx context.Context, lectureID uuid.UUID) (*steps.ResultDocument, error)
	InvalidateResult(ctx context.Context, lectureID uuid.UUID) error
	PublishProgress(ctx context.Context, ev ProgressEvent) error
	Close() error
}

type ProgressEvent struct {
	LectureID string `json:"lecture_id"`
	RunID     string `json:"run_id"`
	Stage     string `json:"stage"`
	Message   string `json:"message,omitempty"`
}

type notesCache struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
	ttl     time.Duration
}

func NewNotesCache(log *logger.Logger) (NotesCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := utils.GetEnv("REDIS_ADDR", "", log)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	channel := utils.GetEnv("REDIS_PROGRESS_CHANNEL", "notes-progress", log)
	ttlMinutes := utils.GetEnvAsInt("REDIS_RESULT_TTL_MINUTES", 720, log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &notesCache{
		log:     log.With("client", "NotesCache"),
		rdb:     rdb,
		channel: channel,
		ttl:     time.Duration(ttlMinutes) * time.Minute,
	}, nil
}

func resultKey(lectureID uuid.UUID) string {
	return "notes:result:" + lectureID.String()
}

func (c *notesCache) SetResult(ctx context.Context, lectureID uuid.UUID, doc *steps.ResultDocument) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("notes cache not initialized")
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, resultKey(lectureID), raw, c.ttl).Err()
}

func (c *notesCache) GetResult(ctx context.Context, lectureID uuid.UUID) (*steps.ResultDocument, error) {
	if c == nil || c.rdb == nil {
		return nil, fmt.Errorf("notes cache not initialized")
	}
	raw, err := c.rdb.Get(ctx, resultKey(lectureID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	var doc steps.ResultDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("bad cached result document: %w", err)
	}
	return &doc, nil
}

func (c *notesCache) InvalidateResult(ctx context.Context, lectureID uuid.UUID) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("notes cache not initialized")
	}
	return c.rdb.Del(ctx, resultKey(lectureID)).Err()
}

func (c *notesCache) PublishProgress(ctx context.Context, ev ProgressEvent) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("notes cache not initialized")
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return c.rdb.Publish(ctx, c.channel, raw).Err()
}

func (c *notesCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
