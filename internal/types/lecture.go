package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LectureStatusUploaded    = "uploaded"
	LectureStatusTranscribed = "transcribed"
	LectureStatusProcessed   = "processed"
	LectureStatusFailed      = "failed"
)

type Lecture struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Title      string         `gorm:"not null" json:"title"`
	Filename   string         `json:"filename"`
	AudioKey   string         `json:"audio_key"` // GCS object key for the uploaded recording
	MimeType   string         `json:"mime_type"`
	Transcript string         `gorm:"type:text" json:"transcript,omitempty"`
	Status     string         `gorm:"not null;default:'uploaded';index" json:"status"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Lecture) TableName() string { return "lecture" }
