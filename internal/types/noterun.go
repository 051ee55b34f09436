package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NoteRunStatusRunning   = "running"
	NoteRunStatusCompleted = "completed"
	NoteRunStatusFailed    = "failed"
)

// NoteRun records one execution of the notes pipeline for a lecture,
// including where the JSON artifact landed and what it cost.
type NoteRun struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LectureID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"lecture_id"`
	Lecture     *Lecture       `gorm:"constraint:OnDelete:CASCADE;foreignKey:LectureID;references:ID" json:"lecture,omitempty"`
	Status      string         `gorm:"not null;default:'running';index" json:"status"`
	ArtifactKey string         `json:"artifact_key"`
	NumChunks   int            `gorm:"not null;default:0" json:"num_chunks"`
	NumTopics   int            `gorm:"not null;default:0" json:"num_topics"`
	TokensUsed  int            `gorm:"not null;default:0" json:"tokens_used"`
	Error       string         `json:"error,omitempty"`
	Result      datatypes.JSON `json:"result,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (NoteRun) TableName() string { return "note_run" }
