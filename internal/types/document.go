package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DocumentStatusProcessing = "processing"
	DocumentStatusReady      = "ready"
	DocumentStatusFailed     = "failed"
)

type Document struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index:idx_document_user_created" json:"user_id"`
	User           *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	OriginalName   string         `gorm:"column:original_name;not null" json:"original_name"`
	MimeType       string         `gorm:"column:mime_type" json:"mime_type"`
	SizeBytes      int64          `gorm:"column:size_bytes" json:"size_bytes"`
	StorageKey     string         `gorm:"column:storage_key;not null" json:"storage_key"`
	FileURL        string         `gorm:"column:file_url" json:"file_url"`
	ExtractedText  string         `gorm:"column:extracted_text" json:"-"`
	PageCount      int            `gorm:"column:page_count" json:"page_count"`
	Status         string         `gorm:"column:status;not null;default:'processing'" json:"status"`
	LastAccessedAt *time.Time     `gorm:"column:last_accessed_at" json:"last_accessed_at,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:now();index:idx_document_user_created,sort:desc" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Document) TableName() string { return "document" }
