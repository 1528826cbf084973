package types

import (
	"time"

	"github.com/google/uuid"
)

type DocumentChunk struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DocumentID uuid.UUID `gorm:"type:uuid;not null;index" json:"document_id"`
	Document   *Document `gorm:"constraint:OnDelete:CASCADE;foreignKey:DocumentID;references:ID" json:"-"`
	ChunkIndex int       `gorm:"column:chunk_index;not null" json:"chunk_index"`
	PageNumber int       `gorm:"column:page_number" json:"page_number"`
	Content    string    `gorm:"column:content;not null" json:"content"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (DocumentChunk) TableName() string {
	return "document_chunk"
}
