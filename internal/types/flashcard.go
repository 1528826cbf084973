package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ValidDifficulty reports whether d is one of the three difficulty levels.
func ValidDifficulty(d string) bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

type FlashcardSet struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	DocumentID uuid.UUID      `gorm:"type:uuid;not null;index" json:"document_id"`
	Document   *Document      `gorm:"constraint:OnDelete:CASCADE;foreignKey:DocumentID;references:ID" json:"document,omitempty"`
	Title      string         `gorm:"column:title;not null" json:"title"`
	CardCount  int            `gorm:"column:card_count;not null" json:"card_count"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (FlashcardSet) TableName() string { return "flashcard_set" }

// Flashcard question and answer are immutable once stored; only the review
// bookkeeping fields mutate.
type Flashcard struct {
	ID             uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SetID          uuid.UUID     `gorm:"type:uuid;not null;index" json:"set_id"`
	Set            *FlashcardSet `gorm:"constraint:OnDelete:CASCADE;foreignKey:SetID;references:ID" json:"-"`
	Index          int           `gorm:"column:index;not null" json:"index"`
	Question       string        `gorm:"column:question;not null" json:"question"`
	Answer         string        `gorm:"column:answer;not null" json:"answer"`
	Difficulty     string        `gorm:"column:difficulty;not null;default:'medium'" json:"difficulty"`
	Starred        bool          `gorm:"column:starred;not null;default:false" json:"starred"`
	ReviewCount    int           `gorm:"column:review_count;not null;default:0" json:"review_count"`
	CorrectCount   int           `gorm:"column:correct_count;not null;default:0" json:"correct_count"`
	LastReviewedAt *time.Time    `gorm:"column:last_reviewed_at" json:"last_reviewed_at,omitempty"`
	CreatedAt      time.Time     `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null;default:now()" json:"updated_at"`
}

func (Flashcard) TableName() string { return "flashcard" }
