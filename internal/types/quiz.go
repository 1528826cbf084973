package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz is generated once, submitted at most once, and immutable afterwards.
// UserAnswers holds the submitted answer records as a JSON array.
type Quiz struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User           *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	DocumentID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"document_id"`
	Document       *Document      `gorm:"constraint:OnDelete:CASCADE;foreignKey:DocumentID;references:ID" json:"document,omitempty"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	TotalQuestions int            `gorm:"column:total_questions;not null" json:"total_questions"`
	Score          *int           `gorm:"column:score" json:"score,omitempty"`
	UserAnswers    datatypes.JSON `gorm:"type:jsonb;column:user_answers" json:"user_answers,omitempty"`
	CompletedAt    *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	Questions      []QuizQuestion `gorm:"foreignKey:QuizID;references:ID" json:"questions,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Quiz) TableName() string { return "quiz" }

// QuizQuestion always carries exactly four options; the normalizer enforces
// that before anything is persisted.
type QuizQuestion struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuizID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Index         int            `gorm:"column:index;not null" json:"index"`
	Question      string         `gorm:"column:question;not null" json:"question"`
	Options       datatypes.JSON `gorm:"type:jsonb;column:options;not null" json:"options"`
	CorrectAnswer string         `gorm:"column:correct_answer;not null" json:"correct_answer"`
	Explanation   string         `gorm:"column:explanation" json:"explanation,omitempty"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (QuizQuestion) TableName() string { return "quiz_question" }

// UserAnswer is one element of Quiz.UserAnswers.
type UserAnswer struct {
	QuestionIndex  int       `json:"questionIndex"`
	SelectedAnswer string    `json:"selectedAnswer"`
	IsCorrect      bool      `json:"isCorrect"`
	AnsweredAt     time.Time `json:"answeredAt"`
}
