package model

import "time"

// Duration units accepted when deriving a survey expiry.
const (
	DurationNone    = "none"
	DurationMinutes = "minutes"
	DurationHours   = "hours"
	DurationDays    = "days"
)

// Question types.
const (
	QuestionText           = "TEXT"
	QuestionSingleChoice   = "SINGLE_CHOICE"
	QuestionMultipleChoice = "MULTIPLE_CHOICE"
)

const (
	MaxQuestionsPerSurvey = 100
	MaxImageSizeBytes     = 2 * 1024 * 1024
)

type Survey struct {
	ID            string     `json:"id" bson:"_id"`
	Title         string     `json:"title" bson:"title"`
	Description   string     `json:"description,omitempty" bson:"description"`
	CreatedBy     string     `json:"createdBy" bson:"createdBy"`
	CreatedAt     time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updatedAt"`
	Published     bool       `json:"published" bson:"published"`
	DurationValue *int       `json:"durationValue,omitempty" bson:"durationValue,omitempty"`
	DurationUnit  string     `json:"durationUnit,omitempty" bson:"durationUnit,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"`
	Questions     []Question `json:"questions" bson:"questions"`
}

type Question struct {
	ID       string   `json:"id,omitempty" bson:"id"`
	SurveyID string   `json:"surveyId,omitempty" bson:"surveyId"`
	Title    string   `json:"title" bson:"title"`
	Type     string   `json:"type" bson:"type"`
	Options  []string `json:"options,omitempty" bson:"options,omitempty"`
	Required bool     `json:"required" bson:"required"`
	Order    int      `json:"order" bson:"order"`
	ImageURL string   `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
}

type SurveyResponse struct {
	ID           string    `json:"id" bson:"_id"`
	SurveyID     string    `json:"surveyId" bson:"surveyId"`
	RespondentID string    `json:"respondentId" bson:"respondentId"`
	Answers      []Answer  `json:"answers" bson:"answers"`
	CompletedAt  time.Time `json:"completedAt" bson:"completedAt"`
}

// Answer values are always a list of strings: single-valued question types
// just carry one element.
type Answer struct {
	QuestionID string   `json:"questionId" bson:"questionId"`
	Value      []string `json:"value" bson:"value"`
}

type User struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}
