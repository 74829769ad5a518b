package survey

import (
	"errors"
	"fmt"

	"github.com/mbolis/survey-api/model"
)

// Sentinel errors raised by the survey and response services. Callers check
// them with errors.Is; the HTTP layer maps them to status codes.
var (
	ErrNotFound     = errors.New("survey not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotPublished = errors.New("survey is not published")
	ErrExpired      = errors.New("survey has expired and no longer accepts responses")
)

// ErrValidation is the common class of all input policy violations, so the
// whole family maps to a single client error status.
var ErrValidation = errors.New("validation failed")

var (
	ErrEmptyTitle       = fmt.Errorf("%w: title must not be empty", ErrValidation)
	ErrNoQuestions      = fmt.Errorf("%w: cannot publish survey without questions", ErrValidation)
	ErrTooManyQuestions = fmt.Errorf("%w: cannot add more than %d questions to a survey", ErrValidation, model.MaxQuestionsPerSurvey)
	ErrImageTooLarge    = fmt.Errorf("%w: image exceeds the maximum size of 2MB", ErrValidation)
)
