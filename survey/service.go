package survey

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/mbolis/survey-api/log"
	"github.com/mbolis/survey-api/model"
	"github.com/mbolis/survey-api/storage"
)

// SurveyInput carries the owner-editable survey attributes. Expiry is never
// part of it: it is always recomputed from the duration fields.
type SurveyInput struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	DurationValue *int   `json:"durationValue"`
	DurationUnit  string `json:"durationUnit"`
}

// Service enforces the survey lifecycle: ownership, the question limit,
// publish gating and expiry derivation. All state lives in the injected
// repositories.
type Service struct {
	surveys   storage.SurveyRepository
	responses storage.ResponseRepository
	now       func() time.Time
}

func NewService(surveys storage.SurveyRepository, responses storage.ResponseRepository) *Service {
	return &Service{
		surveys:   surveys,
		responses: responses,
		now:       time.Now,
	}
}

func newID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// Create stores a new unpublished survey with no questions.
func (s *Service) Create(ctx context.Context, in SurveyInput, ownerID string) (*model.Survey, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrEmptyTitle
	}

	now := s.now()
	survey := &model.Survey{
		ID:            newID(),
		Title:         in.Title,
		Description:   in.Description,
		CreatedBy:     ownerID,
		CreatedAt:     now,
		UpdatedAt:     now,
		Published:     false,
		DurationValue: in.DurationValue,
		DurationUnit:  in.DurationUnit,
		ExpiresAt:     ExpiresAt(in.DurationValue, in.DurationUnit, now),
		Questions:     []model.Question{},
	}

	log.Debugf("survey.create: %s by %s", survey.ID, ownerID)
	if err := s.surveys.Save(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// Get fetches a survey by id with no ownership check: any authenticated
// caller may load it for the editor view.
func (s *Service) Get(ctx context.Context, id string) (*model.Survey, error) {
	survey, err := s.surveys.FindByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return survey, nil
}

// GetPublic fetches a survey for anonymous respondents: it must be
// published and, if it carries an expiry, not yet past it.
func (s *Service) GetPublic(ctx context.Context, id string) (*model.Survey, error) {
	survey, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !survey.Published {
		return nil, ErrNotPublished
	}
	if survey.ExpiresAt != nil && s.now().After(*survey.ExpiresAt) {
		return nil, ErrExpired
	}
	return survey, nil
}

func (s *Service) ListAll(ctx context.Context) ([]model.Survey, error) {
	return s.surveys.FindAll(ctx)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]model.Survey, error) {
	return s.surveys.FindByOwner(ctx, ownerID)
}

func (s *Service) ListPublished(ctx context.Context) ([]model.Survey, error) {
	return s.surveys.FindByPublished(ctx, true)
}

// Update overwrites the editable attributes and recomputes expiry from
// scratch, even when the duration fields did not change. A published survey
// drops back to draft and must be republished.
func (s *Service) Update(ctx context.Context, id string, in SurveyInput, ownerID string) (*model.Survey, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrEmptyTitle
	}

	survey, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if survey.CreatedBy != ownerID {
		return nil, ErrUnauthorized
	}

	now := s.now()
	survey.Title = in.Title
	survey.Description = in.Description
	survey.DurationValue = in.DurationValue
	survey.DurationUnit = in.DurationUnit
	survey.ExpiresAt = ExpiresAt(in.DurationValue, in.DurationUnit, now)
	survey.UpdatedAt = now
	survey.Published = false

	if err := s.surveys.Save(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// Delete removes a survey and cascades over its responses. The two
// repositories are independent, so the cascade is not transactional: a crash
// in between leaves orphaned responses behind.
func (s *Service) Delete(ctx context.Context, id string, ownerID string) error {
	survey, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if survey.CreatedBy != ownerID {
		return ErrUnauthorized
	}

	responses, err := s.responses.FindBySurveyID(ctx, id)
	if err != nil {
		return err
	}
	for _, response := range responses {
		if err := s.responses.DeleteByID(ctx, response.ID); err != nil {
			return err
		}
	}

	log.Debugf("survey.delete: %s (%d responses)", id, len(responses))
	return s.surveys.DeleteByID(ctx, id)
}

// Publish opens a survey to anonymous respondents. It requires at least one
// question.
func (s *Service) Publish(ctx context.Context, id string, ownerID string) (*model.Survey, error) {
	survey, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if survey.CreatedBy != ownerID {
		return nil, ErrUnauthorized
	}
	if len(survey.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	survey.Published = true
	survey.UpdatedAt = s.now()

	if err := s.surveys.Save(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// AddQuestion appends a question, assigning it a fresh id. Insertion order
// is preserved.
func (s *Service) AddQuestion(ctx context.Context, surveyID string, question model.Question, ownerID string) (*model.Survey, error) {
	survey, err := s.Get(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey.CreatedBy != ownerID {
		return nil, ErrUnauthorized
	}
	if len(survey.Questions) >= model.MaxQuestionsPerSurvey {
		return nil, ErrTooManyQuestions
	}
	if err := ValidateImageSize(question.ImageURL); err != nil {
		return nil, err
	}

	question.ID = newID()
	question.SurveyID = surveyID

	log.Debugf("survey.add_question: %s to %s", question.ID, surveyID)
	survey.Questions = append(survey.Questions, question)
	survey.UpdatedAt = s.now()
	survey.Published = false

	if err := s.surveys.Save(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// UpdateQuestion replaces a question in place, keeping its id and position.
// An unknown question id is silently ignored: the survey still gets its
// timestamp bumped and its published flag cleared.
func (s *Service) UpdateQuestion(ctx context.Context, surveyID, questionID string, updated model.Question, ownerID string) (*model.Survey, error) {
	survey, err := s.Get(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey.CreatedBy != ownerID {
		return nil, ErrUnauthorized
	}
	if err := ValidateImageSize(updated.ImageURL); err != nil {
		return nil, err
	}

	for i := range survey.Questions {
		if survey.Questions[i].ID == questionID {
			updated.ID = questionID
			updated.SurveyID = surveyID
			survey.Questions[i] = updated
			break
		}
	}

	survey.UpdatedAt = s.now()
	survey.Published = false

	if err := s.surveys.Save(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// DeleteQuestion removes a question if present. Deleting an absent question
// is a no-op, so the call is idempotent.
func (s *Service) DeleteQuestion(ctx context.Context, surveyID, questionID string, ownerID string) (*model.Survey, error) {
	survey, err := s.Get(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey.CreatedBy != ownerID {
		return nil, ErrUnauthorized
	}

	questions := make([]model.Question, 0, len(survey.Questions))
	for _, q := range survey.Questions {
		if q.ID != questionID {
			questions = append(questions, q)
		}
	}
	survey.Questions = questions
	survey.UpdatedAt = s.now()
	survey.Published = false

	if err := s.surveys.Save(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}
