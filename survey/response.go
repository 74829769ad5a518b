package survey

import (
	"context"
	"time"

	"github.com/mbolis/survey-api/log"
	"github.com/mbolis/survey-api/model"
	"github.com/mbolis/survey-api/storage"
)

// SubmissionInput is what an anonymous respondent sends: a self-reported
// email and one value list per answered question.
type SubmissionInput struct {
	RespondentEmail string         `json:"respondentEmail"`
	Answers         []model.Answer `json:"answers"`
}

// ResponseService records respondent submissions. Responses are immutable
// once stored and only ever removed by the survey delete cascade.
type ResponseService struct {
	responses storage.ResponseRepository
	surveys   *Service
	now       func() time.Time
}

func NewResponseService(responses storage.ResponseRepository, surveys *Service) *ResponseService {
	return &ResponseService{
		responses: responses,
		surveys:   surveys,
		now:       time.Now,
	}
}

// Submit validates expiry and stores the response. It does not require the
// survey to be published: a draft survey stays reachable to respondents
// through an owner-shared link. Answers are stored as given, without
// cross-checking question ids against the survey's current question set.
func (s *ResponseService) Submit(ctx context.Context, surveyID string, in SubmissionInput) (*model.SurveyResponse, error) {
	survey, err := s.surveys.Get(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if survey.ExpiresAt != nil && now.After(*survey.ExpiresAt) {
		return nil, ErrExpired
	}

	answers := in.Answers
	if answers == nil {
		answers = []model.Answer{}
	}

	response := &model.SurveyResponse{
		ID:           newID(),
		SurveyID:     surveyID,
		RespondentID: in.RespondentEmail,
		Answers:      answers,
		CompletedAt:  now,
	}

	log.Debugf("response.submit: %s to survey %s", response.ID, surveyID)
	if err := s.responses.Save(ctx, response); err != nil {
		return nil, err
	}
	return response, nil
}

// ListBySurvey returns every response for a survey, unordered. Intentionally
// unrestricted: clients use it to detect prior participation.
func (s *ResponseService) ListBySurvey(ctx context.Context, surveyID string) ([]model.SurveyResponse, error) {
	return s.responses.FindBySurveyID(ctx, surveyID)
}
