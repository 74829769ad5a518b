// Package memory is an in-process storage backend: mutex-guarded maps,
// constructed explicitly and injected at startup. Useful for tests and for
// running without any external store.
package memory

import (
	"context"
	"sync"

	"github.com/mbolis/survey-api/model"
	"github.com/mbolis/survey-api/storage"
)

func NewStore() *storage.Store {
	return storage.NewStore(
		&surveyRepository{surveys: map[string]model.Survey{}},
		&responseRepository{responses: map[string]model.SurveyResponse{}},
		&userRepository{users: map[string]model.User{}},
		nil,
	)
}

type surveyRepository struct {
	mu      sync.RWMutex
	surveys map[string]model.Survey
}

// cloneSurvey detaches the aggregate from the caller: the Questions backing
// array must never be shared between the map and the outside, or callers
// would mutate stored state without holding the repository mutex.
func cloneSurvey(survey model.Survey) model.Survey {
	if survey.Questions != nil {
		questions := make([]model.Question, len(survey.Questions))
		copy(questions, survey.Questions)
		for i := range questions {
			if questions[i].Options != nil {
				options := make([]string, len(questions[i].Options))
				copy(options, questions[i].Options)
				questions[i].Options = options
			}
		}
		survey.Questions = questions
	}
	return survey
}

func (r *surveyRepository) Save(_ context.Context, survey *model.Survey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surveys[survey.ID] = cloneSurvey(*survey)
	return nil
}

func (r *surveyRepository) FindByID(_ context.Context, id string) (*model.Survey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	survey, ok := r.surveys[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	survey = cloneSurvey(survey)
	return &survey, nil
}

func (r *surveyRepository) FindAll(_ context.Context) ([]model.Survey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	surveys := make([]model.Survey, 0, len(r.surveys))
	for _, s := range r.surveys {
		surveys = append(surveys, cloneSurvey(s))
	}
	return surveys, nil
}

func (r *surveyRepository) FindByOwner(_ context.Context, ownerID string) ([]model.Survey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	surveys := []model.Survey{}
	for _, s := range r.surveys {
		if s.CreatedBy == ownerID {
			surveys = append(surveys, cloneSurvey(s))
		}
	}
	return surveys, nil
}

func (r *surveyRepository) FindByPublished(_ context.Context, published bool) ([]model.Survey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	surveys := []model.Survey{}
	for _, s := range r.surveys {
		if s.Published == published {
			surveys = append(surveys, cloneSurvey(s))
		}
	}
	return surveys, nil
}

func (r *surveyRepository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.surveys, id)
	return nil
}

type responseRepository struct {
	mu        sync.RWMutex
	responses map[string]model.SurveyResponse
}

func cloneResponse(response model.SurveyResponse) model.SurveyResponse {
	if response.Answers != nil {
		answers := make([]model.Answer, len(response.Answers))
		copy(answers, response.Answers)
		for i := range answers {
			if answers[i].Value != nil {
				value := make([]string, len(answers[i].Value))
				copy(value, answers[i].Value)
				answers[i].Value = value
			}
		}
		response.Answers = answers
	}
	return response
}

func (r *responseRepository) Save(_ context.Context, response *model.SurveyResponse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[response.ID] = cloneResponse(*response)
	return nil
}

func (r *responseRepository) FindBySurveyID(_ context.Context, surveyID string) ([]model.SurveyResponse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	responses := []model.SurveyResponse{}
	for _, resp := range r.responses {
		if resp.SurveyID == surveyID {
			responses = append(responses, cloneResponse(resp))
		}
	}
	return responses, nil
}

func (r *responseRepository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.responses, id)
	return nil
}

type userRepository struct {
	mu    sync.RWMutex
	users map[string]model.User // keyed by email
}

func (r *userRepository) Save(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.Email] = *user
	return nil
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[email]
	return ok, nil
}
