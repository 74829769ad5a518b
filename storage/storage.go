package storage

import (
	"context"
	"errors"

	"github.com/mbolis/survey-api/model"
)

// ErrNotFound is returned by every adapter when a lookup misses.
var ErrNotFound = errors.New("not found")

// SurveyRepository persists whole survey aggregates. Save overwrites the
// full aggregate, questions included: adapters only need to serialize writes
// to a single key, never across keys.
type SurveyRepository interface {
	Save(ctx context.Context, survey *model.Survey) error
	FindByID(ctx context.Context, id string) (*model.Survey, error)
	FindAll(ctx context.Context) ([]model.Survey, error)
	FindByOwner(ctx context.Context, ownerID string) ([]model.Survey, error)
	FindByPublished(ctx context.Context, published bool) ([]model.Survey, error)
	DeleteByID(ctx context.Context, id string) error
}

// ResponseRepository persists immutable survey responses.
type ResponseRepository interface {
	Save(ctx context.Context, response *model.SurveyResponse) error
	FindBySurveyID(ctx context.Context, surveyID string) ([]model.SurveyResponse, error)
	DeleteByID(ctx context.Context, id string) error
}

// UserRepository backs credential verification in the HTTP layer. The survey
// core never touches it: it only ever sees the already-verified owner id.
type UserRepository interface {
	Save(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// Store bundles the repositories of one backend.
type Store struct {
	Surveys   SurveyRepository
	Responses ResponseRepository
	Users     UserRepository

	closer func() error
}

func NewStore(surveys SurveyRepository, responses ResponseRepository, users UserRepository, closer func() error) *Store {
	return &Store{Surveys: surveys, Responses: responses, Users: users, closer: closer}
}

func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
