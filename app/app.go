package app

import (
	"github.com/go-chi/oauth"
	"github.com/mbolis/survey-api/config"
	"github.com/mbolis/survey-api/storage"
	"github.com/mbolis/survey-api/survey"
)

type App struct {
	Surveys   *survey.Service
	Responses *survey.ResponseService
	Users     storage.UserRepository
	*oauth.BearerServer
	config.Config
}
