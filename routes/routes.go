package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mbolis/survey-api/app"
	"github.com/mbolis/survey-api/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	// public endpoints: no identity required
	api.Get("/surveys/published", ListPublishedSurveys(app))
	api.Get("/surveys/public/{id}", PublicGetSurveyById(app))
	api.Post("/surveys/{id}/responses", PublicSubmitResponse(app))
	api.Get("/surveys/{id}/responses", PublicListResponses(app))

	// owner endpoints
	auth := middlewares.Authenticated(app.TokenSecret)
	api.With(auth).Post("/surveys", CreateSurvey(app))
	api.With(auth).Get("/surveys", ListSurveys(app))
	api.With(auth).Get("/surveys/my-surveys", ListMySurveys(app))
	api.With(auth).Get("/surveys/{id}", GetSurveyById(app))
	api.With(auth).Put("/surveys/{id}", UpdateSurvey(app))
	api.With(auth).Delete("/surveys/{id}", DeleteSurvey(app))
	api.With(auth).Put("/surveys/{id}/publish", PublishSurvey(app))
	api.With(auth).Post("/surveys/{id}/questions", AddQuestion(app))
	api.With(auth).Put("/surveys/{id}/questions/{questionId}", UpdateQuestion(app))
	api.With(auth).Delete("/surveys/{id}/questions/{questionId}", DeleteQuestion(app))

	api.Post("/register", Register(app))
	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}
