package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/mbolis/survey-api/app"
	"github.com/mbolis/survey-api/httpx"
	"github.com/mbolis/survey-api/log"
	"github.com/mbolis/survey-api/survey"
)

func ListPublishedSurveys(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveys, err := app.Surveys.ListPublished(r.Context())
		if err != nil {
			httpx.ServiceError(w, r, "survey.list_published", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"surveys": surveys,
		})
	}
}

func PublicGetSurveyById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		found, err := app.Surveys.GetPublic(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			httpx.ServiceError(w, r, "survey.get_public", err)
			return
		}

		render.JSON(w, r, found)
	}
}

func PublicSubmitResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input := survey.SubmissionInput{}
		err := render.DecodeJSON(r.Body, &input)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		response, err := app.Responses.Submit(r.Context(), chi.URLParam(r, "id"), input)
		if err != nil {
			httpx.ServiceError(w, r, "response.submit", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response)
	}
}

func PublicListResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses, err := app.Responses.ListBySurvey(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			httpx.ServiceError(w, r, "response.list", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"responses": responses,
		})
	}
}
