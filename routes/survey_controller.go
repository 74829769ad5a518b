package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/mbolis/survey-api/app"
	"github.com/mbolis/survey-api/httpx"
	"github.com/mbolis/survey-api/log"
	"github.com/mbolis/survey-api/model"
	"github.com/mbolis/survey-api/routes/middlewares"
	"github.com/mbolis/survey-api/survey"
)

func CreateSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input := survey.SurveyInput{}
		err := render.DecodeJSON(r.Body, &input)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		created, err := app.Surveys.Create(r.Context(), input, middlewares.UserID(r))
		if err != nil {
			httpx.ServiceError(w, r, "survey.create", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, created)
	}
}

func ListSurveys(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveys, err := app.Surveys.ListAll(r.Context())
		if err != nil {
			httpx.ServiceError(w, r, "survey.list", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"surveys": surveys,
		})
	}
}

func ListMySurveys(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveys, err := app.Surveys.ListByOwner(r.Context(), middlewares.UserID(r))
		if err != nil {
			httpx.ServiceError(w, r, "survey.list_mine", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"surveys": surveys,
		})
	}
}

func GetSurveyById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		found, err := app.Surveys.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			httpx.ServiceError(w, r, "survey.get", err)
			return
		}

		render.JSON(w, r, found)
	}
}

func UpdateSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input := survey.SurveyInput{}
		err := render.DecodeJSON(r.Body, &input)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		updated, err := app.Surveys.Update(r.Context(), chi.URLParam(r, "id"), input, middlewares.UserID(r))
		if err != nil {
			httpx.ServiceError(w, r, "survey.update", err)
			return
		}

		render.JSON(w, r, updated)
	}
}

func DeleteSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := app.Surveys.Delete(r.Context(), chi.URLParam(r, "id"), middlewares.UserID(r))
		if err != nil {
			httpx.ServiceError(w, r, "survey.delete", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func PublishSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		published, err := app.Surveys.Publish(r.Context(), chi.URLParam(r, "id"), middlewares.UserID(r))
		if err != nil {
			httpx.ServiceError(w, r, "survey.publish", err)
			return
		}

		render.JSON(w, r, published)
	}
}

func AddQuestion(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		question := model.Question{}
		err := render.DecodeJSON(r.Body, &question)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		updated, err := app.Surveys.AddQuestion(r.Context(), chi.URLParam(r, "id"), question, middlewares.UserID(r))
		if err != nil {
			httpx.ServiceError(w, r, "survey.add_question", err)
			return
		}

		render.JSON(w, r, updated)
	}
}

func UpdateQuestion(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		question := model.Question{}
		err := render.DecodeJSON(r.Body, &question)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		updated, err := app.Surveys.UpdateQuestion(
			r.Context(),
			chi.URLParam(r, "id"),
			chi.URLParam(r, "questionId"),
			question,
			middlewares.UserID(r),
		)
		if err != nil {
			httpx.ServiceError(w, r, "survey.update_question", err)
			return
		}

		render.JSON(w, r, updated)
	}
}

func DeleteQuestion(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		updated, err := app.Surveys.DeleteQuestion(
			r.Context(),
			chi.URLParam(r, "id"),
			chi.URLParam(r, "questionId"),
			middlewares.UserID(r),
		)
		if err != nil {
			httpx.ServiceError(w, r, "survey.delete_question", err)
			return
		}

		render.JSON(w, r, updated)
	}
}
