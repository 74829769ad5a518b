package httpx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"github.com/mbolis/survey-api/log"
	"github.com/mbolis/survey-api/survey"
)

// Will log an error, and send an HTTP response with status 500 and default text
func LogInternalError(w http.ResponseWriter, code string, err error) {
	log.Errorf("%s: %s", code, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Will log an error code at the given level, and send
// an HTTP response with status and default text
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code)
	http.Error(w, http.StatusText(status), status)
}

// Will log an error code and message at the given level,
// and send an HTTP response with the given status and formatted message
func LogStatusMsg(w http.ResponseWriter, status int, level log.Level, code string, msg string, args ...any) {
	errMsg := fmt.Sprintf(msg, args...)
	log.Log(level, code+":", errMsg)
	http.Error(w, errMsg, status)
}

// ServiceError maps the survey error taxonomy to a client status and sends
// the human-readable message as a JSON body. Anything outside the taxonomy
// is an internal error.
func ServiceError(w http.ResponseWriter, r *http.Request, code string, err error) {
	var status int
	switch {
	case errors.Is(err, survey.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, survey.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, survey.ErrNotPublished):
		status = http.StatusForbidden
	case errors.Is(err, survey.ErrExpired):
		status = http.StatusGone
	case errors.Is(err, survey.ErrValidation):
		status = http.StatusBadRequest
	default:
		LogInternalError(w, code, err)
		return
	}

	log.Debugf("%s: %s", code, err)
	render.Status(r, status)
	render.JSON(w, r, map[string]any{"error": err.Error()})
}
