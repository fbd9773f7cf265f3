package handler

import (
	"errors"
	"log"
	"net/http"

	"notes-server/internal/service"
	"notes-server/internal/validation"
	"notes-server/pkg/response"
)

// writeError is the one place service and validation errors become HTTP
// responses. Validation failures answer 400 with the field error list,
// not-found answers a bare 404, everything else is a logged 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		response.JSON(w, http.StatusBadRequest, verr.Failures)
		return
	}

	if errors.Is(err, service.ErrNoteNotFound) {
		response.NotFound(w)
		return
	}

	log.Printf("unhandled error serving %s %s: %v", r.Method, r.URL.Path, err)
	response.InternalError(w, err.Error())
}
