package common

import (
	"encoding/json"
	"net/http"

	pkgerrors "nexusboard/pkg/errors"
)

// Payload is a response body under construction. Every response carries a
// top-level "success" flag; all other fields sit beside it, matching the
// contract the board client expects.
type Payload map[string]interface{}

// RespondSuccess writes a JSON body with success=true plus the given fields.
func RespondSuccess(w http.ResponseWriter, status int, fields Payload) {
	body := Payload{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	writeJSON(w, status, body)
}

// RespondError writes a JSON body with success=false and an error message.
func RespondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Payload{
		"success": false,
		"error":   message,
	})
}

// RespondAppError maps an AppError onto the wire envelope.
func RespondAppError(w http.ResponseWriter, err error) {
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		RespondError(w, appErr.HTTPStatus, appErr.Message)
		return
	}
	RespondError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
