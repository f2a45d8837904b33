// Package response writes raw JSON bodies and renders errors as
// {"error": "<message>"} with the status mapped from apperr kinds.
package response

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/resellbd/resell-api/pkg/apperr"
)

type errorBody struct {
	Error string `json:"error"`
}

// JSON writes v as the response body with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Error sends {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorBody{Error: message})
}

// Fail renders err according to its apperr kind. Internal errors never leak
// their cause to the client.
func Fail(w http.ResponseWriter, err error) {
	Error(w, apperr.KindOf(err).Status(), apperr.Message(err))
}

// ValidationError sends a 400 carrying the first field error, ordered by
// field name so the message is stable.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	Error(w, http.StatusBadRequest, FirstError(errs))
}

// FirstError picks a deterministic message out of a validation error map.
func FirstError(errs map[string]string) string {
	if len(errs) == 0 {
		return ""
	}
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return errs[fields[0]]
}
