package shared

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// RespondJSON writes v as a JSON body with the given status.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

type errorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// RespondError maps the error taxonomy onto HTTP statuses and writes a JSON
// error body. Validation failures carry every accumulated message; unmapped
// errors are logged server-side and masked in the response.
func RespondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var cfgErr *ConfigurationError
	var stateErr *InvalidStateError
	var valErr *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		RespondJSON(w, http.StatusNotFound, errorBody{Error: UserSafeMessage(err)})
	case errors.Is(err, ErrForbidden):
		RespondJSON(w, http.StatusForbidden, errorBody{Error: UserSafeMessage(err)})
	case errors.As(err, &valErr):
		RespondJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "validation failed", Details: valErr.Messages})
	case errors.As(err, &stateErr):
		RespondJSON(w, http.StatusConflict, errorBody{Error: stateErr.Error()})
	case errors.As(err, &cfgErr):
		RespondJSON(w, http.StatusPreconditionFailed, errorBody{Error: cfgErr.Error()})
	default:
		if logger != nil {
			logger.Error("request failed", slog.Any("error", err))
		}
		RespondJSON(w, http.StatusInternalServerError, errorBody{Error: UserSafeMessage(err)})
	}
}

// DecodeJSON parses the request body into dst, limiting body size and
// rejecting unknown fields.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		verr := &ValidationError{}
		verr.Add("Request body is not valid JSON: %v", err)
		return verr
	}
	return nil
}
